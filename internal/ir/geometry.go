package ir

import "fmt"

// TwipsPerPixel is the unit-conversion factor between authoring units
// (twips) and output units (pixels).
const TwipsPerPixel = 20.0

// Point is a 2D coordinate in output units.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Matrix is a 2x3 affine transform laid out as
//
//	| A C TX |
//	| B D TY |
type Matrix struct {
	A  float64 `yaml:"a"`
	B  float64 `yaml:"b"`
	C  float64 `yaml:"c"`
	D  float64 `yaml:"d"`
	TX float64 `yaml:"tx"`
	TY float64 `yaml:"ty"`
}

// Identity is the identity transform.
var Identity = Matrix{A: 1, D: 1}

// IsIdentity reports whether m leaves every point unchanged.
func (m Matrix) IsIdentity() bool {
	return m == Identity
}

// JSONValue implements Valuer.
func (m Matrix) JSONValue() any {
	return Object{}.
		Set("a", m.A).
		Set("b", m.B).
		Set("c", m.C).
		Set("d", m.D).
		Set("tx", m.TX).
		Set("ty", m.TY)
}

// Color is an 8-bit RGBA color.
type Color struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
	A uint8 `yaml:"a"`
}

// Hex returns the color as a 6-digit lowercase RRGGBB string.
func (c Color) Hex() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// Alpha returns the alpha channel mapped to [0,1].
func (c Color) Alpha() float64 {
	return float64(c.A) / 255
}

// ColorTransform multiplies and offsets each channel of a placed object.
type ColorTransform struct {
	RedMultiplier   float64 `yaml:"red_multiplier"`
	GreenMultiplier float64 `yaml:"green_multiplier"`
	BlueMultiplier  float64 `yaml:"blue_multiplier"`
	AlphaMultiplier float64 `yaml:"alpha_multiplier"`
	RedOffset       float64 `yaml:"red_offset"`
	GreenOffset     float64 `yaml:"green_offset"`
	BlueOffset      float64 `yaml:"blue_offset"`
	AlphaOffset     float64 `yaml:"alpha_offset"`
}

// IdentityColorTransform leaves colors unchanged.
var IdentityColorTransform = ColorTransform{
	RedMultiplier:   1,
	GreenMultiplier: 1,
	BlueMultiplier:  1,
	AlphaMultiplier: 1,
}

// JSONValue implements Valuer.
func (ct ColorTransform) JSONValue() any {
	return Object{}.
		Set("redMultiplier", ct.RedMultiplier).
		Set("redOffset", ct.RedOffset).
		Set("greenMultiplier", ct.GreenMultiplier).
		Set("greenOffset", ct.GreenOffset).
		Set("blueMultiplier", ct.BlueMultiplier).
		Set("blueOffset", ct.BlueOffset).
		Set("alphaMultiplier", ct.AlphaMultiplier).
		Set("alphaOffset", ct.AlphaOffset)
}
