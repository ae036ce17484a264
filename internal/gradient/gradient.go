// Package gradient converts authored gradient fills into output vectors.
//
// Authored gradients are defined on a canonical square of half-length
// VectorConstant twips, mapped into place by an affine matrix. Output
// gradients are explicit endpoints (linear) or a centre, radius and focal
// point plus a residual transform (radial).
package gradient

import (
	"math"

	"github.com/srwiley/rasterx"

	"github.com/roach88/sceneforge/internal/ir"
)

// VectorConstant is the half-length of the canonical gradient square in
// authoring units.
const VectorConstant = 16384.0

// HalfLength is VectorConstant converted to output units.
const HalfLength = VectorConstant / ir.TwipsPerPixel

// degenerateRadius is the radius below which a radial gradient collapses
// to a point.
const degenerateRadius = 1e-9

// Stop is an authored color stop. Position runs from 0 to 255.
type Stop struct {
	Position uint8    `yaml:"position"`
	Color    ir.Color `yaml:"color"`
}

// ConvertStop maps an authored stop to an output stop: position to a
// percentage and alpha to [0,1].
func ConvertStop(s Stop) ir.GradientStop {
	return ir.GradientStop{
		Offset:  float64(s.Position) * 100 / 255,
		Color:   s.Color.Hex(),
		Opacity: s.Color.Alpha(),
	}
}

// Linear computes the output vector of a linear gradient.
func Linear(m ir.Matrix, spread ir.SpreadMethod, stops []ir.GradientStop) ir.LinearGradient {
	t := toRaster(m)
	x1, y1 := t.Transform(-HalfLength, 0)
	x2, y2 := t.Transform(HalfLength, 0)
	return ir.LinearGradient{
		X1:     x1,
		Y1:     y1,
		X2:     x2,
		Y2:     y2,
		Spread: spread,
		Stops:  stops,
	}
}

// Radial computes the output circle of a radial gradient. focalPoint
// runs from -255 to 255 and moves the focus along the gradient's x axis.
//
// A matrix that collapses the canonical circle to a point yields a
// zero-radius gradient with the focus at the centre and the matrix left
// unscaled.
func Radial(m ir.Matrix, focalPoint int32, spread ir.SpreadMethod, stops []ir.GradientStop) ir.RadialGradient {
	t := toRaster(m)
	x1, y1 := t.Transform(0, 0)
	x2, y2 := t.Transform(HalfLength, 0)
	xd, yd := x1-x2, y1-y2
	r := math.Hypot(xd, yd)

	g := ir.RadialGradient{
		Transform: m,
		Spread:    spread,
		Stops:     stops,
	}
	if r < degenerateRadius {
		return g
	}

	ratio := float64(focalPoint) / 255
	angle := math.Atan2(yd, xd)
	g.R = r
	g.FX = -r * ratio * math.Cos(angle)
	g.FY = -r * ratio * math.Sin(angle)

	scale := HalfLength / r
	g.Transform.A *= scale
	g.Transform.B *= scale
	g.Transform.C *= scale
	g.Transform.D *= scale
	return g
}

func toRaster(m ir.Matrix) rasterx.Matrix2D {
	return rasterx.Matrix2D{A: m.A, B: m.B, C: m.C, D: m.D, E: m.TX, F: m.TY}
}

// Builder accumulates the stops of one gradient fill between its start
// and end events.
type Builder struct {
	radial bool
	matrix ir.Matrix
	spread ir.SpreadMethod
	focal  int32
	stops  []ir.GradientStop
}

// NewLinear opens a linear gradient.
func NewLinear(m ir.Matrix, spread ir.SpreadMethod) *Builder {
	return &Builder{matrix: m, spread: spread}
}

// NewRadial opens a radial gradient.
func NewRadial(m ir.Matrix, spread ir.SpreadMethod, focalPoint int32) *Builder {
	return &Builder{radial: true, matrix: m, spread: spread, focal: focalPoint}
}

// AddStop appends a stop. Stops keep their arrival order.
func (b *Builder) AddStop(s Stop) {
	b.stops = append(b.stops, ConvertStop(s))
}

// Radial reports whether the builder produces a radial gradient.
func (b *Builder) Radial() bool {
	return b.radial
}

// Fill returns the finished gradient.
func (b *Builder) Fill() ir.Fill {
	if b.radial {
		return Radial(b.matrix, b.focal, b.spread, b.stops)
	}
	return Linear(b.matrix, b.spread, b.stops)
}
