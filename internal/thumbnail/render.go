package thumbnail

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/roach88/sceneforge/internal/ir"
)

// DefaultSize is the edge length of a thumbnail in pixels.
const DefaultSize = 128

// ErrEmptyShape is returned for shapes without any coordinates.
var ErrEmptyShape = errors.New("shape has no geometry")

// bitmapGray stands in for bitmap fills.
var bitmapGray = color.NRGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}

// Render rasterizes a shape into a size x size image, scaled to fit with
// its aspect ratio kept and centered.
func Render(s ir.Shape, size int) (*image.RGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("thumbnail size must be positive, got %d", size)
	}
	box, ok := bounds(s)
	if !ok {
		return nil, ErrEmptyShape
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	filler := rasterx.NewFiller(size, size, scanner)
	dasher := rasterx.NewDasher(size, size, scanner)

	// one pixel of margin on each side
	span := math.Max(box.w(), box.h())
	scale := 1.0
	if span > 0 {
		scale = float64(size-2) / span
	}
	m := rasterx.Identity.
		Translate(float64(size)/2, float64(size)/2).
		Scale(scale, scale).
		Translate(-(box.minX+box.maxX)/2, -(box.minY+box.maxY)/2)

	for i, p := range s.Paths {
		c, err := paint(p.Fill)
		if err != nil {
			return nil, fmt.Errorf("path %d: %w", i, err)
		}
		if p.IsStroke {
			width := 1.0
			style, _ := p.Stroke.(ir.SolidStroke)
			if style.Thickness > 0 {
				width = style.Thickness
			}
			dasher.SetStroke(
				fixed.Int26_6(width*scale*64),
				fixed.Int26_6(miterLimit(style)*64),
				capFunc(style.Cap), capFunc(style.Cap), rasterx.RoundGap,
				joinMode(style.Join), nil, 0,
			)
			dasher.SetColor(c)
			trace(dasher, p.Data, m, false)
			dasher.Draw()
			dasher.Clear()
			continue
		}
		// holes are cut out by even-odd filling
		filler.SetWinding(false)
		filler.SetColor(c)
		trace(filler, p.Data, m, true)
		filler.Draw()
		filler.Clear()
	}
	return img, nil
}

// adder is the path interface shared by rasterx fillers and dashers.
type adder interface {
	Start(a fixed.Point26_6)
	Line(b fixed.Point26_6)
	QuadBezier(b, c fixed.Point26_6)
	Stop(closeLoop bool)
}

// trace feeds a command stream to a rasterizer. A coordinate pair with no
// pending command starts a new subpath.
func trace(a adder, data ir.PathData, m rasterx.Matrix2D, closeSubpaths bool) {
	var (
		nums []float64
		op   string
		open bool
	)
	point := func(i int) fixed.Point26_6 {
		x, y := m.Transform(nums[i], nums[i+1])
		return rasterx.ToFixedP(x, y)
	}
	stop := func() {
		if open {
			a.Stop(closeSubpaths)
			open = false
		}
	}

	for _, t := range data {
		if t.IsOp() {
			switch t.Op {
			case ir.CmdClosePath, ir.CmdBeginHole, ir.CmdEndHole:
				stop()
				op = ""
			case ir.CmdMoveTo:
				stop()
				op = ""
			default:
				op = t.Op
			}
			nums = nums[:0]
			continue
		}
		nums = append(nums, t.Num)
		switch {
		case op == "" && len(nums) == 2:
			stop()
			a.Start(point(0))
			open = true
			nums = nums[:0]
		case op == ir.CmdLineTo && len(nums) == 2:
			a.Line(point(0))
			nums = nums[:0]
		case op == ir.CmdQuadTo && len(nums) == 4:
			a.QuadBezier(point(0), point(2))
			nums = nums[:0]
		}
	}
	stop()
}

type box struct {
	minX, minY, maxX, maxY float64
}

func (b box) w() float64 { return b.maxX - b.minX }
func (b box) h() float64 { return b.maxY - b.minY }

// bounds returns the extent of every coordinate in the shape, control
// points included, grown by half of the widest stroke.
func bounds(s ir.Shape) (box, bool) {
	b := box{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	found := false
	pad := 0.0
	for _, p := range s.Paths {
		if style, ok := p.Stroke.(ir.SolidStroke); ok && p.IsStroke {
			pad = math.Max(pad, style.Thickness/2)
		}
		var nums []float64
		for _, t := range p.Data {
			if t.IsOp() {
				nums = nums[:0]
				continue
			}
			nums = append(nums, t.Num)
			if len(nums) == 2 {
				b.minX, b.maxX = math.Min(b.minX, nums[0]), math.Max(b.maxX, nums[0])
				b.minY, b.maxY = math.Min(b.minY, nums[1]), math.Max(b.maxY, nums[1])
				found = true
				nums = nums[:0]
			}
		}
	}
	b.minX, b.minY = b.minX-pad, b.minY-pad
	b.maxX, b.maxY = b.maxX+pad, b.maxY+pad
	return b, found
}

// paint resolves the color a path is drawn with.
func paint(f ir.Fill) (color.Color, error) {
	switch f := f.(type) {
	case nil:
		return color.Black, nil
	case ir.SolidFill:
		c, err := parseHex(f.Color)
		if err != nil {
			return nil, err
		}
		return rasterx.ApplyOpacity(c, f.Alpha), nil
	case ir.LinearGradient:
		return firstStop(f.Stops)
	case ir.RadialGradient:
		return firstStop(f.Stops)
	case ir.BitmapFill:
		return bitmapGray, nil
	}
	return nil, fmt.Errorf("unsupported fill %T", f)
}

func firstStop(stops []ir.GradientStop) (color.Color, error) {
	if len(stops) == 0 {
		return color.Transparent, nil
	}
	c, err := parseHex(stops[0].Color)
	if err != nil {
		return nil, err
	}
	return rasterx.ApplyOpacity(c, stops[0].Opacity), nil
}

// parseHex reads an RRGGBB color.
func parseHex(s string) (color.NRGBA, error) {
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func capFunc(c ir.CapStyle) rasterx.CapFunc {
	switch c {
	case ir.CapNone:
		return rasterx.ButtCap
	case ir.CapSquare:
		return rasterx.SquareCap
	}
	return rasterx.RoundCap
}

func joinMode(j ir.JoinStyle) rasterx.JoinMode {
	switch j {
	case ir.JoinMiter:
		return rasterx.Miter
	case ir.JoinBevel:
		return rasterx.Bevel
	}
	return rasterx.Round
}

func miterLimit(s ir.SolidStroke) float64 {
	if s.Join == ir.JoinMiter && s.MiterLimit > 0 {
		return s.MiterLimit
	}
	return 4
}
