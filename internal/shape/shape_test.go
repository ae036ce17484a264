package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sceneforge/internal/ir"
)

func pt(x, y float64) ir.Point { return ir.Point{X: x, Y: y} }

// tokens renders a command stream as the JSON array values it encodes to.
func tokens(d ir.PathData) []any {
	return d.JSONValue().([]any)
}

func TestPathBuilder_TriangleFill(t *testing.T) {
	p0, p1, p2 := pt(0, 0), pt(10, 0), pt(5, 8)

	b := New()
	b.StartFill()
	b.SetFill(ir.SolidFill{Color: "ff0000", Alpha: 1})
	b.StartBoundary()
	b.AddSegment(Line{From: p0, To: p1})
	b.AddSegment(Line{From: p1, To: p2})
	b.AddSegment(Line{From: p2, To: p0})
	b.EndFill()

	s := b.Build(7)
	require.Len(t, s.Paths, 1)
	assert.Equal(t, uint32(7), s.AssetID)
	assert.False(t, s.Paths[0].IsStroke)
	assert.Equal(t, []any{
		0.0, 0.0,
		"l", 10.0, 0.0,
		"l", 5.0, 8.0,
		"l", 0.0, 0.0,
		"cp",
	}, tokens(s.Paths[0].Data))
}

func TestPathBuilder_FirstQuadEmitsAnchor(t *testing.T) {
	var b PathBuilder
	b.StartPath()
	b.AddSegment(Quad{From: pt(1, 2), Control: pt(3, 4), To: pt(5, 6)})
	b.AddSegment(Quad{From: pt(5, 6), Control: pt(7, 8), To: pt(9, 10)})

	assert.Equal(t, []any{
		1.0, 2.0,
		"q", 3.0, 4.0, 5.0, 6.0,
		"q", 7.0, 8.0, 9.0, 10.0,
	}, tokens(b.Data()))
}

func TestPathBuilder_NoLeadingMoveToken(t *testing.T) {
	var b PathBuilder
	b.StartPath()
	b.AddSegment(Line{From: pt(1, 1), To: pt(2, 2)})

	data := b.Data()
	require.NotEmpty(t, data)
	assert.False(t, data[0].IsOp(), "first element must be a coordinate")
}

func TestShape_FillWithHole(t *testing.T) {
	b := New()
	b.StartFill()
	b.StartBoundary()
	b.AddSegment(Line{From: pt(0, 0), To: pt(10, 0)})
	b.AddSegment(Line{From: pt(10, 0), To: pt(0, 0)})
	b.StartHole()
	b.AddSegment(Line{From: pt(2, 2), To: pt(3, 3)})
	b.EndHole()
	b.EndFill()

	s := b.Build(1)
	require.Len(t, s.Paths, 1)
	assert.Equal(t, []any{
		0.0, 0.0, "l", 10.0, 0.0, "l", 0.0, 0.0,
		"bh", 2.0, 2.0, "l", 3.0, 3.0, "eh",
		"cp",
	}, tokens(s.Paths[0].Data))
}

func TestShape_StrokeIsNotClosed(t *testing.T) {
	stroke := ir.SolidStroke{Thickness: 2, Cap: ir.CapRound, Join: ir.JoinMiter, MiterLimit: 3}

	b := New()
	b.StartStroke()
	b.SetStroke(stroke)
	b.SetFill(ir.SolidFill{Color: "000000", Alpha: 1})
	b.AddSegment(Line{From: pt(0, 0), To: pt(4, 0)})
	b.AddSegment(Line{From: pt(4, 0), To: pt(4, 4)})
	b.EndStroke()

	s := b.Build(2)
	require.Len(t, s.Paths, 1)
	p := s.Paths[0]
	assert.True(t, p.IsStroke)
	assert.Equal(t, stroke, p.Stroke)
	assert.Equal(t, []any{0.0, 0.0, "l", 4.0, 0.0, "l", 4.0, 4.0}, tokens(p.Data))
}

func TestShape_PathsKeepOrder(t *testing.T) {
	b := New()
	b.StartFill()
	b.SetFill(ir.SolidFill{Color: "111111", Alpha: 1})
	b.StartBoundary()
	b.AddSegment(Line{From: pt(0, 0), To: pt(1, 0)})
	b.EndFill()
	b.StartStroke()
	b.AddSegment(Line{From: pt(0, 0), To: pt(1, 0)})
	b.EndStroke()
	b.StartFill()
	b.SetFill(ir.SolidFill{Color: "333333", Alpha: 1})
	b.StartBoundary()
	b.AddSegment(Line{From: pt(0, 0), To: pt(1, 0)})
	b.EndFill()

	s := b.Build(3)
	require.Len(t, s.Paths, 3)
	assert.Equal(t, "111111", s.Paths[0].Fill.(ir.SolidFill).Color)
	assert.True(t, s.Paths[1].IsStroke)
	assert.Equal(t, "333333", s.Paths[2].Fill.(ir.SolidFill).Color)
}

func TestPatternTransform(t *testing.T) {
	m := PatternTransform(ir.Matrix{A: 20, B: 40, C: -20, D: 10, TX: 3, TY: 4})
	assert.Equal(t, ir.Matrix{A: 1, B: 2, C: -1, D: 0.5, TX: 3, TY: 4}, m)
}
