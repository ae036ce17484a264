// Package shape assembles path command streams for shape fills, holes
// and strokes.
package shape

import "github.com/roach88/sceneforge/internal/ir"

// Segment is one edge of a path. Implemented by Line and Quad.
type Segment interface {
	// Anchor is the point the segment starts from.
	Anchor() ir.Point
	appendTo(*ir.PathData)
}

// Line is a straight edge.
type Line struct {
	From ir.Point
	To   ir.Point
}

// Anchor implements Segment.
func (l Line) Anchor() ir.Point { return l.From }

func (l Line) appendTo(d *ir.PathData) {
	d.Op(ir.CmdLineTo)
	d.Point(l.To)
}

// Quad is a quadratic Bezier edge.
type Quad struct {
	From    ir.Point
	Control ir.Point
	To      ir.Point
}

// Anchor implements Segment.
func (q Quad) Anchor() ir.Point { return q.From }

func (q Quad) appendTo(d *ir.PathData) {
	d.Op(ir.CmdQuadTo)
	d.Point(q.Control)
	d.Point(q.To)
}

// PathBuilder builds one command stream. The first coordinate pair of
// each (sub)path is written without a command token; it places the pen.
type PathBuilder struct {
	data  ir.PathData
	first bool
}

// StartPath begins a (sub)path. The next segment writes its anchor first.
func (b *PathBuilder) StartPath() {
	b.first = true
}

// AddSegment appends a segment.
func (b *PathBuilder) AddSegment(s Segment) {
	if b.first {
		b.data.Point(s.Anchor())
		b.first = false
	}
	s.appendTo(&b.data)
}

// StartHole begins a hole nested in the current fill.
func (b *PathBuilder) StartHole() {
	b.data.Op(ir.CmdBeginHole)
	b.StartPath()
}

// EndHole ends the current hole.
func (b *PathBuilder) EndHole() {
	b.data.Op(ir.CmdEndHole)
}

// Close appends the close-path command.
func (b *PathBuilder) Close() {
	b.data.Op(ir.CmdClosePath)
}

// Data returns the command stream built so far.
func (b *PathBuilder) Data() ir.PathData {
	return b.data
}
