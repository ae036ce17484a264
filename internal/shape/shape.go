package shape

import "github.com/roach88/sceneforge/internal/ir"

// Builder assembles one shape resource from its fills and strokes.
//
// Event order is enforced by the caller; Builder only tracks the path
// currently open (a fill or a stroke). A fill's boundary and holes share
// one command stream that is closed when the fill ends. A stroke stream
// ends where its last segment ends.
type Builder struct {
	paths []ir.Path
	open  *openPath
}

type openPath struct {
	path     PathBuilder
	fill     ir.Fill
	stroke   ir.Stroke
	isStroke bool
}

// New returns an empty shape builder.
func New() *Builder {
	return &Builder{}
}

// StartFill opens a fill path.
func (b *Builder) StartFill() {
	b.open = &openPath{}
}

// StartStroke opens a stroke path. The stroke stream starts immediately.
func (b *Builder) StartStroke() {
	b.open = &openPath{isStroke: true}
	b.open.path.StartPath()
}

// SetFill sets the paint of the open path. For strokes this is the color
// or gradient of the outline.
func (b *Builder) SetFill(f ir.Fill) {
	if b.open != nil {
		b.open.fill = f
	}
}

// SetStroke sets the outline style of the open stroke.
func (b *Builder) SetStroke(s ir.Stroke) {
	if b.open != nil {
		b.open.stroke = s
	}
}

// StartBoundary begins the outer boundary of the open fill.
func (b *Builder) StartBoundary() {
	if b.open != nil {
		b.open.path.StartPath()
	}
}

// StartHole begins a hole in the open fill.
func (b *Builder) StartHole() {
	if b.open != nil {
		b.open.path.StartHole()
	}
}

// EndHole ends the current hole.
func (b *Builder) EndHole() {
	if b.open != nil {
		b.open.path.EndHole()
	}
}

// AddSegment appends a segment to the open path.
func (b *Builder) AddSegment(s Segment) {
	if b.open != nil {
		b.open.path.AddSegment(s)
	}
}

// EndFill closes the fill stream and appends the finished path.
func (b *Builder) EndFill() {
	if b.open == nil {
		return
	}
	b.open.path.Close()
	b.finish()
}

// EndStroke appends the finished stroke path.
func (b *Builder) EndStroke() {
	if b.open == nil {
		return
	}
	b.finish()
}

func (b *Builder) finish() {
	b.paths = append(b.paths, ir.Path{
		Data:     b.open.path.Data(),
		Fill:     b.open.fill,
		Stroke:   b.open.stroke,
		IsStroke: b.open.isStroke,
	})
	b.open = nil
}

// Build returns the finished shape.
func (b *Builder) Build(assetID uint32) ir.Shape {
	return ir.Shape{AssetID: assetID, Paths: b.paths}
}

// PatternTransform converts a bitmap fill matrix to an output pattern
// transform: the linear part is authored in twips, the translation is not.
func PatternTransform(m ir.Matrix) ir.Matrix {
	return ir.Matrix{
		A:  m.A / ir.TwipsPerPixel,
		B:  m.B / ir.TwipsPerPixel,
		C:  m.C / ir.TwipsPerPixel,
		D:  m.D / ir.TwipsPerPixel,
		TX: m.TX,
		TY: m.TY,
	}
}
