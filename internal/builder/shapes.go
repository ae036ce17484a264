package builder

import (
	"fmt"

	"github.com/roach88/sceneforge/internal/gradient"
	"github.com/roach88/sceneforge/internal/ir"
	"github.com/roach88/sceneforge/internal/shape"
)

// idMismatch reports an End event naming a different resource.
func idMismatch(event string, open, got uint32) error {
	return &StateError{
		Code:    ErrCodeIDMismatch,
		Event:   event,
		Message: fmt.Sprintf("open resource is %d, got %d", open, got),
	}
}

// StartShape opens a shape resource.
func (b *Builder) StartShape(resID uint32) error {
	const event = "StartShape"
	if _, err := b.expect(event, "", scopeTimeline); err != nil {
		return err
	}
	if err := b.claim(event, collectionShapes, resID); err != nil {
		return err
	}
	b.push(&scope{kind: scopeShape, resID: resID, shape: shape.New()})
	return nil
}

// EndShape closes the shape and appends it to the document.
func (b *Builder) EndShape(resID uint32) error {
	const event = "EndShape"
	s, err := b.pop(event, scopeShape)
	if err != nil {
		return err
	}
	if s.resID != resID {
		return idMismatch(event, s.resID, resID)
	}
	b.doc.Shapes = append(b.doc.Shapes, s.shape.Build(resID))
	return nil
}

// StartFill opens a filled path in the current shape.
func (b *Builder) StartFill() error {
	s, err := b.expect("StartFill", scopeShape)
	if err != nil {
		return err
	}
	s.shape.StartFill()
	b.push(&scope{kind: scopeFill, resID: s.resID, shape: s.shape})
	return nil
}

// EndFill closes the fill stream.
func (b *Builder) EndFill() error {
	s, err := b.pop("EndFill", scopeFill)
	if err != nil {
		return err
	}
	s.shape.EndFill()
	return nil
}

// StartStroke opens a stroked path in the current shape.
func (b *Builder) StartStroke() error {
	s, err := b.expect("StartStroke", scopeShape)
	if err != nil {
		return err
	}
	s.shape.StartStroke()
	b.push(&scope{kind: scopeStroke, resID: s.resID, shape: s.shape})
	return nil
}

// EndStroke ends the stroke stream.
func (b *Builder) EndStroke() error {
	s, err := b.pop("EndStroke", scopeStroke)
	if err != nil {
		return err
	}
	s.shape.EndStroke()
	return nil
}

// SolidFill paints the open fill or stroke with a color.
func (b *Builder) SolidFill(c ir.Color) error {
	s, err := b.expect("SolidFill", scopeFill, scopeStroke)
	if err != nil {
		return err
	}
	s.shape.SetFill(ir.SolidFill{Color: c.Hex(), Alpha: c.Alpha()})
	return nil
}

// StartLinearGradient opens a linear gradient paint. Stops follow.
func (b *Builder) StartLinearGradient(spread ir.SpreadMethod, m ir.Matrix) error {
	s, err := b.expect("StartLinearGradient", scopeFill, scopeStroke)
	if err != nil {
		return err
	}
	b.push(&scope{kind: scopeGradient, resID: s.resID, shape: s.shape, gradient: gradient.NewLinear(m, spread)})
	return nil
}

// StartRadialGradient opens a radial gradient paint. Stops follow.
func (b *Builder) StartRadialGradient(spread ir.SpreadMethod, m ir.Matrix, focalPoint int32) error {
	s, err := b.expect("StartRadialGradient", scopeFill, scopeStroke)
	if err != nil {
		return err
	}
	b.push(&scope{kind: scopeGradient, resID: s.resID, shape: s.shape, gradient: gradient.NewRadial(m, spread, focalPoint)})
	return nil
}

// AddStop appends a color stop to the open gradient.
func (b *Builder) AddStop(stop gradient.Stop) error {
	s, err := b.expect("AddStop", scopeGradient)
	if err != nil {
		return err
	}
	s.gradient.AddStop(stop)
	return nil
}

// EndGradient sets the finished gradient as the paint of the enclosing
// fill or stroke. The gradient state is dropped.
func (b *Builder) EndGradient() error {
	s, err := b.pop("EndGradient", scopeGradient)
	if err != nil {
		return err
	}
	s.shape.SetFill(s.gradient.Fill())
	return nil
}

// SolidStroke sets the outline style of the open stroke.
func (b *Builder) SolidStroke(style ir.SolidStroke) error {
	s, err := b.expect("SolidStroke", scopeStroke)
	if err != nil {
		return err
	}
	s.shape.SetStroke(style)
	return nil
}

// FancyStroke reports a stroke style that would need converting to fills.
func (b *Builder) FancyStroke() error {
	s, err := b.expect("FancyStroke", scopeStroke)
	if err != nil {
		return err
	}
	b.logger.WithField("shape", s.resID).Warn("Non-solid stroke is not supported")
	return &UnsupportedError{Feature: "non-solid stroke", ResID: s.resID}
}

// StartBoundary begins the outer boundary of the open fill.
func (b *Builder) StartBoundary() error {
	s, err := b.expect("StartBoundary", scopeFill)
	if err != nil {
		return err
	}
	s.shape.StartBoundary()
	b.push(&scope{kind: scopeBoundary, resID: s.resID, shape: s.shape})
	return nil
}

// EndBoundary ends the outer boundary.
func (b *Builder) EndBoundary() error {
	_, err := b.pop("EndBoundary", scopeBoundary)
	return err
}

// StartHole begins a hole in the open fill.
func (b *Builder) StartHole() error {
	s, err := b.expect("StartHole", scopeFill, scopeBoundary)
	if err != nil {
		return err
	}
	s.shape.StartHole()
	b.push(&scope{kind: scopeHole, resID: s.resID, shape: s.shape})
	return nil
}

// EndHole ends the current hole.
func (b *Builder) EndHole() error {
	s, err := b.pop("EndHole", scopeHole)
	if err != nil {
		return err
	}
	s.shape.EndHole()
	return nil
}

// AddSegment appends an edge to the open boundary, hole or stroke.
func (b *Builder) AddSegment(seg shape.Segment) error {
	s, err := b.expect("AddSegment", scopeBoundary, scopeHole, scopeStroke)
	if err != nil {
		return err
	}
	s.shape.AddSegment(seg)
	return nil
}
