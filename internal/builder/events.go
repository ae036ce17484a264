package builder

import (
	"context"

	"github.com/roach88/sceneforge/internal/gradient"
	"github.com/roach88/sceneforge/internal/ir"
	"github.com/roach88/sceneforge/internal/resource"
	"github.com/roach88/sceneforge/internal/shape"
	"github.com/roach88/sceneforge/internal/timeline"
	"github.com/roach88/sceneforge/internal/tween"
)

// EventSink receives the export events of a document walker, one method
// per event kind, in walker order.
//
// The grammar is fixed:
//
//	Document ⊃ { Bitmap | Sound | Shape | Text | Timeline }
//	Shape    ⊃ { Fill ⊃ (style, Boundary, Hole*) | Stroke ⊃ (style, segments) }
//	Text     ⊃ Paragraph ⊃ Run
//	Timeline ⊃ { placement commands, ShowFrame }
//
// Shapes and timelines may open while a timeline is open; placement
// commands always apply to the innermost open timeline.
type EventSink interface {
	StartDocument(background ir.Color, width, height uint32, fps float64) error
	EndDocument(ctx context.Context) (*ir.Document, error)

	DefineBitmap(ctx context.Context, resID uint32, width, height float64, src resource.Source) error
	DefineSound(ctx context.Context, resID uint32, src resource.Source) error

	StartShape(resID uint32) error
	EndShape(resID uint32) error
	StartFill() error
	EndFill() error
	StartStroke() error
	EndStroke() error
	SolidFill(c ir.Color) error
	BitmapFill(ctx context.Context, src resource.Source, clipped bool, m ir.Matrix) error
	StartLinearGradient(spread ir.SpreadMethod, m ir.Matrix) error
	StartRadialGradient(spread ir.SpreadMethod, m ir.Matrix, focalPoint int32) error
	AddStop(s gradient.Stop) error
	EndGradient() error
	SolidStroke(s ir.SolidStroke) error
	FancyStroke() error
	StartBoundary() error
	EndBoundary() error
	StartHole() error
	EndHole() error
	AddSegment(s shape.Segment) error

	StartText(resID uint32, aa ir.AntiAlias, content string, behaviour ir.TextBehaviour) error
	EndText(resID uint32) error
	StartParagraph(start, length uint32, style ir.ParagraphStyle) error
	EndParagraph() error
	AddTextRun(start, length uint32, style ir.TextStyle) error

	StartTimeline() error
	EndTimeline(resID uint32, name string, layers []tween.Layer) error
	Place(kind ir.PlacementKind, objectID uint32, info timeline.PlaceInfo) error
	UpdateTransform(objectID uint32, m ir.Matrix) error
	UpdateColorTransform(objectID uint32, ct ir.ColorTransform) error
	UpdateZOrder(objectID, placeAfter uint32) error
	UpdateMask(objectID, maskTill uint32) error
	UpdateBlendMode(objectID uint32, mode ir.BlendMode) error
	UpdateVisibility(objectID uint32, visible bool) error
	UpdateFilters(objectID uint32, filters []ir.Filter) error
	Remove(objectID uint32) error
	SetFrameLabel(label, labelType string) error
	AddFrameScript(layer uint32, script string) error
	RemoveFrameScript(layer uint32) error
	ShowFrame() error
}

var _ EventSink = (*Builder)(nil)
