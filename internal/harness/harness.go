package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/roach88/sceneforge/internal/builder"
	"github.com/roach88/sceneforge/internal/gradient"
	"github.com/roach88/sceneforge/internal/ir"
	"github.com/roach88/sceneforge/internal/resource"
	"github.com/roach88/sceneforge/internal/settings"
	"github.com/roach88/sceneforge/internal/shape"
	"github.com/roach88/sceneforge/internal/timeline"
)

// Event names, one per EventSink method. Segments are split into line and
// quad.
const (
	EventStartDocument        = "start_document"
	EventEndDocument          = "end_document"
	EventDefineBitmap         = "define_bitmap"
	EventDefineSound          = "define_sound"
	EventStartShape           = "start_shape"
	EventEndShape             = "end_shape"
	EventStartFill            = "start_fill"
	EventEndFill              = "end_fill"
	EventStartStroke          = "start_stroke"
	EventEndStroke            = "end_stroke"
	EventSolidFill            = "solid_fill"
	EventBitmapFill           = "bitmap_fill"
	EventStartLinearGradient  = "start_linear_gradient"
	EventStartRadialGradient  = "start_radial_gradient"
	EventAddStop              = "add_stop"
	EventEndGradient          = "end_gradient"
	EventSolidStroke          = "solid_stroke"
	EventFancyStroke          = "fancy_stroke"
	EventStartBoundary        = "start_boundary"
	EventEndBoundary          = "end_boundary"
	EventStartHole            = "start_hole"
	EventEndHole              = "end_hole"
	EventLine                 = "line"
	EventQuad                 = "quad"
	EventStartText            = "start_text"
	EventEndText              = "end_text"
	EventStartParagraph       = "start_paragraph"
	EventEndParagraph         = "end_paragraph"
	EventAddTextRun           = "add_text_run"
	EventStartTimeline        = "start_timeline"
	EventEndTimeline          = "end_timeline"
	EventPlace                = "place"
	EventUpdateTransform      = "update_transform"
	EventUpdateColorTransform = "update_color_transform"
	EventUpdateZOrder         = "update_z_order"
	EventUpdateMask           = "update_mask"
	EventUpdateBlendMode      = "update_blend_mode"
	EventUpdateVisibility     = "update_visibility"
	EventUpdateFilters        = "update_filters"
	EventRemove               = "remove"
	EventSetFrameLabel        = "set_frame_label"
	EventAddFrameScript       = "add_frame_script"
	EventRemoveFrameScript    = "remove_frame_script"
	EventShowFrame            = "show_frame"
)

type handler func(ctx context.Context, sink builder.EventSink, e Event) error

// handlers maps event names to sink calls. end_document is handled by
// Replay itself since it yields the document.
var handlers = map[string]handler{
	EventStartDocument: func(_ context.Context, s builder.EventSink, e Event) error {
		return s.StartDocument(e.Background, uint32(e.Width), uint32(e.Height), e.FPS)
	},
	EventEndDocument: nil,
	EventDefineBitmap: func(ctx context.Context, s builder.EventSink, e Event) error {
		return s.DefineBitmap(ctx, e.ID, e.Width, e.Height, e.Source)
	},
	EventDefineSound: func(ctx context.Context, s builder.EventSink, e Event) error {
		return s.DefineSound(ctx, e.ID, e.Source)
	},
	EventStartShape: func(_ context.Context, s builder.EventSink, e Event) error { return s.StartShape(e.ID) },
	EventEndShape:   func(_ context.Context, s builder.EventSink, e Event) error { return s.EndShape(e.ID) },
	EventStartFill:  func(_ context.Context, s builder.EventSink, _ Event) error { return s.StartFill() },
	EventEndFill:    func(_ context.Context, s builder.EventSink, _ Event) error { return s.EndFill() },
	EventStartStroke: func(_ context.Context, s builder.EventSink, _ Event) error {
		return s.StartStroke()
	},
	EventEndStroke: func(_ context.Context, s builder.EventSink, _ Event) error { return s.EndStroke() },
	EventSolidFill: func(_ context.Context, s builder.EventSink, e Event) error { return s.SolidFill(e.Color) },
	EventBitmapFill: func(ctx context.Context, s builder.EventSink, e Event) error {
		return s.BitmapFill(ctx, e.Source, e.Clipped, e.matrix())
	},
	EventStartLinearGradient: func(_ context.Context, s builder.EventSink, e Event) error {
		return s.StartLinearGradient(spread(e), e.matrix())
	},
	EventStartRadialGradient: func(_ context.Context, s builder.EventSink, e Event) error {
		return s.StartRadialGradient(spread(e), e.matrix(), e.FocalPoint)
	},
	EventAddStop: func(_ context.Context, s builder.EventSink, e Event) error {
		return s.AddStop(gradient.Stop{Position: e.Position, Color: e.Color})
	},
	EventEndGradient: func(_ context.Context, s builder.EventSink, _ Event) error { return s.EndGradient() },
	EventSolidStroke: func(_ context.Context, s builder.EventSink, e Event) error {
		return s.SolidStroke(e.Stroke.solid())
	},
	EventFancyStroke:   func(_ context.Context, s builder.EventSink, _ Event) error { return s.FancyStroke() },
	EventStartBoundary: func(_ context.Context, s builder.EventSink, _ Event) error { return s.StartBoundary() },
	EventEndBoundary:   func(_ context.Context, s builder.EventSink, _ Event) error { return s.EndBoundary() },
	EventStartHole:     func(_ context.Context, s builder.EventSink, _ Event) error { return s.StartHole() },
	EventEndHole:       func(_ context.Context, s builder.EventSink, _ Event) error { return s.EndHole() },
	EventLine: func(_ context.Context, s builder.EventSink, e Event) error {
		return s.AddSegment(shape.Line{From: e.From, To: e.To})
	},
	EventQuad: func(_ context.Context, s builder.EventSink, e Event) error {
		return s.AddSegment(shape.Quad{From: e.From, Control: e.Control, To: e.To})
	},
	EventStartText: func(_ context.Context, s builder.EventSink, e Event) error {
		aa := e.AntiAlias
		if aa.Mode == "" {
			aa.Mode = ir.AAStandard
		}
		return s.StartText(e.ID, aa, e.Content, e.Behaviour.text())
	},
	EventEndText: func(_ context.Context, s builder.EventSink, e Event) error { return s.EndText(e.ID) },
	EventStartParagraph: func(_ context.Context, s builder.EventSink, e Event) error {
		return s.StartParagraph(e.Start, e.Length, e.Paragraph)
	},
	EventEndParagraph: func(_ context.Context, s builder.EventSink, _ Event) error { return s.EndParagraph() },
	EventAddTextRun: func(_ context.Context, s builder.EventSink, e Event) error {
		return s.AddTextRun(e.Start, e.Length, e.Style)
	},
	EventStartTimeline: func(_ context.Context, s builder.EventSink, _ Event) error { return s.StartTimeline() },
	EventEndTimeline: func(_ context.Context, s builder.EventSink, e Event) error {
		return s.EndTimeline(e.ID, e.Name, e.Layers)
	},
	EventPlace: func(_ context.Context, s builder.EventSink, e Event) error {
		return s.Place(e.Kind, e.ObjectID, e.placeInfo())
	},
	EventUpdateTransform: func(_ context.Context, s builder.EventSink, e Event) error {
		return s.UpdateTransform(e.ObjectID, e.matrix())
	},
	EventUpdateColorTransform: func(_ context.Context, s builder.EventSink, e Event) error {
		ct := ir.IdentityColorTransform
		if e.ColorTransform != nil {
			ct = *e.ColorTransform
		}
		return s.UpdateColorTransform(e.ObjectID, ct)
	},
	EventUpdateZOrder: func(_ context.Context, s builder.EventSink, e Event) error {
		return s.UpdateZOrder(e.ObjectID, e.PlaceAfter)
	},
	EventUpdateMask: func(_ context.Context, s builder.EventSink, e Event) error {
		return s.UpdateMask(e.ObjectID, e.MaskTill)
	},
	EventUpdateBlendMode: func(_ context.Context, s builder.EventSink, e Event) error {
		mode := e.BlendMode
		if mode == "" {
			mode = ir.BlendNormal
		}
		return s.UpdateBlendMode(e.ObjectID, mode)
	},
	EventUpdateVisibility: func(_ context.Context, s builder.EventSink, e Event) error {
		return s.UpdateVisibility(e.ObjectID, *e.Visible)
	},
	EventUpdateFilters: func(_ context.Context, s builder.EventSink, e Event) error {
		return s.UpdateFilters(e.ObjectID, e.Filters)
	},
	EventRemove: func(_ context.Context, s builder.EventSink, e Event) error { return s.Remove(e.ObjectID) },
	EventSetFrameLabel: func(_ context.Context, s builder.EventSink, e Event) error {
		labelType := e.LabelType
		if labelType == "" {
			labelType = timeline.LabelName
		}
		return s.SetFrameLabel(e.Label, labelType)
	},
	EventAddFrameScript: func(_ context.Context, s builder.EventSink, e Event) error {
		return s.AddFrameScript(e.Layer, e.Script)
	},
	EventRemoveFrameScript: func(_ context.Context, s builder.EventSink, e Event) error {
		return s.RemoveFrameScript(e.Layer)
	},
	EventShowFrame: func(_ context.Context, s builder.EventSink, _ Event) error { return s.ShowFrame() },
}

func spread(e Event) ir.SpreadMethod {
	if e.Spread == "" {
		return ir.SpreadPad
	}
	return e.Spread
}

// StepError reports the event a replay stopped at.
type StepError struct {
	Index int
	Event string
	Err   error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("event %d (%s): %v", e.Index, e.Event, e.Err)
}

// Unwrap returns the sink error.
func (e *StepError) Unwrap() error { return e.Err }

// Replay sends events to sink in order and stops at the first error. It
// returns the document produced by end_document, or nil when the stream
// has none. A document is also returned when only the handoff after
// serialization failed.
func Replay(ctx context.Context, sink builder.EventSink, events []Event) (*ir.Document, error) {
	var doc *ir.Document
	for i, e := range events {
		if err := ctx.Err(); err != nil {
			return doc, err
		}
		var err error
		if e.Event == EventEndDocument {
			doc, err = sink.EndDocument(ctx)
		} else {
			h, ok := handlers[e.Event]
			if !ok {
				err = fmt.Errorf("unknown event %q", e.Event)
			} else {
				err = h(ctx, sink, e)
			}
		}
		if err != nil {
			return doc, &StepError{Index: i, Event: e.Event, Err: err}
		}
	}
	return doc, nil
}

// Error codes reported by ErrorCode besides the builder's state codes.
const (
	CodeContract      = "CONTRACT"
	CodeUnsupported   = "UNSUPPORTED"
	CodeSerialization = "SERIALIZATION"
	CodeExport        = "EXPORT"
	CodeUnknown       = "ERROR"
)

// ErrorCode classifies a replay error for assertions and CLI output.
func ErrorCode(err error) string {
	var (
		se *builder.StateError
		ce *timeline.ContractError
		ue *builder.UnsupportedError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &se):
		return string(se.Code)
	case errors.As(err, &ce):
		return CodeContract
	case errors.As(err, &ue):
		return CodeUnsupported
	case builder.IsSerializationError(err):
		return CodeSerialization
	case resource.IsExportError(err), resource.IsDirectoryCreationError(err):
		return CodeExport
	}
	return CodeUnknown
}

// Config controls a harness run.
type Config struct {
	// Settings drive the builder. BasePath should point at a scratch folder.
	Settings settings.Publish

	// Exporter replaces the asset exporter; nil keeps the builder default.
	Exporter resource.Exporter

	// Prober replaces bitmap size probing; nil keeps the builder default.
	Prober resource.ImageProber

	Logger logrus.FieldLogger
}

// Run replays a scenario into a fresh builder and evaluates its
// assertions. The returned error is reserved for problems running the
// harness itself; replay failures land in Result.Err.
func Run(ctx context.Context, scenario *Scenario, cfg Config) (*Result, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario is nil")
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("harness settings: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	opts := []builder.Option{builder.WithLogger(logger)}
	if cfg.Exporter != nil {
		opts = append(opts, builder.WithExporter(cfg.Exporter))
	}
	if cfg.Prober != nil {
		opts = append(opts, builder.WithImageProber(cfg.Prober))
	}
	if scenario.Tweens != nil {
		opts = append(opts, builder.WithTweens(*scenario.Tweens))
	}
	b := builder.New(cfg.Settings, opts...)

	result := NewResult()
	result.Document, result.Err = Replay(ctx, b, scenario.Events)
	result.Assets = b.Assets()
	if result.Document != nil {
		data, err := os.ReadFile(cfg.Settings.DataFile())
		if err != nil {
			return nil, fmt.Errorf("read data file: %w", err)
		}
		result.Data = data
	}

	logger.WithFields(logrus.Fields{
		"scenario": scenario.Name,
		"events":   len(scenario.Events),
		"error":    ErrorCode(result.Err),
	}).Debug("Scenario replayed")

	evaluate(scenario.Assertions, result)
	return result, nil
}
