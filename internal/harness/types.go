package harness

import (
	"github.com/roach88/sceneforge/internal/builder"
	"github.com/roach88/sceneforge/internal/ir"
	"github.com/roach88/sceneforge/internal/resource"
	"github.com/roach88/sceneforge/internal/timeline"
	"github.com/roach88/sceneforge/internal/tween"
)

// Event is one recorded walker event. Event names the kind; the other
// fields are the parameters that kind takes and are ignored otherwise.
type Event struct {
	Event string `yaml:"event"`

	// Resource id of start_/end_ shape, text, timeline and define_ events.
	ID uint32 `yaml:"id,omitempty"`

	// start_document; width and height also size bitmaps.
	Background ir.Color `yaml:"background,omitempty"`
	Width      float64  `yaml:"width,omitempty"`
	Height     float64  `yaml:"height,omitempty"`
	FPS        float64  `yaml:"fps,omitempty"`

	// define_bitmap, define_sound, bitmap_fill
	Source  resource.Source `yaml:"source,omitempty"`
	Clipped bool            `yaml:"clipped,omitempty"`

	// Transform of bitmap fills, gradients and update_transform.
	Matrix *ir.Matrix `yaml:"matrix,omitempty"`

	// solid_fill, add_stop, gradients
	Color      ir.Color        `yaml:"color,omitempty"`
	Position   uint8           `yaml:"position,omitempty"`
	Spread     ir.SpreadMethod `yaml:"spread,omitempty"`
	FocalPoint int32           `yaml:"focal_point,omitempty"`

	// solid_stroke
	Stroke *StrokeStyle `yaml:"stroke,omitempty"`

	// line, quad
	From    ir.Point `yaml:"from,omitempty"`
	Control ir.Point `yaml:"control,omitempty"`
	To      ir.Point `yaml:"to,omitempty"`

	// start_text, start_paragraph, add_text_run
	AntiAlias ir.AntiAlias      `yaml:"anti_alias,omitempty"`
	Content   string            `yaml:"content,omitempty"`
	Behaviour *Behaviour        `yaml:"behaviour,omitempty"`
	Start     uint32            `yaml:"start,omitempty"`
	Length    uint32            `yaml:"length,omitempty"`
	Paragraph ir.ParagraphStyle `yaml:"paragraph,omitempty"`
	Style     ir.TextStyle      `yaml:"style,omitempty"`

	// end_timeline
	Name   string        `yaml:"name,omitempty"`
	Layers []tween.Layer `yaml:"layers,omitempty"`

	// placement commands
	Kind           ir.PlacementKind   `yaml:"kind,omitempty"`
	ObjectID       uint32             `yaml:"object_id,omitempty"`
	Place          timeline.PlaceInfo `yaml:"place,omitempty"`
	ColorTransform *ir.ColorTransform `yaml:"color_transform,omitempty"`
	PlaceAfter     uint32             `yaml:"place_after,omitempty"`
	MaskTill       uint32             `yaml:"mask_till,omitempty"`
	BlendMode      ir.BlendMode       `yaml:"blend_mode,omitempty"`
	Visible        *bool              `yaml:"visible,omitempty"`
	Filters        []ir.Filter        `yaml:"filters,omitempty"`

	// set_frame_label, add_frame_script, remove_frame_script
	Label     string `yaml:"label,omitempty"`
	LabelType string `yaml:"label_type,omitempty"`
	Layer     uint32 `yaml:"layer,omitempty"`
	Script    string `yaml:"script,omitempty"`
}

// matrix returns the event transform, defaulting to identity.
func (e Event) matrix() ir.Matrix {
	if e.Matrix == nil {
		return ir.Identity
	}
	return *e.Matrix
}

// placeInfo returns the placement with an omitted transform read as
// identity.
func (e Event) placeInfo() timeline.PlaceInfo {
	info := e.Place
	if info.Transform == (ir.Matrix{}) {
		info.Transform = ir.Identity
	}
	return info
}

// StrokeStyle is the YAML form of ir.SolidStroke.
type StrokeStyle struct {
	Thickness  float64      `yaml:"thickness"`
	Cap        ir.CapStyle  `yaml:"cap,omitempty"`
	Join       ir.JoinStyle `yaml:"join,omitempty"`
	MiterLimit float64      `yaml:"miter_limit,omitempty"`
	ScaleType  ir.ScaleType `yaml:"scale_type,omitempty"`
	Hinting    bool         `yaml:"hinting,omitempty"`
}

func (s *StrokeStyle) solid() ir.SolidStroke {
	if s == nil {
		s = &StrokeStyle{Thickness: 1}
	}
	out := ir.SolidStroke{
		Thickness:  s.Thickness,
		Cap:        s.Cap,
		Join:       s.Join,
		MiterLimit: s.MiterLimit,
		ScaleType:  s.ScaleType,
		Hinting:    s.Hinting,
	}
	if out.Cap == "" {
		out.Cap = ir.CapRound
	}
	if out.Join == "" {
		out.Join = ir.JoinRound
	}
	if out.ScaleType == "" {
		out.ScaleType = ir.ScaleNormal
	}
	return out
}

// Behaviour is the YAML form of a text behaviour. Type is static, dynamic
// or input; an omitted behaviour is static left-to-right text.
type Behaviour struct {
	Type         string         `yaml:"type"`
	Flow         ir.TextFlow    `yaml:"flow,omitempty"`
	Orientation  ir.Orientation `yaml:"orientation,omitempty"`
	Selectable   bool           `yaml:"selectable,omitempty"`
	Name         string         `yaml:"name,omitempty"`
	BorderDrawn  bool           `yaml:"border_drawn,omitempty"`
	LineMode     ir.LineMode    `yaml:"line_mode,omitempty"`
	RenderAsHTML bool           `yaml:"render_as_html,omitempty"`
	Scrollable   bool           `yaml:"scrollable,omitempty"`
	Password     bool           `yaml:"password,omitempty"`
}

// Behaviour types.
const (
	BehaviourStatic  = "static"
	BehaviourDynamic = "dynamic"
	BehaviourInput   = "input"
)

func (b *Behaviour) text() ir.TextBehaviour {
	if b == nil {
		b = &Behaviour{Type: BehaviourStatic}
	}
	lineMode := b.LineMode
	if lineMode == "" {
		lineMode = ir.LineSingle
	}
	switch b.Type {
	case BehaviourDynamic:
		return ir.DynamicText{
			Name:         b.Name,
			BorderDrawn:  b.BorderDrawn,
			LineMode:     lineMode,
			RenderAsHTML: b.RenderAsHTML,
			Scrollable:   b.Scrollable,
			Selectable:   b.Selectable,
		}
	case BehaviourInput:
		return ir.InputText{
			Name:         b.Name,
			BorderDrawn:  b.BorderDrawn,
			LineMode:     lineMode,
			RenderAsHTML: b.RenderAsHTML,
			Scrollable:   b.Scrollable,
			Password:     b.Password,
			Selectable:   b.Selectable,
		}
	}
	flow, orient := b.Flow, b.Orientation
	if flow == "" {
		flow = ir.FlowLeftToRight
	}
	if orient == "" {
		orient = ir.OrientHorizontal
	}
	return ir.StaticText{Flow: flow, Orientation: orient, Selectable: b.Selectable}
}

// Result is the outcome of replaying a scenario.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Document is the finished document, nil when the replay failed before
	// end_document.
	Document *ir.Document `json:"-"`

	// Data is the serialized document as written to disk.
	Data []byte `json:"-"`

	// Assets lists the exported bitmaps and sounds in export order.
	Assets []builder.Asset `json:"assets,omitempty"`

	// Err is the replay error, if any. Assertions decide whether it is
	// expected.
	Err error `json:"-"`

	// Errors holds the failed assertions.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError records a failed assertion and marks the result failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
