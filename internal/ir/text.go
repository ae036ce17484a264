package ir

// AAMode is the anti-alias rendering mode of a text field.
type AAMode string

const (
	AADevice   AAMode = "device"
	AABitmap   AAMode = "bitmap"
	AAStandard AAMode = "standard"
	AAAdvanced AAMode = "advanced"
	AACustom   AAMode = "custom"
)

// AntiAlias describes text anti-aliasing. Thickness and Sharpness are
// only meaningful (and only emitted) for AACustom.
type AntiAlias struct {
	Mode      AAMode  `yaml:"mode"`
	Thickness float64 `yaml:"thickness,omitempty"`
	Sharpness float64 `yaml:"sharpness,omitempty"`
}

// JSONValue implements Valuer.
func (a AntiAlias) JSONValue() any {
	o := Object{}.Set("mode", string(a.Mode))
	if a.Mode == AACustom {
		o = o.Set("thickness", a.Thickness).Set("sharpness", a.Sharpness)
	}
	return o
}

// TextFlow is the reading direction of static text.
type TextFlow string

const (
	FlowLeftToRight TextFlow = "ltr"
	FlowRightToLeft TextFlow = "rtl"
)

// Orientation is the layout direction of static text.
type Orientation string

const (
	OrientHorizontal  Orientation = "horizontal"
	OrientVerticalLTR Orientation = "vertical_ltr"
	OrientVerticalRTL Orientation = "vertical_rtl"
)

// LineMode controls wrapping of dynamic and input text.
type LineMode string

const (
	LineSingle          LineMode = "single"
	LineMultiline       LineMode = "multiline"
	LineMultilineNoWrap LineMode = "multiline_nowrap"
)

// Alignment is the horizontal alignment of a paragraph.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// BaselineShift is the vertical offset kind of a text run.
type BaselineShift string

const (
	BaselineNormal      BaselineShift = "normal"
	BaselineSuperscript BaselineShift = "superscript"
	BaselineSubscript   BaselineShift = "subscript"
)

// TextBehaviour is the behavior variant of a text field. Implemented by
// StaticText, DynamicText and InputText.
type TextBehaviour interface {
	BehaviourType() string
	appendFields(Object) Object
}

// StaticText is non-interactive text.
type StaticText struct {
	Flow        TextFlow
	Orientation Orientation
	Selectable  bool
}

func (StaticText) BehaviourType() string { return "Static" }

func (b StaticText) appendFields(o Object) Object {
	return o.Set("flow", string(b.Flow)).
		Set("orientation", string(b.Orientation)).
		Set("isSelectable", b.Selectable)
}

// DynamicText is text that can be changed at runtime.
type DynamicText struct {
	Name         string
	BorderDrawn  bool
	LineMode     LineMode
	RenderAsHTML bool
	Scrollable   bool
	Selectable   bool
}

func (DynamicText) BehaviourType() string { return "Dynamic" }

func (b DynamicText) appendFields(o Object) Object {
	return appendEditable(o, b.Name, b.BorderDrawn, b.LineMode, b.RenderAsHTML, b.Scrollable).
		Set("isSelectable", b.Selectable)
}

// InputText is user-editable text.
type InputText struct {
	Name         string
	BorderDrawn  bool
	LineMode     LineMode
	RenderAsHTML bool
	Scrollable   bool
	Password     bool
	Selectable   bool
}

func (InputText) BehaviourType() string { return "Input" }

func (b InputText) appendFields(o Object) Object {
	return appendEditable(o, b.Name, b.BorderDrawn, b.LineMode, b.RenderAsHTML, b.Scrollable).
		Set("isPassword", b.Password).
		Set("isSelectable", b.Selectable)
}

func appendEditable(o Object, name string, border bool, mode LineMode, html, scrollable bool) Object {
	return o.Set("name", name).
		Set("isBorderDrawn", border).
		Set("lineMode", string(mode)).
		Set("isRenderAsHTML", html).
		Set("isScrollable", scrollable)
}

// ParagraphStyle holds paragraph layout.
type ParagraphStyle struct {
	Indent      float64   `yaml:"indent"`
	LeftMargin  float64   `yaml:"left_margin"`
	RightMargin float64   `yaml:"right_margin"`
	LineSpacing float64   `yaml:"line_spacing"`
	Alignment   Alignment `yaml:"alignment"`
}

// TextStyle is the fully resolved style of a text run.
type TextStyle struct {
	FontName      string        `yaml:"font_name"`
	FontSize      float64       `yaml:"font_size"`
	FontColor     Color         `yaml:"font_color"`
	FontStyle     string        `yaml:"font_style"`
	LetterSpacing float64       `yaml:"letter_spacing"`
	Rotated       bool          `yaml:"rotated"`
	AutoKern      bool          `yaml:"auto_kern"`
	BaselineShift BaselineShift `yaml:"baseline_shift"`
	Link          string        `yaml:"link"`
	LinkTarget    string        `yaml:"link_target"`
}

// JSONValue implements Valuer.
func (s TextStyle) JSONValue() any {
	return Object{}.
		Set("fontName", s.FontName).
		Set("fontSize", s.FontSize).
		Set("fontColor", s.FontColor.Hex()).
		Set("fontStyle", s.FontStyle).
		Set("letterSpacing", s.LetterSpacing).
		Set("isRotated", s.Rotated).
		Set("isAutoKern", s.AutoKern).
		Set("baseLineShiftStyle", string(s.BaselineShift)).
		Set("link", s.Link).
		Set("linkTarget", s.LinkTarget)
}

// TextRun is a styled character range of a paragraph.
type TextRun struct {
	StartIndex uint32
	Length     uint32
	Style      TextStyle
}

// JSONValue implements Valuer.
func (r TextRun) JSONValue() any {
	return Object{}.
		Set("startIndex", r.StartIndex).
		Set("length", r.Length).
		Set("style", r.Style.JSONValue())
}

// Paragraph is a character range of a text field with its own layout.
type Paragraph struct {
	StartIndex uint32
	Length     uint32
	Style      ParagraphStyle
	Runs       []TextRun
}

// JSONValue implements Valuer.
func (p Paragraph) JSONValue() any {
	return Object{}.
		Set("startIndex", p.StartIndex).
		Set("length", p.Length).
		Set("indent", p.Style.Indent).
		Set("leftMargin", p.Style.LeftMargin).
		Set("rightMargin", p.Style.RightMargin).
		Set("linespacing", p.Style.LineSpacing).
		Set("alignment", string(p.Style.Alignment)).
		Set("textRun", List(p.Runs))
}

// Text is a classic text resource.
type Text struct {
	AssetID    uint32
	AntiAlias  AntiAlias
	Content    string
	Behaviour  TextBehaviour
	Paragraphs []Paragraph
}

// JSONValue implements Valuer.
func (t Text) JSONValue() any {
	behaviour := Object{}
	if t.Behaviour != nil {
		behaviour = t.Behaviour.appendFields(behaviour.Set("type", t.Behaviour.BehaviourType()))
	}
	return Object{}.
		Set("assetId", t.AssetID).
		Set("aaMode", t.AntiAlias.JSONValue()).
		Set("txt", t.Content).
		Set("behaviour", behaviour).
		Set("paras", List(t.Paragraphs))
}
