package ir

// Path command tokens.
const (
	CmdMoveTo    = "m"
	CmdLineTo    = "l"
	CmdQuadTo    = "q"
	CmdClosePath = "cp"
	CmdBeginHole = "bh"
	CmdEndHole   = "eh"
)

// PathToken is one element of a path command stream: either a command
// token (Op set) or a coordinate value.
type PathToken struct {
	Op  string
	Num float64
}

// IsOp reports whether the token is a command rather than a number.
func (t PathToken) IsOp() bool {
	return t.Op != ""
}

// PathData is a flat command stream, e.g. [x0, y0, "l", x1, y1, "cp"].
type PathData []PathToken

// Op appends a command token.
func (p *PathData) Op(op string) {
	*p = append(*p, PathToken{Op: op})
}

// Point appends a coordinate pair.
func (p *PathData) Point(pt Point) {
	*p = append(*p, PathToken{Num: pt.X}, PathToken{Num: pt.Y})
}

// JSONValue implements Valuer.
func (p PathData) JSONValue() any {
	out := make([]any, len(p))
	for i, t := range p {
		if t.IsOp() {
			out[i] = t.Op
		} else {
			out[i] = t.Num
		}
	}
	return out
}

// SpreadMethod controls gradient behavior outside its stop range.
type SpreadMethod string

const (
	SpreadPad     SpreadMethod = "pad"
	SpreadReflect SpreadMethod = "reflect"
	SpreadRepeat  SpreadMethod = "repeat"
)

// GradientStop is a color stop. Offset is a percentage in [0,100] and
// Opacity is in [0,1].
type GradientStop struct {
	Offset  float64
	Color   string
	Opacity float64
}

// JSONValue implements Valuer.
func (s GradientStop) JSONValue() any {
	return Object{}.
		Set("offset", s.Offset).
		Set("stopColor", s.Color).
		Set("stopOpacity", s.Opacity)
}

// Fill is the paint of a path. Implemented by SolidFill, BitmapFill,
// LinearGradient and RadialGradient.
type Fill interface {
	// FillKind names the variant ("solid", "bitmap", "linear", "radial").
	FillKind() string
	appendFields(Object) Object
}

// SolidFill paints with a single color.
type SolidFill struct {
	Color string
	Alpha float64
}

func (SolidFill) FillKind() string { return "solid" }

func (f SolidFill) appendFields(o Object) Object {
	return o.Set("color", f.Color).Set("alpha", f.Alpha)
}

// BitmapFill paints with a tiled or clipped image.
type BitmapFill struct {
	Height    float64
	Width     float64
	Src       string
	Name      string
	Clipped   bool
	Transform Matrix
}

func (BitmapFill) FillKind() string { return "bitmap" }

func (f BitmapFill) appendFields(o Object) Object {
	image := Object{}.
		Set("height", f.Height).
		Set("width", f.Width).
		Set("src", f.Src).
		Set("name", f.Name).
		Set("patternUnits", "userSpaceOnUse").
		Set("patternTransform", f.Transform.JSONValue())
	return o.Set("image", image)
}

// LinearGradient paints along the (X1,Y1)-(X2,Y2) vector.
type LinearGradient struct {
	X1, Y1, X2, Y2 float64
	Spread         SpreadMethod
	Stops          []GradientStop
}

func (LinearGradient) FillKind() string { return "linear" }

func (f LinearGradient) appendFields(o Object) Object {
	grad := Object{}.
		Set("x1", f.X1).
		Set("y1", f.Y1).
		Set("x2", f.X2).
		Set("y2", f.Y2).
		Set("spreadMethod", string(f.Spread)).
		Set("stop", List(f.Stops))
	return o.Set("linearGradient", grad)
}

// RadialGradient paints concentric rings around (CX,CY) with focal
// point (FX,FY), mapped through Transform.
type RadialGradient struct {
	CX, CY, R, FX, FY float64
	Transform         Matrix
	Spread            SpreadMethod
	Stops             []GradientStop
}

func (RadialGradient) FillKind() string { return "radial" }

func (f RadialGradient) appendFields(o Object) Object {
	grad := Object{}.
		Set("cx", f.CX).
		Set("cy", f.CY).
		Set("r", f.R).
		Set("fx", f.FX).
		Set("fy", f.FY).
		Set("gradientTransform", f.Transform.JSONValue()).
		Set("spreadMethod", string(f.Spread)).
		Set("stop", List(f.Stops))
	return o.Set("radialGradient", grad)
}

// CapStyle is the stroke end cap.
type CapStyle string

const (
	CapNone   CapStyle = "none"
	CapRound  CapStyle = "round"
	CapSquare CapStyle = "square"
)

// JoinStyle is the stroke corner join.
type JoinStyle string

const (
	JoinMiter JoinStyle = "miter"
	JoinRound JoinStyle = "round"
	JoinBevel JoinStyle = "bevel"
)

// ScaleType controls how stroke thickness reacts to scaling.
type ScaleType string

const (
	ScaleNormal     ScaleType = "normal"
	ScaleHorizontal ScaleType = "horizontal"
	ScaleVertical   ScaleType = "vertical"
	ScaleNone       ScaleType = "none"
)

// Stroke is the outline style of a stroke path. SolidStroke is the only
// supported variant.
type Stroke interface {
	StrokeKind() string
	appendFields(Object) Object
}

// SolidStroke is a constant-width outline.
type SolidStroke struct {
	Thickness  float64
	Cap        CapStyle
	Join       JoinStyle
	MiterLimit float64 // only emitted for JoinMiter
	ScaleType  ScaleType
	Hinting    bool
}

func (SolidStroke) StrokeKind() string { return "solid" }

func (s SolidStroke) appendFields(o Object) Object {
	o = o.Set("thickness", s.Thickness).
		Set("linecap", string(s.Cap)).
		Set("linejoin", string(s.Join))
	if s.Join == JoinMiter {
		o = o.Set("miterLimit", s.MiterLimit)
	}
	return o.Set("scaleType", string(s.ScaleType)).
		Set("strokeHinting", s.Hinting)
}

// Path is one fill or stroke of a shape.
type Path struct {
	Data     PathData
	Fill     Fill
	Stroke   Stroke // nil for fills
	IsStroke bool
}

// JSONValue implements Valuer.
func (p Path) JSONValue() any {
	o := Object{}
	if p.Fill != nil {
		o = p.Fill.appendFields(o)
	}
	o = o.Set("d", p.Data.JSONValue())
	if p.IsStroke && p.Stroke != nil {
		o = p.Stroke.appendFields(o)
	}
	return o.Set("stroke", p.IsStroke)
}

// Shape is a vector shape resource.
type Shape struct {
	AssetID uint32
	Paths   []Path
}

// JSONValue implements Valuer.
func (s Shape) JSONValue() any {
	return Object{}.
		Set("assetId", s.AssetID).
		Set("paths", List(s.Paths))
}
