package ir

// Meta is the trailing "_meta" record of a scene document.
type Meta struct {
	OutputFile    string
	OutputVersion string
	OutputFormat  string
	StageName     string
	CompressJS    bool
	CompactShapes bool
	NameSpace     string
	LoopTimeline  bool
	Framerate     float64
	Background    string
	Width         uint32
	Height        uint32

	// Present only when images are exported.
	Images           bool
	ImagesPath       string
	Spritesheets     bool
	SpritesheetSize  int
	SpritesheetScale float64

	// Present only when an HTML page is written.
	HTML     bool
	HTMLPath string

	// Present only when sounds are exported.
	Sounds     bool
	SoundsPath string

	Version string
}

// JSONValue implements Valuer.
func (m Meta) JSONValue() any {
	o := Object{}.
		Set("outputFile", m.OutputFile).
		Set("outputVersion", m.OutputVersion).
		Set("outputFormat", m.OutputFormat).
		Set("stageName", m.StageName).
		Set("compressJS", m.CompressJS).
		Set("compactShapes", m.CompactShapes).
		Set("nameSpace", m.NameSpace).
		Set("loopTimeline", m.LoopTimeline).
		Set("framerate", m.Framerate).
		Set("background", m.Background).
		Set("width", m.Width).
		Set("height", m.Height)
	if m.Images {
		o = o.Set("imagesPath", m.ImagesPath).
			Set("spritesheets", m.Spritesheets).
			Set("spritesheetSize", m.SpritesheetSize).
			Set("spritesheetScale", m.SpritesheetScale)
	}
	if m.HTML {
		o = o.Set("htmlPath", m.HTMLPath)
	}
	if m.Sounds {
		o = o.Set("soundsPath", m.SoundsPath)
	}
	return o.Set("version", m.Version)
}

// Document is the root of an exported scene.
type Document struct {
	Shapes    []Shape
	Bitmaps   []Bitmap
	Sounds    []Sound
	Texts     []Text
	Timelines []Timeline
	Tweens    []TimelineTweens
	Meta      Meta
}

// JSONValue implements Valuer. Sections are emitted in a fixed order and
// Tweens is omitted when empty.
func (d *Document) JSONValue() any {
	o := Object{}.
		Set("Shapes", List(d.Shapes)).
		Set("Bitmaps", List(d.Bitmaps)).
		Set("Sounds", List(d.Sounds)).
		Set("Texts", List(d.Texts)).
		Set("Timelines", List(d.Timelines))
	if len(d.Tweens) > 0 {
		o = o.Set("Tweens", List(d.Tweens))
	}
	return o.Set("_meta", d.Meta.JSONValue())
}

// MarshalJSON implements json.Marshaler.
func (d *Document) MarshalJSON() ([]byte, error) {
	return Marshal(d.JSONValue())
}
