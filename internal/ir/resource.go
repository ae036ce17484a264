package ir

// Bitmap is an exported image resource.
type Bitmap struct {
	AssetID uint32
	Height  float64
	Width   float64
	Src     string // relative to the document, e.g. "images/hero.png"
	Name    string
}

// JSONValue implements Valuer.
func (b Bitmap) JSONValue() any {
	return Object{}.
		Set("assetId", b.AssetID).
		Set("height", b.Height).
		Set("width", b.Width).
		Set("src", b.Src).
		Set("name", b.Name)
}

// Sound is an exported audio resource.
type Sound struct {
	AssetID uint32
	Src     string
	Name    string
}

// JSONValue implements Valuer.
func (s Sound) JSONValue() any {
	return Object{}.
		Set("assetId", s.AssetID).
		Set("src", s.Src).
		Set("name", s.Name)
}
