package library

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/roach88/sceneforge/internal/ir"
)

// Manifest is the library view of a scene document: every resource by id,
// the timelines with the objects their frames place, and the tween groups.
// It can be built from a live document or decoded from a data file.
type Manifest struct {
	StageName string
	Stage     Stage
	Shapes    []ShapeEntry
	Bitmaps   []AssetEntry
	Sounds    []AssetEntry
	Texts     []AssetEntry
	Timelines []TimelineEntry
	Tweens    []string // timeline names of the tween groups
}

// Stage is the presentation metadata a preview needs.
type Stage struct {
	Width      uint32 `json:"width"`
	Height     uint32 `json:"height"`
	Background string `json:"background"`
	HTMLPath   string `json:"htmlPath"` // empty when no page was written
}

// AssetEntry is a bitmap, sound or text resource.
type AssetEntry struct {
	AssetID uint32 `json:"assetId"`
	Name    string `json:"name,omitempty"`
	Src     string `json:"src,omitempty"`
}

// ShapeEntry is a shape resource with the hash of its paths.
type ShapeEntry struct {
	AssetID uint32
	Hash    string
}

// TimelineEntry is a timeline resource.
type TimelineEntry struct {
	AssetID uint32          `json:"assetId"`
	Name    string          `json:"name"`
	Type    ir.TimelineType `json:"type"`
	Frames  []FrameEntry    `json:"frames"`
}

// FrameEntry lists the objects placed on one frame.
type FrameEntry struct {
	Index   uint32        `json:"index"`
	Objects []ObjectEntry `json:"objects"`
}

// ObjectEntry is one placed object.
type ObjectEntry struct {
	ObjectID uint32           `json:"objectId"`
	AssetID  uint32           `json:"assetId"`
	Kind     ir.PlacementKind `json:"kind"`
}

// FromDocument builds the manifest of a document.
func FromDocument(doc *ir.Document) (Manifest, error) {
	m := Manifest{StageName: doc.Meta.StageName, Stage: Stage{
		Width:      doc.Meta.Width,
		Height:     doc.Meta.Height,
		Background: doc.Meta.Background,
	}}
	if doc.Meta.HTML {
		m.Stage.HTMLPath = doc.Meta.HTMLPath
	}
	for _, s := range doc.Shapes {
		h, err := ir.ShapeHash(s)
		if err != nil {
			return Manifest{}, fmt.Errorf("shape %d: %w", s.AssetID, err)
		}
		m.Shapes = append(m.Shapes, ShapeEntry{AssetID: s.AssetID, Hash: h})
	}
	for _, b := range doc.Bitmaps {
		m.Bitmaps = append(m.Bitmaps, AssetEntry{AssetID: b.AssetID, Name: b.Name, Src: b.Src})
	}
	for _, s := range doc.Sounds {
		m.Sounds = append(m.Sounds, AssetEntry{AssetID: s.AssetID, Name: s.Name, Src: s.Src})
	}
	for _, t := range doc.Texts {
		m.Texts = append(m.Texts, AssetEntry{AssetID: t.AssetID})
	}
	for _, t := range doc.Timelines {
		te := TimelineEntry{AssetID: t.AssetID, Name: t.Name, Type: t.Type}
		for _, f := range t.Frames {
			fe := FrameEntry{Index: f.Index}
			for _, p := range f.Objects {
				fe.Objects = append(fe.Objects, ObjectEntry{ObjectID: p.ObjectID, AssetID: p.AssetID, Kind: p.Kind})
			}
			te.Frames = append(te.Frames, fe)
		}
		m.Timelines = append(m.Timelines, te)
	}
	for _, tw := range doc.Tweens {
		m.Tweens = append(m.Tweens, tw.TimelineName)
	}
	return m, nil
}

// wireDocument is the subset of a data file the manifest reads.
type wireDocument struct {
	Shapes []struct {
		AssetID uint32          `json:"assetId"`
		Paths   json.RawMessage `json:"paths"`
	} `json:"Shapes"`
	Bitmaps   []AssetEntry    `json:"Bitmaps"`
	Sounds    []AssetEntry    `json:"Sounds"`
	Texts     []AssetEntry    `json:"Texts"`
	Timelines []TimelineEntry `json:"Timelines"`
	Tweens    []struct {
		TimelineName string `json:"timelineName"`
	} `json:"Tweens"`
	Meta *struct {
		StageName string `json:"stageName"`
		Stage
	} `json:"_meta"`
}

// Decode reads the manifest of a serialized document.
func Decode(r io.Reader) (Manifest, error) {
	var w wireDocument
	dec := json.NewDecoder(r)
	if err := dec.Decode(&w); err != nil {
		return Manifest{}, fmt.Errorf("decode document: %w", err)
	}
	if w.Meta == nil {
		return Manifest{}, fmt.Errorf("decode document: missing _meta section")
	}

	m := Manifest{
		StageName: w.Meta.StageName,
		Stage:     w.Meta.Stage,
		Bitmaps:   w.Bitmaps,
		Sounds:    w.Sounds,
		Texts:     w.Texts,
		Timelines: w.Timelines,
	}
	for _, s := range w.Shapes {
		var buf bytes.Buffer
		if err := json.Compact(&buf, s.Paths); err != nil {
			return Manifest{}, fmt.Errorf("shape %d: %w", s.AssetID, err)
		}
		m.Shapes = append(m.Shapes, ShapeEntry{AssetID: s.AssetID, Hash: ir.PathsHash(buf.Bytes())})
	}
	for _, tw := range w.Tweens {
		m.Tweens = append(m.Tweens, tw.TimelineName)
	}
	return m, nil
}

// Normalize applies the same naming rules as the package-level Normalize
// to the manifest.
func (m *Manifest) Normalize() []Rename {
	syms := make([]symbol, len(m.Timelines))
	for i := range m.Timelines {
		t := &m.Timelines[i]
		syms[i] = symbol{assetID: t.AssetID, name: &t.Name, typ: &t.Type}
		for _, f := range t.Frames {
			for _, o := range f.Objects {
				if o.Kind == ir.KindGraphic {
					syms[i].graphics = append(syms[i].graphics, o.AssetID)
				}
			}
		}
	}
	tweens := make([]*string, len(m.Tweens))
	for i := range m.Tweens {
		tweens[i] = &m.Tweens[i]
	}
	return normalize(syms, m.StageName, tweens)
}
