package ir

import "sort"

// PlacementKind is the kind of display object placed on a timeline.
type PlacementKind string

const (
	KindShape     PlacementKind = "shape"
	KindBitmap    PlacementKind = "bitmap"
	KindMovieClip PlacementKind = "movieclip"
	KindGraphic   PlacementKind = "graphic"
	KindSound     PlacementKind = "sound"
	KindText      PlacementKind = "text"
)

// Valid reports whether k is a known placement kind.
func (k PlacementKind) Valid() bool {
	switch k {
	case KindShape, KindBitmap, KindMovieClip, KindGraphic, KindSound, KindText:
		return true
	}
	return false
}

// TimelineType classifies a timeline resource.
type TimelineType string

const (
	TimelineStage     TimelineType = "stage"
	TimelineMovieClip TimelineType = "movieclip"
	TimelineGraphic   TimelineType = "graphic"
)

// BlendMode is the compositing mode of a placed object.
type BlendMode string

// BlendNormal is the default blend mode and is omitted from output.
const BlendNormal BlendMode = "normal"

// LoopMode controls how a graphic symbol plays its frames.
type LoopMode string

const (
	LoopForever     LoopMode = "loop"
	LoopPlayOnce    LoopMode = "play_once"
	LoopSingleFrame LoopMode = "single_frame"
)

// Filter is a graphic filter applied to a placed object.
type Filter struct {
	Type    string             `yaml:"type"`
	Enabled bool               `yaml:"enabled"`
	Params  map[string]float64 `yaml:"params,omitempty"`
}

// JSONValue implements Valuer. Params are written in key order.
func (f Filter) JSONValue() any {
	o := Object{}.Set("type", f.Type).Set("enabled", f.Enabled)
	keys := make([]string, 0, len(f.Params))
	for k := range f.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		o = o.Set(k, f.Params[k])
	}
	return o
}

// Placement is the state of one display object at a frame.
type Placement struct {
	ObjectID       uint32
	AssetID        uint32
	Kind           PlacementKind
	Depth          int // 0 is the back-most object
	Transform      Matrix
	ColorTransform ColorTransform
	MaskTill       uint32 // 0 when the object is not a mask
	BlendMode      BlendMode
	Visible        bool
	Filters        []Filter

	InstanceName string   // movie clips only
	FirstFrame   uint32   // graphics only
	LoopMode     LoopMode // graphics only
}

// JSONValue implements Valuer.
func (p Placement) JSONValue() any {
	o := Object{}.
		Set("objectId", p.ObjectID).
		Set("assetId", p.AssetID).
		Set("kind", string(p.Kind)).
		Set("depth", p.Depth).
		Set("transform", p.Transform.JSONValue())
	if p.ColorTransform != IdentityColorTransform {
		o = o.Set("colorTransform", p.ColorTransform.JSONValue())
	}
	if p.MaskTill != 0 {
		o = o.Set("maskTill", p.MaskTill)
	}
	if p.BlendMode != "" && p.BlendMode != BlendNormal {
		o = o.Set("blendMode", string(p.BlendMode))
	}
	o = o.Set("visible", p.Visible)
	if len(p.Filters) > 0 {
		o = o.Set("filters", List(p.Filters))
	}
	switch p.Kind {
	case KindMovieClip:
		if p.InstanceName != "" {
			o = o.Set("instanceName", p.InstanceName)
		}
	case KindGraphic:
		o = o.Set("firstFrame", p.FirstFrame).Set("loopMode", string(p.LoopMode))
	}
	return o
}

// FrameScript is an action script attached to a frame on a layer.
type FrameScript struct {
	Layer  uint32
	Script string
}

// JSONValue implements Valuer.
func (s FrameScript) JSONValue() any {
	return Object{}.Set("layer", s.Layer).Set("script", s.Script)
}

// Frame is a snapshot of a timeline's display list.
type Frame struct {
	Index     uint32
	Label     string
	LabelType string
	Scripts   []FrameScript
	Objects   []Placement // back to front
}

// JSONValue implements Valuer.
func (f Frame) JSONValue() any {
	o := Object{}.Set("index", f.Index)
	if f.Label != "" {
		o = o.Set("label", f.Label)
		if f.LabelType != "" {
			o = o.Set("labelType", f.LabelType)
		}
	}
	if len(f.Scripts) > 0 {
		o = o.Set("scripts", List(f.Scripts))
	}
	return o.Set("objects", List(f.Objects))
}

// Timeline is a symbol or stage timeline resource.
type Timeline struct {
	AssetID uint32
	Name    string
	Type    TimelineType
	Frames  []Frame
}

// TotalFrames returns the number of frames in the timeline.
func (t Timeline) TotalFrames() int {
	return len(t.Frames)
}

// JSONValue implements Valuer.
func (t Timeline) JSONValue() any {
	return Object{}.
		Set("assetId", t.AssetID).
		Set("name", t.Name).
		Set("type", string(t.Type)).
		Set("totalFrames", t.TotalFrames()).
		Set("frames", List(t.Frames))
}
