// Package timeline assembles per-symbol frame sequences from placement
// commands.
//
// A Builder keeps a registry of the objects currently placed, ordered back
// to front, plus bookkeeping that only lives until the next ShowFrame
// (label and frame scripts). ShowFrame snapshots the registry; placed objects
// persist across frames until removed.
package timeline

import (
	"slices"

	"github.com/roach88/sceneforge/internal/ir"
)

// Label types of a frame label.
const (
	LabelName    = "name"
	LabelComment = "comment"
	LabelAnchor  = "anchor"
)

// PlaceInfo describes a newly placed object.
type PlaceInfo struct {
	AssetID    uint32    `yaml:"asset_id"`
	PlaceAfter uint32    `yaml:"place_after"` // 0 places the object at the back
	Transform  ir.Matrix `yaml:"transform"`

	InstanceName string      `yaml:"instance_name,omitempty"` // movie clips
	FirstFrame   uint32      `yaml:"first_frame,omitempty"`   // graphics
	LoopMode     ir.LoopMode `yaml:"loop_mode,omitempty"`     // graphics
}

// Builder is the state machine of one timeline.
type Builder struct {
	objects []*ir.Placement // back to front
	frames  []ir.Frame

	label     string
	labelType string
	scripts   []ir.FrameScript
}

// New returns an empty timeline builder.
func New() *Builder {
	return &Builder{}
}

func (b *Builder) indexOf(id uint32) int {
	return slices.IndexFunc(b.objects, func(p *ir.Placement) bool { return p.ObjectID == id })
}

func (b *Builder) find(op string, id uint32) (*ir.Placement, error) {
	i := b.indexOf(id)
	if i < 0 {
		return nil, notPlaced(op, id)
	}
	return b.objects[i], nil
}

// insertAfter inserts p directly in front of ref, or at the back when ref
// is 0.
func (b *Builder) insertAfter(op string, p *ir.Placement, ref uint32) error {
	at := 0
	if ref != 0 {
		i := b.indexOf(ref)
		if i < 0 {
			return refNotPlaced(op, p.ObjectID, ref)
		}
		at = i + 1
	}
	b.objects = slices.Insert(b.objects, at, p)
	return nil
}

// Place adds a display object of the given kind.
func (b *Builder) Place(kind ir.PlacementKind, objectID uint32, info PlaceInfo) error {
	const op = "place"
	if !kind.Valid() {
		return &ContractError{Op: op, ObjectID: objectID, Message: "unknown kind " + string(kind)}
	}
	if b.indexOf(objectID) >= 0 {
		return &ContractError{Op: op, ObjectID: objectID, Message: "object is already placed"}
	}
	p := &ir.Placement{
		ObjectID:       objectID,
		AssetID:        info.AssetID,
		Kind:           kind,
		Transform:      info.Transform,
		ColorTransform: ir.IdentityColorTransform,
		BlendMode:      ir.BlendNormal,
		Visible:        true,
	}
	switch kind {
	case ir.KindMovieClip:
		p.InstanceName = info.InstanceName
	case ir.KindGraphic:
		p.FirstFrame = info.FirstFrame
		p.LoopMode = info.LoopMode
		if p.LoopMode == "" {
			p.LoopMode = ir.LoopForever
		}
	}
	return b.insertAfter(op, p, info.PlaceAfter)
}

// AddShape places a shape.
func (b *Builder) AddShape(objectID uint32, info PlaceInfo) error {
	return b.Place(ir.KindShape, objectID, info)
}

// AddBitmap places a bitmap.
func (b *Builder) AddBitmap(objectID uint32, info PlaceInfo) error {
	return b.Place(ir.KindBitmap, objectID, info)
}

// AddMovieClip places a movie clip instance.
func (b *Builder) AddMovieClip(objectID uint32, info PlaceInfo) error {
	return b.Place(ir.KindMovieClip, objectID, info)
}

// AddGraphic places a graphic symbol instance.
func (b *Builder) AddGraphic(objectID uint32, info PlaceInfo) error {
	return b.Place(ir.KindGraphic, objectID, info)
}

// AddSound places a sound.
func (b *Builder) AddSound(objectID uint32, info PlaceInfo) error {
	return b.Place(ir.KindSound, objectID, info)
}

// AddClassicText places a text field.
func (b *Builder) AddClassicText(objectID uint32, info PlaceInfo) error {
	return b.Place(ir.KindText, objectID, info)
}

// UpdateTransform replaces an object's transform.
func (b *Builder) UpdateTransform(objectID uint32, m ir.Matrix) error {
	p, err := b.find("update transform", objectID)
	if err != nil {
		return err
	}
	p.Transform = m
	return nil
}

// UpdateColorTransform replaces an object's color transform.
func (b *Builder) UpdateColorTransform(objectID uint32, ct ir.ColorTransform) error {
	p, err := b.find("update color transform", objectID)
	if err != nil {
		return err
	}
	p.ColorTransform = ct
	return nil
}

// UpdateZOrder moves an object directly in front of placeAfter, or to the
// back when placeAfter is 0. No other object changes position.
func (b *Builder) UpdateZOrder(objectID, placeAfter uint32) error {
	const op = "update z-order"
	i := b.indexOf(objectID)
	if i < 0 {
		return notPlaced(op, objectID)
	}
	if placeAfter == objectID {
		return &ContractError{Op: op, ObjectID: objectID, Ref: placeAfter, Message: "object cannot follow itself"}
	}
	if placeAfter != 0 && b.indexOf(placeAfter) < 0 {
		return refNotPlaced(op, objectID, placeAfter)
	}
	p := b.objects[i]
	b.objects = slices.Delete(b.objects, i, i+1)
	return b.insertAfter(op, p, placeAfter)
}

// UpdateMask makes an object a mask for every object up to maskTill.
// A maskTill of 0 clears the mask.
func (b *Builder) UpdateMask(objectID, maskTill uint32) error {
	const op = "update mask"
	p, err := b.find(op, objectID)
	if err != nil {
		return err
	}
	if maskTill != 0 && b.indexOf(maskTill) < 0 {
		return refNotPlaced(op, objectID, maskTill)
	}
	p.MaskTill = maskTill
	return nil
}

// UpdateBlendMode sets an object's blend mode.
func (b *Builder) UpdateBlendMode(objectID uint32, mode ir.BlendMode) error {
	p, err := b.find("update blend mode", objectID)
	if err != nil {
		return err
	}
	p.BlendMode = mode
	return nil
}

// UpdateVisibility shows or hides an object.
func (b *Builder) UpdateVisibility(objectID uint32, visible bool) error {
	p, err := b.find("update visibility", objectID)
	if err != nil {
		return err
	}
	p.Visible = visible
	return nil
}

// UpdateFilters replaces an object's filter list.
func (b *Builder) UpdateFilters(objectID uint32, filters []ir.Filter) error {
	p, err := b.find("update filters", objectID)
	if err != nil {
		return err
	}
	p.Filters = slices.Clone(filters)
	return nil
}

// Remove takes an object off the timeline.
func (b *Builder) Remove(objectID uint32) error {
	i := b.indexOf(objectID)
	if i < 0 {
		return notPlaced("remove", objectID)
	}
	b.objects = slices.Delete(b.objects, i, i+1)
	return nil
}

// SetFrameLabel labels the frame being built.
func (b *Builder) SetFrameLabel(label, labelType string) {
	b.label = label
	b.labelType = labelType
}

// AddFrameScript attaches a script on a layer to the frame being built.
// A second script on the same layer replaces the first.
func (b *Builder) AddFrameScript(layer uint32, script string) {
	b.RemoveFrameScript(layer)
	b.scripts = append(b.scripts, ir.FrameScript{Layer: layer, Script: script})
}

// RemoveFrameScript drops the script of a layer from the frame being built.
func (b *Builder) RemoveFrameScript(layer uint32) {
	b.scripts = slices.DeleteFunc(b.scripts, func(s ir.FrameScript) bool { return s.Layer == layer })
}

// ShowFrame snapshots the placed objects into a new frame and clears the
// per-frame label and scripts.
func (b *Builder) ShowFrame() {
	f := ir.Frame{
		Index:     uint32(len(b.frames)),
		Label:     b.label,
		LabelType: b.labelType,
		Scripts:   b.scripts,
		Objects:   make([]ir.Placement, len(b.objects)),
	}
	for i, p := range b.objects {
		snap := *p
		snap.Depth = i
		snap.Filters = slices.Clone(p.Filters)
		f.Objects[i] = snap
	}
	b.frames = append(b.frames, f)

	b.label, b.labelType = "", ""
	b.scripts = nil
}

// FrameCount returns the number of frames shown so far.
func (b *Builder) FrameCount() int {
	return len(b.frames)
}

// Placed returns the ids of the objects currently placed, back to front.
func (b *Builder) Placed() []uint32 {
	ids := make([]uint32, len(b.objects))
	for i, p := range b.objects {
		ids[i] = p.ObjectID
	}
	return ids
}

// Build returns the finished timeline. The stage (resource id 0) is typed
// as the stage; every other timeline starts out as a movie clip.
func (b *Builder) Build(assetID uint32, name string, namer *Namer) ir.Timeline {
	typ := ir.TimelineMovieClip
	if assetID == 0 {
		typ = ir.TimelineStage
	}
	return ir.Timeline{
		AssetID: assetID,
		Name:    namer.Name(assetID, name),
		Type:    typ,
		Frames:  b.frames,
	}
}
