package builder

import (
	"github.com/sirupsen/logrus"

	"github.com/roach88/sceneforge/internal/ir"
	"github.com/roach88/sceneforge/internal/timeline"
	"github.com/roach88/sceneforge/internal/tween"
)

// StartTimeline opens a timeline. Its resource id and name arrive with
// EndTimeline, once every frame is known.
func (b *Builder) StartTimeline() error {
	if _, err := b.expect("StartTimeline", "", scopeTimeline); err != nil {
		return err
	}
	b.push(&scope{kind: scopeTimeline, timeline: timeline.New()})
	return nil
}

// EndTimeline closes the innermost timeline, appends it to the document and,
// when enabled, extracts its tweens from the authored layers.
func (b *Builder) EndTimeline(resID uint32, name string, layers []tween.Layer) error {
	const event = "EndTimeline"
	s, err := b.pop(event, scopeTimeline)
	if err != nil {
		return err
	}
	if err := b.claim(event, collectionTimelines, resID); err != nil {
		return err
	}
	tl := s.timeline.Build(resID, name, b.namer)
	b.doc.Timelines = append(b.doc.Timelines, tl)

	log := b.logger.WithFields(logrus.Fields{
		"timeline": tl.Name,
		"asset":    resID,
		"frames":   tl.TotalFrames(),
	})
	log.Debug("Timeline finished")

	if !b.tweens || len(layers) == 0 {
		return nil
	}
	if tw, ok := b.extractor.Extract(tl.Name, layers); ok {
		b.doc.Tweens = append(b.doc.Tweens, tw)
		log.WithField("tweens", len(tw.Tweens)).Debug("Tweens extracted")
	}
	return nil
}

func (b *Builder) timeline(event string) (*timeline.Builder, error) {
	s, err := b.expect(event, scopeTimeline)
	if err != nil {
		return nil, err
	}
	return s.timeline, nil
}

// Place puts a display object on the innermost timeline.
func (b *Builder) Place(kind ir.PlacementKind, objectID uint32, info timeline.PlaceInfo) error {
	tl, err := b.timeline("Place")
	if err != nil {
		return err
	}
	return tl.Place(kind, objectID, info)
}

// UpdateTransform replaces the transform of a placed object.
func (b *Builder) UpdateTransform(objectID uint32, m ir.Matrix) error {
	tl, err := b.timeline("UpdateTransform")
	if err != nil {
		return err
	}
	return tl.UpdateTransform(objectID, m)
}

// UpdateColorTransform replaces the color transform of a placed object.
func (b *Builder) UpdateColorTransform(objectID uint32, ct ir.ColorTransform) error {
	tl, err := b.timeline("UpdateColorTransform")
	if err != nil {
		return err
	}
	return tl.UpdateColorTransform(objectID, ct)
}

// UpdateZOrder moves a placed object in front of placeAfter.
func (b *Builder) UpdateZOrder(objectID, placeAfter uint32) error {
	tl, err := b.timeline("UpdateZOrder")
	if err != nil {
		return err
	}
	return tl.UpdateZOrder(objectID, placeAfter)
}

// UpdateMask makes a placed object mask the objects up to maskTill.
func (b *Builder) UpdateMask(objectID, maskTill uint32) error {
	tl, err := b.timeline("UpdateMask")
	if err != nil {
		return err
	}
	return tl.UpdateMask(objectID, maskTill)
}

// UpdateBlendMode sets the blend mode of a placed object.
func (b *Builder) UpdateBlendMode(objectID uint32, mode ir.BlendMode) error {
	tl, err := b.timeline("UpdateBlendMode")
	if err != nil {
		return err
	}
	return tl.UpdateBlendMode(objectID, mode)
}

// UpdateVisibility shows or hides a placed object.
func (b *Builder) UpdateVisibility(objectID uint32, visible bool) error {
	tl, err := b.timeline("UpdateVisibility")
	if err != nil {
		return err
	}
	return tl.UpdateVisibility(objectID, visible)
}

// UpdateFilters replaces the filters of a placed object.
func (b *Builder) UpdateFilters(objectID uint32, filters []ir.Filter) error {
	tl, err := b.timeline("UpdateFilters")
	if err != nil {
		return err
	}
	return tl.UpdateFilters(objectID, filters)
}

// Remove takes an object off the innermost timeline.
func (b *Builder) Remove(objectID uint32) error {
	tl, err := b.timeline("Remove")
	if err != nil {
		return err
	}
	return tl.Remove(objectID)
}

// SetFrameLabel labels the frame being built.
func (b *Builder) SetFrameLabel(label, labelType string) error {
	tl, err := b.timeline("SetFrameLabel")
	if err != nil {
		return err
	}
	tl.SetFrameLabel(label, labelType)
	return nil
}

// AddFrameScript attaches a script to the frame being built.
func (b *Builder) AddFrameScript(layer uint32, script string) error {
	tl, err := b.timeline("AddFrameScript")
	if err != nil {
		return err
	}
	tl.AddFrameScript(layer, script)
	return nil
}

// RemoveFrameScript drops a layer's script from the frame being built.
func (b *Builder) RemoveFrameScript(layer uint32) error {
	tl, err := b.timeline("RemoveFrameScript")
	if err != nil {
		return err
	}
	tl.RemoveFrameScript(layer)
	return nil
}

// ShowFrame completes the current frame of the innermost timeline.
func (b *Builder) ShowFrame() error {
	tl, err := b.timeline("ShowFrame")
	if err != nil {
		return err
	}
	tl.ShowFrame()
	return nil
}
