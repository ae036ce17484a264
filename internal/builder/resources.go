package builder

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/roach88/sceneforge/internal/ir"
	"github.com/roach88/sceneforge/internal/resource"
	"github.com/roach88/sceneforge/internal/shape"
)

// Collections whose ids must be unique.
const (
	collectionShapes    = "shape"
	collectionBitmaps   = "bitmap"
	collectionSounds    = "sound"
	collectionTexts     = "text"
	collectionTimelines = "timeline"
)

// acquireImage exports an image through the image cache and fills in its
// size when the walker did not report one.
func (b *Builder) acquireImage(ctx context.Context, src resource.Source, width, height float64) (resource.Entry, float64, float64, error) {
	_, seen := b.images.Lookup(src.ID)
	e, err := b.images.Acquire(ctx, src)
	if err != nil {
		return resource.Entry{}, 0, 0, err
	}
	if !seen {
		b.assets = append(b.assets, Asset{Kind: "image", SourceID: src.ID, Src: e.Src, Path: e.Path})
	}
	if width == 0 || height == 0 {
		w, h, err := b.prober.Probe(e.Path)
		if err != nil {
			b.logger.WithFields(logrus.Fields{
				"source": src.ID,
				"path":   e.Path,
			}).WithError(err).Warn("Could not read bitmap size")
		} else {
			width, height = float64(w), float64(h)
		}
	}
	return e, width, height, nil
}

// DefineBitmap exports a bitmap resource.
func (b *Builder) DefineBitmap(ctx context.Context, resID uint32, width, height float64, src resource.Source) error {
	const event = "DefineBitmap"
	if _, err := b.expect(event, "", scopeTimeline); err != nil {
		return err
	}
	if err := b.claim(event, collectionBitmaps, resID); err != nil {
		return err
	}
	e, w, h, err := b.acquireImage(ctx, src, width, height)
	if err != nil {
		return err
	}
	b.doc.Bitmaps = append(b.doc.Bitmaps, ir.Bitmap{
		AssetID: resID,
		Width:   w,
		Height:  h,
		Src:     e.Src,
		Name:    e.Name,
	})
	return nil
}

// DefineSound exports a sound resource.
func (b *Builder) DefineSound(ctx context.Context, resID uint32, src resource.Source) error {
	const event = "DefineSound"
	if _, err := b.expect(event, "", scopeTimeline); err != nil {
		return err
	}
	if err := b.claim(event, collectionSounds, resID); err != nil {
		return err
	}
	_, seen := b.sounds.Lookup(src.ID)
	e, err := b.sounds.Acquire(ctx, src)
	if err != nil {
		return err
	}
	if !seen {
		b.assets = append(b.assets, Asset{Kind: "sound", SourceID: src.ID, Src: e.Src, Path: e.Path})
	}
	b.doc.Sounds = append(b.doc.Sounds, ir.Sound{AssetID: resID, Src: e.Src, Name: e.Name})
	return nil
}

// BitmapFill sets an image pattern as the paint of the open fill or
// stroke. The image is exported through the same cache as bitmaps.
func (b *Builder) BitmapFill(ctx context.Context, src resource.Source, clipped bool, m ir.Matrix) error {
	s, err := b.expect("BitmapFill", scopeFill, scopeStroke)
	if err != nil {
		return err
	}
	e, w, h, err := b.acquireImage(ctx, src, 0, 0)
	if err != nil {
		return err
	}
	s.shape.SetFill(ir.BitmapFill{
		Height:    h,
		Width:     w,
		Src:       e.Src,
		Name:      e.Name,
		Clipped:   clipped,
		Transform: shape.PatternTransform(m),
	})
	return nil
}
