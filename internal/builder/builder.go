// Package builder reconstructs a scene document from the flat event stream
// of a document walker.
//
// Builder implements EventSink. It keeps an explicit stack of open
// contexts; every Start event pushes one and the matching End pops it, so a
// stray or mismatched End fails with a *StateError instead of corrupting
// the document. Finished nodes are appended to the document in call order.
// EndDocument finalizes, serializes, and hands the data file to the publish
// collaborators. A Builder serves exactly one export.
package builder

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/roach88/sceneforge/internal/gradient"
	"github.com/roach88/sceneforge/internal/ir"
	"github.com/roach88/sceneforge/internal/library"
	"github.com/roach88/sceneforge/internal/resource"
	"github.com/roach88/sceneforge/internal/settings"
	"github.com/roach88/sceneforge/internal/shape"
	"github.com/roach88/sceneforge/internal/text"
	"github.com/roach88/sceneforge/internal/timeline"
	"github.com/roach88/sceneforge/internal/tween"
)

// Output is what the builder hands to the publish collaborators once the
// document is written.
type Output struct {
	Document *ir.Document
	DataFile string
	Settings settings.Publish

	// Vars are the template substitutions of the document, e.g. "width".
	Vars map[string]string
}

// Handoff runs after the document is serialized: compiling, HTML output,
// preview and the like.
type Handoff interface {
	Handoff(ctx context.Context, out Output) error
}

// HandoffFunc adapts a function to Handoff.
type HandoffFunc func(ctx context.Context, out Output) error

// Handoff implements Handoff.
func (f HandoffFunc) Handoff(ctx context.Context, out Output) error {
	return f(ctx, out)
}

// Asset records one exported bitmap or sound.
type Asset struct {
	Kind     string // "image" or "sound"
	SourceID string
	Src      string
	Path     string
}

// Builder is the document builder.
type Builder struct {
	settings  settings.Publish
	logger    logrus.FieldLogger
	exporter  resource.Exporter
	dirs      resource.DirCreator
	prober    resource.ImageProber
	handoff   Handoff
	tweens    bool
	indent    string
	extractor *tween.Extractor

	images *resource.Cache
	sounds *resource.Cache
	namer  *timeline.Namer

	doc       *ir.Document
	vars      map[string]string
	stack     []*scope
	started   bool
	finalized bool
	ids       map[string]map[uint32]bool
	assets    []Asset
}

// Option configures a Builder.
type Option func(*Builder)

// WithExporter sets the asset exporter used for bitmaps and sounds.
func WithExporter(e resource.Exporter) Option {
	return func(b *Builder) { b.exporter = e }
}

// WithDirCreator sets how output folders are created.
func WithDirCreator(d resource.DirCreator) Option {
	return func(b *Builder) { b.dirs = d }
}

// WithHandoff sets the collaborators run after serialization.
func WithHandoff(h Handoff) Option {
	return func(b *Builder) { b.handoff = h }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithTweens enables or disables tween extraction, overriding the
// settings.
func WithTweens(enabled bool) Option {
	return func(b *Builder) { b.tweens = enabled }
}

// WithImageProber sets how bitmap sizes are read when the walker reports
// none.
func WithImageProber(p resource.ImageProber) Option {
	return func(b *Builder) { b.prober = p }
}

// New returns a builder for one export with the given settings.
func New(s settings.Publish, opts ...Option) *Builder {
	l := logrus.New()
	l.SetOutput(io.Discard)

	b := &Builder{
		settings: s,
		logger:   l,
		exporter: resource.FileExporter{},
		dirs:     resource.OSDirCreator{},
		prober:   resource.FileProber{},
		tweens:   s.Tweens,
		ids:      make(map[string]map[uint32]bool),
	}
	if s.Debug {
		b.indent = "  "
	}
	for _, opt := range opts {
		opt(b)
	}

	cacheOpts := []resource.Option{
		resource.WithExporter(b.exporter),
		resource.WithDirCreator(b.dirs),
		resource.WithLogger(b.logger),
	}
	b.images = resource.NewCache(s.ImagesDir(), settings.RelDir(s.ImagesPath), resource.DefaultImageExt, cacheOpts...)
	b.sounds = resource.NewCache(s.SoundsDir(), settings.RelDir(s.SoundsPath), resource.DefaultSoundExt, cacheOpts...)
	b.namer = timeline.NewNamer(s.StageName)
	b.extractor = tween.NewExtractor(b.logger)
	return b
}

// Assets returns the bitmaps and sounds exported so far, in export order.
func (b *Builder) Assets() []Asset {
	return slices.Clone(b.assets)
}

// Vars returns the template substitutions set by StartDocument.
func (b *Builder) Vars() map[string]string {
	return b.vars
}

// scopeKind names an open context.
type scopeKind string

const (
	scopeShape     scopeKind = "shape"
	scopeFill      scopeKind = "fill"
	scopeStroke    scopeKind = "stroke"
	scopeGradient  scopeKind = "gradient"
	scopeBoundary  scopeKind = "boundary"
	scopeHole      scopeKind = "hole"
	scopeText      scopeKind = "text"
	scopeParagraph scopeKind = "paragraph"
	scopeTimeline  scopeKind = "timeline"
)

// scope is the local state of one open context. Sub-builders are shared
// with the enclosing scope of the same resource.
type scope struct {
	kind  scopeKind
	resID uint32

	shape    *shape.Builder
	gradient *gradient.Builder
	text     *text.Builder
	timeline *timeline.Builder
}

func (b *Builder) top() *scope {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

func (b *Builder) openName() string {
	if s := b.top(); s != nil {
		return string(s.kind)
	}
	return "document"
}

// live fails unless the document is started and not yet finalized.
func (b *Builder) live(event string) error {
	if b.finalized {
		return &StateError{Code: ErrCodeFinalized, Event: event, Message: "document already finalized"}
	}
	if !b.started {
		return &StateError{Code: ErrCodeNoDocument, Event: event, Message: "no document started"}
	}
	return nil
}

// expect returns the innermost scope if it is one of kinds. An empty kind
// stands for the document itself (no open scope).
func (b *Builder) expect(event string, kinds ...scopeKind) (*scope, error) {
	if err := b.live(event); err != nil {
		return nil, err
	}
	top := b.top()
	for _, k := range kinds {
		if top == nil && k == "" {
			return nil, nil
		}
		if top != nil && top.kind == k {
			return top, nil
		}
	}
	return nil, &StateError{
		Code:    ErrCodeWrongContext,
		Event:   event,
		Message: fmt.Sprintf("expected to be inside %v", kindNames(kinds)),
		Open:    b.openName(),
	}
}

func kindNames(kinds []scopeKind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		if k == "" {
			names[i] = "document"
		} else {
			names[i] = string(k)
		}
	}
	return names
}

func (b *Builder) push(s *scope) {
	b.stack = append(b.stack, s)
}

// pop closes the innermost scope, which must be of kind.
func (b *Builder) pop(event string, kind scopeKind) (*scope, error) {
	if err := b.live(event); err != nil {
		return nil, err
	}
	top := b.top()
	if top == nil {
		return nil, &StateError{
			Code:    ErrCodeUnmatchedEnd,
			Event:   event,
			Message: fmt.Sprintf("no open %s", kind),
		}
	}
	if top.kind != kind {
		return nil, &StateError{
			Code:    ErrCodeUnmatchedEnd,
			Event:   event,
			Message: fmt.Sprintf("expected end of %s", top.kind),
			Open:    string(top.kind),
		}
	}
	b.stack = b.stack[:len(b.stack)-1]
	return top, nil
}

// claim records a resource id in a collection, failing on reuse.
func (b *Builder) claim(event, collection string, id uint32) error {
	seen := b.ids[collection]
	if seen == nil {
		seen = make(map[uint32]bool)
		b.ids[collection] = seen
	}
	if seen[id] {
		return &StateError{
			Code:    ErrCodeDuplicateID,
			Event:   event,
			Message: fmt.Sprintf("%s id %d already defined", collection, id),
		}
	}
	seen[id] = true
	return nil
}

// StartDocument opens the document and records stage metadata.
func (b *Builder) StartDocument(background ir.Color, width, height uint32, fps float64) error {
	const event = "StartDocument"
	if b.finalized {
		return &StateError{Code: ErrCodeFinalized, Event: event, Message: "document already finalized"}
	}
	if b.started {
		return &StateError{Code: ErrCodeWrongContext, Event: event, Message: "document already started"}
	}
	b.started = true

	s := b.settings
	b.doc = &ir.Document{Meta: ir.Meta{
		OutputFile:       s.OutputFile,
		OutputVersion:    s.OutputVersion,
		OutputFormat:     s.OutputFormat,
		StageName:        s.StageName,
		CompressJS:       s.CompressJS,
		CompactShapes:    s.CompactShapes,
		NameSpace:        s.NameSpace,
		LoopTimeline:     s.LoopTimeline,
		Framerate:        fps,
		Background:       background.Hex(),
		Width:            width,
		Height:           height,
		Images:           s.Images,
		ImagesPath:       s.ImagesPath,
		Spritesheets:     s.Spritesheets,
		SpritesheetSize:  s.SpritesheetSize,
		SpritesheetScale: s.SpritesheetScale,
		HTML:             s.HTML,
		HTMLPath:         s.HTMLPath,
		Sounds:           s.Sounds,
		SoundsPath:       s.SoundsPath,
		Version:          ir.Version(),
	}}

	b.vars = map[string]string{
		"imagesPath": s.ImagesPath,
		"libsPath":   s.LibsPath,
		"soundsPath": s.SoundsPath,
		"htmlPath":   s.HTMLPath,
		"outputFile": s.OutputFile,
		"outputName": s.OutputName(),
		"stageName":  s.StageName,
		"width":      strconv.FormatUint(uint64(width), 10),
		"height":     strconv.FormatUint(uint64(height), 10),
		"background": background.Hex(),
		"fps":        strconv.FormatFloat(fps, 'f', -1, 64),
		"nameSpace":  s.NameSpace,
	}

	b.logger.WithFields(logrus.Fields{
		"width":      width,
		"height":     height,
		"fps":        fps,
		"background": background.Hex(),
	}).Debug("Document started")
	return nil
}

// EndDocument finalizes and serializes the document, then runs the
// handoff. It may be called once; later calls fail with a *StateError.
func (b *Builder) EndDocument(ctx context.Context) (*ir.Document, error) {
	const event = "EndDocument"
	if err := b.live(event); err != nil {
		return nil, err
	}
	if top := b.top(); top != nil {
		return nil, &StateError{
			Code:    ErrCodeUnclosed,
			Event:   event,
			Message: fmt.Sprintf("%d context(s) still open", len(b.stack)),
			Open:    string(top.kind),
		}
	}
	b.finalized = true

	for _, r := range library.Normalize(b.doc) {
		b.logger.WithFields(logrus.Fields{
			"asset": r.AssetID,
			"from":  r.From,
			"to":    r.To,
		}).Debug("Renamed timeline")
	}

	dataFile := b.settings.DataFile()
	if err := b.write(dataFile); err != nil {
		return nil, err
	}
	b.logger.WithFields(logrus.Fields{
		"path":      dataFile,
		"shapes":    len(b.doc.Shapes),
		"timelines": len(b.doc.Timelines),
	}).Info("Document written")

	if b.handoff != nil {
		out := Output{Document: b.doc, DataFile: dataFile, Settings: b.settings, Vars: b.vars}
		if err := b.handoff.Handoff(ctx, out); err != nil {
			return b.doc, fmt.Errorf("handoff: %w", err)
		}
	}
	return b.doc, nil
}
