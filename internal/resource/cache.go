// Package resource exports bitmap and sound assets at most once per source.
//
// A Cache owns one output folder (for example "<base>/images"). The first
// Acquire of a source creates the folder if needed, asks the Exporter to
// write the asset, and records the assigned name. Every later Acquire of the
// same source returns that name without touching the filesystem.
package resource

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Default extensions used when a source has none.
const (
	DefaultImageExt = "png"
	DefaultSoundExt = "wav"
)

// Source identifies an asset in the authored document.
type Source struct {
	// ID is the stable identity of the asset, usually its library path.
	ID string `yaml:"id"`

	// Path is the file the asset is exported from. When empty the name is
	// derived from ID.
	Path string `yaml:"path,omitempty"`
}

// Entry is the export record of one source.
type Entry struct {
	Name string // file name without extension
	Ext  string // extension without the dot
	Src  string // path relative to the document, e.g. "images/hero.png"
	Path string // absolute destination path
}

// FileName returns Name.Ext.
func (e Entry) FileName() string {
	return e.Name + "." + e.Ext
}

// Exporter writes a single asset to dest.
type Exporter interface {
	Export(ctx context.Context, src Source, dest string) error
}

// DirCreator creates an output directory and its parents.
type DirCreator interface {
	MkdirAll(dir string) error
}

// Cache deduplicates asset exports by source identity.
//
// Cache is safe for concurrent use. The mutex covers both the source map and
// the directory check-then-create sequence.
type Cache struct {
	mu sync.Mutex

	dir        string
	relDir     string
	defaultExt string
	exporter   Exporter
	dirs       DirCreator
	logger     logrus.FieldLogger

	entries map[string]Entry
	taken   map[string]bool

	dirAttempted bool
	dirErr       error
}

// Option configures a Cache.
type Option func(*Cache)

// WithExporter sets the asset exporter. Defaults to FileExporter.
func WithExporter(e Exporter) Option {
	return func(c *Cache) { c.exporter = e }
}

// WithDirCreator sets the directory creator. Defaults to OSDirCreator.
func WithDirCreator(d DirCreator) Option {
	return func(c *Cache) { c.dirs = d }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Cache) { c.logger = l }
}

// NewCache returns a cache exporting into dir. relDir is the prefix used
// for document-relative Src paths and defaultExt the fallback extension.
func NewCache(dir, relDir, defaultExt string, opts ...Option) *Cache {
	c := &Cache{
		dir:        dir,
		relDir:     relDir,
		defaultExt: defaultExt,
		exporter:   FileExporter{},
		dirs:       OSDirCreator{},
		logger:     discardLogger(),
		entries:    make(map[string]Entry),
		taken:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dir returns the absolute output folder.
func (c *Cache) Dir() string {
	return c.dir
}

// Resolve returns the name assigned to sourceID, if any.
func (c *Cache) Resolve(sourceID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[sourceID]
	return e.Name, ok
}

// Lookup returns the full entry assigned to sourceID, if any.
func (c *Cache) Lookup(sourceID string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[sourceID]
	return e, ok
}

// Commit records the entry for sourceID. Committing an id twice returns
// ErrAlreadyCommitted.
func (c *Cache) Commit(sourceID string, e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commitLocked(sourceID, e)
}

func (c *Cache) commitLocked(sourceID string, e Entry) error {
	if _, ok := c.entries[sourceID]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyCommitted, sourceID)
	}
	c.entries[sourceID] = e
	c.taken[e.FileName()] = true
	return nil
}

// Acquire returns the entry for src, exporting it on first use.
func (c *Cache) Acquire(ctx context.Context, src Source) (Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[src.ID]; ok {
		return e, nil
	}
	if err := c.ensureDirLocked(); err != nil {
		return Entry{}, err
	}

	name, ext := splitName(src, c.defaultExt)
	name = c.uniqueLocked(name, ext)
	e := Entry{
		Name: name,
		Ext:  ext,
		Src:  path.Join(c.relDir, name+"."+ext),
		Path: filepath.Join(c.dir, name+"."+ext),
	}

	if err := c.exporter.Export(ctx, src, e.Path); err != nil {
		return Entry{}, &ExportError{SourceID: src.ID, Dest: e.Path, Err: err}
	}
	c.logger.WithFields(logrus.Fields{
		"source": src.ID,
		"dest":   e.Path,
	}).Debug("Exported asset")

	if err := c.commitLocked(src.ID, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Entries returns the number of committed sources.
func (c *Cache) Entries() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) ensureDirLocked() error {
	if c.dirAttempted {
		return c.dirErr
	}
	c.dirAttempted = true
	if err := c.dirs.MkdirAll(c.dir); err != nil {
		c.dirErr = &DirectoryCreationError{Dir: c.dir, Err: err}
		return c.dirErr
	}
	return nil
}

// uniqueLocked suffixes name with _1, _2... until name.ext is unused.
func (c *Cache) uniqueLocked(name, ext string) string {
	candidate := name
	for i := 1; c.taken[candidate+"."+ext]; i++ {
		candidate = fmt.Sprintf("%s_%d", name, i)
	}
	return candidate
}

// splitName derives the export name and extension of a source from its
// file path, or from its id when no path is known.
func splitName(src Source, defaultExt string) (string, string) {
	p := src.Path
	if p == "" {
		p = src.ID
	}
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	ext := path.Ext(base)
	name := strings.TrimSuffix(base, ext)
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		ext = defaultExt
	}
	if name == "" || name == "." || name == "/" {
		name = "asset"
	}
	return name, ext
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
