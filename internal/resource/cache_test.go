package resource

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingExporter struct {
	calls map[string]int
	dests []string
	err   error
}

func newCountingExporter() *countingExporter {
	return &countingExporter{calls: make(map[string]int)}
}

func (e *countingExporter) Export(_ context.Context, src Source, dest string) error {
	e.calls[src.ID]++
	e.dests = append(e.dests, dest)
	return e.err
}

type countingDirs struct {
	calls int
	err   error
}

func (d *countingDirs) MkdirAll(string) error {
	d.calls++
	return d.err
}

func newTestCache(exp Exporter, dirs DirCreator) *Cache {
	return NewCache("/out/images", "images", DefaultImageExt,
		WithExporter(exp), WithDirCreator(dirs))
}

func TestCache_AcquireTwiceExportsOnce(t *testing.T) {
	exp := newCountingExporter()
	dirs := &countingDirs{}
	c := newTestCache(exp, dirs)
	ctx := context.Background()

	src := Source{ID: "Library/hero.png", Path: "/assets/hero.png"}
	first, err := c.Acquire(ctx, src)
	require.NoError(t, err)
	second, err := c.Acquire(ctx, src)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, exp.calls[src.ID])
	assert.Equal(t, 1, dirs.calls)
	assert.Equal(t, "hero", first.Name)
	assert.Equal(t, "png", first.Ext)
	assert.Equal(t, "images/hero.png", first.Src)
	assert.Equal(t, filepath.Join("/out/images", "hero.png"), first.Path)

	name, ok := c.Resolve(src.ID)
	require.True(t, ok)
	assert.Equal(t, "hero", name)
}

func TestCache_OneDirectoryAttemptForManySources(t *testing.T) {
	exp := newCountingExporter()
	dirs := &countingDirs{}
	c := newTestCache(exp, dirs)

	for _, id := range []string{"a.png", "b.png", "c.jpg"} {
		_, err := c.Acquire(context.Background(), Source{ID: id})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, dirs.calls)
	assert.Equal(t, 3, c.Entries())
}

func TestCache_DefaultExtension(t *testing.T) {
	c := NewCache("/out/sounds", "sounds", DefaultSoundExt,
		WithExporter(newCountingExporter()), WithDirCreator(&countingDirs{}))

	e, err := c.Acquire(context.Background(), Source{ID: "Sounds/click"})
	require.NoError(t, err)
	assert.Equal(t, "click", e.Name)
	assert.Equal(t, "wav", e.Ext)
	assert.Equal(t, "sounds/click.wav", e.Src)
}

func TestCache_NameCollisionGetsSuffix(t *testing.T) {
	c := newTestCache(newCountingExporter(), &countingDirs{})
	ctx := context.Background()

	a, err := c.Acquire(ctx, Source{ID: "Folder1/tree.png"})
	require.NoError(t, err)
	b, err := c.Acquire(ctx, Source{ID: "Folder2/tree.png"})
	require.NoError(t, err)
	d, err := c.Acquire(ctx, Source{ID: "Folder3/tree.png"})
	require.NoError(t, err)

	assert.Equal(t, "tree", a.Name)
	assert.Equal(t, "tree_1", b.Name)
	assert.Equal(t, "tree_2", d.Name)
}

func TestCache_WindowsStylePath(t *testing.T) {
	c := newTestCache(newCountingExporter(), &countingDirs{})
	e, err := c.Acquire(context.Background(), Source{ID: "x", Path: `C:\art\Logo.PNG`})
	require.NoError(t, err)
	assert.Equal(t, "Logo", e.Name)
	assert.Equal(t, "png", e.Ext)
}

func TestCache_DirectoryFailureIsSticky(t *testing.T) {
	exp := newCountingExporter()
	dirs := &countingDirs{err: errors.New("read-only filesystem")}
	c := newTestCache(exp, dirs)
	ctx := context.Background()

	_, err := c.Acquire(ctx, Source{ID: "a.png"})
	require.Error(t, err)
	assert.True(t, IsDirectoryCreationError(err))

	_, err = c.Acquire(ctx, Source{ID: "b.png"})
	require.Error(t, err)
	assert.True(t, IsDirectoryCreationError(err))

	assert.Equal(t, 1, dirs.calls)
	assert.Empty(t, exp.calls)
}

func TestCache_ExportFailure(t *testing.T) {
	exp := newCountingExporter()
	exp.err = errors.New("disk full")
	c := newTestCache(exp, &countingDirs{})

	_, err := c.Acquire(context.Background(), Source{ID: "a.png"})
	require.Error(t, err)
	assert.True(t, IsExportError(err))
	assert.ErrorContains(t, err, "disk full")

	_, ok := c.Resolve("a.png")
	assert.False(t, ok, "failed export must not be committed")
}

func TestCache_CommitIsWriteOnce(t *testing.T) {
	c := newTestCache(newCountingExporter(), &countingDirs{})

	require.NoError(t, c.Commit("id", Entry{Name: "one", Ext: "png"}))
	err := c.Commit("id", Entry{Name: "two", Ext: "png"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyCommitted)

	name, ok := c.Resolve("id")
	require.True(t, ok)
	assert.Equal(t, "one", name)
}

func TestFileExporter_CopiesFile(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "in.bin")
	require.NoError(t, os.WriteFile(srcPath, []byte("payload"), 0o644))

	c := NewCache(filepath.Join(dir, "out", "images"), "images", DefaultImageExt)
	e, err := c.Acquire(context.Background(), Source{ID: "lib/in.bin", Path: srcPath})
	require.NoError(t, err)

	got, err := os.ReadFile(e.Path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestFileExporter_SamePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	srcPath := filepath.Join(dir, "hero.png")
	require.NoError(t, os.WriteFile(srcPath, []byte("payload"), 0o644))

	c := NewCache(dir, "images", DefaultImageExt)
	e, err := c.Acquire(context.Background(), Source{ID: "hero", Path: srcPath})
	require.NoError(t, err)
	assert.Equal(t, srcPath, e.Path)

	got, err := os.ReadFile(srcPath)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got), "source must survive exporting onto itself")
}

func TestFileExporter_MissingPath(t *testing.T) {
	err := FileExporter{}.Export(context.Background(), Source{ID: "x"}, filepath.Join(t.TempDir(), "x"))
	assert.Error(t, err)
}

func TestImageSize(t *testing.T) {
	p := filepath.Join(t.TempDir(), "img.png")
	f, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 12, 7))))
	require.NoError(t, f.Close())

	w, h, err := FileProber{}.Probe(p)
	require.NoError(t, err)
	assert.Equal(t, 12, w)
	assert.Equal(t, 7, h)
}

func TestImageSize_NotAnImage(t *testing.T) {
	p := filepath.Join(t.TempDir(), "img.png")
	require.NoError(t, os.WriteFile(p, []byte("nope"), 0o644))
	_, _, err := ImageSize(p)
	assert.Error(t, err)
}
