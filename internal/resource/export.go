package resource

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// FileExporter exports an asset by copying its source file. A source that
// already is the destination file is left untouched.
type FileExporter struct{}

// Export implements Exporter.
func (FileExporter) Export(ctx context.Context, src Source, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if src.Path == "" {
		return errors.New("source has no file path")
	}

	in, err := os.Open(src.Path)
	if err != nil {
		return err
	}
	defer in.Close()

	// An asset already inside the export folder is its own copy. Creating
	// dest would truncate the source.
	srcInfo, err := in.Stat()
	if err != nil {
		return err
	}
	if destInfo, err := os.Stat(dest); err == nil && os.SameFile(srcInfo, destInfo) {
		return nil
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	return out.Close()
}

// OSDirCreator creates directories on the local filesystem.
type OSDirCreator struct{}

// MkdirAll implements DirCreator.
func (OSDirCreator) MkdirAll(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// ImageSize reads the pixel dimensions of an image file without decoding
// it. PNG, JPEG, GIF, BMP, TIFF and WebP are recognized.
func ImageSize(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return 0, 0, fmt.Errorf("%s image %s has no size", format, path)
	}
	return cfg.Width, cfg.Height, nil
}

// ImageProber reports the pixel size of an exported image.
type ImageProber interface {
	Probe(path string) (width, height int, err error)
}

// FileProber probes image files with ImageSize.
type FileProber struct{}

// Probe implements ImageProber.
func (FileProber) Probe(path string) (int, int, error) {
	return ImageSize(path)
}
