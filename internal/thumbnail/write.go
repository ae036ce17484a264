package thumbnail

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/roach88/sceneforge/internal/ir"
)

// Writer renders shapes into PNG files.
type Writer struct {
	Dir    string
	Size   int
	Logger logrus.FieldLogger
}

// FileName returns the thumbnail file name of a shape.
func FileName(assetID uint32) string {
	return fmt.Sprintf("shape_%d.png", assetID)
}

// WriteAll renders every shape and returns the written paths in shape
// order. Shapes without geometry are skipped with a warning.
func (w Writer) WriteAll(shapes []ir.Shape) ([]string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create thumbnail folder: %w", err)
	}
	size := w.Size
	if size == 0 {
		size = DefaultSize
	}

	var written []string
	for _, s := range shapes {
		img, err := Render(s, size)
		if errors.Is(err, ErrEmptyShape) {
			w.logger().WithField("shape", s.AssetID).Warn("Skipping empty shape")
			continue
		}
		if err != nil {
			return written, fmt.Errorf("render shape %d: %w", s.AssetID, err)
		}

		path := filepath.Join(w.Dir, FileName(s.AssetID))
		if err := writePNG(path, img); err != nil {
			return written, err
		}
		w.logger().WithFields(logrus.Fields{
			"shape": s.AssetID,
			"path":  path,
		}).Debug("Thumbnail written")
		written = append(written, path)
	}
	return written, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create thumbnail: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func (w Writer) logger() logrus.FieldLogger {
	if w.Logger != nil {
		return w.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
