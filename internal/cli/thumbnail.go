package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/sceneforge/internal/thumbnail"
)

// ThumbnailOptions holds flags for the thumbnail command.
type ThumbnailOptions struct {
	*RootOptions
	OutDir string
	Size   int
}

// NewThumbnailCommand creates the thumbnail command.
func NewThumbnailCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ThumbnailOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "thumbnail <document.json>",
		Short: "Render a PNG thumbnail for every shape of a document",
		Long: `Render each shape of a scene document into a square PNG, scaled to fit.

Files are named shape_<id>.png. Fills use their solid color or first
gradient stop; bitmap fills are drawn gray.

Example:
  sceneforge thumbnail -o thumbs --size 256 web/output.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThumbnail(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.OutDir, "output", "o", "", "output folder (default: thumbnails next to the document)")
	cmd.Flags().IntVar(&opts.Size, "size", thumbnail.DefaultSize, "thumbnail edge in pixels")

	return cmd
}

func runThumbnail(opts *ThumbnailOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if opts.Size <= 0 {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("size must be positive, got %d", opts.Size), nil)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("document not found: %s", path), nil)
		}
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	shapes, err := thumbnail.DecodeShapes(f)
	f.Close()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDecode, err.Error(), nil)
	}
	formatter.VerboseLog("Rendering %d shape(s) from %s", len(shapes), path)

	dir := opts.OutDir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(path), "thumbnails")
	}
	w := thumbnail.Writer{Dir: dir, Size: opts.Size, Logger: opts.logger()}
	written, err := w.WriteAll(shapes)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err.Error(), map[string]interface{}{"written": written})
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]interface{}{"dir": dir, "files": written})
	}
	fmt.Fprintf(formatter.Writer, "✓ Wrote %d thumbnail(s) to %s\n", len(written), dir)
	if skipped := len(shapes) - len(written); skipped > 0 {
		fmt.Fprintf(formatter.Writer, "  skipped %d empty shape(s)\n", skipped)
	}
	return nil
}
