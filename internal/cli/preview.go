package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/sceneforge/internal/publish"
)

// PreviewOptions holds flags for the preview command.
type PreviewOptions struct {
	*RootOptions
	App   string
	Debug bool

	// Runner overrides process launching (for testing).
	Runner publish.Runner
}

// NewPreviewCommand creates the preview command.
func NewPreviewCommand(rootOpts *RootOptions) *cobra.Command {
	return newPreviewCommand(&PreviewOptions{RootOptions: rootOpts})
}

func newPreviewCommand(opts *PreviewOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <document.json>",
		Short: "Open the page of an exported document in the preview app",
		Long: `Open the HTML page written next to a scene document in the preview app.

The page path, stage size and background are read from the document.

Example:
  sceneforge preview --app ./preview-app web/output.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.App, "app", "", "preview app (required)")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "open the app with developer tools")
	_ = cmd.MarkFlagRequired("app")

	return cmd
}

func runPreview(opts *PreviewOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	m, err := decodeManifest(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("document not found: %s", path), nil)
		}
		return formatter.Fail(ExitCommandError, ErrCodeDecode, err.Error(), nil)
	}
	if m.Stage.HTMLPath == "" {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "document was exported without an HTML page", nil)
	}

	page := filepath.Join(filepath.Dir(path), filepath.FromSlash(m.Stage.HTMLPath))
	if _, err := os.Stat(page); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("page not found: %s", page), nil)
	}

	p := &publish.Previewer{App: opts.App, Debug: opts.Debug, Runner: opts.Runner, Logger: opts.logger()}
	req := publish.PreviewRequest{
		Src:        page,
		Title:      m.StageName,
		Width:      strconv.FormatUint(uint64(m.Stage.Width), 10),
		Height:     strconv.FormatUint(uint64(m.Stage.Height), 10),
		Background: m.Stage.Background,
	}
	if err := p.Preview(cmd.Context(), req); err != nil {
		return formatter.Fail(ExitFailure, ErrCodePublish, err.Error(), nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"app": opts.App, "page": page})
	}
	fmt.Fprintf(formatter.Writer, "✓ Opened %s in %s\n", page, opts.App)
	return nil
}
