package publish

import (
	"context"

	"github.com/sirupsen/logrus"
)

// PreviewRequest describes the page to open in the preview app.
type PreviewRequest struct {
	Src        string // HTML page
	Title      string
	Width      string
	Height     string
	Background string
}

// Previewer launches the preview app.
type Previewer struct {
	App    string
	Debug  bool
	Runner Runner
	Logger logrus.FieldLogger
}

// Args returns the preview command line.
func (p *Previewer) Args(req PreviewRequest) []string {
	args := []string{
		"--src=" + req.Src,
		"--title=" + req.Title,
		"--width=" + req.Width,
		"--height=" + req.Height,
		"--background=" + req.Background,
	}
	if p.Debug {
		args = append(args, "--devTools")
	}
	return args
}

// Preview starts the app without waiting for it to exit.
func (p *Previewer) Preview(ctx context.Context, req PreviewRequest) error {
	logger(p.Logger).WithFields(logrus.Fields{
		"app": p.App,
		"src": req.Src,
	}).Info("Starting preview")
	return runner(p.Runner).Start(ctx, p.App, p.Args(req)...)
}
