package publish

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/roach88/sceneforge/internal/builder"
)

// Chain runs the publish collaborators in order once the data file is
// written: compile, HTML page, preview, notification. Nil members are
// skipped. A notification failure is logged and does not fail the export.
type Chain struct {
	Compiler  *Compiler
	HTML      *HTMLWriter
	Previewer *Previewer
	Notifier  *Notifier
	Logger    logrus.FieldLogger
}

var _ builder.Handoff = (*Chain)(nil)

// Handoff implements builder.Handoff.
func (c *Chain) Handoff(ctx context.Context, out builder.Output) error {
	s := out.Settings

	if c.Compiler != nil {
		if err := c.Compiler.Compile(ctx, out.DataFile); err != nil {
			return fmt.Errorf("compile: %w", err)
		}
	}

	page := ""
	if s.HTML && c.HTML != nil {
		p, err := c.HTML.Write(s, out.Vars)
		if err != nil {
			return err
		}
		page = p
	}

	if c.Previewer != nil {
		src := page
		if src == "" {
			src = s.HTMLFile()
		}
		req := PreviewRequest{
			Src:        src,
			Title:      s.StageName,
			Width:      out.Vars["width"],
			Height:     out.Vars["height"],
			Background: out.Vars["background"],
		}
		if err := c.Previewer.Preview(ctx, req); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
	}

	if c.Notifier != nil {
		payload := map[string]any{
			"dataFile":  out.DataFile,
			"stageName": s.StageName,
		}
		if page != "" {
			payload["html"] = page
		}
		if err := c.Notifier.Notify(ctx, payload); err != nil {
			logger(c.Logger).WithError(err).Warn("Live reload notification failed")
		}
	}
	return nil
}

func logger(l logrus.FieldLogger) logrus.FieldLogger {
	if l != nil {
		return l
	}
	d := logrus.New()
	d.SetOutput(io.Discard)
	return d
}
