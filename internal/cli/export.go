package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/roach88/sceneforge/internal/builder"
	"github.com/roach88/sceneforge/internal/harness"
	"github.com/roach88/sceneforge/internal/ir"
	"github.com/roach88/sceneforge/internal/publish"
	"github.com/roach88/sceneforge/internal/resource"
	"github.com/roach88/sceneforge/internal/settings"
	"github.com/roach88/sceneforge/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Settings  string
	OutDir    string
	Database  string
	Compiler  string
	Preview   string
	Notify    string
	Namespace string
	Tweens    bool

	// These override the real collaborators (for testing). Nil keeps the
	// defaults.
	Runner       publish.Runner
	Exporter     resource.Exporter
	Prober       resource.ImageProber
	Dial         publish.Dialer
	StoreOptions []store.Option
}

// ExportSummary is the success payload of the export command.
type ExportSummary struct {
	DataFile     string         `json:"data_file"`
	DocumentHash string         `json:"document_hash"`
	Shapes       int            `json:"shapes"`
	Timelines    int            `json:"timelines"`
	Assets       []AssetSummary `json:"assets"`
}

// AssetSummary is one exported bitmap or sound.
type AssetSummary struct {
	Kind     string `json:"kind"`
	SourceID string `json:"source_id"`
	Path     string `json:"path"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return newExportCommand(&ExportOptions{RootOptions: rootOpts})
}

func newExportCommand(opts *ExportOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <events.yaml>",
		Short: "Build a scene document from a recorded event stream",
		Long: `Replay a recorded walker event stream into a new scene document.

The data file, bitmaps and sounds are written below the settings' base
path. Afterwards the runtime compiler, HTML page, preview app and
live-reload notification run as configured. With --db every run and the
assets it exported are recorded in a SQLite history database.

Example:
  sceneforge export --settings publish.yaml events.yaml
  sceneforge export --out ./web --db ./history.db --preview ./preview-app events.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Settings, "settings", "", "publish settings file (.cue, .hcl or .yaml)")
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "output folder, overrides the settings' base_path")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run history database")
	cmd.Flags().StringVar(&opts.Compiler, "compiler", "", "folder holding the runtime compiler")
	cmd.Flags().StringVar(&opts.Preview, "preview", "", "preview app to open the page with")
	cmd.Flags().StringVar(&opts.Notify, "notify", "", "socket.io URL of a live-reload server")
	cmd.Flags().StringVar(&opts.Namespace, "namespace", "/", "socket.io namespace for --notify")
	cmd.Flags().BoolVar(&opts.Tweens, "tweens", false, "extract tweens, overriding settings and events file")

	return cmd
}

func runExport(ctx context.Context, opts *ExportOptions, eventsFile string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	log := opts.logger()

	s, err := loadSettings(opts.Settings, opts.OutDir)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSettings, err.Error(), nil)
	}

	scenario, err := harness.LoadScenario(eventsFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("events file not found: %s", eventsFile), nil)
		}
		return formatter.Fail(ExitCommandError, ErrCodeScenario, err.Error(), nil)
	}
	formatter.VerboseLog("Loaded %d event(s) from %s", len(scenario.Events), eventsFile)

	var (
		st  *store.Store
		run store.Run
	)
	if opts.Database != "" {
		st, err = store.Open(opts.Database, opts.StoreOptions...)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		defer st.Close()

		run, err = st.BeginRun(ctx, store.RunInfo{
			EventsFile:      eventsFile,
			DataFile:        s.DataFile(),
			OutputFile:      s.OutputFile,
			ExporterVersion: ir.Version(),
		})
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		log = log.WithField("run", run.ID)
	}

	b := builder.New(s, opts.builderOptions(cmd, scenario, s, log)...)
	doc, replayErr := harness.Replay(ctx, b, scenario.Events)

	summary := ExportSummary{DataFile: s.DataFile()}
	for _, a := range b.Assets() {
		summary.Assets = append(summary.Assets, AssetSummary{Kind: a.Kind, SourceID: a.SourceID, Path: a.Path})
	}
	if doc != nil {
		summary.Shapes = len(doc.Shapes)
		summary.Timelines = len(doc.Timelines)
		if data, err := os.ReadFile(summary.DataFile); err == nil {
			summary.DocumentHash = ir.DocumentHash(data)
		}
	}

	if st != nil {
		if err := recordRun(ctx, st, run.ID, b.Assets(), summary, replayErr); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
	}

	if replayErr != nil {
		code := harness.ErrorCode(replayErr)
		if doc != nil {
			// the document was written; only the handoff failed
			code = ErrCodePublish
		}
		log.WithError(replayErr).Error("Export failed")
		var details interface{}
		if run.ID != "" {
			details = map[string]string{"run_id": run.ID}
		}
		return formatter.Fail(ExitFailure, code, replayErr.Error(), details)
	}

	log.WithFields(logrus.Fields{
		"data_file": summary.DataFile,
		"shapes":    summary.Shapes,
		"timelines": summary.Timelines,
		"assets":    len(summary.Assets),
	}).Info("Export finished")

	if formatter.Format == "json" {
		return formatter.SuccessWithRun(summary, run.ID)
	}
	w := formatter.Writer
	fmt.Fprintf(w, "✓ Exported %s: %d shape(s), %d timeline(s), %d asset(s)\n",
		summary.DataFile, summary.Shapes, summary.Timelines, len(summary.Assets))
	for _, a := range summary.Assets {
		fmt.Fprintf(w, "  %s %s -> %s\n", a.Kind, a.SourceID, a.Path)
	}
	if run.ID != "" {
		fmt.Fprintf(w, "Recorded run %s\n", run.ID)
	}
	return nil
}

// builderOptions wires the publish chain and test overrides into the
// builder. Tween extraction follows --tweens, then the events file, then
// the settings.
func (opts *ExportOptions) builderOptions(cmd *cobra.Command, scenario *harness.Scenario, s settings.Publish, log logrus.FieldLogger) []builder.Option {
	chain := &publish.Chain{
		HTML:   &publish.HTMLWriter{Logger: log},
		Logger: log,
	}
	if opts.Compiler != "" {
		chain.Compiler = &publish.Compiler{Dir: opts.Compiler, Debug: s.Debug, Runner: opts.Runner, Logger: log}
	}
	if opts.Preview != "" {
		chain.Previewer = &publish.Previewer{App: opts.Preview, Debug: s.Debug, Runner: opts.Runner, Logger: log}
	}
	if opts.Notify != "" {
		chain.Notifier = &publish.Notifier{URL: opts.Notify, Namespace: opts.Namespace, Dial: opts.Dial, Logger: log}
	}

	bopts := []builder.Option{
		builder.WithLogger(log),
		builder.WithHandoff(chain),
	}
	if opts.Exporter != nil {
		bopts = append(bopts, builder.WithExporter(opts.Exporter))
	}
	if opts.Prober != nil {
		bopts = append(bopts, builder.WithImageProber(opts.Prober))
	}
	switch {
	case cmd.Flags().Changed("tweens"):
		bopts = append(bopts, builder.WithTweens(opts.Tweens))
	case scenario.Tweens != nil:
		bopts = append(bopts, builder.WithTweens(*scenario.Tweens))
	}
	return bopts
}

// recordRun stores the exported assets and the outcome of a run.
func recordRun(ctx context.Context, st *store.Store, runID string, assets []builder.Asset, summary ExportSummary, replayErr error) error {
	for _, a := range assets {
		err := st.RecordExport(ctx, runID, store.Export{
			Kind:     a.Kind,
			SourceID: a.SourceID,
			Src:      a.Src,
			Path:     a.Path,
		})
		if err != nil {
			return err
		}
	}
	return st.FinishRun(ctx, runID, store.RunResult{
		DocumentHash: summary.DocumentHash,
		Shapes:       summary.Shapes,
		Timelines:    summary.Timelines,
		Err:          replayErr,
	})
}

// loadSettings reads the settings file, or starts from the defaults when
// none is given. A non-empty outDir replaces the base path.
func loadSettings(path, outDir string) (settings.Publish, error) {
	s := settings.Defaults()
	if path != "" {
		var err error
		if s, err = settings.Load(path); err != nil {
			return settings.Publish{}, err
		}
	}
	if outDir != "" {
		s.BasePath = outDir
	}
	return s, nil
}
