package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/sceneforge/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	RunID    string
	Limit    int
}

// RunDetail is a run with the assets it exported.
type RunDetail struct {
	store.Run
	Exports []store.Export `json:"exports"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded export runs",
		Long: `List the export runs recorded in a run history database, oldest first.

With --run, show one run and every bitmap and sound it exported.

Example:
  sceneforge history --db ./history.db --limit 10
  sceneforge history --db ./history.db --run 0190c3d2-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run history database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show a single run")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "number of most recent runs to list (0 for all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	// Opening would create an empty database.
	if _, err := os.Stat(opts.Database); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	defer st.Close()

	if opts.RunID != "" {
		run, err := st.GetRun(ctx, opts.RunID)
		if errors.Is(err, store.ErrNotFound) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("run not found: %s", opts.RunID), nil)
		}
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		exports, err := st.ListExports(ctx, run.ID)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		detail := RunDetail{Run: run, Exports: exports}
		if formatter.Format == "json" {
			return formatter.SuccessWithRun(detail, run.ID)
		}
		printRunDetail(formatter.Writer, detail)
		return nil
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	if formatter.Format == "json" {
		if runs == nil {
			runs = []store.Run{}
		}
		return formatter.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(formatter.Writer, "[%d] %s %s %s %s\n",
			r.Seq, r.StartedAt.Format(time.RFC3339), statusMark(r.Status), r.ID, r.EventsFile)
	}
	return nil
}

func printRunDetail(w io.Writer, d RunDetail) {
	fmt.Fprintf(w, "Run: %s\n", d.ID)
	fmt.Fprintf(w, "Status: %s\n", statusMark(d.Status))
	if d.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", d.Error)
	}
	fmt.Fprintf(w, "Events:    %s\n", d.EventsFile)
	fmt.Fprintf(w, "Data file: %s\n", d.DataFile)
	fmt.Fprintf(w, "Exporter:  %s\n", d.ExporterVersion)
	fmt.Fprintf(w, "Started:   %s\n", d.StartedAt.Format(time.RFC3339))
	if !d.FinishedAt.IsZero() {
		fmt.Fprintf(w, "Finished:  %s\n", d.FinishedAt.Format(time.RFC3339))
	}
	if d.DocumentHash != "" {
		fmt.Fprintf(w, "Hash:      %s\n", d.DocumentHash)
	}
	fmt.Fprintf(w, "\nStatistics:\n")
	fmt.Fprintf(w, "  Shapes:    %d\n", d.Shapes)
	fmt.Fprintf(w, "  Timelines: %d\n", d.Timelines)
	fmt.Fprintf(w, "  Assets:    %d\n", len(d.Exports))
	if len(d.Exports) > 0 {
		fmt.Fprintf(w, "\nAssets:\n")
		for _, e := range d.Exports {
			fmt.Fprintf(w, "  [%d] %s %s -> %s\n", e.Seq, e.Kind, e.SourceID, e.Path)
		}
	}
}

func statusMark(status string) string {
	switch status {
	case store.StatusOK:
		return "✓ ok"
	case store.StatusFailed:
		return "✗ failed"
	}
	return "… " + status
}
