package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run statuses.
const (
	StatusRunning = "running"
	StatusOK      = "ok"
	StatusFailed  = "failed"
)

// Asset kinds of an export record.
const (
	KindImage = "image"
	KindSound = "sound"
)

// timeLayout is how timestamps are stored. They are for display only.
const timeLayout = time.RFC3339

// RunInfo describes an export run as it starts.
type RunInfo struct {
	EventsFile      string
	DataFile        string
	OutputFile      string
	ExporterVersion string
}

// RunResult is the outcome of a finished run.
type RunResult struct {
	DocumentHash string
	Shapes       int
	Timelines    int
	Err          error
}

// Run is one recorded export run.
type Run struct {
	Seq             int64     `json:"seq"`
	ID              string    `json:"id"`
	EventsFile      string    `json:"events_file"`
	DataFile        string    `json:"data_file"`
	OutputFile      string    `json:"output_file"`
	ExporterVersion string    `json:"exporter_version"`
	Status          string    `json:"status"`
	Error           string    `json:"error,omitempty"`
	DocumentHash    string    `json:"document_hash,omitempty"`
	Shapes          int       `json:"shapes"`
	Timelines       int       `json:"timelines"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at,omitzero"`
}

// Export is one asset written by a run.
type Export struct {
	RunID    string `json:"run_id"`
	Seq      int64  `json:"seq"`
	Kind     string `json:"kind"`
	SourceID string `json:"source_id"`
	Src      string `json:"src"`
	Path     string `json:"path"`
}

// BeginRun records a new run in the running state and returns it.
func (s *Store) BeginRun(ctx context.Context, info RunInfo) (Run, error) {
	id := s.ids.Generate()
	started := s.now().UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, events_file, data_file, output_file, exporter_version, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		info.EventsFile,
		info.DataFile,
		info.OutputFile,
		info.ExporterVersion,
		StatusRunning,
		started.Format(timeLayout),
	)
	if err != nil {
		return Run{}, fmt.Errorf("begin run: %w", err)
	}
	return s.GetRun(ctx, id)
}

// RecordExport appends an asset to a run. Recording the same asset twice
// is silently ignored.
func (s *Store) RecordExport(ctx context.Context, runID string, e Export) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exports (run_id, seq, kind, source_id, src, path)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM exports WHERE run_id = ?), ?, ?, ?, ?)
		ON CONFLICT(run_id, kind, source_id) DO NOTHING
	`,
		runID,
		runID,
		e.Kind,
		e.SourceID,
		e.Src,
		e.Path,
	)
	if err != nil {
		return fmt.Errorf("record export: %w", err)
	}
	return nil
}

// FinishRun stores the outcome of a run. A non-nil res.Err marks the run
// failed.
func (s *Store) FinishRun(ctx context.Context, runID string, res RunResult) error {
	status, msg := StatusOK, ""
	if res.Err != nil {
		status, msg = StatusFailed, res.Err.Error()
	}
	finished := s.now().UTC().Truncate(time.Second)

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET status = ?, error = ?, document_hash = ?, shapes = ?, timelines = ?, finished_at = ?
		WHERE id = ?
	`,
		status,
		msg,
		res.DocumentHash,
		res.Shapes,
		res.Timelines,
		finished.Format(timeLayout),
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, ErrNotFound)
	}
	return nil
}

const runColumns = `seq, id, events_file, data_file, output_file, exporter_version,
	status, error, document_hash, shapes, timelines, started_at, finished_at`

// GetRun returns one run. It returns ErrNotFound for unknown ids.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, err
	}
	return r, nil
}

// ListRuns returns the most recent runs, oldest first. A limit of 0 or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+` FROM (
			SELECT * FROM runs ORDER BY seq DESC LIMIT ?
		)
		ORDER BY seq ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ListExports returns the assets of a run in export order.
func (s *Store) ListExports(ctx context.Context, runID string) ([]Export, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, kind, source_id, src, path
		FROM exports
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()

	exports := []Export{}
	for rows.Next() {
		var e Export
		if err := rows.Scan(&e.RunID, &e.Seq, &e.Kind, &e.SourceID, &e.Src, &e.Path); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		exports = append(exports, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exports: %w", err)
	}
	return exports, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r                 Run
		started, finished string
	)
	err := sc.Scan(&r.Seq, &r.ID, &r.EventsFile, &r.DataFile, &r.OutputFile, &r.ExporterVersion,
		&r.Status, &r.Error, &r.DocumentHash, &r.Shapes, &r.Timelines, &started, &finished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return Run{}, fmt.Errorf("scan run %s: started_at: %w", r.ID, err)
	}
	if finished != "" {
		if r.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
			return Run{}, fmt.Errorf("scan run %s: finished_at: %w", r.ID, err)
		}
	}
	return r, nil
}
