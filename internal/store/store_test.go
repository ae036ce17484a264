package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sceneforge/internal/testutil"
)

// createTestStore opens a fresh store with deterministic ids and clock.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	clock := testutil.NewDeterministicClock(time.Time{})
	s, err := Open(path,
		WithIDGenerator(testutil.NewSequenceIDGenerator("run")),
		WithNow(clock.Now),
	)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRunInfo() RunInfo {
	return RunInfo{
		EventsFile:      "scene.yaml",
		DataFile:        "out/game.json",
		OutputFile:      "game.js",
		ExporterVersion: "1.2.0",
	}
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	for i := range 3 {
		s, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		s.Close()
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	for _, table := range []string{"runs", "exports"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		assert.NoError(t, err, "table %q not found after idempotent opens", table)
	}

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/history.db")
	assert.Error(t, err)
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	assert.NoError(t, s.Close())
}

func TestBeginRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run, err := s.BeginRun(ctx, testRunInfo())
	require.NoError(t, err)

	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, int64(1), run.Seq)
	assert.Equal(t, StatusRunning, run.Status)
	assert.Equal(t, "scene.yaml", run.EventsFile)
	assert.Equal(t, "1.2.0", run.ExporterVersion)
	assert.Equal(t, testutil.DefaultEpoch, run.StartedAt)
	assert.True(t, run.FinishedAt.IsZero())
}

func TestFinishRun_OK(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run, err := s.BeginRun(ctx, testRunInfo())
	require.NoError(t, err)

	err = s.FinishRun(ctx, run.ID, RunResult{DocumentHash: "doc-abc", Shapes: 3, Timelines: 2})
	require.NoError(t, err)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, got.Status)
	assert.Empty(t, got.Error)
	assert.Equal(t, "doc-abc", got.DocumentHash)
	assert.Equal(t, 3, got.Shapes)
	assert.Equal(t, 2, got.Timelines)
	assert.Equal(t, testutil.DefaultEpoch.Add(time.Second), got.FinishedAt)
}

func TestFinishRun_Failed(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run, err := s.BeginRun(ctx, testRunInfo())
	require.NoError(t, err)

	require.NoError(t, s.FinishRun(ctx, run.ID, RunResult{Err: errors.New("compile: exit status 1")}))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "compile: exit status 1", got.Error)
}

func TestFinishRun_UnknownRun(t *testing.T) {
	s := createTestStore(t)

	err := s.FinishRun(context.Background(), "missing", RunResult{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRuns_OrderAndLimit(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for range 3 {
		_, err := s.BeginRun(ctx, testRunInfo())
		require.NoError(t, err)
	}

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"run-1", "run-2", "run-3"}, runIDs(all))

	recent, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-2", "run-3"}, runIDs(recent))
}

func TestListRuns_Empty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRecordExport_OrderAndDuplicates(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run, err := s.BeginRun(ctx, testRunInfo())
	require.NoError(t, err)

	require.NoError(t, s.RecordExport(ctx, run.ID, Export{Kind: KindImage, SourceID: "lib/hero.png", Src: "images/hero.png", Path: "out/images/hero.png"}))
	require.NoError(t, s.RecordExport(ctx, run.ID, Export{Kind: KindSound, SourceID: "lib/boom.wav", Src: "sounds/boom.wav", Path: "out/sounds/boom.wav"}))
	require.NoError(t, s.RecordExport(ctx, run.ID, Export{Kind: KindImage, SourceID: "lib/hero.png", Src: "images/hero.png", Path: "out/images/hero.png"}))

	exports, err := s.ListExports(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, exports, 2)

	assert.Equal(t, int64(1), exports[0].Seq)
	assert.Equal(t, KindImage, exports[0].Kind)
	assert.Equal(t, int64(2), exports[1].Seq)
	assert.Equal(t, "sounds/boom.wav", exports[1].Src)
}

func TestRecordExport_UnknownRun(t *testing.T) {
	s := createTestStore(t)

	err := s.RecordExport(context.Background(), "missing", Export{Kind: KindImage, SourceID: "a", Src: "a", Path: "a"})
	assert.Error(t, err, "foreign key must reject exports of unknown runs")
}

func TestRecordExport_RejectsUnknownKind(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run, err := s.BeginRun(ctx, testRunInfo())
	require.NoError(t, err)

	err = s.RecordExport(ctx, run.ID, Export{Kind: "video", SourceID: "a", Src: "a", Path: "a"})
	assert.Error(t, err)
}

func TestQuery_ReturnsRows(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.BeginRun(ctx, testRunInfo())
	require.NoError(t, err)

	rows, err := s.Query(ctx, "SELECT COUNT(*) FROM runs")
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	var n int
	require.NoError(t, rows.Scan(&n))
	assert.Equal(t, 1, n)
}

func runIDs(runs []Run) []string {
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	return ids
}
