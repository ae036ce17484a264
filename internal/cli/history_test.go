package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sceneforge/internal/store"
	"github.com/roach88/sceneforge/internal/testutil"
)

// recordRuns exports the named scenarios into one history database.
func recordRuns(t *testing.T, scenarios ...string) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "history.db")
	ids := []store.Option{store.WithIDGenerator(testutil.NewSequenceIDGenerator("run"))}
	for _, name := range scenarios {
		opts, _ := newTestExport(t, "text")
		opts.Database = db
		opts.StoreOptions = ids
		_, _ = execute(t, newExportCommand(opts), scenarioPath(name))
	}
	return db
}

func TestHistory_ListsRuns(t *testing.T) {
	db := recordRuns(t, "triangle", "unclosed")

	stdout, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "[1]")
	assert.Contains(t, stdout, "✓ ok run-1")
	assert.Contains(t, stdout, "✗ failed run-2")
}

func TestHistory_ListsRunsJSON(t *testing.T) {
	db := recordRuns(t, "triangle", "assets", "unclosed")

	stdout, err := execute(t, NewHistoryCommand(&RootOptions{Format: "json"}), "--db", db, "--limit", "2")
	require.NoError(t, err)

	var resp struct {
		Data []store.Run `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "run-2", resp.Data[0].ID)
	assert.Equal(t, "run-3", resp.Data[1].ID)
}

func TestHistory_ShowRun(t *testing.T) {
	db := recordRuns(t, "assets")

	stdout, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "--db", db, "--run", "run-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Run: run-1")
	assert.Contains(t, stdout, "Assets:    2")
	assert.Contains(t, stdout, "image lib/hero.png")
	assert.Contains(t, stdout, "sound lib/boom.wav")
}

func TestHistory_ShowRunJSON(t *testing.T) {
	db := recordRuns(t, "assets")

	stdout, err := execute(t, NewHistoryCommand(&RootOptions{Format: "json"}), "--db", db, "--run", "run-1")
	require.NoError(t, err)

	var resp struct {
		RunID string    `json:"run_id"`
		Data  RunDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "run-1", resp.RunID)
	assert.Equal(t, store.StatusOK, resp.Data.Status)
	assert.Len(t, resp.Data.Exports, 2)
}

func TestHistory_EmptyDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	stdout, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No runs recorded")
}

func TestHistory_Errors(t *testing.T) {
	db := recordRuns(t, "triangle")

	_, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "--db", db, "--run", "run-9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNotFound)

	_, err = execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "--db", "/nonexistent/history.db")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
}
