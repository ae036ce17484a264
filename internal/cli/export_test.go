package cli

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sceneforge/internal/publish"
	"github.com/roach88/sceneforge/internal/resource"
	"github.com/roach88/sceneforge/internal/store"
	"github.com/roach88/sceneforge/internal/testutil"
)

// call is one program launch seen by fakeRunner.
type call struct {
	Name  string
	Args  []string
	Start bool
}

type fakeRunner struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{Name: name, Args: args})
	return r.err
}

func (r *fakeRunner) Start(_ context.Context, name string, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{Name: name, Args: args, Start: true})
	return r.err
}

type fakeExporter struct{}

func (fakeExporter) Export(_ context.Context, _ resource.Source, dest string) error {
	return os.WriteFile(dest, []byte("asset"), 0o644)
}

type fakeProber struct{}

func (fakeProber) Probe(string) (int, int, error) { return 16, 16, nil }

type fakeConn struct {
	events []string
}

func (c *fakeConn) Emit(event string, _ any) { c.events = append(c.events, event) }
func (c *fakeConn) Close()                   {}

func newTestExport(t *testing.T, format string) (*ExportOptions, string) {
	t.Helper()
	out := t.TempDir()
	opts := &ExportOptions{
		RootOptions:  &RootOptions{Format: format},
		OutDir:       out,
		Exporter:     fakeExporter{},
		Prober:       fakeProber{},
		StoreOptions: []store.Option{store.WithIDGenerator(testutil.NewSequenceIDGenerator("run"))},
	}
	return opts, out
}

func TestExport_Triangle(t *testing.T) {
	opts, out := newTestExport(t, "text")

	stdout, err := execute(t, newExportCommand(opts), scenarioPath("triangle"))
	require.NoError(t, err)

	assert.Contains(t, stdout, "✓ Exported")
	assert.Contains(t, stdout, "1 shape(s), 1 timeline(s), 0 asset(s)")
	assert.FileExists(t, filepath.Join(out, "output.json"))
	assert.FileExists(t, filepath.Join(out, "index.html"))
}

func TestExport_JSONWithHistory(t *testing.T) {
	opts, out := newTestExport(t, "json")
	opts.Database = filepath.Join(out, "history.db")

	stdout, err := execute(t, newExportCommand(opts), scenarioPath("assets"))
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		RunID  string        `json:"run_id"`
		Data   ExportSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-1", resp.RunID)
	assert.Len(t, resp.Data.Assets, 2)
	assert.Len(t, resp.Data.DocumentHash, 64)

	st, err := store.Open(opts.Database)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	run, err := st.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, store.StatusOK, run.Status)
	assert.Equal(t, resp.Data.DocumentHash, run.DocumentHash)
	assert.Equal(t, 1, run.Shapes)

	exports, err := st.ListExports(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, exports, 2)
	assert.Equal(t, store.KindImage, exports[0].Kind)
	assert.Equal(t, "lib/hero.png", exports[0].SourceID)
	assert.Equal(t, store.KindSound, exports[1].Kind)
}

func TestExport_ReplayErrorIsRecorded(t *testing.T) {
	opts, out := newTestExport(t, "json")
	opts.Database = filepath.Join(out, "history.db")

	stdout, err := execute(t, newExportCommand(opts), scenarioPath("unclosed"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNCLOSED_CONTEXT", resp.Error.Code)

	st, err := store.Open(opts.Database)
	require.NoError(t, err)
	defer st.Close()
	run, err := st.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, store.StatusFailed, run.Status)
	assert.NotEmpty(t, run.Error)
	assert.NoFileExists(t, filepath.Join(out, "output.json"))
}

func TestExport_CompilerAndPreview(t *testing.T) {
	opts, out := newTestExport(t, "text")
	runner := &fakeRunner{}
	opts.Runner = runner
	opts.Compiler = "/opt/ext"
	opts.Preview = "/opt/preview"

	_, err := execute(t, newExportCommand(opts), scenarioPath("triangle"))
	require.NoError(t, err)

	require.Len(t, runner.calls, 2)
	assert.Equal(t, call{
		Name: filepath.Join("/opt/ext", publish.CompilerName),
		Args: []string{"--src", filepath.Join(out, "output.json")},
	}, runner.calls[0])
	assert.Equal(t, "/opt/preview", runner.calls[1].Name)
	assert.True(t, runner.calls[1].Start)
	assert.Contains(t, runner.calls[1].Args, "--src="+filepath.Join(out, "index.html"))
	assert.Contains(t, runner.calls[1].Args, "--width=480")
}

func TestExport_CompilerFailure(t *testing.T) {
	opts, _ := newTestExport(t, "json")
	opts.Runner = &fakeRunner{err: errors.New("exit status 3")}
	opts.Compiler = "/opt/ext"

	stdout, err := execute(t, newExportCommand(opts), scenarioPath("triangle"))
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, ErrCodePublish, resp.Error.Code)
}

func TestExport_NotifyFailureIsNotFatal(t *testing.T) {
	opts, _ := newTestExport(t, "text")
	opts.Notify = "http://localhost:1"
	opts.Dial = func(context.Context, string, string, time.Duration) (publish.Conn, error) {
		return nil, errors.New("connection refused")
	}

	_, err := execute(t, newExportCommand(opts), scenarioPath("triangle"))
	require.NoError(t, err)
}

func TestExport_Notify(t *testing.T) {
	opts, _ := newTestExport(t, "text")
	conn := &fakeConn{}
	opts.Notify = "http://localhost:3000"
	opts.Dial = func(context.Context, string, string, time.Duration) (publish.Conn, error) {
		return conn, nil
	}

	_, err := execute(t, newExportCommand(opts), scenarioPath("triangle"))
	require.NoError(t, err)
	assert.Equal(t, []string{publish.DefaultReloadEvent}, conn.events)
}

func TestExport_SettingsFile(t *testing.T) {
	opts, out := newTestExport(t, "text")
	settingsFile := filepath.Join(t.TempDir(), "publish.yaml")
	require.NoError(t, os.WriteFile(settingsFile, []byte("output_file: game.js\nhtml: false\n"), 0o644))
	opts.Settings = settingsFile

	_, err := execute(t, newExportCommand(opts), scenarioPath("triangle"))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "game.json"), "--out replaces base_path")
	assert.NoFileExists(t, filepath.Join(out, "index.html"))
}

func TestExport_Errors(t *testing.T) {
	tests := []struct {
		name     string
		settings string
		events   string
		code     string
	}{
		{"missing events", "", "/nonexistent/events.yaml", ErrCodeNotFound},
		{"bad events", "", scenarioPath("typo"), ErrCodeScenario},
		{"bad settings", "/nonexistent/publish.toml", scenarioPath("triangle"), ErrCodeSettings},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, _ := newTestExport(t, "text")
			opts.Settings = tt.settings

			stdout, err := execute(t, newExportCommand(opts), tt.events)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.code)
			assert.Contains(t, stdout, "Error ["+tt.code+"]")
		})
	}
}
