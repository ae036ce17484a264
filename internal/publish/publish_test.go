package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sceneforge/internal/builder"
	"github.com/roach88/sceneforge/internal/settings"
)

type call struct {
	mode string // "run" or "start"
	name string
	args []string
}

type fakeRunner struct {
	calls []call
	err   error
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	r.calls = append(r.calls, call{"run", name, args})
	return r.err
}

func (r *fakeRunner) Start(_ context.Context, name string, args ...string) error {
	r.calls = append(r.calls, call{"start", name, args})
	return r.err
}

type fakeConn struct {
	events    []string
	payloads  []any
	closed    bool
	emittedAt time.Time
	closedAt  time.Time
}

func (c *fakeConn) Emit(event string, payload any) {
	c.events = append(c.events, event)
	c.payloads = append(c.payloads, payload)
	c.emittedAt = time.Now()
}

func (c *fakeConn) Close() {
	c.closed = true
	c.closedAt = time.Now()
}

func dialTo(conn Conn) Dialer {
	return func(context.Context, string, string, time.Duration) (Conn, error) {
		return conn, nil
	}
}

func TestCompiler_Args(t *testing.T) {
	r := &fakeRunner{}
	c := &Compiler{Dir: "/ext", Runner: r}
	require.NoError(t, c.Compile(context.Background(), "/out/game.json"))

	require.Len(t, r.calls, 1)
	assert.Equal(t, call{"run", filepath.Join("/ext", "compiler"), []string{"--src", "/out/game.json"}}, r.calls[0])

	c.Debug = true
	assert.Equal(t, []string{"--src", "x.json", "--debug"}, c.Args("x.json"))
}

func TestPreviewer_Args(t *testing.T) {
	p := &Previewer{App: "/ext/preview", Debug: true}
	got := p.Args(PreviewRequest{Src: "/out/index.html", Title: "Game", Width: "480", Height: "800", Background: "ff0000"})
	assert.Equal(t, []string{
		"--src=/out/index.html",
		"--title=Game",
		"--width=480",
		"--height=800",
		"--background=ff0000",
		"--devTools",
	}, got)
}

func TestTemplateName(t *testing.T) {
	tests := []struct {
		version  string
		compress bool
		want     string
	}{
		{settings.OutputVersionCurrent, true, TemplateHTML},
		{settings.OutputVersionCurrent, false, TemplateHTMLDebug},
		{settings.OutputVersionLegacy, true, TemplateHTMLLegacy},
		{settings.OutputVersionLegacy, false, TemplateHTMLDebugLegacy},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TemplateName(tt.version, tt.compress), "version %s compress %v", tt.version, tt.compress)
	}
}

func TestSubstitute(t *testing.T) {
	got := Substitute("${stageName} ${width}x${height} ${missing}", map[string]string{
		"stageName": "Game",
		"width":     "480",
		"height":    "800",
	})
	assert.Equal(t, "Game 480x800 ${missing}", got)
}

func TestEmbeddedTemplatesExist(t *testing.T) {
	w := &HTMLWriter{}
	for _, name := range []string{TemplateHTML, TemplateHTMLDebug, TemplateHTMLLegacy, TemplateHTMLDebugLegacy} {
		_, err := w.templates().Open(name)
		assert.NoError(t, err, name)
	}
}

func TestHTMLWriter_Write(t *testing.T) {
	s := settings.Defaults()
	s.BasePath = t.TempDir()
	s.HTMLPath = "web/page.html"
	s.CompressJS = false

	w := &HTMLWriter{Templates: fstest.MapFS{
		TemplateHTMLDebug: {Data: []byte("<title>${stageName}</title>")},
	}}
	out, err := w.Write(s, map[string]string{"stageName": "Game"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.BasePath, "web", "page.html"), out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "<title>Game</title>", string(data))
}

func TestHTMLWriter_MissingTemplate(t *testing.T) {
	s := settings.Defaults()
	s.BasePath = t.TempDir()
	w := &HTMLWriter{Templates: fstest.MapFS{}}
	_, err := w.Write(s, nil)
	assert.ErrorContains(t, err, TemplateHTML)
}

func output(t *testing.T) builder.Output {
	t.Helper()
	s := settings.Defaults()
	s.BasePath = t.TempDir()
	s.StageName = "Game"
	return builder.Output{
		DataFile: filepath.Join(s.BasePath, "output.json"),
		Settings: s,
		Vars:     map[string]string{"width": "480", "height": "800", "background": "00ff00", "stageName": "Game"},
	}
}

func TestChain_RunsInOrder(t *testing.T) {
	r := &fakeRunner{}
	conn := &fakeConn{}
	out := output(t)

	c := &Chain{
		Compiler:  &Compiler{Dir: "/ext", Runner: r},
		HTML:      &HTMLWriter{},
		Previewer: &Previewer{App: "/ext/preview", Runner: r},
		Notifier: &Notifier{URL: "http://localhost:3000", Dial: func(context.Context, string, string, time.Duration) (Conn, error) {
			return conn, nil
		}},
	}
	require.NoError(t, c.Handoff(context.Background(), out))

	require.Len(t, r.calls, 2)
	assert.Equal(t, "run", r.calls[0].mode)
	assert.Equal(t, "start", r.calls[1].mode)
	assert.Contains(t, r.calls[1].args, "--src="+out.Settings.HTMLFile())
	assert.Contains(t, r.calls[1].args, "--title=Game")
	assert.Contains(t, r.calls[1].args, "--background=00ff00")

	assert.FileExists(t, out.Settings.HTMLFile())
	page, err := os.ReadFile(out.Settings.HTMLFile())
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>Game</title>")

	assert.Equal(t, []string{DefaultReloadEvent}, conn.events)
	assert.True(t, conn.closed)
}

func TestChain_CompileFailureStops(t *testing.T) {
	r := &fakeRunner{err: errors.New("exit status 1")}
	out := output(t)
	c := &Chain{Compiler: &Compiler{Runner: r}, HTML: &HTMLWriter{}}

	err := c.Handoff(context.Background(), out)
	require.Error(t, err)
	assert.ErrorContains(t, err, "compile")
	assert.NoFileExists(t, out.Settings.HTMLFile())
}

func TestChain_SkipsHTMLWhenDisabled(t *testing.T) {
	out := output(t)
	out.Settings.HTML = false
	c := &Chain{HTML: &HTMLWriter{}}

	require.NoError(t, c.Handoff(context.Background(), out))
	assert.NoFileExists(t, out.Settings.HTMLFile())
}

func TestChain_NotifyFailureIsLogged(t *testing.T) {
	log, hook := test.NewNullLogger()
	c := &Chain{
		Logger: log,
		Notifier: &Notifier{URL: "http://localhost:1", Dial: func(context.Context, string, string, time.Duration) (Conn, error) {
			return nil, errors.New("connection refused")
		}},
	}

	require.NoError(t, c.Handoff(context.Background(), output(t)))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestNotify_WaitsBeforeClosing(t *testing.T) {
	conn := &fakeConn{}
	n := &Notifier{URL: "http://localhost:3000", Flush: 30 * time.Millisecond, Dial: dialTo(conn)}

	require.NoError(t, n.Notify(context.Background(), map[string]any{"file": "game.json"}))

	assert.Equal(t, []string{DefaultReloadEvent}, conn.events)
	require.True(t, conn.closed)
	assert.GreaterOrEqual(t, conn.closedAt.Sub(conn.emittedAt), 30*time.Millisecond)
}

func TestNotify_CancelCutsFlushShort(t *testing.T) {
	conn := &fakeConn{}
	n := &Notifier{URL: "http://localhost:3000", Flush: time.Hour, Dial: dialTo(conn)}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	done := make(chan error, 1)
	go func() { done <- n.Notify(ctx, nil) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Notify did not return after cancel")
	}
	assert.True(t, conn.closed)
}

func TestNotify_NegativeFlushClosesImmediately(t *testing.T) {
	conn := &fakeConn{}
	n := &Notifier{URL: "http://localhost:3000", Event: "update", Flush: -1, Dial: dialTo(conn)}

	require.NoError(t, n.Notify(context.Background(), nil))
	assert.Equal(t, []string{"update"}, conn.events)
	assert.True(t, conn.closed)
}

func TestSignal_KeepsFirstOutcome(t *testing.T) {
	ch := make(chan error, 1)
	reconnect := errors.New("late connect_error")

	done := make(chan struct{})
	go func() {
		signal(ch, nil)
		signal(ch, reconnect)
		signal(ch, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("later outcomes blocked the sender")
	}
	assert.NoError(t, <-ch)
	assert.Empty(t, ch)
}

func TestDialSocketIO_RejectsBadURL(t *testing.T) {
	_, err := DialSocketIO(context.Background(), "localhost", "/", time.Second)
	assert.Error(t, err)
}

func TestProcessError(t *testing.T) {
	err := &ProcessError{Program: "compiler", Output: "bad src\n", Err: errors.New("exit status 2")}
	assert.Equal(t, "compiler: exit status 2: bad src", err.Error())
	assert.ErrorContains(t, ExecRunner{}.Run(context.Background(), filepath.Join(t.TempDir(), "missing")), "missing")
}
