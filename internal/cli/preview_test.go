package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview_OpensExportedPage(t *testing.T) {
	doc := exportTriangle(t)
	runner := &fakeRunner{}
	opts := &PreviewOptions{RootOptions: &RootOptions{Format: "text"}, Runner: runner}

	stdout, err := execute(t, newPreviewCommand(opts), "--app", "/opt/preview", doc)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Opened")

	require.Len(t, runner.calls, 1)
	c := runner.calls[0]
	assert.Equal(t, "/opt/preview", c.Name)
	assert.True(t, c.Start)
	assert.Equal(t, []string{
		"--src=" + filepath.Join(filepath.Dir(doc), "index.html"),
		"--title=stage",
		"--width=480",
		"--height=800",
		"--background=ff0000",
	}, c.Args)
}

func TestPreview_DebugOpensDevTools(t *testing.T) {
	doc := exportTriangle(t)
	runner := &fakeRunner{}
	opts := &PreviewOptions{RootOptions: &RootOptions{Format: "json"}, Runner: runner}

	_, err := execute(t, newPreviewCommand(opts), "--app", "/opt/preview", "--debug", doc)
	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0].Args, "--devTools")
}

func TestPreview_RequiresApp(t *testing.T) {
	_, err := execute(t, NewPreviewCommand(&RootOptions{Format: "text"}), "doc.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app")
}

func TestPreview_NoPage(t *testing.T) {
	doc := writeDocument(t, `{"Timelines": [], "_meta": {"stageName": "stage", "width": 10, "height": 10}}`)

	_, err := execute(t, NewPreviewCommand(&RootOptions{Format: "text"}), "--app", "/opt/preview", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNotFound)
}

func TestPreview_LaunchFailure(t *testing.T) {
	doc := exportTriangle(t)
	opts := &PreviewOptions{RootOptions: &RootOptions{Format: "text"}, Runner: &fakeRunner{err: errors.New("not executable")}}

	_, err := execute(t, newPreviewCommand(opts), "--app", "/opt/preview", doc)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodePublish)
}
