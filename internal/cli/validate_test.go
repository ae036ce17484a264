package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sceneforge/internal/library"
)

// exportTriangle writes the triangle document and returns its data file.
func exportTriangle(t *testing.T) string {
	t.Helper()
	opts, out := newTestExport(t, "text")
	_, err := execute(t, newExportCommand(opts), scenarioPath("triangle"))
	require.NoError(t, err)
	return filepath.Join(out, "output.json")
}

func writeDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateExportedDocument(t *testing.T) {
	doc := exportTriangle(t)

	stdout, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), doc)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Library valid")
}

func TestValidateExportedDocumentJSON(t *testing.T) {
	doc := exportTriangle(t)

	stdout, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), doc)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidateLibraryErrors(t *testing.T) {
	doc := writeDocument(t, `{
		"Shapes": [],
		"Timelines": [
			{"assetId": 1, "name": "Hero", "type": "movieclip", "frames": [
				{"index": 0, "objects": [{"objectId": 1, "assetId": 9, "kind": "shape"}]}
			]}
		],
		"_meta": {"stageName": "stage"}
	}`)

	stdout, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), doc)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ Library check found 2 error(s)")
	assert.Contains(t, stdout, library.ErrDanglingReference)
	assert.Contains(t, stdout, library.ErrMissingStage)
}

func TestValidateLibraryErrorsJSON(t *testing.T) {
	doc := writeDocument(t, `{"Timelines": [], "_meta": {"stageName": "stage"}}`)

	stdout, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), doc)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeLibrary, resp.Error.Code)
}

func TestValidateNonExistentDocument(t *testing.T) {
	stdout, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "/nonexistent/doc.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, stdout, "not found")
}

func TestValidateUndecodableDocument(t *testing.T) {
	doc := writeDocument(t, `{"Shapes": []}`)

	_, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), doc)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeDecode)
}
