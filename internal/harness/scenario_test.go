package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sceneforge/internal/ir"
)

func TestLoadScenario_Triangle(t *testing.T) {
	s := loadTestScenario(t, "triangle")

	assert.Equal(t, "triangle", s.Name)
	require.Len(t, s.Events, 16)
	assert.Equal(t, EventStartDocument, s.Events[0].Event)
	assert.Equal(t, ir.Color{R: 255, A: 255}, s.Events[0].Background)
	assert.Equal(t, 480.0, s.Events[0].Width)
	assert.Equal(t, ir.Identity, s.Events[12].placeInfo().Transform)
	assert.Len(t, s.Assertions, 3)
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"typo", "backgrond"},
		{"unknown_event", `unknown event "draw_circle"`},
		{"missing", "failed to read scenario file"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := LoadScenario(filepath.Join("testdata", "scenarios", tt.file+".yaml"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "", "empty document"},
		{"no name", "events: [{event: show_frame}]", "name is required"},
		{"no events", "name: x", "events list is required"},
		{"blank event", "name: x\nevents: [{id: 1}]", "event is required"},
		{"bad kind", "name: x\nevents: [{event: place, kind: video}]", `unknown kind "video"`},
		{"visibility", "name: x\nevents: [{event: update_visibility, object_id: 1}]", "visible is required"},
		{"behaviour", "name: x\nevents: [{event: start_text, behaviour: {type: rich}}]", `unknown behaviour "rich"`},
		{"assertion type", "name: x\nevents: [{event: show_frame}]\nassertions: [{type: trace}]", `unknown assertion type "trace"`},
		{"error code", "name: x\nevents: [{event: show_frame}]\nassertions: [{type: error}]", "requires 'code'"},
		{"frame timeline", "name: x\nevents: [{event: show_frame}]\nassertions: [{type: frame_count, count: 1}]", "requires 'timeline'"},
		{"names", "name: x\nevents: [{event: show_frame}]\nassertions: [{type: timeline_names}]", "requires 'names'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseScenario_Defaults(t *testing.T) {
	s, err := ParseScenario(strings.NewReader(`
name: defaults
events:
  - event: start_linear_gradient
  - event: solid_stroke
  - event: update_color_transform
    object_id: 3
`))
	require.NoError(t, err)

	assert.Equal(t, ir.Identity, s.Events[0].matrix())
	assert.Equal(t, ir.SpreadPad, spread(s.Events[0]))
	assert.Equal(t, ir.SolidStroke{
		Thickness: 1,
		Cap:       ir.CapRound,
		Join:      ir.JoinRound,
		ScaleType: ir.ScaleNormal,
	}, s.Events[1].Stroke.solid())
	assert.Nil(t, s.Events[2].ColorTransform)
}

func TestParseScenario_Behaviours(t *testing.T) {
	s, err := ParseScenario(strings.NewReader(`
name: behaviours
events:
  - event: start_text
    behaviour: {type: dynamic, name: score, line_mode: multiline}
  - event: start_text
    behaviour: {type: input, password: true}
`))
	require.NoError(t, err)

	assert.Equal(t, ir.DynamicText{Name: "score", LineMode: ir.LineMultiline}, s.Events[0].Behaviour.text())
	assert.Equal(t, ir.InputText{LineMode: ir.LineSingle, Password: true}, s.Events[1].Behaviour.text())
}

func TestScenarioFiles_AllParse(t *testing.T) {
	entries, err := os.ReadDir(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	broken := map[string]bool{"typo.yaml": true, "unknown_event.yaml": true}
	for _, e := range entries {
		if broken[e.Name()] {
			continue
		}
		_, err := LoadScenario(filepath.Join("testdata", "scenarios", e.Name()))
		assert.NoError(t, err, e.Name())
	}
}
