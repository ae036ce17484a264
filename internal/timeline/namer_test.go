package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamer_StageAndUnnamed(t *testing.T) {
	n := NewNamer("Main")
	assert.Equal(t, "Main", n.Name(0, "ignored"))
	assert.Equal(t, "Graphic1", n.Name(5, ""))
	assert.Equal(t, "Graphic2", n.Name(6, ""))
}

func TestNamer_SynthesizedSkipsTakenNames(t *testing.T) {
	n := NewNamer("Stage")
	assert.Equal(t, "Graphic1", n.Name(3, "Graphic1"))
	assert.Equal(t, "Graphic2", n.Name(4, ""))
}

func TestNamer_CountersArePerNamer(t *testing.T) {
	assert.Equal(t, "Graphic1", NewNamer("A").Name(1, ""))
	assert.Equal(t, "Graphic1", NewNamer("B").Name(1, ""))
}

func TestNamer_CollisionsAreVersioned(t *testing.T) {
	n := NewNamer("Stage")
	assert.Equal(t, "Ball", n.Name(1, "Ball"))
	assert.Equal(t, "Ball_1", n.Name(2, "Props/Ball"))
	assert.Equal(t, "Ball_2", n.Name(3, "Ball"))
	assert.Equal(t, "Stage_1", n.Name(4, "Stage"))
}

func TestNextVersion(t *testing.T) {
	assert.Equal(t, "a_1", NextVersion("a"))
	assert.Equal(t, "a_2", NextVersion("a_1"))
	assert.Equal(t, "a_b_10", NextVersion("a_b_9"))
}

func TestIdentifier(t *testing.T) {
	tests := map[string]string{
		"Symbol 1":          "Symbol_1",
		"Folder/Walk-Cycle": "Walk_Cycle",
		`Win\Path`:          "Path",
		"3D Box":            "_3D_Box",
		"$ok_name":          "$ok_name",
		"":                  "_",
	}
	for in, want := range tests {
		assert.Equal(t, want, Identifier(in), "input %q", in)
	}
}
