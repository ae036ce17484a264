package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int", int32(-100), "-100"},
		{"uint32", uint32(4294967295), "4294967295"},
		{"uint8", uint8(255), "255"},
		{"float", 0.5, "0.5"},
		{"whole float", 24.0, "24"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"nil", nil, "null"},
		{"empty array", []any{}, "[]"},
		{"empty object", Object{}, "{}"},
		{"strings", []string{"a", "b"}, `["a","b"]`},
		{"mixed array", []any{1, "l", 2.5}, `[1,"l",2.5]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalObjectKeepsInsertionOrder(t *testing.T) {
	obj := Object{}.Set("zebra", 1).Set("alpha", 2).Set("mid", Object{}.Set("b", 1).Set("a", 2))

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"zebra":1,"alpha":2,"mid":{"b":1,"a":2}}`, string(result))
}

func TestObjectGet(t *testing.T) {
	obj := Object{}.Set("a", 1).Set("b", 2).Set("a", 3)

	v, ok := obj.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v, "first value wins")

	_, ok = obj.Get("missing")
	assert.False(t, ok)
}

func TestMarshalValuer(t *testing.T) {
	result, err := Marshal(Identity)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":0,"c":0,"d":1,"tx":0,"ty":0}`, string(result))

	var d PathData
	d.Point(Point{X: 1, Y: 2})
	d.Op(CmdLineTo)
	d.Point(Point{X: 3.5, Y: 4})
	d.Op(CmdClosePath)
	result, err = Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `[1,2,"l",3.5,4,"cp"]`, string(result))
}

func TestMarshalNoHTMLEscape(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"less than", "<b>", `"<b>"`},
		{"ampersand", "a & b", `"a & b"`},
		{"html text", "<p align=\"left\">Hi</p>", `"<p align=\"left\">Hi</p>"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))

			assert.NotContains(t, string(result), "\\u003c") // <
			assert.NotContains(t, string(result), "\\u003e") // >
			assert.NotContains(t, string(result), "\\u0026") // &
		})
	}
}

func TestMarshalNFCNormalization(t *testing.T) {
	// "é" is U+00E9 in NFC and U+0065 U+0301 in NFD.
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"

	result1, err := Marshal(composed)
	require.NoError(t, err)
	result2, err := Marshal(decomposed)
	require.NoError(t, err)
	assert.Equal(t, result1, result2)

	obj1, err := Marshal(Object{}.Set(composed, 1))
	require.NoError(t, err)
	obj2, err := Marshal(Object{}.Set(decomposed, 1))
	require.NoError(t, err)
	assert.Equal(t, obj1, obj2, "keys are normalized too")
}

func TestMarshalStringEscaping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"newline", "a\nb", `"a\nb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalRejectsNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Marshal(f)
		assert.Error(t, err)
	}

	_, err := Marshal(Object{}.Set("paths", []any{Object{}.Set("x", math.NaN())}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paths: [0]: x:")
}

func TestMarshalRejectsUnsupportedTypes(t *testing.T) {
	_, err := Marshal(map[string]any{"a": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}

func TestMarshalCompactOutput(t *testing.T) {
	obj := Object{}.Set("array", []any{1, 2}).Set("bool", true).Set("int", 42)

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.NotContains(t, string(result), " ")
	assert.NotContains(t, string(result), "\n")
}

func TestMarshalIndent(t *testing.T) {
	obj := Object{}.Set("a", 1).Set("b", []any{"x"})

	result, err := MarshalIndent(obj, "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    \"x\"\n  ]\n}\n", string(result))
}

func TestList(t *testing.T) {
	stops := []GradientStop{{Offset: 0, Color: "ff0000", Opacity: 1}, {Offset: 100, Color: "0000ff", Opacity: 1}}
	assert.Len(t, List(stops), 2)
	assert.Empty(t, List([]GradientStop{}))
}
