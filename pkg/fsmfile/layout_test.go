package fsmfile

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutRoundTrip(t *testing.T) {
	d := sampleDocument(t)
	l := NewLayout(d, EditorMeta{CanvasOffsetX: 10, CanvasOffsetY: -20, GridSize: 50})

	var buf bytes.Buffer
	require.NoError(t, GenerateLayout(&buf, l))
	assert.Contains(t, buf.String(), "[states.")

	parsed, err := ParseLayout(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, l, parsed)
}

func TestParseLayoutByID(t *testing.T) {
	text := `
version = 1

[editor]
canvas_offset_x = 5.0
canvas_offset_y = 0.0

[states."node-1"]
x = 150.0
y = 250.0

[states."node 2"]
label = "q1"
x = 300.5
y = 100.0
`
	l, err := ParseLayout([]byte(text))
	require.NoError(t, err)
	assert.Equal(t, 1, l.Version)
	assert.Equal(t, 5.0, l.Editor.CanvasOffsetX)
	assert.Equal(t, StateLayout{X: 150, Y: 250}, l.States["node-1"])
	assert.Equal(t, StateLayout{Label: "q1", X: 300.5, Y: 100}, l.States["node 2"])
}

func TestParseLayoutErrors(t *testing.T) {
	tests := map[string]string{
		"syntax":      "[states\nx = 1",
		"unknown key": "version = 1\nzoom = 2\n",
		"newer":       "version = 2\n",
	}
	for name, text := range tests {
		_, err := ParseLayout([]byte(text))
		assert.Error(t, err, name)
	}
}

func TestParseEmptyLayout(t *testing.T) {
	l, err := ParseLayout(nil)
	require.NoError(t, err)
	assert.NotNil(t, l.States)
}

func TestLayoutApply(t *testing.T) {
	d := sampleDocument(t)
	l := &Layout{States: map[string]StateLayout{
		d.Nodes[1].ID: {X: 500, Y: 50},
		"gone":        {X: 1, Y: 1},
	}}

	assert.Equal(t, 1, l.Apply(&d))
	assert.Equal(t, 100.0, d.Nodes[0].X)
	assert.Equal(t, 500.0, d.Nodes[1].X)
	assert.Equal(t, 50.0, d.Nodes[1].Y)
}
