package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsm-draw/internal/config"
	"github.com/ha1tch/fsm-draw/internal/logging"
	"github.com/ha1tch/fsm-draw/pkg/diagram"
	"github.com/ha1tch/fsm-draw/pkg/geom"
)

// newTestEditor returns a headless terminal editor with 10x20 cells and a
// 50 unit grid.
func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	return newEditor(nil, config.Default(), "", logging.NewNop())
}

func press(ed *Editor, x, y int, mod tcell.ModMask) {
	ed.ptr.handle(x, y, tcell.Button1, mod)
}

func release(ed *Editor, x, y int) {
	ed.ptr.handle(x, y, tcell.ButtonNone, tcell.ModNone)
}

func TestViewportMapping(t *testing.T) {
	v := viewport{cellW: 10, cellH: 20}
	assert.Equal(t, geom.Pt(105, 150), v.toDiagram(10, 7))

	x, y := v.toCell(geom.Pt(105, 150))
	assert.Equal(t, [2]int{10, 7}, [2]int{x, y})

	v.pan(3, -2)
	x, y = v.toCell(geom.Pt(105, 150))
	assert.Equal(t, [2]int{7, 9}, [2]int{x, y})
	assert.Equal(t, geom.Pt(105, 150), v.toDiagram(7, 9))
}

func TestClickOnCanvasAddsState(t *testing.T) {
	ed := newTestEditor(t)
	ed.doc.SetTool(diagram.ToolStates)

	press(ed, 7, 6, tcell.ModNone)
	release(ed, 7, 6)

	nodes := ed.doc.Nodes()
	require.Len(t, nodes, 1)
	// (75, 130) snaps to (100, 150).
	assert.Equal(t, geom.Pt(100, 150), nodes[0].Position())
}

func TestDragMovesAndSnapsNode(t *testing.T) {
	ed := newTestEditor(t)
	a := ed.doc.AddNode("A", geom.Pt(100, 150))
	before := ed.doc.History().Len()

	press(ed, 10, 7, tcell.ModNone)
	ed.ptr.handle(13, 7, tcell.Button1, tcell.ModNone)
	require.NotNil(t, ed.doc.Drag())
	assert.Equal(t, geom.Pt(130, 150), a.Position())

	ed.ptr.handle(15, 8, tcell.Button1, tcell.ModNone)
	release(ed, 15, 8)

	assert.Nil(t, ed.doc.Drag())
	assert.Equal(t, geom.Pt(150, 150), a.Position())
	assert.Equal(t, before+1, ed.doc.History().Len())
	assert.True(t, a.Selected())
}

func TestPressWithoutMoveIsClick(t *testing.T) {
	ed := newTestEditor(t)
	a := ed.doc.AddNode("A", geom.Pt(100, 150))
	b := ed.doc.AddNode("B", geom.Pt(300, 150))

	press(ed, 10, 7, tcell.ModNone)
	release(ed, 10, 7)
	assert.True(t, a.Selected())
	assert.Nil(t, ed.doc.Drag())

	press(ed, 30, 7, tcell.ModShift)
	release(ed, 30, 7)
	assert.True(t, a.Selected())
	assert.True(t, b.Selected())

	press(ed, 50, 2, tcell.ModNone)
	release(ed, 50, 2)
	assert.Zero(t, ed.doc.Selection().Len())
}

func TestDragInTransitionsToolConnectsStates(t *testing.T) {
	ed := newTestEditor(t)
	a := ed.doc.AddNode("A", geom.Pt(100, 150))
	b := ed.doc.AddNode("B", geom.Pt(300, 150))
	ed.doc.SetTool(diagram.ToolTransitions)

	press(ed, 10, 7, tcell.ModNone)
	ed.ptr.handle(20, 7, tcell.Button1, tcell.ModNone)
	require.NotNil(t, ed.doc.Tentative())
	assert.Nil(t, ed.doc.Tentative().Target())

	ed.ptr.handle(30, 7, tcell.Button1, tcell.ModNone)
	assert.Equal(t, b, ed.doc.Tentative().Target())
	assert.True(t, b.Glowing())

	release(ed, 30, 7)
	assert.Nil(t, ed.doc.Tentative())
	_, ok := ed.doc.TransitionBetween(a, b)
	assert.True(t, ok)
	assert.False(t, b.Glowing())
}

func TestDragToEmptyCanvasAbandonsTransition(t *testing.T) {
	ed := newTestEditor(t)
	ed.doc.AddNode("A", geom.Pt(100, 150))
	ed.doc.AddNode("B", geom.Pt(300, 150))
	ed.doc.SetTool(diagram.ToolTransitions)

	press(ed, 10, 7, tcell.ModNone)
	ed.ptr.handle(30, 7, tcell.Button1, tcell.ModNone)
	ed.ptr.handle(20, 12, tcell.Button1, tcell.ModNone)
	release(ed, 20, 12)

	assert.Nil(t, ed.doc.Tentative())
	assert.Empty(t, ed.doc.Transitions())
}

func TestClickSelectsTransition(t *testing.T) {
	ed := newTestEditor(t)
	a := ed.doc.AddNode("A", geom.Pt(100, 150))
	b := ed.doc.AddNode("B", geom.Pt(300, 150))
	tr, _ := ed.doc.AddTransition(a, b)

	// Midway between the two states.
	press(ed, 20, 7, tcell.ModNone)
	release(ed, 20, 7)
	assert.True(t, tr.Selected())
}
