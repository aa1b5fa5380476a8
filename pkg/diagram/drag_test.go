package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsm-draw/pkg/geom"
)

func TestGroupDragIsRigid(t *testing.T) {
	e := New(WithSnap(false))
	a := e.AddNode("A", geom.Pt(100, 100))
	b := e.AddNode("B", geom.Pt(200, 150))
	c := e.AddNode("C", geom.Pt(400, 400))
	e.HandlePointer(a, click(0))
	e.HandlePointer(b, click(ModAdditive))

	e.HandlePointer(a, PointerEvent{Type: DragStart})
	e.HandlePointer(a, PointerEvent{Type: DragMove, Pos: geom.Pt(107, 103), Movement: geom.Pt(7, 3)})
	e.HandlePointer(a, PointerEvent{Type: DragMove, Pos: geom.Pt(120, 90), Movement: geom.Pt(13, -13)})
	e.HandlePointer(a, PointerEvent{Type: DragEnd})

	assert.Equal(t, geom.Pt(120, 90), a.Position())
	assert.Equal(t, geom.Pt(220, 140), b.Position())
	assert.Equal(t, geom.Pt(400, 400), c.Position())
	assert.Equal(t, b.Position().Sub(a.Position()), geom.Pt(100, 50))
}

func TestDragStartNormalizesSelection(t *testing.T) {
	e := New()
	a := e.AddNode("A", geom.Pt(0, 0))
	b := e.AddNode("B", geom.Pt(100, 0))
	c := e.AddNode("C", geom.Pt(200, 0))

	// A different single selection is replaced.
	e.HandlePointer(b, click(0))
	e.HandlePointer(a, PointerEvent{Type: DragStart})
	assert.Equal(t, []*Node{a}, e.Drag().Nodes())
	assert.Equal(t, []*Node{a}, e.Selection().Nodes())
	e.HandlePointer(a, PointerEvent{Type: DragEnd})

	// A group containing the anchor drags together.
	e.HandlePointer(b, click(ModAdditive))
	e.HandlePointer(b, PointerEvent{Type: DragStart})
	assert.ElementsMatch(t, []*Node{a, b}, e.Drag().Nodes())
	e.HandlePointer(b, PointerEvent{Type: DragEnd})

	// Dragging an unselected node replaces the group.
	e.HandlePointer(c, PointerEvent{Type: DragStart})
	assert.Equal(t, []*Node{c}, e.Selection().Nodes())
	e.HandlePointer(c, PointerEvent{Type: DragEnd})

	// Unless the additive key is held.
	e.HandlePointer(a, PointerEvent{Type: DragStart, Mods: ModAdditive})
	assert.ElementsMatch(t, []*Node{a, c}, e.Selection().Nodes())
	e.HandlePointer(a, PointerEvent{Type: DragEnd})
}

func TestDragShadowsSelectedNodes(t *testing.T) {
	e := New()
	e.AttachViews()
	a := e.AddNode("A", geom.Pt(0, 0))
	b := e.AddNode("B", geom.Pt(100, 0))
	e.HandlePointer(a, click(0))
	e.HandlePointer(b, click(ModAdditive))

	e.HandlePointer(a, PointerEvent{Type: DragStart})
	assert.True(t, a.Shadowed())
	assert.True(t, b.View().Shadow)

	e.HandlePointer(a, PointerEvent{Type: DragEnd})
	assert.False(t, a.Shadowed())
	assert.False(t, b.Shadowed())
	assert.False(t, b.View().Shadow)
	assert.Nil(t, e.Drag())
}

func TestDragEndSnapsEveryNode(t *testing.T) {
	e := New()
	a := e.AddNode("A", geom.Pt(100, 100))
	b := e.AddNode("B", geom.Pt(200, 100))
	e.HandlePointer(a, click(0))
	e.HandlePointer(b, click(ModAdditive))

	e.HandlePointer(a, PointerEvent{Type: DragStart})
	e.HandlePointer(a, PointerEvent{Type: DragMove, Pos: geom.Pt(130, 121), Movement: geom.Pt(30, 21)})
	e.HandlePointer(a, PointerEvent{Type: DragEnd})

	assert.Equal(t, geom.Pt(150, 100), a.Position())
	assert.Equal(t, geom.Pt(250, 100), b.Position())
}

func TestDragCommitsOnlyRealMoves(t *testing.T) {
	rec := &recordingLog{}
	e := New(WithOperationLog(rec))
	a := e.AddNode("A", geom.Pt(100, 100))

	// Snaps back to where it started.
	drag(e, a, geom.Pt(110, 105), 0)
	assert.Equal(t, geom.Pt(100, 100), a.Position())
	require.Len(t, rec.starts, 1)
	assert.Equal(t, map[string]geom.Point{a.ID(): geom.Pt(100, 100)}, rec.starts[0])
	assert.Empty(t, rec.completes)

	drag(e, a, geom.Pt(130, 130), 0)
	assert.Equal(t, geom.Pt(150, 150), a.Position())
	require.Len(t, rec.completes, 1)
	assert.Equal(t, map[string]geom.Point{a.ID(): geom.Pt(150, 150)}, rec.completes[0])

	// Back into the same cell.
	drag(e, a, geom.Pt(160, 140), 0)
	assert.Len(t, rec.starts, 3)
	assert.Len(t, rec.completes, 1)
}

func TestDragWithinEpsilonIsNoOp(t *testing.T) {
	rec := &recordingLog{}
	e := New(WithOperationLog(rec), WithSnap(false))
	a := e.AddNode("A", geom.Pt(10, 10))

	drag(e, a, geom.Pt(10+1e-6, 10), 0)
	assert.Empty(t, rec.completes)

	drag(e, a, geom.Pt(10, 10.5), 0)
	assert.Len(t, rec.completes, 1)
}

func TestDragUpdatesTransitionsAndStartArrow(t *testing.T) {
	e := New()
	a := e.AddNode("A", geom.Pt(100, 100))
	b := e.AddNode("B", geom.Pt(300, 100))
	tr, created := e.AddTransition(a, b)
	require.True(t, created)
	assert.Equal(t, geom.Pt(130, 100), tr.Path()[0])

	drag(e, a, geom.Pt(100, 300), 0)

	assert.Equal(t, geom.Pt(100, 300), a.Position())
	assert.NotEqual(t, geom.Pt(130, 100), tr.Path()[0])
	assert.InDelta(t, 30, tr.Path()[0].Dist(a.Position()), 1e-9)

	arrow := e.StartArrow()
	assert.True(t, arrow.Visible)
	assert.Equal(t, geom.Pt(40, 300), arrow.From)
	assert.Equal(t, geom.Pt(70, 300), arrow.To)
}

func TestDragCommitIsUndoable(t *testing.T) {
	e := New()
	a := e.AddNode("A", geom.Pt(100, 100))
	depth := e.History().Len()

	drag(e, a, geom.Pt(240, 260), 0)
	assert.Equal(t, depth+1, e.History().Len())

	require.NoError(t, e.Undo())
	n, ok := e.Node(a.ID())
	require.True(t, ok)
	assert.Equal(t, geom.Pt(100, 100), n.Position())

	require.NoError(t, e.Redo())
	n, _ = e.Node(a.ID())
	assert.Equal(t, geom.Pt(250, 250), n.Position())
}

func TestToolChangeMidGestureIsUnguardedByDefault(t *testing.T) {
	e := New()
	a := e.AddNode("A", geom.Pt(100, 100))

	e.HandlePointer(a, PointerEvent{Type: DragStart})
	e.SetTool(ToolTransitions)
	e.HandlePointer(a, PointerEvent{Type: DragMove, Pos: geom.Pt(200, 200), Movement: geom.Pt(100, 100)})
	e.HandlePointer(a, PointerEvent{Type: DragEnd})

	// The rest of the gesture was handled as a transition gesture.
	assert.Equal(t, geom.Pt(100, 100), a.Position())
	assert.NotNil(t, e.Drag())
	assert.Nil(t, e.Tentative())

	// The next drag replaces the stale session.
	e.SetTool(ToolSelect)
	drag(e, a, geom.Pt(200, 200), 0)
	assert.Nil(t, e.Drag())
	assert.False(t, a.Shadowed())
	assert.Equal(t, geom.Pt(200, 200), a.Position())
}

func TestToolLockKeepsGestureTool(t *testing.T) {
	e := New(WithToolLock(true))
	a := e.AddNode("A", geom.Pt(100, 100))

	e.HandlePointer(a, PointerEvent{Type: DragStart})
	e.SetTool(ToolTransitions)
	e.HandlePointer(a, PointerEvent{Type: DragMove, Pos: geom.Pt(200, 200), Movement: geom.Pt(100, 100)})
	e.HandlePointer(a, PointerEvent{Type: DragEnd})

	assert.Equal(t, geom.Pt(200, 200), a.Position())
	assert.Nil(t, e.Drag())
	assert.Equal(t, ToolTransitions, e.Tool())

	// The lock ends with the gesture.
	b := e.AddNode("B", geom.Pt(400, 100))
	e.HandlePointer(a, PointerEvent{Type: DragStart, Pointer: a.Position()})
	require.NotNil(t, e.Tentative())
	e.HandlePointer(b, PointerEvent{Type: Enter})
	e.HandlePointer(a, PointerEvent{Type: DragEnd})
	_, ok := e.TransitionBetween(a, b)
	assert.True(t, ok)
}

func TestDeletingDraggedNodeEndsSession(t *testing.T) {
	e := New()
	a := e.AddNode("A", geom.Pt(0, 0))
	b := e.AddNode("B", geom.Pt(100, 0))
	e.HandlePointer(a, click(0))
	e.HandlePointer(b, click(ModAdditive))
	e.HandlePointer(a, PointerEvent{Type: DragStart})

	require.NoError(t, e.DeleteNode(b))
	assert.Equal(t, []*Node{a}, e.Drag().Nodes())
	assert.NotContains(t, e.Drag().Start, b.ID())

	require.NoError(t, e.DeleteNode(a))
	assert.Nil(t, e.Drag())
	assert.False(t, a.Shadowed())
}

func TestDragOnlyInSelectTool(t *testing.T) {
	e := New()
	a := e.AddNode("A", geom.Pt(100, 100))
	e.SetTool(ToolStates)

	drag(e, a, geom.Pt(200, 200), 0)
	assert.Nil(t, e.Drag())
	assert.False(t, a.Selected())
	assert.Equal(t, 1, e.History().Len())
}

func TestUndoMidGestureReleasesToolLock(t *testing.T) {
	e := New(WithToolLock(true))
	a := e.AddNode("A", geom.Pt(100, 100))

	e.HandlePointer(a, PointerEvent{Type: DragStart})
	require.NoError(t, e.Undo())
	assert.Empty(t, e.Nodes())

	// No DragEnd follows; the next click must use the live tool.
	e.SetTool(ToolStates)
	e.HandleCanvas(PointerEvent{Type: Click, Pointer: geom.Pt(200, 200)})
	assert.Len(t, e.Nodes(), 1)
}

func TestToolChangeMidTransitionGesture(t *testing.T) {
	e, a, b, c := newTransitionsEditor(t)

	e.HandlePointer(a, PointerEvent{Type: DragStart, Pointer: a.Position()})
	e.HandlePointer(b, PointerEvent{Type: Enter})
	e.SetTool(ToolSelect)

	// Hover under the Select tool does not pick a target.
	e.HandlePointer(b, PointerEvent{Type: Leave})
	e.HandlePointer(c, PointerEvent{Type: Enter})
	assert.False(t, c.Glowing())

	// The end of the gesture drops the record without committing.
	e.HandlePointer(a, PointerEvent{Type: DragEnd})
	assert.Nil(t, e.Tentative())
	assert.False(t, b.Glowing())
	assert.Empty(t, e.Transitions())
}
