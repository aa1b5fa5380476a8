package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsm-draw/pkg/geom"
)

func newTransitionsEditor(t *testing.T) (*Editor, *Node, *Node, *Node) {
	t.Helper()
	e := New(WithTool(ToolTransitions))
	a := e.AddNode("A", geom.Pt(100, 100))
	b := e.AddNode("B", geom.Pt(300, 100))
	c := e.AddNode("C", geom.Pt(300, 300))
	return e, a, b, c
}

func TestTentativeTransitionLifecycle(t *testing.T) {
	e, a, b, _ := newTransitionsEditor(t)

	e.HandlePointer(a, PointerEvent{Type: DragStart, Pointer: geom.Pt(100, 100)})
	tt := e.Tentative()
	require.NotNil(t, tt)
	assert.Same(t, a, tt.Source())
	assert.Nil(t, tt.Target())

	e.HandlePointer(a, PointerEvent{Type: DragMove, Pos: geom.Pt(180, 117), Pointer: geom.Pt(180, 117), Movement: geom.Pt(80, 17)})
	assert.Equal(t, geom.Pt(180, 117), tt.Cursor())
	assert.Equal(t, geom.Pt(100, 100), a.Position(), "source must not move")

	e.HandlePointer(b, PointerEvent{Type: Enter})
	assert.Same(t, b, tt.Target())
	assert.True(t, b.Glowing())

	e.HandlePointer(a, PointerEvent{Type: DragEnd})
	assert.Nil(t, e.Tentative())
	assert.False(t, b.Glowing())

	tr, ok := e.TransitionBetween(a, b)
	require.True(t, ok)
	assert.Equal(t, Epsilon, tr.Label())
}

func TestTentativeWithoutTargetIsAbandoned(t *testing.T) {
	e, a, _, _ := newTransitionsEditor(t)
	depth := e.History().Len()

	e.HandlePointer(a, PointerEvent{Type: DragStart, Pointer: geom.Pt(100, 100)})
	e.HandleCanvas(PointerEvent{Type: DragMove, Pointer: geom.Pt(500, 500)})
	e.HandleCanvas(PointerEvent{Type: DragEnd, Pointer: geom.Pt(500, 500)})

	assert.Nil(t, e.Tentative())
	assert.Empty(t, e.Transitions())
	assert.Equal(t, depth, e.History().Len())
}

func TestStaleLeaveKeepsTarget(t *testing.T) {
	e, a, b, c := newTransitionsEditor(t)
	e.HandlePointer(a, PointerEvent{Type: DragStart})

	e.HandlePointer(b, PointerEvent{Type: Enter})
	e.HandlePointer(c, PointerEvent{Type: Leave})
	assert.Same(t, b, e.Tentative().Target())

	e.HandlePointer(b, PointerEvent{Type: Leave})
	assert.Nil(t, e.Tentative().Target())
	assert.False(t, b.Glowing())

	// Leave of a node that is no longer the target.
	e.HandlePointer(b, PointerEvent{Type: Leave})
	assert.Nil(t, e.Tentative().Target())
}

func TestEnterMovesGlow(t *testing.T) {
	e, a, b, c := newTransitionsEditor(t)
	e.HandlePointer(a, PointerEvent{Type: DragStart})

	e.HandlePointer(b, PointerEvent{Type: Enter})
	e.HandlePointer(c, PointerEvent{Type: Enter})
	assert.Same(t, c, e.Tentative().Target())
	assert.False(t, b.Glowing())
	assert.True(t, c.Glowing())

	// The source is never a candidate.
	e.HandlePointer(a, PointerEvent{Type: Enter})
	assert.Same(t, c, e.Tentative().Target())
	assert.False(t, a.Glowing())
}

func TestHoverWithoutTentativeIsIgnored(t *testing.T) {
	e, _, b, _ := newTransitionsEditor(t)
	e.HandlePointer(b, PointerEvent{Type: Enter})
	assert.False(t, b.Glowing())
	assert.Nil(t, e.Tentative())
}

func TestTentativeMergesIntoExistingTransition(t *testing.T) {
	e, a, b, _ := newTransitionsEditor(t)
	existing, _ := e.AddTransition(a, b)
	e.AddSymbol(existing, "x")

	e.HandlePointer(a, PointerEvent{Type: DragStart})
	e.HandlePointer(b, PointerEvent{Type: Enter})
	e.HandlePointer(a, PointerEvent{Type: DragEnd})

	require.Len(t, e.Transitions(), 1)
	assert.Same(t, existing, e.Transitions()[0])
	assert.Equal(t, "x", existing.Label())
}

func TestAtMostOneTentative(t *testing.T) {
	e, a, b, c := newTransitionsEditor(t)

	e.HandlePointer(a, PointerEvent{Type: DragStart})
	e.HandlePointer(c, PointerEvent{Type: Enter})
	// A second start without an end replaces the record.
	e.HandlePointer(b, PointerEvent{Type: DragStart})

	tt := e.Tentative()
	require.NotNil(t, tt)
	assert.Same(t, b, tt.Source())
	assert.Nil(t, tt.Target())
	assert.False(t, c.Glowing())
}

func TestDeletingTentativeNodes(t *testing.T) {
	e, a, b, c := newTransitionsEditor(t)

	e.HandlePointer(a, PointerEvent{Type: DragStart})
	e.HandlePointer(b, PointerEvent{Type: Enter})
	require.NoError(t, e.DeleteNode(b))
	require.NotNil(t, e.Tentative())
	assert.Nil(t, e.Tentative().Target())

	e.HandlePointer(c, PointerEvent{Type: Enter})
	require.NoError(t, e.DeleteNode(a))
	assert.Nil(t, e.Tentative())
	assert.False(t, c.Glowing())
}

func TestTentativeSegment(t *testing.T) {
	e, a, b, _ := newTransitionsEditor(t)
	e.HandlePointer(a, PointerEvent{Type: DragStart, Pointer: geom.Pt(100, 100)})
	tt := e.Tentative()

	// Cursor still inside the source.
	from, to := tt.Segment()
	assert.Equal(t, geom.Pt(100, 100), from)
	assert.Equal(t, geom.Pt(100, 100), to)

	e.HandlePointer(a, PointerEvent{Type: DragMove, Pointer: geom.Pt(100, 200)})
	from, to = tt.Segment()
	assert.Equal(t, geom.Pt(100, 130), from)
	assert.Equal(t, geom.Pt(100, 200), to)

	e.HandlePointer(b, PointerEvent{Type: Enter})
	from, to = tt.Segment()
	assert.Equal(t, geom.Pt(130, 100), from)
	assert.Equal(t, geom.Pt(270, 100), to)
}
