package diagram

import (
	"maps"
	"slices"

	"github.com/ha1tch/fsm-draw/pkg/geom"
)

// DragSession is one pointer-down to pointer-up move of selected nodes.
type DragSession struct {
	Anchor *Node

	// Start holds the position of every dragged node, by id, when the
	// gesture began.
	Start map[string]geom.Point

	nodes []*Node
}

// Nodes returns the nodes moving with the anchor, anchor included.
func (s *DragSession) Nodes() []*Node {
	return slices.Clone(s.nodes)
}

// Drag returns the active drag session, nil if none.
func (e *Editor) Drag() *DragSession { return e.drag }

func (e *Editor) beginDrag(anchor *Node, additive bool) {
	if e.drag != nil {
		// A gesture whose end was handled under another tool.
		e.clearDrag()
	}

	switch {
	case additive:
		e.selection.Select(anchor)
	case e.selection.Len() <= 1 || !e.selection.Contains(anchor):
		e.selection.DeselectAll()
		e.selection.Select(anchor)
	}

	anchor.lastSnapped = anchor.pos
	s := &DragSession{
		Anchor: anchor,
		Start:  make(map[string]geom.Point),
		nodes:  e.selection.Nodes(),
	}
	for _, n := range s.nodes {
		n.setShadow(true)
		s.Start[n.id] = n.pos
	}
	e.drag = s
	e.oplog.StartDragStates(maps.Clone(s.Start))
}

func (e *Editor) moveDrag(target *Node, ev PointerEvent) {
	s := e.drag
	if s == nil || target != s.Anchor {
		return
	}
	s.Anchor.SetPosition(ev.Pos)
	if ev.Movement == (geom.Point{}) {
		return
	}
	for _, n := range s.nodes {
		if n != s.Anchor {
			n.SetPosition(n.pos.Add(ev.Movement))
		}
	}
}

func (e *Editor) endDrag() {
	s := e.drag
	if s == nil {
		return
	}
	if e.snap {
		for _, n := range s.nodes {
			n.SetPosition(geom.Snap(n.pos, e.grid))
		}
	}

	if !s.Anchor.pos.Near(s.Anchor.lastSnapped) {
		end := make(map[string]geom.Point, len(s.nodes))
		for _, n := range s.nodes {
			end[n.id] = n.pos
		}
		s.Anchor.lastSnapped = s.Anchor.pos
		e.oplog.CompleteDragStates(end)
	}

	e.clearDrag()
	e.updateStartNodePosition()
}

func (e *Editor) clearDrag() {
	for _, n := range e.drag.nodes {
		n.setShadow(false)
	}
	e.drag = nil
}

// dropFromDrag forgets a deleted node. Losing the anchor ends the session.
func (e *Editor) dropFromDrag(n *Node) {
	s := e.drag
	if s == nil {
		return
	}
	if s.Anchor == n {
		e.clearDrag()
		return
	}
	s.nodes = slices.DeleteFunc(s.nodes, func(x *Node) bool { return x == n })
	delete(s.Start, n.id)
}
