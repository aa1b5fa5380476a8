package diagram

import "github.com/ha1tch/fsm-draw/pkg/geom"

// TentativeTransition is a transition being dragged out of a source node.
type TentativeTransition struct {
	source *Node
	target *Node
	cursor geom.Point
}

// Source returns the node the gesture started on.
func (tt *TentativeTransition) Source() *Node { return tt.source }

// Target returns the hovered candidate target, nil if none.
func (tt *TentativeTransition) Target() *Node { return tt.target }

// Cursor returns the free end of the edge.
func (tt *TentativeTransition) Cursor() geom.Point { return tt.cursor }

// Segment returns the edge to draw: from the source outline to the target
// outline when a target is hovered, to the cursor otherwise.
func (tt *TentativeTransition) Segment() (from, to geom.Point) {
	src := tt.source.Circle()
	if tt.target != nil {
		return geom.Segment(src, tt.target.Circle(), 0)
	}
	return geom.Towards(src, tt.cursor)
}

// Tentative returns the transition being built, nil if none.
func (e *Editor) Tentative() *TentativeTransition { return e.tentative }

func (e *Editor) startTentative(source *Node, cursor geom.Point) {
	e.cancelTentative()
	e.tentative = &TentativeTransition{source: source, cursor: cursor}
	e.log.Debug("transition started", "source", source.label)
}

func (e *Editor) updateTentativeHead(p geom.Point) {
	if e.tentative != nil {
		e.tentative.cursor = p
	}
}

// enterTarget is only reached under the Transitions tool.
func (e *Editor) enterTarget(n *Node) {
	tt := e.tentative
	if tt == nil || n == tt.source || n == tt.target {
		return
	}
	if tt.target != nil {
		tt.target.setGlow(false)
	}
	tt.target = n
	n.setGlow(true)
}

func (e *Editor) leaveTarget(n *Node) {
	tt := e.tentative
	if tt == nil || tt.target != n {
		return
	}
	n.setGlow(false)
	tt.target = nil
}

// endTentative commits the transition if a target is hovered. The record is
// cleared either way.
func (e *Editor) endTentative() {
	tt := e.tentative
	if tt == nil {
		return
	}
	e.cancelTentative()
	if tt.target != nil {
		e.AddTransition(tt.source, tt.target)
	}
}

func (e *Editor) cancelTentative() {
	if e.tentative == nil {
		return
	}
	if e.tentative.target != nil {
		e.tentative.target.setGlow(false)
	}
	e.tentative = nil
}
