package diagram

import (
	"fmt"

	"github.com/ha1tch/fsm-draw/pkg/geom"
)

// EventType identifies a pointer event.
type EventType int

const (
	Click EventType = iota
	DragStart
	DragMove
	DragEnd
	Enter
	Leave
)

func (t EventType) String() string {
	switch t {
	case Click:
		return "click"
	case DragStart:
		return "dragstart"
	case DragMove:
		return "dragmove"
	case DragEnd:
		return "dragend"
	case Enter:
		return "enter"
	case Leave:
		return "leave"
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// Modifiers is the set of keys held during a pointer event.
type Modifiers uint8

// ModAdditive extends the selection instead of replacing it.
const ModAdditive Modifiers = 1 << iota

// PointerEvent is one pointer event as delivered by the host.
type PointerEvent struct {
	Type EventType

	// Pos is where the host's native drag has put the target. Only read for
	// the anchor of a node drag.
	Pos geom.Point

	// Pointer is the pointer location in diagram space.
	Pointer geom.Point

	// Movement is the pointer delta since the previous move event.
	Movement geom.Point

	Mods Modifiers
}

// Additive reports whether the additive-select key is held.
func (ev PointerEvent) Additive() bool { return ev.Mods&ModAdditive != 0 }

// activeTool is the tool a handler must act on: the locked gesture tool if
// there is one, otherwise the live tool.
func (e *Editor) activeTool() Tool {
	if e.gestureTool != nil {
		return *e.gestureTool
	}
	return e.tool
}

// HandlePointer dispatches ev delivered to target. A nil target means the
// empty canvas. Events must arrive in the order the host produced them.
func (e *Editor) HandlePointer(target Object, ev PointerEvent) {
	if ev.Type == DragStart && e.lockTool {
		t := e.tool
		e.gestureTool = &t
	}
	tool := e.activeTool()

	switch o := target.(type) {
	case *Node:
		e.handleNode(o, tool, ev)
	case *Transition:
		e.handleTransition(o, tool, ev)
	case nil:
		e.handleCanvas(tool, ev)
	}

	if ev.Type == DragEnd {
		e.gestureTool = nil
	}
}

// HandleCanvas dispatches ev delivered to the empty canvas.
func (e *Editor) HandleCanvas(ev PointerEvent) {
	e.HandlePointer(nil, ev)
}

func (e *Editor) handleNode(n *Node, tool Tool, ev PointerEvent) {
	switch ev.Type {
	case Click:
		if tool == ToolSelect {
			e.clickSelect(n, ev.Additive())
		}
	case DragStart:
		switch tool {
		case ToolTransitions:
			e.startTentative(n, ev.Pointer)
		case ToolSelect:
			e.beginDrag(n, ev.Additive())
		case ToolStates:
		}
	case DragMove:
		switch tool {
		case ToolTransitions:
			e.updateTentativeHead(ev.Pointer)
		case ToolSelect:
			e.moveDrag(n, ev)
		case ToolStates:
		}
	case DragEnd:
		switch tool {
		case ToolTransitions:
			e.endTentative()
		case ToolSelect:
			e.endDrag()
			e.cancelTentative()
		case ToolStates:
			e.cancelTentative()
		}
	case Enter:
		if tool == ToolTransitions {
			e.enterTarget(n)
		}
	case Leave:
		e.leaveTarget(n)
	}
}

func (e *Editor) handleTransition(t *Transition, tool Tool, ev PointerEvent) {
	if ev.Type == Click && tool == ToolSelect {
		e.clickSelect(t, ev.Additive())
	}
}

func (e *Editor) handleCanvas(tool Tool, ev PointerEvent) {
	switch ev.Type {
	case Click:
		switch tool {
		case ToolSelect:
			if !ev.Additive() {
				e.selection.DeselectAll()
			}
		case ToolStates:
			p := ev.Pointer
			if e.snap {
				p = geom.Snap(p, e.grid)
			}
			e.AddNode("", p)
		case ToolTransitions:
		}
	case DragMove:
		if tool == ToolTransitions {
			e.updateTentativeHead(ev.Pointer)
		}
	case DragEnd:
		switch tool {
		case ToolTransitions:
			e.endTentative()
		case ToolSelect:
			e.endDrag()
			e.cancelTentative()
		case ToolStates:
			e.cancelTentative()
		}
	}
}

// clickSelect applies the click contract: additive adds, otherwise the
// clicked object becomes the only selected one.
func (e *Editor) clickSelect(obj Object, additive bool) {
	if !additive {
		e.selection.DeselectAll()
	}
	e.selection.Select(obj)
}
