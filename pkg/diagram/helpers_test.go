package diagram

import (
	"github.com/ha1tch/fsm-draw/pkg/geom"
	"github.com/ha1tch/fsm-draw/pkg/textfit"
)

// recordingLog is an OperationLog that remembers every boundary call.
type recordingLog struct {
	starts    []map[string]geom.Point
	completes []map[string]geom.Point
}

func (r *recordingLog) StartDragStates(start map[string]geom.Point) {
	r.starts = append(r.starts, start)
}

func (r *recordingLog) CompleteDragStates(end map[string]geom.Point) {
	r.completes = append(r.completes, end)
}

type fitterFunc func(text string, diameter float64) textfit.Result

func (f fitterFunc) Fit(text string, diameter float64) textfit.Result { return f(text, diameter) }

func click(mods Modifiers) PointerEvent {
	return PointerEvent{Type: Click, Mods: mods}
}

// drag runs a whole drag gesture of anchor from its position to "to" as one
// move event.
func drag(e *Editor, anchor *Node, to geom.Point, mods Modifiers) {
	from := anchor.Position()
	e.HandlePointer(anchor, PointerEvent{Type: DragStart, Pointer: from, Mods: mods})
	e.HandlePointer(anchor, PointerEvent{Type: DragMove, Pos: to, Pointer: to, Movement: to.Sub(from)})
	e.HandlePointer(anchor, PointerEvent{Type: DragEnd, Pos: to, Pointer: to})
}
