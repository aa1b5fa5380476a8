package diagram

import (
	"log/slog"

	"github.com/ha1tch/fsm-draw/pkg/geom"
)

// DefaultUndoLevels is how many snapshots History keeps.
const DefaultUndoLevels = 50

// OperationLog receives the boundaries of drag operations on states.
// StartDragStates is called when a drag begins with the start position of
// every dragged node; CompleteDragStates is called only if the drag
// actually moved something. A start that is never completed is dropped by
// the next start.
type OperationLog interface {
	StartDragStates(start map[string]geom.Point)
	CompleteDragStates(end map[string]geom.Point)
}

// History is a snapshot based undo/redo log. It implements OperationLog:
// a snapshot is taken when a drag starts and pushed when it completes.
type History struct {
	limit    int
	snapshot func() Document
	log      *slog.Logger

	undoStack []Document
	redoStack []Document
	pending   *Document
}

// NewHistory returns a History that captures state with snapshot.
func NewHistory(limit int, snapshot func() Document, log *slog.Logger) *History {
	if limit <= 0 {
		limit = DefaultUndoLevels
	}
	return &History{limit: limit, snapshot: snapshot, log: log}
}

// Save records the current state ahead of a mutation and clears the redo
// stack.
func (h *History) Save() {
	h.push(h.snapshot())
}

func (h *History) push(d Document) {
	h.undoStack = append(h.undoStack, d)
	if len(h.undoStack) > h.limit {
		h.undoStack = h.undoStack[1:]
	}
	h.redoStack = nil
}

// StartDragStates implements OperationLog.
func (h *History) StartDragStates(start map[string]geom.Point) {
	d := h.snapshot()
	h.pending = &d
	h.log.Debug("drag started", "states", len(start))
}

// CompleteDragStates implements OperationLog.
func (h *History) CompleteDragStates(end map[string]geom.Point) {
	if h.pending == nil {
		return
	}
	h.push(*h.pending)
	h.pending = nil
	h.log.Debug("drag committed", "states", len(end))
}

// Undo pops the last snapshot; current is pushed onto the redo stack.
func (h *History) Undo(current Document) (Document, error) {
	if len(h.undoStack) == 0 {
		return Document{}, ErrNothingToUndo
	}
	d := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return d, nil
}

// Redo pops the last undone snapshot; current is pushed back onto the undo
// stack without clearing redo.
func (h *History) Redo(current Document) (Document, error) {
	if len(h.redoStack) == 0 {
		return Document{}, ErrNothingToRedo
	}
	d := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return d, nil
}

// CanUndo reports whether Undo has anything to restore.
func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }

// CanRedo reports whether Redo has anything to restore.
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// Len returns the depth of the undo stack.
func (h *History) Len() int { return len(h.undoStack) }

// Reset discards all snapshots.
func (h *History) Reset() {
	h.undoStack = nil
	h.redoStack = nil
	h.pending = nil
}
