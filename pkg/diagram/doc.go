// Package diagram is the interaction and graph-consistency engine of the
// automaton editor.
//
// An Editor owns one diagram: its nodes (states), tokens (transition
// symbols) and transitions, together with the interaction state that pointer
// events act on: the current tool, the selection, the drag session and the
// tentative transition being dragged out. Hosts feed pointer events through
// Editor.HandlePointer; the engine mutates positions, selection and graph and
// keeps every attached view in step.
//
// Identities and views have separate lifecycles. Nodes, tokens and
// transitions exist headless until Editor.AttachViews (or Node.AttachView)
// builds their visual groups, so documents can be loaded and edited without
// any rendering surface.
//
// An Editor is not safe for concurrent use. All calls must come from the
// goroutine that runs the host's event loop.
package diagram
