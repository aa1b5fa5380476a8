package diagram

import (
	"slices"

	"github.com/ha1tch/fsm-draw/pkg/fsm"
)

// errorWarnings are the warning types that put a node in the error state.
var errorWarnings = []string{
	fsm.WarnUnreachable,
	fsm.WarnDead,
	fsm.WarnNondeterministic,
}

// ToFSM projects the diagram to an automaton; see Document.ToFSM.
func (e *Editor) ToFSM(byLabel bool) (*fsm.FSM, error) {
	return e.Document().ToFSM(byLabel)
}

// Analyse checks the automaton and marks every node named by an
// unreachable, dead or nondeterministic warning with the error state.
// All other nodes are cleared. Warning state names are node ids.
func (e *Editor) Analyse() []fsm.Warning {
	f, err := e.ToFSM(false)
	if err != nil {
		// Only labels can collide and ids are not labels.
		return nil
	}
	warnings := f.Analyse()

	bad := make(map[string]bool)
	for _, w := range warnings {
		if !slices.Contains(errorWarnings, w.Type) {
			continue
		}
		for _, s := range w.States {
			bad[s] = true
		}
	}
	for _, n := range e.nodes {
		n.SetErrorState(bad[n.id])
	}
	e.log.Debug("analysed", "warnings", len(warnings), "errored", len(bad))
	return warnings
}

// ClearErrors takes every node out of the error state.
func (e *Editor) ClearErrors() {
	for _, n := range e.nodes {
		n.SetErrorState(false)
	}
}
