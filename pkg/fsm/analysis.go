package fsm

import "slices"

// Warning types reported by Analyse.
const (
	WarnUnreachable      = "unreachable"
	WarnDead             = "dead"
	WarnNondeterministic = "nondeterministic"
	WarnIncomplete       = "incomplete"
	WarnUnusedInput      = "unused_input"
	WarnNoAccepting      = "no_accepting"
)

// Warning describes a structural issue that does not make the FSM invalid.
type Warning struct {
	Type    string
	Message string
	States  []string
	Inputs  []string
}

// UnreachableStates returns states that cannot be reached from the initial
// state, in declaration order. Without an initial state nothing is reported.
func (f *FSM) UnreachableStates() []string {
	if f.Initial == "" {
		return nil
	}
	reached := map[string]bool{f.Initial: true}
	queue := []string{f.Initial}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, t := range f.Transitions {
			if t.From != cur {
				continue
			}
			for _, to := range t.To {
				if !reached[to] {
					reached[to] = true
					queue = append(queue, to)
				}
			}
		}
	}

	var result []string
	for _, s := range f.States {
		if !reached[s] {
			result = append(result, s)
		}
	}
	return result
}

// DeadStates returns non-accepting states that can never be left: they have
// no outgoing transitions other than self-loops.
func (f *FSM) DeadStates() []string {
	var result []string
	for _, s := range f.States {
		if f.IsAccepting(s) {
			continue
		}
		escapes := false
		for _, t := range f.Transitions {
			if t.From != s {
				continue
			}
			for _, to := range t.To {
				if to != s {
					escapes = true
				}
			}
		}
		if !escapes {
			result = append(result, s)
		}
	}
	return result
}

// NonDeterministicStates returns states with more than one target for some
// input, or with epsilon transitions.
func (f *FSM) NonDeterministicStates() []string {
	var result []string
	for _, s := range f.States {
		targets := make(map[string]int)
		nondet := false
		for _, t := range f.Transitions {
			if t.From != s {
				continue
			}
			if t.Input == nil {
				nondet = true
				break
			}
			targets[*t.Input] += len(t.To)
			if targets[*t.Input] > 1 {
				nondet = true
				break
			}
		}
		if nondet {
			result = append(result, s)
		}
	}
	return result
}

// IncompleteStates returns states lacking a transition for at least one
// alphabet symbol.
func (f *FSM) IncompleteStates() []string {
	var result []string
	for _, s := range f.States {
		for _, in := range f.Alphabet {
			if len(f.GetTransitions(s, &in)) == 0 {
				result = append(result, s)
				break
			}
		}
	}
	return result
}

// UnusedInputs returns alphabet symbols no transition consumes.
func (f *FSM) UnusedInputs() []string {
	used := make(map[string]bool)
	for _, t := range f.Transitions {
		if t.Input != nil {
			used[*t.Input] = true
		}
	}
	var result []string
	for _, in := range f.Alphabet {
		if !used[in] {
			result = append(result, in)
		}
	}
	return result
}

// Analyse runs every check and returns the resulting warnings. Determinism
// and completeness are only checked for DFAs.
func (f *FSM) Analyse() []Warning {
	var warnings []Warning

	if s := f.UnreachableStates(); len(s) > 0 {
		warnings = append(warnings, Warning{Type: WarnUnreachable, Message: "states unreachable from the initial state", States: s})
	}
	if s := f.DeadStates(); len(s) > 0 {
		warnings = append(warnings, Warning{Type: WarnDead, Message: "non-accepting states with no way out", States: s})
	}
	if f.Type == TypeDFA {
		if s := f.NonDeterministicStates(); len(s) > 0 {
			warnings = append(warnings, Warning{Type: WarnNondeterministic, Message: "states with ambiguous or epsilon transitions", States: s})
		}
		if s := f.IncompleteStates(); len(s) > 0 {
			warnings = append(warnings, Warning{Type: WarnIncomplete, Message: "states missing a transition for some input", States: s})
		}
	}
	if in := f.UnusedInputs(); len(in) > 0 {
		warnings = append(warnings, Warning{Type: WarnUnusedInput, Message: "inputs never used", Inputs: in})
	}
	if len(f.States) > 0 && len(f.Accepting) == 0 {
		warnings = append(warnings, Warning{Type: WarnNoAccepting, Message: "no accepting states"})
	}

	return warnings
}

// WarningsFor returns the warning types that mention state.
func WarningsFor(warnings []Warning, state string) []string {
	var types []string
	for _, w := range warnings {
		if slices.Contains(w.States, state) {
			types = append(types, w.Type)
		}
	}
	return types
}
