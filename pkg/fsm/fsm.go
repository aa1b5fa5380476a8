// Package fsm provides the finite automaton model a diagram projects to.
package fsm

import (
	"fmt"
	"slices"
	"strings"
)

// Type represents the kind of automaton.
type Type string

const (
	TypeDFA Type = "dfa"
	TypeNFA Type = "nfa"
)

// Transition represents a state transition.
type Transition struct {
	From  string   `json:"from"`
	Input *string  `json:"input"` // nil for epsilon
	To    []string `json:"to"`    // single element for DFA, multiple for NFA
}

// FSM represents a finite automaton.
type FSM struct {
	Type        Type         `json:"type"`
	Name        string       `json:"name,omitempty"`
	States      []string     `json:"states"`
	Alphabet    []string     `json:"alphabet"`
	Initial     string       `json:"initial"`
	Accepting   []string     `json:"accepting"`
	Transitions []Transition `json:"transitions"`
}

// New creates a new FSM with the given type.
func New(t Type) *FSM {
	return &FSM{
		Type:        t,
		States:      make([]string, 0),
		Alphabet:    make([]string, 0),
		Accepting:   make([]string, 0),
		Transitions: make([]Transition, 0),
	}
}

// AddState adds a state to the FSM.
func (f *FSM) AddState(name string) {
	if !slices.Contains(f.States, name) {
		f.States = append(f.States, name)
	}
}

// AddInput adds an input symbol to the alphabet.
func (f *FSM) AddInput(symbol string) {
	if !slices.Contains(f.Alphabet, symbol) {
		f.Alphabet = append(f.Alphabet, symbol)
	}
}

// AddTransition adds a transition to the FSM.
func (f *FSM) AddTransition(from string, input *string, to []string) {
	f.Transitions = append(f.Transitions, Transition{
		From:  from,
		Input: input,
		To:    to,
	})
}

// SetInitial sets the initial state.
func (f *FSM) SetInitial(state string) {
	f.Initial = state
}

// SetAccepting marks a state as accepting.
func (f *FSM) SetAccepting(state string) {
	if !slices.Contains(f.Accepting, state) {
		f.Accepting = append(f.Accepting, state)
	}
}

// Validate checks if the FSM is well-formed.
func (f *FSM) Validate() error {
	if len(f.States) == 0 {
		return fmt.Errorf("FSM has no states")
	}
	if f.Initial == "" {
		return fmt.Errorf("FSM has no initial state")
	}
	if !slices.Contains(f.States, f.Initial) {
		return fmt.Errorf("initial state %q not in states", f.Initial)
	}

	for _, acc := range f.Accepting {
		if !slices.Contains(f.States, acc) {
			return fmt.Errorf("accepting state %q not in states", acc)
		}
	}

	for i, t := range f.Transitions {
		if !slices.Contains(f.States, t.From) {
			return fmt.Errorf("transition %d: from state %q not in states", i, t.From)
		}
		for _, to := range t.To {
			if !slices.Contains(f.States, to) {
				return fmt.Errorf("transition %d: to state %q not in states", i, to)
			}
		}
		if t.Input != nil && !slices.Contains(f.Alphabet, *t.Input) {
			return fmt.Errorf("transition %d: input %q not in alphabet", i, *t.Input)
		}
	}

	return nil
}

// IsAccepting returns true if the state is an accepting state.
func (f *FSM) IsAccepting(state string) bool {
	return slices.Contains(f.Accepting, state)
}

// GetTransitions returns all transitions from a state on a given input.
// A nil input selects epsilon transitions.
func (f *FSM) GetTransitions(from string, input *string) []Transition {
	var result []Transition
	for _, t := range f.Transitions {
		if t.From != from {
			continue
		}
		if (t.Input == nil && input == nil) ||
			(t.Input != nil && input != nil && *t.Input == *input) {
			result = append(result, t)
		}
	}
	return result
}

// String returns a string representation of the FSM.
func (f *FSM) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("FSM[%s]: %s\n", f.Type, f.Name))
	sb.WriteString(fmt.Sprintf("  States: %v\n", f.States))
	sb.WriteString(fmt.Sprintf("  Alphabet: %v\n", f.Alphabet))
	sb.WriteString(fmt.Sprintf("  Initial: %s\n", f.Initial))
	sb.WriteString(fmt.Sprintf("  Accepting: %v\n", f.Accepting))
	sb.WriteString(fmt.Sprintf("  Transitions: %d\n", len(f.Transitions)))
	return sb.String()
}
