package fsmfile

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/ha1tch/fsm-draw/pkg/diagram"
	"github.com/ha1tch/fsm-draw/pkg/fsm"
)

// jsonFSM is the JSON representation of an FSM.
type jsonFSM struct {
	Type        string           `json:"type"`
	Name        string           `json:"name,omitempty"`
	States      []string         `json:"states"`
	Alphabet    []string         `json:"alphabet"`
	Initial     string           `json:"initial"`
	Accepting   []string         `json:"accepting"`
	Transitions []jsonTransition `json:"transitions"`
}

type jsonTransition struct {
	From  string  `json:"from"`
	Input *string `json:"input"`
	To    any     `json:"to"` // string or []string
}

// ParseJSON parses an FSM from JSON.
func ParseJSON(data []byte) (*fsm.FSM, error) {
	var j jsonFSM
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}

	f := fsm.New(fsm.Type(j.Type))
	f.Name = j.Name
	for _, s := range j.States {
		f.AddState(s)
	}
	for _, in := range j.Alphabet {
		f.AddInput(in)
	}
	f.SetInitial(j.Initial)
	for _, s := range j.Accepting {
		f.SetAccepting(s)
	}

	for _, jt := range j.Transitions {
		var to []string
		switch v := jt.To.(type) {
		case string:
			to = []string{v}
		case []any:
			for _, s := range v {
				str, ok := s.(string)
				if !ok {
					return nil, fmt.Errorf("transition from %q: target %v is not a string", jt.From, s)
				}
				to = append(to, str)
			}
		default:
			return nil, fmt.Errorf("transition from %q: missing target", jt.From)
		}
		f.AddTransition(jt.From, jt.Input, to)
	}

	return f, nil
}

// ToJSON converts an FSM to JSON.
func ToJSON(f *fsm.FSM, pretty bool) ([]byte, error) {
	j := jsonFSM{
		Type:        string(f.Type),
		Name:        f.Name,
		States:      f.States,
		Alphabet:    f.Alphabet,
		Initial:     f.Initial,
		Accepting:   f.Accepting,
		Transitions: make([]jsonTransition, 0, len(f.Transitions)),
	}

	for _, t := range f.Transitions {
		jt := jsonTransition{From: t.From, Input: t.Input}
		if len(t.To) == 1 {
			jt.To = t.To[0]
		} else {
			jt.To = t.To
		}
		j.Transitions = append(j.Transitions, jt)
	}

	if pretty {
		return json.MarshalIndent(j, "", "  ")
	}
	return json.Marshal(j)
}

// ExportFSM projects a diagram to an automaton whose states are named by
// node label. Labels must be unique.
func ExportFSM(d diagram.Document) (*fsm.FSM, error) {
	return d.ToFSM(true)
}

// ImportFSM builds a diagram from an automaton. States become nodes labelled
// with the state name and placed by algorithm; every input symbol becomes a
// token; all inputs between the same pair of states share one transition.
func ImportFSM(f *fsm.FSM, algorithm LayoutAlgorithm, spacing float64) (diagram.Document, error) {
	if err := f.Validate(); err != nil {
		return diagram.Document{}, err
	}
	positions := AutoLayout(f, algorithm, spacing)

	d := diagram.Document{
		Type:        f.Type,
		Name:        f.Name,
		Nodes:       make([]diagram.SerializableNode, 0, len(f.States)),
		Tokens:      make([]diagram.SerializableToken, 0, len(f.Alphabet)),
		Transitions: []diagram.SerializableTransition{},
	}

	nodeID := make(map[string]string, len(f.States))
	for _, s := range f.States {
		id := uuid.NewString()
		nodeID[s] = id
		p := positions[s]
		d.Nodes = append(d.Nodes, diagram.SerializableNode{ID: id, X: p.X, Y: p.Y, Label: s})
	}
	tokenID := make(map[string]string, len(f.Alphabet))
	for _, in := range f.Alphabet {
		id := uuid.NewString()
		tokenID[in] = id
		d.Tokens = append(d.Tokens, diagram.SerializableToken{ID: id, Symbol: in})
	}

	edge := make(map[[2]string]int)
	for _, t := range f.Transitions {
		for _, to := range t.To {
			key := [2]string{t.From, to}
			i, ok := edge[key]
			if !ok {
				i = len(d.Transitions)
				edge[key] = i
				d.Transitions = append(d.Transitions, diagram.SerializableTransition{
					ID:     uuid.NewString(),
					From:   nodeID[t.From],
					To:     nodeID[to],
					Tokens: []string{},
				})
			}
			if t.Input != nil && !slices.Contains(d.Transitions[i].Tokens, tokenID[*t.Input]) {
				d.Transitions[i].Tokens = append(d.Transitions[i].Tokens, tokenID[*t.Input])
			}
		}
	}

	if f.Initial != "" {
		d.Start = nodeID[f.Initial]
	}
	for _, s := range f.Accepting {
		d.Accepting = append(d.Accepting, nodeID[s])
	}
	return d, nil
}
