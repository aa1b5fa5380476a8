package diagram

import (
	"fmt"
	"slices"

	"github.com/ha1tch/fsm-draw/pkg/fsm"
)

// Document is the serializable form of a whole diagram.
type Document struct {
	Type        fsm.Type                 `json:"type,omitempty" yaml:"type,omitempty"`
	Name        string                   `json:"name,omitempty" yaml:"name,omitempty"`
	Nodes       []SerializableNode       `json:"nodes" yaml:"nodes"`
	Tokens      []SerializableToken      `json:"tokens" yaml:"tokens"`
	Transitions []SerializableTransition `json:"transitions" yaml:"transitions"`
	Start       string                   `json:"start,omitempty" yaml:"start,omitempty"`
	Accepting   []string                 `json:"accepting,omitempty" yaml:"accepting,omitempty"`
}

// Document projects the editor's diagram. The result shares no memory with
// the editor.
func (e *Editor) Document() Document {
	d := Document{
		Type:        e.kind,
		Name:        e.name,
		Nodes:       make([]SerializableNode, 0, len(e.nodes)),
		Tokens:      make([]SerializableToken, 0, len(e.tokens)),
		Transitions: make([]SerializableTransition, 0, len(e.transitions)),
	}
	for _, n := range e.nodes {
		d.Nodes = append(d.Nodes, n.Serializable())
		if n.accept {
			d.Accepting = append(d.Accepting, n.id)
		}
	}
	for _, t := range e.tokens {
		d.Tokens = append(d.Tokens, t.Serializable())
	}
	for _, t := range e.transitions {
		d.Transitions = append(d.Transitions, t.Serializable())
	}
	if e.start != nil {
		d.Start = e.start.id
	}
	return d
}

// LoadDocument replaces the diagram with d, keeping every id. The editor is
// left untouched if d is inconsistent. Undo history is reset.
func (e *Editor) LoadDocument(d Document) error {
	if err := e.restore(d); err != nil {
		return err
	}
	e.history.Reset()
	e.log.Debug("document loaded", "nodes", len(d.Nodes), "transitions", len(d.Transitions))
	return nil
}

// graph is a diagram under construction.
type graph struct {
	nodes       []*Node
	nodeByID    map[string]*Node
	tokens      []*Token
	tokenByID   map[string]*Token
	transitions []*Transition
	start       *Node
}

func (e *Editor) buildGraph(d Document) (*graph, error) {
	g := &graph{
		nodeByID:  make(map[string]*Node),
		tokenByID: make(map[string]*Token),
	}
	for _, sn := range d.Nodes {
		if _, dup := g.nodeByID[sn.ID]; dup {
			return nil, fmt.Errorf("node %q: %w", sn.ID, ErrDuplicateID)
		}
		n := NodeFromSerializable(sn)
		n.radius = e.radius
		g.nodes = append(g.nodes, n)
		g.nodeByID[n.id] = n
	}
	for _, st := range d.Tokens {
		if _, dup := g.tokenByID[st.ID]; dup {
			return nil, fmt.Errorf("token %q: %w", st.ID, ErrDuplicateID)
		}
		t := TokenFromSerializable(st)
		g.tokens = append(g.tokens, t)
		g.tokenByID[t.id] = t
	}
	for _, id := range d.Accepting {
		n, ok := g.nodeByID[id]
		if !ok {
			return nil, fmt.Errorf("accepting %q: %w", id, ErrUnknownNode)
		}
		n.accept = true
	}
	if d.Start != "" {
		n, ok := g.nodeByID[d.Start]
		if !ok {
			return nil, fmt.Errorf("start %q: %w", d.Start, ErrUnknownNode)
		}
		g.start = n
	}

	seen := make(map[string]bool)
	pairs := make(map[[2]*Node]bool)
	fail := func(err error) (*graph, error) {
		for _, t := range g.transitions {
			t.detach()
		}
		return nil, err
	}
	for _, st := range d.Transitions {
		if seen[st.ID] && st.ID != "" {
			return fail(fmt.Errorf("transition %q: %w", st.ID, ErrDuplicateID))
		}
		seen[st.ID] = true
		from, ok := g.nodeByID[st.From]
		if !ok {
			return fail(fmt.Errorf("transition %q from %q: %w", st.ID, st.From, ErrUnknownNode))
		}
		to, ok := g.nodeByID[st.To]
		if !ok {
			return fail(fmt.Errorf("transition %q to %q: %w", st.ID, st.To, ErrUnknownNode))
		}
		for _, tok := range st.Tokens {
			if _, ok := g.tokenByID[tok]; !ok {
				return fail(fmt.Errorf("transition %q token %q: %w", st.ID, tok, ErrUnknownToken))
			}
		}
		// Several entries for one pair collapse into a single edge.
		if pairs[[2]*Node{from, to}] {
			for _, t := range g.transitions {
				if t.from == from && t.to == to {
					for _, tok := range st.Tokens {
						t.addToken(tok)
					}
				}
			}
			continue
		}
		pairs[[2]*Node{from, to}] = true
		t := newTransition(st.ID, from, to, e.tokenSymbol)
		for _, tok := range st.Tokens {
			t.addToken(tok)
		}
		g.transitions = append(g.transitions, t)
	}
	return g, nil
}

// restore swaps in the diagram described by d. Interaction state that
// refers to the old objects is dropped.
func (e *Editor) restore(d Document) error {
	g, err := e.buildGraph(d)
	if err != nil {
		return err
	}

	e.selection.DeselectAll()
	e.cancelTentative()
	e.drag = nil
	e.gestureTool = nil
	for _, t := range e.transitions {
		t.detach()
	}

	e.kind = d.Type
	if e.kind == "" {
		e.kind = fsm.TypeDFA
	}
	e.name = d.Name
	e.nodes = g.nodes
	e.nodeByID = g.nodeByID
	e.tokens = g.tokens
	e.tokenByID = g.tokenByID
	e.transitions = g.transitions
	e.start = g.start
	for _, t := range e.transitions {
		e.updateBends(t.from, t.to)
	}

	if e.viewsAttached {
		e.AttachViews()
	}
	e.updateStartNodePosition()
	return nil
}

// ToFSM projects the document to an automaton. States are named by node id,
// or by label when byLabel is set, in which case labels must be unique.
// Transitions without symbols become epsilon moves.
func (d Document) ToFSM(byLabel bool) (*fsm.FSM, error) {
	kind := d.Type
	if kind == "" {
		kind = fsm.TypeDFA
	}
	f := fsm.New(kind)
	f.Name = d.Name

	names := make(map[string]string, len(d.Nodes))
	used := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		name := n.ID
		if byLabel {
			name = n.Label
			if used[name] {
				return nil, fmt.Errorf("%q: %w", name, ErrDuplicateLabel)
			}
		}
		used[name] = true
		names[n.ID] = name
		f.AddState(name)
	}

	symbols := make(map[string]string, len(d.Tokens))
	for _, t := range d.Tokens {
		symbols[t.ID] = t.Symbol
	}

	for _, t := range d.Transitions {
		from, to := names[t.From], names[t.To]
		if len(t.Tokens) == 0 {
			f.AddTransition(from, nil, []string{to})
			continue
		}
		for _, id := range t.Tokens {
			sym := symbols[id]
			f.AddInput(sym)
			f.AddTransition(from, &sym, []string{to})
		}
	}

	if d.Start != "" {
		f.SetInitial(names[d.Start])
	}
	for _, id := range d.Accepting {
		f.SetAccepting(names[id])
	}
	slices.Sort(f.Alphabet)
	return f, nil
}
