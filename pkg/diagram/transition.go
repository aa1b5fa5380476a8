package diagram

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/ha1tch/fsm-draw/pkg/geom"
)

// Epsilon is the label shown for a transition without symbols.
const Epsilon = "ε"

// bidirectionalBend separates the two edges of a pair of opposite transitions.
const bidirectionalBend = 8.0

// Transition relates two nodes and carries a set of token ids. All symbols
// on the same ordered pair of nodes share one transition.
type Transition struct {
	id       string
	from, to *Node
	tokens   []string
	bend     float64
	path     []geom.Point
	selected bool

	view   *TransitionView
	symbol func(tokenID string) string
	cancel []func()
}

// newTransition creates a transition and subscribes it to the move
// notifications of both endpoints.
func newTransition(id string, from, to *Node, symbol func(string) string) *Transition {
	if id == "" {
		id = uuid.NewString()
	}
	t := &Transition{id: id, from: from, to: to, symbol: symbol}
	t.cancel = append(t.cancel, from.OnMove(t.endpointMoved))
	if to != from {
		t.cancel = append(t.cancel, to.OnMove(t.endpointMoved))
	}
	t.recomputePath()
	return t
}

// detach stops observing the endpoints.
func (t *Transition) detach() {
	for _, c := range t.cancel {
		c()
	}
	t.cancel = nil
}

// ID implements Object.
func (t *Transition) ID() string { return t.id }

// Kind implements Object.
func (t *Transition) Kind() Kind { return KindTransition }

// Selected implements Object.
func (t *Transition) Selected() bool { return t.selected }

func (t *Transition) setSelected(v bool) {
	t.selected = v
	if t.view != nil {
		t.view.Selected = v
	}
}

// From returns the source node.
func (t *Transition) From() *Node { return t.from }

// To returns the target node.
func (t *Transition) To() *Node { return t.to }

// IsLoop reports whether source and target are the same node.
func (t *Transition) IsLoop() bool { return t.from == t.to }

// TokenIDs returns the ids of the transition's tokens in insertion order.
func (t *Transition) TokenIDs() []string { return slices.Clone(t.tokens) }

// HasToken reports whether the token is on this transition.
func (t *Transition) HasToken(id string) bool { return slices.Contains(t.tokens, id) }

func (t *Transition) addToken(id string) bool {
	if t.HasToken(id) {
		return false
	}
	t.tokens = append(t.tokens, id)
	t.refreshLabel()
	return true
}

func (t *Transition) removeToken(id string) bool {
	i := slices.Index(t.tokens, id)
	if i < 0 {
		return false
	}
	t.tokens = slices.Delete(t.tokens, i, i+1)
	t.refreshLabel()
	return true
}

// Label returns the symbols of the transition joined by commas, or
// Epsilon when it has none.
func (t *Transition) Label() string {
	if len(t.tokens) == 0 {
		return Epsilon
	}
	parts := make([]string, 0, len(t.tokens))
	for _, id := range t.tokens {
		parts = append(parts, t.symbol(id))
	}
	return strings.Join(parts, ",")
}

// Path returns the current edge geometry: two points for a straight edge,
// seven Bézier control points for a self-loop.
func (t *Transition) Path() []geom.Point { return slices.Clone(t.path) }

// LabelAnchor returns where the label is placed.
func (t *Transition) LabelAnchor() geom.Point {
	if len(t.path) == 0 {
		return geom.Point{}
	}
	if t.IsLoop() {
		return t.path[3].Add(geom.Pt(0, -8))
	}
	mid := geom.Midpoint(t.path[0], t.path[1])
	d := t.path[1].Sub(t.path[0])
	l := d.Len()
	if l < geom.Epsilon {
		return mid
	}
	// Label sits on the left of the direction of travel.
	return mid.Add(geom.Pt(d.Y/l, -d.X/l).Scale(10))
}

func (t *Transition) endpointMoved(*Node) {
	t.recomputePath()
}

func (t *Transition) setBend(b float64) {
	if t.bend == b {
		return
	}
	t.bend = b
	t.recomputePath()
}

func (t *Transition) recomputePath() {
	if t.IsLoop() {
		t.path = geom.SelfLoop(t.from.Circle(), geom.LoopTop)
	} else {
		a, b := geom.Segment(t.from.Circle(), t.to.Circle(), t.bend)
		t.path = []geom.Point{a, b}
	}
	if t.view != nil {
		t.view.Path = slices.Clone(t.path)
		t.view.LabelAt = t.LabelAnchor()
	}
}

func (t *Transition) refreshLabel() {
	if t.view != nil {
		t.view.Label = t.Label()
	}
}

// AttachView builds the transition's view, or returns the existing one.
func (t *Transition) AttachView() *TransitionView {
	if t.view != nil {
		return t.view
	}
	t.view = &TransitionView{
		Path:     slices.Clone(t.path),
		Loop:     t.IsLoop(),
		Label:    t.Label(),
		LabelAt:  t.LabelAnchor(),
		Selected: t.selected,
	}
	return t.view
}

// DetachView drops the transition's view.
func (t *Transition) DetachView() {
	t.view = nil
}

// View returns the transition's view, nil while headless.
func (t *Transition) View() *TransitionView {
	return t.view
}

// SerializableTransition is the persisted form of a Transition.
type SerializableTransition struct {
	ID     string   `json:"id" yaml:"id"`
	From   string   `json:"from" yaml:"from"`
	To     string   `json:"to" yaml:"to"`
	Tokens []string `json:"tokens" yaml:"tokens"`
}

// Serializable projects the transition to its persisted form.
func (t *Transition) Serializable() SerializableTransition {
	tokens := slices.Clone(t.tokens)
	if tokens == nil {
		tokens = []string{}
	}
	return SerializableTransition{
		ID:     t.id,
		From:   t.from.id,
		To:     t.to.id,
		Tokens: tokens,
	}
}
