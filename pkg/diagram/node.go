package diagram

import (
	"slices"

	"github.com/google/uuid"

	"github.com/ha1tch/fsm-draw/pkg/geom"
)

// DefaultNodeRadius is the radius of a node outline in diagram units.
const DefaultNodeRadius = 30.0

// Node is a state of the automaton. Its id is fixed at construction; label,
// accept flag and position are mutable.
type Node struct {
	id     string
	label  string
	accept bool
	pos    geom.Point
	radius float64

	// lastSnapped is where the node came to rest at the end of its last
	// drag as anchor.
	lastSnapped geom.Point

	selected bool
	shadow   bool
	glow     bool
	errored  bool

	view   *NodeView
	fitter Fitter

	observers []*moveObserver
}

type moveObserver struct {
	fn func(*Node)
}

// NewNode creates a node. An empty id generates a fresh one; a non-empty id
// is kept as is, which is how deserialized nodes preserve cross-references.
func NewNode(id, label string, pos geom.Point) *Node {
	if id == "" {
		id = uuid.NewString()
	}
	return &Node{
		id:          id,
		label:       label,
		pos:         pos,
		radius:      DefaultNodeRadius,
		lastSnapped: pos,
	}
}

// ID implements Object.
func (n *Node) ID() string { return n.id }

// Kind implements Object.
func (n *Node) Kind() Kind { return KindNode }

// Selected implements Object.
func (n *Node) Selected() bool { return n.selected }

func (n *Node) setSelected(v bool) {
	n.selected = v
	if n.view != nil {
		n.view.Selected = v
	}
}

// Label returns the node's label.
func (n *Node) Label() string { return n.label }

// SetLabel updates the label and refits the view's text.
func (n *Node) SetLabel(label string) {
	n.label = label
	if n.view != nil {
		n.view.Label = label
		n.fitLabel()
	}
}

// IsAccept reports whether the node is an accept state.
func (n *Node) IsAccept() bool { return n.accept }

// SetAccept toggles the accept flag and the view's accept ring.
func (n *Node) SetAccept(v bool) {
	n.accept = v
	if n.view != nil {
		n.view.AcceptRing = v
	}
}

// Position returns the node centre in diagram space.
func (n *Node) Position() geom.Point { return n.pos }

// SetPosition moves the node and notifies move observers.
func (n *Node) SetPosition(p geom.Point) {
	n.pos = p
	if n.view != nil {
		n.view.Center = p
		n.placeOverlays()
	}
	n.notifyMoved()
}

// Radius returns the radius of the node outline.
func (n *Node) Radius() float64 { return n.radius }

// Circle returns the node outline.
func (n *Node) Circle() geom.Circle {
	return geom.Circle{C: n.pos, R: n.radius}
}

// Shadowed reports whether the drag affordance is shown.
func (n *Node) Shadowed() bool { return n.shadow }

func (n *Node) setShadow(v bool) {
	n.shadow = v
	if n.view != nil {
		n.view.Shadow = v
	}
}

// Glowing reports whether the node is highlighted as a transition target.
func (n *Node) Glowing() bool { return n.glow }

func (n *Node) setGlow(v bool) {
	n.glow = v
	if n.view != nil {
		n.view.Glow = v
	}
}

// HasError reports whether the error overlay is on.
func (n *Node) HasError() bool { return n.errored }

// SetErrorState switches the error marker on or off. Repeated calls never
// stack overlays.
func (n *Node) SetErrorState(v bool) {
	n.errored = v
	if n.view != nil {
		n.applyErrorState()
	}
}

// OnMove registers fn to be called after every position change. The
// returned function unregisters it.
func (n *Node) OnMove(fn func(*Node)) (cancel func()) {
	o := &moveObserver{fn: fn}
	n.observers = append(n.observers, o)
	return func() {
		n.observers = slices.DeleteFunc(n.observers, func(x *moveObserver) bool {
			return x == o
		})
	}
}

func (n *Node) notifyMoved() {
	for _, o := range slices.Clone(n.observers) {
		o.fn(n)
	}
}

// SerializableNode is the persisted form of a Node.
type SerializableNode struct {
	ID    string  `json:"id" yaml:"id"`
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Label string  `json:"label" yaml:"label"`
}

// Serializable projects the node to its persisted form.
func (n *Node) Serializable() SerializableNode {
	return SerializableNode{
		ID:    n.id,
		X:     n.pos.X,
		Y:     n.pos.Y,
		Label: n.label,
	}
}

// NodeFromSerializable rebuilds a node, keeping its id.
func NodeFromSerializable(s SerializableNode) *Node {
	return NewNode(s.ID, s.Label, geom.Pt(s.X, s.Y))
}
