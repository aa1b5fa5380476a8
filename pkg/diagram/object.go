package diagram

// Kind identifies the concrete type behind an Object.
type Kind int

const (
	KindNode Kind = iota
	KindTransition
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindTransition:
		return "transition"
	}
	return "unknown"
}

// Object is a diagram entity that takes part in the selection. The set of
// implementations is closed: *Node and *Transition.
type Object interface {
	ID() string
	Kind() Kind
	Selected() bool

	setSelected(bool)
}

var (
	_ Object = (*Node)(nil)
	_ Object = (*Transition)(nil)
)
