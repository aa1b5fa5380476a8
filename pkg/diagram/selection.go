package diagram

import "slices"

// Selection is the set of selected objects. Membership and each object's
// selected visual are always changed together.
type Selection struct {
	order []Object
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{}
}

// Select adds obj and marks it selected. Selecting a member is a no-op.
func (s *Selection) Select(obj Object) {
	if s.Contains(obj) {
		return
	}
	s.order = append(s.order, obj)
	obj.setSelected(true)
}

// DeselectAll empties the selection and unmarks every former member.
func (s *Selection) DeselectAll() {
	for _, obj := range s.order {
		obj.setSelected(false)
	}
	s.order = nil
}

// Remove drops obj from the selection if it is a member.
func (s *Selection) Remove(obj Object) {
	i := slices.Index(s.order, obj)
	if i < 0 {
		return
	}
	s.order = slices.Delete(s.order, i, i+1)
	obj.setSelected(false)
}

// Contains reports whether obj is selected.
func (s *Selection) Contains(obj Object) bool {
	return slices.Contains(s.order, obj)
}

// Len returns the number of selected objects.
func (s *Selection) Len() int {
	return len(s.order)
}

// Objects returns the selected objects in selection order.
func (s *Selection) Objects() []Object {
	return slices.Clone(s.order)
}

// Nodes returns the selected nodes in selection order.
func (s *Selection) Nodes() []*Node {
	var nodes []*Node
	for _, obj := range s.order {
		switch o := obj.(type) {
		case *Node:
			nodes = append(nodes, o)
		case *Transition:
		}
	}
	return nodes
}

// Transitions returns the selected transitions in selection order.
func (s *Selection) Transitions() []*Transition {
	var ts []*Transition
	for _, obj := range s.order {
		switch o := obj.(type) {
		case *Node:
		case *Transition:
			ts = append(ts, o)
		}
	}
	return ts
}
