package diagram

import (
	"github.com/ha1tch/fsm-draw/pkg/geom"
	"github.com/ha1tch/fsm-draw/pkg/textfit"
)

// Fitter sizes a label for a node of the given diameter.
type Fitter interface {
	Fit(text string, diameter float64) textfit.Result
}

// Paint selects the fill and stroke scheme of a shape. Hosts map paints to
// concrete colours.
type Paint int

const (
	PaintDefault Paint = iota
	PaintError
)

// OverlayKind identifies an element of the error marker.
type OverlayKind int

const (
	OverlayErrorIcon OverlayKind = iota
	OverlayErrorGlyph
)

// Overlay is an element drawn on top of a node.
type Overlay struct {
	Kind OverlayKind
	At   geom.Point
	Text string
}

// NodeView is the visual group of a node: background circle, accept ring,
// label text and optional error marker.
type NodeView struct {
	Center     geom.Point
	Radius     float64
	Fill       Paint
	Stroke     Paint
	AcceptRing bool

	Label    string
	FontSize float64
	Lines    []string

	Selected bool
	Shadow   bool
	Glow     bool

	Overlays []Overlay
}

// AttachView builds the node's view group, or returns the existing one.
// The view reflects the node's current label, accept flag, position,
// selection and error state.
func (n *Node) AttachView(f Fitter) *NodeView {
	if n.view != nil {
		return n.view
	}
	n.fitter = f
	n.view = &NodeView{
		Center:     n.pos,
		Radius:     n.radius,
		AcceptRing: n.accept,
		Label:      n.label,
		Selected:   n.selected,
		Shadow:     n.shadow,
		Glow:       n.glow,
	}
	n.fitLabel()
	n.applyErrorState()
	return n.view
}

// DetachView drops the view group. The node's identity and data are kept.
func (n *Node) DetachView() {
	n.view = nil
}

// View returns the node's view group, nil while headless.
func (n *Node) View() *NodeView {
	return n.view
}

func (n *Node) fitLabel() {
	if n.fitter == nil {
		n.view.FontSize = textfit.MaxSize
		n.view.Lines = []string{n.label}
		return
	}
	r := n.fitter.Fit(n.label, 2*n.radius)
	n.view.FontSize = r.Size
	n.view.Lines = r.Lines
}

func (n *Node) applyErrorState() {
	v := n.view
	v.Overlays = v.Overlays[:0]
	if !n.errored {
		v.Fill = PaintDefault
		v.Stroke = PaintDefault
		return
	}
	v.Fill = PaintError
	v.Stroke = PaintError
	v.Overlays = append(v.Overlays,
		Overlay{Kind: OverlayErrorIcon},
		Overlay{Kind: OverlayErrorGlyph, Text: "!"},
	)
	n.placeOverlays()
}

// placeOverlays pins the error marker to the node's upper right.
func (n *Node) placeOverlays() {
	at := n.pos.Add(geom.Pt(n.radius*0.7, -n.radius*0.7))
	for i := range n.view.Overlays {
		n.view.Overlays[i].At = at
	}
}

// TransitionView is the visual of a transition: its path and label.
type TransitionView struct {
	// Path holds two points for a straight edge, or seven Bézier control
	// points for a self-loop.
	Path     []geom.Point
	Loop     bool
	Label    string
	LabelAt  geom.Point
	Selected bool
}

// StartArrow is the marker pointing at the start node.
type StartArrow struct {
	Visible  bool
	From, To geom.Point
}
