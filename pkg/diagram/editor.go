package diagram

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/ha1tch/fsm-draw/internal/logging"
	"github.com/ha1tch/fsm-draw/pkg/fsm"
	"github.com/ha1tch/fsm-draw/pkg/geom"
)

// DefaultGridSize is the grid cell size used for snapping.
const DefaultGridSize = 50.0

// Editor is the application state shared by every interactive component of
// one diagram: the graph, the current tool, the selection, the active drag
// session and the tentative transition.
type Editor struct {
	log *slog.Logger

	grid     float64
	snap     bool
	radius   float64
	fitter   Fitter
	lockTool bool
	undoMax  int

	kind        fsm.Type
	name        string
	nodes       []*Node
	nodeByID    map[string]*Node
	tokens      []*Token
	tokenByID   map[string]*Token
	transitions []*Transition
	start       *Node
	startArrow  StartArrow

	viewsAttached bool

	tool        Tool
	gestureTool *Tool
	selection   *Selection
	drag        *DragSession
	tentative   *TentativeTransition

	history *History
	oplog   OperationLog
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger for debug records.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// WithGridSize sets the snapping grid cell size.
func WithGridSize(size float64) Option {
	return func(e *Editor) { e.grid = size }
}

// WithSnap turns snapping to the grid on or off.
func WithSnap(on bool) Option {
	return func(e *Editor) { e.snap = on }
}

// WithNodeRadius sets the radius of new nodes.
func WithNodeRadius(r float64) Option {
	return func(e *Editor) { e.radius = r }
}

// WithFitter sets the label fitter used by node views.
func WithFitter(f Fitter) Option {
	return func(e *Editor) { e.fitter = f }
}

// WithOperationLog routes drag boundaries to l instead of the built-in
// History. Structural edits are still recorded by History.
func WithOperationLog(l OperationLog) Option {
	return func(e *Editor) { e.oplog = l }
}

// WithUndoLevels caps the undo history.
func WithUndoLevels(n int) Option {
	return func(e *Editor) { e.undoMax = n }
}

// WithToolLock makes a drag gesture keep the tool that was active when it
// started. By default every event reads the tool current at the time it
// fires, so switching tools mid-gesture changes how the rest of the gesture
// is handled.
func WithToolLock(on bool) Option {
	return func(e *Editor) { e.lockTool = on }
}

// WithTool sets the initial tool.
func WithTool(t Tool) Option {
	return func(e *Editor) { e.tool = t }
}

// New returns an editor with an empty diagram.
func New(opts ...Option) *Editor {
	e := &Editor{
		log:       logging.NewNop(),
		grid:      DefaultGridSize,
		snap:      true,
		radius:    DefaultNodeRadius,
		undoMax:   DefaultUndoLevels,
		kind:      fsm.TypeDFA,
		nodeByID:  make(map[string]*Node),
		tokenByID: make(map[string]*Token),
		selection: NewSelection(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.history = NewHistory(e.undoMax, e.Document, e.log)
	if e.oplog == nil {
		e.oplog = e.history
	}
	return e
}

// Tool returns the current tool.
func (e *Editor) Tool() Tool { return e.tool }

// SetTool switches the current tool.
func (e *Editor) SetTool(t Tool) {
	if t == e.tool {
		return
	}
	e.log.Debug("tool changed", "from", e.tool, "to", t)
	e.tool = t
}

// Snap reports whether snapping to the grid is on.
func (e *Editor) Snap() bool { return e.snap }

// SetSnap turns snapping to the grid on or off.
func (e *Editor) SetSnap(on bool) { e.snap = on }

// GridSize returns the grid cell size.
func (e *Editor) GridSize() float64 { return e.grid }

// SetGridSize changes the grid cell size.
func (e *Editor) SetGridSize(size float64) { e.grid = size }

// SetToolLock changes whether gestures lock their tool; see WithToolLock.
func (e *Editor) SetToolLock(on bool) { e.lockTool = on }

// Kind returns the automaton type the diagram is meant to be.
func (e *Editor) Kind() fsm.Type { return e.kind }

// SetKind changes the automaton type.
func (e *Editor) SetKind(k fsm.Type) {
	if k == e.kind {
		return
	}
	e.history.Save()
	e.kind = k
}

// Name returns the diagram name.
func (e *Editor) Name() string { return e.name }

// SetName changes the diagram name.
func (e *Editor) SetName(name string) { e.name = name }

// Selection returns the shared selection.
func (e *Editor) Selection() *Selection { return e.selection }

// History returns the undo history.
func (e *Editor) History() *History { return e.history }

// Nodes returns the nodes in creation order.
func (e *Editor) Nodes() []*Node { return slices.Clone(e.nodes) }

// Node looks up a node by id.
func (e *Editor) Node(id string) (*Node, bool) {
	n, ok := e.nodeByID[id]
	return n, ok
}

// Tokens returns the tokens in creation order.
func (e *Editor) Tokens() []*Token { return slices.Clone(e.tokens) }

// Token looks up a token by id.
func (e *Editor) Token(id string) (*Token, bool) {
	t, ok := e.tokenByID[id]
	return t, ok
}

// TokenBySymbol looks up a token by its symbol.
func (e *Editor) TokenBySymbol(symbol string) (*Token, bool) {
	for _, t := range e.tokens {
		if t.symbol == symbol {
			return t, true
		}
	}
	return nil, false
}

func (e *Editor) tokenSymbol(id string) string {
	if t, ok := e.tokenByID[id]; ok {
		return t.symbol
	}
	return "?"
}

// Transitions returns the transitions in creation order.
func (e *Editor) Transitions() []*Transition { return slices.Clone(e.transitions) }

// TransitionBetween returns the transition from one node to another.
func (e *Editor) TransitionBetween(from, to *Node) (*Transition, bool) {
	for _, t := range e.transitions {
		if t.from == from && t.to == to {
			return t, true
		}
	}
	return nil, false
}

// StartNode returns the start node, nil if none.
func (e *Editor) StartNode() *Node { return e.start }

// StartArrow returns the start marker geometry.
func (e *Editor) StartArrow() StartArrow { return e.startArrow }

// AttachViews builds views for every object, and for every object created
// afterwards.
func (e *Editor) AttachViews() {
	e.viewsAttached = true
	for _, n := range e.nodes {
		n.AttachView(e.fitter)
	}
	for _, t := range e.transitions {
		t.AttachView()
	}
}

// SetFitter replaces the label fitter and refits every attached node view.
func (e *Editor) SetFitter(f Fitter) {
	e.fitter = f
	for _, n := range e.nodes {
		n.fitter = f
		if n.view != nil {
			n.fitLabel()
		}
	}
}

// DetachViews drops every view. Identities and data are kept.
func (e *Editor) DetachViews() {
	e.viewsAttached = false
	for _, n := range e.nodes {
		n.DetachView()
	}
	for _, t := range e.transitions {
		t.DetachView()
	}
}

// AddNode creates a node at pos. An empty label is replaced by the next
// free "S<n>" name. The first node of a diagram becomes its start node.
func (e *Editor) AddNode(label string, pos geom.Point) *Node {
	e.history.Save()
	if label == "" {
		label = e.nextLabel()
	}
	n := NewNode("", label, pos)
	e.insertNode(n)
	if e.start == nil {
		e.start = n
		e.updateStartNodePosition()
	}
	e.log.Debug("node added", "id", n.id, "label", label)
	return n
}

func (e *Editor) nextLabel() string {
	used := make(map[string]bool, len(e.nodes))
	for _, n := range e.nodes {
		used[n.label] = true
	}
	for i := len(e.nodes); ; i++ {
		name := fmt.Sprintf("S%d", i)
		if !used[name] {
			return name
		}
	}
}

func (e *Editor) insertNode(n *Node) {
	n.radius = e.radius
	e.nodes = append(e.nodes, n)
	e.nodeByID[n.id] = n
	if e.viewsAttached {
		n.AttachView(e.fitter)
	}
}

// DeleteNode removes a node and every transition touching it.
func (e *Editor) DeleteNode(n *Node) error {
	if e.nodeByID[n.id] != n {
		return fmt.Errorf("delete %q: %w", n.id, ErrUnknownNode)
	}
	e.history.Save()
	e.removeNode(n)
	e.updateStartNodePosition()
	return nil
}

func (e *Editor) removeNode(n *Node) {
	for _, t := range slices.Clone(e.transitions) {
		if t.from == n || t.to == n {
			e.removeTransition(t)
		}
	}
	e.selection.Remove(n)
	if tt := e.tentative; tt != nil {
		if tt.source == n {
			e.cancelTentative()
		} else if tt.target == n {
			n.setGlow(false)
			tt.target = nil
		}
	}
	e.dropFromDrag(n)
	if e.start == n {
		e.start = nil
	}
	e.nodes = slices.DeleteFunc(e.nodes, func(x *Node) bool { return x == n })
	delete(e.nodeByID, n.id)
	n.DetachView()
	e.log.Debug("node deleted", "id", n.id)
}

// DeleteSelection removes every selected object as one undoable step.
func (e *Editor) DeleteSelection() {
	if e.selection.Len() == 0 {
		return
	}
	e.history.Save()
	for _, t := range e.selection.Transitions() {
		if slices.Contains(e.transitions, t) {
			e.removeTransition(t)
		}
	}
	for _, n := range e.selection.Nodes() {
		e.removeNode(n)
	}
	e.updateStartNodePosition()
}

// RenameNode changes a node's label.
func (e *Editor) RenameNode(n *Node, label string) {
	if n.label == label {
		return
	}
	e.history.Save()
	n.SetLabel(label)
}

// ToggleAccept flips a node's accept flag.
func (e *Editor) ToggleAccept(n *Node) {
	e.history.Save()
	n.SetAccept(!n.accept)
}

// SetStartNode makes n the start node.
func (e *Editor) SetStartNode(n *Node) {
	if e.start == n {
		return
	}
	e.history.Save()
	e.start = n
	e.updateStartNodePosition()
}

// updateStartNodePosition re-anchors the start marker to the start node.
func (e *Editor) updateStartNodePosition() {
	if e.start == nil {
		e.startArrow = StartArrow{}
		return
	}
	c := e.start.Circle()
	from := c.C.Sub(geom.Pt(2*c.R, 0))
	e.startArrow = StartArrow{
		Visible: true,
		From:    from,
		To:      c.Boundary(from),
	}
}

// AddTransition connects from to to. If the pair is already connected the
// existing transition is returned and created is false.
func (e *Editor) AddTransition(from, to *Node) (t *Transition, created bool) {
	if t, ok := e.TransitionBetween(from, to); ok {
		return t, false
	}
	e.history.Save()
	t = newTransition("", from, to, e.tokenSymbol)
	e.transitions = append(e.transitions, t)
	if e.viewsAttached {
		t.AttachView()
	}
	e.updateBends(from, to)
	e.log.Debug("transition added", "from", from.label, "to", to.label)
	return t, true
}

// DeleteTransition removes a transition.
func (e *Editor) DeleteTransition(t *Transition) error {
	if !slices.Contains(e.transitions, t) {
		return fmt.Errorf("delete %q: %w", t.id, ErrUnknownTransition)
	}
	e.history.Save()
	e.removeTransition(t)
	return nil
}

func (e *Editor) removeTransition(t *Transition) {
	t.detach()
	e.selection.Remove(t)
	e.transitions = slices.DeleteFunc(e.transitions, func(x *Transition) bool { return x == t })
	t.DetachView()
	e.updateBends(t.from, t.to)
}

// updateBends separates the two directions of a connected pair.
func (e *Editor) updateBends(a, b *Node) {
	if a == b {
		return
	}
	ab, okAB := e.TransitionBetween(a, b)
	ba, okBA := e.TransitionBetween(b, a)
	bend := 0.0
	if okAB && okBA {
		bend = bidirectionalBend
	}
	if okAB {
		ab.setBend(bend)
	}
	if okBA {
		ba.setBend(bend)
	}
}

// AddSymbol puts symbol on t, reusing the token that already carries it or
// creating a new one.
func (e *Editor) AddSymbol(t *Transition, symbol string) *Token {
	tok, ok := e.TokenBySymbol(symbol)
	if ok && t.HasToken(tok.id) {
		return tok
	}
	e.history.Save()
	if !ok {
		tok = NewToken("", symbol)
		e.tokens = append(e.tokens, tok)
		e.tokenByID[tok.id] = tok
	}
	t.addToken(tok.id)
	return tok
}

// RemoveSymbol takes symbol off t. Tokens no transition uses any more are
// discarded.
func (e *Editor) RemoveSymbol(t *Transition, symbol string) {
	tok, ok := e.TokenBySymbol(symbol)
	if !ok || !t.HasToken(tok.id) {
		return
	}
	e.history.Save()
	t.removeToken(tok.id)
	for _, other := range e.transitions {
		if other.HasToken(tok.id) {
			return
		}
	}
	e.tokens = slices.DeleteFunc(e.tokens, func(x *Token) bool { return x == tok })
	delete(e.tokenByID, tok.id)
}

// RenameToken changes a token's symbol; every transition using it is
// relabelled. Two tokens may not share a symbol.
func (e *Editor) RenameToken(tok *Token, symbol string) error {
	if e.tokenByID[tok.id] != tok {
		return fmt.Errorf("rename %q: %w", tok.id, ErrUnknownToken)
	}
	if tok.symbol == symbol {
		return nil
	}
	if _, taken := e.TokenBySymbol(symbol); taken {
		return fmt.Errorf("rename to %q: %w", symbol, ErrDuplicateSymbol)
	}
	e.history.Save()
	tok.SetSymbol(symbol)
	for _, t := range e.transitions {
		if t.HasToken(tok.id) {
			t.refreshLabel()
		}
	}
	return nil
}

// SnapAll snaps every node to the grid as one undoable step.
func (e *Editor) SnapAll() {
	e.history.Save()
	for _, n := range e.nodes {
		n.SetPosition(geom.Snap(n.pos, e.grid))
		n.lastSnapped = n.pos
	}
	e.updateStartNodePosition()
}

// Undo restores the state before the last recorded operation.
func (e *Editor) Undo() error {
	d, err := e.history.Undo(e.Document())
	if err != nil {
		return err
	}
	e.log.Debug("undo", "depth", e.history.Len())
	return e.restore(d)
}

// Redo re-applies the last undone operation.
func (e *Editor) Redo() error {
	d, err := e.history.Redo(e.Document())
	if err != nil {
		return err
	}
	e.log.Debug("redo", "depth", e.history.Len())
	return e.restore(d)
}

// NodeAt returns the topmost node whose outline contains p.
func (e *Editor) NodeAt(p geom.Point) *Node {
	for i := len(e.nodes) - 1; i >= 0; i-- {
		if e.nodes[i].Circle().Contains(p) {
			return e.nodes[i]
		}
	}
	return nil
}

// TransitionAt returns a transition whose label anchor or path lies within
// tolerance of p.
func (e *Editor) TransitionAt(p geom.Point, tolerance float64) *Transition {
	for i := len(e.transitions) - 1; i >= 0; i-- {
		t := e.transitions[i]
		if t.LabelAnchor().Dist(p) <= tolerance {
			return t
		}
		path := t.path
		if t.IsLoop() {
			if path[3].Dist(p) <= tolerance {
				return t
			}
			continue
		}
		if distToSegment(p, path[0], path[1]) <= tolerance {
			return t
		}
	}
	return nil
}

func distToSegment(p, a, b geom.Point) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Dist(a)
	}
	k := (p.Sub(a).X*ab.X + p.Sub(a).Y*ab.Y) / l2
	k = max(0, min(1, k))
	return p.Dist(a.Add(ab.Scale(k)))
}
