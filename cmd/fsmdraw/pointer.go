package main

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/fsm-draw/pkg/diagram"
	"github.com/ha1tch/fsm-draw/pkg/geom"
)

// viewport maps terminal cells to diagram coordinates. A cell covers
// cellW x cellH diagram units; offX and offY are the canvas cell shown in
// the top left corner.
type viewport struct {
	cellW, cellH float64
	offX, offY   int
}

// toDiagram returns the diagram point at the centre of cell (x, y).
func (v *viewport) toDiagram(x, y int) geom.Point {
	return geom.Pt((float64(x+v.offX)+0.5)*v.cellW, (float64(y+v.offY)+0.5)*v.cellH)
}

// toCell returns the screen cell containing p.
func (v *viewport) toCell(p geom.Point) (int, int) {
	return int(math.Floor(p.X/v.cellW)) - v.offX, int(math.Floor(p.Y/v.cellH)) - v.offY
}

func (v *viewport) pan(dx, dy int) {
	v.offX += dx
	v.offY += dy
}

// gesture is a button-1 press in progress.
type gesture struct {
	target   diagram.Object // nil on the canvas
	origin   geom.Point     // anchor position at press
	down     geom.Point
	last     geom.Point
	mods     diagram.Modifiers
	dragging bool
}

// pointer turns raw tcell mouse reports into engine pointer events. tcell
// reports button state rather than press and release, so a gesture starts
// when button 1 appears and ends when it is gone.
type pointer struct {
	doc   *diagram.Editor
	view  *viewport
	press *gesture
	hover *diagram.Node
}

func newPointer(doc *diagram.Editor, view *viewport) *pointer {
	return &pointer{doc: doc, view: view}
}

// reset forgets the gesture and hover node, for use after the diagram has
// been replaced.
func (p *pointer) reset() {
	p.press = nil
	p.hover = nil
}

// busy reports whether button 1 is held.
func (p *pointer) busy() bool { return p.press != nil }

func modifiers(m tcell.ModMask) diagram.Modifiers {
	var mods diagram.Modifiers
	if m&tcell.ModShift != 0 {
		mods |= diagram.ModAdditive
	}
	return mods
}

// handle processes one mouse report at screen cell (x, y).
func (p *pointer) handle(x, y int, buttons tcell.ButtonMask, mod tcell.ModMask) {
	pt := p.view.toDiagram(x, y)
	mods := modifiers(mod)
	held := buttons&tcell.Button1 != 0

	// Hover changes are reported after a drag move so that a tentative
	// transition started by the move sees them.
	if !held {
		p.updateHover(pt)
	}
	defer func() {
		if held {
			p.updateHover(pt)
		}
	}()

	switch {
	case held && p.press == nil:
		g := &gesture{target: p.hit(pt), down: pt, last: pt, mods: mods}
		if n, ok := g.target.(*diagram.Node); ok {
			g.origin = n.Position()
		}
		p.press = g

	case held:
		g := p.press
		if pt == g.last {
			return
		}
		if !g.dragging {
			g.dragging = true
			p.send(g.target, diagram.PointerEvent{
				Type:    diagram.DragStart,
				Pos:     g.origin,
				Pointer: g.down,
				Mods:    g.mods,
			})
		}
		p.send(g.target, diagram.PointerEvent{
			Type:     diagram.DragMove,
			Pos:      g.origin.Add(pt.Sub(g.down)),
			Pointer:  pt,
			Movement: pt.Sub(g.last),
			Mods:     mods,
		})
		g.last = pt

	case p.press != nil:
		g := p.press
		p.press = nil
		if g.dragging {
			p.send(g.target, diagram.PointerEvent{
				Type:    diagram.DragEnd,
				Pos:     g.origin.Add(pt.Sub(g.down)),
				Pointer: pt,
				Mods:    mods,
			})
			return
		}
		p.send(g.target, diagram.PointerEvent{Type: diagram.Click, Pointer: pt, Mods: g.mods})
	}
}

func (p *pointer) send(target diagram.Object, ev diagram.PointerEvent) {
	if target == nil {
		p.doc.HandleCanvas(ev)
		return
	}
	p.doc.HandlePointer(target, ev)
}

// updateHover emits Leave and Enter as the node under the pointer changes.
func (p *pointer) updateHover(pt geom.Point) {
	n := p.doc.NodeAt(pt)
	if n == p.hover {
		return
	}
	if p.hover != nil {
		p.doc.HandlePointer(p.hover, diagram.PointerEvent{Type: diagram.Leave, Pointer: pt})
	}
	if n != nil {
		p.doc.HandlePointer(n, diagram.PointerEvent{Type: diagram.Enter, Pointer: pt})
	}
	p.hover = n
}

// hit returns the object under pt: nodes win over transitions.
func (p *pointer) hit(pt geom.Point) diagram.Object {
	if n := p.doc.NodeAt(pt); n != nil {
		return n
	}
	if t := p.doc.TransitionAt(pt, math.Max(p.view.cellW, p.view.cellH)*0.6); t != nil {
		return t
	}
	return nil
}
