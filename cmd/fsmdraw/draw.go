package main

import (
	"math"
	"path/filepath"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/fsm-draw/pkg/diagram"
	"github.com/ha1tch/fsm-draw/pkg/geom"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleGrid       = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleState      = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleStateSel   = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	styleStateInit  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStateAcc   = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleStateErr   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleGlow       = tcell.StyleDefault.Background(tcell.NewRGBColor(200, 162, 200)).Foreground(tcell.ColorBlack)
	styleErrorMark  = tcell.StyleDefault.Background(tcell.NewRGBColor(198, 40, 40)).Foreground(tcell.ColorWhite).Bold(true)
	styleTrans      = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleTransSel   = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleTransDrag  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(200, 162, 200)) // Lilac
	styleTitle      = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray) // Help bar on default background
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleDragging   = tcell.StyleDefault.Background(tcell.ColorPurple).Foreground(tcell.ColorWhite)
)

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()
	canvasH := h - 2

	if ed.doc.Snap() {
		ed.drawGrid(w, canvasH)
	}
	ed.drawTransitions(w, canvasH)
	ed.drawStartArrow(w, canvasH)
	ed.drawTentative(w, canvasH)
	ed.drawNodes(w, canvasH)

	switch ed.mode {
	case ModeInput:
		ed.drawInputBox(w, h)
	case ModeHelp:
		ed.drawHelp(w, h)
	}

	ed.drawStatusBar(w, h)
}

// setCell draws r at (x, y) if the cell lies on the canvas.
func (ed *Editor) setCell(x, y int, r rune, style tcell.Style, canvasW, canvasH int) {
	if x < 0 || y < 0 || x >= canvasW || y >= canvasH {
		return
	}
	ed.screen.SetContent(x, y, r, nil, style)
}

func (ed *Editor) drawGrid(canvasW, canvasH int) {
	grid := ed.doc.GridSize()
	// Skip grids denser than one dot every other cell.
	if grid < 2*ed.view.cellW || grid < ed.view.cellH {
		return
	}
	topLeft := ed.view.toDiagram(0, 0)
	bottomRight := ed.view.toDiagram(canvasW, canvasH)
	for gx := math.Ceil(topLeft.X/grid) * grid; gx < bottomRight.X; gx += grid {
		for gy := math.Ceil(topLeft.Y/grid) * grid; gy < bottomRight.Y; gy += grid {
			x, y := ed.view.toCell(geom.Pt(gx, gy))
			ed.setCell(x, y, '·', styleGrid, canvasW, canvasH)
		}
	}
}

func (ed *Editor) drawTransitions(canvasW, canvasH int) {
	for _, t := range ed.doc.Transitions() {
		v := t.View()
		if v == nil || len(v.Path) == 0 {
			continue
		}
		style := styleTrans
		if v.Selected {
			style = styleTransSel
		}
		if v.Loop {
			ed.drawLoop(v.Path, style, canvasW, canvasH)
		} else {
			ed.drawLine(v.Path[0], v.Path[1], style, true, canvasW, canvasH)
		}
		ed.drawLabel(v.LabelAt, v.Label, style, canvasW, canvasH)
	}
}

func (ed *Editor) drawStartArrow(canvasW, canvasH int) {
	sa := ed.doc.StartArrow()
	if !sa.Visible {
		return
	}
	ed.drawLine(sa.From, sa.To, styleStateInit, true, canvasW, canvasH)
}

func (ed *Editor) drawTentative(canvasW, canvasH int) {
	tt := ed.doc.Tentative()
	if tt == nil {
		return
	}
	from, to := tt.Segment()
	ed.drawLine(from, to, styleTransDrag, true, canvasW, canvasH)
}

// drawLine draws a straight edge from a to b, optionally ending in an
// arrow head.
func (ed *Editor) drawLine(a, b geom.Point, style tcell.Style, arrow bool, canvasW, canvasH int) {
	x0, y0 := ed.view.toCell(a)
	x1, y1 := ed.view.toCell(b)
	glyph := lineGlyph(x1-x0, y1-y0)
	cells := lineCells(x0, y0, x1, y1)
	for i, c := range cells {
		r := glyph
		if arrow && i == len(cells)-1 {
			r = arrowGlyph(x1-x0, y1-y0)
		}
		ed.setCell(c[0], c[1], r, style, canvasW, canvasH)
	}
}

// drawLoop samples the two cubic curves of a self-loop.
func (ed *Editor) drawLoop(path []geom.Point, style tcell.Style, canvasW, canvasH int) {
	if len(path) < 7 {
		return
	}
	const steps = 12
	var prevX, prevY int
	for seg := 0; seg < 2; seg++ {
		p := path[seg*3 : seg*3+4]
		for i := 0; i <= steps; i++ {
			pt := cubic(p[0], p[1], p[2], p[3], float64(i)/steps)
			x, y := ed.view.toCell(pt)
			r := '·'
			if seg == 1 && i == steps {
				r = arrowGlyph(x-prevX, y-prevY)
			}
			ed.setCell(x, y, r, style, canvasW, canvasH)
			prevX, prevY = x, y
		}
	}
}

func cubic(p0, p1, p2, p3 geom.Point, t float64) geom.Point {
	u := 1 - t
	return p0.Scale(u * u * u).
		Add(p1.Scale(3 * u * u * t)).
		Add(p2.Scale(3 * u * t * t)).
		Add(p3.Scale(t * t * t))
}

// lineCells walks the cells between two cells, both included.
func lineCells(x0, y0, x1, y1 int) [][2]int {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	var cells [][2]int
	for {
		cells = append(cells, [2]int{x0, y0})
		if x0 == x1 && y0 == y1 {
			return cells
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// lineGlyph picks a line character for a cell delta. Cells are about twice
// as tall as they are wide.
func lineGlyph(dx, dy int) rune {
	vx, vy := abs(dx), 2*abs(dy)
	switch {
	case vx > 2*vy:
		return '─'
	case vy > 2*vx:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func arrowGlyph(dx, dy int) rune {
	if abs(dx) >= 2*abs(dy) {
		if dx < 0 {
			return '◀'
		}
		return '▶'
	}
	if dy < 0 {
		return '▲'
	}
	return '▼'
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (ed *Editor) drawLabel(at geom.Point, label string, style tcell.Style, canvasW, canvasH int) {
	x, y := ed.view.toCell(at)
	ed.drawCanvasString(x-runewidth.StringWidth(label)/2, y, label, style, canvasW, canvasH)
}

func (ed *Editor) drawNodes(canvasW, canvasH int) {
	start := ed.doc.StartNode()
	for _, n := range ed.doc.Nodes() {
		v := n.View()
		if v == nil {
			continue
		}
		style := nodeStyle(v, n == start)
		cx, cy := ed.view.toCell(v.Center)

		open, closing := "( ", " )"
		if v.AcceptRing {
			open, closing = "(( ", " ))"
		}
		width := 0
		for _, line := range v.Lines {
			width = max(width, runewidth.StringWidth(line))
		}
		top := cy - (len(v.Lines)-1)/2
		for i, line := range v.Lines {
			text := open + runewidth.FillRight(line, width) + closing
			ed.drawCanvasString(cx-runewidth.StringWidth(text)/2, top+i, text, style, canvasW, canvasH)
		}

		for _, o := range v.Overlays {
			x, y := ed.view.toCell(o.At)
			switch o.Kind {
			case diagram.OverlayErrorIcon:
				ed.setCell(x, y, ' ', styleErrorMark, canvasW, canvasH)
			case diagram.OverlayErrorGlyph:
				ed.drawCanvasString(x, y, o.Text, styleErrorMark, canvasW, canvasH)
			}
		}
	}
}

func nodeStyle(v *diagram.NodeView, start bool) tcell.Style {
	switch {
	case v.Shadow:
		return styleDragging
	case v.Glow:
		return styleGlow
	case v.Selected:
		return styleStateSel
	case v.Fill == diagram.PaintError:
		return styleStateErr
	case start:
		return styleStateInit
	case v.AcceptRing:
		return styleStateAcc
	}
	return styleState
}

func (ed *Editor) drawCanvasString(x, y int, s string, style tcell.Style, canvasW, canvasH int) {
	for _, r := range s {
		ed.setCell(x, y, r, style, canvasW, canvasH)
		x += runewidth.RuneWidth(r)
	}
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		ed.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1

	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	fileInfo := "[New]"
	if ed.filename != "" {
		fileInfo = ed.filename
		if runewidth.StringWidth(fileInfo) > 30 {
			fileInfo = filepath.Base(ed.filename)
		}
	}
	if ed.modified() {
		fileInfo += " *"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	modeStr := ed.modeString()
	ed.drawString(w/2-runewidth.StringWidth(modeStr)/2, y, modeStr, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		case MsgWarning:
			style = styleMsgWarning
		}
		if shouldFlashForType(ed.messageType) && shouldBeInverted(nowMilli()-ed.messageFlashStart) {
			style = style.Reverse(true)
		}
		msg := runewidth.Truncate(ed.message, w/2-2, "...")
		ed.drawString(w-runewidth.StringWidth(msg)-2, y, msg, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, runewidth.Truncate(ed.helpString(), w-2, "..."), styleHelp)
}

// modeString shows the tool, the snap flag and the gesture in progress.
func (ed *Editor) modeString() string {
	s := ed.doc.Tool().String()
	if ed.doc.Snap() {
		s += " · snap"
	}
	switch {
	case ed.doc.Drag() != nil:
		s += " · MOVE"
	case ed.doc.Tentative() != nil:
		s += " · LINK"
	}
	if ed.mode == ModeInput {
		s = "INPUT"
	}
	return s
}

func (ed *Editor) helpString() string {
	switch ed.mode {
	case ModeInput:
		return "Type text  Enter:Confirm  Esc:Cancel"
	case ModeHelp:
		return "Any key:Close"
	}
	return "v/s/t:Tool  a:Accept  i:Start  r:Rename  l/x:Symbol  Del:Delete  u:Undo  e:Analyse  ^S:Save  ?:Help  q:Quit"
}

var helpLines = []string{
	"v  select tool       s  states tool",
	"t  transitions tool  g  toggle snap",
	"G  snap all states   0  reset view",
	"a  toggle accepting  i  set start state",
	"r  rename state      l  add symbol",
	"x  remove symbol     Del delete selection",
	"u  undo  (^Z)        U  redo  (^Y)",
	"e  analyse           E  clear error marks",
	"p  export svg/dot    ^O open",
	"^S save              q  quit",
	"Arrows pan   Shift+click add to selection",
}

func (ed *Editor) drawHelp(w, h int) {
	boxW := 0
	for _, l := range helpLines {
		boxW = max(boxW, runewidth.StringWidth(l))
	}
	boxW += 4
	boxH := len(helpLines) + 2
	x := max((w-boxW)/2, 0)
	y := max((h-boxH)/2, 0)
	ed.drawTitledBox(x, y, boxW, boxH, "Keys")
	for i, l := range helpLines {
		ed.drawString(x+2, y+1+i, l, styleDefault)
	}
}

func (ed *Editor) drawTitledBox(x, y, w, h int, title string) {
	ed.drawBox(x, y, w, h, styleDefault)
	if title != "" {
		titleX := x + (w-runewidth.StringWidth(title)-2)/2
		ed.screen.SetContent(titleX, y, ' ', nil, styleBorder)
		ed.drawString(titleX+1, y, title, styleTitle)
		ed.screen.SetContent(titleX+1+runewidth.StringWidth(title), y, ' ', nil, styleBorder)
	}
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := 50
	boxH := 3
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)

	input := ed.inputBuffer + "_"
	room := boxW - 4 - runewidth.StringWidth(ed.inputPrompt)
	// Keep the end of long input visible.
	for runewidth.StringWidth(input) > room && input != "" {
		_, size := utf8.DecodeRuneInString(input)
		input = input[size:]
	}
	ed.drawString(boxX+2, boxY+1, ed.inputPrompt, styleInput)
	ed.drawString(boxX+2+runewidth.StringWidth(ed.inputPrompt), boxY+1, input, styleInput)
}

func (ed *Editor) drawBox(x, y, w, h int, style tcell.Style) {
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, '─', nil, styleBorder)
		ed.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}
	for i := y + 1; i < y+h-1; i++ {
		ed.screen.SetContent(x, i, '│', nil, styleBorder)
		ed.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}

	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			ed.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}
