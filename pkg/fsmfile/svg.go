package fsmfile

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/ha1tch/fsm-draw/pkg/diagram"
	"github.com/ha1tch/fsm-draw/pkg/geom"
	"github.com/ha1tch/fsm-draw/pkg/textfit"
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Padding    float64        // margin around the drawing
	LabelSize  float64        // font size of transition labels
	Fitter     diagram.Fitter // nil uses the built-in Go Regular metrics
	MarkErrors bool           // run analysis and draw error markers
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Padding:   40,
		LabelSize: 12,
	}
}

var paintFill = map[diagram.Paint]string{
	diagram.PaintDefault: "#ffffff",
	diagram.PaintError:   "#fde2e2",
}

var paintStroke = map[diagram.Paint]string{
	diagram.PaintDefault: "#222222",
	diagram.PaintError:   "#c62828",
}

// RenderSVG draws d as it appears in the editor.
func RenderSVG(w io.Writer, d diagram.Document, opts SVGOptions) error {
	if opts.LabelSize == 0 {
		opts.LabelSize = 12
	}
	if opts.Fitter == nil {
		f, err := textfit.Default()
		if err != nil {
			return err
		}
		opts.Fitter = f
	}
	e := diagram.New(diagram.WithFitter(opts.Fitter))
	if err := e.LoadDocument(d); err != nil {
		return err
	}
	e.AttachViews()
	if opts.MarkErrors {
		e.Analyse()
	}

	lo, hi := drawingBounds(e)
	lo = lo.Sub(geom.Pt(opts.Padding, opts.Padding))
	size := hi.Sub(lo).Add(geom.Pt(opts.Padding, opts.Padding))

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%g %g %g %g" width="%g" height="%g">`+"\n",
		lo.X, lo.Y, size.X, size.Y, size.X, size.Y)
	sb.WriteString(`<defs><marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse">` +
		`<path d="M0,0 L10,5 L0,10 z" fill="#222222"/></marker></defs>` + "\n")
	if d.Name != "" {
		fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(d.Name))
	}

	if a := e.StartArrow(); a.Visible {
		fmt.Fprintf(&sb, `<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="#222222" stroke-width="1.5" marker-end="url(#arrow)"/>`+"\n",
			a.From.X, a.From.Y, a.To.X, a.To.Y)
	}
	for _, t := range e.Transitions() {
		drawTransition(&sb, t.View(), opts.LabelSize)
	}
	for _, n := range e.Nodes() {
		drawNode(&sb, n.View())
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func drawingBounds(e *diagram.Editor) (geom.Point, geom.Point) {
	var points []geom.Point
	for _, n := range e.Nodes() {
		c := n.Circle()
		points = append(points, c.C.Sub(geom.Pt(c.R, c.R)), c.C.Add(geom.Pt(c.R, c.R)))
	}
	for _, t := range e.Transitions() {
		points = append(points, t.Path()...)
		points = append(points, t.LabelAnchor())
	}
	if a := e.StartArrow(); a.Visible {
		points = append(points, a.From)
	}
	if len(points) == 0 {
		return geom.Point{}, geom.Point{}
	}
	return geom.Bounds(points)
}

func drawNode(sb *strings.Builder, v *diagram.NodeView) {
	fmt.Fprintf(sb, `<circle cx="%g" cy="%g" r="%g" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		v.Center.X, v.Center.Y, v.Radius, paintFill[v.Fill], paintStroke[v.Stroke])
	if v.AcceptRing {
		fmt.Fprintf(sb, `<circle cx="%g" cy="%g" r="%g" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
			v.Center.X, v.Center.Y, v.Radius-5, paintStroke[v.Stroke])
	}

	lineHeight := v.FontSize * 1.2
	top := v.Center.Y - lineHeight*float64(len(v.Lines)-1)/2
	for i, line := range v.Lines {
		fmt.Fprintf(sb, `<text x="%g" y="%g" font-family="sans-serif" font-size="%g" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			v.Center.X, top+float64(i)*lineHeight, v.FontSize, html.EscapeString(line))
	}

	for _, o := range v.Overlays {
		switch o.Kind {
		case diagram.OverlayErrorIcon:
			fmt.Fprintf(sb, `<circle cx="%g" cy="%g" r="8" fill="#c62828"/>`+"\n", o.At.X, o.At.Y)
		case diagram.OverlayErrorGlyph:
			fmt.Fprintf(sb, `<text x="%g" y="%g" font-family="sans-serif" font-size="12" font-weight="bold" fill="#ffffff" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
				o.At.X, o.At.Y, html.EscapeString(o.Text))
		}
	}
}

func drawTransition(sb *strings.Builder, v *diagram.TransitionView, size float64) {
	p := v.Path
	if v.Loop {
		fmt.Fprintf(sb, `<path d="M%g,%g C%g,%g %g,%g %g,%g C%g,%g %g,%g %g,%g" fill="none" stroke="#222222" stroke-width="1.5" marker-end="url(#arrow)"/>`+"\n",
			p[0].X, p[0].Y, p[1].X, p[1].Y, p[2].X, p[2].Y, p[3].X, p[3].Y,
			p[4].X, p[4].Y, p[5].X, p[5].Y, p[6].X, p[6].Y)
	} else {
		fmt.Fprintf(sb, `<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="#222222" stroke-width="1.5" marker-end="url(#arrow)"/>`+"\n",
			p[0].X, p[0].Y, p[1].X, p[1].Y)
	}
	fmt.Fprintf(sb, `<text x="%g" y="%g" font-family="sans-serif" font-size="%g" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		v.LabelAt.X, v.LabelAt.Y, size, html.EscapeString(v.Label))
}
