package fsmfile

import (
	"fmt"
	"strings"

	"github.com/ha1tch/fsm-draw/pkg/diagram"
)

// GenerateDOT converts a diagram to Graphviz DOT. Node positions are pinned
// so that neato reproduces the editor's layout.
func GenerateDOT(d diagram.Document) string {
	var sb strings.Builder

	sb.WriteString("digraph FSM {\n")
	sb.WriteString("    layout=neato;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	if d.Name != "" {
		fmt.Fprintf(&sb, "    labelloc=\"t\";\n    label=\"%s\";\n", escapeDOT(d.Name))
	}
	sb.WriteString("\n")

	accepting := make(map[string]bool, len(d.Accepting))
	for _, id := range d.Accepting {
		accepting[id] = true
	}
	for _, n := range d.Nodes {
		shape := "circle"
		if accepting[n.ID] {
			shape = "doublecircle"
		}
		// Graphviz y grows upwards and pins positions in points.
		fmt.Fprintf(&sb, "    \"%s\" [label=\"%s\", shape=%s, pos=\"%g,%g!\"];\n",
			escapeDOT(n.ID), escapeDOT(n.Label), shape, n.X/72, -n.Y/72)
	}

	if d.Start != "" {
		sb.WriteString("\n    __start [shape=none, label=\"\", width=0, height=0];\n")
		fmt.Fprintf(&sb, "    __start -> \"%s\";\n", escapeDOT(d.Start))
	}
	sb.WriteString("\n")

	symbols := make(map[string]string, len(d.Tokens))
	for _, t := range d.Tokens {
		symbols[t.ID] = t.Symbol
	}
	for _, t := range d.Transitions {
		label := diagram.Epsilon
		if len(t.Tokens) > 0 {
			parts := make([]string, 0, len(t.Tokens))
			for _, id := range t.Tokens {
				parts = append(parts, symbols[id])
			}
			label = strings.Join(parts, ",")
		}
		fmt.Fprintf(&sb, "    \"%s\" -> \"%s\" [label=\"%s\"];\n",
			escapeDOT(t.From), escapeDOT(t.To), escapeDOT(label))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	return s
}
