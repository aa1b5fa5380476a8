package fsmfile

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/ha1tch/fsm-draw/pkg/fsm"
	"github.com/ha1tch/fsm-draw/pkg/geom"
)

// LayoutAlgorithm is a strategy for placing states that have no position.
type LayoutAlgorithm int

const (
	LayoutLayered LayoutAlgorithm = iota
	LayoutGrid
	LayoutCircular
)

func (a LayoutAlgorithm) String() string {
	switch a {
	case LayoutLayered:
		return "layered"
	case LayoutGrid:
		return "grid"
	case LayoutCircular:
		return "circular"
	}
	return fmt.Sprintf("LayoutAlgorithm(%d)", int(a))
}

// ParseLayoutAlgorithm converts a name back to a LayoutAlgorithm.
func ParseLayoutAlgorithm(s string) (LayoutAlgorithm, error) {
	switch strings.ToLower(s) {
	case "layered", "hierarchical", "":
		return LayoutLayered, nil
	case "grid":
		return LayoutGrid, nil
	case "circular", "circle":
		return LayoutCircular, nil
	}
	return LayoutLayered, fmt.Errorf("unknown layout %q", s)
}

// AutoLayout places every state of f. spacing is the distance between
// neighbouring states; positions land on multiples of spacing so they are
// already snapped for any grid that divides it.
func AutoLayout(f *fsm.FSM, algorithm LayoutAlgorithm, spacing float64) map[string]geom.Point {
	if spacing <= 0 {
		spacing = 150
	}
	switch algorithm {
	case LayoutGrid:
		return layoutGrid(f.States, spacing)
	case LayoutCircular:
		return layoutCircular(orderByConnectivity(f), spacing)
	default:
		return layoutLayered(f, spacing)
	}
}

func layoutGrid(states []string, spacing float64) map[string]geom.Point {
	positions := make(map[string]geom.Point, len(states))
	cols := int(math.Ceil(math.Sqrt(float64(len(states)))))
	for i, name := range states {
		col, row := i%cols, i/cols
		positions[name] = geom.Pt(spacing*float64(col+1), spacing*float64(row+1))
	}
	return positions
}

// layoutCircular puts the states on a circle, the first one at the top.
func layoutCircular(states []string, spacing float64) map[string]geom.Point {
	positions := make(map[string]geom.Point, len(states))
	n := len(states)
	if n == 0 {
		return positions
	}
	// Circumference of n*spacing keeps neighbours spacing apart.
	r := max(spacing, float64(n)*spacing/(2*math.Pi))
	c := geom.Pt(r+spacing, r+spacing)
	for i, name := range states {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		p := c.Add(geom.Pt(r*math.Cos(angle), r*math.Sin(angle)))
		positions[name] = geom.Snap(p, spacing/3)
	}
	return positions
}

// layoutLayered arranges states in columns by distance from the initial
// state. Unreachable states share a final column.
func layoutLayered(f *fsm.FSM, spacing float64) map[string]geom.Point {
	adj := buildAdjacency(f)
	layer := make(map[string]int)
	maxLayer := 0
	if f.Initial != "" {
		layer[f.Initial] = 0
		queue := []string{f.Initial}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range adj[cur] {
				if _, seen := layer[next]; !seen {
					layer[next] = layer[cur] + 1
					maxLayer = max(maxLayer, layer[next])
					queue = append(queue, next)
				}
			}
		}
	}
	unreachable := false
	for _, s := range f.States {
		if _, ok := layer[s]; !ok {
			if !unreachable && len(layer) > 0 {
				maxLayer++
			}
			unreachable = true
			layer[s] = maxLayer
		}
	}

	columns := make([][]string, maxLayer+1)
	for _, s := range f.States {
		columns[layer[s]] = append(columns[layer[s]], s)
	}
	tallest := 0
	for _, col := range columns {
		tallest = max(tallest, len(col))
	}

	positions := make(map[string]geom.Point, len(f.States))
	for x, col := range columns {
		// Centre each column against the tallest one.
		offset := float64(tallest-len(col)) * spacing / 2
		for y, s := range col {
			p := geom.Pt(spacing*float64(x+1), spacing*float64(y+1)+offset)
			positions[s] = geom.Snap(p, spacing/2)
		}
	}
	return positions
}

func buildAdjacency(f *fsm.FSM) map[string][]string {
	adj := make(map[string][]string, len(f.States))
	for _, t := range f.Transitions {
		for _, to := range t.To {
			if to != t.From && !slices.Contains(adj[t.From], to) {
				adj[t.From] = append(adj[t.From], to)
			}
		}
	}
	return adj
}

// orderByConnectivity lists states breadth first from the initial state,
// then the rest in declaration order.
func orderByConnectivity(f *fsm.FSM) []string {
	result := make([]string, 0, len(f.States))
	visited := make(map[string]bool)
	adj := buildAdjacency(f)
	if f.Initial != "" {
		queue := []string{f.Initial}
		visited[f.Initial] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			result = append(result, cur)
			for _, next := range adj[cur] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
	for _, s := range f.States {
		if !visited[s] {
			result = append(result, s)
		}
	}
	return result
}
