package fsmfile

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/ha1tch/fsm-draw/pkg/diagram"
)

// LayoutVersion is the layout.toml schema version written by GenerateLayout.
const LayoutVersion = 1

// Layout is the visual layout metadata of a diagram, keyed by node id.
type Layout struct {
	Version int                    `toml:"version"`
	Editor  EditorMeta             `toml:"editor"`
	States  map[string]StateLayout `toml:"states"`
}

// EditorMeta contains editor-specific settings.
type EditorMeta struct {
	CanvasOffsetX float64 `toml:"canvas_offset_x"`
	CanvasOffsetY float64 `toml:"canvas_offset_y"`
	GridSize      float64 `toml:"grid_size,omitempty"`
}

// StateLayout is the position of a single node. Label is informational.
type StateLayout struct {
	Label string  `toml:"label,omitempty"`
	X     float64 `toml:"x"`
	Y     float64 `toml:"y"`
}

// NewLayout captures the node positions of d.
func NewLayout(d diagram.Document, meta EditorMeta) *Layout {
	l := &Layout{
		Version: LayoutVersion,
		Editor:  meta,
		States:  make(map[string]StateLayout, len(d.Nodes)),
	}
	for _, n := range d.Nodes {
		l.States[n.ID] = StateLayout{Label: n.Label, X: n.X, Y: n.Y}
	}
	return l
}

// GenerateLayout writes l as TOML.
func GenerateLayout(w io.Writer, l *Layout) error {
	return toml.NewEncoder(w).Encode(l)
}

// ParseLayout parses layout.toml content.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	md, err := toml.Decode(string(data), &l)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, fmt.Errorf("layout: unknown key %q", keys[0].String())
	}
	if l.Version > LayoutVersion {
		return nil, fmt.Errorf("layout: version %d is newer than %d", l.Version, LayoutVersion)
	}
	if l.States == nil {
		l.States = make(map[string]StateLayout)
	}
	return &l, nil
}

// Apply moves the nodes of d to their recorded positions and returns how
// many were moved. Nodes missing from the layout keep their position.
func (l *Layout) Apply(d *diagram.Document) int {
	n := 0
	for i, node := range d.Nodes {
		s, ok := l.States[node.ID]
		if !ok {
			continue
		}
		d.Nodes[i].X, d.Nodes[i].Y = s.X, s.Y
		n++
	}
	return n
}
