package diagram

import (
	"fmt"
	"strings"
)

// Tool is the editor-wide mode that decides what pointer events mean.
type Tool int

const (
	ToolSelect Tool = iota
	ToolStates
	ToolTransitions
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolStates:
		return "states"
	case ToolTransitions:
		return "transitions"
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// ParseTool converts a tool name back to a Tool.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "select", "":
		return ToolSelect, nil
	case "states", "state":
		return ToolStates, nil
	case "transitions", "transition":
		return ToolTransitions, nil
	}
	return ToolSelect, fmt.Errorf("unknown tool %q", s)
}
