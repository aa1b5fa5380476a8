// Package config loads, saves and watches the editor configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ha1tch/fsm-draw/internal/logging"
	"github.com/ha1tch/fsm-draw/pkg/diagram"
)

// Config holds fsmdraw configuration.
type Config struct {
	Editor   EditorConfig   `toml:"editor"`
	Terminal TerminalConfig `toml:"terminal"`
	Log      LogConfig      `toml:"log"`

	// LastDir is the directory of the last saved or opened document.
	LastDir string `toml:"last_dir"`
}

// EditorConfig controls the diagram engine.
type EditorConfig struct {
	GridSize           float64 `toml:"grid_size"`
	SnapToGrid         bool    `toml:"snap_to_grid"`
	NodeRadius         float64 `toml:"node_radius"`
	UndoLevels         int     `toml:"undo_levels"`
	LockToolPerGesture bool    `toml:"lock_tool_per_gesture"`
	DefaultTool        string  `toml:"default_tool"` // "select", "states", "transitions"
}

// TerminalConfig maps terminal cells to diagram units.
type TerminalConfig struct {
	CellWidth  float64 `toml:"cell_width"`
	CellHeight float64 `toml:"cell_height"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
	File  string `toml:"file"`  // empty disables logging in the editor
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			GridSize:    diagram.DefaultGridSize,
			SnapToGrid:  true,
			NodeRadius:  diagram.DefaultNodeRadius,
			UndoLevels:  diagram.DefaultUndoLevels,
			DefaultTool: "select",
		},
		Terminal: TerminalConfig{CellWidth: 10, CellHeight: 20},
		Log:      LogConfig{Level: "info"},
	}
}

// Dir returns the fsmdraw config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "fsmdraw")
}

// DefaultPath returns the path of the default config file.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path. A missing file yields the defaults;
// keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating its directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Editor.GridSize <= 0 {
		return fmt.Errorf("grid_size must be positive, got %g", c.Editor.GridSize)
	}
	if c.Editor.NodeRadius <= 0 {
		return fmt.Errorf("node_radius must be positive, got %g", c.Editor.NodeRadius)
	}
	if c.Editor.UndoLevels < 1 {
		return fmt.Errorf("undo_levels must be at least 1, got %d", c.Editor.UndoLevels)
	}
	if _, err := diagram.ParseTool(c.Editor.DefaultTool); err != nil {
		return err
	}
	if c.Terminal.CellWidth <= 0 || c.Terminal.CellHeight <= 0 {
		return fmt.Errorf("cell size must be positive, got %gx%g", c.Terminal.CellWidth, c.Terminal.CellHeight)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() slog.Level {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}

// EditorOptions maps the configuration to engine options.
func (c *Config) EditorOptions() []diagram.Option {
	tool, _ := diagram.ParseTool(c.Editor.DefaultTool)
	return []diagram.Option{
		diagram.WithGridSize(c.Editor.GridSize),
		diagram.WithSnap(c.Editor.SnapToGrid),
		diagram.WithNodeRadius(c.Editor.NodeRadius),
		diagram.WithUndoLevels(c.Editor.UndoLevels),
		diagram.WithToolLock(c.Editor.LockToolPerGesture),
		diagram.WithTool(tool),
	}
}

// ApplyLive updates the settings of a running editor that can change
// without rebuilding it. Node radius, undo depth and the default tool only
// take effect for new editors.
func (c *Config) ApplyLive(e *diagram.Editor) {
	e.SetGridSize(c.Editor.GridSize)
	e.SetSnap(c.Editor.SnapToGrid)
	e.SetToolLock(c.Editor.LockToolPerGesture)
}
