package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsm-draw/internal/logging"
	"github.com/ha1tch/fsm-draw/pkg/diagram"
	"github.com/ha1tch/fsm-draw/pkg/geom"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 50.0, cfg.Editor.GridSize)
	assert.True(t, cfg.Editor.SnapToGrid)
	assert.Equal(t, 30.0, cfg.Editor.NodeRadius)
	assert.Equal(t, 50, cfg.Editor.UndoLevels)
	assert.False(t, cfg.Editor.LockToolPerGesture)
	assert.Equal(t, "select", cfg.Editor.DefaultTool)
	assert.Equal(t, 10.0, cfg.Terminal.CellWidth)
	assert.Equal(t, 20.0, cfg.Terminal.CellHeight)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
last_dir = "/tmp/machines"

[editor]
snap_to_grid = false
default_tool = "transitions"

[log]
level = "debug"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Editor.SnapToGrid)
	assert.Equal(t, "transitions", cfg.Editor.DefaultTool)
	assert.Equal(t, 50.0, cfg.Editor.GridSize)
	assert.Equal(t, "/tmp/machines", cfg.LastDir)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"syntax":    "[editor\n",
		"grid":      "[editor]\ngrid_size = -5.0\n",
		"radius":    "[editor]\nnode_radius = 0.0\n",
		"undo":      "[editor]\nundo_levels = 0\n",
		"tool":      "[editor]\ndefault_tool = \"lasso\"\n",
		"cells":     "[terminal]\ncell_width = 0.0\n",
		"log level": "[log]\nlevel = \"chatty\"\n",
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Editor.GridSize = 25
	cfg.Editor.LockToolPerGesture = true
	cfg.LastDir = "/home/me"

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDirHonoursXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "fsmdraw"), Dir())
	assert.Equal(t, filepath.Join("/xdg", "fsmdraw", "config.toml"), DefaultPath())
}

func TestEditorOptions(t *testing.T) {
	cfg := Default()
	cfg.Editor.GridSize = 20
	cfg.Editor.SnapToGrid = true
	cfg.Editor.NodeRadius = 15
	cfg.Editor.DefaultTool = "states"

	e := diagram.New(cfg.EditorOptions()...)
	assert.Equal(t, 20.0, e.GridSize())
	assert.Equal(t, diagram.ToolStates, e.Tool())

	n := e.AddNode("A", geom.Pt(0, 0))
	assert.Equal(t, 15.0, n.Radius())

	e.HandleCanvas(diagram.PointerEvent{Type: diagram.Click, Pointer: geom.Pt(31, 29)})
	nodes := e.Nodes()
	assert.Equal(t, geom.Pt(40, 20), nodes[len(nodes)-1].Position())
}

func TestApplyLive(t *testing.T) {
	e := diagram.New()
	cfg := Default()
	cfg.Editor.GridSize = 10
	cfg.Editor.SnapToGrid = false

	cfg.ApplyLive(e)
	assert.Equal(t, 10.0, e.GridSize())
	assert.False(t, e.Snap())
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, Save(path, Default()))

	got := make(chan *Config, 8)
	stop, err := Watch(path, logging.NewNop(), func(c *Config) { got <- c })
	require.NoError(t, err)
	defer stop()

	// Unrelated files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1"), 0o644))

	cfg := Default()
	cfg.Editor.GridSize = 75
	require.NoError(t, Save(path, cfg))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-got:
			if c.Editor.GridSize == 75 {
				return
			}
		case <-deadline:
			t.Fatal("config change not observed")
		}
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	_, err := Watch(filepath.Join(t.TempDir(), "missing", "config.toml"), logging.NewNop(), func(*Config) {})
	assert.Error(t, err)
}
