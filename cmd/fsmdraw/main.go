// Command fsmdraw is a terminal editor for automaton diagrams.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-draw/internal/config"
	"github.com/ha1tch/fsm-draw/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "fsmdraw [file]",
	Short: "Draw finite automata in the terminal",
	Long: `fsmdraw edits automaton diagrams with the mouse: place states, drag
them around, connect them and label transitions. Documents are saved as
.json, .yaml or .fsmd.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runEditor,
}

func init() {
	rootCmd.Flags().String("config", config.DefaultPath(), "Config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runEditor(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	log, closeLog, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}

	ed := newEditor(screen, cfg, cfgPath, log)
	if len(args) == 1 {
		if _, statErr := os.Stat(args[0]); statErr == nil {
			if err := ed.loadFile(args[0]); err != nil {
				return fmt.Errorf("loading %s: %w", args[0], err)
			}
		} else {
			ed.filename = args[0]
		}
	}

	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.Clear()

	stop, err := config.Watch(cfgPath, log, func(c *config.Config) {
		screen.PostEvent(tcell.NewEventInterrupt(configReload{cfg: c}))
	})
	if err != nil {
		log.Warn("config hot reload disabled", "error", err)
	} else {
		defer stop()
	}

	log.Info("editor started", "file", ed.filename, "config", cfgPath)
	ed.run()
	return nil
}

// openLog opens the configured log file. Without one the editor logs
// nothing, since stderr belongs to the terminal screen.
func openLog(cfg *config.Config) (*slog.Logger, func(), error) {
	if cfg.Log.File == "" {
		return logging.NewNop(), func() {}, nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log: %w", err)
	}
	return logging.NewWriter(f, cfg.LogLevel()), func() { f.Close() }, nil
}
