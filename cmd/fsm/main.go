// Command fsm converts, checks and renders automaton diagram documents.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-draw/internal/logging"
	"github.com/ha1tch/fsm-draw/pkg/diagram"
	"github.com/ha1tch/fsm-draw/pkg/fsmfile"
)

// Output colours
var (
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed, color.Bold)
	warn   = color.New(color.FgYellow)
	subtle = color.New(color.FgHiBlack)
	head   = color.New(color.Bold)
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		bad.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app is state shared by every subcommand.
type app struct {
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	var verbose bool
	a := &app{log: logging.NewNop()}

	root := &cobra.Command{
		Use:   "fsm",
		Short: "Work with automaton diagram documents",
		Long: `fsm converts diagram documents between JSON, YAML and .fsmd archives,
checks them, lays them out and renders them to DOT or SVG.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			a.log = logging.New(level)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		newInfoCmd(a),
		newValidateCmd(a),
		newConvertCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newLayoutCmd(a),
		newSnapCmd(a),
	)
	return root
}

// loadEditor reads a document into a headless editor.
func (a *app) loadEditor(path string, opts ...diagram.Option) (*diagram.Editor, error) {
	d, err := fsmfile.ReadFile(path)
	if err != nil {
		return nil, err
	}
	e := diagram.New(append(opts, diagram.WithLogger(a.log))...)
	if err := e.LoadDocument(d); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.log.Debug("loaded", "path", path, "nodes", len(d.Nodes))
	return e, nil
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	good.Fprintf(cmd.ErrOrStderr(), "Written: %s\n", path)
	return nil
}

// labels maps node ids to labels.
func labels(e *diagram.Editor) map[string]string {
	m := make(map[string]string)
	for _, n := range e.Nodes() {
		m[n.ID()] = n.Label()
	}
	return m
}
