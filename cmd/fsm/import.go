package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-draw/pkg/fsmfile"
)

func newImportCmd(a *app) *cobra.Command {
	var output, algorithm string
	var spacing float64
	cmd := &cobra.Command{
		Use:   "import <automaton.json>",
		Short: "Build a laid out document from automaton JSON",
		Example: `  fsm import parity.json -o parity.fsmd
  fsm import parity.json --layout circular --spacing 200 -o parity.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			algo, err := fsmfile.ParseLayoutAlgorithm(algorithm)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			f, err := fsmfile.ParseJSON(data)
			if err != nil {
				return err
			}
			d, err := fsmfile.ImportFSM(f, algo, spacing)
			if err != nil {
				return err
			}
			a.log.Debug("imported", "states", len(d.Nodes), "layout", algo)

			if output == "" || output == "-" {
				return writeOutput(cmd, "", func(w io.Writer) error {
					return fsmfile.WriteDocument(w, d, fsmfile.FormatJSON)
				})
			}
			if err := fsmfile.WriteFile(output, d); err != nil {
				return err
			}
			good.Fprintf(cmd.ErrOrStderr(), "Written: %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output document (default JSON on stdout)")
	cmd.Flags().StringVar(&algorithm, "layout", "layered", "Layout: layered, grid or circular")
	cmd.Flags().Float64Var(&spacing, "spacing", 150, "Distance between states")
	return cmd
}
