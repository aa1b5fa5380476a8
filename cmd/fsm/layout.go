package main

import (
	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-draw/pkg/fsmfile"
)

func newLayoutCmd(a *app) *cobra.Command {
	var output, algorithm string
	var spacing float64
	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Reposition every state with an automatic layout",
		Long: `layout places the states of a document with a layered, grid or circular
layout. The document is rewritten in place unless -o is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			algo, err := fsmfile.ParseLayoutAlgorithm(algorithm)
			if err != nil {
				return err
			}
			d, err := fsmfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			f, err := d.ToFSM(false)
			if err != nil {
				return err
			}
			pos := fsmfile.AutoLayout(f, algo, spacing)
			for i, n := range d.Nodes {
				p := pos[n.ID]
				d.Nodes[i].X, d.Nodes[i].Y = p.X, p.Y
			}
			a.log.Debug("laid out", "states", len(d.Nodes), "layout", algo)

			out := output
			if out == "" {
				out = args[0]
			}
			if err := fsmfile.WriteFile(out, d); err != nil {
				return err
			}
			good.Fprintf(cmd.ErrOrStderr(), "Written: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output document (default: rewrite input)")
	cmd.Flags().StringVar(&algorithm, "layout", "layered", "Layout: layered, grid or circular")
	cmd.Flags().Float64Var(&spacing, "spacing", 150, "Distance between states")
	return cmd
}
