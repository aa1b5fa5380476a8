package main

import (
	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-draw/pkg/diagram"
	"github.com/ha1tch/fsm-draw/pkg/fsmfile"
)

func newSnapCmd(a *app) *cobra.Command {
	var output string
	var grid float64
	cmd := &cobra.Command{
		Use:   "snap <file>",
		Short: "Snap every state to the grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.loadEditor(args[0], diagram.WithGridSize(grid))
			if err != nil {
				return err
			}
			e.SnapAll()

			out := output
			if out == "" {
				out = args[0]
			}
			if err := fsmfile.WriteFile(out, e.Document()); err != nil {
				return err
			}
			good.Fprintf(cmd.ErrOrStderr(), "Written: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output document (default: rewrite input)")
	cmd.Flags().Float64Var(&grid, "grid", diagram.DefaultGridSize, "Grid cell size")
	return cmd
}
