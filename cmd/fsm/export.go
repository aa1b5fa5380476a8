package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-draw/pkg/fsmfile"
)

func newExportCmd(a *app) *cobra.Command {
	var output, to string
	var pretty, markErrors bool
	cmd := &cobra.Command{
		Use:     "export <input>",
		Aliases: []string{"render"},
		Short:   "Export a document as automaton JSON, DOT or SVG",
		Example: `  fsm export machine.fsmd --to dot | neato -n -Tpng -o machine.png
  fsm render machine.fsmd -o machine.svg --errors
  fsm export machine.json --to fsm --pretty`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := fsmfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			if to == "" {
				to = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
				if to == "" || to == "json" {
					to = "fsm"
				}
			}
			a.log.Debug("exporting", "input", args[0], "to", to)

			switch to {
			case "fsm":
				f, err := fsmfile.ExportFSM(d)
				if err != nil {
					return err
				}
				data, err := fsmfile.ToJSON(f, pretty)
				if err != nil {
					return err
				}
				return writeOutput(cmd, output, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, string(data))
					return err
				})
			case "dot", "gv":
				return writeOutput(cmd, output, func(w io.Writer) error {
					_, err := io.WriteString(w, fsmfile.GenerateDOT(d))
					return err
				})
			case "svg":
				opts := fsmfile.DefaultSVGOptions()
				opts.MarkErrors = markErrors
				return writeOutput(cmd, output, func(w io.Writer) error {
					return fsmfile.RenderSVG(w, d, opts)
				})
			}
			return fmt.Errorf("unknown export target %q", to)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&to, "to", "t", "", "Target: fsm, dot or svg (default from output extension)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent automaton JSON")
	cmd.Flags().BoolVar(&markErrors, "errors", false, "Mark problem states in SVG output")
	return cmd
}
