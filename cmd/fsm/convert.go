package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-draw/pkg/fsm"
	"github.com/ha1tch/fsm-draw/pkg/fsmfile"
)

func newConvertCmd(a *app) *cobra.Command {
	var output, format, kind string
	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a document between json, yaml and fsmd",
		Example: `  fsm convert machine.json -o machine.fsmd
  fsm convert machine.fsmd --format yaml
  fsm convert machine.json --type nfa -o machine.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.loadEditor(args[0])
			if err != nil {
				return err
			}
			switch fsm.Type(kind) {
			case "":
			case fsm.TypeDFA, fsm.TypeNFA:
				e.SetKind(fsm.Type(kind))
			default:
				return fmt.Errorf("unknown automaton type %q (want dfa or nfa)", kind)
			}
			d := e.Document()

			var to fsmfile.Format
			switch {
			case format != "":
				to, err = fsmfile.ParseFormat(format)
			case output != "" && output != "-":
				to, err = fsmfile.FormatFromPath(output)
			default:
				return fmt.Errorf("--format is required when writing to stdout")
			}
			if err != nil {
				return err
			}
			a.log.Debug("converting", "input", args[0], "format", to)
			return writeOutput(cmd, output, func(w io.Writer) error {
				return fsmfile.WriteDocument(w, d, to)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: json, yaml or fsmd")
	cmd.Flags().StringVarP(&kind, "type", "t", "", "Change the automaton type: dfa or nfa")
	return cmd
}
