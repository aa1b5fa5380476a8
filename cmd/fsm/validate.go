package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-draw/pkg/fsm"
)

// problemWarnings fail validate under --strict.
var problemWarnings = []string{fsm.WarnUnreachable, fsm.WarnDead, fsm.WarnNondeterministic}

func newValidateCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a document for structural problems",
		Long: `validate checks that the document projects to a well formed automaton and
reports unreachable, dead, nondeterministic and incomplete states.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.loadEditor(args[0])
			if err != nil {
				return err
			}
			f, err := e.ToFSM(false)
			if err != nil {
				return err
			}
			if err := f.Validate(); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			w := cmd.OutOrStdout()
			warnings := e.Analyse()
			if len(warnings) == 0 {
				good.Fprintf(w, "✓ %s: valid %s with %d states, %d transitions\n",
					args[0], f.Type, len(f.States), len(e.Transitions()))
				return nil
			}

			names := labels(e)
			problems := 0
			for _, wr := range warnings {
				c := warn
				if slices.Contains(problemWarnings, wr.Type) {
					c = bad
					problems++
				}
				c.Fprintf(w, "⚠ %s", wr.Message)
				var items []string
				for _, s := range wr.States {
					items = append(items, names[s])
				}
				items = append(items, wr.Inputs...)
				if len(items) > 0 {
					subtle.Fprintf(w, ": %s", strings.Join(items, ", "))
				}
				fmt.Fprintln(w)
			}
			if strict && problems > 0 {
				return fmt.Errorf("%s: %d problem(s) found", args[0], problems)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on unreachable, dead or nondeterministic states")
	return cmd
}
