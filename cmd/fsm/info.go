package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-draw/pkg/diagram"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show document information",
		Long: `Show document information.
With --verbose the automaton the diagram projects to is printed as well.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.loadEditor(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			field := func(name, value string) {
				subtle.Fprintf(w, "%-13s", name+":")
				head.Fprintln(w, value)
			}

			field("Type", string(e.Kind()))
			if e.Name() != "" {
				field("Name", e.Name())
			}

			var states, accepting []string
			for _, n := range e.Nodes() {
				states = append(states, n.Label())
				if n.IsAccept() {
					accepting = append(accepting, n.Label())
				}
			}
			var symbols []string
			for _, t := range e.Tokens() {
				symbols = append(symbols, t.Symbol())
			}

			field("States", strings.Join(states, ", "))
			field("Symbols", strings.Join(symbols, ", "))
			field("Transitions", strconv.Itoa(len(e.Transitions())))
			if s := e.StartNode(); s != nil {
				field("Start", s.Label())
			}
			if len(accepting) > 0 {
				field("Accepting", strings.Join(accepting, ", "))
			}

			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				d := e.Document()
				f, err := d.ToFSM(true)
				if errors.Is(err, diagram.ErrDuplicateLabel) {
					f, err = d.ToFSM(false)
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(w)
				fmt.Fprint(w, f.String())
			}
			return nil
		},
	}
}
