package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/padraicbc/swimtimes/relay"
	"github.com/padraicbc/swimtimes/swimmer"
	"github.com/padraicbc/swimtimes/tracker"
)

func (a *app) relayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Build relay lineups from the table",
	}
	cmd.AddCommand(a.idealCmd(), a.estimateCmd())
	return cmd
}

func (a *app) idealCmd() *cobra.Command {
	var (
		kind      string
		names     []string
		divisions []string
	)
	cmd := &cobra.Command{
		Use:   "ideal",
		Short: "Find the fastest lineup from swimmers or divisions",
		Long: "Find the fastest lineup from swimmers or divisions. Without --names or\n" +
			"--divisions the pool is chosen interactively.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := relay.ParseKind(kind)
			if err != nil {
				return err
			}
			sel := tracker.Selection{Names: names, Divisions: divisions}
			if len(names) == 0 && len(divisions) == 0 {
				sel, err = a.choosePool(cmd.Context())
				if errors.Is(err, errQuit) {
					return nil
				}
				if err != nil {
					return err
				}
			}
			res, err := a.svc.IdealRelay(cmd.Context(), k, sel)
			for _, s := range res.Skipped {
				fmt.Fprintf(a.out, "Skipped: %s\n", s)
			}
			if err != nil {
				return err
			}
			a.printLineup(res.Lineup)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "type", "t", "medley", "relay type: medley or freestyle")
	cmd.Flags().StringSliceVar(&names, "names", nil, "comma separated swimmer names")
	cmd.Flags().StringSliceVar(&divisions, "divisions", nil, "comma separated division codes, e.g. 3B,4B")
	cmd.MarkFlagsMutuallyExclusive("names", "divisions")
	return cmd
}

func (a *app) estimateCmd() *cobra.Command {
	var (
		kind  string
		names []string
	)
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Time a fixed lineup of four swimmers, given in swimming order",
		Long: "Time a fixed lineup of four swimmers, given in swimming order. Without\n" +
			"--names the four swimmers are asked for one at a time.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := relay.ParseKind(kind)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(a.out, "Enter the four swimmers in swimming order.")
				names, err = a.chooseNames(cmd.Context(), 4, 4)
				if errors.Is(err, errQuit) {
					return nil
				}
				if err != nil {
					return err
				}
			}
			l, err := a.svc.EstimateRelay(cmd.Context(), k, names)
			if err != nil {
				return err
			}
			a.printLineup(l)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "type", "t", "medley", "relay type: medley or freestyle")
	cmd.Flags().StringSliceVar(&names, "names", nil, "four swimmer names in swimming order")
	return cmd
}

// choosePool asks whether the relay pool is picked by name or by division.
func (a *app) choosePool(ctx context.Context) (tracker.Selection, error) {
	for {
		in, err := a.con.field("Select swimmers by (n)ames or (d)ivisions? ")
		if errors.Is(err, errRestart) {
			continue
		}
		if err != nil {
			return tracker.Selection{}, err
		}
		switch strings.ToLower(in) {
		case "n", "names":
			names, err := a.chooseNames(ctx, 4, 0)
			return tracker.Selection{Names: names}, err
		case "d", "divisions":
			divs, err := a.chooseDivisions()
			return tracker.Selection{Divisions: divs}, err
		}
		fmt.Fprintln(a.out, "Answer n or d.")
	}
}

// chooseDivisions reads a list of division codes, asking again until every
// code is valid.
func (a *app) chooseDivisions() ([]string, error) {
	for {
		in, err := a.con.field("Enter divisions separated by commas (e.g., 3B,4B): ")
		if errors.Is(err, errRestart) {
			continue
		}
		if err != nil {
			return nil, err
		}
		codes := strings.FieldsFunc(in, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
		if len(codes) == 0 {
			fmt.Fprintln(a.out, "Enter at least one division.")
			continue
		}
		divs, err := swimmer.ParseDivisions(codes)
		if err != nil {
			fmt.Fprintf(a.out, "%v\nValid divisions: %s\n", err, strings.Join(swimmer.AllDivisionCodes(), ", "))
			continue
		}
		out := make([]string, len(divs))
		for i, d := range divs {
			out[i] = d.Code
		}
		return out, nil
	}
}

// chooseNames builds a list of swimmers interactively, one fuzzy lookup per
// name. A blank line ends the list once atLeast names are picked; reaching
// atMost (when > 0) ends it at once. r clears the list.
func (a *app) chooseNames(ctx context.Context, atLeast, atMost int) ([]string, error) {
	var picked []string
	seen := map[string]bool{}
	for {
		if atMost > 0 && len(picked) == atMost {
			return picked, nil
		}
		in, err := a.con.field("Enter a swimmer's name (blank to finish): ")
		switch {
		case errors.Is(err, errRestart):
			picked, seen = nil, map[string]bool{}
			fmt.Fprintln(a.out, "Selection cleared.")
			continue
		case err != nil:
			return nil, err
		}
		if in == "" {
			if len(picked) >= atLeast {
				return picked, nil
			}
			fmt.Fprintf(a.out, "Select at least %d swimmers.\n", atLeast)
			continue
		}

		matches, err := a.svc.Search(ctx, in)
		if err != nil {
			return nil, err
		}
		var name string
		switch len(matches) {
		case 0:
			fmt.Fprintf(a.out, "No swimmer found matching %q.\n", in)
			continue
		case 1:
			name = matches[0].Name
		default:
			n, _, err := a.pickSwimmer(ctx, in)
			if errors.Is(err, errRestart) {
				continue
			}
			if err != nil {
				return nil, err
			}
			name = n
		}
		if seen[name] {
			fmt.Fprintf(a.out, "%s is already selected.\n", name)
			continue
		}
		seen[name] = true
		picked = append(picked, name)
		fmt.Fprintf(a.out, "Selected: %s\n", strings.Join(picked, ", "))
	}
}

func (a *app) printLineup(l relay.Lineup) {
	fmt.Fprintf(a.out, "%s relay\n", strings.ToUpper(l.Kind.String()))
	for _, leg := range l.Legs {
		fmt.Fprintf(a.out, "  %-6s %-24s %6.2f\n", leg.Stroke, leg.Swimmer, leg.Seconds)
	}
	fmt.Fprintf(a.out, "Total: %s\n", l.TotalDuration())
}
