// Command swimtimes maintains the club best-time table from the terminal:
// roster reconciliation, result imports, manual entry, name search and
// relay building.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/padraicbc/swimtimes/config"
	"github.com/padraicbc/swimtimes/fuzzy"
	applog "github.com/padraicbc/swimtimes/logger"
	"github.com/padraicbc/swimtimes/store"
	"github.com/padraicbc/swimtimes/table"
	"github.com/padraicbc/swimtimes/tracker"
)

type app struct {
	cfg     *config.Config
	log     *zap.Logger
	store   store.Store
	svc     *tracker.Service
	con     *console
	decider table.Decider
	out     io.Writer
}

func main() {
	a := &app{out: os.Stdout}
	root := a.rootCmd(os.Stdin)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) rootCmd(in io.Reader) *cobra.Command {
	root := &cobra.Command{
		Use:          "swimtimes",
		Short:        "Maintain the club best-time table and build relays",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context(), in)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.store != nil {
				_ = a.store.Close()
			}
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.AddCommand(
		a.reconcileCmd(),
		a.importCmd(),
		a.manualCmd(),
		a.searchCmd(),
		a.relayCmd(),
	)
	return root
}

func (a *app) setup(ctx context.Context, in io.Reader) error {
	cfg := config.Load()
	log, err := applog.New(cfg.Debug, "console")
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(log)

	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		return err
	}

	a.cfg, a.log, a.store = cfg, log, st
	a.con = newConsole(in, a.out)
	a.decider, err = a.con.decider(cfg.RosterRemoval, cfg.MissingNames)
	if err != nil {
		return err
	}
	a.svc = tracker.New(st,
		tracker.WithLogger(log),
		tracker.WithMatcher(fuzzy.New(cfg.FuzzyMode, cfg.FuzzyThreshold)),
		tracker.WithMaxCombinations(cfg.MedleyMaxCombinations),
	)
	return nil
}

func (a *app) reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Bring the table in line with the roster file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.svc.Reconcile(cmd.Context(), a.decider)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added: %d  Removed: %d  Kept: %d  Cleared cells: %d\n",
				len(res.Added), len(res.Removed), len(res.Kept), len(res.Cleared))
			for _, s := range res.Merged {
				fmt.Fprintf(a.out, "Merged duplicate row for %s\n", s)
			}
			return nil
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	var (
		event string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Merge result files (name,time or name,division,time rows) into the table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			batches := make([]table.Batch, 0, len(files))
			for _, f := range files {
				b, err := store.ReadBatchFile(f, strings.ToUpper(event))
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Read %d entries for %s from %s\n", len(b.Entries), b.Event, f)
				batches = append(batches, b)
			}

			var opts []table.ApplyOption
			if force {
				opts = append(opts, table.WithForce())
			}
			rep, err := a.svc.Import(cmd.Context(), a.decider, batches, opts...)
			if err != nil {
				return err
			}
			for _, b := range rep.Batches {
				fmt.Fprintf(a.out, "%-6s new %d, updated %d, unchanged %d, missing %d, invalid %d, not on roster %d\n",
					b.Event, b.New, b.Updated, b.Unchanged, len(b.Misses), len(b.Invalid), len(b.Dropped))
				for _, e := range b.Invalid {
					fmt.Fprintf(a.out, "  skipped %v\n", e)
				}
			}
			fmt.Fprintf(a.out, "New times added: %d\nUpdated times: %d\n", rep.New, rep.Updated)
			return nil
		},
	}
	cmd.Flags().StringVar(&event, "event", "", "event column for every file (default: from each file name, e.g. M_100_FR.csv)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite stored times even when they are faster")
	return cmd
}

func (a *app) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Find swimmers by approximate name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := a.svc.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Fprintln(a.out, "No matches found.")
				return nil
			}
			for _, m := range matches {
				fmt.Fprintf(a.out, "%s (%s)\n", m.Name, m.Meta)
			}
			return nil
		},
	}
}

func (a *app) manualCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manual",
		Short: "Enter times by hand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.manualLoop(cmd.Context())
		},
	}
}

// newReader wraps in unless it already buffers.
func newReader(in io.Reader) *bufio.Reader {
	if br, ok := in.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(in)
}
