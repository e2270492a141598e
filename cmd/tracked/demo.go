package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tracked/internal/counters"
	"github.com/vango-dev/tracked/internal/errors"
	"github.com/vango-dev/tracked/pkg/reactive"
)

// demoStep is one board operation and the notifications it caused.
type demoStep struct {
	Name    string
	List    int
	NextID  int
	Watcher int
	Len     int
}

func demoCmd() *cobra.Command {
	var (
		count int
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the counters scenario",
		Long: `Run the counters scenario in-process and print, for each step, how many
times the list and next-id signals notified their subscribers and how many
times the board watcher ran.

By default the board writes through the shorthands. With --plain it writes
the same mutations as explicit update closures; the counts are identical.

Examples:
  tracked demo
  tracked demo --count=10000
  tracked demo --plain`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return errors.New("T010").
					WithDetailf("--count must be at least 1, got %d", count)
			}
			strategy := counters.StrategyHelpers
			if plain {
				strategy = counters.StrategyPlain
			}

			steps, err := runDemo(count, strategy)
			if err != nil {
				return err
			}
			printDemo(cmd.OutOrStdout(), strategy, steps)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1000, "Number of counters added in one batch")
	cmd.Flags().BoolVar(&plain, "plain", false, "Write with explicit update closures")

	return cmd
}

// runDemo runs the scenario on a fresh board.
func runDemo(count int, strategy counters.Strategy) ([]demoStep, error) {
	defer reactive.ReleaseGoroutine()

	b := counters.NewBoard(counters.WithStrategy(strategy))
	defer b.Close()

	var list, nextID, watcher int
	b.Counters().Subscribe(reactive.ListenerFunc(func() { list++ }))
	b.NextID().Subscribe(reactive.ListenerFunc(func() { nextID++ }))
	b.Watch(func(counters.Snapshot) { watcher++ })
	watcher = 0

	var steps []demoStep
	record := func(name string, op func() error) error {
		list, nextID, watcher = 0, 0, 0
		if err := op(); err != nil {
			return err
		}
		b.Flush()
		steps = append(steps, demoStep{
			Name:    name,
			List:    list,
			NextID:  nextID,
			Watcher: watcher,
			Len:     b.Len(),
		})
		return nil
	}

	ops := []struct {
		name string
		op   func() error
	}{
		{"add one", func() error { _, err := b.AddCounter(); return err }},
		{fmt.Sprintf("add %d", count), func() error { return b.AddMany(count) }},
		{"increment #0", func() error { _, err := b.Increment(0, 1); return err }},
		{"remove last", func() error { _, err := b.RemoveLast(); return err }},
		{"remove #0", func() error { _, err := b.RemoveCounter(0); return err }},
		{"clear", b.Clear},
	}
	for _, o := range ops {
		if err := record(o.name, o.op); err != nil {
			return steps, err
		}
	}
	return steps, nil
}

func printDemo(w io.Writer, strategy counters.Strategy, steps []demoStep) {
	fmt.Fprintf(w, "strategy: %s\n\n", strategy)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tLIST\tNEXT ID\tWATCHER\tCOUNTERS")
	for _, s := range steps {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", s.Name, s.List, s.NextID, s.Watcher, s.Len)
	}
	tw.Flush()
}
