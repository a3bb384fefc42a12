package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trbench/internal/config"
	"trbench/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.List(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No stored runs.")
			return nil
		}
		renderRuns(cmd.OutOrStdout(), runs)
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <previous-run> <current-run>",
	Short: "Compare the timings of two stored runs",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		prev, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		curr, err := store.Load(cmd.Context(), args[1])
		if err != nil {
			return err
		}
		if prev.Combination() != curr.Combination() {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: comparing %s with %s\n", prev.Combination(), curr.Combination())
		}

		comps := history.Compare(*prev, *curr)
		if len(comps) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No common records.")
			return nil
		}
		renderComparisons(cmd.OutOrStdout(), *prev, *curr, comps)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(compareCmd)
}

func openHistory() (history.Store, error) {
	s, err := config.Current()
	if err != nil {
		return nil, err
	}
	store, err := history.NewStore(history.StoreConfig{Type: s.History.Type, DSN: s.History.DSN})
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	return store, nil
}
