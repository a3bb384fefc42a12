package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trbench/internal/config"
	"trbench/internal/policy"
	"trbench/internal/strategy"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the benchmarked strategies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t := newTable("strategy", "policy", "shape", "technique")
		for _, id := range strategy.All() {
			shape := "separated"
			if id.Fused() {
				shape = "fused"
			}
			if id == strategy.Naive {
				shape = "hand-rolled"
			}
			t.Row(id.String(), id.Policy().String(), shape, id.Technique())
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())

		s, err := config.Current()
		if err != nil {
			return err
		}
		exec := policy.Executor{Workers: s.Workers, Grain: s.Grain}
		fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render(fmt.Sprintf(
			"par and par_unseq run sequentially for inputs of %d elements or fewer (--grain)", exec.SequentialBelow())))
		return nil
	},
}

func init() {
	strategiesCmd.Flags().Int("grain", 0, "Minimum elements per parallel chunk")
	rootCmd.AddCommand(strategiesCmd)
}
