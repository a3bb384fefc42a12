package main

import (
	"github.com/spf13/cobra"

	"trbench/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show <report-file>",
	Short: "Summarize a report file",
	Long:  `Parses a report written by a previous run and prints the fastest strategy of every trial.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := report.ParseFile(args[0])
		if err != nil {
			return err
		}
		renderFastest(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
