package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "v0.1.0"
	commit  = "none"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "trbench version %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "build date: %s\n", date)
		fmt.Fprintf(cmd.OutOrStdout(), "go version: %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
