package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"trbench/internal/config"
	"trbench/internal/telemetry"
)

var exit = os.Exit
var cfgFile string

// rootCmd runs the full benchmark when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "trbench",
	Short: "Benchmark transform-reduce strategies",
	Long: `trbench times eight ways of combining two sequences element-wise and
reducing the result to a scalar, across a matrix of repetition counts and
data sizes. Every strategy is checked against a sequential reference before
timing, and one report file is written per (data type, transform, reduce).`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	Args:              cobra.NoArgs,
	PersistentPreRunE: initConfig,
	RunE:              runBenchmarks,
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", r)
			exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	pf.BoolP("verbose", "v", false, "Enable verbose/debug logging")
	pf.String("log-file", "", "Also write JSON logs to this file")
	pf.String("history-type", "", "History backend (sqlite, postgres)")
	pf.String("history-dsn", "", "History database path or connection string")

	addRunFlags(rootCmd.Flags())
}

// addRunFlags registers the flags shared by the root and run commands.
func addRunFlags(fs *pflag.FlagSet) {
	fs.IntSlice("iterations", nil, "Repetition counts of the test matrix")
	fs.IntSlice("sizes", nil, "Data sizes of the test matrix")
	fs.StringSlice("type", nil, "Data types to run (int, long, uint, ulong, float, double)")
	fs.StringSlice("pair", nil, "Operator pairs to run, written transform/reduce")
	fs.String("output-dir", "", "Directory for report files")
	fs.String("seed", "", "Seed for reproducible samples")
	fs.Float64("tolerance", 0, "Relative tolerance for float oracle checks (0 = exact)")
	fs.Int("workers", 0, "Parallel workers (0 = GOMAXPROCS)")
	fs.Int("grain", 0, "Minimum elements per parallel chunk")
	fs.String("metrics-file", "", "Write Prometheus metrics to this file after the run")
	fs.String("metrics-addr", "", "Serve Prometheus metrics on this address during the run")
	fs.Bool("history", false, "Store results in the run history")
}

// initConfig reads the config file and environment, binds the flags of the
// executing command and configures logging.
func initConfig(cmd *cobra.Command, args []string) error {
	viper.Reset()
	if err := config.Load(cfgFile); err != nil {
		return err
	}
	if err := config.BindFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := config.ValidateConfig(); err != nil {
		return err
	}

	telemetry.SetupLogger(cmd.ErrOrStderr(), viper.GetBool("verbose"), viper.GetString("log_file"))
	if used := viper.ConfigFileUsed(); used != "" {
		telemetry.LogDebug("using config file", "path", used)
	}
	return nil
}
