package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the harness reads.
const EnvPrefix = "TRBENCH"

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"iterations":   "matrix.iterations",
	"sizes":        "matrix.sizes",
	"type":         "data_types",
	"pair":         "pairs",
	"output-dir":   "output_dir",
	"seed":         "seed",
	"tolerance":    "oracle.tolerance",
	"workers":      "executor.workers",
	"grain":        "executor.grain",
	"metrics-file": "metrics.textfile",
	"metrics-addr": "metrics.addr",
	"history":      "history.enabled",
	"history-type": "history.type",
	"history-dsn":  "history.dsn",
	"verbose":      "verbose",
	"log-file":     "log_file",
}

// SetDefaults registers the default value of every key. The defaults
// reproduce the fixed benchmark: two operator pairs over double.
func SetDefaults() {
	viper.SetDefault("matrix.iterations", []int{100, 1000})
	viper.SetDefault("matrix.sizes", []int{100, 1000, 10000, 100000, 1000000})
	viper.SetDefault("data_types", []string{"double"})
	viper.SetDefault("pairs", []string{"addition/addition", "multiplication/addition"})
	viper.SetDefault("output_dir", ".")
	viper.SetDefault("oracle.tolerance", 0.0)
	viper.SetDefault("executor.workers", 0)
	viper.SetDefault("executor.grain", 4096)
	viper.SetDefault("verbose", false)
	viper.SetDefault("log_file", "")
	viper.SetDefault("metrics.textfile", "")
	viper.SetDefault("metrics.addr", "")
	viper.SetDefault("history.enabled", false)
	viper.SetDefault("history.type", "sqlite")
	viper.SetDefault("history.dsn", ".trbench.db")
}

// Load initializes the configuration from file and environment variables.
// A missing default config file is not an error; a missing or unreadable
// explicit one is. Nothing is ever written back.
func Load(cfgFile string) error {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// BindFlags binds every known flag present in fs to its configuration key.
func BindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}
