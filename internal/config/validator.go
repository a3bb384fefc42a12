package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/viper"

	"trbench/internal/matrix"
	"trbench/internal/numeric"
	"trbench/internal/operator"
)

// OpPair is one transform/reduce operator combination, written
// "transform/reduce" in configuration.
type OpPair struct {
	Transform string
	Reduce    string
}

func (p OpPair) String() string { return p.Transform + "/" + p.Reduce }

// ParsePair parses "transform/reduce".
func ParsePair(s string) (OpPair, error) {
	transform, reduce, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || transform == "" || reduce == "" {
		return OpPair{}, fmt.Errorf("pair %q must be written transform/reduce", s)
	}
	return OpPair{Transform: transform, Reduce: reduce}, nil
}

// HistorySettings configures the optional run history store.
type HistorySettings struct {
	Enabled bool
	Type    string
	DSN     string
}

// Settings is the typed view of the configuration.
type Settings struct {
	Matrix          matrix.Matrix
	DataTypes       []string
	Pairs           []OpPair
	OutputDir       string
	Seed            *uint64
	Tolerance       float64
	Workers         int
	Grain           int
	Verbose         bool
	LogFile         string
	MetricsTextfile string
	MetricsAddr     string
	History         HistorySettings
}

// Combinations returns every (data type, transform, reduce) to run: data
// types in the outer loop, pairs in the inner loop, both in configured order.
func (s Settings) Combinations() []matrix.Combination {
	var out []matrix.Combination
	for _, dt := range s.DataTypes {
		for _, p := range s.Pairs {
			out = append(out, matrix.Combination{DataType: dt, Transform: p.Transform, Reduce: p.Reduce})
		}
	}
	return out
}

// Current reads the loaded configuration into Settings, collecting every
// invalid value into one error.
func Current() (Settings, error) {
	var errors []string
	s := Settings{
		DataTypes:       stringSlice("data_types"),
		OutputDir:       viper.GetString("output_dir"),
		Tolerance:       viper.GetFloat64("oracle.tolerance"),
		Workers:         viper.GetInt("executor.workers"),
		Grain:           viper.GetInt("executor.grain"),
		Verbose:         viper.GetBool("verbose"),
		LogFile:         viper.GetString("log_file"),
		MetricsTextfile: viper.GetString("metrics.textfile"),
		MetricsAddr:     viper.GetString("metrics.addr"),
		History: HistorySettings{
			Enabled: viper.GetBool("history.enabled"),
			Type:    strings.ToLower(viper.GetString("history.type")),
			DSN:     viper.GetString("history.dsn"),
		},
	}

	iterations, itErr := intSlice("matrix.iterations")
	sizes, szErr := intSlice("matrix.sizes")
	for _, err := range []error{itErr, szErr} {
		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	s.Matrix = matrix.Matrix{Iterations: iterations, Sizes: sizes}
	if itErr == nil && szErr == nil {
		if err := s.Matrix.Validate(); err != nil {
			errors = append(errors, err.Error())
		}
	}

	if len(s.DataTypes) == 0 {
		errors = append(errors, "data_types must not be empty")
	}
	for _, dt := range s.DataTypes {
		if _, err := numeric.Lookup(dt); err != nil {
			errors = append(errors, err.Error())
		}
	}

	pairs := stringSlice("pairs")
	if len(pairs) == 0 {
		errors = append(errors, "pairs must not be empty")
	}
	for _, raw := range pairs {
		p, err := ParsePair(raw)
		if err == nil {
			err = operator.ValidatePair(p.Transform, p.Reduce)
		}
		if err != nil {
			errors = append(errors, err.Error())
			continue
		}
		s.Pairs = append(s.Pairs, p)
	}

	if viper.IsSet("seed") && viper.GetString("seed") != "" {
		seed, err := strconv.ParseUint(viper.GetString("seed"), 10, 64)
		if err != nil {
			errors = append(errors, fmt.Sprintf("seed must be a non-negative integer, got: %q", viper.GetString("seed")))
		} else {
			s.Seed = &seed
		}
	}

	if s.Tolerance < 0 {
		errors = append(errors, fmt.Sprintf("oracle.tolerance must be non-negative, got: %g", s.Tolerance))
	}
	if s.Workers < 0 {
		errors = append(errors, fmt.Sprintf("executor.workers must be non-negative, got: %d", s.Workers))
	}
	if s.Grain < 0 {
		errors = append(errors, fmt.Sprintf("executor.grain must be non-negative, got: %d", s.Grain))
	}
	if s.OutputDir == "" {
		errors = append(errors, "output_dir must not be empty")
	}
	if s.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(s.MetricsAddr); err != nil {
			errors = append(errors, fmt.Sprintf("metrics.addr must be host:port, got: %q", s.MetricsAddr))
		}
	}
	switch s.History.Type {
	case "sqlite", "sqlite3", "postgres", "postgresql":
	default:
		errors = append(errors, fmt.Sprintf("history.type must be sqlite or postgres, got: %q", s.History.Type))
	}

	if len(errors) > 0 {
		return s, fmt.Errorf("configuration validation failed:\n  %s", strings.Join(errors, "\n  "))
	}
	return s, nil
}

// ValidateConfig validates configuration values and returns an error if any are invalid.
// This function should be called after viper has loaded the configuration.
func ValidateConfig() error {
	_, err := Current()
	return err
}

// stringSlice reads key as a list of strings, splitting a single string on
// commas and whitespace.
func stringSlice(key string) []string {
	if v, ok := viper.Get(key).(string); ok {
		return splitList(v)
	}
	return viper.GetStringSlice(key)
}

func splitList(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
}

// intSlice reads key as a list of integers. Environment variables arrive as
// a single comma- or space-separated string.
func intSlice(key string) ([]int, error) {
	switch v := viper.Get(key).(type) {
	case nil:
		return nil, nil
	case []int:
		return v, nil
	case string:
		return atoiAll(key, splitList(v))
	case []string:
		return atoiAll(key, v)
	case []any:
		out := make([]int, 0, len(v))
		for _, item := range v {
			n, err := strconv.Atoi(fmt.Sprint(item))
			if err != nil {
				return nil, fmt.Errorf("%s must be a list of integers, got: %v", key, item)
			}
			out = append(out, n)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be a list of integers, got: %v", key, v)
	}
}

func atoiAll(key string, fields []string) ([]int, error) {
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("%s must be a list of integers, got: %q", key, f)
		}
		out = append(out, n)
	}
	return out, nil
}
