// Package report writes and reads the plain-text result files, one per
// (data type, transform, reduce) combination.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"trbench/internal/matrix"
	"trbench/internal/strategy"
)

// Suffix ends every report file name.
const Suffix = "_tests_results.txt"

var (
	// ErrOpen is wrapped when the report file cannot be created.
	ErrOpen = errors.New("cannot open output file")
	// ErrMalformed is wrapped by Parse for input it cannot understand.
	ErrMalformed = errors.New("malformed report")
)

const (
	columnHeader = "number of tests\t\tsize of data\t\trun-time"
	columnRule   = "---------------\t\t------------\t\t--------"
	implementsBy = " - implemented by "
	titleSuffix  = " test results:"
)

// FileName returns "<data-type>_<transform>_<reduce>_tests_results.txt".
func FileName(c matrix.Combination) string {
	return c.DataType + "_" + c.Transform + "_" + c.Reduce + Suffix
}

// WriteFile writes res into dir, replacing any existing report, and returns
// the path written.
func WriteFile(dir string, res *matrix.Results) (string, error) {
	path := filepath.Join(dir, FileName(res.Combination))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}
	if err := Write(f, res); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// Write renders res: a title line followed by one section per strategy.
func Write(w io.Writer, res *matrix.Results) error {
	bw := bufio.NewWriter(w)
	c := res.Combination
	fmt.Fprintf(bw, "\n\t%s - %s - %s%s\n", c.DataType, c.Transform, c.Reduce, titleSuffix)
	for _, table := range res.Tables {
		fmt.Fprintf(bw, "\n\t%s\n\t%s\n\t%s", sectionHeader(c, table.Strategy), columnHeader, columnRule)
		for _, rec := range table.Records {
			fmt.Fprintf(bw, "\n\t%d\t\t\t%d\t\t\t%.9f", rec.Iterations, rec.Size, rec.Seconds)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func sectionHeader(c matrix.Combination, id strategy.ID) string {
	return fmt.Sprintf("%s sequences - transformation: %s - reduction: %s%s%s:",
		c.DataType, c.Transform, c.Reduce, implementsBy, id.Technique())
}

// Parse reads a report produced by Write.
func Parse(r io.Reader) (*matrix.Results, error) {
	techniques := make(map[string]strategy.ID)
	for _, id := range strategy.All() {
		techniques[id.Technique()] = id
	}

	res := &matrix.Results{}
	var current *matrix.Table
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || line == columnRule || strings.HasPrefix(line, "number of tests"):
			continue
		case strings.HasSuffix(line, titleSuffix):
			parts := strings.Split(strings.TrimSuffix(line, titleSuffix), " - ")
			if len(parts) != 3 {
				return nil, fmt.Errorf("%w: line %d: bad title %q", ErrMalformed, lineNo, line)
			}
			res.Combination = matrix.Combination{DataType: parts[0], Transform: parts[1], Reduce: parts[2]}
		case strings.Contains(line, implementsBy):
			technique := strings.TrimSuffix(line[strings.Index(line, implementsBy)+len(implementsBy):], ":")
			id, ok := techniques[technique]
			if !ok {
				return nil, fmt.Errorf("%w: line %d: unknown technique %q", ErrMalformed, lineNo, technique)
			}
			res.Tables = append(res.Tables, matrix.Table{Strategy: id})
			current = &res.Tables[len(res.Tables)-1]
		default:
			if current == nil {
				return nil, fmt.Errorf("%w: line %d: row outside a section", ErrMalformed, lineNo)
			}
			rec, err := parseRow(line)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
			}
			current.Records = append(current.Records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// ParseFile opens and parses the report at path.
func ParseFile(path string) (*matrix.Results, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func parseRow(line string) (matrix.Record, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return matrix.Record{}, fmt.Errorf("expected 3 columns, got %d", len(fields))
	}
	iterations, err := strconv.Atoi(fields[0])
	if err != nil {
		return matrix.Record{}, fmt.Errorf("number of tests: %w", err)
	}
	size, err := strconv.Atoi(fields[1])
	if err != nil {
		return matrix.Record{}, fmt.Errorf("size of data: %w", err)
	}
	seconds, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return matrix.Record{}, fmt.Errorf("run-time: %w", err)
	}
	return matrix.Record{Iterations: iterations, Size: size, Seconds: seconds}, nil
}
