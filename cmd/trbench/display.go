package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"

	"trbench/internal/history"
	"trbench/internal/matrix"
	"trbench/internal/strategy"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	fasterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))  // Green
	slowerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // Red
)

func init() {
	// NO_COLOR and dumb terminals get plain text.
	if !termenv.EnvNoColor() && os.Getenv("TERM") != "dumb" {
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func seconds(v float64) string { return strconv.FormatFloat(v, 'f', 9, 64) }

// renderRunSummary prints the total time of every strategy of one
// combination together with the report path.
func renderRunSummary(w io.Writer, res *matrix.Results, path, runID string) {
	fmt.Fprintln(w, titleStyle.Render(res.Combination.String()))

	t := newTable("strategy", "policy", "trials", "total seconds")
	for _, tbl := range res.Tables {
		var total float64
		for _, rec := range tbl.Records {
			total += rec.Seconds
		}
		t.Row(tbl.Strategy.String(), tbl.Strategy.Policy().String(), strconv.Itoa(len(tbl.Records)), seconds(total))
	}
	fmt.Fprintln(w, t.Render())

	fmt.Fprintln(w, dimStyle.Render("report: "+path))
	if runID != "" {
		fmt.Fprintln(w, dimStyle.Render("run: "+runID))
	}
}

// renderFastest prints, for every trial, the strategy with the smallest
// elapsed time.
func renderFastest(w io.Writer, res *matrix.Results) {
	fmt.Fprintln(w, titleStyle.Render(res.Combination.String()))

	t := newTable("iterations", "size", "fastest", "seconds", "naive seconds")
	naive := res.Table(strategy.Naive)
	if naive == nil {
		return
	}
	for i, rec := range naive.Records {
		best, bestSeconds := strategy.Naive, rec.Seconds
		for _, tbl := range res.Tables {
			if i < len(tbl.Records) && tbl.Records[i].Seconds < bestSeconds {
				best, bestSeconds = tbl.Strategy, tbl.Records[i].Seconds
			}
		}
		t.Row(strconv.Itoa(rec.Iterations), strconv.Itoa(rec.Size), best.String(), seconds(bestSeconds), seconds(rec.Seconds))
	}
	fmt.Fprintln(w, t.Render())
}

func renderRuns(w io.Writer, runs []history.Run) {
	t := newTable("id", "started", "combination")
	for _, r := range runs {
		t.Row(r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Combination().String())
	}
	fmt.Fprintln(w, t.Render())
}

func renderComparisons(w io.Writer, prev, curr history.Run, comps []history.Comparison) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s vs %s", prev.ID, curr.ID)))

	t := newTable("strategy", "iterations", "size", "previous", "current", "change")
	for _, c := range comps {
		change := fmt.Sprintf("%+.2f%%", c.Diff)
		switch {
		case c.Diff < 0:
			change = fasterStyle.Render(change)
		case c.Diff > 0:
			change = slowerStyle.Render(change)
		}
		t.Row(c.Strategy, strconv.Itoa(c.Iterations), strconv.Itoa(c.Size), seconds(c.Prev), seconds(c.Curr), change)
	}
	fmt.Fprintln(w, t.Render())
}
