package history

import "fmt"

// Comparison is the change of one record between two runs.
type Comparison struct {
	Strategy   string
	Iterations int
	Size       int
	Prev       float64
	Curr       float64
	Diff       float64 // Percentage change
}

type recordKey struct {
	strategy         string
	iterations, size int
}

// Compare returns a comparison for every record present in both runs, in
// the order of curr.
func Compare(prev, curr Run) []Comparison {
	prevMap := make(map[recordKey]float64, len(prev.Records))
	for _, r := range prev.Records {
		prevMap[recordKey{r.Strategy, r.Iterations, r.Size}] = r.Seconds
	}

	var comparisons []Comparison
	for _, c := range curr.Records {
		p, ok := prevMap[recordKey{c.Strategy, c.Iterations, c.Size}]
		if !ok {
			continue
		}
		comp := Comparison{
			Strategy:   c.Strategy,
			Iterations: c.Iterations,
			Size:       c.Size,
			Prev:       p,
			Curr:       c.Seconds,
		}
		if p > 0 {
			comp.Diff = (c.Seconds - p) / p * 100
		}
		comparisons = append(comparisons, comp)
	}
	return comparisons
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s %d/%d: %+.2f%%", c.Strategy, c.Iterations, c.Size, c.Diff)
}
