package numeric

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/exp/constraints"
)

// Number is any element type the harness can benchmark.
type Number interface {
	constraints.Integer | constraints.Float
}

// Kind distinguishes integral from floating-point element types.
type Kind int

const (
	Integer Kind = iota
	Float
)

func (k Kind) String() string {
	if k == Float {
		return "float"
	}
	return "integer"
}

// ErrUnknownType is returned for data-type labels the harness does not know.
var ErrUnknownType = errors.New("unknown data type")

// Report labels for the supported element types.
const (
	LabelInt    = "int"
	LabelLong   = "long"
	LabelUint   = "uint"
	LabelUlong  = "ulong"
	LabelFloat  = "float"
	LabelDouble = "double"
)

var kinds = map[string]Kind{
	LabelInt:    Integer,
	LabelLong:   Integer,
	LabelUint:   Integer,
	LabelUlong:  Integer,
	LabelFloat:  Float,
	LabelDouble: Float,
}

// Label returns the report label for T.
func Label[T Number]() string {
	var zero T
	switch any(zero).(type) {
	case int32:
		return LabelInt
	case int64:
		return LabelLong
	case uint32:
		return LabelUint
	case uint64:
		return LabelUlong
	case float32:
		return LabelFloat
	case float64:
		return LabelDouble
	default:
		return fmt.Sprintf("%T", zero)
	}
}

// KindOf reports whether T is integral or floating point.
func KindOf[T Number]() Kind {
	var zero T
	switch any(zero).(type) {
	case float32, float64:
		return Float
	default:
		return Integer
	}
}

// Lookup validates a data-type label and returns its kind.
func Lookup(label string) (Kind, error) {
	k, ok := kinds[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q (known: %v)", ErrUnknownType, label, Labels())
	}
	return k, nil
}

// Labels returns every supported data-type label, sorted.
func Labels() []string {
	out := make([]string, 0, len(kinds))
	for l := range kinds {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
