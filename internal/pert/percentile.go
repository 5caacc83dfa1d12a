package pert

import (
	"fmt"
	"math"
)

// Percentile identifies one of the supported confidence levels. The set is
// closed: only the four declared constants carry a z-score, and parsing
// rejects anything else, so an unsupported level cannot reach the
// arithmetic.
type Percentile int

const (
	P80 Percentile = 80
	P85 Percentile = 85
	P90 Percentile = 90
	P95 Percentile = 95
)

// Percentiles returns the supported levels in ascending order.
func Percentiles() []Percentile {
	return []Percentile{P80, P85, P90, P95}
}

// ParsePercentile converts a numeric level to a Percentile.
func ParsePercentile(level int) (Percentile, error) {
	p := Percentile(level)
	if !p.Valid() {
		return 0, fmt.Errorf("unsupported percentile %d", level)
	}
	return p, nil
}

// Valid reports whether p is one of the declared constants.
func (p Percentile) Valid() bool {
	switch p {
	case P80, P85, P90, P95:
		return true
	}
	return false
}

// ZScore returns the standard-normal quantile for p. The table is fixed at
// compile time and never derived numerically. An invalid percentile yields
// NaN.
func (p Percentile) ZScore() float64 {
	switch p {
	case P80:
		return 0.8416
	case P85:
		return 1.036
	case P90:
		return 1.2816
	case P95:
		return 1.6449
	}
	return math.NaN()
}

// Int returns the numeric level, e.g. 90 for P90.
func (p Percentile) Int() int {
	return int(p)
}

// String returns the display label, e.g. "P90".
func (p Percentile) String() string {
	return fmt.Sprintf("P%d", int(p))
}
