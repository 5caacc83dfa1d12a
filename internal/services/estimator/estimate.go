package estimator

import (
	"fmt"
	"math"
	"sort"

	"github.com/louisbranch/threepoint/internal/pert"
	apperrors "github.com/louisbranch/threepoint/internal/services/estimator/platform/errors"
)

// maxNoteLength bounds the free-form label attached to saved estimates.
const maxNoteLength = 500

// EstimateRequest carries raw estimate inputs from any surface. Lambda nil
// means the classical PERT default; an empty percentile list means no
// percentile values are derived.
type EstimateRequest struct {
	Optimistic  float64
	MostLikely  float64
	Pessimistic float64
	Lambda      *float64
	Unit        string
	Percentiles []int
	Note        string
}

// Estimation is one computed estimate with its normalized inputs.
type Estimation struct {
	Optimistic       float64
	MostLikely       float64
	Pessimistic      float64
	Lambda           float64
	Unit             Unit
	Percentiles      []pert.Percentile
	Mean             float64
	Sigma            float64
	PercentileValues map[pert.Percentile]float64
	Note             string
}

// Validate checks the domain rules the pert core deliberately does not
// enforce: finite positive inputs, optimistic <= most likely <= pessimistic,
// a positive lambda when given, a known unit, supported percentile levels,
// and a bounded note.
func (r EstimateRequest) Validate() error {
	for _, check := range []struct {
		name  string
		value float64
	}{
		{name: "optimistic", value: r.Optimistic},
		{name: "most likely", value: r.MostLikely},
		{name: "pessimistic", value: r.Pessimistic},
	} {
		if math.IsNaN(check.value) || math.IsInf(check.value, 0) {
			return apperrors.E(apperrors.KindInvalidInput, check.name+" must be a finite number")
		}
		if check.value <= 0 {
			return apperrors.E(apperrors.KindInvalidInput, check.name+" must be greater than zero")
		}
	}
	if r.MostLikely < r.Optimistic {
		return apperrors.E(apperrors.KindInvalidInput, "most likely must be greater than or equal to optimistic")
	}
	if r.Pessimistic < r.MostLikely {
		return apperrors.E(apperrors.KindInvalidInput, "pessimistic must be greater than or equal to most likely")
	}
	if r.Lambda != nil {
		lambda := *r.Lambda
		if math.IsNaN(lambda) || math.IsInf(lambda, 0) {
			return apperrors.E(apperrors.KindInvalidInput, "lambda must be a finite number")
		}
		if lambda <= 0 {
			return apperrors.E(apperrors.KindInvalidInput, "lambda must be greater than zero")
		}
	}
	if _, err := ParseUnit(r.Unit); err != nil {
		return err
	}
	for _, level := range r.Percentiles {
		if _, err := pert.ParsePercentile(level); err != nil {
			return apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("percentile must be one of 80, 85, 90, 95: got %d", level))
		}
	}
	if len(r.Note) > maxNoteLength {
		return apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("note must be at most %d characters", maxNoteLength))
	}
	return nil
}

// lambdaOrDefault resolves the effective lambda weight.
func (r EstimateRequest) lambdaOrDefault() float64 {
	if r.Lambda == nil {
		return pert.DefaultLambda
	}
	return *r.Lambda
}

// percentileSet resolves requested levels into an ascending, de-duplicated
// percentile list. The empty request stays empty; the caller asked for no
// derived values.
func (r EstimateRequest) percentileSet() []pert.Percentile {
	seen := make(map[pert.Percentile]bool, len(r.Percentiles))
	set := make([]pert.Percentile, 0, len(r.Percentiles))
	for _, level := range r.Percentiles {
		p, err := pert.ParsePercentile(level)
		if err != nil || seen[p] {
			continue
		}
		seen[p] = true
		set = append(set, p)
	}
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	return set
}
