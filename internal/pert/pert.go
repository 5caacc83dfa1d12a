package pert

import "math"

// HoursPerDay is the fixed workday length used by the unit conversions.
const HoursPerDay = 8.0

// DefaultLambda is the weight given to the most likely estimate when a
// request does not choose one.
const DefaultLambda = 4.0

// Input is a three-point estimate plus the percentile levels to derive.
type Input struct {
	Optimistic  float64
	MostLikely  float64
	Pessimistic float64
	Lambda      float64
	Percentiles []Percentile
}

// Result is the derived estimate. Mean and Sigma are always present;
// Percentiles holds one entry per requested level and nothing else. All
// values are rounded to two decimals.
type Result struct {
	Mean        float64
	Sigma       float64
	Percentiles map[Percentile]float64
}

// Mean returns the beta-PERT weighted mean (o + lambda*m + p) / (lambda + 2).
// With o == m == p it degenerates to that common value, and lambda == 0
// degrades to the midpoint of o and p.
func Mean(optimistic, mostLikely, pessimistic, lambda float64) float64 {
	return (optimistic + lambda*mostLikely + pessimistic) / (lambda + 2)
}

// Sigma returns the PERT spread (p - o) / 6. The sign follows the spread:
// a pessimistic value below the optimistic one yields a negative sigma
// rather than an error, since ordering is enforced upstream.
func Sigma(optimistic, pessimistic float64) float64 {
	return (pessimistic - optimistic) / 6
}

// PercentileValue returns mean + z*sigma for the given level.
func PercentileValue(mean, sigma float64, p Percentile) float64 {
	return mean + p.ZScore()*sigma
}

// Round2 rounds x to two decimal places. Exact halves round away from zero:
// 0.125 becomes 0.13 and -0.125 becomes -0.13. Most decimal halves, such as
// 1.005, have no exact float64 form and round by their true binary value
// instead.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Calculate derives the rounded mean, sigma and requested percentile values
// for in. Percentile values are computed from the unrounded mean and sigma;
// rounding happens once, at the end. Calculate is idempotent: equal inputs
// always produce equal results.
func Calculate(in Input) Result {
	mean := Mean(in.Optimistic, in.MostLikely, in.Pessimistic, in.Lambda)
	sigma := Sigma(in.Optimistic, in.Pessimistic)

	out := Result{
		Mean:        Round2(mean),
		Sigma:       Round2(sigma),
		Percentiles: make(map[Percentile]float64, len(in.Percentiles)),
	}
	for _, p := range in.Percentiles {
		out.Percentiles[p] = Round2(PercentileValue(mean, sigma, p))
	}
	return out
}

// HoursToDays converts hours to days at HoursPerDay and rounds the result.
func HoursToDays(hours float64) float64 {
	return Round2(hours / HoursPerDay)
}

// DaysToHours converts days to hours at HoursPerDay and rounds the result.
func DaysToHours(days float64) float64 {
	return Round2(days * HoursPerDay)
}
