package pert

import (
	"math"
	"reflect"
	"testing"
)

func TestMean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		o, m, p float64
		lambda  float64
		want    float64
	}{
		{name: "canonical", o: 2, m: 4, p: 10, lambda: 4, want: 28.0 / 6.0},
		{name: "degenerate", o: 5, m: 5, p: 5, lambda: 4, want: 5},
		{name: "zero lambda is midpoint", o: 2, m: 4, p: 10, lambda: 0, want: 6},
		{name: "heavy lambda leans on most likely", o: 1, m: 2, p: 9, lambda: 10, want: 30.0 / 12.0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Mean(tc.o, tc.m, tc.p, tc.lambda)
			if got != tc.want {
				t.Fatalf("Mean(%v, %v, %v, %v) = %v, want %v", tc.o, tc.m, tc.p, tc.lambda, got, tc.want)
			}
		})
	}
}

func TestMeanStaysWithinRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		o, m, p float64
		lambda  float64
	}{
		{o: 2, m: 4, p: 10, lambda: 4},
		{o: 0.5, m: 0.5, p: 0.5, lambda: 4},
		{o: 1, m: 1, p: 100, lambda: 4},
		{o: 1, m: 100, p: 100, lambda: 4},
		{o: 3, m: 17, p: 19, lambda: 1},
		{o: 0.01, m: 0.02, p: 0.03, lambda: 7},
	}

	for _, tc := range tests {
		got := Mean(tc.o, tc.m, tc.p, tc.lambda)
		if got < tc.o || got > tc.p {
			t.Fatalf("Mean(%v, %v, %v, %v) = %v, want within [%v, %v]", tc.o, tc.m, tc.p, tc.lambda, got, tc.o, tc.p)
		}
	}
}

func TestSigma(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		o, p float64
		want float64
	}{
		{name: "canonical", o: 2, p: 10, want: 8.0 / 6.0},
		{name: "exact unit", o: 1, p: 7, want: 1},
		{name: "exact half", o: 0, p: 3, want: 0.5},
		{name: "degenerate", o: 5, p: 5, want: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Sigma(tc.o, tc.p)
			if got != tc.want {
				t.Fatalf("Sigma(%v, %v) = %v, want %v", tc.o, tc.p, got, tc.want)
			}
		})
	}
}

func TestSigmaPreservesSign(t *testing.T) {
	t.Parallel()

	if got := Sigma(10, 2); got != -Sigma(2, 10) {
		t.Fatalf("Sigma(10, 2) = %v, want %v", got, -Sigma(2, 10))
	}
	if got := Sigma(10, 2); got >= 0 {
		t.Fatalf("Sigma(10, 2) = %v, want negative", got)
	}
}

func TestPercentileValueMonotonic(t *testing.T) {
	t.Parallel()

	mean := Mean(2, 4, 10, 4)
	sigma := Sigma(2, 10)

	prev := math.Inf(-1)
	for _, p := range Percentiles() {
		got := PercentileValue(mean, sigma, p)
		if got <= prev {
			t.Fatalf("PercentileValue(%v) = %v, want > %v", p, got, prev)
		}
		if got <= mean {
			t.Fatalf("PercentileValue(%v) = %v, want above mean %v", p, got, mean)
		}
		prev = got
	}
}

func TestRound2(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "exact half rounds away from zero", in: 0.125, want: 0.13},
		{name: "negative exact half rounds away from zero", in: -0.125, want: -0.13},
		{name: "inexact half follows binary value", in: 1.005, want: 1},
		{name: "repeating third", in: 28.0 / 6.0, want: 4.67},
		{name: "already two decimals", in: 6.38, want: 6.38},
		{name: "integer", in: 5, want: 5},
		{name: "negative", in: -4.666, want: -4.67},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := Round2(tc.in); got != tc.want {
				t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCalculateCanonicalScenario(t *testing.T) {
	t.Parallel()

	got := Calculate(Input{
		Optimistic:  2,
		MostLikely:  4,
		Pessimistic: 10,
		Lambda:      4,
		Percentiles: []Percentile{P80, P85, P90, P95},
	})

	if got.Mean != 4.67 {
		t.Fatalf("mean = %v, want 4.67", got.Mean)
	}
	if got.Sigma != 1.33 {
		t.Fatalf("sigma = %v, want 1.33", got.Sigma)
	}

	want := map[Percentile]float64{P80: 5.79, P85: 6.05, P90: 6.38, P95: 6.86}
	if !reflect.DeepEqual(got.Percentiles, want) {
		t.Fatalf("percentiles = %v, want %v", got.Percentiles, want)
	}
}

func TestCalculateEmptyPercentiles(t *testing.T) {
	t.Parallel()

	got := Calculate(Input{Optimistic: 2, MostLikely: 4, Pessimistic: 10, Lambda: 4})

	if got.Mean != 4.67 || got.Sigma != 1.33 {
		t.Fatalf("mean, sigma = %v, %v, want 4.67, 1.33", got.Mean, got.Sigma)
	}
	if got.Percentiles == nil {
		t.Fatal("percentiles map is nil, want empty")
	}
	if len(got.Percentiles) != 0 {
		t.Fatalf("percentiles = %v, want empty", got.Percentiles)
	}
}

func TestCalculateOnlyRequestedPercentiles(t *testing.T) {
	t.Parallel()

	got := Calculate(Input{
		Optimistic:  2,
		MostLikely:  4,
		Pessimistic: 10,
		Lambda:      4,
		Percentiles: []Percentile{P90},
	})

	if len(got.Percentiles) != 1 {
		t.Fatalf("percentiles = %v, want single P90 entry", got.Percentiles)
	}
	if got.Percentiles[P90] != 6.38 {
		t.Fatalf("P90 = %v, want 6.38", got.Percentiles[P90])
	}
}

func TestCalculateDegenerate(t *testing.T) {
	t.Parallel()

	got := Calculate(Input{
		Optimistic:  5,
		MostLikely:  5,
		Pessimistic: 5,
		Lambda:      4,
		Percentiles: Percentiles(),
	})

	if got.Mean != 5 || got.Sigma != 0 {
		t.Fatalf("mean, sigma = %v, %v, want 5, 0", got.Mean, got.Sigma)
	}
	for p, v := range got.Percentiles {
		if v != 5 {
			t.Fatalf("%v = %v, want 5", p, v)
		}
	}
}

func TestCalculateIdempotent(t *testing.T) {
	t.Parallel()

	in := Input{
		Optimistic:  1.5,
		MostLikely:  3.25,
		Pessimistic: 9.75,
		Lambda:      4,
		Percentiles: []Percentile{P80, P95},
	}

	first := Calculate(in)
	second := Calculate(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Calculate is not idempotent: %v vs %v", first, second)
	}
}

func TestCalculatePropagatesNonFinite(t *testing.T) {
	t.Parallel()

	got := Calculate(Input{
		Optimistic:  math.NaN(),
		MostLikely:  4,
		Pessimistic: 10,
		Lambda:      4,
		Percentiles: []Percentile{P90},
	})
	if !math.IsNaN(got.Mean) {
		t.Fatalf("mean = %v, want NaN", got.Mean)
	}
	if !math.IsNaN(got.Percentiles[P90]) {
		t.Fatalf("P90 = %v, want NaN", got.Percentiles[P90])
	}

	inf := Calculate(Input{Optimistic: 2, MostLikely: 4, Pessimistic: math.Inf(1), Lambda: 4})
	if !math.IsInf(inf.Mean, 1) {
		t.Fatalf("mean = %v, want +Inf", inf.Mean)
	}
}

func TestUnitConversions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{name: "forty hours is a week", got: HoursToDays(40), want: 5},
		{name: "five days is forty hours", got: DaysToHours(5), want: 40},
		{name: "half day", got: HoursToDays(4), want: 0.5},
		{name: "single hour rounds away from zero", got: HoursToDays(1), want: 0.13},
		{name: "quarter day", got: DaysToHours(0.25), want: 2},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if tc.got != tc.want {
				t.Fatalf("got %v, want %v", tc.got, tc.want)
			}
		})
	}
}

func TestUnitRoundTripTolerance(t *testing.T) {
	t.Parallel()

	hours := []float64{40, 1, 3.7, 0.33, 8.04, 100.27, 17.5, 0.125}
	for _, h := range hours {
		back := DaysToHours(HoursToDays(h))
		if diff := math.Abs(h - back); diff > 0.0625 {
			t.Fatalf("round trip of %v hours drifted by %v, want <= 0.0625", h, diff)
		}
	}
}
