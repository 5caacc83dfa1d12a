package estimator

import (
	"context"
	"fmt"

	"github.com/louisbranch/threepoint/internal/pert"
	apperrors "github.com/louisbranch/threepoint/internal/services/estimator/platform/errors"
	"github.com/montanaflynn/stats"
)

// Insights aggregates the stored history: how many estimates exist and how
// their means and sigmas are distributed. All values are rounded to two
// decimals. An empty history yields a zero-valued Insights, not an error.
type Insights struct {
	Count    int
	MeanMin  float64
	MeanMax  float64
	MeanAvg  float64
	MeanP50  float64
	MeanP90  float64
	SigmaAvg float64
}

// Insights computes aggregate statistics over every saved estimate.
func (s *Service) Insights(ctx context.Context) (Insights, error) {
	if s == nil || s.store == nil {
		return Insights{}, apperrors.E(apperrors.KindUnavailable, "history store is not configured")
	}

	var means stats.Float64Data
	var sigmas stats.Float64Data
	offset := 0
	for {
		entries, err := s.store.List(ctx, MaxHistoryLimit, offset)
		if err != nil {
			return Insights{}, fmt.Errorf("list history entries: %w", err)
		}
		for _, entry := range entries {
			means = append(means, entry.Mean)
			sigmas = append(sigmas, entry.Sigma)
		}
		if len(entries) < MaxHistoryLimit {
			break
		}
		offset += MaxHistoryLimit
	}

	if len(means) == 0 {
		return Insights{}, nil
	}

	min, err := means.Min()
	if err != nil {
		return Insights{}, fmt.Errorf("aggregate mean min: %w", err)
	}
	max, err := means.Max()
	if err != nil {
		return Insights{}, fmt.Errorf("aggregate mean max: %w", err)
	}
	avg, err := means.Mean()
	if err != nil {
		return Insights{}, fmt.Errorf("aggregate mean avg: %w", err)
	}
	sigmaAvg, err := sigmas.Mean()
	if err != nil {
		return Insights{}, fmt.Errorf("aggregate sigma avg: %w", err)
	}

	// A single sample needs no interpolation.
	p50, p90 := means[0], means[0]
	if len(means) > 1 {
		p50, err = means.Percentile(50)
		if err != nil {
			return Insights{}, fmt.Errorf("aggregate mean p50: %w", err)
		}
		p90, err = means.Percentile(90)
		if err != nil {
			return Insights{}, fmt.Errorf("aggregate mean p90: %w", err)
		}
	}

	return Insights{
		Count:    len(means),
		MeanMin:  pert.Round2(min),
		MeanMax:  pert.Round2(max),
		MeanAvg:  pert.Round2(avg),
		MeanP50:  pert.Round2(p50),
		MeanP90:  pert.Round2(p90),
		SigmaAvg: pert.Round2(sigmaAvg),
	}, nil
}
