package api

import (
	"time"

	"github.com/louisbranch/threepoint/internal/pert"
	"github.com/louisbranch/threepoint/internal/services/estimator"
	"github.com/louisbranch/threepoint/internal/services/estimator/storage"
)

// EstimateRequest is the JSON body for estimate operations. Lambda nil means
// the classical PERT default; an empty percentile list derives no values.
type EstimateRequest struct {
	Optimistic  float64  `json:"optimistic"`
	MostLikely  float64  `json:"most_likely"`
	Pessimistic float64  `json:"pessimistic"`
	Lambda      *float64 `json:"lambda,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Percentiles []int    `json:"percentiles,omitempty"`
	Note        string   `json:"note,omitempty"`
}

// EstimateInputView echoes normalized inputs back to the caller.
type EstimateInputView struct {
	Optimistic  float64 `json:"optimistic"`
	MostLikely  float64 `json:"most_likely"`
	Pessimistic float64 `json:"pessimistic"`
	Lambda      float64 `json:"lambda"`
	Unit        string  `json:"unit"`
	Percentiles []int   `json:"percentiles"`
	Note        string  `json:"note,omitempty"`
}

// EstimateResultView carries the derived values.
type EstimateResultView struct {
	Mean        float64         `json:"mean"`
	Sigma       float64         `json:"sigma"`
	Percentiles map[int]float64 `json:"percentiles"`
}

// EstimationResponse is the payload for compute-only estimates.
type EstimationResponse struct {
	Input  EstimateInputView  `json:"input"`
	Result EstimateResultView `json:"result"`
}

// HistoryEntry is the JSON view of one saved estimate.
type HistoryEntry struct {
	ID        string             `json:"id"`
	Input     EstimateInputView  `json:"input"`
	Result    EstimateResultView `json:"result"`
	CreatedAt time.Time          `json:"created_at"`
}

// HistoryListResponse is one page of saved estimates, newest first.
type HistoryListResponse struct {
	Entries []HistoryEntry `json:"entries"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}

// InsightsResponse aggregates the stored history.
type InsightsResponse struct {
	Count    int     `json:"count"`
	MeanMin  float64 `json:"mean_min"`
	MeanMax  float64 `json:"mean_max"`
	MeanAvg  float64 `json:"mean_avg"`
	MeanP50  float64 `json:"mean_p50"`
	MeanP90  float64 `json:"mean_p90"`
	SigmaAvg float64 `json:"sigma_avg"`
}

// ConvertResponse is one unit conversion result.
type ConvertResponse struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// ZScoreEntry is one row of the fixed percentile table.
type ZScoreEntry struct {
	Percentile int     `json:"percentile"`
	Label      string  `json:"label"`
	Z          float64 `json:"z"`
}

// ZScoresResponse is the fixed percentile table, ascending.
type ZScoresResponse struct {
	ZScores []ZScoreEntry `json:"zscores"`
}

func toDomainRequest(req EstimateRequest) estimator.EstimateRequest {
	return estimator.EstimateRequest{
		Optimistic:  req.Optimistic,
		MostLikely:  req.MostLikely,
		Pessimistic: req.Pessimistic,
		Lambda:      req.Lambda,
		Unit:        req.Unit,
		Percentiles: req.Percentiles,
		Note:        req.Note,
	}
}

// NewEstimationResponse maps a computed estimation onto its wire shape. The
// estimate CLI reuses it so terminal JSON matches the API payload.
func NewEstimationResponse(est estimator.Estimation) EstimationResponse {
	return EstimationResponse{
		Input: EstimateInputView{
			Optimistic:  est.Optimistic,
			MostLikely:  est.MostLikely,
			Pessimistic: est.Pessimistic,
			Lambda:      est.Lambda,
			Unit:        string(est.Unit),
			Percentiles: percentileLevels(est.Percentiles),
			Note:        est.Note,
		},
		Result: EstimateResultView{
			Mean:        est.Mean,
			Sigma:       est.Sigma,
			Percentiles: percentileValues(est.PercentileValues),
		},
	}
}

// NewHistoryEntry maps a stored estimate onto its wire shape.
func NewHistoryEntry(entry storage.HistoryEntry) HistoryEntry {
	return HistoryEntry{
		ID: entry.ID,
		Input: EstimateInputView{
			Optimistic:  entry.Optimistic,
			MostLikely:  entry.MostLikely,
			Pessimistic: entry.Pessimistic,
			Lambda:      entry.Lambda,
			Unit:        entry.Unit,
			Percentiles: percentileLevels(entry.Percentiles),
			Note:        entry.Note,
		},
		Result: EstimateResultView{
			Mean:        entry.Mean,
			Sigma:       entry.Sigma,
			Percentiles: percentileValues(entry.PercentileValues),
		},
		CreatedAt: entry.CreatedAt,
	}
}

func percentileLevels(percentiles []pert.Percentile) []int {
	levels := make([]int, 0, len(percentiles))
	for _, p := range percentiles {
		levels = append(levels, p.Int())
	}
	return levels
}

func percentileValues(values map[pert.Percentile]float64) map[int]float64 {
	out := make(map[int]float64, len(values))
	for p, v := range values {
		out[p.Int()] = v
	}
	return out
}
