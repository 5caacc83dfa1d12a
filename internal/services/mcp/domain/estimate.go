package domain

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/louisbranch/threepoint/internal/platform/timeouts"
	"github.com/louisbranch/threepoint/internal/services/estimator/api"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// EstimateInput represents the MCP tool input for three-point estimates.
type EstimateInput struct {
	Optimistic  float64  `json:"optimistic" jsonschema:"optimistic estimate (best case)"`
	MostLikely  float64  `json:"most_likely" jsonschema:"most likely estimate"`
	Pessimistic float64  `json:"pessimistic" jsonschema:"pessimistic estimate (worst case)"`
	Lambda      *float64 `json:"lambda,omitempty" jsonschema:"optional weight on the most likely estimate, defaults to 4"`
	Percentiles []int    `json:"percentiles,omitempty" jsonschema:"completion percentiles to derive (80, 85, 90, 95)"`
	Unit        string   `json:"unit,omitempty" jsonschema:"unit of the estimates (hours or days), defaults to hours"`
	Note        string   `json:"note,omitempty" jsonschema:"optional note stored with the estimate"`
	Save        bool     `json:"save,omitempty" jsonschema:"persist the estimate to history"`
}

// PercentileValue pairs a completion percentile with its derived estimate.
type PercentileValue struct {
	Percentile int     `json:"percentile" jsonschema:"completion percentile"`
	Value      float64 `json:"value" jsonschema:"estimate at the percentile"`
}

// EstimateResult represents the MCP tool output for three-point estimates.
type EstimateResult struct {
	Optimistic  float64           `json:"optimistic" jsonschema:"normalized optimistic estimate"`
	MostLikely  float64           `json:"most_likely" jsonschema:"normalized most likely estimate"`
	Pessimistic float64           `json:"pessimistic" jsonschema:"normalized pessimistic estimate"`
	Lambda      float64           `json:"lambda" jsonschema:"weight applied to the most likely estimate"`
	Unit        string            `json:"unit" jsonschema:"unit of every value in the result"`
	Mean        float64           `json:"mean" jsonschema:"beta-PERT expected value"`
	Sigma       float64           `json:"sigma" jsonschema:"beta-PERT standard deviation"`
	Percentiles []PercentileValue `json:"percentiles,omitempty" jsonschema:"derived percentile estimates, ascending"`
	Note        string            `json:"note,omitempty" jsonschema:"note stored with the estimate"`
	EntryID     string            `json:"entry_id,omitempty" jsonschema:"history entry identifier when saved"`
	CreatedAt   string            `json:"created_at,omitempty" jsonschema:"RFC3339 save time when saved"`
}

// EstimateTool defines the MCP tool schema for three-point estimates.
func EstimateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "estimate",
		Description: "Computes a beta-PERT estimate from optimistic, most likely, and pessimistic values",
	}
}

// EstimateHandler executes an estimate request against the estimator API.
func EstimateHandler(client *api.Client) mcp.ToolHandlerFor[EstimateInput, EstimateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EstimateInput) (*mcp.CallToolResult, EstimateResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeouts.HTTPRequest)
		defer cancel()

		req := api.EstimateRequest{
			Optimistic:  input.Optimistic,
			MostLikely:  input.MostLikely,
			Pessimistic: input.Pessimistic,
			Lambda:      input.Lambda,
			Unit:        input.Unit,
			Percentiles: input.Percentiles,
			Note:        input.Note,
		}

		if input.Save {
			entry, err := client.SaveEstimate(callCtx, req)
			if err != nil {
				return nil, EstimateResult{}, fmt.Errorf("estimate failed: %w", err)
			}
			result := estimateResult(entry.Input, entry.Result)
			result.EntryID = entry.ID
			result.CreatedAt = entry.CreatedAt.UTC().Format(time.RFC3339)
			return nil, result, nil
		}

		response, err := client.Estimate(callCtx, req)
		if err != nil {
			return nil, EstimateResult{}, fmt.Errorf("estimate failed: %w", err)
		}
		return nil, estimateResult(response.Input, response.Result), nil
	}
}

func estimateResult(input api.EstimateInputView, result api.EstimateResultView) EstimateResult {
	return EstimateResult{
		Optimistic:  input.Optimistic,
		MostLikely:  input.MostLikely,
		Pessimistic: input.Pessimistic,
		Lambda:      input.Lambda,
		Unit:        input.Unit,
		Mean:        result.Mean,
		Sigma:       result.Sigma,
		Percentiles: percentileValues(result.Percentiles),
		Note:        input.Note,
	}
}

// percentileValues flattens a percentile map into an ascending slice.
func percentileValues(values map[int]float64) []PercentileValue {
	if len(values) == 0 {
		return nil
	}
	levels := make([]int, 0, len(values))
	for level := range values {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	out := make([]PercentileValue, 0, len(levels))
	for _, level := range levels {
		out = append(out, PercentileValue{Percentile: level, Value: values[level]})
	}
	return out
}
