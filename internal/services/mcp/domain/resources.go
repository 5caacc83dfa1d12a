package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/louisbranch/threepoint/internal/platform/timeouts"
	"github.com/louisbranch/threepoint/internal/services/estimator/api"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// HistoryListEntry represents one readable saved estimate.
type HistoryListEntry struct {
	ID          string            `json:"id"`
	Optimistic  float64           `json:"optimistic"`
	MostLikely  float64           `json:"most_likely"`
	Pessimistic float64           `json:"pessimistic"`
	Lambda      float64           `json:"lambda"`
	Unit        string            `json:"unit"`
	Mean        float64           `json:"mean"`
	Sigma       float64           `json:"sigma"`
	Percentiles []PercentileValue `json:"percentiles,omitempty"`
	Note        string            `json:"note,omitempty"`
	CreatedAt   string            `json:"created_at"`
}

// HistoryListPayload represents the MCP resource payload for saved estimates.
type HistoryListPayload struct {
	Entries []HistoryListEntry `json:"entries"`
}

// ZScoreTableEntry represents one row of the percentile z-score table.
type ZScoreTableEntry struct {
	Percentile int     `json:"percentile"`
	Label      string  `json:"label"`
	Z          float64 `json:"z"`
}

// ZScoreTablePayload represents the MCP resource payload for the z-score table.
type ZScoreTablePayload struct {
	ZScores []ZScoreTableEntry `json:"zscores"`
}

// HistoryListResource defines the MCP resource for saved estimates.
func HistoryListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "history_list",
		Title:       "Saved estimates",
		Description: "Readable listing of saved three-point estimates, newest first",
		MIMEType:    "application/json",
		URI:         "history://list",
	}
}

// HistoryListResourceHandler returns a readable saved estimate listing.
func HistoryListResourceHandler(client *api.Client) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if client == nil {
			return nil, fmt.Errorf("estimator client is not configured")
		}

		uri := HistoryListResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		callCtx, cancel := context.WithTimeout(ctx, timeouts.HTTPRequest)
		defer cancel()

		response, err := client.History(callCtx, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("history list failed: %w", err)
		}

		payload := HistoryListPayload{}
		for _, entry := range response.Entries {
			payload.Entries = append(payload.Entries, historyListEntry(entry))
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal history list: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}

// ZScoreTableResource defines the MCP resource for the percentile z-score table.
func ZScoreTableResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "zscore_table",
		Title:       "Z-score table",
		Description: "Fixed z-scores for the supported completion percentiles",
		MIMEType:    "application/json",
		URI:         "zscores://table",
	}
}

// ZScoreTableResourceHandler returns the readable percentile z-score table.
func ZScoreTableResourceHandler(client *api.Client) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if client == nil {
			return nil, fmt.Errorf("estimator client is not configured")
		}

		uri := ZScoreTableResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		callCtx, cancel := context.WithTimeout(ctx, timeouts.HTTPRequest)
		defer cancel()

		response, err := client.ZScores(callCtx)
		if err != nil {
			return nil, fmt.Errorf("z-score table failed: %w", err)
		}

		payload := ZScoreTablePayload{}
		for _, entry := range response.ZScores {
			payload.ZScores = append(payload.ZScores, ZScoreTableEntry{
				Percentile: entry.Percentile,
				Label:      entry.Label,
				Z:          entry.Z,
			})
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal z-score table: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}

func historyListEntry(entry api.HistoryEntry) HistoryListEntry {
	return HistoryListEntry{
		ID:          entry.ID,
		Optimistic:  entry.Input.Optimistic,
		MostLikely:  entry.Input.MostLikely,
		Pessimistic: entry.Input.Pessimistic,
		Lambda:      entry.Input.Lambda,
		Unit:        entry.Input.Unit,
		Mean:        entry.Result.Mean,
		Sigma:       entry.Result.Sigma,
		Percentiles: percentileValues(entry.Result.Percentiles),
		Note:        entry.Input.Note,
		CreatedAt:   entry.CreatedAt.UTC().Format(time.RFC3339),
	}
}
