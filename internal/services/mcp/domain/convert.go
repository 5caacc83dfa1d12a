package domain

import (
	"context"
	"fmt"

	"github.com/louisbranch/threepoint/internal/platform/timeouts"
	"github.com/louisbranch/threepoint/internal/services/estimator/api"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ConvertInput represents the MCP tool input for unit conversion.
type ConvertInput struct {
	Value float64 `json:"value" jsonschema:"value to convert"`
	To    string  `json:"to" jsonschema:"target unit (hours or days)"`
}

// ConvertResult represents the MCP tool output for unit conversion.
type ConvertResult struct {
	Value float64 `json:"value" jsonschema:"converted value"`
	Unit  string  `json:"unit" jsonschema:"target unit"`
}

// ConvertUnitsTool defines the MCP tool schema for unit conversion.
func ConvertUnitsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "convert_units",
		Description: "Converts an estimate value between hours and days at eight hours per day",
	}
}

// ConvertUnitsHandler executes a unit conversion against the estimator API.
func ConvertUnitsHandler(client *api.Client) mcp.ToolHandlerFor[ConvertInput, ConvertResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ConvertInput) (*mcp.CallToolResult, ConvertResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeouts.HTTPRequest)
		defer cancel()

		response, err := client.Convert(callCtx, input.Value, input.To)
		if err != nil {
			return nil, ConvertResult{}, fmt.Errorf("convert units failed: %w", err)
		}
		return nil, ConvertResult{Value: response.Value, Unit: response.Unit}, nil
	}
}
