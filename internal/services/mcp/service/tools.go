package service

import (
	"github.com/louisbranch/threepoint/internal/services/estimator/api"
	"github.com/louisbranch/threepoint/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerEstimatorTools(mcpServer *mcp.Server, client *api.Client) {
	mcp.AddTool(mcpServer, domain.EstimateTool(), domain.EstimateHandler(client))
	mcp.AddTool(mcpServer, domain.ConvertUnitsTool(), domain.ConvertUnitsHandler(client))
}

// registerEstimatorResources registers readable estimator MCP resources.
func registerEstimatorResources(mcpServer *mcp.Server, client *api.Client) {
	mcpServer.AddResource(domain.HistoryListResource(), domain.HistoryListResourceHandler(client))
	mcpServer.AddResource(domain.ZScoreTableResource(), domain.ZScoreTableResourceHandler(client))
}
