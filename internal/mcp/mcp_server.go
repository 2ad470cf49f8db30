// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/farolescolar/farol/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// periodOptions are the filter arguments shared by every store-backed tool.
func periodOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("year", mcp.Description("Reference year (defaults to the configured year).")),
		mcp.WithNumber("month", mcp.Description("Month 1-12 narrowing monthly metrics. 0 means the whole year.")),
		mcp.WithNumber("fortnight", mcp.Description("Fortnight 1-2 narrowing fortnightly metrics. 0 means the whole year.")),
		mcp.WithString("regional", mcp.Description("Restrict the result to one regional id.")),
		mcp.WithString("school", mcp.Description("Restrict the result to one school id.")),
	}
}

// rankingOptions are the arguments of the gap ranking tools.
func rankingOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("metric", mcp.Description("Targeted metric to rank by. Defaults to 'freq'."), mcp.Enum("freq", "nps")),
		mcp.WithString("order", mcp.Description("Ranking order. 'asc' puts the largest shortfall first."), mcp.Enum("asc", "desc")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	}
}

func withOptions(name, description string, groups ...[]mcp.ToolOption) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(description)}
	for _, g := range groups {
		opts = append(opts, g...)
	}
	return mcp.NewTool(name, opts...)
}

// NewMCPServer initializes and configures the Farol MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Farol School Indicators Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	s.AddTool(withOptions("get_matrix",
		"Classify every school and metric as green, yellow or red for a period.",
		periodOptions()), h.handleGetMatrix)

	s.AddTool(withOptions("get_gap_ranking",
		"Rank schools by the gap between their result and target.",
		periodOptions(), rankingOptions()), h.handleGetGapRanking)

	s.AddTool(withOptions("get_regional_ranking",
		"Rank regionals by the gap between their mean result and mean target.",
		periodOptions(), rankingOptions()), h.handleGetRegionalRanking)

	s.AddTool(withOptions("get_attention",
		"List schools with open classes, low teacher attendance or low quality.",
		periodOptions()), h.handleGetAttention)

	s.AddTool(withOptions("get_series",
		"Aggregate each metric per month or fortnight of the year.",
		periodOptions()), h.handleGetSeries)

	s.AddTool(withOptions("get_distribution",
		"Count green, yellow and red cells of the matrix.",
		periodOptions()), h.handleGetDistribution)

	s.AddTool(withOptions("check_red_budget",
		"Verify that no metric has more red cells than allowed.",
		periodOptions(), []mcp.ToolOption{
			mcp.WithNumber("max_red", mcp.Description("Maximum red cells allowed per metric.")),
			mcp.WithString("metrics", mcp.Description("Comma-separated metric keys to check. Empty checks all.")),
		}), h.handleCheckRedBudget)

	s.AddTool(mcp.NewTool("get_rules",
		mcp.WithDescription("Describe the thresholds each metric uses to pick its color."),
	), h.handleGetRules)

	return s
}

// StartMCPServer starts the Farol MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
