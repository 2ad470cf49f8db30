package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/farolescolar/farol/core"
	"github.com/farolescolar/farol/core/algo"
	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// periodConfig clones the base config and applies the period and scope arguments.
func (h *toolHandler) periodConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	year := request.GetInt("year", cfg.Filter.Year)
	month := request.GetInt("month", intOrZero(cfg.Filter.Month))
	fortnight := request.GetInt("fortnight", intOrZero(cfg.Filter.Fortnight))
	if err := contract.RevalidatePeriod(cfg, year, month, fortnight); err != nil {
		return nil, err
	}
	if r := request.GetString("regional", ""); r != "" {
		cfg.Scope.RegionalID = r
	}
	if s := request.GetString("school", ""); s != "" {
		cfg.Scope.SchoolID = s
	}
	return cfg, nil
}

// rankingConfig extends periodConfig with the ranking arguments.
func (h *toolHandler) rankingConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg, err := h.periodConfig(request)
	if err != nil {
		return nil, err
	}
	metric := request.GetString("metric", string(cfg.RankMetric))
	order := request.GetString("order", string(cfg.Order))
	limit := request.GetInt("limit", cfg.ResultLimit)
	if err := contract.RevalidateRanking(cfg, metric, order, limit); err != nil {
		return nil, err
	}
	return cfg, nil
}

func toolJSON(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func invalidParams(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err))
}

func (h *toolHandler) handleGetMatrix(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.periodConfig(request)
	if err != nil {
		return invalidParams(err), nil
	}

	rows, err := core.GetMatrixResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("matrix failed: %v", err)), nil
	}
	if rows == nil {
		rows = []schema.MatrixRow{}
	}
	return toolJSON(rows)
}

func (h *toolHandler) handleGetGapRanking(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.rankingConfig(request)
	if err != nil {
		return invalidParams(err), nil
	}

	ranked, err := core.GetRankingResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}
	if ranked == nil {
		ranked = []schema.GapEntry{}
	}
	return toolJSON(ranked)
}

func (h *toolHandler) handleGetRegionalRanking(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.rankingConfig(request)
	if err != nil {
		return invalidParams(err), nil
	}

	ranked, err := core.GetRegionalRankingResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("regional ranking failed: %v", err)), nil
	}
	if ranked == nil {
		ranked = []schema.GapEntry{}
	}
	return toolJSON(ranked)
}

func (h *toolHandler) handleGetAttention(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.periodConfig(request)
	if err != nil {
		return invalidParams(err), nil
	}

	entries, err := core.GetAttentionResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("attention list failed: %v", err)), nil
	}
	if entries == nil {
		entries = []schema.AttentionEntry{}
	}
	return toolJSON(entries)
}

func (h *toolHandler) handleGetSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.periodConfig(request)
	if err != nil {
		return invalidParams(err), nil
	}

	series, err := core.GetSeriesResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("series failed: %v", err)), nil
	}
	return toolJSON(series)
}

func (h *toolHandler) handleGetDistribution(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.periodConfig(request)
	if err != nil {
		return invalidParams(err), nil
	}

	dist, err := core.GetDistributionResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("distribution failed: %v", err)), nil
	}
	return toolJSON(dist)
}

func (h *toolHandler) handleCheckRedBudget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.periodConfig(request)
	if err != nil {
		return invalidParams(err), nil
	}
	maxRed := request.GetInt("max_red", cfg.MaxRed)
	if maxRed < 0 {
		return invalidParams(fmt.Errorf("max_red cannot be negative (received %d)", maxRed)), nil
	}
	cfg.MaxRed = maxRed
	if list := request.GetString("metrics", ""); list != "" {
		metrics, err := contract.ParseMetricList(list)
		if err != nil {
			return invalidParams(err), nil
		}
		cfg.CheckMetrics = metrics
	}

	result, err := core.GetCheckResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("check failed: %v", err)), nil
	}
	return toolJSON(result)
}

func (h *toolHandler) handleGetRules(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolJSON(algo.Rules())
}
