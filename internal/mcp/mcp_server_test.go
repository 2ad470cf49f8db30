package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/farolescolar/farol/internal/contract"
	mcp_internal "github.com/farolescolar/farol/internal/mcp"
	"github.com/farolescolar/farol/internal/store"
	"github.com/farolescolar/farol/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		Filter:      schema.PeriodFilter{Year: 2024},
		RankMetric:  schema.FrequencyMetric,
		Order:       schema.AscendingOrder,
		ResultLimit: contract.DefaultResultLimit,
		Output:      schema.JSONOut,
	}
}

func newMockStore() (*store.MockStoreManager, *store.MockRecordStore) {
	rs := &store.MockRecordStore{}
	rs.On("ListRegionals", mock.Anything).Return([]schema.Regional{{ID: "r1", Name: "Norte"}}, nil).Maybe()
	rs.On("ListSchools", mock.Anything, mock.Anything).Return([]schema.School{
		{ID: "e1", Name: "Escola Alfa", RegionalID: "r1"},
		{ID: "e2", Name: "Escola Beta", RegionalID: "r1"},
	}, nil).Maybe()
	rs.On("FetchRecords", mock.Anything, schema.FrequencyMetric, 2024, mock.Anything).Return([]schema.MeasurementRecord{
		schema.FrequencyRecord{SchoolID: "e1", Year: 2024, Result: 93},
		schema.FrequencyRecord{SchoolID: "e2", Year: 2024, Result: 88},
	}, nil).Maybe()
	rs.On("FetchRecords", mock.Anything, mock.Anything, 2024, mock.Anything).Return(nil, nil).Maybe()
	rs.On("FetchTargets", mock.Anything, 2024, mock.Anything).Return([]schema.Target{
		{SchoolID: "e1", RegionalID: "r1", Year: 2024, Metric: schema.FrequencyMetric, Value: 90},
		{SchoolID: "e2", RegionalID: "r1", Year: 2024, Metric: schema.FrequencyMetric, Value: 92},
	}, nil).Maybe()

	mgr := &store.MockStoreManager{}
	mgr.On("GetRecordStore").Return(rs)
	return mgr, rs
}

func callTool(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	mgr, _ := newMockStore()
	s := mcp_internal.NewMCPServer(baseConfig(), mgr)

	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		contains string
	}{
		{"matrix invalid month", "get_matrix", map[string]any{"month": 13.0}, "invalid period"},
		{"series invalid fortnight", "get_series", map[string]any{"fortnight": 3.0}, "invalid period"},
		{"ranking untargeted metric", "get_gap_ranking", map[string]any{"metric": "qualidade"}, "invalid ranking metric"},
		{"regional ranking invalid order", "get_regional_ranking", map[string]any{"order": "up"}, "invalid order"},
		{"ranking limit too high", "get_gap_ranking", map[string]any{"limit": 5000.0}, "limit must be greater than 0"},
		{"check negative budget", "check_red_budget", map[string]any{"max_red": -1.0}, "max_red cannot be negative"},
		{"check unknown metric", "check_red_budget", map[string]any{"metrics": "freq,bogus"}, "unknown metric"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(res), tt.contains)
		})
	}
}

func TestMCPServerHandlers_GapRanking(t *testing.T) {
	res := callTool(t, "get_gap_ranking", map[string]any{"limit": 1.0})
	require.False(t, res.IsError, resultText(res))

	var ranked []schema.GapEntry
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &ranked))
	require.Len(t, ranked, 1)
	assert.Equal(t, "e2", ranked[0].ID)
	assert.InDelta(t, -4.0, ranked[0].Gap, 1e-9)
}

func TestMCPServerHandlers_Matrix(t *testing.T) {
	res := callTool(t, "get_matrix", map[string]any{"regional": "r1"})
	require.False(t, res.IsError, resultText(res))

	var rows []schema.MatrixRow
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Escola Alfa", rows[0].SchoolName)
}

func TestMCPServerHandlers_Rules(t *testing.T) {
	res := callTool(t, "get_rules", nil)
	require.False(t, res.IsError)

	var rules []schema.Rule
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &rules))
	assert.Len(t, rules, len(schema.AllMetrics))
}

func TestMCPServerHandlers_NoStore(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil)
	tool := s.GetTool("get_distribution")
	require.NotNil(t, tool)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "get_distribution"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "distribution failed")
}
