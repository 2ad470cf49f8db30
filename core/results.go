package core

import (
	"context"
	"fmt"
	"time"

	"github.com/farolescolar/farol/core/algo"
	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/schema"
	"github.com/google/uuid"
)

// Seams for deterministic export runs in tests.
var (
	newRunID = uuid.NewString
	nowFunc  = time.Now
)

// GetMatrixResults builds one row per school in scope with a cell per metric.
// Metrics whose fetch failed are reported per row as unavailable.
func GetMatrixResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.MatrixRow, error) {
	data, err := loadData(ctx, cfg, mgr, schema.AllMetrics)
	if err != nil {
		return nil, err
	}
	return algo.BuildMatrix(data.schools, data.records, cfg.Filter)
}

// GetRankingResults ranks the schools in scope by the gap between result and target
// of the configured ranking metric.
func GetRankingResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.GapEntry, error) {
	data, err := loadData(ctx, cfg, mgr, []schema.Metric{cfg.RankMetric})
	if err != nil {
		return nil, err
	}
	if err := requireAvailable(data.records, cfg.RankMetric); err != nil {
		return nil, err
	}
	inputs, err := algo.SchoolGapInputs(cfg.RankMetric, data.schools, data.records, cfg.Filter)
	if err != nil {
		return nil, err
	}
	return algo.RankByGap(inputs, cfg.Order, cfg.ResultLimit), nil
}

// GetRegionalRankingResults ranks regionals by the gap between the mean result of
// their schools and the mean of their schools' targets.
func GetRegionalRankingResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.GapEntry, error) {
	data, err := loadData(ctx, cfg, mgr, []schema.Metric{cfg.RankMetric})
	if err != nil {
		return nil, err
	}
	if err := requireAvailable(data.records, cfg.RankMetric); err != nil {
		return nil, err
	}
	inputs, err := algo.RegionalGapInputs(cfg.RankMetric, scopedRegionals(data), data.schools, data.records, cfg.Filter)
	if err != nil {
		return nil, err
	}
	return algo.RankByGap(inputs, cfg.Order, cfg.ResultLimit), nil
}

// scopedRegionals keeps the regionals that own at least one school in scope.
func scopedRegionals(data *loadedData) []schema.Regional {
	owned := make(map[string]bool, len(data.schools))
	for _, s := range data.schools {
		owned[s.RegionalID] = true
	}
	out := make([]schema.Regional, 0, len(data.regionals))
	for _, r := range data.regionals {
		if owned[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

// GetExportResults flattens every in-filter record into a classified row, stamped with a run ID.
func GetExportResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.ExportResult, error) {
	data, err := loadData(ctx, cfg, mgr, schema.AllMetrics)
	if err != nil {
		return schema.ExportResult{}, err
	}
	rows, err := algo.BuildExportRows(data.schools, data.regionals, data.records, cfg.Filter)
	if err != nil {
		return schema.ExportResult{}, err
	}
	return schema.ExportResult{
		RunID:       newRunID(),
		GeneratedAt: nowFunc().UTC(),
		Filter:      cfg.Filter,
		Rows:        rows,
	}, nil
}

// GetAttentionResults lists the schools with open classes, low teacher attendance or low quality.
func GetAttentionResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.AttentionEntry, error) {
	data, err := loadData(ctx, cfg, mgr, attentionMetrics)
	if err != nil {
		return nil, err
	}
	if err := requireAvailable(data.records, attentionMetrics...); err != nil {
		return nil, err
	}
	return algo.AttentionList(data.schools, data.regionals, data.records, cfg.Filter, algo.AttentionLimit)
}

// GetSeriesResults computes the per-period lines of the scope for the filter year.
// Series of metrics that could not be fetched are left out.
func GetSeriesResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.Series, error) {
	data, err := loadData(ctx, cfg, mgr, seriesMetrics)
	if err != nil {
		return nil, err
	}
	series, err := algo.BuildSeries(data.schools, data.records, cfg.Filter.Year)
	if err != nil {
		return nil, err
	}
	out := series[:0]
	for _, s := range series {
		if !data.records.IsUnavailable(schema.Metric(s.Name)) {
			out = append(out, s)
		}
	}
	return out, nil
}

// GetDistributionResults counts matrix cells per status.
func GetDistributionResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.Distribution, error) {
	rows, err := GetMatrixResults(ctx, cfg, mgr)
	if err != nil {
		return schema.Distribution{}, err
	}
	return algo.CountDistribution(rows, nil), nil
}

// describeScope is a short log-friendly form of the configured scope and period.
func describeScope(cfg *contract.Config) string {
	if cfg.Scope.SchoolID != "" {
		return fmt.Sprintf("%s, escola %s", cfg.Filter, cfg.Scope.SchoolID)
	}
	if cfg.Scope.RegionalID != "" {
		return fmt.Sprintf("%s, regional %s", cfg.Filter, cfg.Scope.RegionalID)
	}
	return cfg.Filter.String()
}
