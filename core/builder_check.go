package core

import (
	"context"
	"fmt"

	"github.com/farolescolar/farol/core/algo"
	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/schema"
)

// CheckResultBuilder builds the red-budget check result using a builder pattern.
type CheckResultBuilder struct {
	ctx      context.Context
	cfg      *contract.Config
	mgr      contract.StoreManager
	metrics  []schema.Metric
	data     *loadedData
	rows     []schema.MatrixRow
	redCount map[schema.Metric]int
	failed   []schema.Metric
	result   *schema.CheckResult
}

// NewCheckResultBuilder creates a new builder for check results.
func NewCheckResultBuilder(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) *CheckResultBuilder {
	metrics := cfg.CheckMetrics
	if len(metrics) == 0 {
		metrics = schema.AllMetrics
	}
	return &CheckResultBuilder{ctx: ctx, cfg: cfg, mgr: mgr, metrics: metrics}
}

// LoadRecords fetches the records of the checked metrics. Every checked metric must be available.
func (b *CheckResultBuilder) LoadRecords() (*CheckResultBuilder, error) {
	data, err := loadData(b.ctx, b.cfg, b.mgr, b.metrics)
	if err != nil {
		return nil, err
	}
	if err := requireAvailable(data.records, b.metrics...); err != nil {
		return nil, fmt.Errorf("cannot verify the red budget: %w", err)
	}
	b.data = data
	return b, nil
}

// BuildMatrix classifies the loaded records.
func (b *CheckResultBuilder) BuildMatrix() (*CheckResultBuilder, error) {
	rows, err := algo.BuildMatrix(b.data.schools, b.data.records, b.cfg.Filter)
	if err != nil {
		return nil, err
	}
	b.rows = rows
	return b, nil
}

// ComputeRedCounts counts red cells per checked metric and flags those over budget.
func (b *CheckResultBuilder) ComputeRedCounts() *CheckResultBuilder {
	b.redCount = algo.CountRed(b.rows, b.metrics)
	b.failed = []schema.Metric{}
	for _, m := range b.metrics {
		if b.redCount[m] > b.cfg.MaxRed {
			b.failed = append(b.failed, m)
		}
	}
	return b
}

// BuildResult constructs the final CheckResult.
func (b *CheckResultBuilder) BuildResult() *CheckResultBuilder {
	b.result = &schema.CheckResult{
		Filter:   b.cfg.Filter,
		MaxRed:   b.cfg.MaxRed,
		RedCount: b.redCount,
		Failed:   b.failed,
		Passed:   len(b.failed) == 0,
	}
	return b
}

// GetResult returns the built CheckResult.
func (b *CheckResultBuilder) GetResult() *schema.CheckResult {
	return b.result
}

// GetCheckResults runs every builder step and returns the check result.
func GetCheckResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.CheckResult, error) {
	builder := NewCheckResultBuilder(ctx, cfg, mgr)
	if _, err := builder.LoadRecords(); err != nil {
		return nil, err
	}
	if _, err := builder.BuildMatrix(); err != nil {
		return nil, err
	}
	return builder.ComputeRedCounts().BuildResult().GetResult(), nil
}
