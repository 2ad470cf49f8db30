// Package core has the orchestration logic: it loads records from the store,
// runs the farol engine and hands results to the output writer.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/farolescolar/farol/core/algo"
	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/internal/outwriter"
)

// ErrRedBudgetExceeded is returned by ExecuteCheck when a metric has more red cells than allowed.
var ErrRedBudgetExceeded = errors.New("red budget exceeded")

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

var writer = outwriter.NewOutWriter()

// logHeader prints the command header unless the context suppresses it.
func logHeader(ctx context.Context, cfg *contract.Config, title string) {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogHeader(cfg, title)
	}
	contract.Logger().Debug().Str("command", title).Str("scope", describeScope(cfg)).Msg("Running")
}

// ExecuteMatrix builds the farol matrix and prints it.
func ExecuteMatrix(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	logHeader(ctx, cfg, "Matriz")
	rows, err := GetMatrixResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteMatrix(rows, cfg, time.Since(start))
}

// ExecuteRanking ranks schools by target gap and prints the ranking.
func ExecuteRanking(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	logHeader(ctx, cfg, fmt.Sprintf("Ranking de %s por escola", cfg.RankMetric.Label()))
	ranked, err := GetRankingResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteRanking("Escola", ranked, cfg, time.Since(start))
}

// ExecuteRegionalRanking ranks regionals by target gap and prints the ranking.
func ExecuteRegionalRanking(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	logHeader(ctx, cfg, fmt.Sprintf("Ranking de %s por regional", cfg.RankMetric.Label()))
	ranked, err := GetRegionalRankingResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteRanking("Regional", ranked, cfg, time.Since(start))
}

// ExecuteAttention prints the schools needing attention.
func ExecuteAttention(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	logHeader(ctx, cfg, "Escolas que precisam de atenção")
	entries, err := GetAttentionResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteAttention(entries, cfg, time.Since(start))
}

// ExecuteSeries prints the per-period series of the filter year.
func ExecuteSeries(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	logHeader(ctx, cfg, "Séries por período")
	series, err := GetSeriesResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteSeries(series, cfg, time.Since(start))
}

// ExecuteDistribution prints the green, yellow and red cell counts of the matrix.
func ExecuteDistribution(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	logHeader(ctx, cfg, "Distribuição de faróis")
	dist, err := GetDistributionResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteDistribution(dist, cfg, time.Since(start))
}

// ExecuteRules displays the classifier table.
// This is a static display that does not require the record store.
func ExecuteRules(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	return writer.WriteRules(algo.Rules(), cfg)
}

// ExecuteCheck runs the red-budget gate and returns ErrRedBudgetExceeded when it fails.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := GetCheckResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if err := writer.WriteCheck(*result, cfg, time.Since(start)); err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("%w: %d metric(s) over %d red cells", ErrRedBudgetExceeded, len(result.Failed), cfg.MaxRed)
	}
	return nil
}

// ExecuteStoreStatus prints the record store status.
func ExecuteStoreStatus(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if mgr == nil || mgr.GetRecordStore() == nil {
		return errNoStore
	}
	status, err := mgr.GetRecordStore().GetStatus(ctx)
	if err != nil {
		return err
	}
	return writer.WriteStoreStatus(status, cfg)
}
