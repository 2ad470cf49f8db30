package core

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/farolescolar/farol/internal/contract"
	"github.com/robfig/cron/v3"
)

// scheduledFileLayout stamps each scheduled run's output file.
const scheduledFileLayout = "20060102T150405"

// ExecuteExport writes one export run. With a schedule configured it keeps running,
// exporting on every cron tick until the context is cancelled.
func ExecuteExport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.Schedule == "" {
		return runExport(ctx, cfg, mgr)
	}
	return runScheduledExport(ctx, cfg, mgr)
}

func runExport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	logHeader(ctx, cfg, "Exportação")
	result, err := GetExportResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	contract.Logger().Debug().Str("run_id", result.RunID).Int("rows", len(result.Rows)).Msg("Export built")
	return writer.WriteExport(result, cfg, time.Since(start))
}

func runScheduledExport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	c := cron.New()
	_, err := c.AddFunc(cfg.Schedule, func() {
		runCfg := cfg.Clone()
		runCfg.OutputFile = scheduledOutputFile(cfg.OutputFile, nowFunc())
		if err := runExport(WithSuppressHeader(ctx), runCfg, mgr); err != nil {
			contract.LogWarn("Scheduled export failed", err)
		}
	})
	if err != nil {
		return err
	}

	contract.Logger().Info().Str("schedule", cfg.Schedule).Msg("Export scheduler started")
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	contract.Logger().Info().Msg("Export scheduler stopped")
	return nil
}

// scheduledOutputFile inserts a timestamp before the extension: export.csv -> export-20240301T060000.csv.
// An empty path stays empty so runs go to stdout.
func scheduledOutputFile(path string, t time.Time) string {
	if path == "" {
		return ""
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + t.Format(scheduledFileLayout) + ext
}
