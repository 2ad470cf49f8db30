// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteMatrix prints the farol matrix using the configured output format.
func (ow *OutWriter) WriteMatrix(rows []schema.MatrixRow, cfg *contract.Config, duration time.Duration) error {
	return WriteMatrix(rows, cfg, duration)
}

// WriteRanking prints a gap ranking using the configured output format.
func (ow *OutWriter) WriteRanking(title string, entries []schema.GapEntry, cfg *contract.Config, duration time.Duration) error {
	return WriteRanking(title, entries, cfg, duration)
}

// WriteExport prints or stores an export run using the configured output format.
func (ow *OutWriter) WriteExport(result schema.ExportResult, cfg *contract.Config, duration time.Duration) error {
	return WriteExport(result, cfg, duration)
}

// WriteAttention prints the attention list using the configured output format.
func (ow *OutWriter) WriteAttention(entries []schema.AttentionEntry, cfg *contract.Config, duration time.Duration) error {
	return WriteAttention(entries, cfg, duration)
}

// WriteSeries prints per-period series using the configured output format.
func (ow *OutWriter) WriteSeries(series []schema.Series, cfg *contract.Config, duration time.Duration) error {
	return WriteSeries(series, cfg, duration)
}

// WriteDistribution prints status counts using the configured output format.
func (ow *OutWriter) WriteDistribution(dist schema.Distribution, cfg *contract.Config, duration time.Duration) error {
	return WriteDistribution(dist, cfg, duration)
}

// WriteRules prints the classifier table using the configured output format.
func (ow *OutWriter) WriteRules(rules []schema.Rule, cfg *contract.Config) error {
	return WriteRules(rules, cfg)
}

// WriteCheck prints a red-budget check result using the configured output format.
func (ow *OutWriter) WriteCheck(result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	return WriteCheck(result, cfg, duration)
}

// WriteStoreStatus prints the record store status using the configured output format.
func (ow *OutWriter) WriteStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	return WriteStoreStatus(status, cfg)
}

// LogHeader prints a concise, 2-line header for a command on stderr.
func LogHeader(cfg *contract.Config, title string) {
	logHeaderTo(os.Stderr, cfg, title)
}

func logHeaderTo(w io.Writer, cfg *contract.Config, title string) {
	scope := "rede"
	switch {
	case cfg.Scope.SchoolID != "":
		scope = "escola " + cfg.Scope.SchoolID
	case cfg.Scope.RegionalID != "":
		scope = "regional " + cfg.Scope.RegionalID
	}
	_, _ = fmt.Fprintf(w, "🚦 Farol: %s (%s)\n", title, scope)
	_, _ = fmt.Fprintf(w, "📅 Período: %s\n", cfg.Filter)
}

// getMaxTableNameWidth calculates the maximum width for school names in table output
// based on terminal width and the number of value columns.
func getMaxTableNameWidth(cfg *contract.Config, valueColumns int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Value columns are short ("95.0%", "3/12", "indisponível") plus borders
	baseWidth := valueColumns*10 + 10

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 50 {
		return 50
	}
	return available
}

// writeFooter prints the closing summary line below a table.
func writeFooter(w io.Writer, cfg *contract.Config, duration time.Duration, summary string) error {
	if _, err := fmt.Fprintln(w, summary); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Completed in %v. Store backend: %s\n", duration, cfg.StoreBackend)
	return err
}
