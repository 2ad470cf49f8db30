package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/internal/parquet"
	"github.com/farolescolar/farol/schema"
	"github.com/olekukonko/tablewriter"
)

// exportHeader is the column layout of CSV and text exports.
var exportHeader = []string{"Tipo", "Regional", "Escola", "Periodo", "Valor", "Farol", "Detalhes"}

// WriteExport outputs an export run, dispatching based on the output format configured.
// Parquet writes the rows to the output file and the run summary next to it.
func WriteExport(result schema.ExportResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if result.Rows == nil {
				result.Rows = []schema.ExportRow{}
			}
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeExportCSV(w, result.Rows)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeExportParquet(result, cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeExportTable(w, result, cfg, duration)
		}, "Wrote table")
	}
}

func exportRecord(row schema.ExportRow) []string {
	return []string{row.Type, row.Regional, row.School, row.Period, row.Value, contract.GetPlainLabel(row.Status), row.Details}
}

func writeExportCSV(w io.Writer, rows []schema.ExportRow) error {
	return writeCSVWithHeader(w, exportHeader, func(cw *csv.Writer) error {
		for _, row := range rows {
			if err := cw.Write(exportRecord(row)); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeExportTable(w io.Writer, result schema.ExportResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header(exportHeader)

	var data [][]string
	for _, row := range result.Rows {
		rec := exportRecord(row)
		rec[5] = statusLabel(row.Status, cfg.UseColors)
		data = append(data, rec)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	summary := fmt.Sprintf("Exported %d rows (run %s at %s)", len(result.Rows), result.RunID, result.GeneratedAt.Format(contract.DateTimeFormat))
	return writeFooter(w, cfg, duration, summary)
}

// runSummaryPath derives the run summary file from the rows file: export.parquet -> export_run.parquet.
func runSummaryPath(outputFile string) string {
	return strings.TrimSuffix(outputFile, ".parquet") + "_run.parquet"
}

func writeExportParquet(result schema.ExportResult, outputFile string) error {
	if outputFile == "" {
		return errors.New("parquet output requires --output-file")
	}
	run, records := parquet.ConvertExportResult(result)
	if err := parquet.WriteExportRecordsParquet(records, outputFile); err != nil {
		return err
	}
	summaryFile := runSummaryPath(outputFile)
	if err := parquet.WriteExportRunsParquet([]parquet.ExportRun{run}, summaryFile); err != nil {
		return err
	}
	contract.Logger().Info().Str("path", outputFile).Str("run_summary", summaryFile).Int("rows", len(records)).Msg("Wrote Parquet")
	return nil
}
