package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/farolescolar/farol/core/algo"
	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteMatrix outputs the matrix, dispatching based on the output format configured.
func WriteMatrix(rows []schema.MatrixRow, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMatrixJSON(w, rows, cfg.Filter)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMatrixCSV(w, rows)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMatrixTable(w, rows, cfg, duration)
		}, "Wrote table")
	}
}

// matrixValue returns the displayed value and status label of one metric of a row.
// Unavailable metrics have no status.
func matrixValue(row schema.MatrixRow, m schema.Metric) (value, status, hint string) {
	if reason, ok := row.Unavailable[m]; ok {
		return contract.UnavailableValue, "", reason
	}
	c := row.Cells[m]
	return c.Value, contract.GetPlainLabel(c.Status), c.Hint
}

func writeMatrixTable(w io.Writer, rows []schema.MatrixRow, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Escola"}
	for _, m := range schema.AllMetrics {
		headers = append(headers, m.Label())
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignCenter
	})

	nameWidth := getMaxTableNameWidth(cfg, len(schema.AllMetrics))
	var data [][]string
	for _, row := range rows {
		line := []string{contract.TruncateText(row.SchoolName, nameWidth)}
		for _, m := range schema.AllMetrics {
			if _, ok := row.Unavailable[m]; ok {
				line = append(line, contract.GetUnavailableLabel(cfg.UseColors))
				continue
			}
			line = append(line, cellText(row.Cells[m], cfg.UseColors))
		}
		data = append(data, line)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	dist := algo.CountDistribution(rows, nil)
	summary := fmt.Sprintf("Showing %d schools (verde: %d, amarelo: %d, vermelho: %d, indisponível: %d)",
		len(rows), dist.Green, dist.Yellow, dist.Red, dist.Unavailable)
	return writeFooter(w, cfg, duration, summary)
}

// writeMatrixCSV writes three columns per metric: value, status and hint.
func writeMatrixCSV(w io.Writer, rows []schema.MatrixRow) error {
	header := []string{"escola_id", "escola", "regional_id"}
	for _, m := range schema.AllMetrics {
		key := string(m)
		header = append(header, key, key+"_farol", key+"_detalhes")
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range rows {
			rec := []string{row.SchoolID, row.SchoolName, row.RegionalID}
			for _, m := range schema.AllMetrics {
				value, status, hint := matrixValue(row, m)
				rec = append(rec, value, status, hint)
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeMatrixJSON(w io.Writer, rows []schema.MatrixRow, filter schema.PeriodFilter) error {
	type jsonMatrix struct {
		Filter  schema.PeriodFilter `json:"filter"`
		Metrics []schema.Metric     `json:"metrics"`
		Rows    []schema.MatrixRow  `json:"rows"`
	}
	if rows == nil {
		rows = []schema.MatrixRow{}
	}
	return writeJSON(w, jsonMatrix{Filter: filter, Metrics: schema.AllMetrics, Rows: rows})
}
