package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSeries outputs per-period series in long form, dispatching based on the output format configured.
func WriteSeries(series []schema.Series, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if series == nil {
				series = []schema.Series{}
			}
			return writeJSON(w, series)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSeriesCSV(w, series)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSeriesTable(w, series, cfg, duration)
		}, "Wrote table")
	}
}

func seriesLabel(s schema.Series) string {
	return schema.Metric(s.Name).Label()
}

func writeSeriesTable(w io.Writer, series []schema.Series, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Série", "Período", "Valor"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	points := 0
	var data [][]string
	for _, s := range series {
		for _, p := range s.Points {
			data = append(data, []string{seriesLabel(s), p.Label, schema.FormatNumberBR(p.Value, 2)})
			points++
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	return writeFooter(w, cfg, duration, fmt.Sprintf("Showing %d series with %d points", len(series), points))
}

func writeSeriesCSV(w io.Writer, series []schema.Series) error {
	header := []string{"serie", "granularidade", "periodo", "rotulo", "valor"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range series {
			for _, p := range s.Points {
				rec := []string{s.Name, string(s.Granularity), strconv.Itoa(p.Period), p.Label, strconv.FormatFloat(p.Value, 'f', 2, 64)}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
