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

// WriteRanking outputs a gap ranking, dispatching based on the output format configured.
func WriteRanking(title string, entries []schema.GapEntry, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if entries == nil {
				entries = []schema.GapEntry{}
			}
			return writeJSON(w, entries)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingCSV(w, entries)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingTable(w, title, entries, cfg, duration)
		}, "Wrote table")
	}
}

// formatGap renders a signed gap, red when below target.
func formatGap(gap float64, useColors bool) string {
	s := fmt.Sprintf("%+.2f", gap)
	if !useColors {
		return s
	}
	if gap < 0 {
		return contract.RedColor.Sprint(s)
	}
	return contract.GreenColor.Sprint(s)
}

func writeRankingTable(w io.Writer, title string, entries []schema.GapEntry, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", title, "Resultado", "Meta", "Gap"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg, 4)
	var data [][]string
	for _, e := range entries {
		data = append(data, []string{
			strconv.Itoa(e.Rank),
			contract.TruncateText(e.Name, nameWidth),
			schema.FormatNumberBR(e.Result, 2),
			schema.FormatNumberBR(e.Target, 2),
			formatGap(e.Gap, cfg.UseColors),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	below := 0
	for _, e := range entries {
		if e.Gap < 0 {
			below++
		}
	}
	summary := fmt.Sprintf("Showing %d entries (%d below target, order: %s)", len(entries), below, cfg.Order)
	return writeFooter(w, cfg, duration, summary)
}

func writeRankingCSV(w io.Writer, entries []schema.GapEntry) error {
	header := []string{"rank", "id", "nome", "resultado", "meta", "gap"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, e := range entries {
			rec := []string{
				strconv.Itoa(e.Rank),
				e.ID,
				e.Name,
				strconv.FormatFloat(e.Result, 'f', 2, 64),
				strconv.FormatFloat(e.Target, 'f', 2, 64),
				strconv.FormatFloat(e.Gap, 'f', 2, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
