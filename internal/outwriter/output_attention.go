package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/schema"
	"github.com/olekukonko/tablewriter"
)

// WriteAttention outputs the schools needing attention, dispatching based on the output format configured.
func WriteAttention(entries []schema.AttentionEntry, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if entries == nil {
				entries = []schema.AttentionEntry{}
			}
			return writeJSON(w, entries)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"escola_id", "escola", "regional", "problemas"}, func(cw *csv.Writer) error {
				for _, e := range entries {
					if err := cw.Write([]string{e.SchoolID, e.SchoolName, e.RegionalName, strings.Join(e.Problems, "|")}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAttentionTable(w, entries, cfg, duration)
		}, "Wrote table")
	}
}

func writeAttentionTable(w io.Writer, entries []schema.AttentionEntry, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Escola", "Regional", "Problemas"})

	nameWidth := getMaxTableNameWidth(cfg, 4)
	var data [][]string
	for _, e := range entries {
		problems := strings.Join(e.Problems, "; ")
		if cfg.UseColors {
			problems = contract.RedColor.Sprint(problems)
		}
		data = append(data, []string{contract.TruncateText(e.SchoolName, nameWidth), e.RegionalName, problems})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	return writeFooter(w, cfg, duration, fmt.Sprintf("Showing %d schools needing attention", len(entries)))
}
