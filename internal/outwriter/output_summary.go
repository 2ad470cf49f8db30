package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/schema"
	"github.com/olekukonko/tablewriter"
)

// WriteDistribution outputs status counts, dispatching based on the output format configured.
func WriteDistribution(dist schema.Distribution, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, dist)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"farol", "total", "percentual"}, func(cw *csv.Writer) error {
				for _, row := range distributionRows(dist) {
					rec := []string{row.label, strconv.Itoa(row.count), strconv.FormatFloat(row.pct, 'f', 1, 64)}
					if err := cw.Write(rec); err != nil {
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
			return writeDistributionTable(w, dist, cfg, duration)
		}, "Wrote table")
	}
}

type distributionRow struct {
	label string
	farol schema.Farol
	count int
	pct   float64
}

// distributionRows lists the three statuses with their share of classified cells.
func distributionRows(dist schema.Distribution) []distributionRow {
	total := dist.Total()
	pct := func(n int) float64 {
		if total == 0 {
			return 0
		}
		return float64(n) * 100 / float64(total)
	}
	return []distributionRow{
		{contract.GetPlainLabel(schema.Green), schema.Green, dist.Green, pct(dist.Green)},
		{contract.GetPlainLabel(schema.Yellow), schema.Yellow, dist.Yellow, pct(dist.Yellow)},
		{contract.GetPlainLabel(schema.Red), schema.Red, dist.Red, pct(dist.Red)},
	}
}

func writeDistributionTable(w io.Writer, dist schema.Distribution, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Farol", "Total", "%"})
	var data [][]string
	for _, row := range distributionRows(dist) {
		data = append(data, []string{statusLabel(row.farol, cfg.UseColors), strconv.Itoa(row.count), schema.FormatPercentBR(row.pct, 1)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	summary := fmt.Sprintf("Classified %d cells (%d unavailable)", dist.Total(), dist.Unavailable)
	return writeFooter(w, cfg, duration, summary)
}

// WriteRules outputs the classifier table, dispatching based on the output format configured.
func WriteRules(rules []schema.Rule, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rules)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"metrica", "nome", "entradas", "regras", "sem_dados", "agregacao"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, r := range rules {
					rec := []string{string(r.Metric), r.Name, r.Inputs, strings.Join(r.Branches, "|"), r.NoData, r.Aggregate}
					if err := cw.Write(rec); err != nil {
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
			return writeRulesText(w, rules)
		}, "Wrote rules")
	}
}

func writeRulesText(w io.Writer, rules []schema.Rule) error {
	if _, err := fmt.Fprintln(w, "🚦 Farol classification rules"); err != nil {
		return err
	}
	for _, r := range rules {
		if _, err := fmt.Fprintf(w, "\n%s (%s)\n  Entradas: %s\n", r.Name, r.Metric, r.Inputs); err != nil {
			return err
		}
		for _, b := range r.Branches {
			if _, err := fmt.Fprintf(w, "  - %s\n", b); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "  Sem dados: %s\n  Agregação: %s\n", r.NoData, r.Aggregate); err != nil {
			return err
		}
	}
	return nil
}

// WriteCheck outputs a red-budget check, dispatching based on the output format configured.
func WriteCheck(result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"metrica", "vermelhos", "max_vermelhos", "aprovado"}, func(cw *csv.Writer) error {
				failed := make(map[schema.Metric]bool, len(result.Failed))
				for _, m := range result.Failed {
					failed[m] = true
				}
				for _, m := range checkedMetrics(result) {
					rec := []string{string(m), strconv.Itoa(result.RedCount[m]), strconv.Itoa(result.MaxRed), strconv.FormatBool(!failed[m])}
					if err := cw.Write(rec); err != nil {
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
			return writeCheckText(w, result, duration)
		}, "Wrote check")
	}
}

// checkedMetrics returns the metrics of a check in display order.
func checkedMetrics(result schema.CheckResult) []schema.Metric {
	var out []schema.Metric
	for _, m := range schema.AllMetrics {
		if _, ok := result.RedCount[m]; ok {
			out = append(out, m)
		}
	}
	return out
}

func writeCheckText(w io.Writer, result schema.CheckResult, duration time.Duration) error {
	var b strings.Builder
	b.WriteString("Red Budget Check Results:\n")
	fmt.Fprintf(&b, "  Período:  %s\n", result.Filter)
	fmt.Fprintf(&b, "  Max red:  %d per metric\n\n", result.MaxRed)
	fmt.Fprintf(&b, "Checked %d metrics in %v\n\n", len(result.RedCount), duration)

	if result.Passed {
		b.WriteString("✅ All metrics within the red budget\n")
	} else {
		fmt.Fprintf(&b, "❌ Red budget exceeded for %d metric(s)\n", len(result.Failed))
	}

	metrics := checkedMetrics(result)
	sort.SliceStable(metrics, func(i, j int) bool {
		return result.RedCount[metrics[i]] > result.RedCount[metrics[j]]
	})
	for _, m := range metrics {
		marker := " "
		if result.RedCount[m] > result.MaxRed {
			marker = "!"
		}
		fmt.Fprintf(&b, "  %s %s: %d red\n", marker, m.Label(), result.RedCount[m])
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteStoreStatus outputs the record store status.
func WriteStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeStoreStatusText(w, status)
	}, "Wrote status")
}

func writeStoreStatusText(w io.Writer, status schema.StoreStatus) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Store Backend: %s\n", status.Backend)
	fmt.Fprintf(&b, "Connected: %t\n", status.Connected)
	if status.Connected {
		fmt.Fprintf(&b, "Schema Version: %d (dirty: %t)\n", status.SchemaVersion, status.Dirty)
		fmt.Fprintf(&b, "Total Imports: %d\n", status.TotalBatches)
		if status.TotalBatches > 0 {
			fmt.Fprintf(&b, "Last Import: %s (%s)\n", status.LastBatchID, status.LastImportTime.Format(contract.DateTimeFormat))
		}
		b.WriteString("Table Sizes:\n")
		tables := make([]string, 0, len(status.TableSizes))
		for table := range status.TableSizes {
			tables = append(tables, table)
		}
		sort.Strings(tables)
		for _, table := range tables {
			fmt.Fprintf(&b, "  %s: %d rows\n", table, status.TableSizes[table])
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
