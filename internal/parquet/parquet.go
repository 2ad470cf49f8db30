// Package parquet provides data structures and functions for exporting farol
// export runs to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/farolescolar/farol/schema"
	"github.com/parquet-go/parquet-go"
)

// ExportRun represents one export run with its period filter.
type ExportRun struct {
	// RunID is the UUID stamped on every row of the run
	RunID string `parquet:"run_id,snappy"`

	// GeneratedAt is when the export was built (stored as TIMESTAMP with nanosecond precision)
	GeneratedAt time.Time `parquet:"generated_at,snappy"`

	Year int32 `parquet:"year,snappy"`

	// Month is unset when the run covers the whole year
	Month *int32 `parquet:"month,optional,snappy"`

	// Fortnight is unset when the run covers both fortnights
	Fortnight *int32 `parquet:"fortnight,optional,snappy"`

	RowCount int32 `parquet:"row_count,snappy"`
}

// ExportRecord is one flattened classified record of an export run.
type ExportRecord struct {
	RunID    string `parquet:"run_id,snappy"`
	Metric   string `parquet:"metric,snappy"`
	Type     string `parquet:"tipo,snappy"`
	Regional string `parquet:"regional,snappy"`
	School   string `parquet:"escola,snappy"`
	Period   string `parquet:"periodo,snappy"`
	Value    string `parquet:"valor,snappy"`

	// Status carries the pt-BR label ("Verde", "Amarelo", "Vermelho")
	Status  string `parquet:"farol,snappy"`
	Details string `parquet:"detalhes,snappy"`
}

// ConvertExportResult splits an export result into its run summary and its rows.
func ConvertExportResult(result schema.ExportResult) (ExportRun, []ExportRecord) {
	run := ExportRun{
		RunID:       result.RunID,
		GeneratedAt: result.GeneratedAt,
		Year:        int32(result.Filter.Year),
		RowCount:    int32(len(result.Rows)),
	}
	if result.Filter.Month != nil {
		m := int32(*result.Filter.Month)
		run.Month = &m
	}
	if result.Filter.Fortnight != nil {
		f := int32(*result.Filter.Fortnight)
		run.Fortnight = &f
	}

	records := make([]ExportRecord, len(result.Rows))
	for i, row := range result.Rows {
		records[i] = ExportRecord{
			RunID:    result.RunID,
			Metric:   string(row.Metric),
			Type:     row.Type,
			Regional: row.Regional,
			School:   row.School,
			Period:   row.Period,
			Value:    row.Value,
			Status:   row.Status.Label(),
			Details:  row.Details,
		}
	}
	return run, records
}

// WriteExportRecords writes export rows as a Parquet stream to w.
func WriteExportRecords(w io.Writer, data []ExportRecord) error {
	return writeGeneric(w, data)
}

// WriteExportRuns writes export run summaries as a Parquet stream to w.
func WriteExportRuns(w io.Writer, data []ExportRun) error {
	return writeGeneric(w, data)
}

// WriteExportRecordsParquet writes export rows to a Parquet file.
func WriteExportRecordsParquet(data []ExportRecord, outputPath string) error {
	return writeFile(outputPath, func(w io.Writer) error {
		return WriteExportRecords(w, data)
	})
}

// WriteExportRunsParquet writes export run summaries to a Parquet file.
func WriteExportRunsParquet(data []ExportRun, outputPath string) error {
	return writeFile(outputPath, func(w io.Writer) error {
		return WriteExportRuns(w, data)
	})
}

func writeFile(outputPath string, write func(io.Writer) error) error {
	if outputPath == "" {
		return errors.New("parquet output requires --output-file")
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// writeGeneric infers the schema from the row type's struct tags.
func writeGeneric[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
