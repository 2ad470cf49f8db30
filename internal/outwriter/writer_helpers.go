package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/schema"
)

// errParquetUnsupported is returned by writers whose output has no columnar form.
var errParquetUnsupported = errors.New("parquet output is only supported by the export command")

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		contract.Logger().Info().Str("path", outputFile).Msg(successMsg)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// statusLabel returns the pt-BR status label, colored for terminals when requested.
func statusLabel(f schema.Farol, useColors bool) string {
	if useColors {
		return contract.GetColorLabel(f)
	}
	return contract.GetPlainLabel(f)
}

// cellText renders a matrix cell for table output.
func cellText(c schema.Cell, useColors bool) string {
	if useColors {
		return contract.GetColorCell(c)
	}
	return c.Value
}
