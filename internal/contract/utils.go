package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/farolescolar/farol/schema"
	"github.com/fatih/color"
)

// UnavailableValue marks a metric whose records could not be fetched.
const UnavailableValue = "indisponível"

// Color variables for console output.
var (
	GreenColor       = color.New(color.FgGreen, color.Bold)  // GreenColor marks a metric on track.
	YellowColor      = color.New(color.FgYellow, color.Bold) // YellowColor marks a metric needing attention.
	RedColor         = color.New(color.FgRed, color.Bold)    // RedColor marks a metric off track.
	UnavailableColor = color.New(color.FgHiBlack)            // UnavailableColor marks missing data, apart from red.
)

// GetPlainLabel returns the pt-BR status label used for CSV, JSON, and table printing.
func GetPlainLabel(f schema.Farol) string {
	if l := f.Label(); l != "" {
		return l
	}
	return f.String()
}

// GetColorLabel returns a colored status label for console output (table).
func GetColorLabel(f schema.Farol) string {
	text := GetPlainLabel(f)

	switch f {
	case schema.Green:
		return GreenColor.Sprint(text)
	case schema.Yellow:
		return YellowColor.Sprint(text)
	case schema.Red:
		return RedColor.Sprint(text)
	default:
		return text
	}
}

// GetColorCell renders a cell value tinted by its status.
func GetColorCell(c schema.Cell) string {
	switch c.Status {
	case schema.Green:
		return GreenColor.Sprint(c.Value)
	case schema.Yellow:
		return YellowColor.Sprint(c.Value)
	case schema.Red:
		return RedColor.Sprint(c.Value)
	default:
		return c.Value
	}
}

// GetUnavailableLabel returns the unavailable marker, colored when requested.
func GetUnavailableLabel(useColors bool) string {
	if useColors {
		return UnavailableColor.Sprint(UnavailableValue)
	}
	return UnavailableValue
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetDBFilePath returns the path to the SQLite DB file for the record store.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".farol.db"
	}
	return filepath.Join(homeDir, ".farol.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the "..." suffix and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
