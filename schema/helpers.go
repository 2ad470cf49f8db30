package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/locales/pt_BR"
)

// NoData is the display value of a cell without inputs.
const NoData = "-"

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// ptBR supplies the CLDR number symbols of Brazilian Portuguese.
var ptBR = pt_BR.New()

// FormatNumberBR formats v with pt-BR separators: "." for thousands and "," for decimals.
func FormatNumberBR(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NoData
	}
	return ptBR.FmtNumber(unsignedZero(v, decimals), uint64(max(decimals, 0)))
}

// FormatPercentBR formats a percentage with pt-BR separators, e.g. "88,5%".
func FormatPercentBR(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NoData
	}
	return ptBR.FmtPercent(unsignedZero(v, decimals), uint64(max(decimals, 0)))
}

// unsignedZero maps values that round to zero onto 0, so "-0,0" never renders.
func unsignedZero(v float64, decimals int) float64 {
	if strings.Trim(strconv.FormatFloat(math.Abs(v), 'f', max(decimals, 0), 64), "0.") == "" {
		return 0
	}
	return v
}

// FormatPercent renders a cell percentage, e.g. "95.0%".
func FormatPercent(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64) + "%"
}

// ParsePercent reads a value written by FormatPercent or FormatPercentBR.
func ParsePercent(s string) (float64, error) {
	return ParseDecimalInput(strings.TrimSuffix(strings.TrimSpace(s), "%"))
}

// FormatScore renders a quality score with two decimals.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ParseScore reads a value written by FormatScore.
func ParseScore(s string) (float64, error) {
	return ParseDecimalInput(s)
}

// ParseDecimalInput parses user decimal input, accepting a comma as the decimal separator.
func ParseDecimalInput(s string) (float64, error) {
	v := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if v == "" {
		return 0, fmt.Errorf("%w: empty decimal", ErrInvalidInput)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: decimal %q", ErrInvalidInput, s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: decimal %q is not finite", ErrInvalidInput, s)
	}
	return f, nil
}

// QuinzenaLabel returns "1ª Quinzena" or "2ª Quinzena".
func QuinzenaLabel(n int) string {
	return fmt.Sprintf("%dª Quinzena", n)
}

// MonthLabel returns the pt-BR month name, or the number when out of range.
func MonthLabel(m int) string {
	if m < 1 || m > MaxMonth {
		return strconv.Itoa(m)
	}
	return monthNames[m-1]
}

// PeriodLabel returns the series label for a period number of the given granularity.
func PeriodLabel(g Granularity, n int) string {
	switch g {
	case FortnightlyGranularity:
		return QuinzenaLabel(n)
	case MonthlyGranularity:
		return MonthLabel(n)
	default:
		return strconv.Itoa(n)
	}
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
