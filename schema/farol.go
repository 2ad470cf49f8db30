package schema

import (
	"fmt"
	"strings"
)

// Farol is a traffic-light status. The numeric value is its severity.
type Farol int

// Farol values ordered by severity.
const (
	Green  Farol = 1
	Yellow Farol = 2
	Red    Farol = 3
)

// AllFarols lists every status from least to most severe.
var AllFarols = []Farol{Green, Yellow, Red}

var farolNames = map[Farol]string{
	Green:  "green",
	Yellow: "yellow",
	Red:    "red",
}

// farolLabels holds the pt-BR label used in exports and hints.
var farolLabels = map[Farol]string{
	Green:  "Verde",
	Yellow: "Amarelo",
	Red:    "Vermelho",
}

// String returns the canonical lowercase name.
func (f Farol) String() string {
	if n, ok := farolNames[f]; ok {
		return n
	}
	return fmt.Sprintf("farol(%d)", int(f))
}

// Label returns the pt-BR label, e.g. "Verde".
func (f Farol) Label() string {
	return farolLabels[f]
}

// Severity returns the position of the status in the severity order.
func (f Farol) Severity() int {
	return int(f)
}

// Valid reports whether f is one of the three statuses.
func (f Farol) Valid() bool {
	_, ok := farolNames[f]
	return ok
}

// MarshalText encodes the status by name so JSON and YAML carry "green" instead of 1.
func (f Farol) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: farol %d", ErrInvalidInput, int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText decodes a status name.
func (f *Farol) UnmarshalText(b []byte) error {
	parsed, err := ParseFarol(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFarol accepts the canonical name or the pt-BR label, case-insensitive.
func ParseFarol(s string) (Farol, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for f, name := range farolNames {
		if v == name || v == strings.ToLower(farolLabels[f]) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown farol %q", ErrInvalidInput, s)
}

// Worse returns the more severe of a and b, preferring a when equal.
func Worse(a, b Farol) Farol {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}
