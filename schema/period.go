package schema

import "fmt"

// Calendar bounds accepted for periods.
const (
	MinYear      = 1900
	MaxYear      = 2999
	MaxMonth     = 12
	MaxFortnight = 2
)

// Period locates a record in time. Month and Fortnight are zero when the
// record's granularity does not use them.
type Period struct {
	Year      int `json:"ano" yaml:"ano"`
	Month     int `json:"mes,omitempty" yaml:"mes,omitempty"`
	Fortnight int `json:"quinzena,omitempty" yaml:"quinzena,omitempty"`
}

// Validate checks the period against the fields the granularity requires.
func (p Period) Validate(g Granularity) error {
	if p.Year < MinYear || p.Year > MaxYear {
		return fmt.Errorf("%w: year %d outside %d-%d", ErrInvalidPeriod, p.Year, MinYear, MaxYear)
	}
	switch g {
	case MonthlyGranularity:
		if p.Month < 1 || p.Month > MaxMonth {
			return fmt.Errorf("%w: month %d outside 1-%d", ErrInvalidPeriod, p.Month, MaxMonth)
		}
	case FortnightlyGranularity:
		if p.Fortnight < 1 || p.Fortnight > MaxFortnight {
			return fmt.Errorf("%w: fortnight %d outside 1-%d", ErrInvalidPeriod, p.Fortnight, MaxFortnight)
		}
	}
	return nil
}

// Label renders the period the way export rows show it: "2024 - Q1", "2024 - M3" or "2024".
func (p Period) Label() string {
	switch {
	case p.Fortnight > 0:
		return fmt.Sprintf("%d - Q%d", p.Year, p.Fortnight)
	case p.Month > 0:
		return fmt.Sprintf("%d - M%d", p.Year, p.Month)
	default:
		return fmt.Sprintf("%d", p.Year)
	}
}

// PeriodFilter selects the records an engine call considers.
// Year is mandatory. Month narrows monthly metrics and Fortnight narrows
// fortnightly metrics; nil means the whole year.
type PeriodFilter struct {
	Year      int  `json:"year"`
	Month     *int `json:"month,omitempty"`
	Fortnight *int `json:"fortnight,omitempty"`
}

// NewPeriodFilter builds a validated filter. Zero month or fortnight means unset.
func NewPeriodFilter(year, month, fortnight int) (PeriodFilter, error) {
	f := PeriodFilter{Year: year}
	if month != 0 {
		f.Month = &month
	}
	if fortnight != 0 {
		f.Fortnight = &fortnight
	}
	if err := f.Validate(); err != nil {
		return PeriodFilter{}, err
	}
	return f, nil
}

// Validate checks the filter's fields against the calendar bounds.
func (f PeriodFilter) Validate() error {
	if f.Year < MinYear || f.Year > MaxYear {
		return fmt.Errorf("%w: year %d outside %d-%d", ErrInvalidPeriod, f.Year, MinYear, MaxYear)
	}
	if f.Month != nil && (*f.Month < 1 || *f.Month > MaxMonth) {
		return fmt.Errorf("%w: month %d outside 1-%d", ErrInvalidPeriod, *f.Month, MaxMonth)
	}
	if f.Fortnight != nil && (*f.Fortnight < 1 || *f.Fortnight > MaxFortnight) {
		return fmt.Errorf("%w: fortnight %d outside 1-%d", ErrInvalidPeriod, *f.Fortnight, MaxFortnight)
	}
	return nil
}

// Includes reports whether a record of the given metric and period falls inside the filter.
func (f PeriodFilter) Includes(m Metric, p Period) bool {
	if p.Year != f.Year {
		return false
	}
	switch m.Granularity() {
	case MonthlyGranularity:
		return f.Month == nil || *f.Month == p.Month
	case FortnightlyGranularity:
		return f.Fortnight == nil || *f.Fortnight == p.Fortnight
	default:
		return true
	}
}

// String renders the filter for headers and logs.
func (f PeriodFilter) String() string {
	s := fmt.Sprintf("ano %d", f.Year)
	if f.Month != nil {
		s += fmt.Sprintf(", mês %d", *f.Month)
	}
	if f.Fortnight != nil {
		s += fmt.Sprintf(", quinzena %d", *f.Fortnight)
	}
	return s
}
