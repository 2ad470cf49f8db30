package schema

import "fmt"

// MeasurementRecord is one raw row of one metric for one school and period.
// Only the concrete record types in this package implement it.
type MeasurementRecord interface {
	Metric() Metric
	School() string
	Period() Period
	measurement()
}

// OpenClassRecord flags whether a school had classes without a teacher in a fortnight.
type OpenClassRecord struct {
	SchoolID     string `json:"escola_id" yaml:"escola_id" validate:"required"`
	Year         int    `json:"ano" yaml:"ano" validate:"gte=1900,lte=2999"`
	Fortnight    int    `json:"quinzena" yaml:"quinzena" validate:"gte=1,lte=2"`
	HasOpenClass bool   `json:"aulas_vagas" yaml:"aulas_vagas"`
}

// AttendanceRecord holds days worked against days expected for one staff category.
type AttendanceRecord struct {
	SchoolID  string        `json:"escola_id" yaml:"escola_id" validate:"required"`
	Category  StaffCategory `json:"categoria" yaml:"categoria" validate:"oneof=teachers pedagogical support"`
	Year      int           `json:"ano" yaml:"ano" validate:"gte=1900,lte=2999"`
	Fortnight int           `json:"quinzena" yaml:"quinzena" validate:"gte=1,lte=2"`
	Worked    float64       `json:"dias_trabalhados" yaml:"dias_trabalhados" validate:"gte=0"`
	Expected  float64       `json:"dias_deveriam" yaml:"dias_deveriam" validate:"gte=0"`
}

// QualityRecord holds a monthly quality score on a 0-5 scale.
type QualityRecord struct {
	SchoolID string  `json:"escola_id" yaml:"escola_id" validate:"required"`
	Year     int     `json:"ano" yaml:"ano" validate:"gte=1900,lte=2999"`
	Month    int     `json:"mes" yaml:"mes" validate:"gte=1,lte=12"`
	Score    float64 `json:"pontuacao" yaml:"pontuacao" validate:"gte=0,lte=5"`
}

// InfraRecord flags whether the month's infrastructure plan was completed.
type InfraRecord struct {
	SchoolID  string `json:"escola_id" yaml:"escola_id" validate:"required"`
	Year      int    `json:"ano" yaml:"ano" validate:"gte=1900,lte=2999"`
	Month     int    `json:"mes" yaml:"mes" validate:"gte=1,lte=12"`
	Completed bool   `json:"concluidas" yaml:"concluidas"`
}

// VacancyRecord holds the open staff vacancies of a fortnight and how long they stayed open.
type VacancyRecord struct {
	SchoolID  string `json:"escola_id" yaml:"escola_id" validate:"required"`
	Year      int    `json:"ano" yaml:"ano" validate:"gte=1900,lte=2999"`
	Fortnight int    `json:"quinzena" yaml:"quinzena" validate:"gte=1,lte=2"`
	TotalOpen int    `json:"total_vagas" yaml:"total_vagas" validate:"gte=0"`
	DaysOpen  int    `json:"dias_em_aberto" yaml:"dias_em_aberto" validate:"gte=0"`
}

// RoutineRecord holds routines completed against the routine goal of a fortnight.
type RoutineRecord struct {
	SchoolID  string `json:"escola_id" yaml:"escola_id" validate:"required"`
	Year      int    `json:"ano" yaml:"ano" validate:"gte=1900,lte=2999"`
	Fortnight int    `json:"quinzena" yaml:"quinzena" validate:"gte=1,lte=2"`
	Completed int    `json:"rotinas_cumpridas" yaml:"rotinas_cumpridas" validate:"gte=0,ltefield=Goal"`
	Goal      int    `json:"meta_rotinas" yaml:"meta_rotinas" validate:"gte=0"`
}

// FrequencyRecord holds a school's annual student frequency in percent.
type FrequencyRecord struct {
	SchoolID string  `json:"escola_id" yaml:"escola_id" validate:"required"`
	Year     int     `json:"ano" yaml:"ano" validate:"gte=1900,lte=2999"`
	Result   float64 `json:"resultado" yaml:"resultado" validate:"gte=0,lte=100"`
}

// NPSRecord holds the monthly promoter and detractor shares of a satisfaction survey.
type NPSRecord struct {
	SchoolID      string  `json:"escola_id" yaml:"escola_id" validate:"required"`
	Year          int     `json:"ano" yaml:"ano" validate:"gte=1900,lte=2999"`
	Month         int     `json:"mes" yaml:"mes" validate:"gte=1,lte=12"`
	PromotersPct  float64 `json:"percentual_promotores" yaml:"percentual_promotores" validate:"gte=0,lte=100"`
	DetractorsPct float64 `json:"percentual_detratores" yaml:"percentual_detratores" validate:"gte=0,lte=100"`
}

// NPS returns promoters minus detractors.
func (r NPSRecord) NPS() float64 {
	return r.PromotersPct - r.DetractorsPct
}

// Target is a per-school annual goal for frequency or NPS.
type Target struct {
	SchoolID   string  `json:"escola_id" yaml:"escola_id" validate:"required"`
	RegionalID string  `json:"regional_id" yaml:"regional_id"`
	Year       int     `json:"ano" yaml:"ano" validate:"gte=1900,lte=2999"`
	Metric     Metric  `json:"metrica" yaml:"metrica" validate:"oneof=freq nps"`
	Value      float64 `json:"meta" yaml:"meta"`
}

func (r OpenClassRecord) Metric() Metric  { return OpenClassMetric }
func (r AttendanceRecord) Metric() Metric { return AttendanceMetric(r.Category) }
func (r QualityRecord) Metric() Metric    { return QualityMetric }
func (r InfraRecord) Metric() Metric      { return InfraMetric }
func (r VacancyRecord) Metric() Metric    { return VacancyMetric }
func (r RoutineRecord) Metric() Metric    { return RoutineMetric }
func (r FrequencyRecord) Metric() Metric  { return FrequencyMetric }
func (r NPSRecord) Metric() Metric        { return NPSMetric }

func (r OpenClassRecord) School() string  { return r.SchoolID }
func (r AttendanceRecord) School() string { return r.SchoolID }
func (r QualityRecord) School() string    { return r.SchoolID }
func (r InfraRecord) School() string      { return r.SchoolID }
func (r VacancyRecord) School() string    { return r.SchoolID }
func (r RoutineRecord) School() string    { return r.SchoolID }
func (r FrequencyRecord) School() string  { return r.SchoolID }
func (r NPSRecord) School() string        { return r.SchoolID }

func (r OpenClassRecord) Period() Period  { return Period{Year: r.Year, Fortnight: r.Fortnight} }
func (r AttendanceRecord) Period() Period { return Period{Year: r.Year, Fortnight: r.Fortnight} }
func (r QualityRecord) Period() Period    { return Period{Year: r.Year, Month: r.Month} }
func (r InfraRecord) Period() Period      { return Period{Year: r.Year, Month: r.Month} }
func (r VacancyRecord) Period() Period    { return Period{Year: r.Year, Fortnight: r.Fortnight} }
func (r RoutineRecord) Period() Period    { return Period{Year: r.Year, Fortnight: r.Fortnight} }
func (r FrequencyRecord) Period() Period  { return Period{Year: r.Year} }
func (r NPSRecord) Period() Period        { return Period{Year: r.Year, Month: r.Month} }

func (OpenClassRecord) measurement()  {}
func (AttendanceRecord) measurement() {}
func (QualityRecord) measurement()    {}
func (InfraRecord) measurement()      {}
func (VacancyRecord) measurement()    {}
func (RoutineRecord) measurement()    {}
func (FrequencyRecord) measurement()  {}
func (NPSRecord) measurement()        {}

// RecordSet holds the fully materialized input of one engine call, one typed
// slice per record kind. Unavailable names metrics whose fetch failed.
type RecordSet struct {
	OpenClass   []OpenClassRecord
	Attendance  []AttendanceRecord
	Quality     []QualityRecord
	Infra       []InfraRecord
	Vacancy     []VacancyRecord
	Routine     []RoutineRecord
	Frequency   []FrequencyRecord
	NPS         []NPSRecord
	Targets     []Target
	Unavailable map[Metric]string
}

// Add routes a record into its typed slice.
func (s *RecordSet) Add(rec MeasurementRecord) error {
	switch r := rec.(type) {
	case OpenClassRecord:
		s.OpenClass = append(s.OpenClass, r)
	case AttendanceRecord:
		s.Attendance = append(s.Attendance, r)
	case QualityRecord:
		s.Quality = append(s.Quality, r)
	case InfraRecord:
		s.Infra = append(s.Infra, r)
	case VacancyRecord:
		s.Vacancy = append(s.Vacancy, r)
	case RoutineRecord:
		s.Routine = append(s.Routine, r)
	case FrequencyRecord:
		s.Frequency = append(s.Frequency, r)
	case NPSRecord:
		s.NPS = append(s.NPS, r)
	default:
		return fmt.Errorf("%w: unsupported record type %T", ErrInvalidInput, rec)
	}
	return nil
}

// MarkUnavailable records that a metric could not be fetched.
func (s *RecordSet) MarkUnavailable(m Metric, reason string) {
	if s.Unavailable == nil {
		s.Unavailable = make(map[Metric]string)
	}
	s.Unavailable[m] = reason
}

// IsUnavailable reports whether the metric's fetch failed.
func (s *RecordSet) IsUnavailable(m Metric) bool {
	_, ok := s.Unavailable[m]
	return ok
}

// All returns every measurement record in metric display order.
func (s *RecordSet) All() []MeasurementRecord {
	var out []MeasurementRecord
	for _, r := range s.Frequency {
		out = append(out, r)
	}
	for _, r := range s.OpenClass {
		out = append(out, r)
	}
	for _, c := range AllStaffCategories {
		for _, r := range s.Attendance {
			if r.Category == c {
				out = append(out, r)
			}
		}
	}
	for _, r := range s.NPS {
		out = append(out, r)
	}
	for _, r := range s.Quality {
		out = append(out, r)
	}
	for _, r := range s.Infra {
		out = append(out, r)
	}
	for _, r := range s.Vacancy {
		out = append(out, r)
	}
	for _, r := range s.Routine {
		out = append(out, r)
	}
	return out
}
