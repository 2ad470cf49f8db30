package algo

import (
	"fmt"

	"github.com/farolescolar/farol/schema"
)

// schoolRecords holds the in-filter records of one school.
type schoolRecords struct {
	openClass  []schema.OpenClassRecord
	attendance map[schema.StaffCategory][]schema.AttendanceRecord
	quality    []schema.QualityRecord
	infra      []schema.InfraRecord
	vacancy    []schema.VacancyRecord
	routine    []schema.RoutineRecord
	frequency  []schema.FrequencyRecord
	nps        []schema.NPSRecord
}

type targetKey struct {
	school string
	metric schema.Metric
}

// grouped is a RecordSet split per school, restricted to a PeriodFilter.
type grouped struct {
	filter   schema.PeriodFilter
	order    []schema.School
	bySchool map[string]*schoolRecords
	targets  map[targetKey]float64
}

func (g *grouped) records(schoolID string) *schoolRecords {
	return g.bySchool[schoolID]
}

// target returns the target of a school for the filter year, nil when absent.
func (g *grouped) target(schoolID string, m schema.Metric) *float64 {
	v, ok := g.targets[targetKey{school: schoolID, metric: m}]
	if !ok {
		return nil
	}
	return &v
}

// groupRecords validates the inputs and splits in-filter records per school.
func groupRecords(schools []schema.School, rs *schema.RecordSet, filter schema.PeriodFilter) (*grouped, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	g := &grouped{
		filter:   filter,
		order:    schools,
		bySchool: make(map[string]*schoolRecords, len(schools)),
		targets:  make(map[targetKey]float64),
	}
	for _, s := range schools {
		if _, dup := g.bySchool[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate school %q", schema.ErrInvalidInput, s.ID)
		}
		g.bySchool[s.ID] = &schoolRecords{attendance: make(map[schema.StaffCategory][]schema.AttendanceRecord)}
	}
	if rs == nil {
		return g, nil
	}

	for _, rec := range rs.All() {
		sr, ok := g.bySchool[rec.School()]
		if !ok {
			return nil, fmt.Errorf("%w: %s record for school %q", schema.ErrUnknownEntity, rec.Metric(), rec.School())
		}
		if err := rec.Period().Validate(rec.Metric().Granularity()); err != nil {
			return nil, fmt.Errorf("%s record for school %q: %w", rec.Metric(), rec.School(), err)
		}
		if !filter.Includes(rec.Metric(), rec.Period()) {
			continue
		}
		switch r := rec.(type) {
		case schema.OpenClassRecord:
			sr.openClass = append(sr.openClass, r)
		case schema.AttendanceRecord:
			if _, ok := schema.ValidStaffCategories[r.Category]; !ok {
				return nil, fmt.Errorf("%w: staff category %q", schema.ErrInvalidInput, r.Category)
			}
			sr.attendance[r.Category] = append(sr.attendance[r.Category], r)
		case schema.QualityRecord:
			sr.quality = append(sr.quality, r)
		case schema.InfraRecord:
			sr.infra = append(sr.infra, r)
		case schema.VacancyRecord:
			sr.vacancy = append(sr.vacancy, r)
		case schema.RoutineRecord:
			sr.routine = append(sr.routine, r)
		case schema.FrequencyRecord:
			sr.frequency = append(sr.frequency, r)
		case schema.NPSRecord:
			sr.nps = append(sr.nps, r)
		}
	}

	for _, t := range rs.Targets {
		if _, ok := g.bySchool[t.SchoolID]; !ok {
			return nil, fmt.Errorf("%w: %s target for school %q", schema.ErrUnknownEntity, t.Metric, t.SchoolID)
		}
		if _, ok := schema.TargetedMetrics[t.Metric]; !ok {
			return nil, fmt.Errorf("%w: metric %q takes no target", schema.ErrInvalidInput, t.Metric)
		}
		if err := checkFinite("target", t.Value); err != nil {
			return nil, err
		}
		if t.Year != filter.Year {
			continue
		}
		key := targetKey{school: t.SchoolID, metric: t.Metric}
		if _, dup := g.targets[key]; dup {
			return nil, fmt.Errorf("%w: duplicate %s target for school %q year %d", schema.ErrInvalidInput, t.Metric, t.SchoolID, t.Year)
		}
		g.targets[key] = t.Value
	}
	return g, nil
}

// cell computes the aggregated cell of one metric for one school.
func (g *grouped) cell(schoolID string, m schema.Metric) (schema.Cell, error) {
	sr := g.records(schoolID)
	switch m {
	case schema.OpenClassMetric:
		return AggregateOpenClass(sr.openClass), nil
	case schema.AttendanceTeachersMetric:
		return AggregateAttendance(sr.attendance[schema.TeachersStaff])
	case schema.AttendancePedagogicMetric:
		return AggregateAttendance(sr.attendance[schema.PedagogicalStaff])
	case schema.AttendanceSupportMetric:
		return AggregateAttendance(sr.attendance[schema.SupportStaff])
	case schema.QualityMetric:
		return AggregateQuality(sr.quality)
	case schema.InfraMetric:
		return AggregateInfra(sr.infra), nil
	case schema.VacancyMetric:
		return AggregateVacancy(sr.vacancy)
	case schema.RoutineMetric:
		return AggregateRoutine(sr.routine)
	case schema.FrequencyMetric:
		return AggregateFrequency(sr.frequency, g.target(schoolID, m))
	case schema.NPSMetric:
		return AggregateNPS(sr.nps, g.target(schoolID, m))
	default:
		return schema.Cell{}, fmt.Errorf("%w: unknown metric %q", schema.ErrInvalidInput, m)
	}
}

// result returns the aggregated raw result of a targeted metric, nil without records.
func (g *grouped) result(schoolID string, m schema.Metric) (*float64, error) {
	sr := g.records(schoolID)
	switch m {
	case schema.FrequencyMetric:
		return FrequencyResult(sr.frequency)
	case schema.NPSMetric:
		return MeanNPS(sr.nps)
	default:
		return nil, fmt.Errorf("%w: metric %q has no target", schema.ErrInvalidInput, m)
	}
}
