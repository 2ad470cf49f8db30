package algo

import (
	"github.com/farolescolar/farol/schema"
)

// BuildExportRows flattens every in-filter raw record into one classified row.
// Rows follow metric display order, then school order. Cell value and hint are carried unmodified.
func BuildExportRows(schools []schema.School, regionals []schema.Regional, rs *schema.RecordSet, filter schema.PeriodFilter) ([]schema.ExportRow, error) {
	g, err := groupRecords(schools, rs, filter)
	if err != nil {
		return nil, err
	}
	regionalNames := make(map[string]string, len(regionals))
	for _, r := range regionals {
		regionalNames[r.ID] = r.Name
	}

	var rows []schema.ExportRow
	emit := func(s schema.School, rec schema.MeasurementRecord, c schema.Cell) {
		rows = append(rows, schema.ExportRow{
			Metric:   rec.Metric(),
			Type:     rec.Metric().Label(),
			Regional: regionalNames[s.RegionalID],
			School:   s.Name,
			Period:   rec.Period().Label(),
			Value:    c.Value,
			Status:   c.Status,
			Details:  c.Hint,
		})
	}

	for _, m := range schema.AllMetrics {
		if rs != nil && rs.IsUnavailable(m) {
			continue
		}
		for _, s := range schools {
			sr := g.records(s.ID)
			switch m {
			case schema.OpenClassMetric:
				for _, r := range sr.openClass {
					emit(s, r, ClassifyOpenClass(r.HasOpenClass))
				}
			case schema.AttendanceTeachersMetric, schema.AttendancePedagogicMetric, schema.AttendanceSupportMetric:
				for _, r := range sr.attendance[categoryOf(m)] {
					c, err := ClassifyAttendance(r.Worked, r.Expected)
					if err != nil {
						return nil, err
					}
					emit(s, r, c)
				}
			case schema.QualityMetric:
				for _, r := range sr.quality {
					c, err := ClassifyQuality(&r.Score)
					if err != nil {
						return nil, err
					}
					emit(s, r, c)
				}
			case schema.InfraMetric:
				for _, r := range sr.infra {
					emit(s, r, AggregateInfra([]schema.InfraRecord{r}))
				}
			case schema.VacancyMetric:
				for _, r := range sr.vacancy {
					c, err := ClassifyVacancy(r.TotalOpen, r.DaysOpen)
					if err != nil {
						return nil, err
					}
					emit(s, r, c)
				}
			case schema.RoutineMetric:
				for _, r := range sr.routine {
					c, err := ClassifyRoutine(r.Completed, r.Goal)
					if err != nil {
						return nil, err
					}
					emit(s, r, c)
				}
			case schema.FrequencyMetric:
				for _, r := range sr.frequency {
					c, err := ClassifyFrequency(&r.Result, g.target(s.ID, m))
					if err != nil {
						return nil, err
					}
					emit(s, r, c)
				}
			case schema.NPSMetric:
				for _, r := range sr.nps {
					v := r.NPS()
					c, err := ClassifyNPS(&v, g.target(s.ID, m))
					if err != nil {
						return nil, err
					}
					emit(s, r, c)
				}
			}
		}
	}
	return rows, nil
}

func categoryOf(m schema.Metric) schema.StaffCategory {
	switch m {
	case schema.AttendancePedagogicMetric:
		return schema.PedagogicalStaff
	case schema.AttendanceSupportMetric:
		return schema.SupportStaff
	default:
		return schema.TeachersStaff
	}
}
