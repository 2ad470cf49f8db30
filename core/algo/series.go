package algo

import (
	"sort"

	"github.com/farolescolar/farol/schema"
)

// seriesDecimals is the precision of series point values.
const seriesDecimals = 2

// ratio accumulates a numerator and denominator per period.
type ratio map[int]*[2]float64

func (r ratio) add(period int, num, den float64) {
	a, ok := r[period]
	if !ok {
		a = &[2]float64{}
		r[period] = a
	}
	a[0] += num
	a[1] += den
}

// points turns the accumulator into sorted points of scale*num/den, 0 when den is 0,
// rounded to seriesDecimals.
func (r ratio) points(g schema.Granularity, scale float64) []schema.SeriesPoint {
	periods := make([]int, 0, len(r))
	for p := range r {
		periods = append(periods, p)
	}
	sort.Ints(periods)
	out := make([]schema.SeriesPoint, 0, len(periods))
	for _, p := range periods {
		a := r[p]
		v := 0.0
		if a[1] != 0 {
			v = scale * a[0] / a[1]
		}
		out = append(out, schema.SeriesPoint{Period: p, Label: schema.PeriodLabel(g, p), Value: schema.Round(v, seriesDecimals)})
	}
	return out
}

// BuildSeries computes the per-period lines of the given scope for a whole year:
// attendance per staff category, routine compliance, open-class incidence and vacancy
// lead time per fortnight; infra completion, mean quality and mean NPS per month.
func BuildSeries(schools []schema.School, rs *schema.RecordSet, year int) ([]schema.Series, error) {
	g, err := groupRecords(schools, rs, schema.PeriodFilter{Year: year})
	if err != nil {
		return nil, err
	}
	attendance := make(map[schema.StaffCategory]ratio, len(schema.AllStaffCategories))
	for _, c := range schema.AllStaffCategories {
		attendance[c] = ratio{}
	}
	routine, openClass, leadTime := ratio{}, ratio{}, ratio{}
	infra, quality, nps := ratio{}, ratio{}, ratio{}

	for _, s := range schools {
		sr := g.records(s.ID)
		for c, recs := range sr.attendance {
			if _, _, err := SumAttendance(recs); err != nil {
				return nil, err
			}
			for _, r := range recs {
				attendance[c].add(r.Fortnight, r.Worked, r.Expected)
			}
		}
		if _, _, err := SumRoutine(sr.routine); err != nil {
			return nil, err
		}
		for _, r := range sr.routine {
			routine.add(r.Fortnight, float64(r.Completed), float64(r.Goal))
		}
		for _, r := range sr.openClass {
			flag := 0.0
			if r.HasOpenClass {
				flag = 1
			}
			openClass.add(r.Fortnight, flag, 1)
		}
		for _, r := range sr.vacancy {
			if _, err := ClassifyVacancy(r.TotalOpen, r.DaysOpen); err != nil {
				return nil, err
			}
			leadTime.add(r.Fortnight, float64(r.DaysOpen), float64(r.TotalOpen))
		}
		for _, r := range sr.infra {
			done := 0.0
			if r.Completed {
				done = 1
			}
			infra.add(r.Month, done, 1)
		}
		if _, err := MeanQuality(sr.quality); err != nil {
			return nil, err
		}
		for _, r := range sr.quality {
			quality.add(r.Month, r.Score, 1)
		}
		if _, err := MeanNPS(sr.nps); err != nil {
			return nil, err
		}
		for _, r := range sr.nps {
			nps.add(r.Month, r.NPS(), 1)
		}
	}

	fortnightly, monthly := schema.FortnightlyGranularity, schema.MonthlyGranularity
	out := make([]schema.Series, 0, 9)
	for _, c := range schema.AllStaffCategories {
		out = append(out, schema.Series{Name: string(schema.AttendanceMetric(c)), Granularity: fortnightly, Points: attendance[c].points(fortnightly, 100)})
	}
	out = append(out,
		schema.Series{Name: string(schema.RoutineMetric), Granularity: fortnightly, Points: routine.points(fortnightly, 100)},
		schema.Series{Name: string(schema.OpenClassMetric), Granularity: fortnightly, Points: openClass.points(fortnightly, 100)},
		schema.Series{Name: string(schema.VacancyMetric), Granularity: fortnightly, Points: leadTime.points(fortnightly, 1)},
		schema.Series{Name: string(schema.InfraMetric), Granularity: monthly, Points: infra.points(monthly, 100)},
		schema.Series{Name: string(schema.QualityMetric), Granularity: monthly, Points: quality.points(monthly, 1)},
		schema.Series{Name: string(schema.NPSMetric), Granularity: monthly, Points: nps.points(monthly, 1)},
	)
	return out, nil
}
