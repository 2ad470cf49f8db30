package algo

import (
	"fmt"

	"github.com/farolescolar/farol/schema"
)

// Worst returns the most severe cell, keeping the first one on ties.
// It reports false for an empty slice.
func Worst(cells []schema.Cell) (schema.Cell, bool) {
	if len(cells) == 0 {
		return schema.Cell{}, false
	}
	worst := cells[0]
	for _, c := range cells[1:] {
		if schema.Worse(worst.Status, c.Status) != worst.Status {
			worst = c
		}
	}
	return worst, true
}

// AggregateOpenClass is red when any record flags an open class.
func AggregateOpenClass(recs []schema.OpenClassRecord) schema.Cell {
	return ClassifyOpenClass(AnyOpenClass(recs))
}

// AnyOpenClass reports whether any record flags an open class.
func AnyOpenClass(recs []schema.OpenClassRecord) bool {
	for _, r := range recs {
		if r.HasOpenClass {
			return true
		}
	}
	return false
}

// SumAttendance sums worked and expected days across records.
func SumAttendance(recs []schema.AttendanceRecord) (worked, expected float64, err error) {
	for _, r := range recs {
		if err := checkNonNegative("worked days", r.Worked); err != nil {
			return 0, 0, err
		}
		if err := checkNonNegative("expected days", r.Expected); err != nil {
			return 0, 0, err
		}
		worked += r.Worked
		expected += r.Expected
	}
	return worked, expected, nil
}

// AggregateAttendance sums days first and classifies the single resulting ratio.
func AggregateAttendance(recs []schema.AttendanceRecord) (schema.Cell, error) {
	worked, expected, err := SumAttendance(recs)
	if err != nil {
		return schema.Cell{}, err
	}
	return ClassifyAttendance(worked, expected)
}

// MeanQuality averages the scores. It returns nil without records.
func MeanQuality(recs []schema.QualityRecord) (*float64, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	var sum float64
	for _, r := range recs {
		if err := checkNonNegative("quality score", r.Score); err != nil {
			return nil, err
		}
		if r.Score > QualityMaxScore {
			return nil, fmt.Errorf("%w: quality score %v above %v", schema.ErrInvalidInput, r.Score, QualityMaxScore)
		}
		sum += r.Score
	}
	mean := sum / float64(len(recs))
	return &mean, nil
}

// AggregateQuality classifies the mean score.
func AggregateQuality(recs []schema.QualityRecord) (schema.Cell, error) {
	mean, err := MeanQuality(recs)
	if err != nil {
		return schema.Cell{}, err
	}
	return ClassifyQuality(mean)
}

// InfraStateOf resolves records into the tri-state: completed only when there
// is at least one record and every record is completed.
func InfraStateOf(recs []schema.InfraRecord) InfraState {
	if len(recs) == 0 {
		return InfraNoData
	}
	for _, r := range recs {
		if !r.Completed {
			return InfraPending
		}
	}
	return InfraCompleted
}

// AggregateInfra classifies the resolved infrastructure state.
func AggregateInfra(recs []schema.InfraRecord) schema.Cell {
	return ClassifyInfra(InfraStateOf(recs))
}

// AggregateVacancy classifies each record and keeps the worst one.
// Without records the school has no open vacancies.
func AggregateVacancy(recs []schema.VacancyRecord) (schema.Cell, error) {
	if len(recs) == 0 {
		return schema.Cell{Value: "0/0", Status: schema.Green, Hint: hintNoVacancyData}, nil
	}
	cells := make([]schema.Cell, 0, len(recs))
	for _, r := range recs {
		c, err := ClassifyVacancy(r.TotalOpen, r.DaysOpen)
		if err != nil {
			return schema.Cell{}, err
		}
		cells = append(cells, c)
	}
	worst, _ := Worst(cells)
	return worst, nil
}

// SumRoutine sums completed routines and goals across records.
func SumRoutine(recs []schema.RoutineRecord) (completed, goal int, err error) {
	for _, r := range recs {
		if r.Completed < 0 || r.Goal < 0 {
			return 0, 0, fmt.Errorf("%w: negative routine count (%d/%d)", schema.ErrInvalidInput, r.Completed, r.Goal)
		}
		completed += r.Completed
		goal += r.Goal
	}
	return completed, goal, nil
}

// AggregateRoutine sums counts first and classifies the single resulting ratio.
func AggregateRoutine(recs []schema.RoutineRecord) (schema.Cell, error) {
	completed, goal, err := SumRoutine(recs)
	if err != nil {
		return schema.Cell{}, err
	}
	return ClassifyRoutine(completed, goal)
}

// FrequencyResult returns the single annual result, nil without records.
// More than one record for the same school and year is invalid.
func FrequencyResult(recs []schema.FrequencyRecord) (*float64, error) {
	switch len(recs) {
	case 0:
		return nil, nil
	case 1:
		v := recs[0].Result
		return &v, nil
	default:
		return nil, fmt.Errorf("%w: %d frequency records for school %s year %d",
			schema.ErrInvalidInput, len(recs), recs[0].SchoolID, recs[0].Year)
	}
}

// AggregateFrequency classifies the annual result against the target.
func AggregateFrequency(recs []schema.FrequencyRecord, target *float64) (schema.Cell, error) {
	result, err := FrequencyResult(recs)
	if err != nil {
		return schema.Cell{}, err
	}
	return ClassifyFrequency(result, target)
}

// MeanNPS averages the monthly scores. It returns nil without records.
func MeanNPS(recs []schema.NPSRecord) (*float64, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	var sum float64
	for _, r := range recs {
		v := r.NPS()
		if err := checkFinite("nps", v); err != nil {
			return nil, err
		}
		sum += v
	}
	mean := sum / float64(len(recs))
	return &mean, nil
}

// AggregateNPS classifies the mean score against the annual target.
func AggregateNPS(recs []schema.NPSRecord, target *float64) (schema.Cell, error) {
	mean, err := MeanNPS(recs)
	if err != nil {
		return schema.Cell{}, err
	}
	return ClassifyNPS(mean, target)
}
