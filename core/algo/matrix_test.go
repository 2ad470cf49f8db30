package algo

import (
	"testing"

	"github.com/farolescolar/farol/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureSchools() []schema.School {
	return []schema.School{
		{ID: "e1", Name: "Escola Alfa", RegionalID: "r1"},
		{ID: "e2", Name: "Escola Beta", RegionalID: "r1"},
		{ID: "e3", Name: "Escola Gama", RegionalID: "r2"},
	}
}

func fixtureRegionals() []schema.Regional {
	return []schema.Regional{{ID: "r1", Name: "Norte"}, {ID: "r2", Name: "Sul"}}
}

func fixtureRecords() *schema.RecordSet {
	return &schema.RecordSet{
		OpenClass: []schema.OpenClassRecord{
			{SchoolID: "e1", Year: 2024, Fortnight: 1, HasOpenClass: false},
			{SchoolID: "e1", Year: 2024, Fortnight: 2, HasOpenClass: true},
			{SchoolID: "e2", Year: 2024, Fortnight: 1, HasOpenClass: false},
		},
		Attendance: []schema.AttendanceRecord{
			{SchoolID: "e1", Category: schema.TeachersStaff, Year: 2024, Fortnight: 1, Worked: 9, Expected: 9},
			{SchoolID: "e1", Category: schema.TeachersStaff, Year: 2024, Fortnight: 2, Worked: 0, Expected: 1},
			{SchoolID: "e2", Category: schema.TeachersStaff, Year: 2024, Fortnight: 1, Worked: 17, Expected: 20},
			{SchoolID: "e2", Category: schema.SupportStaff, Year: 2024, Fortnight: 1, Worked: 20, Expected: 20},
		},
		Quality: []schema.QualityRecord{
			{SchoolID: "e1", Year: 2024, Month: 3, Score: 4.8},
			{SchoolID: "e2", Year: 2024, Month: 3, Score: 3.2},
		},
		Infra: []schema.InfraRecord{
			{SchoolID: "e1", Year: 2024, Month: 3, Completed: true},
			{SchoolID: "e2", Year: 2024, Month: 3, Completed: false},
		},
		Vacancy: []schema.VacancyRecord{
			{SchoolID: "e1", Year: 2024, Fortnight: 1, TotalOpen: 2, DaysOpen: 5},
			{SchoolID: "e1", Year: 2024, Fortnight: 2, TotalOpen: 1, DaysOpen: 10},
		},
		Routine: []schema.RoutineRecord{
			{SchoolID: "e1", Year: 2024, Fortnight: 1, Completed: 10, Goal: 10},
		},
		Frequency: []schema.FrequencyRecord{
			{SchoolID: "e1", Year: 2024, Result: 93},
			{SchoolID: "e2", Year: 2024, Result: 88},
			{SchoolID: "e3", Year: 2024, Result: 91},
			{SchoolID: "e1", Year: 2023, Result: 70},
		},
		NPS: []schema.NPSRecord{
			{SchoolID: "e1", Year: 2024, Month: 3, PromotersPct: 70, DetractorsPct: 10},
		},
		Targets: []schema.Target{
			{SchoolID: "e1", RegionalID: "r1", Year: 2024, Metric: schema.FrequencyMetric, Value: 90},
			{SchoolID: "e2", RegionalID: "r1", Year: 2024, Metric: schema.FrequencyMetric, Value: 92},
			{SchoolID: "e1", RegionalID: "r1", Year: 2024, Metric: schema.NPSMetric, Value: 50},
			{SchoolID: "e1", RegionalID: "r1", Year: 2023, Metric: schema.FrequencyMetric, Value: 50},
		},
	}
}

func yearFilter(t *testing.T) schema.PeriodFilter {
	f, err := schema.NewPeriodFilter(2024, 0, 0)
	require.NoError(t, err)
	return f
}

func TestBuildMatrix(t *testing.T) {
	rows, err := BuildMatrix(fixtureSchools(), fixtureRecords(), yearFilter(t))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	e1 := rows[0]
	assert.Equal(t, "e1", e1.SchoolID)
	assert.Len(t, e1.Cells, len(schema.AllMetrics))
	assert.Empty(t, e1.Unavailable)
	assert.Equal(t, schema.Red, e1.Cells[schema.OpenClassMetric].Status)
	assert.Equal(t, "90.0%", e1.Cells[schema.AttendanceTeachersMetric].Value)
	assert.Equal(t, schema.Yellow, e1.Cells[schema.AttendanceTeachersMetric].Status)
	assert.Equal(t, "Esperado = 0", e1.Cells[schema.AttendancePedagogicMetric].Hint)
	assert.Equal(t, schema.Green, e1.Cells[schema.QualityMetric].Status)
	assert.Equal(t, "Sim", e1.Cells[schema.InfraMetric].Value)
	assert.Equal(t, "1/10", e1.Cells[schema.VacancyMetric].Value)
	assert.Equal(t, schema.Green, e1.Cells[schema.RoutineMetric].Status)
	assert.Equal(t, "93.00%", e1.Cells[schema.FrequencyMetric].Value)
	assert.Equal(t, schema.Green, e1.Cells[schema.FrequencyMetric].Status)
	assert.Equal(t, schema.Green, e1.Cells[schema.NPSMetric].Status)

	// Schools without records still get a cell per metric.
	e3 := rows[2]
	assert.Len(t, e3.Cells, len(schema.AllMetrics))
	assert.Equal(t, "Sem meta", e3.Cells[schema.FrequencyMetric].Hint)
	assert.Equal(t, schema.NoData, e3.Cells[schema.QualityMetric].Value)
	assert.Equal(t, schema.NoData, e3.Cells[schema.InfraMetric].Value)
	assert.Equal(t, "0/0", e3.Cells[schema.VacancyMetric].Value)
	assert.Equal(t, "0", e3.Cells[schema.OpenClassMetric].Value)
}

func TestBuildMatrixFilter(t *testing.T) {
	f, err := schema.NewPeriodFilter(2024, 4, 1)
	require.NoError(t, err)
	rows, err := BuildMatrix(fixtureSchools(), fixtureRecords(), f)
	require.NoError(t, err)

	e1 := rows[0]
	assert.Equal(t, schema.Green, e1.Cells[schema.OpenClassMetric].Status, "fortnight 2 open class is filtered out")
	assert.Equal(t, "100.0%", e1.Cells[schema.AttendanceTeachersMetric].Value)
	assert.Equal(t, schema.NoData, e1.Cells[schema.QualityMetric].Value, "month 3 quality is filtered out")
	assert.Equal(t, "2/5", e1.Cells[schema.VacancyMetric].Value)
	assert.Equal(t, "93.00%", e1.Cells[schema.FrequencyMetric].Value, "annual metrics ignore month and fortnight")
}

func TestBuildMatrixUnavailable(t *testing.T) {
	rs := fixtureRecords()
	rs.MarkUnavailable(schema.QualityMetric, "connection refused")
	rows, err := BuildMatrix(fixtureSchools(), rs, yearFilter(t))
	require.NoError(t, err)
	for _, row := range rows {
		_, ok := row.Cells[schema.QualityMetric]
		assert.False(t, ok)
		assert.Equal(t, "connection refused", row.Unavailable[schema.QualityMetric])
		assert.Len(t, row.Cells, len(schema.AllMetrics)-1)
	}
}

func TestBuildMatrixErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(rs *schema.RecordSet)
		filter  schema.PeriodFilter
		wantErr error
	}{
		{
			name:    "unknown school",
			mutate:  func(rs *schema.RecordSet) { rs.Quality = append(rs.Quality, schema.QualityRecord{SchoolID: "zz", Year: 2024, Month: 1, Score: 4}) },
			filter:  schema.PeriodFilter{Year: 2024},
			wantErr: schema.ErrUnknownEntity,
		},
		{
			name: "unknown school in target",
			mutate: func(rs *schema.RecordSet) {
				rs.Targets = append(rs.Targets, schema.Target{SchoolID: "zz", Year: 2024, Metric: schema.NPSMetric, Value: 1})
			},
			filter:  schema.PeriodFilter{Year: 2024},
			wantErr: schema.ErrUnknownEntity,
		},
		{
			name:    "invalid filter",
			mutate:  func(*schema.RecordSet) {},
			filter:  schema.PeriodFilter{Year: 10},
			wantErr: schema.ErrInvalidPeriod,
		},
		{
			name:    "invalid record period",
			mutate:  func(rs *schema.RecordSet) { rs.Routine = append(rs.Routine, schema.RoutineRecord{SchoolID: "e1", Year: 2024, Fortnight: 3}) },
			filter:  schema.PeriodFilter{Year: 2024},
			wantErr: schema.ErrInvalidPeriod,
		},
		{
			name:    "duplicate frequency",
			mutate:  func(rs *schema.RecordSet) { rs.Frequency = append(rs.Frequency, schema.FrequencyRecord{SchoolID: "e1", Year: 2024, Result: 1}) },
			filter:  schema.PeriodFilter{Year: 2024},
			wantErr: schema.ErrInvalidInput,
		},
		{
			name: "duplicate target",
			mutate: func(rs *schema.RecordSet) {
				rs.Targets = append(rs.Targets, schema.Target{SchoolID: "e1", Year: 2024, Metric: schema.FrequencyMetric, Value: 1})
			},
			filter:  schema.PeriodFilter{Year: 2024},
			wantErr: schema.ErrInvalidInput,
		},
		{
			name:    "routine over goal",
			mutate:  func(rs *schema.RecordSet) { rs.Routine[0].Completed = 11 },
			filter:  schema.PeriodFilter{Year: 2024},
			wantErr: schema.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := fixtureRecords()
			tt.mutate(rs)
			_, err := BuildMatrix(fixtureSchools(), rs, tt.filter)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuildMatrixDuplicateSchool(t *testing.T) {
	schools := append(fixtureSchools(), schema.School{ID: "e1", Name: "Outra"})
	_, err := BuildMatrix(schools, nil, schema.PeriodFilter{Year: 2024})
	assert.ErrorIs(t, err, schema.ErrInvalidInput)
}

// The engine keeps no state between calls.
func TestBuildMatrixDeterministic(t *testing.T) {
	a, err := BuildMatrix(fixtureSchools(), fixtureRecords(), yearFilter(t))
	require.NoError(t, err)
	b, err := BuildMatrix(fixtureSchools(), fixtureRecords(), yearFilter(t))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCountDistribution(t *testing.T) {
	rows := []schema.MatrixRow{
		{Cells: map[schema.Metric]schema.Cell{
			schema.QualityMetric: {Status: schema.Green},
			schema.InfraMetric:   {Status: schema.Red},
		}, Unavailable: map[schema.Metric]string{schema.NPSMetric: "x"}},
		{Cells: map[schema.Metric]schema.Cell{
			schema.QualityMetric: {Status: schema.Yellow},
			schema.InfraMetric:   {Status: schema.Red},
		}},
	}
	d := CountDistribution(rows, nil)
	assert.Equal(t, schema.Distribution{Green: 1, Yellow: 1, Red: 2, Unavailable: 1}, d)

	d = CountDistribution(rows, []schema.Metric{schema.QualityMetric})
	assert.Equal(t, schema.Distribution{Green: 1, Yellow: 1}, d)

	red := CountRed(rows, []schema.Metric{schema.InfraMetric, schema.QualityMetric})
	assert.Equal(t, map[schema.Metric]int{schema.InfraMetric: 2, schema.QualityMetric: 0}, red)
}
