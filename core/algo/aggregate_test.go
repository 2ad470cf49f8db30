package algo

import (
	"testing"

	"github.com/farolescolar/farol/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorst(t *testing.T) {
	_, ok := Worst(nil)
	assert.False(t, ok)

	first := schema.Cell{Value: "a", Status: schema.Yellow}
	second := schema.Cell{Value: "b", Status: schema.Yellow}
	got, ok := Worst([]schema.Cell{{Status: schema.Green}, first, second})
	require.True(t, ok)
	assert.Equal(t, first, got, "first cell wins ties")

	got, _ = Worst([]schema.Cell{first, {Value: "r", Status: schema.Red}, second})
	assert.Equal(t, "r", got.Value)
}

func TestAggregateAttendanceSumFirst(t *testing.T) {
	// 9/9 and 0/1 average to 50% per record but sum to 9/10.
	recs := []schema.AttendanceRecord{
		{SchoolID: "a", Category: schema.TeachersStaff, Year: 2024, Fortnight: 1, Worked: 9, Expected: 9},
		{SchoolID: "a", Category: schema.TeachersStaff, Year: 2024, Fortnight: 2, Worked: 0, Expected: 1},
	}
	c, err := AggregateAttendance(recs)
	require.NoError(t, err)
	assert.Equal(t, schema.Cell{Value: "90.0%", Status: schema.Yellow, Hint: "≥90% e <95% presença (Amarelo)"}, c)

	c, err = AggregateAttendance(nil)
	require.NoError(t, err)
	assert.Equal(t, "Esperado = 0", c.Hint)

	_, err = AggregateAttendance([]schema.AttendanceRecord{{Worked: -1, Expected: 5}, {Worked: 5, Expected: 5}})
	assert.ErrorIs(t, err, schema.ErrInvalidInput)
}

func TestAggregateQuality(t *testing.T) {
	c, err := AggregateQuality([]schema.QualityRecord{{Score: 4}, {Score: 5}})
	require.NoError(t, err)
	assert.Equal(t, schema.Cell{Value: "4.50", Status: schema.Green, Hint: "≥4,50 pontos (Verde)"}, c)

	c, err = AggregateQuality(nil)
	require.NoError(t, err)
	assert.Equal(t, schema.NoData, c.Value)
	assert.Equal(t, schema.Red, c.Status)

	_, err = AggregateQuality([]schema.QualityRecord{{Score: 6}})
	assert.ErrorIs(t, err, schema.ErrInvalidInput)
}

func TestAggregateOpenClass(t *testing.T) {
	assert.Equal(t, schema.Green, AggregateOpenClass(nil).Status)
	assert.Equal(t, schema.Green, AggregateOpenClass([]schema.OpenClassRecord{{}, {}}).Status)
	assert.Equal(t, schema.Red, AggregateOpenClass([]schema.OpenClassRecord{{}, {HasOpenClass: true}}).Status)
}

func TestAggregateInfra(t *testing.T) {
	tests := []struct {
		name string
		recs []schema.InfraRecord
		want schema.Cell
	}{
		{"zero records", nil, schema.Cell{Value: "-", Status: schema.Red, Hint: "Sem dados"}},
		{"all completed", []schema.InfraRecord{{Completed: true}, {Completed: true}}, schema.Cell{Value: "Sim", Status: schema.Green, Hint: "Planos concluídos (Verde)"}},
		{"one pending", []schema.InfraRecord{{Completed: true}, {Completed: false}}, schema.Cell{Value: "Não", Status: schema.Red, Hint: "Planos não concluídos (Vermelho)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AggregateInfra(tt.recs))
		})
	}
}

func TestAggregateVacancyWorstOf(t *testing.T) {
	c, err := AggregateVacancy([]schema.VacancyRecord{
		{TotalOpen: 2, DaysOpen: 5},
		{TotalOpen: 1, DaysOpen: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, schema.Cell{Value: "1/10", Status: schema.Red, Hint: "Vagas abertas >7 dias (Vermelho)"}, c)

	c, err = AggregateVacancy([]schema.VacancyRecord{{TotalOpen: 2, DaysOpen: 5}, {TotalOpen: 3, DaysOpen: 6}})
	require.NoError(t, err)
	assert.Equal(t, "2/5", c.Value, "first cell wins ties")

	c, err = AggregateVacancy(nil)
	require.NoError(t, err)
	assert.Equal(t, "0/0", c.Value)
	assert.Equal(t, schema.Green, c.Status)

	_, err = AggregateVacancy([]schema.VacancyRecord{{TotalOpen: -1}})
	assert.ErrorIs(t, err, schema.ErrInvalidInput)
}

func TestAggregateRoutine(t *testing.T) {
	c, err := AggregateRoutine([]schema.RoutineRecord{{Completed: 5, Goal: 5}, {Completed: 3, Goal: 5}})
	require.NoError(t, err)
	assert.Equal(t, "80%", c.Value)
	assert.Equal(t, schema.Yellow, c.Status)

	c, err = AggregateRoutine(nil)
	require.NoError(t, err)
	assert.Equal(t, "Meta = 0", c.Hint)
}

func TestAggregateFrequency(t *testing.T) {
	c, err := AggregateFrequency([]schema.FrequencyRecord{{SchoolID: "a", Year: 2024, Result: 93}}, ptr(90))
	require.NoError(t, err)
	assert.Equal(t, schema.Green, c.Status)

	c, err = AggregateFrequency(nil, ptr(90))
	require.NoError(t, err)
	assert.Equal(t, schema.NoData, c.Value)

	_, err = AggregateFrequency([]schema.FrequencyRecord{{SchoolID: "a", Year: 2024}, {SchoolID: "a", Year: 2024}}, ptr(90))
	assert.ErrorIs(t, err, schema.ErrInvalidInput)
}

func TestAggregateNPS(t *testing.T) {
	recs := []schema.NPSRecord{
		{PromotersPct: 70, DetractorsPct: 10},
		{PromotersPct: 50, DetractorsPct: 10},
	}
	c, err := AggregateNPS(recs, ptr(50))
	require.NoError(t, err)
	assert.Equal(t, schema.Cell{Value: "50", Status: schema.Green, Hint: "NPS ≥ meta anual (50) (Verde)"}, c)

	c, err = AggregateNPS(recs, nil)
	require.NoError(t, err)
	assert.Equal(t, schema.NoData, c.Value)
}

// FuzzAggregateVacancy checks that the aggregate is never less severe than any record.
func FuzzAggregateVacancy(f *testing.F) {
	f.Add(2, 5, 1, 10)
	f.Add(0, 0, 0, 0)
	f.Fuzz(func(t *testing.T, t1, d1, t2, d2 int) {
		recs := []schema.VacancyRecord{{TotalOpen: t1, DaysOpen: d1}, {TotalOpen: t2, DaysOpen: d2}}
		got, err := AggregateVacancy(recs)
		if err != nil {
			assert.ErrorIs(t, err, schema.ErrInvalidInput)
			return
		}
		for _, r := range recs {
			c, err := ClassifyVacancy(r.TotalOpen, r.DaysOpen)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got.Status.Severity(), c.Status.Severity())
		}
	})
}
