package contract

import (
	"testing"
	"time"

	"github.com/farolescolar/farol/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Year:      2024,
		Output:    "text",
		Color:     "yes",
		DBBackend: "sqlite",
		LogLevel:  "info",
		LogFormat: "console",
		Metric:    "freq",
		Order:     "asc",
		Limit:     DefaultResultLimit,
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(in *ConfigRawInput)
		expectError bool
	}{
		{"valid minimal config", func(*ConfigRawInput) {}, false},
		{"month and fortnight", func(in *ConfigRawInput) { in.Month, in.Fortnight = 3, 2 }, false},
		{"invalid month", func(in *ConfigRawInput) { in.Month = 13 }, true},
		{"invalid fortnight", func(in *ConfigRawInput) { in.Fortnight = 3 }, true},
		{"invalid year", func(in *ConfigRawInput) { in.Year = 1800 }, true},
		{"invalid output", func(in *ConfigRawInput) { in.Output = "xml" }, true},
		{"parquet output", func(in *ConfigRawInput) { in.Output = "PARQUET" }, false},
		{"invalid color", func(in *ConfigRawInput) { in.Color = "maybe" }, true},
		{"invalid backend", func(in *ConfigRawInput) { in.DBBackend = "oracle" }, true},
		{"mysql without dsn", func(in *ConfigRawInput) { in.DBBackend = "mysql" }, true},
		{"mysql with dsn", func(in *ConfigRawInput) {
			in.DBBackend, in.DBConnect = "mysql", "user:pass@tcp(localhost:3306)/farol"
		}, false},
		{"invalid log level", func(in *ConfigRawInput) { in.LogLevel = "trace" }, true},
		{"invalid log format", func(in *ConfigRawInput) { in.LogFormat = "xml" }, true},
		{"untargeted ranking metric", func(in *ConfigRawInput) { in.Metric = "qualidade" }, true},
		{"nps ranking metric", func(in *ConfigRawInput) { in.Metric = "NPS" }, false},
		{"invalid order", func(in *ConfigRawInput) { in.Order = "up" }, true},
		{"zero limit", func(in *ConfigRawInput) { in.Limit = 0 }, true},
		{"limit too high", func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, true},
		{"negative max red", func(in *ConfigRawInput) { in.MaxRed = -1 }, true},
		{"unknown check metric", func(in *ConfigRawInput) { in.CheckMetrics = "freq,bogus" }, true},
		{"valid schedule", func(in *ConfigRawInput) { in.Schedule = "0 6 * * 1" }, false},
		{"invalid schedule", func(in *ConfigRawInput) { in.Schedule = "every monday" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateFields(t *testing.T) {
	input := validInput()
	input.Month = 3
	input.Regional = " r1 "
	input.CheckMetrics = "qualidade, infra,qualidade"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, 2024, cfg.Filter.Year)
	require.NotNil(t, cfg.Filter.Month)
	assert.Equal(t, 3, *cfg.Filter.Month)
	assert.Nil(t, cfg.Filter.Fortnight)
	assert.Equal(t, schema.Scope{RegionalID: "r1"}, cfg.Scope)
	assert.Equal(t, []schema.Metric{schema.QualityMetric, schema.InfraMetric}, cfg.CheckMetrics)
	assert.Equal(t, schema.FrequencyMetric, cfg.RankMetric)
	assert.Equal(t, schema.AscendingOrder, cfg.Order)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidateDefaultYear(t *testing.T) {
	input := validInput()
	input.Year = 0
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, time.Now().Year(), cfg.Filter.Year)
	assert.Equal(t, schema.AllMetrics, cfg.CheckMetrics)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"mysql ok", schema.MySQLBackend, "u:p@tcp(h:3306)/db", false},
		{"mysql missing tcp", schema.MySQLBackend, "u:p@h/db", true},
		{"mysql missing db", schema.MySQLBackend, "u:p@tcp(h:3306)", true},
		{"postgres ok", schema.PostgreSQLBackend, "host=h user=u dbname=db", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=db", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=h", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	month := 4
	cfg := &Config{Filter: schema.PeriodFilter{Year: 2024, Month: &month}, CheckMetrics: []schema.Metric{schema.NPSMetric}}
	clone := cfg.Clone()
	*clone.Filter.Month = 5
	clone.CheckMetrics[0] = schema.QualityMetric
	assert.Equal(t, 4, *cfg.Filter.Month)
	assert.Equal(t, schema.NPSMetric, cfg.CheckMetrics[0])
}

func TestParseMetricList(t *testing.T) {
	all, err := ParseMetricList("")
	require.NoError(t, err)
	assert.Equal(t, schema.AllMetrics, all)
	all[0] = "mutated"
	assert.Equal(t, schema.FrequencyMetric, schema.AllMetrics[0], "returned slice is a copy")

	got, err := ParseMetricList("NPS,,rotina")
	require.NoError(t, err)
	assert.Equal(t, []schema.Metric{schema.NPSMetric, schema.RoutineMetric}, got)
}

func TestRevalidate(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	require.NoError(t, RevalidatePeriod(cfg, 2023, 5, 1))
	assert.Equal(t, 2023, cfg.Filter.Year)
	require.NotNil(t, cfg.Filter.Fortnight)
	assert.Equal(t, 1, *cfg.Filter.Fortnight)
	assert.Error(t, RevalidatePeriod(cfg, 2023, 0, 3))

	require.NoError(t, RevalidateRanking(cfg, "nps", "desc", 5))
	assert.Equal(t, schema.NPSMetric, cfg.RankMetric)
	assert.Equal(t, schema.DescendingOrder, cfg.Order)
	assert.Equal(t, 5, cfg.ResultLimit)
	assert.Error(t, RevalidateRanking(cfg, "infra", "asc", 5))
}

func TestProcessProfilingConfig(t *testing.T) {
	p := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(p, ""))
	assert.False(t, p.Enabled)

	require.NoError(t, ProcessProfilingConfig(p, " run1 "))
	assert.True(t, p.Enabled)
	assert.Equal(t, "run1", p.Prefix)

	assert.Error(t, ProcessProfilingConfig(&ProfileConfig{}, "profiles/"))
}
