package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/farolescolar/farol/schema"
	"github.com/robfig/cron/v3"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultMaxRed      = 0
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for one command.
// This struct remains the "final, validated" config.
type Config struct {
	Filter schema.PeriodFilter
	Scope  schema.Scope

	RankMetric  schema.Metric
	Order       schema.SortOrder
	ResultLimit int

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	LogLevel  string
	LogFormat string

	MaxRed       int
	CheckMetrics []schema.Metric

	Schedule string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Year       int    `mapstructure:"year"`
	Month      int    `mapstructure:"month"`
	Fortnight  int    `mapstructure:"fortnight"`
	Regional   string `mapstructure:"regional"`
	School     string `mapstructure:"school"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`
	DBBackend  string `mapstructure:"db-backend"`
	DBConnect  string `mapstructure:"db-connect"`
	LogLevel   string `mapstructure:"log-level"`
	LogFormat  string `mapstructure:"log-format"`

	// --- Fields from rankingCmd.Flags() ---
	Metric string `mapstructure:"metric"`
	Order  string `mapstructure:"order"`
	Limit  int    `mapstructure:"limit"`

	// --- Fields from checkCmd.Flags() ---
	MaxRed       int    `mapstructure:"max-red"`
	CheckMetrics string `mapstructure:"check-metrics"`

	// --- Fields from exportCmd.Flags() ---
	Schedule string `mapstructure:"schedule"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.CheckMetrics != nil {
		clone.CheckMetrics = make([]schema.Metric, len(c.CheckMetrics))
		copy(clone.CheckMetrics, c.CheckMetrics)
	}
	if c.Filter.Month != nil {
		m := *c.Filter.Month
		clone.Filter.Month = &m
	}
	if c.Filter.Fortnight != nil {
		f := *c.Filter.Fortnight
		clone.Filter.Fortnight = &f
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processPeriod(cfg, input); err != nil {
		return err
	}
	if err := processRanking(cfg, input); err != nil {
		return err
	}
	if err := processCheck(cfg, input); err != nil {
		return err
	}
	if err := processSchedule(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates output, store and logging fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Scope = schema.Scope{
		RegionalID: strings.TrimSpace(input.Regional),
		SchoolID:   strings.TrimSpace(input.School),
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.DBBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql", input.DBBackend)
	}
	cfg.StoreDBConnect = input.DBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}

	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if _, ok := validLogLevels[cfg.LogLevel]; !ok {
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}
	cfg.LogFormat = strings.ToLower(input.LogFormat)
	if _, ok := validLogFormats[cfg.LogFormat]; !ok {
		return fmt.Errorf("invalid log format '%s'. must be console, json", input.LogFormat)
	}
	return nil
}

// processPeriod builds the period filter from year, month and fortnight.
func processPeriod(cfg *Config, input *ConfigRawInput) error {
	year := input.Year
	if year == 0 {
		year = time.Now().Year()
	}
	filter, err := schema.NewPeriodFilter(year, input.Month, input.Fortnight)
	if err != nil {
		return fmt.Errorf("invalid period: %w", err)
	}
	cfg.Filter = filter
	return nil
}

// processRanking handles the gap ranking metric, order and result limit.
func processRanking(cfg *Config, input *ConfigRawInput) error {
	cfg.RankMetric = schema.Metric(strings.ToLower(strings.TrimSpace(input.Metric)))
	if _, ok := schema.TargetedMetrics[cfg.RankMetric]; !ok {
		return fmt.Errorf("invalid ranking metric '%s'. must be freq, nps", input.Metric)
	}

	cfg.Order = schema.SortOrder(strings.ToLower(input.Order))
	if _, ok := schema.ValidSortOrders[cfg.Order]; !ok {
		return fmt.Errorf("invalid order '%s'. must be asc, desc", input.Order)
	}

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit
	return nil
}

// processCheck handles the red budget and the metrics it applies to.
func processCheck(cfg *Config, input *ConfigRawInput) error {
	if input.MaxRed < 0 {
		return fmt.Errorf("max-red cannot be negative (received %d)", input.MaxRed)
	}
	cfg.MaxRed = input.MaxRed

	metrics, err := ParseMetricList(input.CheckMetrics)
	if err != nil {
		return fmt.Errorf("invalid --check-metrics value: %w", err)
	}
	cfg.CheckMetrics = metrics
	return nil
}

// processSchedule validates the export cron expression.
func processSchedule(cfg *Config, input *ConfigRawInput) error {
	cfg.Schedule = strings.TrimSpace(input.Schedule)
	if cfg.Schedule == "" {
		return nil
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return fmt.Errorf("invalid schedule '%s': %w", cfg.Schedule, err)
	}
	return nil
}

// ParseMetricList parses a comma-separated list of metric keys. Empty input selects every metric.
func ParseMetricList(s string) ([]schema.Metric, error) {
	if strings.TrimSpace(s) == "" {
		out := make([]schema.Metric, len(schema.AllMetrics))
		copy(out, schema.AllMetrics)
		return out, nil
	}
	var out []schema.Metric
	seen := make(map[schema.Metric]bool)
	for part := range strings.SplitSeq(s, ",") {
		m := schema.Metric(strings.ToLower(strings.TrimSpace(part)))
		if m == "" || seen[m] {
			continue
		}
		if _, ok := schema.ValidMetrics[m]; !ok {
			return nil, fmt.Errorf("unknown metric '%s'", m)
		}
		seen[m] = true
		out = append(out, m)
	}
	return out, nil
}

// RevalidatePeriod replaces the period filter of an already validated config,
// applying the same rules as ProcessAndValidate.
func RevalidatePeriod(cfg *Config, year, month, fortnight int) error {
	return processPeriod(cfg, &ConfigRawInput{Year: year, Month: month, Fortnight: fortnight})
}

// RevalidateRanking replaces the ranking metric, order and limit of an already validated config.
func RevalidateRanking(cfg *Config, metric, order string, limit int) error {
	return processRanking(cfg, &ConfigRawInput{Metric: metric, Order: order, Limit: limit})
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	profilePrefix = strings.TrimSpace(profilePrefix)
	if profilePrefix == "" {
		return nil
	}
	if strings.HasSuffix(profilePrefix, "/") {
		return fmt.Errorf("profile prefix '%s' must name a file, not a directory", profilePrefix)
	}
	profile.Enabled = true
	profile.Prefix = profilePrefix
	return nil
}
