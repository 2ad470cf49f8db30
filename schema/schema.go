// Package schema has the domain model, constants and formatting helpers for all parts of farol.
package schema

import "time"

// School is one entity of the matrix.
type School struct {
	ID         string `json:"id" yaml:"id" validate:"required"`
	Name       string `json:"nome" yaml:"nome" validate:"required"`
	RegionalID string `json:"regional_id" yaml:"regional_id"`
}

// Regional groups schools for network leaderboards.
type Regional struct {
	ID   string `json:"id" yaml:"id" validate:"required"`
	Name string `json:"nome" yaml:"nome" validate:"required"`
}

// Cell is one classified value. Value is display text; Hint names the branch that fired.
type Cell struct {
	Value  string `json:"value"`
	Status Farol  `json:"status"`
	Hint   string `json:"hint"`
}

// MatrixRow holds one Cell per tracked metric for one school.
// Unavailable lists metrics whose records could not be fetched; those have no Cell.
type MatrixRow struct {
	SchoolID    string            `json:"escola_id"`
	SchoolName  string            `json:"escola_nome"`
	RegionalID  string            `json:"regional_id,omitempty"`
	Cells       map[Metric]Cell   `json:"cells"`
	Unavailable map[Metric]string `json:"unavailable,omitempty"`
}

// GapInput is one entity offered to the gap ranking. Nil fields are unresolved.
type GapInput struct {
	ID     string
	Name   string
	Result *float64
	Target *float64
}

// GapEntry is one ranked entity. Gap is Result minus Target.
type GapEntry struct {
	Rank   int     `json:"rank"`
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Result float64 `json:"result"`
	Target float64 `json:"target"`
	Gap    float64 `json:"gap"`
}

// ExportRow is one flattened, classified raw record.
type ExportRow struct {
	Metric   Metric `json:"metric"`
	Type     string `json:"tipo"`
	Regional string `json:"regional"`
	School   string `json:"escola"`
	Period   string `json:"periodo"`
	Value    string `json:"valor"`
	Status   Farol  `json:"farol"`
	Details  string `json:"detalhes"`
}

// ExportResult is the output of one export run.
type ExportResult struct {
	RunID       string       `json:"run_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Filter      PeriodFilter `json:"filter"`
	Rows        []ExportRow  `json:"rows"`
}

// AttentionEntry lists the problems that put a school on the attention list.
type AttentionEntry struct {
	SchoolID     string   `json:"escola_id"`
	SchoolName   string   `json:"escola_nome"`
	RegionalName string   `json:"regional_nome"`
	Problems     []string `json:"problemas"`
}

// SeriesPoint is one period of a per-period series. Period is a fortnight or month number.
type SeriesPoint struct {
	Period int     `json:"period"`
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
}

// Series is one named line of per-period values.
type Series struct {
	Name        string        `json:"name"`
	Granularity Granularity   `json:"granularity"`
	Points      []SeriesPoint `json:"points"`
}

// Distribution counts cells per status.
type Distribution struct {
	Green       int `json:"green"`
	Yellow      int `json:"yellow"`
	Red         int `json:"red"`
	Unavailable int `json:"unavailable"`
}

// Total returns the number of classified cells.
func (d Distribution) Total() int {
	return d.Green + d.Yellow + d.Red
}

// Rule documents one row of the canonical classifier table.
type Rule struct {
	Metric    Metric   `json:"metric"`
	Name      string   `json:"name"`
	Inputs    string   `json:"inputs"`
	Branches  []string `json:"branches"`
	NoData    string   `json:"no_data"`
	Aggregate string   `json:"aggregate"`
}

// CheckResult is the outcome of a red-budget check.
type CheckResult struct {
	Filter   PeriodFilter   `json:"filter"`
	MaxRed   int            `json:"max_red"`
	RedCount map[Metric]int `json:"red_count"`
	Failed   []Metric       `json:"failed"`
	Passed   bool           `json:"passed"`
}

// StoreStatus describes the record store.
type StoreStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	SchemaVersion  uint             `json:"schema_version"`
	Dirty          bool             `json:"dirty"`
	TableSizes     map[string]int64 `json:"table_sizes"`
	TotalBatches   int64            `json:"total_batches"`
	LastBatchID    string           `json:"last_batch_id,omitempty"`
	LastImportTime time.Time        `json:"last_import_time"`
}

// ImportBatch summarizes one import into the record store.
type ImportBatch struct {
	BatchID     string    `json:"batch_id"`
	Source      string    `json:"source"`
	ImportedAt  time.Time `json:"imported_at"`
	RecordCount int       `json:"record_count"`
}

// Scope narrows the schools an engine call considers. Empty fields select everything.
type Scope struct {
	RegionalID string `json:"regional_id,omitempty"`
	SchoolID   string `json:"school_id,omitempty"`
}

// Includes reports whether the school falls inside the scope.
func (s Scope) Includes(school School) bool {
	if s.SchoolID != "" && s.SchoolID != school.ID {
		return false
	}
	return s.RegionalID == "" || s.RegionalID == school.RegionalID
}

// Dataset is the on-disk shape of a record import: entities, raw records and targets.
type Dataset struct {
	Regionals  []Regional         `json:"regionais" yaml:"regionais" validate:"dive"`
	Schools    []School           `json:"escolas" yaml:"escolas" validate:"dive"`
	OpenClass  []OpenClassRecord  `json:"aulas_vagas" yaml:"aulas_vagas" validate:"dive"`
	Attendance []AttendanceRecord `json:"presenca" yaml:"presenca" validate:"dive"`
	Quality    []QualityRecord    `json:"qualidade" yaml:"qualidade" validate:"dive"`
	Infra      []InfraRecord      `json:"infraestrutura" yaml:"infraestrutura" validate:"dive"`
	Vacancy    []VacancyRecord    `json:"vagas_abertas" yaml:"vagas_abertas" validate:"dive"`
	Routine    []RoutineRecord    `json:"rotina" yaml:"rotina" validate:"dive"`
	Frequency  []FrequencyRecord  `json:"frequencia" yaml:"frequencia" validate:"dive"`
	NPS        []NPSRecord        `json:"nps" yaml:"nps" validate:"dive"`
	Targets    []Target           `json:"metas" yaml:"metas" validate:"dive"`
}

// RecordCount returns the number of raw records and targets in the dataset.
func (d *Dataset) RecordCount() int {
	return len(d.OpenClass) + len(d.Attendance) + len(d.Quality) + len(d.Infra) +
		len(d.Vacancy) + len(d.Routine) + len(d.Frequency) + len(d.NPS) + len(d.Targets)
}
