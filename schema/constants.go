package schema

// Custom string types for type safety.
type (
	// Metric identifies one tracked column of the farol matrix.
	Metric string

	// Granularity is the reporting period of a metric.
	Granularity string

	// StaffCategory is the staff group an attendance record belongs to.
	StaffCategory string

	// SortOrder is the direction of a gap ranking.
	SortOrder string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the record store.
	DatabaseBackend string
)

// All tracked metrics. The string values are the matrix column keys.
const (
	FrequencyMetric           Metric = "freq"
	OpenClassMetric           Metric = "aulas_vagas"
	AttendanceTeachersMetric  Metric = "presenca_prof"
	AttendancePedagogicMetric Metric = "presenca_tp"
	AttendanceSupportMetric   Metric = "presenca_apoio"
	NPSMetric                 Metric = "nps"
	QualityMetric             Metric = "qualidade"
	InfraMetric               Metric = "infra"
	VacancyMetric             Metric = "vagas_abertas"
	RoutineMetric             Metric = "rotina"
)

// All granularities supported.
const (
	AnnualGranularity      Granularity = "annual"
	MonthlyGranularity     Granularity = "monthly"
	FortnightlyGranularity Granularity = "fortnightly"
)

// All staff categories with attendance tracking.
const (
	TeachersStaff    StaffCategory = "teachers"
	PedagogicalStaff StaffCategory = "pedagogical"
	SupportStaff     StaffCategory = "support"
)

// All ranking orders supported.
const (
	AscendingOrder  SortOrder = "asc" // default, worst gap first
	DescendingOrder SortOrder = "desc"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
)

// AllMetrics lists the matrix columns in display order.
var AllMetrics = []Metric{
	FrequencyMetric,
	OpenClassMetric,
	AttendanceTeachersMetric,
	AttendancePedagogicMetric,
	AttendanceSupportMetric,
	NPSMetric,
	QualityMetric,
	InfraMetric,
	VacancyMetric,
	RoutineMetric,
}

// AllStaffCategories lists staff categories in display order.
var AllStaffCategories = []StaffCategory{TeachersStaff, PedagogicalStaff, SupportStaff}

// ValidMetrics lists all valid metrics.
var ValidMetrics = map[Metric]struct{}{
	FrequencyMetric:           {},
	OpenClassMetric:           {},
	AttendanceTeachersMetric:  {},
	AttendancePedagogicMetric: {},
	AttendanceSupportMetric:   {},
	NPSMetric:                 {},
	QualityMetric:             {},
	InfraMetric:               {},
	VacancyMetric:             {},
	RoutineMetric:             {},
}

// TargetedMetrics lists the metrics that are classified against a per-school target.
var TargetedMetrics = map[Metric]struct{}{
	FrequencyMetric: {},
	NPSMetric:       {},
}

// ValidStaffCategories lists all valid staff categories.
var ValidStaffCategories = map[StaffCategory]struct{}{
	TeachersStaff:    {},
	PedagogicalStaff: {},
	SupportStaff:     {},
}

// ValidSortOrders lists all valid ranking orders.
var ValidSortOrders = map[SortOrder]struct{}{
	AscendingOrder:  {},
	DescendingOrder: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// metricGranularity maps each metric to the period it is reported in.
var metricGranularity = map[Metric]Granularity{
	FrequencyMetric:           AnnualGranularity,
	OpenClassMetric:           FortnightlyGranularity,
	AttendanceTeachersMetric:  FortnightlyGranularity,
	AttendancePedagogicMetric: FortnightlyGranularity,
	AttendanceSupportMetric:   FortnightlyGranularity,
	NPSMetric:                 MonthlyGranularity,
	QualityMetric:             MonthlyGranularity,
	InfraMetric:               MonthlyGranularity,
	VacancyMetric:             FortnightlyGranularity,
	RoutineMetric:             FortnightlyGranularity,
}

// metricLabels holds the pt-BR display name of each metric.
var metricLabels = map[Metric]string{
	FrequencyMetric:           "Frequência",
	OpenClassMetric:           "Aulas Vagas",
	AttendanceTeachersMetric:  "Presença Professores",
	AttendancePedagogicMetric: "Presença TP",
	AttendanceSupportMetric:   "Presença Apoio",
	NPSMetric:                 "NPS",
	QualityMetric:             "Qualidade",
	InfraMetric:               "Infraestrutura",
	VacancyMetric:             "Vagas em Aberto",
	RoutineMetric:             "Rotina",
}

// Granularity returns the reporting period of the metric.
func (m Metric) Granularity() Granularity {
	return metricGranularity[m]
}

// Label returns the pt-BR display name of the metric, or the raw key when unknown.
func (m Metric) Label() string {
	if l, ok := metricLabels[m]; ok {
		return l
	}
	return string(m)
}

// AttendanceMetric returns the matrix column for a staff category.
func AttendanceMetric(c StaffCategory) Metric {
	switch c {
	case PedagogicalStaff:
		return AttendancePedagogicMetric
	case SupportStaff:
		return AttendanceSupportMetric
	default:
		return AttendanceTeachersMetric
	}
}
