package store

import (
	"database/sql"

	"github.com/farolescolar/farol/schema"
)

// Table names of the record store.
const (
	regionalsTable  = "farol_regionals"
	schoolsTable    = "farol_schools"
	batchesTable    = "farol_import_batches"
	openClassTable  = "farol_open_class"
	attendanceTable = "farol_attendance"
	qualityTable    = "farol_quality"
	infraTable      = "farol_infra"
	vacancyTable    = "farol_vacancy"
	routineTable    = "farol_routine"
	frequencyTable  = "farol_frequency"
	npsTable        = "farol_nps"
	targetsTable    = "farol_targets"
)

// dataTables lists every table Clear empties, children first.
var dataTables = []string{
	targetsTable, npsTable, frequencyTable, routineTable, vacancyTable,
	infraTable, qualityTable, attendanceTable, openClassTable,
	batchesTable, schoolsTable, regionalsTable,
}

// recordTable maps one record kind to its table. Columns exclude batch_id,
// which every record table carries last.
type recordTable struct {
	name    string
	columns []string
	scan    func(rows *sql.Rows) (schema.MeasurementRecord, error)
}

var (
	openClassRecords = recordTable{
		name:    openClassTable,
		columns: []string{"school_id", "year", "fortnight", "has_open_class"},
		scan: func(rows *sql.Rows) (schema.MeasurementRecord, error) {
			var r schema.OpenClassRecord
			err := rows.Scan(&r.SchoolID, &r.Year, &r.Fortnight, &r.HasOpenClass)
			return r, err
		},
	}
	attendanceRecords = recordTable{
		name:    attendanceTable,
		columns: []string{"school_id", "category", "year", "fortnight", "worked", "expected"},
		scan: func(rows *sql.Rows) (schema.MeasurementRecord, error) {
			var r schema.AttendanceRecord
			var category string
			err := rows.Scan(&r.SchoolID, &category, &r.Year, &r.Fortnight, &r.Worked, &r.Expected)
			r.Category = schema.StaffCategory(category)
			return r, err
		},
	}
	qualityRecords = recordTable{
		name:    qualityTable,
		columns: []string{"school_id", "year", "month", "score"},
		scan: func(rows *sql.Rows) (schema.MeasurementRecord, error) {
			var r schema.QualityRecord
			err := rows.Scan(&r.SchoolID, &r.Year, &r.Month, &r.Score)
			return r, err
		},
	}
	infraRecords = recordTable{
		name:    infraTable,
		columns: []string{"school_id", "year", "month", "completed"},
		scan: func(rows *sql.Rows) (schema.MeasurementRecord, error) {
			var r schema.InfraRecord
			err := rows.Scan(&r.SchoolID, &r.Year, &r.Month, &r.Completed)
			return r, err
		},
	}
	vacancyRecords = recordTable{
		name:    vacancyTable,
		columns: []string{"school_id", "year", "fortnight", "total_open", "days_open"},
		scan: func(rows *sql.Rows) (schema.MeasurementRecord, error) {
			var r schema.VacancyRecord
			err := rows.Scan(&r.SchoolID, &r.Year, &r.Fortnight, &r.TotalOpen, &r.DaysOpen)
			return r, err
		},
	}
	routineRecords = recordTable{
		name:    routineTable,
		columns: []string{"school_id", "year", "fortnight", "completed", "goal"},
		scan: func(rows *sql.Rows) (schema.MeasurementRecord, error) {
			var r schema.RoutineRecord
			err := rows.Scan(&r.SchoolID, &r.Year, &r.Fortnight, &r.Completed, &r.Goal)
			return r, err
		},
	}
	frequencyRecords = recordTable{
		name:    frequencyTable,
		columns: []string{"school_id", "year", "result"},
		scan: func(rows *sql.Rows) (schema.MeasurementRecord, error) {
			var r schema.FrequencyRecord
			err := rows.Scan(&r.SchoolID, &r.Year, &r.Result)
			return r, err
		},
	}
	npsRecords = recordTable{
		name:    npsTable,
		columns: []string{"school_id", "year", "month", "promoters_pct", "detractors_pct"},
		scan: func(rows *sql.Rows) (schema.MeasurementRecord, error) {
			var r schema.NPSRecord
			err := rows.Scan(&r.SchoolID, &r.Year, &r.Month, &r.PromotersPct, &r.DetractorsPct)
			return r, err
		},
	}
)

// tableFor returns the record table of a metric, and the staff category to filter
// on for attendance metrics.
func tableFor(m schema.Metric) (recordTable, schema.StaffCategory, bool) {
	switch m {
	case schema.OpenClassMetric:
		return openClassRecords, "", true
	case schema.AttendanceTeachersMetric:
		return attendanceRecords, schema.TeachersStaff, true
	case schema.AttendancePedagogicMetric:
		return attendanceRecords, schema.PedagogicalStaff, true
	case schema.AttendanceSupportMetric:
		return attendanceRecords, schema.SupportStaff, true
	case schema.QualityMetric:
		return qualityRecords, "", true
	case schema.InfraMetric:
		return infraRecords, "", true
	case schema.VacancyMetric:
		return vacancyRecords, "", true
	case schema.RoutineMetric:
		return routineRecords, "", true
	case schema.FrequencyMetric:
		return frequencyRecords, "", true
	case schema.NPSMetric:
		return npsRecords, "", true
	default:
		return recordTable{}, "", false
	}
}

// recordValues returns the column values of a record in recordTable column order.
func recordValues(rec schema.MeasurementRecord) []any {
	switch r := rec.(type) {
	case schema.OpenClassRecord:
		return []any{r.SchoolID, r.Year, r.Fortnight, r.HasOpenClass}
	case schema.AttendanceRecord:
		return []any{r.SchoolID, string(r.Category), r.Year, r.Fortnight, r.Worked, r.Expected}
	case schema.QualityRecord:
		return []any{r.SchoolID, r.Year, r.Month, r.Score}
	case schema.InfraRecord:
		return []any{r.SchoolID, r.Year, r.Month, r.Completed}
	case schema.VacancyRecord:
		return []any{r.SchoolID, r.Year, r.Fortnight, r.TotalOpen, r.DaysOpen}
	case schema.RoutineRecord:
		return []any{r.SchoolID, r.Year, r.Fortnight, r.Completed, r.Goal}
	case schema.FrequencyRecord:
		return []any{r.SchoolID, r.Year, r.Result}
	case schema.NPSRecord:
		return []any{r.SchoolID, r.Year, r.Month, r.PromotersPct, r.DetractorsPct}
	default:
		return nil
	}
}
