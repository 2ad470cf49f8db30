package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/farolescolar/farol/schema"
	"github.com/google/uuid"
)

// Seams for deterministic import batches in tests.
var (
	newBatchID = uuid.NewString
	nowFunc    = time.Now
)

// Import validates the dataset and writes it in one transaction under a new batch ID.
// Regionals and schools are upserted by ID; records and targets are appended.
// Records naming a school that is neither in the dataset nor already stored are
// rejected with schema.ErrUnknownEntity. A frequency result or target repeating
// the key of one already in the dataset or the store is rejected with
// schema.ErrInvalidInput.
func (s *RecordStoreImpl) Import(ctx context.Context, source string, data *schema.Dataset) (schema.ImportBatch, error) {
	if data == nil {
		return schema.ImportBatch{}, fmt.Errorf("%w: empty dataset", schema.ErrInvalidInput)
	}
	if err := validateStruct(data); err != nil {
		return schema.ImportBatch{}, err
	}
	if err := s.checkEntities(ctx, data); err != nil {
		return schema.ImportBatch{}, err
	}
	if err := s.checkDuplicates(ctx, data); err != nil {
		return schema.ImportBatch{}, err
	}

	batch := schema.ImportBatch{
		BatchID:     newBatchID(),
		Source:      source,
		ImportedAt:  nowFunc().UTC().Truncate(time.Second),
		RecordCount: data.RecordCount(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return schema.ImportBatch{}, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if err := s.writeDataset(ctx, tx, batch.BatchID, data); err != nil {
		return schema.ImportBatch{}, err
	}
	query := fmt.Sprintf("INSERT INTO %s (batch_id, source, imported_at, record_count) VALUES (%s)",
		s.table(batchesTable), placeholderList(s.backend, 1, 4))
	if _, err := tx.ExecContext(ctx, query, batch.BatchID, batch.Source, batch.ImportedAt.Unix(), batch.RecordCount); err != nil {
		return schema.ImportBatch{}, fmt.Errorf("failed to record import batch: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return schema.ImportBatch{}, fmt.Errorf("failed to commit import: %w", err)
	}
	return batch, nil
}

// checkEntities verifies that every school and record references a known entity.
func (s *RecordStoreImpl) checkEntities(ctx context.Context, data *schema.Dataset) error {
	regionals, err := s.storedIDs(ctx, regionalsTable, "id")
	if err != nil {
		return err
	}
	for _, r := range data.Regionals {
		regionals[r.ID] = true
	}
	schools, err := s.storedIDs(ctx, schoolsTable, "id")
	if err != nil {
		return err
	}
	for _, sc := range data.Schools {
		if sc.RegionalID != "" && !regionals[sc.RegionalID] {
			return fmt.Errorf("%w: school %q names regional %q", schema.ErrUnknownEntity, sc.ID, sc.RegionalID)
		}
		schools[sc.ID] = true
	}

	for _, group := range datasetRecords(data) {
		for _, rec := range group.records {
			if !schools[rec.School()] {
				return fmt.Errorf("%w: %s record for school %q", schema.ErrUnknownEntity, rec.Metric(), rec.School())
			}
		}
	}
	for _, t := range data.Targets {
		if !schools[t.SchoolID] {
			return fmt.Errorf("%w: %s target for school %q", schema.ErrUnknownEntity, t.Metric, t.SchoolID)
		}
	}
	return nil
}

// checkDuplicates enforces one frequency result per school and year, and one
// target per school, year and metric.
func (s *RecordStoreImpl) checkDuplicates(ctx context.Context, data *schema.Dataset) error {
	if len(data.Frequency) > 0 {
		seen, err := s.storedKeys(ctx, frequencyTable, "school_id", "year")
		if err != nil {
			return err
		}
		for _, r := range data.Frequency {
			key := recordKey(r.SchoolID, strconv.Itoa(r.Year))
			if seen[key] {
				return fmt.Errorf("%w: duplicate frequency result for school %q year %d", schema.ErrInvalidInput, r.SchoolID, r.Year)
			}
			seen[key] = true
		}
	}
	if len(data.Targets) > 0 {
		seen, err := s.storedKeys(ctx, targetsTable, "school_id", "year", "metric")
		if err != nil {
			return err
		}
		for _, t := range data.Targets {
			key := recordKey(t.SchoolID, strconv.Itoa(t.Year), string(t.Metric))
			if seen[key] {
				return fmt.Errorf("%w: duplicate %s target for school %q year %d", schema.ErrInvalidInput, t.Metric, t.SchoolID, t.Year)
			}
			seen[key] = true
		}
	}
	return nil
}

func recordKey(parts ...string) string {
	return strings.Join(parts, "\x00")
}

// storedKeys returns the stored combinations of columns as recordKey strings.
func (s *RecordStoreImpl) storedKeys(ctx context.Context, table string, columns ...string) (map[string]bool, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), s.table(table))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]bool)
	values := make([]string, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		out[recordKey(values...)] = true
	}
	return out, rows.Err()
}

func (s *RecordStoreImpl) storedIDs(ctx context.Context, table, column string) (map[string]bool, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", column, s.table(table))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		out[id] = true
	}
	return out, rows.Err()
}

// recordGroup pairs the records of one kind with their table.
type recordGroup struct {
	table   recordTable
	records []schema.MeasurementRecord
}

// datasetRecords groups the dataset's records by table.
func datasetRecords(data *schema.Dataset) []recordGroup {
	groups := []recordGroup{
		{table: openClassRecords}, {table: attendanceRecords}, {table: qualityRecords}, {table: infraRecords},
		{table: vacancyRecords}, {table: routineRecords}, {table: frequencyRecords}, {table: npsRecords},
	}
	for _, r := range data.OpenClass {
		groups[0].records = append(groups[0].records, r)
	}
	for _, r := range data.Attendance {
		groups[1].records = append(groups[1].records, r)
	}
	for _, r := range data.Quality {
		groups[2].records = append(groups[2].records, r)
	}
	for _, r := range data.Infra {
		groups[3].records = append(groups[3].records, r)
	}
	for _, r := range data.Vacancy {
		groups[4].records = append(groups[4].records, r)
	}
	for _, r := range data.Routine {
		groups[5].records = append(groups[5].records, r)
	}
	for _, r := range data.Frequency {
		groups[6].records = append(groups[6].records, r)
	}
	for _, r := range data.NPS {
		groups[7].records = append(groups[7].records, r)
	}
	return groups
}

func (s *RecordStoreImpl) writeDataset(ctx context.Context, tx *sql.Tx, batchID string, data *schema.Dataset) error {
	regionalQuery := s.upsertQuery(regionalsTable, []string{"id", "name"})
	for _, r := range data.Regionals {
		if _, err := tx.ExecContext(ctx, regionalQuery, r.ID, r.Name); err != nil {
			return fmt.Errorf("failed to write regional %q: %w", r.ID, err)
		}
	}
	schoolQuery := s.upsertQuery(schoolsTable, []string{"id", "name", "regional_id"})
	for _, sc := range data.Schools {
		if _, err := tx.ExecContext(ctx, schoolQuery, sc.ID, sc.Name, sc.RegionalID); err != nil {
			return fmt.Errorf("failed to write school %q: %w", sc.ID, err)
		}
	}

	for _, group := range datasetRecords(data) {
		if err := s.insertRecords(ctx, tx, group, batchID); err != nil {
			return err
		}
	}

	if len(data.Targets) == 0 {
		return nil
	}
	targetQuery := s.insertQuery(targetsTable, []string{"school_id", "regional_id", "year", "metric", "value", "batch_id"})
	for _, t := range data.Targets {
		if _, err := tx.ExecContext(ctx, targetQuery, t.SchoolID, t.RegionalID, t.Year, string(t.Metric), t.Value, batchID); err != nil {
			return fmt.Errorf("failed to write target for school %q: %w", t.SchoolID, err)
		}
	}
	return nil
}

func (s *RecordStoreImpl) insertRecords(ctx context.Context, tx *sql.Tx, group recordGroup, batchID string) error {
	if len(group.records) == 0 {
		return nil
	}
	columns := append(append([]string{}, group.table.columns...), "batch_id")
	stmt, err := tx.PrepareContext(ctx, s.insertQuery(group.table.name, columns))
	if err != nil {
		return fmt.Errorf("failed to prepare %s insert: %w", group.table.name, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range group.records {
		values := append(recordValues(rec), batchID)
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("failed to write %s record for school %q: %w", rec.Metric(), rec.School(), err)
		}
	}
	return nil
}

func (s *RecordStoreImpl) insertQuery(table string, columns []string) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table(table), strings.Join(columns, ", "), placeholderList(s.backend, 1, len(columns)))
}

// upsertQuery returns the UPSERT query for the backend. The first column is the key.
func (s *RecordStoreImpl) upsertQuery(table string, columns []string) string {
	cols := strings.Join(columns, ", ")
	values := placeholderList(s.backend, 1, len(columns))
	updates := make([]string, 0, len(columns)-1)

	switch s.backend {
	case schema.MySQLBackend:
		for _, c := range columns[1:] {
			updates = append(updates, fmt.Sprintf("%s = new.%s", c, c))
		}
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) AS new ON DUPLICATE KEY UPDATE %s",
			s.table(table), cols, values, strings.Join(updates, ", "))

	case schema.PostgreSQLBackend:
		for _, c := range columns[1:] {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
			s.table(table), cols, values, columns[0], strings.Join(updates, ", "))

	default: // SQLite
		return fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)", s.table(table), cols, values)
	}
}

// Clear deletes every regional, school, record, target and import batch. The schema stays.
func (s *RecordStoreImpl) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin clear: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range dataTables {
		if err := validateTableName(table); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+s.table(table)); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}
	return nil
}

// GetStatus returns status information about the record store.
func (s *RecordStoreImpl) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64, len(dataTables)),
	}
	if s.db == nil {
		return status, nil
	}

	var version int64
	query := fmt.Sprintf("SELECT version, dirty FROM %s LIMIT 1", s.table(migrationsTable))
	err := s.db.QueryRowContext(ctx, query).Scan(&version, &status.Dirty)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return status, fmt.Errorf("failed to read schema version: %w", err)
	}
	status.SchemaVersion = uint(version)

	for _, table := range dataTables {
		var count int64
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+s.table(table)).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to count %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalBatches = status.TableSizes[batchesTable]
	if status.TotalBatches == 0 {
		return status, nil
	}

	var importedAt int64
	lastQuery := fmt.Sprintf("SELECT batch_id, imported_at FROM %s ORDER BY imported_at DESC, batch_id DESC LIMIT 1", s.table(batchesTable))
	if err := s.db.QueryRowContext(ctx, lastQuery).Scan(&status.LastBatchID, &importedAt); err != nil {
		return status, fmt.Errorf("failed to get last import: %w", err)
	}
	status.LastImportTime = time.Unix(importedAt, 0).UTC()
	return status, nil
}
