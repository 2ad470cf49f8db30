package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/schema"
)

// RecordStoreImpl serves and persists farol records using one of the SQL backends.
type RecordStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.RecordStore = &RecordStoreImpl{} // Compile-time check

// NewRecordStore opens the database of the backend and migrates it to the latest schema.
func NewRecordStore(backend schema.DatabaseBackend, connStr string) (*RecordStoreImpl, error) {
	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := migrateOnOpen(db, backend, connStr); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &RecordStoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// migrateOnOpen brings the schema up to date. SQLite migrates on the store's own
// handle so in-memory databases see their tables; server backends use a
// dedicated connection.
func migrateOnOpen(db *sql.DB, backend schema.DatabaseBackend, connStr string) error {
	var res MigrationResult
	var err error
	if backend == schema.SQLiteBackend {
		m, mErr := newMigrator(db, backend)
		if mErr != nil {
			return mErr
		}
		res, err = runMigration(m, -1)
	} else {
		res, err = Migrate(backend, connStr, -1)
	}
	if err != nil {
		return fmt.Errorf("failed to migrate record store: %w", err)
	}
	if res.Changed {
		contract.Logger().Info().Uint("from", res.From).Uint("to", res.To).Str("backend", string(backend)).Msg("Record store migrated")
	}
	return nil
}

func (s *RecordStoreImpl) table(name string) string {
	return quoteTableName(name, s.backend)
}

func (s *RecordStoreImpl) ph(n int) string {
	return placeholder(s.backend, n)
}

// ListRegionals returns every regional ordered by name.
func (s *RecordStoreImpl) ListRegionals(ctx context.Context) ([]schema.Regional, error) {
	query := fmt.Sprintf("SELECT id, name FROM %s ORDER BY name, id", s.table(regionalsTable))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query regionals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.Regional
	for rows.Next() {
		var r schema.Regional
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("failed to scan regional: %w", err)
		}
		if err := validateStruct(r); err != nil {
			return nil, fmt.Errorf("stored regional %q: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListSchools returns the schools inside the scope ordered by name.
func (s *RecordStoreImpl) ListSchools(ctx context.Context, scope schema.Scope) ([]schema.School, error) {
	var conds []string
	var args []any
	if scope.RegionalID != "" {
		args = append(args, scope.RegionalID)
		conds = append(conds, "regional_id = "+s.ph(len(args)))
	}
	if scope.SchoolID != "" {
		args = append(args, scope.SchoolID)
		conds = append(conds, "id = "+s.ph(len(args)))
	}
	query := fmt.Sprintf("SELECT id, name, regional_id FROM %s", s.table(schoolsTable))
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schools: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.School
	for rows.Next() {
		var sc schema.School
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.RegionalID); err != nil {
			return nil, fmt.Errorf("failed to scan school: %w", err)
		}
		if err := validateStruct(sc); err != nil {
			return nil, fmt.Errorf("stored school %q: %w", sc.ID, err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// FetchRecords returns the records of one metric for the year and schools.
// Every row is validated before it reaches the engine.
func (s *RecordStoreImpl) FetchRecords(ctx context.Context, metric schema.Metric, year int, schoolIDs []string) ([]schema.MeasurementRecord, error) {
	rt, category, ok := tableFor(metric)
	if !ok {
		return nil, fmt.Errorf("%w: unknown metric %q", schema.ErrInvalidInput, metric)
	}
	if len(schoolIDs) == 0 {
		return nil, nil
	}

	args := []any{year}
	where := "year = " + s.ph(1)
	if category != "" {
		args = append(args, string(category))
		where += " AND category = " + s.ph(len(args))
	}
	where += fmt.Sprintf(" AND school_id IN (%s)", placeholderList(s.backend, len(args)+1, len(schoolIDs)))
	for _, id := range schoolIDs {
		args = append(args, id)
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(rt.columns, ", "), s.table(rt.name), where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s records: %w", metric, err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.MeasurementRecord
	for rows.Next() {
		rec, err := rt.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s record: %w", metric, err)
		}
		if err := validateStruct(rec); err != nil {
			return nil, fmt.Errorf("stored %s record for school %q: %w", metric, rec.School(), err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// FetchTargets returns the frequency and NPS targets of the year for the schools.
func (s *RecordStoreImpl) FetchTargets(ctx context.Context, year int, schoolIDs []string) ([]schema.Target, error) {
	if len(schoolIDs) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(schoolIDs)+1)
	args = append(args, year)
	for _, id := range schoolIDs {
		args = append(args, id)
	}
	query := fmt.Sprintf("SELECT school_id, regional_id, year, metric, value FROM %s WHERE year = %s AND school_id IN (%s)",
		s.table(targetsTable), s.ph(1), placeholderList(s.backend, 2, len(schoolIDs)))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query targets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.Target
	for rows.Next() {
		var t schema.Target
		var metric string
		if err := rows.Scan(&t.SchoolID, &t.RegionalID, &t.Year, &metric, &t.Value); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		t.Metric = schema.Metric(metric)
		if err := validateStruct(t); err != nil {
			return nil, fmt.Errorf("stored target for school %q: %w", t.SchoolID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Close closes the underlying DB connection.
func (s *RecordStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
