// Package store persists regionals, schools, raw measurement records and targets
// in a SQL database and serves them back to the farol engine.
package store

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/schema"
	"github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// StoreManager holds the record store shared by every command of one process.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	records      contract.RecordStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetRecordStore returns the record store, or nil before InitStore.
func (mgr *StoreManager) GetRecordStore() contract.RecordStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.records
}

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStore opens the record store of the given backend and migrates it to the latest schema.
func InitStore(backend schema.DatabaseBackend, connStr string) error {
	var initErr error
	initOnce.Do(func() {
		rs, err := NewRecordStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize record store: %w", err)
			return
		}
		Manager.Lock()
		Manager.records = rs
		Manager.Unlock()
	})
	return initErr
}

// CloseStore should be called on application shutdown.
func CloseStore() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.records != nil {
			_ = Manager.records.Close()
		}
	})
}

// driverName returns the database/sql driver registered for the backend.
func driverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported store backend: %s. Must be sqlite, mysql, or postgresql", backend)
	}
}

// openDB opens and pings the database of the backend. An empty SQLite
// connection string selects the default file under the home directory.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	name, err := driverName(backend)
	if err != nil {
		return nil, err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetDBFilePath()
	}

	db, err := sql.Open(name, connStr)
	if err != nil {
		switch backend {
		case schema.MySQLBackend:
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		case schema.PostgreSQLBackend:
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		default:
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", connStr, err)
		}
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// migrationConnString adjusts a connection string for running migration files.
// MySQL needs multiStatements to run a file of several statements in one Exec.
func migrationConnString(backend schema.DatabaseBackend, connStr string) (string, error) {
	if backend != schema.MySQLBackend {
		return connStr, nil
	}
	cfg, err := mysql.ParseDSN(connStr)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL connection string: %w", err)
	}
	cfg.MultiStatements = true
	return cfg.FormatDSN(), nil
}
