// Package contract provides interfaces and shared utilities for the farol CLI's internal architecture.
package contract

import (
	"context"

	"github.com/farolescolar/farol/schema"
)

// RecordSource defines the read operations the orchestration layer needs.
// This allows the engine to be exercised without a real database.
type RecordSource interface {
	// ListRegionals returns every regional ordered by name.
	ListRegionals(ctx context.Context) ([]schema.Regional, error)

	// ListSchools returns the schools inside the scope ordered by name.
	ListSchools(ctx context.Context, scope schema.Scope) ([]schema.School, error)

	// FetchRecords returns the raw records of one metric for the given schools and year.
	// Month and fortnight narrowing is left to the engine.
	FetchRecords(ctx context.Context, metric schema.Metric, year int, schoolIDs []string) ([]schema.MeasurementRecord, error)

	// FetchTargets returns the targets of the given schools for a year.
	FetchTargets(ctx context.Context, year int, schoolIDs []string) ([]schema.Target, error)
}

// RecordStore is a RecordSource that can also be written to and administered.
type RecordStore interface {
	RecordSource

	// Import validates and writes a dataset in one transaction, returning the batch summary.
	Import(ctx context.Context, source string, data *schema.Dataset) (schema.ImportBatch, error)

	// GetStatus returns status information about the record store.
	GetStatus(ctx context.Context) (schema.StoreStatus, error)

	// Clear deletes every record, target and entity.
	Clear(ctx context.Context) error

	// Close closes the underlying connection.
	Close() error
}

// StoreManager defines the interface for managing the record store.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetRecordStore() RecordStore
}
