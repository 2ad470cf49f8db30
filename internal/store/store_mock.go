package store

import (
	"context"

	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetRecordStore implements the StoreManager interface.
func (m *MockStoreManager) GetRecordStore() contract.RecordStore {
	ret := m.Called()
	s, _ := ret.Get(0).(contract.RecordStore)
	return s
}

// MockRecordStore is a mock implementation of RecordStore for testing.
type MockRecordStore struct {
	mock.Mock
}

var _ contract.RecordStore = &MockRecordStore{} // Compile-time check

// ListRegionals implements the RecordSource interface.
func (m *MockRecordStore) ListRegionals(ctx context.Context) ([]schema.Regional, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]schema.Regional)
	return out, args.Error(1)
}

// ListSchools implements the RecordSource interface.
func (m *MockRecordStore) ListSchools(ctx context.Context, scope schema.Scope) ([]schema.School, error) {
	args := m.Called(ctx, scope)
	out, _ := args.Get(0).([]schema.School)
	return out, args.Error(1)
}

// FetchRecords implements the RecordSource interface.
func (m *MockRecordStore) FetchRecords(ctx context.Context, metric schema.Metric, year int, schoolIDs []string) ([]schema.MeasurementRecord, error) {
	args := m.Called(ctx, metric, year, schoolIDs)
	out, _ := args.Get(0).([]schema.MeasurementRecord)
	return out, args.Error(1)
}

// FetchTargets implements the RecordSource interface.
func (m *MockRecordStore) FetchTargets(ctx context.Context, year int, schoolIDs []string) ([]schema.Target, error) {
	args := m.Called(ctx, year, schoolIDs)
	out, _ := args.Get(0).([]schema.Target)
	return out, args.Error(1)
}

// Import implements the RecordStore interface.
func (m *MockRecordStore) Import(ctx context.Context, source string, data *schema.Dataset) (schema.ImportBatch, error) {
	args := m.Called(ctx, source, data)
	return args.Get(0).(schema.ImportBatch), args.Error(1)
}

// GetStatus implements the RecordStore interface.
func (m *MockRecordStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Clear implements the RecordStore interface.
func (m *MockRecordStore) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// Close implements the RecordStore interface.
func (m *MockRecordStore) Close() error {
	return m.Called().Error(0)
}
