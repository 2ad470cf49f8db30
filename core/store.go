package core

import (
	"context"
	"fmt"

	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/internal/store"
	"github.com/farolescolar/farol/schema"
)

// ImportDataset loads a YAML or JSON dataset file and writes it to the record store as one batch.
func ImportDataset(ctx context.Context, mgr contract.StoreManager, path string) (schema.ImportBatch, error) {
	if mgr == nil || mgr.GetRecordStore() == nil {
		return schema.ImportBatch{}, errNoStore
	}
	data, err := store.LoadDataset(path)
	if err != nil {
		return schema.ImportBatch{}, err
	}
	batch, err := mgr.GetRecordStore().Import(ctx, path, data)
	if err != nil {
		return schema.ImportBatch{}, fmt.Errorf("import of %s failed: %w", path, err)
	}
	contract.Logger().Info().
		Str("batch_id", batch.BatchID).
		Int("records", batch.RecordCount).
		Str("source", path).
		Msg("Dataset imported")
	return batch, nil
}

// ClearStore deletes every entity, record and target from the record store.
func ClearStore(ctx context.Context, mgr contract.StoreManager) error {
	if mgr == nil || mgr.GetRecordStore() == nil {
		return errNoStore
	}
	return mgr.GetRecordStore().Clear(ctx)
}
