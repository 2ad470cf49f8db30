//go:build basic

package integration

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/farolescolar/farol/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSQLiteEnv points the binary at a fresh SQLite file and loads the sample dataset.
func newSQLiteEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FAROL_DB_BACKEND", "sqlite")
	t.Setenv("FAROL_DB_CONNECT", filepath.Join(t.TempDir(), "farol.db"))
	t.Setenv("FAROL_YEAR", "2024")
	t.Setenv("FAROL_COLOR", "no")

	out, err := runFarolCommand(t, "store", "import", sampleDataset)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 36 records")
}

func TestFarolRankingVerification(t *testing.T) {
	newSQLiteEnv(t)

	out, err := runFarolCommand(t, "ranking", "--metric", "freq", "--output", "json")
	require.NoError(t, err)

	var ranked []schema.GapEntry
	require.NoError(t, json.Unmarshal([]byte(out), &ranked))
	require.Len(t, ranked, 4)

	ids := make([]string, len(ranked))
	for i, e := range ranked {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"esc-102", "esc-201", "esc-202", "esc-101"}, ids)
	assert.InDelta(t, -6.0, ranked[0].Gap, 1e-9)
	assert.Equal(t, 1, ranked[0].Rank)
}

func TestFarolRegionalRankingVerification(t *testing.T) {
	newSQLiteEnv(t)

	out, err := runFarolCommand(t, "regional-ranking", "--output", "json")
	require.NoError(t, err)

	var ranked []schema.GapEntry
	require.NoError(t, json.Unmarshal([]byte(out), &ranked))
	require.Len(t, ranked, 2)
	assert.Equal(t, "reg-centro", ranked[0].ID)
	assert.InDelta(t, -1.75, ranked[0].Gap, 1e-9)
	assert.Equal(t, "reg-litoral", ranked[1].ID)
	assert.InDelta(t, 0.75, ranked[1].Gap, 1e-9)
}

func TestFarolMatrixVerification(t *testing.T) {
	newSQLiteEnv(t)

	out, err := runFarolCommand(t, "matrix", "--month", "3", "--regional", "reg-centro", "--output", "json")
	require.NoError(t, err)

	var rows []schema.MatrixRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)

	bySchool := make(map[string]schema.MatrixRow)
	for _, r := range rows {
		bySchool[r.SchoolID] = r
	}
	assert.Equal(t, schema.Green, bySchool["esc-101"].Cells[schema.OpenClassMetric].Status)
	assert.Equal(t, schema.Red, bySchool["esc-102"].Cells[schema.OpenClassMetric].Status)
	assert.Equal(t, schema.Green, bySchool["esc-101"].Cells[schema.QualityMetric].Status)
	assert.Equal(t, schema.Yellow, bySchool["esc-102"].Cells[schema.QualityMetric].Status)
}

func TestFarolStoreLifecycle(t *testing.T) {
	newSQLiteEnv(t)

	out, err := runFarolCommand(t, "store", "status", "--output", "json")
	require.NoError(t, err)
	var status schema.StoreStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, uint(2), status.SchemaVersion)
	assert.Equal(t, int64(1), status.TotalBatches)
	assert.Equal(t, int64(4), status.TableSizes["farol_schools"])

	_, err = runFarolCommand(t, "store", "clear")
	require.NoError(t, err)

	_, err = runFarolCommand(t, "store", "migrate", "--target-version", "0")
	require.NoError(t, err)
	out, err = runFarolCommand(t, "store", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "from version 0 to 2")
}

func TestFarolCheckExitCode(t *testing.T) {
	newSQLiteEnv(t)

	_, err := runFarolCommand(t, "check", "--max-red", "0", "--check-metrics", "aulas_vagas")
	assert.Error(t, err, "one school has open classes")

	_, err = runFarolCommand(t, "check", "--max-red", "1", "--check-metrics", "aulas_vagas")
	assert.NoError(t, err)
}

func TestFarolRulesWithoutStore(t *testing.T) {
	t.Setenv("FAROL_DB_BACKEND", "sqlite")
	t.Setenv("FAROL_DB_CONNECT", filepath.Join(t.TempDir(), "unused.db"))

	out, err := runFarolCommand(t, "rules", "--output", "json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "["))
}
