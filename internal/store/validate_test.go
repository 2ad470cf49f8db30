package store

import (
	"errors"
	"testing"

	"github.com/farolescolar/farol/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		assert.NoError(t, validateStruct(schema.QualityRecord{SchoolID: "e1", Year: 2024, Month: 3, Score: 4.2}))
	})

	t.Run("invalid record fields use json names", func(t *testing.T) {
		err := validateStruct(schema.QualityRecord{Year: 2024, Month: 13, Score: 7})
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrInvalidInput)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		fields := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, f.Field)
			assert.NotEmpty(t, f.Message)
		}
		assert.ElementsMatch(t, []string{"escola_id", "mes", "pontuacao"}, fields)
	})

	t.Run("nested dataset paths", func(t *testing.T) {
		ds := schema.Dataset{
			Schools: []schema.School{{ID: "e1", Name: "Alfa"}, {ID: "e2"}},
			Targets: []schema.Target{{SchoolID: "e1", Year: 2024, Metric: schema.QualityMetric}},
		}
		err := validateStruct(ds)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		fields := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, f.Field)
		}
		assert.ElementsMatch(t, []string{"escolas[1].nome", "metas[0].metrica"}, fields)
		assert.Contains(t, err.Error(), "escolas[1].nome")
	})
}
