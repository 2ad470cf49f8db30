package store

import (
	"testing"

	"github.com/farolescolar/farol/schema"
	"github.com/stretchr/testify/assert"
)

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		wantErr bool
	}{
		{"simple", "farol_schools", false},
		{"leading underscore", "_tmp", false},
		{"empty", "", true},
		{"leading digit", "1table", true},
		{"injection", "farol; DROP TABLE x", true},
		{"quote", "farol\"x", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.table)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`farol_nps`", quoteTableName("farol_nps", schema.MySQLBackend))
	assert.Equal(t, `"farol_nps"`, quoteTableName("farol_nps", schema.PostgreSQLBackend))
	assert.Equal(t, `"farol_nps"`, quoteTableName("farol_nps", schema.SQLiteBackend))
}

func TestPlaceholderList(t *testing.T) {
	assert.Equal(t, "?, ?, ?", placeholderList(schema.SQLiteBackend, 1, 3))
	assert.Equal(t, "?", placeholderList(schema.MySQLBackend, 5, 1))
	assert.Equal(t, "$2, $3", placeholderList(schema.PostgreSQLBackend, 2, 2))
	assert.Equal(t, "", placeholderList(schema.PostgreSQLBackend, 1, 0))
}

func FuzzValidateTableName(f *testing.F) {
	for _, s := range []string{"farol_schools", "", "1x", "a b", "`x`"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, name string) {
		if validateTableName(name) != nil {
			return
		}
		// Accepted names survive quoting without embedded quote characters.
		for _, b := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend} {
			q := quoteTableName(name, b)
			assert.Equal(t, name, q[1:len(q)-1])
			assert.NotContains(t, name, "\"")
			assert.NotContains(t, name, "`")
		}
	})
}
