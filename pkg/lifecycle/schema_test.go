package lifecycle_test

import (
	"testing"

	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iodb"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/ioload"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/ioschema"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
)

// TestSchemaManagerContract ensures that the schema manager satisfies
// the lifecycle.SchemaManager interface.
func TestSchemaManagerContract(t *testing.T) {
	var sm lifecycle.SchemaManager = ioschema.NewManager(iodb.NewPgxOperator())
	assert.NotNil(t, sm)
}

// TestStoreContract ensures both load backends satisfy lifecycle.Store.
func TestStoreContract(t *testing.T) {
	var _ lifecycle.Store = (*ioload.PgStore)(nil)
	var _ lifecycle.Store = (*ioload.SQLiteStore)(nil)

	s, err := ioload.OpenSQLite(t.TempDir()+"/marts.sqlite", 100)
	assert.NoError(t, err)
	var store lifecycle.Store = s
	assert.NoError(t, store.Close())
}
