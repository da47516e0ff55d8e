// Package lifecycle defines contracts of database lifecycle steps run
// by commands.
package lifecycle

import (
	"context"
)

// SchemaManager creates the marts schema and its base tables.
// It is idempotent, running it again changes nothing.
type SchemaManager interface {
	// Create creates schema marts and base tables of hourly, daily and
	// load log with GORM AutoMigrate.
	Create(ctx context.Context) error
}
