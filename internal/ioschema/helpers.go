package ioschema

import (
	"fmt"

	"github.com/jackc/pgx/v5"
)

// createSchemaSQL formats an idempotent CREATE SCHEMA statement.
func createSchemaSQL(name string) string {
	return fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s",
		pgx.Identifier{name}.Sanitize())
}
