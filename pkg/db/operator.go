// Package db defines the contract of a PostgreSQL connection holder
// shared by the schema manager, the loader and the query API.
package db

import (
	"context"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator manages the connection lifecycle and exposes the pool for
// components that run their own SQL.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pool, nil before Connect.
	Pool() *pgxpool.Pool
}
