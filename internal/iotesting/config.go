// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iodb"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/config"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/db"
)

// TestDatabaseName is the database name used for all integration tests.
// Tests never run against other databases.
const TestDatabaseName = "agri_test"

// Config returns defaults with database settings taken from
// AGRIMART_DATABASE_* variables and the database name forced to
// TestDatabaseName.
func Config() *config.Config {
	cfg := config.New()
	var opts []config.Option
	if s := os.Getenv("AGRIMART_DATABASE_HOST"); s != "" {
		opts = append(opts, config.OptDatabaseHost(s))
	}
	if s := os.Getenv("AGRIMART_DATABASE_PORT"); s != "" {
		if i, err := strconv.Atoi(s); err == nil {
			opts = append(opts, config.OptDatabasePort(i))
		}
	}
	if s := os.Getenv("AGRIMART_DATABASE_USER"); s != "" {
		opts = append(opts, config.OptDatabaseUser(s))
	}
	if s := os.Getenv("AGRIMART_DATABASE_PASSWORD"); s != "" {
		opts = append(opts, config.OptDatabasePassword(s))
	}
	cfg.Update(opts)
	cfg.Database.Database = TestDatabaseName
	return cfg
}

// DatabaseConfig returns only the database part of Config.
func DatabaseConfig() *config.DatabaseConfig {
	return &Config().Database
}

// Connect opens the test database. It returns false when the database
// is not reachable so callers can skip.
func Connect(t *testing.T) (db.Operator, bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, DatabaseConfig()); err != nil {
		t.Logf("test database: %v", err)
		return nil, false
	}
	return op, true
}
