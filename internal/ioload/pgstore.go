package ioload

import (
	"context"
	"fmt"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/frame"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/partition"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/schema"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var pgDialect = dialect{
	quote:       func(parts ...string) string { return pgx.Identifier(parts).Sanitize() },
	placeholder: func(i int) string { return fmt.Sprintf("$%d", i+1) },
	maxParams:   65535,
	value:       pgValue,
}

// PgStore upserts into marts tables of PostgreSQL.
type PgStore struct {
	pool  *pgxpool.Pool
	batch int
}

// NewPgStore creates a store on a connected pool. Batch is the number
// of rows per statement.
func NewPgStore(pool *pgxpool.Pool, batch int) *PgStore {
	return &PgStore{pool: pool, batch: batch}
}

// Upsert runs the whole file on one acquired connection in one
// transaction.
func (s *PgStore) Upsert(
	ctx context.Context,
	tier partition.Tier,
	f *frame.Frame,
	log schema.LoadLog,
) error {
	if s.pool == nil {
		return NotConnectedError()
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return LoadStoreError(log.Path, err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return LoadStoreError(log.Path, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	table := pgDialect.quote(schema.Schema, tier.Table)
	key := tier.KeyColumns()
	existing, err := s.columns(ctx, tx, tier.Table)
	if err != nil {
		return LoadStoreError(log.Path, err)
	}
	// ALTER TABLE locks the table even when nothing changes.
	for _, name := range missingColumns(f.Names(), key, existing) {
		q := fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s double precision",
			table, pgDialect.quote(name))
		if _, err = tx.Exec(ctx, q); err != nil {
			return LoadStoreError(log.Path, err)
		}
	}

	names := f.Names()
	chunk := pgDialect.chunkRows(s.batch, len(names))
	for from := 0; from < f.Len(); from += chunk {
		to := min(from+chunk, f.Len())
		q := pgDialect.upsertSQL(table, names, key, to-from)
		if _, err = tx.Exec(ctx, q, pgDialect.args(f, from, to)...); err != nil {
			return LoadStoreError(log.Path, err)
		}
	}

	if err = s.logLoad(ctx, tx, log); err != nil {
		return LoadStoreError(log.Path, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return LoadStoreError(log.Path, err)
	}
	return nil
}

func (s *PgStore) columns(
	ctx context.Context,
	tx pgx.Tx,
	table string,
) ([]string, error) {
	q := `SELECT column_name
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2`
	rows, err := tx.Query(ctx, q, schema.Schema, table)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (s *PgStore) logLoad(ctx context.Context, tx pgx.Tx, log schema.LoadLog) error {
	q := `INSERT INTO marts.load_log (id, run_id, tier, path, row_count, loaded_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
	run_id = excluded.run_id, row_count = excluded.row_count, loaded_at = excluded.loaded_at`
	_, err := tx.Exec(ctx, q,
		log.ID, log.RunID, log.Tier, log.Path, log.RowCount, log.LoadedAt.UTC())
	return err
}

// Close does nothing, the pool belongs to the database operator.
func (s *PgStore) Close() error {
	return nil
}
