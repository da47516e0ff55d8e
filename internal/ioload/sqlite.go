package ioload

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/frame"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/partition"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/schema"
	_ "modernc.org/sqlite"
)

var sqliteDialect = dialect{
	quote:       quoteDouble,
	placeholder: func(int) string { return "?" },
	maxParams:   32766,
	value:       sqliteValue,
}

// SQLiteStore keeps marts tables in a local SQLite file. Time keys are
// stored as RFC 3339 text, dates as YYYY-MM-DD.
type SQLiteStore struct {
	db    *sql.DB
	path  string
	batch int
}

// OpenSQLite opens or creates a SQLite store with base tables.
func OpenSQLite(path string, batch int) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, SQLiteOpenError(path, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, SQLiteOpenError(path, err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	for _, t := range schema.Tables {
		if _, err = db.Exec(t.DDL()); err != nil {
			_ = db.Close()
			return nil, SQLiteOpenError(path, err)
		}
	}
	return &SQLiteStore{db: db, path: path, batch: batch}, nil
}

// Upsert runs the whole file in one transaction.
func (s *SQLiteStore) Upsert(
	ctx context.Context,
	tier partition.Tier,
	f *frame.Frame,
	log schema.LoadLog,
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoadStoreError(log.Path, err)
	}
	defer func() { _ = tx.Rollback() }()

	table := sqliteDialect.quote(tier.Table)
	existing, err := s.columns(ctx, tx, tier.Table)
	if err != nil {
		return LoadStoreError(log.Path, err)
	}
	key := tier.KeyColumns()
	for _, name := range missingColumns(f.Names(), key, existing) {
		q := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s REAL",
			table, sqliteDialect.quote(name))
		if _, err = tx.ExecContext(ctx, q); err != nil {
			return LoadStoreError(log.Path, err)
		}
	}

	names := f.Names()
	chunk := sqliteDialect.chunkRows(s.batch, len(names))
	for from := 0; from < f.Len(); from += chunk {
		to := min(from+chunk, f.Len())
		q := sqliteDialect.upsertSQL(table, names, key, to-from)
		if _, err = tx.ExecContext(ctx, q, sqliteDialect.args(f, from, to)...); err != nil {
			return LoadStoreError(log.Path, err)
		}
	}

	q := `INSERT INTO load_log (id, run_id, tier, path, row_count, loaded_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	run_id = excluded.run_id, row_count = excluded.row_count, loaded_at = excluded.loaded_at`
	_, err = tx.ExecContext(ctx, q, log.ID, log.RunID, log.Tier, log.Path,
		log.RowCount, log.LoadedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return LoadStoreError(log.Path, err)
	}

	if err = tx.Commit(); err != nil {
		return LoadStoreError(log.Path, err)
	}
	return nil
}

func (s *SQLiteStore) columns(
	ctx context.Context,
	tx *sql.Tx,
	table string,
) ([]string, error) {
	q := fmt.Sprintf("PRAGMA table_info(%s)", sqliteDialect.quote(table))
	rows, err := tx.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err = rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		res = append(res, name)
	}
	return res, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
