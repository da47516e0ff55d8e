// Package ioquery serves read-only range queries over the marts tables
// for the dashboard.
package ioquery

import (
	"context"
	"fmt"
	"time"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/frame"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/partition"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/schema"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Series is a table of a query result.
type Series struct {
	Tier    string   `json:"tier"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Querier runs range queries of a tier.
type Querier interface {
	Series(
		ctx context.Context,
		tier partition.Tier,
		regions []string,
		from, to time.Time,
	) (*Series, error)
}

// PgQuerier queries PostgreSQL.
type PgQuerier struct {
	pool *pgxpool.Pool
}

func NewPgQuerier(pool *pgxpool.Pool) *PgQuerier {
	return &PgQuerier{pool: pool}
}

// Series returns rows of given regions with the time key in [from, to],
// ordered by region and time.
func (q *PgQuerier) Series(
	ctx context.Context,
	tier partition.Tier,
	regions []string,
	from, to time.Time,
) (*Series, error) {
	key := pgx.Identifier{tier.KeyColumn}.Sanitize()
	sql := fmt.Sprintf(
		`SELECT * FROM %s WHERE region = ANY($1) AND %s BETWEEN $2 AND $3 ORDER BY region, %s`,
		pgx.Identifier{schema.Schema, tier.Table}.Sanitize(), key, key,
	)

	rows, err := q.pool.Query(ctx, sql, regions, from, to)
	if err != nil {
		return nil, QueryError(tier.Table, err)
	}
	defer rows.Close()

	res := &Series{Tier: tier.Name, Rows: [][]any{}}
	for _, fd := range rows.FieldDescriptions() {
		res.Columns = append(res.Columns, fd.Name)
	}

	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, QueryError(tier.Table, err)
		}
		for i, v := range vals {
			if t, ok := v.(time.Time); ok {
				vals[i] = formatTime(t, tier.KeyKind)
			}
		}
		res.Rows = append(res.Rows, vals)
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError(tier.Table, err)
	}
	return res, nil
}

func formatTime(t time.Time, kind frame.Kind) string {
	if kind == frame.Date {
		return t.UTC().Format(time.DateOnly)
	}
	return t.UTC().Format(time.RFC3339)
}
