package ioload_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iometrics"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/ionotify"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/ioload"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/ioparquet"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/batch"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/errcode"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/frame"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/partition"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/schema"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hour(h int) time.Time {
	return time.Date(2024, 1, 1, h, 0, 0, 0, time.UTC)
}

func writeFrame(t *testing.T, path string, cols ...*frame.Column) string {
	t.Helper()
	f, err := frame.New(cols...)
	require.NoError(t, err)
	require.NoError(t, ioparquet.Write(path, f))
	return path
}

// openStore opens a SQLite store and a second handle to inspect it.
func openStore(t *testing.T, batchSize int) (*ioload.SQLiteStore, *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db", "agri.sqlite")
	s, err := ioload.OpenSQLite(path, batchSize)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return s, db
}

type row struct {
	region string
	ts     string
	t2m    sql.NullFloat64
}

func hourlyRows(t *testing.T, db *sql.DB) []row {
	t.Helper()
	rows, err := db.Query(`SELECT region, ts, t2m FROM era5_hourly ORDER BY region, ts`)
	require.NoError(t, err)
	defer rows.Close()
	var res []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.region, &r.ts, &r.t2m))
		res = append(res, r)
	}
	require.NoError(t, rows.Err())
	return res
}

func count(t *testing.T, db *sql.DB, q string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(q).Scan(&n))
	return n
}

type spyNotifier struct{ events []ionotify.Event }

func (s *spyNotifier) Notify(_ context.Context, ev ionotify.Event) error {
	s.events = append(s.events, ev)
	return nil
}

func (s *spyNotifier) Close() error { return nil }

func TestLoadFileIdempotent(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store, db := openStore(t, 2)
	spy := &spyNotifier{}
	m := iometrics.New()
	l := ioload.New(store, partition.Hourly,
		ioload.OptNotifier(spy),
		ioload.OptMetrics(m),
		ioload.OptRunID("run-1"),
		ioload.OptClock(clockwork.NewFakeClockAt(hour(12))),
	)

	path := writeFrame(t, filepath.Join(t.TempDir(), "a.parquet"),
		frame.NewString("region", []string{"rostov", "rostov", "krasnodar"}),
		frame.NewTimestamp("ts", []time.Time{hour(0), hour(1), hour(0)}),
		frame.NewFloat("t2m", []float64{1, 2, 3}),
	)

	n, err := l.LoadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(3, n)
	first := hourlyRows(t, db)

	n, err = l.LoadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(3, n)
	assert.Equal(first, hourlyRows(t, db), "second load changes nothing")
	require.Len(t, first, 3)
	assert.Equal("2024-01-01T00:00:00Z", first[0].ts)

	assert.Equal(1, count(t, db, `SELECT count(*) FROM load_log`),
		"reload updates the log row")
	require.Len(t, spy.events, 2)
	assert.Equal([]string{"krasnodar", "rostov"}, spy.events[0].Regions)
	assert.Equal(ioload.FileID(partition.Hourly, path), spy.events[0].FileID)
	assert.Equal("run-1", spy.events[0].RunID)
	assert.Equal(hour(12), spy.events[0].LoadedAt)
}

func TestLoadFileConflictAndDrift(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store, db := openStore(t, 1000)
	l := ioload.New(store, partition.Hourly)
	dir := t.TempDir()

	old := writeFrame(t, filepath.Join(dir, "old.parquet"),
		frame.NewString("region", []string{"rostov", "rostov"}),
		frame.NewTimestamp("ts", []time.Time{hour(0), hour(1)}),
		frame.NewFloat("t2m", []float64{1, 2}),
	)
	upd := writeFrame(t, filepath.Join(dir, "new.parquet"),
		frame.NewString("region", []string{"rostov", "rostov", "rostov"}),
		frame.NewTimestamp("ts", []time.Time{hour(1), hour(2), hour(1)}),
		frame.NewFloat("t2m", []float64{20, 30, 21}),
		frame.NewFloat("swvl1", []float64{0.1, 0.2, 0.3}),
	)

	_, err := l.LoadFile(ctx, old)
	require.NoError(t, err)
	n, err := l.LoadFile(ctx, upd)
	require.NoError(t, err)
	assert.Equal(2, n, "duplicate key inside a file is dropped")

	rows := hourlyRows(t, db)
	require.Len(t, rows, 3)
	assert.Equal(1.0, rows[0].t2m.Float64, "untouched key keeps value")
	assert.Equal(21.0, rows[1].t2m.Float64, "last row of the file wins")
	assert.Equal(30.0, rows[2].t2m.Float64)

	var swvl sql.NullFloat64
	err = db.QueryRow(
		`SELECT swvl1 FROM era5_hourly WHERE ts = '2024-01-01T00:00:00Z'`).Scan(&swvl)
	require.NoError(t, err)
	assert.False(swvl.Valid, "new column is null for older rows")
}

func TestLoadFileRollback(t *testing.T) {
	ctx := context.Background()
	store, db := openStore(t, 1)
	_, err := db.Exec(`CREATE TRIGGER boom BEFORE INSERT ON era5_hourly
WHEN NEW.region = 'bad'
BEGIN SELECT RAISE(ABORT, 'boom'); END`)
	require.NoError(t, err)

	path := writeFrame(t, filepath.Join(t.TempDir(), "x.parquet"),
		frame.NewString("region", []string{"good", "bad"}),
		frame.NewTimestamp("ts", []time.Time{hour(0), hour(0)}),
		frame.NewFloat("lai_hv", []float64{1, 2}),
	)

	l := ioload.New(store, partition.Hourly)
	_, err = l.LoadFile(ctx, path)
	assert.True(t, errcode.Is(err, errcode.LoadStoreError))
	assert.Contains(t, err.Error(), path)

	assert.Equal(t, 0, count(t, db, `SELECT count(*) FROM era5_hourly`))
	assert.Equal(t, 0, count(t, db, `SELECT count(*) FROM load_log`))
	assert.Equal(t, 0, count(t, db,
		`SELECT count(*) FROM pragma_table_info('era5_hourly') WHERE name = 'lai_hv'`),
		"added column is rolled back")
}

type spyStore struct{ calls int }

func (s *spyStore) Upsert(context.Context, partition.Tier, *frame.Frame, schema.LoadLog) error {
	s.calls++
	return nil
}

func (s *spyStore) Close() error { return nil }

func TestLoadFileValidation(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		msg  string
		tier partition.Tier
		cols []*frame.Column
	}{
		{"no time key", partition.Hourly, []*frame.Column{
			frame.NewString("region", []string{"a"}),
			frame.NewFloat("t2m", []float64{1}),
		}},
		{"no region", partition.Daily, []*frame.Column{
			frame.NewDate("day", []time.Time{day}),
		}},
		{"wrong key kind", partition.Daily, []*frame.Column{
			frame.NewString("region", []string{"a"}),
			frame.NewTimestamp("day", []time.Time{day}),
		}},
		{"empty region", partition.Hourly, []*frame.Column{
			frame.NewString("region", []string{""}),
			frame.NewTimestamp("ts", []time.Time{day}),
		}},
		{"text measure", partition.Hourly, []*frame.Column{
			frame.NewString("region", []string{"a"}),
			frame.NewTimestamp("ts", []time.Time{day}),
			frame.NewString("note", []string{"x"}),
		}},
		{"bad name", partition.Hourly, []*frame.Column{
			frame.NewString("region", []string{"a"}),
			frame.NewTimestamp("ts", []time.Time{day}),
			frame.NewFloat(`t2m"; drop`, []float64{1}),
		}},
	}

	for i, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			spy := &spyStore{}
			path := writeFrame(t, filepath.Join(dir, v.msg+".parquet"), v.cols...)
			l := ioload.New(spy, v.tier)
			_, err := l.LoadFile(context.Background(), path)
			assert.True(t, errcode.Is(err, errcode.LoadValidationError), i)
			assert.Equal(t, 0, spy.calls)
		})
	}
}

func TestDedup(t *testing.T) {
	f, err := frame.New(
		frame.NewString("region", []string{"a", "a", "b", "a"}),
		frame.NewTimestamp("ts", []time.Time{hour(0), hour(1), hour(0), hour(0)}),
		frame.NewFloat("t2m", []float64{1, 2, 3, 4}),
	)
	require.NoError(t, err)

	res := ioload.Dedup(f, partition.Hourly)
	vals, _ := res.Floats("t2m")
	assert.Equal(t, []float64{2, 3, 4}, vals)
}

func TestLoadPeriod(t *testing.T) {
	assert := assert.New(t)
	root := t.TempDir()
	store, db := openStore(t, 100)
	m := iometrics.New()

	writeFrame(t, partition.DailyPath(root, 2024, 1),
		frame.NewString("region", []string{"rostov"}),
		frame.NewDate("day", []time.Time{hour(0)}),
		frame.NewFloat("tp_sum", []float64{3}),
	)
	writeFrame(t, partition.DailyPath(root, 2024, 3),
		frame.NewString("region", []string{"rostov"}),
		frame.NewDate("day", []time.Time{hour(0).AddDate(0, 2, 0)}),
		frame.NewString("tp_sum", []string{"oops"}),
	)

	l := ioload.New(store, partition.Daily, ioload.OptMetrics(m))
	report, err := l.Load(context.Background(), root,
		partition.Period{Year: 2024, Months: []int{1, 2, 3}})
	assert.True(errcode.Is(err, errcode.BatchFailedError))
	require.Len(t, report.Results, 3)
	assert.Equal(batch.OK, report.Results[0].Outcome)
	assert.Equal(batch.Skip, report.Results[1].Outcome)
	assert.Equal(batch.Fail, report.Results[2].Outcome)
	assert.Equal(1.0, testutil.ToFloat64(m.Rows.WithLabelValues("load")))

	var day string
	require.NoError(t, db.QueryRow(`SELECT day FROM era5_daily`).Scan(&day))
	assert.Equal("2024-01-01", day)
}
