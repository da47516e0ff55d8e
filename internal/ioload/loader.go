// Package ioload reconciles partition files into a store. Loading is
// idempotent: the store is keyed by (region, time) and every row is
// inserted or updated, never deleted.
package ioload

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iometrics"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/ionotify"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/ioparquet"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/batch"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/config"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/frame"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/lifecycle"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/partition"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/schema"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/jonboulle/clockwork"
)

// Stage is the metrics label of loading.
const Stage = "load"

// Loader loads partition files of one tier.
type Loader struct {
	store    lifecycle.Store
	tier     partition.Tier
	notifier ionotify.Notifier
	metrics  *iometrics.Metrics
	clock    clockwork.Clock
	runID    string
}

// Option customizes a Loader.
type Option func(*Loader)

func OptNotifier(n ionotify.Notifier) Option {
	return func(l *Loader) { l.notifier = n }
}

func OptMetrics(m *iometrics.Metrics) Option {
	return func(l *Loader) { l.metrics = m }
}

func OptClock(c clockwork.Clock) Option {
	return func(l *Loader) { l.clock = c }
}

// OptRunID sets the run id recorded with every load.
func OptRunID(id string) Option {
	return func(l *Loader) { l.runID = id }
}

// New creates a Loader of a tier.
func New(store lifecycle.Store, tier partition.Tier, opts ...Option) *Loader {
	res := &Loader{
		store:    store,
		tier:     tier,
		notifier: ionotify.Noop{},
		metrics:  iometrics.New(),
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// FileID is a stable id of a partition file of a tier.
func FileID(tier partition.Tier, path string) string {
	return gnuuid.New(tier.Name + "|" + filepath.Clean(path)).String()
}

// LoadFile reads, validates, deduplicates and upserts one partition
// file. It returns the number of rows sent to the store.
func (l *Loader) LoadFile(ctx context.Context, path string) (int, error) {
	f, err := ioparquet.Read(path)
	if err != nil {
		return 0, err
	}

	if err = l.validate(path, f); err != nil {
		return 0, err
	}

	f = Dedup(f, l.tier)

	log := schema.LoadLog{
		ID:       FileID(l.tier, path),
		RunID:    l.runID,
		Tier:     l.tier.Name,
		Path:     path,
		RowCount: f.Len(),
		LoadedAt: l.clock.Now().UTC(),
	}
	if err = l.store.Upsert(ctx, l.tier, f, log); err != nil {
		return 0, err
	}

	regions, _ := f.Strings(partition.RegionColumn)
	ev := ionotify.Event{
		RunID:    l.runID,
		FileID:   log.ID,
		Tier:     l.tier.Name,
		Path:     path,
		Rows:     f.Len(),
		Regions:  distinct(regions),
		Columns:  f.Names(),
		LoadedAt: log.LoadedAt,
	}
	// the file is committed, a lost event is not a load failure
	if err = l.notifier.Notify(ctx, ev); err != nil {
		slog.Warn("Load event was not published", "path", path, "error", err)
	}
	return f.Len(), nil
}

// Load loads every partition of the period. Months without partitions
// are skipped. A failed file does not stop the others.
func (l *Loader) Load(
	ctx context.Context,
	root string,
	period partition.Period,
) (*batch.Report, error) {
	start := l.clock.Now()
	report := &batch.Report{Stage: Stage + " " + l.tier.Name}

	for _, pattern := range l.tier.Paths(root, period) {
		files, err := filepath.Glob(pattern)
		if err != nil {
			report.Results = append(report.Results, batch.Result{
				Unit: pattern, Outcome: batch.Fail, Err: err,
			})
			continue
		}
		if len(files) == 0 {
			report.Results = append(report.Results, batch.Result{
				Unit: pattern, Outcome: batch.Skip,
				Reason: "no parquet", Path: pattern,
			})
			l.metrics.Unit(Stage, batch.Skip.String(), 0)
			continue
		}
		slices.Sort(files)

		for _, path := range files {
			if err := ctx.Err(); err != nil {
				return report, CancelledError(err)
			}
			report.Results = append(report.Results, l.loadUnit(ctx, path))
		}
	}

	dur := l.clock.Since(start)
	slog.Info("Load done",
		"tier", l.tier.Name,
		"ok", report.Count(batch.OK),
		"skipped", report.Count(batch.Skip),
		"failed", report.Count(batch.Fail),
		"rows", report.Rows(),
		"duration", gnfmt.TimeString(dur.Seconds()),
	)
	gn.Info("Load %s: ok %d, skipped %d, failed %d, rows %s. Elapsed <em>%s</em>",
		l.tier.Name,
		report.Count(batch.OK),
		report.Count(batch.Skip),
		report.Count(batch.Fail),
		humanize.Comma(int64(report.Rows())),
		gnfmt.TimeString(dur.Seconds()),
	)
	return report, report.Err()
}

func (l *Loader) loadUnit(ctx context.Context, path string) batch.Result {
	start := l.clock.Now()
	res := batch.Result{Unit: path}
	rows, err := l.LoadFile(ctx, path)
	if err != nil {
		slog.Error("Load failed", "path", path, "error", err)
		res.Outcome, res.Err = batch.Fail, err
	} else {
		res.Outcome, res.Path, res.Rows = batch.OK, path, rows
		l.metrics.AddRows(Stage, rows)
	}
	l.metrics.Unit(Stage, res.Outcome.String(), l.clock.Since(start).Seconds())
	return res
}

// validate checks key columns of the tier and measure columns.
func (l *Loader) validate(path string, f *frame.Frame) error {
	keys := []struct {
		name string
		kind frame.Kind
	}{
		{partition.RegionColumn, frame.String},
		{l.tier.KeyColumn, l.tier.KeyKind},
	}
	for _, k := range keys {
		c, ok := f.Column(k.name)
		if !ok {
			return ValidationError(path,
				fmt.Sprintf("missing key column %q, columns %v", k.name, f.Names()))
		}
		if c.Kind != k.kind {
			return ValidationError(path,
				fmt.Sprintf("key column %q is %s, want %s", k.name, c.Kind, k.kind))
		}
	}

	regions, _ := f.Strings(partition.RegionColumn)
	times, _ := f.Times(l.tier.KeyColumn)
	for i := range regions {
		if regions[i] == "" || times[i].IsZero() {
			return ValidationError(path, fmt.Sprintf("row %d has an empty key", i))
		}
	}

	for _, c := range f.Columns() {
		if slices.Contains(l.tier.KeyColumns(), c.Name) {
			continue
		}
		if !config.VariableName.MatchString(c.Name) {
			return ValidationError(path, fmt.Sprintf("bad column name %q", c.Name))
		}
		if c.Kind != frame.Float {
			return ValidationError(path,
				fmt.Sprintf("measure %q is %s, want %s", c.Name, c.Kind, frame.Float))
		}
	}
	return nil
}

// Dedup keeps the last row of every key, in order of those rows.
func Dedup(f *frame.Frame, tier partition.Tier) *frame.Frame {
	regions, _ := f.Strings(partition.RegionColumn)
	times, _ := f.Times(tier.KeyColumn)

	type key struct {
		region string
		t      time.Time
	}
	last := make(map[key]int, len(regions))
	for i := range regions {
		last[key{regions[i], times[i].UTC()}] = i
	}
	if len(last) == len(regions) {
		return f
	}

	idx := make([]int, 0, len(last))
	for i := range regions {
		if last[key{regions[i], times[i].UTC()}] == i {
			idx = append(idx, i)
		}
	}
	slog.Debug("Duplicate keys dropped", "rows", len(regions), "kept", len(idx))
	return f.Take(idx)
}

func distinct(ss []string) []string {
	res := slices.Clone(ss)
	slices.Sort(res)
	return slices.Compact(res)
}
