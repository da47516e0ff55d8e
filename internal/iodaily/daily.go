// Package iodaily rolls hourly partitions of a month up to one daily
// partition holding all regions.
package iodaily

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iometrics"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/ioparquet"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/aggregate"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/batch"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/catalog"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/config"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/frame"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/partition"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

const Stage = "daily"

// Builder writes daily partitions.
type Builder struct {
	cfg     *config.Config
	cat     *catalog.Catalog
	metrics *iometrics.Metrics
	clock   clockwork.Clock
}

// New creates a daily Builder.
func New(
	cfg *config.Config,
	cat *catalog.Catalog,
	m *iometrics.Metrics,
	clock clockwork.Clock,
) *Builder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Builder{cfg: cfg, cat: cat, metrics: m, clock: clock}
}

// Build aggregates every month of the period. A month without hourly
// partitions is skipped and nothing is written for it. Results are in
// month order.
func (b *Builder) Build(
	ctx context.Context,
	period partition.Period,
) (*batch.Report, error) {
	start := b.clock.Now()
	months := slices.Clone(period.Months)
	slices.Sort(months)

	slog.Info("Building daily partitions", "year", period.Year, "months", months)

	results := make([]batch.Result, len(months))
	g := &errgroup.Group{}
	g.SetLimit(max(b.cfg.JobsNumber, 1))
	for i, m := range months {
		g.Go(func() error {
			results[i] = b.month(ctx, period.Year, m)
			return nil
		})
	}
	_ = g.Wait()

	report := &batch.Report{Stage: Stage, Results: results}
	dur := b.clock.Since(start)
	slog.Info("Daily partitions done",
		"ok", report.Count(batch.OK),
		"skipped", report.Count(batch.Skip),
		"failed", report.Count(batch.Fail),
		"rows", report.Rows(),
		"duration", gnfmt.TimeString(dur.Seconds()),
	)
	gn.Info("Daily: ok %d, skipped %d, failed %d, rows %s. Elapsed <em>%s</em>",
		report.Count(batch.OK),
		report.Count(batch.Skip),
		report.Count(batch.Fail),
		humanize.Comma(int64(report.Rows())),
		gnfmt.TimeString(dur.Seconds()),
	)

	if err := ctx.Err(); err != nil {
		return report, CancelledError(err)
	}
	return report, report.Err()
}

func (b *Builder) month(ctx context.Context, year, month int) batch.Result {
	start := b.clock.Now()
	res := batch.Result{Unit: fmt.Sprintf("%d-%02d", year, month)}
	rec := func(r batch.Result) batch.Result {
		b.metrics.Unit(Stage, r.Outcome.String(), b.clock.Since(start).Seconds())
		if r.Outcome == batch.OK {
			b.metrics.AddRows(Stage, r.Rows)
		}
		if r.Outcome == batch.Fail {
			slog.Error("Daily month failed", "month", r.Unit, "error", r.Err)
		}
		return r
	}

	if err := ctx.Err(); err != nil {
		res.Outcome, res.Err = batch.Fail, CancelledError(err)
		return rec(res)
	}

	glob := partition.HourlyGlob(b.cfg.Paths.HourlyDir, year, month)
	files, err := filepath.Glob(glob)
	if err != nil {
		res.Outcome, res.Err = batch.Fail, GlobError(glob, err)
		return rec(res)
	}
	if len(files) == 0 {
		res.Outcome, res.Reason, res.Path = batch.Skip, "no hourly parquet", glob
		return rec(res)
	}
	slices.Sort(files)

	parts := make([]*frame.Frame, 0, len(files))
	for _, path := range files {
		hourly, err := ioparquet.Read(path)
		if err != nil {
			res.Outcome, res.Err = batch.Fail, err
			return rec(res)
		}
		daily, err := aggregate.Daily(hourly, b.cat)
		if err != nil {
			res.Outcome, res.Err = batch.Fail, fmt.Errorf("%s: %w", path, err)
			return rec(res)
		}
		parts = append(parts, daily)
	}

	daily, err := aggregate.Combine(parts)
	if err != nil {
		res.Outcome, res.Err = batch.Fail, err
		return rec(res)
	}

	out := partition.DailyPath(b.cfg.Paths.DailyDir, year, month)
	if err = ioparquet.Write(out, daily); err != nil {
		res.Outcome, res.Err = batch.Fail, err
		return rec(res)
	}

	slog.Debug("Daily partition written",
		"path", out, "inputs", len(files), "rows", daily.Len())
	res.Outcome, res.Path, res.Rows = batch.OK, out, daily.Len()
	return rec(res)
}
