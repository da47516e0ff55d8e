// Package iohourly builds hourly regional partitions from raw ERA5-Land
// files. Every (region, month) is an independent unit, units run
// concurrently and never write the same partition.
package iohourly

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/ioarchive"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iogrid"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iometrics"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/ioparquet"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/batch"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/catalog"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/config"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/errcode"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/frame"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/grid"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/normalize"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/partition"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/region"
	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// Stage is the metrics label of the hourly stage.
const Stage = "hourly"

// ReadFunc opens a local NetCDF file and loads wanted variables.
type ReadFunc func(path string, want []string) (*grid.Dataset, error)

// Builder writes hourly partitions.
type Builder struct {
	cfg     *config.Config
	regions []region.Region
	cat     *catalog.Catalog
	metrics *iometrics.Metrics
	clock   clockwork.Clock
	read    ReadFunc
	bar     bool
}

// Option customizes a Builder.
type Option func(*Builder)

// OptClock sets the clock used for durations.
func OptClock(c clockwork.Clock) Option {
	return func(b *Builder) { b.clock = c }
}

// OptReader replaces the NetCDF reader.
func OptReader(r ReadFunc) Option {
	return func(b *Builder) { b.read = r }
}

// OptProgressBar turns the progress bar on or off.
func OptProgressBar(on bool) Option {
	return func(b *Builder) { b.bar = on }
}

// New creates a Builder for given active regions.
func New(
	cfg *config.Config,
	regions []region.Region,
	cat *catalog.Catalog,
	m *iometrics.Metrics,
	opts ...Option,
) *Builder {
	res := &Builder{
		cfg:     cfg,
		regions: regions,
		cat:     cat,
		metrics: m,
		clock:   clockwork.NewRealClock(),
		read:    iogrid.Read,
		bar:     true,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

type unit struct {
	region string
	year   int
	month  int
}

func (u unit) String() string {
	return fmt.Sprintf("%s %d-%02d", u.region, u.year, u.month)
}

// Build processes every (region, month) of the period. A failed unit
// does not stop the others. Results are in (region, month) order. The
// returned error is only about the whole batch: cancellation or any
// failed unit.
func (b *Builder) Build(
	ctx context.Context,
	period partition.Period,
) (*batch.Report, error) {
	start := b.clock.Now()

	var units []unit
	for _, r := range b.regions {
		for _, m := range period.Months {
			units = append(units, unit{region: r.ID, year: period.Year, month: m})
		}
	}
	slices.SortStableFunc(units, func(a, b unit) int {
		if c := cmp.Compare(a.region, b.region); c != 0 {
			return c
		}
		return cmp.Compare(a.month, b.month)
	})

	slog.Info("Building hourly partitions",
		"year", period.Year,
		"months", period.Months,
		"units", len(units),
		"jobs", b.cfg.JobsNumber,
	)

	var bar *pb.ProgressBar
	if b.bar {
		bar = pb.Full.Start(len(units))
		bar.Set("prefix", "Hourly units: ")
		bar.Set(pb.CleanOnFinish, true)
	}

	results := make([]batch.Result, len(units))

	g := &errgroup.Group{}
	g.SetLimit(max(b.cfg.JobsNumber, 1))
	for i, u := range units {
		g.Go(func() error {
			results[i] = b.unit(ctx, u)
			if bar != nil {
				bar.Increment()
			}
			return nil
		})
	}
	_ = g.Wait()
	if bar != nil {
		bar.Finish()
	}

	report := &batch.Report{Stage: Stage, Results: results}
	dur := b.clock.Since(start)
	slog.Info("Hourly partitions done",
		"ok", report.Count(batch.OK),
		"skipped", report.Count(batch.Skip),
		"failed", report.Count(batch.Fail),
		"rows", report.Rows(),
		"duration", gnfmt.TimeString(dur.Seconds()),
	)
	gn.Info("Hourly: ok %d, skipped %d, failed %d, rows %s. Elapsed <em>%s</em>",
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

func (b *Builder) unit(ctx context.Context, u unit) batch.Result {
	start := b.clock.Now()
	res := batch.Result{Unit: u.String()}
	rec := func(r batch.Result) batch.Result {
		b.metrics.Unit(Stage, r.Outcome.String(), b.clock.Since(start).Seconds())
		if r.Outcome == batch.OK {
			b.metrics.AddRows(Stage, r.Rows)
		}
		if r.Outcome == batch.Fail {
			slog.Error("Hourly unit failed", "unit", r.Unit, "error", r.Err)
		}
		return r
	}

	if err := ctx.Err(); err != nil {
		res.Outcome, res.Err = batch.Fail, CancelledError(err)
		return rec(res)
	}

	raw, err := ioarchive.Locate(b.cfg.Paths.RawDir, u.region, u.year, u.month)
	if errcode.Is(err, errcode.SourceAbsentError) {
		res.Outcome, res.Reason = batch.Skip, "no raw"
		res.Path = partition.RawCandidates(b.cfg.Paths.RawDir, u.region, u.year, u.month)[0]
		return rec(res)
	}
	if err != nil {
		res.Outcome, res.Err = batch.Fail, err
		return rec(res)
	}

	out := partition.HourlyPath(b.cfg.Paths.HourlyDir, u.region, u.year, u.month)
	rows, err := b.write(raw, out, u.region)
	if err != nil {
		res.Outcome, res.Err = batch.Fail, err
		return rec(res)
	}

	res.Outcome, res.Path, res.Rows = batch.OK, out, rows
	slog.Debug("Hourly unit written", "unit", res.Unit, "path", out, "rows", rows)
	return rec(res)
}

// write turns one raw file into one hourly partition.
func (b *Builder) write(raw, out, regionID string) (int, error) {
	local, release, err := ioarchive.Resolve(raw)
	defer release()
	if err != nil {
		return 0, err
	}

	ds, err := b.read(local, b.cfg.Variables)
	if err != nil {
		return 0, err
	}

	f, err := grid.Reduce(ds, b.cfg.Variables)
	if err != nil {
		return 0, err
	}

	if miss := b.cat.MissingRequired(b.cfg.Variables, f.Names()); len(miss) > 0 {
		return 0, MissingRequiredVariableError(raw, miss, f.Names())
	}

	f = normalize.Apply(f, b.cat)

	regions := make([]string, f.Len())
	for i := range regions {
		regions[i] = regionID
	}
	if err = f.Insert(0, frame.NewString(partition.RegionColumn, regions)); err != nil {
		return 0, err
	}

	if err = ioparquet.Write(out, f); err != nil {
		return 0, err
	}
	return f.Len(), nil
}
