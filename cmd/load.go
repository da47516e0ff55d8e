/*
Copyright © 2025 The agrimart authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iodb"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iometrics"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/ionotify"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/ioload"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/ioschema"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/lifecycle"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/partition"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// getLoadCmd returns the load command with a subcommand per tier.
func getLoadCmd() *cobra.Command {
	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "Load Parquet partitions into the store idempotently",
		Long: `Upsert hourly or daily Parquet partitions into PostgreSQL or SQLite.

Every file is loaded in one transaction keyed by (region, ts) or
(region, day). Loading the same file again changes nothing. New measure
columns are added to the table on the fly. Each loaded file is recorded
in the load_log table and, when brokers are configured, announced on
the Kafka topic.

Examples:
  agrimart load hourly -y 2024
  agrimart load daily -y 2024 -m 6 --backend sqlite
  agrimart load daily --file data/marts/daily/year=2024/month=06.parquet`,
	}

	loadCmd.AddCommand(
		getLoadTierCmd(partition.Hourly),
		getLoadTierCmd(partition.Daily),
	)
	return loadCmd
}

func getLoadTierCmd(tier partition.Tier) *cobra.Command {
	tierCmd := &cobra.Command{
		Use:   tier.Name,
		Short: "Load " + tier.Name + " Parquet partitions",
		Long: `Load ` + tier.Name + ` partitions of a batch, or one file given by --file.
Months without partitions are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runLoad(cmd, tier)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	addPeriodFlags(tierCmd)
	tierCmd.Flags().StringP("backend", "b", "",
		"store backend: postgres or sqlite (default from config)")
	tierCmd.Flags().StringP("file", "f", "",
		"load only this Parquet file")

	return tierCmd
}

func runLoad(cmd *cobra.Command, tier partition.Tier) error {
	applyFlags(cmd, yearFlag, monthsFlag, backendFlag)
	file, _ := cmd.Flags().GetString("file")

	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	notifier := ionotify.New(cfg.Notify)
	defer notifier.Close()

	m := iometrics.New()
	runID := uuid.NewString()
	loader := ioload.New(store, tier,
		ioload.OptNotifier(notifier),
		ioload.OptMetrics(m),
		ioload.OptRunID(runID),
	)
	slog.Info("Load run started", "run_id", runID, "tier", tier.Name,
		"backend", cfg.Load.Backend)

	if file != "" {
		rows, err := loader.LoadFile(ctx, file)
		if err != nil {
			return err
		}
		gn.Info("Loaded %s rows from <em>%s</em>", humanize.Comma(int64(rows)), file)
		return nil
	}

	period, err := runPeriod()
	if err != nil {
		return err
	}

	root := cfg.Paths.HourlyDir
	if tier.Name == partition.Daily.Name {
		root = cfg.Paths.DailyDir
	}

	report, err := loader.Load(ctx, root, period)
	finishBatch(report, m)
	return err
}

// openStore connects the configured backend. PostgreSQL gets its marts
// schema created when it is missing.
func openStore(ctx context.Context) (lifecycle.Store, func(), error) {
	if cfg.Load.Backend == "sqlite" {
		store, err := ioload.OpenSQLite(cfg.Load.SQLitePath, cfg.Database.BatchSize)
		if err != nil {
			return nil, nil, err
		}
		gn.Info("Loading into SQLite <em>%s</em>", cfg.Load.SQLitePath)
		return store, func() { _ = store.Close() }, nil
	}

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, nil, err
	}
	gn.Info("Connected to database: %s@%s:%d/%s",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	if err := ioschema.NewManager(op).Create(ctx); err != nil {
		op.Close()
		return nil, nil, err
	}

	store := ioload.NewPgStore(op.Pool(), cfg.Database.BatchSize)
	return store, func() {
		_ = store.Close()
		op.Close()
	}, nil
}
