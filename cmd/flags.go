package cmd

import (
	"log/slog"
	"os"

	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iofs"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iometrics"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/batch"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/config"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/partition"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/region"
	"github.com/spf13/cobra"
)

type funcFlag func(cmd *cobra.Command)

var allMonths = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

// addPeriodFlags adds --year and --months to a batch command.
func addPeriodFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("year", "y", 0, "year of the batch (required)")
	cmd.Flags().IntSliceP("months", "m", allMonths, "months of the batch, 1-12")
}

func addJobsFlag(cmd *cobra.Command) {
	cmd.Flags().IntP("jobs", "j", 0, "number of concurrent workers (default from config)")
}

func yearFlag(cmd *cobra.Command) {
	year, _ := cmd.Flags().GetInt("year")
	if year != 0 {
		opts = append(opts, config.OptRunYear(year))
	}
}

func monthsFlag(cmd *cobra.Command) {
	months, _ := cmd.Flags().GetIntSlice("months")
	if len(months) > 0 {
		opts = append(opts, config.OptRunMonths(months))
	}
}

func regionsFlag(cmd *cobra.Command) {
	regions, _ := cmd.Flags().GetStringSlice("regions")
	if len(regions) > 0 {
		opts = append(opts, config.OptRunRegions(regions))
	}
}

func varsFlag(cmd *cobra.Command) {
	vars, _ := cmd.Flags().GetStringSlice("vars")
	if len(vars) > 0 {
		opts = append(opts, config.OptVariables(vars))
	}
}

func jobsFlag(cmd *cobra.Command) {
	jobs, _ := cmd.Flags().GetInt("jobs")
	if jobs > 0 {
		opts = append(opts, config.OptJobsNumber(jobs))
	}
}

func backendFlag(cmd *cobra.Command) {
	backend, _ := cmd.Flags().GetString("backend")
	if backend != "" {
		opts = append(opts, config.OptLoadBackend(backend))
	}
}

// applyFlags adds command line options on top of the loaded config.
func applyFlags(cmd *cobra.Command, flags ...funcFlag) {
	for _, f := range flags {
		f(cmd)
	}
	cfg.Update(opts)
}

// runPeriod returns the batch period set by flags.
func runPeriod() (partition.Period, error) {
	if cfg.Run.Year == 0 {
		return partition.Period{}, config.RunYearError()
	}
	if len(cfg.Run.Months) == 0 {
		return partition.Period{}, config.RunMonthsError()
	}
	return partition.Period{Year: cfg.Run.Year, Months: cfg.Run.Months}, nil
}

func loadRegistry() (*region.Registry, error) {
	return iofs.LoadRegions(config.RegionsFilePath(cfg.HomeDir))
}

// runRegions returns active regions selected by --regions.
func runRegions() ([]region.Region, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, err
	}
	return reg.Select(cfg.Run.Regions)
}

// finishBatch prints the report and pushes metrics. A failed push is
// only logged.
func finishBatch(report *batch.Report, m *iometrics.Metrics) {
	if report != nil {
		report.Print(os.Stdout)
	}
	if err := m.Push(cfg.Metrics.PushURL, cfg.Metrics.Job); err != nil {
		slog.Warn("Metrics were not pushed", "url", cfg.Metrics.PushURL, "error", err)
	}
}
