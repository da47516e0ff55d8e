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
	"os/signal"
	"syscall"

	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iodaily"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iometrics"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/catalog"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getDailyCmd returns the daily command.
func getDailyCmd() *cobra.Command {
	dailyCmd := &cobra.Command{
		Use:   "daily",
		Short: "Aggregate hourly Parquet partitions into daily partitions",
		Long: `Aggregate regional hourly series into calendar days (UTC).

For every month of the batch this command:
  1. Reads region=*/year=<y>/month=<mm>.parquet from the hourly directory
  2. Computes daily mean, min, max and sum per variable as configured
  3. Derives water_balance = tp_sum - pev_sum
  4. Writes year=<y>/month=<mm>.parquet to the daily directory

A month without hourly partitions is skipped.

Examples:
  agrimart daily -y 2024
  agrimart daily -y 2024 -m 1,2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runDaily(cmd)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	addPeriodFlags(dailyCmd)
	addJobsFlag(dailyCmd)

	return dailyCmd
}

func runDaily(cmd *cobra.Command) error {
	applyFlags(cmd, yearFlag, monthsFlag, jobsFlag)

	period, err := runPeriod()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	m := iometrics.New()
	b := iodaily.New(cfg, catalog.Default(), m, nil)
	report, err := b.Build(ctx, period)
	finishBatch(report, m)
	return err
}
