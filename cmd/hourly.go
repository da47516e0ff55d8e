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

	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iohourly"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iometrics"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/catalog"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getHourlyCmd returns the hourly command.
func getHourlyCmd() *cobra.Command {
	hourlyCmd := &cobra.Command{
		Use:   "hourly",
		Short: "Build regional hourly Parquet partitions from raw ERA5-Land files",
		Long: `Reduce monthly ERA5-Land grids to regional hourly series.

For every active region and month of the batch this command:
  1. Locates region=<id>/year=<y>/month=<mm>.nc (or .zip) in the raw directory
  2. Reads requested variables and averages them over the region area
  3. Converts units (K to °C, m to mm, signs of evaporation)
  4. Writes region=<id>/year=<y>/month=<mm>.parquet to the hourly directory

A month without a raw file is skipped. A failed month does not stop the
others, but makes the command exit with an error.

Examples:
  agrimart hourly -y 2024
  agrimart hourly -y 2024 -m 6,7,8 -r krasnodar,rostov
  agrimart hourly -y 2024 --vars t2m,tp -j 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runHourly(cmd)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	addPeriodFlags(hourlyCmd)
	hourlyCmd.Flags().StringSliceP("regions", "r", nil,
		"region IDs to process (empty = all active)")
	hourlyCmd.Flags().StringSlice("vars", nil,
		"ERA5-Land variables to read (default from config)")
	addJobsFlag(hourlyCmd)

	return hourlyCmd
}

func runHourly(cmd *cobra.Command) error {
	applyFlags(cmd, yearFlag, monthsFlag, regionsFlag, varsFlag, jobsFlag)

	period, err := runPeriod()
	if err != nil {
		return err
	}

	regions, err := runRegions()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	m := iometrics.New()
	b := iohourly.New(cfg, regions, catalog.Default(), m)
	report, err := b.Build(ctx, period)
	finishBatch(report, m)
	return err
}
