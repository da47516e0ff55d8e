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

	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iodb"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iometrics"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/ioquery"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getServeCmd returns the serve command.
func getServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve loaded regional series over HTTP",
		Long: `Start a read-only HTTP API over the PostgreSQL marts.

Endpoints:
  GET /api/regions                                   active regions
  GET /api/hourly?region=<id>&from=<RFC3339>&to=<RFC3339>
  GET /api/daily?region=<id>&from=<YYYY-MM-DD>&to=<YYYY-MM-DD>
  GET /metrics                                       Prometheus metrics
  GET /health

The region parameter can be repeated or comma separated.

Examples:
  agrimart serve
  agrimart serve -p 9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runServe(cmd)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	serveCmd.Flags().IntP("port", "p", 0,
		"HTTP port (default from config)")

	return serveCmd
}

func runServe(cmd *cobra.Command) error {
	portFlag := func(cmd *cobra.Command) {
		port, _ := cmd.Flags().GetInt("port")
		if port > 0 {
			opts = append(opts, config.OptServePort(port))
		}
	}
	applyFlags(cmd, portFlag)

	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	op := iodb.NewPgxOperator()
	if err = op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	router := ioquery.SetupRouter(
		ioquery.NewPgQuerier(op.Pool()), registry, iometrics.New(),
	)
	gn.Info("Serving on port <em>%d</em>", cfg.Serve.Port)
	return ioquery.Serve(ctx, cfg.Serve.Port, router)
}
