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

	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iodb"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/ioschema"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/schema"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getCreateCmd returns the create command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCreateCmd() *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create the marts schema in PostgreSQL",
		Long: `Create the marts schema and its tables in PostgreSQL.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Creates the marts schema if it does not exist
  3. Creates era5_hourly, era5_daily and load_log using GORM AutoMigrate

Existing tables and data are kept, so the command is safe to repeat.
Measure columns are added later by the loader.

Examples:
  agrimart create`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCreate()
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return createCmd
}

func runCreate() error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: %s@%s:%d/%s",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	sm := ioschema.NewManager(op)
	if err := sm.Create(ctx); err != nil {
		return err
	}

	gn.Info("Schema <em>%s</em> is ready", schema.Schema)
	gn.Info("\nNext steps:")
	gn.Info("  - Run 'agrimart hourly -y <year>' to build partitions")
	gn.Info("  - Run 'agrimart load hourly -y <year>' to load them")

	return nil
}
