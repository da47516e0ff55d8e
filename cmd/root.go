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
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iofs"
	"github.com/OsinDmitrii/Big-data-in-agriculture/internal/iologger"
	app "github.com/OsinDmitrii/Big-data-in-agriculture/pkg"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = getRootCmd()

func getRootCmd() *cobra.Command {
	res := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "agrimart",
		Short:   "Builds ERA5-Land regional marts for agriculture",
		Long: `agrimart turns monthly ERA5-Land archives into regional hourly and
daily climate series and loads them into a relational store.

The pipeline has four stages:
  - hourly: reduce raw grids to regional hourly Parquet partitions
  - daily:  aggregate hourly partitions to daily Parquet partitions
  - load:   upsert partitions into PostgreSQL or SQLite idempotently
  - serve:  read loaded series over HTTP

Run 'agrimart create' once before the first load to PostgreSQL.

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (AGRIMART_*)
  3. Config file (~/.config/agrimart/config.yaml)
  4. Built-in defaults

Regions are read from ~/.config/agrimart/regions.yaml.`,
		PersistentPreRunE: bootstrap,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "agrimart version" prefix
	res.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V
	res.Flags().BoolP("version", "V", false, "version for agrimart")

	res.AddCommand(
		getCreateCmd(),
		getHourlyCmd(),
		getDailyCmd(),
		getLoadCmd(),
		getServeCmd(),
	)
	return res
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureRegionsFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info(
		"Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir),
	)

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings, keeping the bootstrap
	// records in the same file
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", config.ConfigFilePath(homeDir))

	return nil
}

func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log, true)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Allowed variables are listed explicitly. They match the fields
	// of config.ToOptions(), i.e. what config.yaml can store.
	v.SetEnvPrefix("AGRIMART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.host", "AGRIMART_DATABASE_HOST")
	v.BindEnv("database.port", "AGRIMART_DATABASE_PORT")
	v.BindEnv("database.user", "AGRIMART_DATABASE_USER")
	v.BindEnv("database.password", "AGRIMART_DATABASE_PASSWORD")
	v.BindEnv("database.database", "AGRIMART_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "AGRIMART_DATABASE_SSL_MODE")
	v.BindEnv("database.batch_size", "AGRIMART_DATABASE_BATCH_SIZE")

	// Partition trees
	v.BindEnv("paths.raw_dir", "AGRIMART_PATHS_RAW_DIR")
	v.BindEnv("paths.hourly_dir", "AGRIMART_PATHS_HOURLY_DIR")
	v.BindEnv("paths.daily_dir", "AGRIMART_PATHS_DAILY_DIR")

	v.BindEnv("variables", "AGRIMART_VARIABLES")

	// Loader
	v.BindEnv("load.backend", "AGRIMART_LOAD_BACKEND")
	v.BindEnv("load.sqlite_path", "AGRIMART_LOAD_SQLITE_PATH")

	// Load events and metrics
	v.BindEnv("notify.brokers", "AGRIMART_NOTIFY_BROKERS")
	v.BindEnv("notify.topic", "AGRIMART_NOTIFY_TOPIC")
	v.BindEnv("metrics.push_url", "AGRIMART_METRICS_PUSH_URL")
	v.BindEnv("metrics.job", "AGRIMART_METRICS_JOB")

	v.BindEnv("serve.port", "AGRIMART_SERVE_PORT")

	// Log configuration
	v.BindEnv("log.level", "AGRIMART_LOG_LEVEL")
	v.BindEnv("log.format", "AGRIMART_LOG_FORMAT")
	v.BindEnv("log.destination", "AGRIMART_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "AGRIMART_JOBS_NUMBER")

	v.AutomaticEnv()
}
