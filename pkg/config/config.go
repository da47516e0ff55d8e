// Package config provides configuration management for agrimart.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Paths: raw_dir, hourly_dir, daily_dir
//   - Variables
//   - Load: backend, sqlite_path
//   - Notify: brokers, topic
//   - Metrics: push_url, job
//   - Serve: port
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Run.Year, Run.Months, Run.Regions (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use AGRIMART_ prefix with underscores for nesting:
//
//	AGRIMART_DATABASE_HOST=127.0.0.1
//	AGRIMART_DATABASE_PORT=5432
//	AGRIMART_PATHS_RAW_DIR=data/raw/era5-land
//	AGRIMART_LOG_LEVEL=info
//	AGRIMART_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete agrimart configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Paths locates raw archives and partition trees.
	Paths PathsConfig `mapstructure:"paths" yaml:"paths"`

	// Variables are ERA5-Land short names requested from raw files.
	Variables []string `mapstructure:"variables" yaml:"variables"`

	// Load contains settings of the idempotent loader.
	Load LoadConfig `mapstructure:"load" yaml:"load"`

	// Notify configures load events. Empty Brokers disables them.
	Notify NotifyConfig `mapstructure:"notify" yaml:"notify"`

	// Metrics configures the Prometheus Pushgateway for batch commands.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Serve configures the read-only query API.
	Serve ServeConfig `mapstructure:"serve" yaml:"serve"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Run holds the batch selection given on the command line.
	Run RunConfig `mapstructure:"-" yaml:"-"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize is the number of rows sent in one multi-row upsert.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// PathsConfig contains roots of the on-disk layout.
//
//	raw:    <raw_dir>/region=<r>/year=<y>/month=<MM>.<nc|zip>
//	hourly: <hourly_dir>/region=<r>/year=<y>/month=<MM>.parquet
//	daily:  <daily_dir>/year=<y>/month=<MM>.parquet
type PathsConfig struct {
	RawDir    string `mapstructure:"raw_dir"    yaml:"raw_dir"`
	HourlyDir string `mapstructure:"hourly_dir" yaml:"hourly_dir"`
	DailyDir  string `mapstructure:"daily_dir"  yaml:"daily_dir"`
}

// LoadConfig selects the store used by the loader.
type LoadConfig struct {
	// Backend is "postgres" or "sqlite".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
}

// NotifyConfig contains Kafka settings for load events.
type NotifyConfig struct {
	Brokers []string `mapstructure:"brokers" yaml:"brokers"`
	Topic   string   `mapstructure:"topic"   yaml:"topic"`
}

// MetricsConfig contains Pushgateway settings. Empty PushURL disables
// pushing.
type MetricsConfig struct {
	PushURL string `mapstructure:"push_url" yaml:"push_url"`
	Job     string `mapstructure:"job"      yaml:"job"`
}

// ServeConfig contains settings of the query API.
type ServeConfig struct {
	Port int `mapstructure:"port" yaml:"port"`
}

// RunConfig is the batch selection of hourly and daily commands.
type RunConfig struct {
	// Year of the batch. Zero means not set.
	Year int

	// Months of the batch, 1-12.
	Months []int

	// Regions limits processing to given region ids. Empty means all
	// active regions.
	Regions []string
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// DefaultVariables are requested when config does not list any.
var DefaultVariables = []string{
	"t2m", "d2m", "tp", "u10", "v10", "swvl1", "swvl2",
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:      "127.0.0.1",
			Port:      5432,
			User:      "agri",
			Password:  "agri",
			Database:  "agri",
			SSLMode:   "disable",
			BatchSize: 5_000,
		},
		Paths: PathsConfig{
			RawDir:    "data/raw/era5-land",
			HourlyDir: "data/marts/hourly",
			DailyDir:  "data/marts/daily",
		},
		Variables: append([]string(nil), DefaultVariables...),
		Load: LoadConfig{
			Backend:    "postgres",
			SQLitePath: "data/marts/agri.sqlite",
		},
		Notify: NotifyConfig{
			Topic: "agrimart.loads",
		},
		Metrics: MetricsConfig{
			Job: "agrimart",
		},
		Serve: ServeConfig{
			Port: 8080,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
