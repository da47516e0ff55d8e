package config

import (
	"slices"
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of rows per multi-row upsert.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptPathsRawDir sets the root of raw ERA5-Land archives.
func OptPathsRawDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Raw Directory", s) {
			c.Paths.RawDir = s
		}
	}
}

// OptPathsHourlyDir sets the root of hourly partitions.
func OptPathsHourlyDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Hourly Directory", s) {
			c.Paths.HourlyDir = s
		}
	}
}

// OptPathsDailyDir sets the root of daily partitions.
func OptPathsDailyDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Daily Directory", s) {
			c.Paths.DailyDir = s
		}
	}
}

// OptVariables sets variables requested from raw files.
// Names are trimmed, deduplicated and kept in the given order. A list
// with a name that is not a lowercase identifier is rejected whole.
func OptVariables(ss []string) Option {
	var vars []string
	for _, v := range ss {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(vars, v) {
			continue
		}
		vars = append(vars, v)
	}
	return func(c *Config) {
		if isValidVariables(vars) {
			c.Variables = vars
		}
	}
}

// OptLoadBackend sets the loader store.
// Valid values: "postgres", "sqlite".
func OptLoadBackend(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Load.Backend", s) {
			c.Load.Backend = s
		}
	}
}

// OptLoadSQLitePath sets the database file of the sqlite backend.
func OptLoadSQLitePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("SQLite Path", s) {
			c.Load.SQLitePath = s
		}
	}
}

// OptNotifyBrokers sets Kafka brokers for load events.
func OptNotifyBrokers(ss []string) Option {
	var brokers []string
	for _, v := range ss {
		if v = strings.TrimSpace(v); v != "" {
			brokers = append(brokers, v)
		}
	}
	return func(c *Config) {
		c.Notify.Brokers = brokers
	}
}

// OptNotifyTopic sets the Kafka topic of load events.
func OptNotifyTopic(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Notify Topic", s) {
			c.Notify.Topic = s
		}
	}
}

// OptMetricsPushURL sets the Pushgateway URL.
func OptMetricsPushURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Metrics Push URL", s) {
			c.Metrics.PushURL = s
		}
	}
}

// OptMetricsJob sets the Pushgateway job name.
func OptMetricsJob(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Metrics Job", s) {
			c.Metrics.Job = s
		}
	}
}

// OptServePort sets the port of the query API.
func OptServePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Serve Port", i) {
			c.Serve.Port = i
		}
	}
}

// OptRunYear sets the year of a batch.
// Runtime-only field - not in ToOptions().
func OptRunYear(i int) Option {
	return func(c *Config) {
		if isValidYear(i) {
			c.Run.Year = i
		}
	}
}

// OptRunMonths sets months of a batch. Values outside 1-12 reject
// the whole option.
// Runtime-only field - not in ToOptions().
func OptRunMonths(ii []int) Option {
	return func(c *Config) {
		if isValidMonths(ii) {
			months := slices.Clone(ii)
			slices.Sort(months)
			c.Run.Months = slices.Compact(months)
		}
	}
}

// OptRunRegions limits a batch to given regions.
// Runtime-only field - not in ToOptions().
func OptRunRegions(ss []string) Option {
	var regions []string
	for _, v := range ss {
		if v = strings.TrimSpace(v); v != "" {
			regions = append(regions, v)
		}
	}
	return func(c *Config) {
		if len(regions) > 0 {
			c.Run.Regions = regions
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel operations.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
