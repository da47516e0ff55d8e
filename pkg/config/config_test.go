package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "agrimart"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "agrimart", "logs"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "agrimart", "config.yaml"),
		},
		{
			msg: "regions file",
			fn:  config.RegionsFilePath,
			res: filepath.Join(tempHome, ".config", "agrimart", "regions.yaml"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		// Database defaults
		assert.Equal(t, "127.0.0.1", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "agri", cfg.Database.User)
		assert.Equal(t, "agri", cfg.Database.Password)
		assert.Equal(t, "agri", cfg.Database.Database)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 5_000, cfg.Database.BatchSize)

		// Paths and variables
		assert.Equal(t, "data/raw/era5-land", cfg.Paths.RawDir)
		assert.Equal(t, "data/marts/hourly", cfg.Paths.HourlyDir)
		assert.Equal(t, "data/marts/daily", cfg.Paths.DailyDir)
		assert.Equal(t, config.DefaultVariables, cfg.Variables)

		assert.Equal(t, "postgres", cfg.Load.Backend)
		assert.Empty(t, cfg.Notify.Brokers)
		assert.Empty(t, cfg.Metrics.PushURL)
		assert.Equal(t, 8080, cfg.Serve.Port)

		// Log defaults
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "file", cfg.Log.Destination)

		assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
		assert.Zero(t, cfg.Run.Year)
	})

	t.Run("default variables are not shared", func(t *testing.T) {
		cfg := config.New()
		cfg.Variables[0] = "changed"
		assert.Equal(t, "t2m", config.DefaultVariables[0])
	})
}

func TestOptionDatabaseHost(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid host",
			input:    "db.example.com",
			expected: "db.example.com",
		},
		{
			name:     "trims whitespace",
			input:    "  db.example.com  ",
			expected: "db.example.com",
		},
		{
			name:     "ignores empty string",
			input:    "",
			expected: "127.0.0.1",
		},
		{
			name:     "ignores whitespace-only",
			input:    "   ",
			expected: "127.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptDatabaseHost(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Database.Host)
		})
	}
}

func TestOptionDatabasePort(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"sets valid port", 5433, 5433},
		{"ignores zero", 0, 5432},
		{"ignores negative", -100, 5432},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptDatabasePort(tt.input)})
			assert.Equal(t, tt.expected, cfg.Database.Port)
		})
	}
}

func TestOptionDatabaseSSLMode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets require", "require", "require"},
		{"normalizes case", "VERIFY-FULL", "verify-full"},
		{"ignores unknown", "sometimes", "disable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptDatabaseSSLMode(tt.input)})
			assert.Equal(t, tt.expected, cfg.Database.SSLMode)
		})
	}
}

func TestOptionVariables(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "sets variables",
			input:    []string{"t2m", "tp"},
			expected: []string{"t2m", "tp"},
		},
		{
			name:     "trims and deduplicates",
			input:    []string{" t2m", "tp ", "t2m", ""},
			expected: []string{"t2m", "tp"},
		},
		{
			name:     "ignores empty list",
			input:    []string{"", " "},
			expected: config.DefaultVariables,
		},
		{
			name:     "rejects uppercase name",
			input:    []string{"t2m", "T2M"},
			expected: config.DefaultVariables,
		},
		{
			name:     "rejects sql injection",
			input:    []string{"tp; DROP TABLE era5_hourly"},
			expected: config.DefaultVariables,
		},
		{
			name:     "rejects leading digit",
			input:    []string{"2t"},
			expected: config.DefaultVariables,
		},
		{
			name:     "accepts underscores",
			input:    []string{"_x", "wind_speed_10m"},
			expected: []string{"_x", "wind_speed_10m"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptVariables(tt.input)})
			assert.Equal(t, tt.expected, cfg.Variables)
		})
	}
}

func TestOptionLoadBackend(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets sqlite", "sqlite", "sqlite"},
		{"normalizes case", " Postgres ", "postgres"},
		{"ignores unknown", "mysql", "postgres"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptLoadBackend(tt.input)})
			assert.Equal(t, tt.expected, cfg.Load.Backend)
		})
	}
}

func TestOptionLog(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptLogLevel("DEBUG"),
		config.OptLogFormat("tint"),
		config.OptLogDestination("stderr"),
	})
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "tint", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Destination)

	cfg.Update([]config.Option{
		config.OptLogLevel("verbose"),
		config.OptLogFormat("xml"),
		config.OptLogDestination("stdin"),
	})
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "tint", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Destination)
}

func TestOptionRun(t *testing.T) {
	t.Run("year", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptRunYear(2024)})
		assert.Equal(t, 2024, cfg.Run.Year)

		cfg.Update([]config.Option{config.OptRunYear(1900)})
		assert.Equal(t, 2024, cfg.Run.Year)
	})

	t.Run("months are sorted and compacted", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptRunMonths([]int{3, 1, 3, 2})})
		assert.Equal(t, []int{1, 2, 3}, cfg.Run.Months)
	})

	t.Run("months outside range are rejected", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptRunMonths([]int{1, 13})})
		assert.Nil(t, cfg.Run.Months)
	})

	t.Run("regions", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptRunRegions([]string{" rostov ", "", "krasnodar"}),
		})
		assert.Equal(t, []string{"rostov", "krasnodar"}, cfg.Run.Regions)
	})
}

func TestMultipleOptions(t *testing.T) {
	t.Run("later options override earlier ones", func(t *testing.T) {
		cfg := config.New()

		opts := []config.Option{
			config.OptDatabaseHost("first.host.com"),
			config.OptDatabaseHost("second.host.com"),
		}

		cfg.Update(opts)

		assert.Equal(t, "second.host.com", cfg.Database.Host)
	})
}

func TestToOptions(t *testing.T) {
	t.Run("converts config to options correctly", func(t *testing.T) {
		original := config.New()
		opts := []config.Option{
			config.OptDatabaseHost("test.host.com"),
			config.OptDatabasePort(5433),
			config.OptDatabaseUser("testuser"),
			config.OptDatabasePassword("testpass"),
			config.OptDatabaseDatabase("testdb"),
			config.OptDatabaseSSLMode("require"),
			config.OptDatabaseBatchSize(1000),
			config.OptPathsRawDir("/raw"),
			config.OptPathsHourlyDir("/hourly"),
			config.OptPathsDailyDir("/daily"),
			config.OptVariables([]string{"t2m", "pev"}),
			config.OptLoadBackend("sqlite"),
			config.OptLoadSQLitePath("/tmp/agri.sqlite"),
			config.OptNotifyBrokers([]string{"localhost:9092"}),
			config.OptNotifyTopic("loads"),
			config.OptMetricsPushURL("http://localhost:9091"),
			config.OptMetricsJob("era5"),
			config.OptServePort(9000),
			config.OptLogLevel("debug"),
			config.OptLogFormat("text"),
			config.OptLogDestination("stdout"),
			config.OptJobsNumber(8),
		}
		original.Update(opts)

		newCfg := config.New()
		newCfg.Update(original.ToOptions())

		assert.Equal(t, original.Database, newCfg.Database)
		assert.Equal(t, original.Paths, newCfg.Paths)
		assert.Equal(t, original.Variables, newCfg.Variables)
		assert.Equal(t, original.Load, newCfg.Load)
		assert.Equal(t, original.Notify, newCfg.Notify)
		assert.Equal(t, original.Metrics, newCfg.Metrics)
		assert.Equal(t, original.Serve, newCfg.Serve)
		assert.Equal(t, original.Log, newCfg.Log)
		assert.Equal(t, original.JobsNumber, newCfg.JobsNumber)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptHomeDir("/custom/home"),
			config.OptRunYear(2024),
			config.OptRunMonths([]int{1}),
			config.OptRunRegions([]string{"rostov"}),
		})

		newCfg := config.New()
		newCfg.Update(cfg.ToOptions())

		assert.Equal(t, "", newCfg.HomeDir)
		assert.Zero(t, newCfg.Run.Year)
		assert.Nil(t, newCfg.Run.Months)
		assert.Nil(t, newCfg.Run.Regions)
	})
}
