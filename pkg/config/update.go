package config

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, Run).
// Used for round-tripping config.yaml <-> Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}
	i = c.Database.BatchSize
	if i > 0 {
		res = append(res, OptDatabaseBatchSize(i))
	}

	s = c.Paths.RawDir
	if s != "" {
		res = append(res, OptPathsRawDir(s))
	}
	s = c.Paths.HourlyDir
	if s != "" {
		res = append(res, OptPathsHourlyDir(s))
	}
	s = c.Paths.DailyDir
	if s != "" {
		res = append(res, OptPathsDailyDir(s))
	}
	if len(c.Variables) > 0 {
		res = append(res, OptVariables(c.Variables))
	}

	s = c.Load.Backend
	if s != "" {
		res = append(res, OptLoadBackend(s))
	}
	s = c.Load.SQLitePath
	if s != "" {
		res = append(res, OptLoadSQLitePath(s))
	}

	if len(c.Notify.Brokers) > 0 {
		res = append(res, OptNotifyBrokers(c.Notify.Brokers))
	}
	s = c.Notify.Topic
	if s != "" {
		res = append(res, OptNotifyTopic(s))
	}
	s = c.Metrics.PushURL
	if s != "" {
		res = append(res, OptMetricsPushURL(s))
	}
	s = c.Metrics.Job
	if s != "" {
		res = append(res, OptMetricsJob(s))
	}
	i = c.Serve.Port
	if i > 0 {
		res = append(res, OptServePort(i))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

// VariableName limits variable names to plain SQL identifiers, they
// become column names of the warehouse.
var VariableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func isValidVariables(ss []string) bool {
	if len(ss) == 0 {
		gn.Warn("<em>Variables</em> cannot be empty, ignoring")
		return false
	}
	for _, v := range ss {
		if !VariableName.MatchString(v) {
			gn.Warn("<em>Variables</em> must match %s, ignoring %q",
				VariableName, v)
			return false
		}
	}
	return true
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

// ERA5-Land starts in 1950.
func isValidYear(i int) bool {
	res := i >= 1950 && i <= 2100
	if !res {
		gn.Warn("<em>Year</em> must be between 1950 and 2100, ignoring %d", i)
	}
	return res
}

func isValidMonths(ii []int) bool {
	if len(ii) == 0 {
		gn.Warn("<em>Months</em> cannot be empty, ignoring")
		return false
	}
	for _, m := range ii {
		if m < 1 || m > 12 {
			gn.Warn("<em>Months</em> must be in 1-12, ignoring %v", ii)
			return false
		}
	}
	return true
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Load.Backend":    {"postgres": s, "sqlite": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
