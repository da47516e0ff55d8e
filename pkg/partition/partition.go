// Package partition describes the on-disk layout of raw archives and
// Parquet partitions, and the two temporal tiers of regional series.
package partition

import (
	"fmt"
	"path/filepath"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/frame"
)

// RegionColumn is the first key column of both tiers.
const RegionColumn = "region"

// Tier is a temporal resolution of regional series.
type Tier struct {
	// Name is "hourly" or "daily".
	Name string

	// KeyColumn is the time part of the natural key.
	KeyColumn string

	// KeyKind is the column kind of KeyColumn.
	KeyKind frame.Kind

	// Table is the store table, without schema.
	Table string
}

var (
	Hourly = Tier{
		Name:      "hourly",
		KeyColumn: "ts",
		KeyKind:   frame.Timestamp,
		Table:     "era5_hourly",
	}
	Daily = Tier{
		Name:      "daily",
		KeyColumn: "day",
		KeyKind:   frame.Date,
		Table:     "era5_daily",
	}
)

// KeyColumns returns the natural key of a tier.
func (t Tier) KeyColumns() []string {
	return []string{RegionColumn, t.KeyColumn}
}

// Period is a batch of months of one year.
type Period struct {
	Year   int
	Months []int
}

// RawCandidates returns possible raw files of a region month, in order
// of preference.
func RawCandidates(root, region string, year, month int) []string {
	dir := regionYearDir(root, region, year)
	return []string{
		filepath.Join(dir, monthFile(month, "nc")),
		filepath.Join(dir, monthFile(month, "zip")),
	}
}

// HourlyPath is the hourly partition of a region month.
func HourlyPath(root, region string, year, month int) string {
	return filepath.Join(regionYearDir(root, region, year), monthFile(month, "parquet"))
}

// HourlyGlob matches hourly partitions of all regions for a month.
func HourlyGlob(root string, year, month int) string {
	return HourlyPath(root, "*", year, month)
}

// DailyPath is the daily partition of a month.
func DailyPath(root string, year, month int) string {
	return filepath.Join(root, fmt.Sprintf("year=%d", year), monthFile(month, "parquet"))
}

// Paths returns partition paths or globs of a tier for a period.
func (t Tier) Paths(root string, p Period) []string {
	res := make([]string, 0, len(p.Months))
	for _, m := range p.Months {
		if t.Name == Hourly.Name {
			res = append(res, HourlyGlob(root, p.Year, m))
			continue
		}
		res = append(res, DailyPath(root, p.Year, m))
	}
	return res
}

func regionYearDir(root, region string, year int) string {
	return filepath.Join(root, "region="+region, fmt.Sprintf("year=%d", year))
}

func monthFile(month int, ext string) string {
	return fmt.Sprintf("month=%02d.%s", month, ext)
}
