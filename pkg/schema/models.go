// Package schema provides base models of the marts tables. Measure
// columns are open-ended and are added by the loader when a partition
// brings a column the table does not have yet.
package schema

import (
	"time"
)

// Schema is the PostgreSQL schema of all tables.
const Schema = "marts"

// Hourly is the base of the hourly table, keyed by (region, ts).
type Hourly struct {
	Region string    `gorm:"primaryKey;type:text" db:"region" ddl:"TEXT NOT NULL"`
	Ts     time.Time `gorm:"primaryKey;type:timestamptz" db:"ts" ddl:"TEXT NOT NULL"`
}

// Daily is the base of the daily table, keyed by (region, day).
type Daily struct {
	Region string    `gorm:"primaryKey;type:text" db:"region" ddl:"TEXT NOT NULL"`
	Day    time.Time `gorm:"primaryKey;type:date" db:"day" ddl:"TEXT NOT NULL"`
}

// LoadLog records the last successful load of a partition file.
type LoadLog struct {
	// ID is a UUID v5 of tier and path, reloading a file updates its row.
	ID string `gorm:"primaryKey;type:text" db:"id" ddl:"TEXT NOT NULL"`

	// RunID is a random UUID of the command run.
	RunID string `gorm:"type:text;not null" db:"run_id" ddl:"TEXT NOT NULL"`

	Tier     string `gorm:"type:text;not null" db:"tier" ddl:"TEXT NOT NULL"`
	Path     string `gorm:"type:text;not null" db:"path" ddl:"TEXT NOT NULL"`
	RowCount int    `gorm:"not null" db:"row_count" ddl:"INTEGER NOT NULL"`

	LoadedAt time.Time `gorm:"type:timestamptz;not null" db:"loaded_at" ddl:"TEXT NOT NULL"`
}

// Table names without schema.
const (
	HourlyTable  = "era5_hourly"
	DailyTable   = "era5_daily"
	LoadLogTable = "load_log"
)

func (Hourly) TableName() string {
	return Schema + "." + HourlyTable
}

func (Daily) TableName() string {
	return Schema + "." + DailyTable
}

func (LoadLog) TableName() string {
	return Schema + "." + LoadLogTable
}
