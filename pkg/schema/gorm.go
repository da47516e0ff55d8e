package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&Hourly{},
		&Daily{},
		&LoadLog{},
	}
}

// Migrate runs GORM AutoMigrate to create or update base tables.
// Measure columns added by the loader are left untouched.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
