package repository

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"adrelay/internal/entity"
)

// Open connects to the SQLite database at path. TranslateError is on so a
// unique-index violation comes back as gorm.ErrDuplicatedKey instead of a
// driver-specific string.
func Open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
}

// Migrate creates or updates the schema for every table the system owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Location{},
		&entity.LocationSSID{},
		&entity.Message{},
		&entity.PolicyRule{},
		&entity.Delivery{},
		&entity.ProfileAttribute{},
		&entity.MuleConfig{},
		&entity.MuleAssignment{},
		&entity.AuditEntry{},
	)
}
