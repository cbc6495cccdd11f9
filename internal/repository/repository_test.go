package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"adrelay/internal/entity"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrapping db: %v", err)
	}
	// A second pooled connection would see an empty :memory: database.
	sqlDB.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}

func testLocation(t *testing.T, db *gorm.DB, creatorID string) *entity.Location {
	t.Helper()
	loc := &entity.Location{
		ID:        uuid.New().String(),
		Name:      "Ribeira",
		Scope:     entity.ScopeGPS,
		Latitude:  41.1579,
		Longitude: -8.6291,
		RadiusM:   100,
		CreatorID: creatorID,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := NewSQLiteLocationRepository(db).Create(loc); err != nil {
		t.Fatalf("creating test location: %v", err)
	}
	return loc
}

func testMessage(locationID, authorID string, mode entity.DeliveryMode) *entity.Message {
	now := time.Now()
	return &entity.Message{
		ID:         uuid.New().String(),
		Title:      "promo",
		Content:    "two for one",
		AuthorID:   authorID,
		LocationID: locationID,
		Policy:     entity.PolicyPublic,
		Mode:       mode,
		StartTime:  now.Add(-time.Hour),
		EndTime:    now.Add(time.Hour),
		Status:     entity.StatusActive,
		CreatedAt:  now,
	}
}
