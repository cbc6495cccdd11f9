package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"adrelay/internal/cache"
	"adrelay/internal/notify"
	"adrelay/internal/repository"
)

type recordingDispatcher struct {
	sent []notify.Notification
}

func (d *recordingDispatcher) Dispatch(n notify.Notification) {
	d.sent = append(d.sent, n)
}

type testEnv struct {
	db         *gorm.DB
	locations  LocationService
	messages   MessageService
	deliveries DeliveryService
	mules      MuleService
	profiles   repository.ProfileRepository
	audits     repository.AuditRepository
	dispatcher *recordingDispatcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrapping db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := cache.NewMemory(time.Minute, time.Minute)

	locationRepo := repository.NewSQLiteLocationRepository(db)
	messageRepo := repository.NewSQLiteMessageRepository(db)
	deliveryRepo := repository.NewSQLiteDeliveryRepository(db)
	muleRepo := repository.NewSQLiteMuleRepository(db)
	profileRepo := repository.NewSQLiteProfileRepository(db)
	auditRepo := repository.NewSQLiteAuditRepository(db)

	dispatcher := &recordingDispatcher{}
	locations := NewLocationService(locationRepo, c, time.Minute, log)
	messages := NewMessageService(messageRepo, locationRepo, dispatcher, c, 5, log)
	deliveries := NewDeliveryService(locations, messageRepo, deliveryRepo, profileRepo, auditRepo, log)
	mules := NewMuleService(muleRepo, log)

	return &testEnv{
		db:         db,
		locations:  locations,
		messages:   messages,
		deliveries: deliveries,
		mules:      mules,
		profiles:   profileRepo,
		audits:     auditRepo,
		dispatcher: dispatcher,
	}
}

func (e *testEnv) gpsLocation(t *testing.T, creatorID string) string {
	t.Helper()
	loc, err := e.locations.Create(creatorID, "Ribeira", "GPS", 41.1579, -8.6291, 100, nil)
	if err != nil {
		t.Fatalf("creating gps location: %v", err)
	}
	return loc.ID
}

func validCreateInput(authorID, locationID string) CreateMessageInput {
	now := time.Now()
	return CreateMessageInput{
		AuthorID:   authorID,
		Title:      "promo",
		Content:    "two for one",
		LocationID: locationID,
		Policy:     "PUBLIC",
		Mode:       "CENTRALIZED",
		StartTime:  now.Add(-time.Hour),
		EndTime:    now.Add(time.Hour),
	}
}
