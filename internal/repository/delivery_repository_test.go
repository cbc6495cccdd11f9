package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"adrelay/internal/apperr"
	"adrelay/internal/entity"
)

func TestRecordThenDuplicateFails(t *testing.T) {
	db := testDB(t)
	loc := testLocation(t, db, "author")
	msg := testMessage(loc.ID, "author", entity.ModeCentralized)
	if _, err := NewSQLiteMessageRepository(db).Create(msg, nil, 0); err != nil {
		t.Fatalf("creating message: %v", err)
	}

	deliveries := NewSQLiteDeliveryRepository(db)

	first := &entity.Delivery{
		ID:           uuid.New().String(),
		MessageID:    msg.ID,
		UserID:       "alice",
		DeviceOrigin: "phone-1",
		Mode:         entity.ModeCentralized,
		ReceivedAt:   time.Now(),
	}
	if err := deliveries.Create(first); err != nil {
		t.Fatalf("first delivery: %v", err)
	}

	ok, err := deliveries.Exists(msg.ID, "alice")
	if err != nil || !ok {
		t.Fatalf("Exists = (%v, %v), want (true, nil)", ok, err)
	}

	// Same pair, fresh row id: must lose on the unique index.
	second := &entity.Delivery{
		ID:           uuid.New().String(),
		MessageID:    msg.ID,
		UserID:       "alice",
		DeviceOrigin: "phone-2",
		Mode:         entity.ModeCentralized,
		ReceivedAt:   time.Now(),
	}
	err = deliveries.Create(second)
	if apperr.KindOf(err) != apperr.KindDuplicateDelivery {
		t.Fatalf("second delivery: got %v, want duplicate-delivery", err)
	}

	// A different user is unaffected.
	third := &entity.Delivery{
		ID:         uuid.New().String(),
		MessageID:  msg.ID,
		UserID:     "bob",
		Mode:       entity.ModeCentralized,
		ReceivedAt: time.Now(),
	}
	if err := deliveries.Create(third); err != nil {
		t.Fatalf("delivery to another user: %v", err)
	}
}

func TestListByUserJoinsMessageAndLocation(t *testing.T) {
	db := testDB(t)
	loc := testLocation(t, db, "author")
	msg := testMessage(loc.ID, "author", entity.ModeCentralized)
	if _, err := NewSQLiteMessageRepository(db).Create(msg, nil, 0); err != nil {
		t.Fatalf("creating message: %v", err)
	}

	deliveries := NewSQLiteDeliveryRepository(db)
	d := &entity.Delivery{
		ID:         uuid.New().String(),
		MessageID:  msg.ID,
		UserID:     "alice",
		Mode:       entity.ModeCentralized,
		ReceivedAt: time.Now(),
	}
	if err := deliveries.Create(d); err != nil {
		t.Fatalf("recording delivery: %v", err)
	}

	got, err := deliveries.ListByUser("alice")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 received message, got %d", len(got))
	}
	if got[0].MessageID != msg.ID || got[0].Title != "promo" || got[0].LocationName != "Ribeira" {
		t.Errorf("unexpected projection: %+v", got[0])
	}
}
