package repository

import (
	"testing"
	"time"

	"adrelay/internal/apperr"
	"adrelay/internal/entity"
)

func upsertMule(t *testing.T, repo MuleRepository, userID string, capacity int, active bool) {
	t.Helper()
	err := repo.UpsertConfig(&entity.MuleConfig{
		UserID:    userID,
		Capacity:  capacity,
		Active:    active,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("upserting mule %s: %v", userID, err)
	}
}

func TestFanOutRespectsCapacity(t *testing.T) {
	db := testDB(t)
	mules := NewSQLiteMuleRepository(db)
	messages := NewSQLiteMessageRepository(db)
	loc := testLocation(t, db, "pub")

	upsertMule(t, mules, "m1", 2, true)
	upsertMule(t, mules, "m2", 2, true)
	upsertMule(t, mules, "m3", 2, true)

	// Three mules, capacity 2 each, fan-out 5: every publication picks the
	// mules with the most spare capacity and nobody exceeds 2 pending.
	for i := 0; i < 3; i++ {
		msg := testMessage(loc.ID, "pub", entity.ModeDecentralized)
		if _, err := messages.Create(msg, nil, 5); err != nil {
			t.Fatalf("creating message %d: %v", i, err)
		}
	}

	for _, id := range []string{"m1", "m2", "m3"} {
		pending, err := mules.ListPending(id)
		if err != nil {
			t.Fatalf("listing pending of %s: %v", id, err)
		}
		if len(pending) > 2 {
			t.Errorf("mule %s holds %d pending assignments, capacity is 2", id, len(pending))
		}
	}
}

func TestFanOutSkipsInactiveAndFullMules(t *testing.T) {
	db := testDB(t)
	mules := NewSQLiteMuleRepository(db)
	messages := NewSQLiteMessageRepository(db)
	loc := testLocation(t, db, "pub")

	upsertMule(t, mules, "busy", 1, true)
	upsertMule(t, mules, "idle", 3, true)
	upsertMule(t, mules, "off", 5, false)

	first := testMessage(loc.ID, "pub", entity.ModeDecentralized)
	got, err := messages.Create(first, nil, 5)
	if err != nil {
		t.Fatalf("first message: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected fan-out to the 2 active mules, got %d", len(got))
	}
	for _, a := range got {
		if a.MuleUserID == "off" {
			t.Errorf("assigned to inactive mule")
		}
		if a.Delivered {
			t.Errorf("fresh assignment already delivered")
		}
	}

	// "busy" is now at capacity; a second publication reaches only "idle".
	second := testMessage(loc.ID, "pub", entity.ModeDecentralized)
	got, err = messages.Create(second, nil, 5)
	if err != nil {
		t.Fatalf("second message: %v", err)
	}
	if len(got) != 1 || got[0].MuleUserID != "idle" {
		t.Fatalf("expected only idle mule, got %+v", got)
	}
}

func TestFanOutOrdersBySpareCapacity(t *testing.T) {
	db := testDB(t)
	mules := NewSQLiteMuleRepository(db)
	messages := NewSQLiteMessageRepository(db)
	loc := testLocation(t, db, "pub")

	upsertMule(t, mules, "small", 1, true)
	upsertMule(t, mules, "big", 10, true)

	msg := testMessage(loc.ID, "pub", entity.ModeDecentralized)
	got, err := messages.Create(msg, nil, 1)
	if err != nil {
		t.Fatalf("creating message: %v", err)
	}
	if len(got) != 1 || got[0].MuleUserID != "big" {
		t.Fatalf("fan-out of 1 should pick the mule with most spare capacity, got %+v", got)
	}
}

func TestCentralizedMessageSkipsFanOut(t *testing.T) {
	db := testDB(t)
	mules := NewSQLiteMuleRepository(db)
	messages := NewSQLiteMessageRepository(db)
	loc := testLocation(t, db, "pub")

	upsertMule(t, mules, "m1", 5, true)

	msg := testMessage(loc.ID, "pub", entity.ModeCentralized)
	got, err := messages.Create(msg, nil, 5)
	if err != nil {
		t.Fatalf("creating message: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("centralized message produced %d assignments", len(got))
	}
}

func TestAcceptFlow(t *testing.T) {
	db := testDB(t)
	mules := NewSQLiteMuleRepository(db)
	messages := NewSQLiteMessageRepository(db)
	loc := testLocation(t, db, "pub")

	upsertMule(t, mules, "carrier", 2, true)

	msg := testMessage(loc.ID, "pub", entity.ModeDecentralized)
	assignments, err := messages.Create(msg, nil, 5)
	if err != nil || len(assignments) != 1 {
		t.Fatalf("fan-out: %v (%d assignments)", err, len(assignments))
	}
	id := assignments[0].ID

	// Wrong mule is rejected before any state change.
	if _, err := mules.Accept(id, "impostor"); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("accept by non-owner: got %v, want unauthorized", err)
	}

	accepted, err := mules.Accept(id, "carrier")
	if err != nil {
		t.Fatalf("accept by owner: %v", err)
	}
	if !accepted.Delivered || accepted.DeliveredAt == nil {
		t.Errorf("accepted assignment not marked delivered: %+v", accepted)
	}

	// Second accept by the rightful owner hits the terminal state.
	if _, err := mules.Accept(id, "carrier"); apperr.KindOf(err) != apperr.KindAlreadyDelivered {
		t.Fatalf("second accept: got %v, want already-delivered", err)
	}

	if _, err := mules.Accept("no-such-id", "carrier"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("accept of unknown assignment: got %v, want not-found", err)
	}

	// The audit row landed with the state flip.
	var audits []entity.AuditEntry
	if err := db.Where("subject_id = ?", id).Find(&audits).Error; err != nil {
		t.Fatalf("loading audit rows: %v", err)
	}
	if len(audits) != 1 || audits[0].Action != "assignment.accepted" || audits[0].ActorID != "carrier" {
		t.Errorf("unexpected audit rows: %+v", audits)
	}

	stats, err := mules.Stats("carrier")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 1 || stats.Delivered != 1 || stats.Pending != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestUpsertConfigReplaces(t *testing.T) {
	db := testDB(t)
	mules := NewSQLiteMuleRepository(db)

	upsertMule(t, mules, "m1", 2, true)
	upsertMule(t, mules, "m1", 7, false)

	cfg, err := mules.GetConfig("m1")
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if cfg.Capacity != 7 || cfg.Active {
		t.Errorf("config not replaced: %+v", cfg)
	}

	if err := mules.RemoveConfig("m1"); err != nil {
		t.Fatalf("RemoveConfig: %v", err)
	}
	if _, err := mules.GetConfig("m1"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("config survived removal: %v", err)
	}
	if err := mules.RemoveConfig("m1"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("second removal: got %v, want not-found", err)
	}
}

func TestListPendingOrder(t *testing.T) {
	db := testDB(t)
	mules := NewSQLiteMuleRepository(db)
	now := time.Now()

	rows := []*entity.MuleAssignment{
		{ID: "a-low-old", MessageID: "x", MuleUserID: "m", PublisherID: "p", Priority: 0, AssignedAt: now.Add(-2 * time.Hour)},
		{ID: "a-high", MessageID: "x", MuleUserID: "m", PublisherID: "p", Priority: 5, AssignedAt: now},
		{ID: "a-low-new", MessageID: "x", MuleUserID: "m", PublisherID: "p", Priority: 0, AssignedAt: now.Add(-time.Hour)},
	}
	for _, a := range rows {
		if err := db.Create(a).Error; err != nil {
			t.Fatalf("seeding assignment: %v", err)
		}
	}

	got, err := mules.ListPending("m")
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	want := []string{"a-high", "a-low-old", "a-low-new"}
	if len(got) != len(want) {
		t.Fatalf("expected %d assignments, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}
