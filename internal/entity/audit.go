package entity

import "time"

// AuditEntry is an append-only trace row. Acceptance of a mule assignment
// writes one inside the same transaction as the state flip; position reports
// write one per matched location.
type AuditEntry struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"not null;index" json:"action"`
	ActorID   string    `gorm:"not null;index" json:"actor_id"`
	SubjectID string    `gorm:"not null;index" json:"subject_id"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
