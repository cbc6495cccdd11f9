package entity

import "time"

// MuleConfig is a user's opt-in to relay decentralized messages, with the
// maximum number of undelivered assignments they will carry. One row per
// user; updates replace the row entirely.
type MuleConfig struct {
	UserID    string    `gorm:"primaryKey" json:"user_id"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	Active    bool      `gorm:"not null;index" json:"active"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// MuleAssignment links a decentralized message to the mule chosen to carry
// it. Pending (delivered=false) is the only non-terminal state.
type MuleAssignment struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	MessageID   string     `gorm:"not null;index" json:"message_id"`
	MuleUserID  string     `gorm:"not null;index:idx_assignment_mule_pending,priority:1" json:"mule_user_id"`
	PublisherID string     `gorm:"not null;index" json:"publisher_id"`
	Priority    int        `gorm:"not null;default:0" json:"priority"`
	AssignedAt  time.Time  `gorm:"not null" json:"assigned_at"`
	Delivered   bool       `gorm:"not null;default:false;index:idx_assignment_mule_pending,priority:2" json:"delivered"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}
