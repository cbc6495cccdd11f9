package entity

import "time"

type PolicyType string

const (
	PolicyPublic    PolicyType = "PUBLIC"
	PolicyWhitelist PolicyType = "WHITELIST"
	PolicyBlacklist PolicyType = "BLACKLIST"
)

type DeliveryMode string

const (
	ModeCentralized   DeliveryMode = "CENTRALIZED"
	ModeDecentralized DeliveryMode = "DECENTRALIZED"
)

// MessageStatus replaces the legacy (active, removed) boolean pair with one
// enumerated state, so removed-but-active rows cannot exist.
type MessageStatus string

const (
	StatusActive  MessageStatus = "ACTIVE"
	StatusExpired MessageStatus = "EXPIRED"
	StatusRemoved MessageStatus = "REMOVED"
)

// Message is a short-lived ad bound to one location, visible only inside its
// time window and only to recipients its policy admits.
type Message struct {
	ID         string        `gorm:"primaryKey" json:"id"`
	Title      string        `gorm:"not null" json:"title"`
	Content    string        `gorm:"not null" json:"content"`
	AuthorID   string        `gorm:"not null;index" json:"author_id"`
	LocationID string        `gorm:"not null;index" json:"location_id"`
	Policy     PolicyType    `gorm:"not null" json:"policy"`
	Mode       DeliveryMode  `gorm:"not null" json:"mode"`
	StartTime  time.Time     `gorm:"not null" json:"start_time"`
	EndTime    time.Time     `gorm:"not null;index" json:"end_time"`
	Status     MessageStatus `gorm:"not null;default:ACTIVE;index" json:"status"`
	CreatedAt  time.Time     `gorm:"not null" json:"created_at"`

	Rules []PolicyRule `gorm:"foreignKey:MessageID;references:ID" json:"rules,omitempty"`
}

// VisibleAt reports whether the message may be served at the given instant.
func (m *Message) VisibleAt(now time.Time) bool {
	return m.Status == StatusActive && !now.Before(m.StartTime) && !now.After(m.EndTime)
}

// PolicyRule is one attribute constraint attached to a message. Rule order
// carries no meaning.
type PolicyRule struct {
	MessageID string `gorm:"primaryKey" json:"-"`
	Key       string `gorm:"primaryKey;column:attr_key" json:"key"`
	Value     string `gorm:"not null;column:attr_value" json:"value"`
}
