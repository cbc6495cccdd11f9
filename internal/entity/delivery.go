package entity

import "time"

// Delivery records that a user received a message. The unique index over
// (message_id, user_id) is what enforces at-most-once delivery; concurrent
// inserts race on the index, not on an application-level read.
type Delivery struct {
	ID           string       `gorm:"primaryKey" json:"id"`
	MessageID    string       `gorm:"not null;uniqueIndex:ux_delivery_message_user,priority:1" json:"message_id"`
	UserID       string       `gorm:"not null;uniqueIndex:ux_delivery_message_user,priority:2" json:"user_id"`
	DeviceOrigin string       `json:"device_origin"`
	Mode         DeliveryMode `gorm:"not null" json:"mode"`
	ReceivedAt   time.Time    `gorm:"not null;index" json:"received_at"`
}
