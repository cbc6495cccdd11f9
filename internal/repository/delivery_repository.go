package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"adrelay/internal/apperr"
	"adrelay/internal/entity"
)

// ReceivedMessage is the recipient-facing projection of a delivery joined
// with the message and its location.
type ReceivedMessage struct {
	MessageID    string    `json:"message_id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	AuthorID     string    `json:"author_id"`
	LocationName string    `json:"location_name"`
	ReceivedAt   time.Time `json:"received_at"`
}

type DeliveryRepository interface {
	// Create inserts the delivery row. A second insert for the same
	// (message, user) pair loses the race on the unique index and comes back
	// as a duplicate-delivery error.
	Create(d *entity.Delivery) error

	Exists(messageID, userID string) (bool, error)
	ListByUser(userID string) ([]ReceivedMessage, error)
}

type SQLiteDeliveryRepository struct {
	db *gorm.DB
}

func NewSQLiteDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &SQLiteDeliveryRepository{db}
}

func (repo *SQLiteDeliveryRepository) Create(d *entity.Delivery) error {
	err := repo.db.Create(d).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.New(apperr.KindDuplicateDelivery, "message %s already delivered to %s", d.MessageID, d.UserID)
	}
	if err != nil {
		return apperr.Wrap(apperr.KindStorage, err, "recording delivery")
	}
	return nil
}

func (repo *SQLiteDeliveryRepository) Exists(messageID, userID string) (bool, error) {
	var count int64
	err := repo.db.Model(&entity.Delivery{}).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Wrap(apperr.KindStorage, err, "checking delivery of %s to %s", messageID, userID)
	}
	return count > 0, nil
}

func (repo *SQLiteDeliveryRepository) ListByUser(userID string) ([]ReceivedMessage, error) {
	var out []ReceivedMessage
	err := repo.db.Model(&entity.Delivery{}).
		Select("deliveries.message_id, messages.title, messages.content, messages.author_id, locations.name AS location_name, deliveries.received_at").
		Joins("JOIN messages ON messages.id = deliveries.message_id").
		Joins("JOIN locations ON locations.id = messages.location_id").
		Where("deliveries.user_id = ?", userID).
		Order("deliveries.received_at ASC").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "listing deliveries of %s", userID)
	}
	return out, nil
}
