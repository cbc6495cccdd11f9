package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"adrelay/internal/apperr"
	"adrelay/internal/entity"
)

// SentMessage is the author-facing projection of a message joined with its
// location for display.
type SentMessage struct {
	MessageID    string               `json:"message_id"`
	Title        string               `json:"title"`
	Policy       entity.PolicyType    `json:"policy"`
	Mode         entity.DeliveryMode  `json:"mode"`
	Status       entity.MessageStatus `json:"status"`
	LocationName string               `json:"location_name"`
	StartTime    time.Time            `json:"start_time"`
	EndTime      time.Time            `json:"end_time"`
}

type MessageRepository interface {
	// Create persists the message, its policy rules, the inline location when
	// one is supplied, and the mule fan-out for decentralized messages, all in
	// one transaction. The returned assignments are the fan-out result.
	Create(msg *entity.Message, inline *entity.Location, fanOut int) ([]*entity.MuleAssignment, error)

	GetByID(id string) (*entity.Message, error)
	ListVisibleAt(locationIDs []string, now time.Time) ([]*entity.Message, error)
	ListByAuthor(authorID string) ([]SentMessage, error)
	MarkRemoved(id string) error
	ExpireElapsed(now time.Time) (int64, error)
}

type SQLiteMessageRepository struct {
	db *gorm.DB
}

func NewSQLiteMessageRepository(db *gorm.DB) MessageRepository {
	return &SQLiteMessageRepository{db}
}

func (repo *SQLiteMessageRepository) Create(msg *entity.Message, inline *entity.Location, fanOut int) ([]*entity.MuleAssignment, error) {
	var assignments []*entity.MuleAssignment

	err := repo.db.Transaction(func(tx *gorm.DB) error {
		if inline != nil {
			if err := tx.Create(inline).Error; err != nil {
				return err
			}
			msg.LocationID = inline.ID
		}

		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		if msg.Mode == entity.ModeDecentralized {
			mules, err := selectAvailableMules(tx, fanOut)
			if err != nil {
				return err
			}
			now := time.Now()
			for _, cfg := range mules {
				a := &entity.MuleAssignment{
					ID:          uuid.New().String(),
					MessageID:   msg.ID,
					MuleUserID:  cfg.UserID,
					PublisherID: msg.AuthorID,
					Priority:    0,
					AssignedAt:  now,
				}
				if err := tx.Create(a).Error; err != nil {
					return err
				}
				assignments = append(assignments, a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "creating message")
	}
	return assignments, nil
}

func (repo *SQLiteMessageRepository) GetByID(id string) (*entity.Message, error) {
	var msg entity.Message
	err := repo.db.Preload("Rules").Where("id = ?", id).First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "message %s does not exist", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "loading message %s", id)
	}
	return &msg, nil
}

func (repo *SQLiteMessageRepository) ListVisibleAt(locationIDs []string, now time.Time) ([]*entity.Message, error) {
	if len(locationIDs) == 0 {
		return nil, nil
	}
	var msgs []*entity.Message
	err := repo.db.Preload("Rules").
		Where("location_id IN ?", locationIDs).
		Where("status = ?", entity.StatusActive).
		Where("start_time <= ? AND end_time >= ?", now, now).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "listing visible messages")
	}
	return msgs, nil
}

func (repo *SQLiteMessageRepository) ListByAuthor(authorID string) ([]SentMessage, error) {
	var out []SentMessage
	err := repo.db.Model(&entity.Message{}).
		Select("messages.id AS message_id, messages.title, messages.policy, messages.mode, messages.status, messages.start_time, messages.end_time, locations.name AS location_name").
		Joins("JOIN locations ON locations.id = messages.location_id").
		Where("messages.author_id = ?", authorID).
		Order("messages.created_at ASC").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "listing messages of %s", authorID)
	}
	return out, nil
}

func (repo *SQLiteMessageRepository) MarkRemoved(id string) error {
	res := repo.db.Model(&entity.Message{}).Where("id = ?", id).Update("status", entity.StatusRemoved)
	if res.Error != nil {
		return apperr.Wrap(apperr.KindStorage, res.Error, "removing message %s", id)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "message %s does not exist", id)
	}
	return nil
}

// ExpireElapsed flips every still-active message whose window has closed to
// EXPIRED. Running it twice is a no-op the second time.
func (repo *SQLiteMessageRepository) ExpireElapsed(now time.Time) (int64, error) {
	res := repo.db.Model(&entity.Message{}).
		Where("status = ? AND end_time < ?", entity.StatusActive, now).
		Update("status", entity.StatusExpired)
	if res.Error != nil {
		return 0, apperr.Wrap(apperr.KindStorage, res.Error, "expiring messages")
	}
	return res.RowsAffected, nil
}
