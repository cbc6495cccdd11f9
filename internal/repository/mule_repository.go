package repository

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"adrelay/internal/apperr"
	"adrelay/internal/entity"
)

type MuleStats struct {
	Total     int64 `json:"total"`
	Delivered int64 `json:"delivered"`
	Pending   int64 `json:"pending"`
}

type MuleRepository interface {
	UpsertConfig(cfg *entity.MuleConfig) error
	GetConfig(userID string) (*entity.MuleConfig, error)
	RemoveConfig(userID string) error

	ListPending(muleID string) ([]*entity.MuleAssignment, error)
	Accept(assignmentID, muleID string) (*entity.MuleAssignment, error)
	Stats(muleID string) (*MuleStats, error)
}

type SQLiteMuleRepository struct {
	db *gorm.DB
}

func NewSQLiteMuleRepository(db *gorm.DB) MuleRepository {
	return &SQLiteMuleRepository{db}
}

func (repo *SQLiteMuleRepository) UpsertConfig(cfg *entity.MuleConfig) error {
	err := repo.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(cfg).Error
	if err != nil {
		return apperr.Wrap(apperr.KindStorage, err, "saving mule config for %s", cfg.UserID)
	}
	return nil
}

func (repo *SQLiteMuleRepository) GetConfig(userID string) (*entity.MuleConfig, error) {
	var cfg entity.MuleConfig
	err := repo.db.Where("user_id = ?", userID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "no mule config for %s", userID)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "loading mule config for %s", userID)
	}
	return &cfg, nil
}

func (repo *SQLiteMuleRepository) RemoveConfig(userID string) error {
	res := repo.db.Where("user_id = ?", userID).Delete(&entity.MuleConfig{})
	if res.Error != nil {
		return apperr.Wrap(apperr.KindStorage, res.Error, "removing mule config for %s", userID)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "no mule config for %s", userID)
	}
	return nil
}

func (repo *SQLiteMuleRepository) ListPending(muleID string) ([]*entity.MuleAssignment, error) {
	var out []*entity.MuleAssignment
	err := repo.db.
		Where("mule_user_id = ? AND delivered = ?", muleID, false).
		Order("priority DESC, assigned_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "listing pending assignments of %s", muleID)
	}
	return out, nil
}

// Accept flips the assignment to delivered and writes the audit row in the
// same transaction. The row is read with an UPDATE lock so two concurrent
// accepts serialize and the loser sees delivered=true.
func (repo *SQLiteMuleRepository) Accept(assignmentID, muleID string) (*entity.MuleAssignment, error) {
	var accepted *entity.MuleAssignment

	err := repo.db.Transaction(func(tx *gorm.DB) error {
		var a entity.MuleAssignment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", assignmentID).First(&a).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.KindNotFound, "assignment %s does not exist", assignmentID)
		}
		if err != nil {
			return err
		}

		if a.MuleUserID != muleID {
			return apperr.New(apperr.KindUnauthorized, "assignment %s is not held by %s", assignmentID, muleID)
		}
		if a.Delivered {
			return apperr.New(apperr.KindAlreadyDelivered, "assignment %s was already delivered", assignmentID)
		}

		now := time.Now()
		a.Delivered = true
		a.DeliveredAt = &now
		if err := tx.Save(&a).Error; err != nil {
			return err
		}

		audit := &entity.AuditEntry{
			ID:        uuid.New().String(),
			Action:    "assignment.accepted",
			ActorID:   muleID,
			SubjectID: a.ID,
			Detail:    fmt.Sprintf("message %s delivered by mule", a.MessageID),
			CreatedAt: now,
		}
		if err := tx.Create(audit).Error; err != nil {
			return err
		}

		accepted = &a
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.KindUnknown {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.KindStorage, err, "accepting assignment %s", assignmentID)
	}
	return accepted, nil
}

func (repo *SQLiteMuleRepository) Stats(muleID string) (*MuleStats, error) {
	var stats MuleStats
	err := repo.db.Model(&entity.MuleAssignment{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN delivered THEN 1 ELSE 0 END), 0) AS delivered, COALESCE(SUM(CASE WHEN delivered THEN 0 ELSE 1 END), 0) AS pending").
		Where("mule_user_id = ?", muleID).
		Scan(&stats).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "computing stats for %s", muleID)
	}
	return &stats, nil
}

// selectAvailableMules picks up to limit active mules ordered by spare
// capacity, skipping anyone already at capacity. Capacity is only checked
// here, at assignment creation, never re-verified afterwards.
func selectAvailableMules(tx *gorm.DB, limit int) ([]*entity.MuleConfig, error) {
	var configs []*entity.MuleConfig
	if err := tx.Where("active = ?", true).Find(&configs).Error; err != nil {
		return nil, err
	}
	if len(configs) == 0 || limit <= 0 {
		return nil, nil
	}

	type pendingRow struct {
		MuleUserID string
		N          int
	}
	var rows []pendingRow
	err := tx.Model(&entity.MuleAssignment{}).
		Select("mule_user_id, COUNT(*) AS n").
		Where("delivered = ?", false).
		Group("mule_user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	pending := make(map[string]int, len(rows))
	for _, r := range rows {
		pending[r.MuleUserID] = r.N
	}

	spare := func(cfg *entity.MuleConfig) int {
		return cfg.Capacity - pending[cfg.UserID]
	}

	available := configs[:0]
	for _, cfg := range configs {
		if spare(cfg) > 0 {
			available = append(available, cfg)
		}
	}
	sort.SliceStable(available, func(i, j int) bool {
		si, sj := spare(available[i]), spare(available[j])
		if si != sj {
			return si > sj
		}
		return available[i].UserID < available[j].UserID
	})

	if len(available) > limit {
		available = available[:limit]
	}
	return available, nil
}
