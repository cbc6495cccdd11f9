package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"adrelay/internal/apperr"
	"adrelay/internal/entity"
)

// ProfileRepository is the read/write contract of the profile attribute
// store. The store itself belongs to an external collaborator; the policy
// evaluator only ever sees the map Attributes returns.
type ProfileRepository interface {
	Attributes(userID string) (map[string]string, error)
	Set(userID, key, value string) error
}

type SQLiteProfileRepository struct {
	db *gorm.DB
}

func NewSQLiteProfileRepository(db *gorm.DB) ProfileRepository {
	return &SQLiteProfileRepository{db}
}

func (repo *SQLiteProfileRepository) Attributes(userID string) (map[string]string, error) {
	var rows []entity.ProfileAttribute
	if err := repo.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "loading profile of %s", userID)
	}
	attrs := make(map[string]string, len(rows))
	for _, r := range rows {
		attrs[r.Key] = r.Value
	}
	return attrs, nil
}

func (repo *SQLiteProfileRepository) Set(userID, key, value string) error {
	row := &entity.ProfileAttribute{UserID: userID, Key: key, Value: value}
	err := repo.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "attr_key"}},
		UpdateAll: true,
	}).Create(row).Error
	if err != nil {
		return apperr.Wrap(apperr.KindStorage, err, "setting attribute %s for %s", key, userID)
	}
	return nil
}
