package repository

import (
	"errors"

	"gorm.io/gorm"

	"adrelay/internal/apperr"
	"adrelay/internal/entity"
)

type LocationRepository interface {
	Create(loc *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	ListActive() ([]*entity.Location, error)
	ListByCreator(creatorID string) ([]*entity.Location, error)
	Deactivate(id string) error
}

type SQLiteLocationRepository struct {
	db *gorm.DB
}

func NewSQLiteLocationRepository(db *gorm.DB) LocationRepository {
	return &SQLiteLocationRepository{db}
}

func (repo *SQLiteLocationRepository) Create(loc *entity.Location) error {
	if err := repo.db.Create(loc).Error; err != nil {
		return apperr.Wrap(apperr.KindStorage, err, "creating location")
	}
	return nil
}

func (repo *SQLiteLocationRepository) GetByID(id string) (*entity.Location, error) {
	var loc entity.Location
	err := repo.db.Preload("SSIDs").Where("id = ?", id).First(&loc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "location %s does not exist", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "loading location %s", id)
	}
	return &loc, nil
}

func (repo *SQLiteLocationRepository) ListActive() ([]*entity.Location, error) {
	var locs []*entity.Location
	err := repo.db.Preload("SSIDs").Where("active = ?", true).Find(&locs).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "listing active locations")
	}
	return locs, nil
}

func (repo *SQLiteLocationRepository) ListByCreator(creatorID string) ([]*entity.Location, error) {
	var locs []*entity.Location
	err := repo.db.Preload("SSIDs").Where("creator_id = ?", creatorID).Order("created_at ASC").Find(&locs).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "listing locations of %s", creatorID)
	}
	return locs, nil
}

func (repo *SQLiteLocationRepository) Deactivate(id string) error {
	res := repo.db.Model(&entity.Location{}).Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		return apperr.Wrap(apperr.KindStorage, res.Error, "deactivating location %s", id)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "location %s does not exist", id)
	}
	return nil
}
