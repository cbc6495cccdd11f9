package repository

import (
	"gorm.io/gorm"

	"adrelay/internal/apperr"
	"adrelay/internal/entity"
)

type AuditRepository interface {
	Record(entry *entity.AuditEntry) error
	ListBySubject(subjectID string) ([]*entity.AuditEntry, error)
}

type SQLiteAuditRepository struct {
	db *gorm.DB
}

func NewSQLiteAuditRepository(db *gorm.DB) AuditRepository {
	return &SQLiteAuditRepository{db}
}

func (repo *SQLiteAuditRepository) Record(entry *entity.AuditEntry) error {
	if err := repo.db.Create(entry).Error; err != nil {
		return apperr.Wrap(apperr.KindStorage, err, "recording audit entry")
	}
	return nil
}

func (repo *SQLiteAuditRepository) ListBySubject(subjectID string) ([]*entity.AuditEntry, error) {
	var entries []*entity.AuditEntry
	err := repo.db.Where("subject_id = ?", subjectID).Order("created_at ASC").Find(&entries).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "listing audit entries of %s", subjectID)
	}
	return entries, nil
}
