package service

import (
	"log/slog"
	"time"

	"adrelay/internal/apperr"
	"adrelay/internal/entity"
	"adrelay/internal/repository"
)

type MuleService interface {
	ListPending(muleID string) ([]*entity.MuleAssignment, error)
	Accept(assignmentID, muleID string) (*entity.MuleAssignment, error)

	UpsertConfig(userID string, capacity int, active bool) (*entity.MuleConfig, error)
	GetConfig(userID string) (*entity.MuleConfig, error)
	RemoveConfig(userID string) error

	Stats(muleID string) (*repository.MuleStats, error)
}

type muleService struct {
	mules  repository.MuleRepository
	logger *slog.Logger
}

func NewMuleService(mules repository.MuleRepository, logger *slog.Logger) MuleService {
	return &muleService{mules: mules, logger: logger}
}

func (s *muleService) ListPending(muleID string) ([]*entity.MuleAssignment, error) {
	return s.mules.ListPending(muleID)
}

func (s *muleService) Accept(assignmentID, muleID string) (*entity.MuleAssignment, error) {
	a, err := s.mules.Accept(assignmentID, muleID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("assignment accepted", "assignment", a.ID, "mule", muleID, "message", a.MessageID)
	return a, nil
}

func (s *muleService) UpsertConfig(userID string, capacity int, active bool) (*entity.MuleConfig, error) {
	if capacity < 1 {
		return nil, apperr.New(apperr.KindValidation, "capacity must be at least 1")
	}
	cfg := &entity.MuleConfig{
		UserID:    userID,
		Capacity:  capacity,
		Active:    active,
		UpdatedAt: time.Now(),
	}
	if err := s.mules.UpsertConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *muleService) GetConfig(userID string) (*entity.MuleConfig, error) {
	return s.mules.GetConfig(userID)
}

// RemoveConfig drops the opt-in. Assignments already pending stay pending:
// a mule that re-registers later still finds them via ListPending.
func (s *muleService) RemoveConfig(userID string) error {
	return s.mules.RemoveConfig(userID)
}

func (s *muleService) Stats(muleID string) (*repository.MuleStats, error) {
	return s.mules.Stats(muleID)
}
