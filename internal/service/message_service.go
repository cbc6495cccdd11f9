package service

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"adrelay/internal/apperr"
	"adrelay/internal/cache"
	"adrelay/internal/entity"
	"adrelay/internal/notify"
	"adrelay/internal/repository"
)

// InlineLocation lets a publisher register a place in the same request (and
// transaction) that publishes the message.
type InlineLocation struct {
	Name      string
	Scope     entity.LocationScope
	Latitude  float64
	Longitude float64
	RadiusM   float64
	SSIDs     []string
}

type CreateMessageInput struct {
	AuthorID       string
	Title          string
	Content        string
	LocationID     string
	InlineLocation *InlineLocation
	Policy         entity.PolicyType
	Rules          []entity.PolicyRule
	Mode           entity.DeliveryMode
	StartTime      time.Time
	EndTime        time.Time
}

type MessageService interface {
	Create(in CreateMessageInput) (*entity.Message, error)
	SoftDelete(id, callerID string) error
	ListSent(authorID string) ([]repository.SentMessage, error)

	// SweepExpired flips elapsed messages to EXPIRED and reports how many it
	// touched. Scheduled; must stay idempotent.
	SweepExpired() (int64, error)
}

type messageService struct {
	messages   repository.MessageRepository
	locations  repository.LocationRepository
	dispatcher notify.Dispatcher
	cache      cache.Cache
	fanOut     int
	logger     *slog.Logger
}

func NewMessageService(messages repository.MessageRepository, locations repository.LocationRepository, dispatcher notify.Dispatcher, c cache.Cache, fanOut int, logger *slog.Logger) MessageService {
	return &messageService{
		messages:   messages,
		locations:  locations,
		dispatcher: dispatcher,
		cache:      c,
		fanOut:     fanOut,
		logger:     logger,
	}
}

func (s *messageService) Create(in CreateMessageInput) (*entity.Message, error) {
	if in.Title == "" || in.Content == "" {
		return nil, apperr.New(apperr.KindValidation, "title and content are required")
	}
	switch in.Policy {
	case entity.PolicyPublic, entity.PolicyWhitelist, entity.PolicyBlacklist:
	default:
		return nil, apperr.New(apperr.KindValidation, "unknown policy type %q", in.Policy)
	}
	switch in.Mode {
	case entity.ModeCentralized, entity.ModeDecentralized:
	default:
		return nil, apperr.New(apperr.KindValidation, "unknown delivery mode %q", in.Mode)
	}
	if !in.StartTime.Before(in.EndTime) {
		return nil, apperr.New(apperr.KindValidation, "start time must precede end time")
	}
	if (in.LocationID == "") == (in.InlineLocation == nil) {
		return nil, apperr.New(apperr.KindValidation, "exactly one of location id or inline location is required")
	}

	var inline *entity.Location
	if in.InlineLocation != nil {
		var err error
		inline, err = buildLocation(in.AuthorID, in.InlineLocation.Name, in.InlineLocation.Scope,
			in.InlineLocation.Latitude, in.InlineLocation.Longitude, in.InlineLocation.RadiusM, in.InlineLocation.SSIDs)
		if err != nil {
			return nil, err
		}
	} else {
		loc, err := s.locations.GetByID(in.LocationID)
		if err != nil {
			return nil, err
		}
		if !loc.Active {
			return nil, apperr.New(apperr.KindValidation, "location %s is no longer active", in.LocationID)
		}
	}

	msg := &entity.Message{
		ID:         uuid.New().String(),
		Title:      in.Title,
		Content:    in.Content,
		AuthorID:   in.AuthorID,
		LocationID: in.LocationID,
		Policy:     in.Policy,
		Mode:       in.Mode,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Status:     entity.StatusActive,
		CreatedAt:  time.Now(),
	}
	for _, r := range in.Rules {
		msg.Rules = append(msg.Rules, entity.PolicyRule{MessageID: msg.ID, Key: r.Key, Value: r.Value})
	}

	assignments, err := s.messages.Create(msg, inline, s.fanOut)
	if err != nil {
		return nil, err
	}
	if inline != nil {
		s.cache.Delete(activeLocationsKey)
	}

	s.logger.Info("message published",
		"id", msg.ID, "author", msg.AuthorID, "mode", msg.Mode, "assignments", len(assignments))

	// Best-effort: the publish already committed, carriers just get a nudge.
	for _, a := range assignments {
		s.dispatcher.Dispatch(notify.Notification{
			UserID: a.MuleUserID,
			Title:  "New relay assignment",
			Body:   msg.Title,
		})
	}
	return msg, nil
}

func (s *messageService) SoftDelete(id, callerID string) error {
	msg, err := s.messages.GetByID(id)
	if err != nil {
		return err
	}
	if msg.AuthorID != callerID {
		return apperr.New(apperr.KindUnauthorized, "message %s is not authored by %s", id, callerID)
	}
	return s.messages.MarkRemoved(id)
}

func (s *messageService) ListSent(authorID string) ([]repository.SentMessage, error) {
	return s.messages.ListByAuthor(authorID)
}

func (s *messageService) SweepExpired() (int64, error) {
	n, err := s.messages.ExpireElapsed(time.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("expired messages swept", "count", n)
	}
	return n, nil
}
