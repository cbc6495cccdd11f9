package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"adrelay/internal/apperr"
	"adrelay/internal/entity"
	"adrelay/internal/policy"
	"adrelay/internal/repository"
)

// FeedItem is one message a recipient is eligible for at their reported
// position: matched, in-window, policy-satisfying and not yet received.
type FeedItem struct {
	MessageID    string            `json:"message_id"`
	Title        string            `json:"title"`
	Content      string            `json:"content"`
	AuthorID     string            `json:"author"`
	LocationName string            `json:"location_name"`
	Policy       entity.PolicyType `json:"policy"`
}

type DeliveryService interface {
	ReportPosition(userID string, pos Position) ([]FeedItem, error)

	// Receive confirms delivery of a message to a user. At most one call per
	// (message, user) pair succeeds.
	Receive(messageID, userID, deviceID string) error

	IsDelivered(messageID, userID string) (bool, error)
	ListReceived(userID string) ([]repository.ReceivedMessage, error)
}

type deliveryService struct {
	locations  LocationService
	messages   repository.MessageRepository
	deliveries repository.DeliveryRepository
	profiles   repository.ProfileRepository
	audits     repository.AuditRepository
	logger     *slog.Logger
}

func NewDeliveryService(locations LocationService, messages repository.MessageRepository, deliveries repository.DeliveryRepository, profiles repository.ProfileRepository, audits repository.AuditRepository, logger *slog.Logger) DeliveryService {
	return &deliveryService{
		locations:  locations,
		messages:   messages,
		deliveries: deliveries,
		profiles:   profiles,
		audits:     audits,
		logger:     logger,
	}
}

func (s *deliveryService) ReportPosition(userID string, pos Position) ([]FeedItem, error) {
	matches, err := s.locations.Match(pos)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	s.recordMatches(userID, matches)

	locationIDs := make([]string, 0, len(matches))
	locationName := make(map[string]string, len(matches))
	for _, m := range matches {
		locationIDs = append(locationIDs, m.Location.ID)
		locationName[m.Location.ID] = m.Location.Name
	}

	msgs, err := s.messages.ListVisibleAt(locationIDs, time.Now())
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, nil
	}

	profile, err := s.profiles.Attributes(userID)
	if err != nil {
		return nil, err
	}

	var feed []FeedItem
	for _, msg := range msgs {
		if !policy.Evaluate(msg, profile) {
			continue
		}
		delivered, err := s.deliveries.Exists(msg.ID, userID)
		if err != nil {
			return nil, err
		}
		if delivered {
			continue
		}
		feed = append(feed, FeedItem{
			MessageID:    msg.ID,
			Title:        msg.Title,
			Content:      msg.Content,
			AuthorID:     msg.AuthorID,
			LocationName: locationName[msg.LocationID],
			Policy:       msg.Policy,
		})
	}
	s.logger.Info("position report served", "user", userID, "matches", len(matches), "eligible", len(feed))
	return feed, nil
}

// recordMatches appends one audit row per matched location. The trail is
// observational, so a failed write is logged but never blocks the feed.
func (s *deliveryService) recordMatches(userID string, matches []Match) {
	now := time.Now()
	for _, m := range matches {
		entry := &entity.AuditEntry{
			ID:        uuid.New().String(),
			Action:    "position.matched",
			ActorID:   userID,
			SubjectID: m.Location.ID,
			Detail:    fmt.Sprintf("method=%s confidence=%.2f", m.Method, m.Confidence),
			CreatedAt: now,
		}
		if err := s.audits.Record(entry); err != nil {
			s.logger.Warn("recording position match failed", "user", userID, "location", m.Location.ID, "error", err)
		}
	}
}

func (s *deliveryService) Receive(messageID, userID, deviceID string) error {
	msg, err := s.messages.GetByID(messageID)
	if err != nil {
		return err
	}
	if !msg.VisibleAt(time.Now()) {
		return apperr.New(apperr.KindNotFound, "message %s is no longer available", messageID)
	}

	profile, err := s.profiles.Attributes(userID)
	if err != nil {
		return err
	}
	if !policy.Evaluate(msg, profile) {
		return apperr.New(apperr.KindPolicyDenied, "profile of %s does not satisfy the message policy", userID)
	}

	return s.deliveries.Create(&entity.Delivery{
		ID:           uuid.New().String(),
		MessageID:    messageID,
		UserID:       userID,
		DeviceOrigin: deviceID,
		Mode:         msg.Mode,
		ReceivedAt:   time.Now(),
	})
}

func (s *deliveryService) IsDelivered(messageID, userID string) (bool, error) {
	return s.deliveries.Exists(messageID, userID)
}

func (s *deliveryService) ListReceived(userID string) ([]repository.ReceivedMessage, error) {
	return s.deliveries.ListByUser(userID)
}
