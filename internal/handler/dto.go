package handler

import (
	"time"

	"adrelay/internal/entity"
	"adrelay/internal/service"
)

// The legacy clients send a mix of English and Portuguese field names. Each
// request type carries both spellings and normalize() collapses them into
// one canonical input before anything reaches the services.

func pick(canonical, alias string) string {
	if canonical != "" {
		return canonical
	}
	return alias
}

// pickF treats zero as "absent", so an explicit canonical zero next to a
// non-zero alias yields the alias. Acceptable: zero is not a valid value for
// any aliased numeric field (radii must be positive).
func pickF(canonical, alias float64) float64 {
	if canonical != 0 {
		return canonical
	}
	return alias
}

type inlineLocationRequest struct {
	Name      string   `json:"name"`
	Nome      string   `json:"nome"`
	Scope     string   `json:"scope"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	RadiusM   float64  `json:"radius_m"`
	Raio      float64  `json:"raio"`
	SSIDs     []string `json:"ssids"`
}

type policyRuleRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type createMessageRequest struct {
	Title          string                 `json:"title"`
	Titulo         string                 `json:"titulo"`
	Content        string                 `json:"content"`
	Conteudo       string                 `json:"conteudo"`
	LocationID     string                 `json:"location_id"`
	InlineLocation *inlineLocationRequest `json:"location"`
	Policy         string                 `json:"policy_type"`
	Rules          []policyRuleRequest    `json:"policy_rules"`
	Mode           string                 `json:"delivery_mode"`
	StartTime      time.Time              `json:"start_time"`
	EndTime        time.Time              `json:"end_time"`
}

func (req *createMessageRequest) normalize(authorID string) service.CreateMessageInput {
	in := service.CreateMessageInput{
		AuthorID:   authorID,
		Title:      pick(req.Title, req.Titulo),
		Content:    pick(req.Content, req.Conteudo),
		LocationID: req.LocationID,
		Policy:     entity.PolicyType(req.Policy),
		Mode:       entity.DeliveryMode(req.Mode),
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	for _, r := range req.Rules {
		in.Rules = append(in.Rules, entity.PolicyRule{Key: r.Key, Value: r.Value})
	}
	if req.InlineLocation != nil {
		in.InlineLocation = &service.InlineLocation{
			Name:      pick(req.InlineLocation.Name, req.InlineLocation.Nome),
			Scope:     entity.LocationScope(req.InlineLocation.Scope),
			Latitude:  req.InlineLocation.Latitude,
			Longitude: req.InlineLocation.Longitude,
			RadiusM:   pickF(req.InlineLocation.RadiusM, req.InlineLocation.Raio),
			SSIDs:     req.InlineLocation.SSIDs,
		}
	}
	return in
}

type createLocationRequest struct {
	Name      string   `json:"name"`
	Nome      string   `json:"nome"`
	Scope     string   `json:"scope"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	RadiusM   float64  `json:"radius_m"`
	Raio      float64  `json:"raio"`
	SSIDs     []string `json:"ssids"`
}

type reportPositionRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	SSIDs     []string `json:"ssids"`
}

func (req *reportPositionRequest) normalize() service.Position {
	pos := service.Position{SSIDs: req.SSIDs}
	if req.Latitude != nil && req.Longitude != nil {
		pos.HasGPS = true
		pos.Latitude = *req.Latitude
		pos.Longitude = *req.Longitude
	}
	return pos
}

type receiveMessageRequest struct {
	MessageID string `json:"message_id"`
	DeviceID  string `json:"device_id"`
}

type muleConfigRequest struct {
	Capacity int  `json:"capacity"`
	Active   bool `json:"active"`
}
