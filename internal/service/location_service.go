package service

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"adrelay/internal/apperr"
	"adrelay/internal/cache"
	"adrelay/internal/entity"
	"adrelay/internal/geo"
	"adrelay/internal/repository"
)

// Cache key for the active location set; every writer of locations must
// delete it.
const activeLocationsKey = "location-service:active"

const (
	MethodGPS  = "GPS"
	MethodWIFI = "WIFI"

	// Observational confidence attached to matches for audit logging; never
	// used for filtering.
	confidenceGPS  = 0.9
	confidenceWIFI = 0.8
)

// Position is a recipient's reported whereabouts: GPS coordinates, visible
// Wi-Fi networks, or both.
type Position struct {
	Latitude  float64
	Longitude float64
	HasGPS    bool
	SSIDs     []string
}

// Match pairs a location the caller is inside with how the match was made.
type Match struct {
	Location   *entity.Location
	Method     string
	Confidence float64
}

type LocationService interface {
	Create(creatorID, name string, scope entity.LocationScope, lat, lon, radiusM float64, ssids []string) (*entity.Location, error)
	ListByCreator(creatorID string) ([]*entity.Location, error)
	Deactivate(id, callerID string) error

	// MatchGPS returns the active GPS locations whose radius contains the
	// point; MatchWIFI the active WIFI locations whose SSID set intersects
	// the reported one. Match unions both, deduplicated by location id.
	MatchGPS(lat, lon float64) ([]Match, error)
	MatchWIFI(ssids []string) ([]Match, error)
	Match(pos Position) ([]Match, error)
}

type locationService struct {
	locations repository.LocationRepository
	cache     cache.Cache
	cacheTTL  time.Duration
	logger    *slog.Logger
}

func NewLocationService(locations repository.LocationRepository, c cache.Cache, cacheTTL time.Duration, logger *slog.Logger) LocationService {
	return &locationService{
		locations: locations,
		cache:     c,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// buildLocation validates scope-specific fields and assembles the entity.
// Shared with inline location creation on the publish path.
func buildLocation(creatorID, name string, scope entity.LocationScope, lat, lon, radiusM float64, ssids []string) (*entity.Location, error) {
	if name == "" {
		return nil, apperr.New(apperr.KindValidation, "location name is required")
	}
	loc := &entity.Location{
		ID:        uuid.New().String(),
		Name:      name,
		Scope:     scope,
		CreatorID: creatorID,
		Active:    true,
		CreatedAt: time.Now(),
	}
	switch scope {
	case entity.ScopeGPS:
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return nil, apperr.New(apperr.KindValidation, "coordinates out of range")
		}
		if radiusM <= 0 {
			return nil, apperr.New(apperr.KindValidation, "radius must be positive")
		}
		loc.Latitude = lat
		loc.Longitude = lon
		loc.RadiusM = radiusM
	case entity.ScopeWIFI:
		if len(ssids) == 0 {
			return nil, apperr.New(apperr.KindValidation, "a WIFI location needs at least one SSID")
		}
		for _, s := range ssids {
			loc.SSIDs = append(loc.SSIDs, entity.LocationSSID{LocationID: loc.ID, SSID: s})
		}
	default:
		return nil, apperr.New(apperr.KindValidation, "unknown location scope %q", scope)
	}
	return loc, nil
}

func (s *locationService) Create(creatorID, name string, scope entity.LocationScope, lat, lon, radiusM float64, ssids []string) (*entity.Location, error) {
	loc, err := buildLocation(creatorID, name, scope, lat, lon, radiusM, ssids)
	if err != nil {
		return nil, err
	}
	if err := s.locations.Create(loc); err != nil {
		return nil, err
	}
	s.cache.Delete(activeLocationsKey)
	s.logger.Info("location registered", "id", loc.ID, "scope", loc.Scope, "creator", creatorID)
	return loc, nil
}

func (s *locationService) ListByCreator(creatorID string) ([]*entity.Location, error) {
	return s.locations.ListByCreator(creatorID)
}

func (s *locationService) Deactivate(id, callerID string) error {
	loc, err := s.locations.GetByID(id)
	if err != nil {
		return err
	}
	if loc.CreatorID != callerID {
		return apperr.New(apperr.KindUnauthorized, "location %s is not owned by %s", id, callerID)
	}
	if err := s.locations.Deactivate(id); err != nil {
		return err
	}
	s.cache.Delete(activeLocationsKey)
	return nil
}

func (s *locationService) MatchGPS(lat, lon float64) ([]Match, error) {
	active, err := s.activeLocations()
	if err != nil {
		return nil, err
	}
	return s.logMatches(matchGPS(active, lat, lon)), nil
}

func (s *locationService) MatchWIFI(ssids []string) ([]Match, error) {
	active, err := s.activeLocations()
	if err != nil {
		return nil, err
	}
	return s.logMatches(matchWIFI(active, ssids)), nil
}

func (s *locationService) Match(pos Position) ([]Match, error) {
	active, err := s.activeLocations()
	if err != nil {
		return nil, err
	}

	var candidates []Match
	if pos.HasGPS {
		candidates = append(candidates, matchGPS(active, pos.Latitude, pos.Longitude)...)
	}
	candidates = append(candidates, matchWIFI(active, pos.SSIDs)...)

	seen := make(map[string]struct{}, len(candidates))
	matches := candidates[:0]
	for _, m := range candidates {
		if _, dup := seen[m.Location.ID]; dup {
			continue
		}
		seen[m.Location.ID] = struct{}{}
		matches = append(matches, m)
	}
	return s.logMatches(matches), nil
}

func matchGPS(active []*entity.Location, lat, lon float64) []Match {
	var matches []Match
	for _, loc := range active {
		if loc.Scope != entity.ScopeGPS {
			continue
		}
		if geo.DistanceM(lat, lon, loc.Latitude, loc.Longitude) <= loc.RadiusM {
			matches = append(matches, Match{Location: loc, Method: MethodGPS, Confidence: confidenceGPS})
		}
	}
	return matches
}

func matchWIFI(active []*entity.Location, ssids []string) []Match {
	if len(ssids) == 0 {
		return nil
	}
	reported := make(map[string]struct{}, len(ssids))
	for _, s := range ssids {
		reported[s] = struct{}{}
	}
	var matches []Match
	for _, loc := range active {
		if loc.Scope != entity.ScopeWIFI {
			continue
		}
		for ssid := range loc.SSIDSet() {
			if _, ok := reported[ssid]; ok {
				matches = append(matches, Match{Location: loc, Method: MethodWIFI, Confidence: confidenceWIFI})
				break
			}
		}
	}
	return matches
}

func (s *locationService) logMatches(matches []Match) []Match {
	for _, m := range matches {
		s.logger.Info("position matched location",
			"location", m.Location.ID, "name", m.Location.Name,
			"method", m.Method, "confidence", m.Confidence)
	}
	return matches
}

func (s *locationService) activeLocations() ([]*entity.Location, error) {
	if v, ok := s.cache.Get(activeLocationsKey); ok {
		if locs, ok := v.([]*entity.Location); ok {
			return locs, nil
		}
	}
	locs, err := s.locations.ListActive()
	if err != nil {
		return nil, err
	}
	s.cache.Set(activeLocationsKey, locs, s.cacheTTL)
	return locs, nil
}
