package entity

import "time"

type LocationScope string

const (
	ScopeGPS  LocationScope = "GPS"
	ScopeWIFI LocationScope = "WIFI"
)

// Location is a named place a message can be bound to: either a GPS circle
// (center + radius in meters) or a set of Wi-Fi network names. The scope
// kind is fixed once the location is created.
type Location struct {
	ID        string        `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"not null;index" json:"name"`
	Scope     LocationScope `gorm:"not null" json:"scope"`
	Latitude  float64       `json:"latitude"`
	Longitude float64       `json:"longitude"`
	RadiusM   float64       `json:"radius_m"`
	CreatorID string        `gorm:"not null;index" json:"creator_id"`
	Active    bool          `gorm:"not null;default:true;index" json:"active"`
	CreatedAt time.Time     `gorm:"not null" json:"created_at"`

	SSIDs []LocationSSID `gorm:"foreignKey:LocationID;references:ID" json:"ssids,omitempty"`
}

type LocationSSID struct {
	LocationID string `gorm:"primaryKey" json:"-"`
	SSID       string `gorm:"primaryKey" json:"ssid"`
}

// SSIDSet flattens the association rows into a lookup set.
func (l *Location) SSIDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(l.SSIDs))
	for _, s := range l.SSIDs {
		set[s.SSID] = struct{}{}
	}
	return set
}
