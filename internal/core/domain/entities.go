package domain

import (
	"fmt"
	"strings"
	"time"
)

// Location categories used by the campus map.
const (
	CategoryLibrary  = "library"
	CategoryBuilding = "building"
	CategoryCanteen  = "canteen"
	CategoryGym      = "gym"
	CategoryGate     = "gate"
	CategoryOther    = "other"
)

// NamedLocation is a named point on the campus map.
type NamedLocation struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    GeoPoint  `json:"location"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Distance    *float64  `json:"distance,omitempty"` // computed field
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the fields a location must carry before it is stored.
func (l *NamedLocation) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: location name is required", ErrInvalidInput)
	}
	if len(l.Name) > 200 {
		return fmt.Errorf("%w: location name too long (max 200 characters)", ErrInvalidInput)
	}
	if err := l.Location.Validate(); err != nil {
		return err
	}
	if l.Category == "" {
		l.Category = CategoryOther
	}
	return nil
}

// Instruction is one guidance snapshot produced by an active session.
// Values are built fresh for every position update and never modified afterwards.
type Instruction struct {
	Sequence       int       `json:"sequence"`
	Text           string    `json:"text"`
	Direction      string    `json:"direction"`
	DistanceMeters float64   `json:"distance_meters"`
	StepCount      int       `json:"step_count"`
	BearingDegrees float64   `json:"bearing_degrees"`
	CreatedAt      time.Time `json:"created_at"`
}

// Plan summarises the direct leg between origin and destination at planning time.
type Plan struct {
	Origin            NamedLocation `json:"origin"`
	Destination       NamedLocation `json:"destination"`
	DistanceMeters    float64       `json:"distance_meters"`
	BearingDegrees    float64       `json:"bearing_degrees"`
	Direction         string        `json:"direction"`
	StepCount         int           `json:"step_count"`
	EstimatedDuration time.Duration `json:"estimated_duration"`
}

// Preferences holds per-user guidance settings.
type Preferences struct {
	UserID             string    `json:"user_id"`
	StrideLengthMeters float64   `json:"stride_length_meters"`
	VoiceSpeed         float64   `json:"voice_speed"`
	VoiceVolume        int       `json:"voice_volume"`
	AccessibilityMode  bool      `json:"accessibility_mode"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DefaultPreferences returns the settings used for users that never saved any.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:             userID,
		StrideLengthMeters: 0.7,
		VoiceSpeed:         0.8,
		VoiceVolume:        100,
		AccessibilityMode:  true,
	}
}

// Validate checks preference ranges.
func (p Preferences) Validate() error {
	var errs []string
	if p.UserID == "" {
		errs = append(errs, "user_id is required")
	}
	if p.StrideLengthMeters <= 0 || p.StrideLengthMeters > 3 {
		errs = append(errs, "stride_length_meters must be in (0,3]")
	}
	if p.VoiceSpeed <= 0 || p.VoiceSpeed > 4 {
		errs = append(errs, "voice_speed must be in (0,4]")
	}
	if p.VoiceVolume < 0 || p.VoiceVolume > 100 {
		errs = append(errs, "voice_volume must be 0-100")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(errs, "; "))
	}
	return nil
}

// NavigationRecord is a finished session kept in the user's history.
type NavigationRecord struct {
	ID             string        `json:"id"`
	SessionID      string        `json:"session_id"`
	Generation     int           `json:"generation"`
	UserID         string        `json:"user_id"`
	FromLocationID string        `json:"from_location_id"`
	ToLocationID   string        `json:"to_location_id"`
	Status         SessionStatus `json:"status"`
	StartedAt      time.Time     `json:"started_at"`
	EndedAt        time.Time     `json:"ended_at"`
	DistanceMeters float64       `json:"distance_meters"`
	Updates        int           `json:"updates"`
}
