package domain

import "time"

// SessionStatus is the lifecycle state of a navigation session.
type SessionStatus string

const (
	StatusIdle      SessionStatus = "idle"
	StatusPlanned   SessionStatus = "planned"
	StatusActive    SessionStatus = "active"
	StatusArrived   SessionStatus = "arrived"
	StatusCancelled SessionStatus = "cancelled"
)

// Terminal reports whether the status ends a session.
func (s SessionStatus) Terminal() bool {
	return s == StatusArrived || s == StatusCancelled
}

// Snapshot is an immutable view of a session, safe to share across goroutines.
// Generation counts plans made on the session; each re-plan starts a new trip.
type Snapshot struct {
	Status          SessionStatus  `json:"status"`
	Generation      int            `json:"generation"`
	Origin          *NamedLocation `json:"origin,omitempty"`
	Destination     *NamedLocation `json:"destination,omitempty"`
	LastInstruction *Instruction   `json:"last_instruction,omitempty"`
	Updates         int            `json:"updates"`
	StartedAt       *time.Time     `json:"started_at,omitempty"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Clone returns a copy that shares no pointers with s.
func (s Snapshot) Clone() Snapshot {
	if s.Origin != nil {
		o := *s.Origin
		s.Origin = &o
	}
	if s.Destination != nil {
		d := *s.Destination
		s.Destination = &d
	}
	if s.LastInstruction != nil {
		i := *s.LastInstruction
		s.LastInstruction = &i
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		s.StartedAt = &t
	}
	return s
}

// SessionEventType names what happened to a session.
type SessionEventType string

const (
	EventPlanned     SessionEventType = "planned"
	EventStarted     SessionEventType = "started"
	EventInstruction SessionEventType = "instruction"
	EventArrived     SessionEventType = "arrived"
	EventCancelled   SessionEventType = "cancelled"
)

// SessionEvent is published on the message bus whenever a session changes.
type SessionEvent struct {
	SessionID   string           `json:"session_id"`
	Generation  int              `json:"generation"`
	UserID      string           `json:"user_id,omitempty"`
	Type        SessionEventType `json:"type"`
	Status      SessionStatus    `json:"status"`
	Instruction *Instruction     `json:"instruction,omitempty"`
	Origin      *NamedLocation   `json:"origin,omitempty"`
	Destination *NamedLocation   `json:"destination,omitempty"`
	Distance    float64          `json:"distance_meters,omitempty"`
	Updates     int              `json:"updates"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	At          time.Time        `json:"at"`
}
