package navigation

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/ports"
	"github.com/samirrijal/campusnav/internal/pkg/geospatial"
)

// DefaultArrivalThresholdMeters is the distance at which the user counts as arrived.
const DefaultArrivalThresholdMeters = 5.0

// DefaultStrideLengthMeters is used when a user has no saved stride.
const DefaultStrideLengthMeters = 0.7

// Outcome classifies the result of a position update.
type Outcome string

const (
	OutcomeIgnored  Outcome = "ignored"
	OutcomeContinue Outcome = "continue"
	OutcomeArrived  Outcome = "arrived"
)

// Progress is the result of UpdateProgress.
type Progress struct {
	Outcome         Outcome              `json:"outcome"`
	Status          domain.SessionStatus `json:"status"`
	Instruction     *domain.Instruction  `json:"instruction,omitempty"`
	RemainingMeters float64              `json:"remaining_meters"`
	Announced       bool                 `json:"announced"`
}

// AnnouncementKind names the announcer call that was made.
type AnnouncementKind string

const (
	AnnounceStart       AnnouncementKind = "start"
	AnnounceInstruction AnnouncementKind = "instruction"
	AnnounceArrival     AnnouncementKind = "arrival"
	AnnounceCancelled   AnnouncementKind = "cancelled"
)

// Observer is notified synchronously, while the session lock is held.
// Implementations must not call back into the session's write methods.
type Observer interface {
	OnTransition(snap domain.Snapshot)
	OnAnnouncement(kind AnnouncementKind, err error)
}

// Options configures a Session.
type Options struct {
	StrideLengthMeters     float64
	ArrivalThresholdMeters float64
	WalkingSpeedMps        float64
	Policy                 AnnouncePolicy
	Observer               Observer
	Now                    func() time.Time
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		StrideLengthMeters:     DefaultStrideLengthMeters,
		ArrivalThresholdMeters: DefaultArrivalThresholdMeters,
		WalkingSpeedMps:        geospatial.DefaultWalkingSpeed,
		Policy:                 DefaultAnnouncePolicy(),
	}
}

// Validate checks the numeric settings.
func (o Options) Validate() error {
	if math.IsNaN(o.StrideLengthMeters) || o.StrideLengthMeters <= 0 {
		return fmt.Errorf("%w: stride length must be positive, got %v", domain.ErrInvalidConfig, o.StrideLengthMeters)
	}
	if math.IsNaN(o.ArrivalThresholdMeters) || o.ArrivalThresholdMeters < 0 {
		return fmt.Errorf("%w: arrival threshold must be non-negative, got %v", domain.ErrInvalidConfig, o.ArrivalThresholdMeters)
	}
	if o.WalkingSpeedMps < 0 {
		return fmt.Errorf("%w: walking speed must be non-negative, got %v", domain.ErrInvalidConfig, o.WalkingSpeedMps)
	}
	if !o.Policy.validate() {
		return fmt.Errorf("%w: announce thresholds must be non-negative", domain.ErrInvalidConfig)
	}
	return nil
}

// Session tracks one user's progress from an origin to a destination.
//
// Write methods are serialized; Snapshot and the other accessors read an
// immutable copy and never block on a writer.
type Session struct {
	lookup    ports.LocationLookup
	announcer ports.Announcer
	observer  Observer
	opts      Options

	mu            sync.Mutex
	status        domain.SessionStatus
	plan          *domain.Plan
	last          *domain.Instruction
	lastAnnounced *domain.Instruction
	seq           int
	generation    int
	updates       int
	startedAt     *time.Time

	snap atomic.Pointer[domain.Snapshot]
}

// NewSession creates an Idle session. A nil announcer discards all guidance.
func NewSession(lookup ports.LocationLookup, announcer ports.Announcer, opts Options) (*Session, error) {
	if lookup == nil {
		return nil, fmt.Errorf("%w: location lookup is required", domain.ErrInvalidConfig)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if announcer == nil {
		announcer = NopAnnouncer{}
	}
	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Session{
		lookup:    lookup,
		announcer: announcer,
		observer:  observer,
		opts:      opts,
		status:    domain.StatusIdle,
	}
	s.snap.Store(&domain.Snapshot{Status: domain.StatusIdle, UpdatedAt: opts.Now()})
	return s, nil
}

// PlanPath resolves both names and moves the session to Planned.
// It is valid from any state; on error the session is left untouched.
func (s *Session) PlanPath(ctx context.Context, fromName, toName string) (domain.Plan, error) {
	from, err := s.lookup.Resolve(ctx, fromName)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("resolve origin %q: %w", fromName, err)
	}
	to, err := s.lookup.Resolve(ctx, toName)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("resolve destination %q: %w", toName, err)
	}
	plan, err := NewPlan(*from, *to, s.opts.StrideLengthMeters, s.opts.WalkingSpeedMps)
	if err != nil {
		return domain.Plan{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.plan = &plan
	s.generation++
	s.status = domain.StatusPlanned
	s.last = nil
	s.lastAnnounced = nil
	s.seq = 0
	s.updates = 0
	s.startedAt = nil
	s.publishLocked()

	return plan, nil
}

// Start begins guidance. Only a Planned session can start.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.StatusPlanned {
		return fmt.Errorf("%w: cannot start from %s", domain.ErrIllegalTransition, s.status)
	}
	now := s.opts.Now()
	s.status = domain.StatusActive
	s.startedAt = &now
	s.publishLocked()

	err := s.announcer.AnnounceStart(ctx, s.plan.Origin.Name, s.plan.Destination.Name)
	s.observer.OnAnnouncement(AnnounceStart, err)
	return nil
}

// UpdateProgress consumes one position fix. Outside Active it is a no-op
// reporting OutcomeIgnored.
func (s *Session) UpdateProgress(ctx context.Context, position domain.GeoPoint) (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.StatusActive {
		return Progress{Outcome: OutcomeIgnored, Status: s.status}, nil
	}
	if err := position.Validate(); err != nil {
		return Progress{}, err
	}

	dest := s.plan.Destination
	remaining := geospatial.Distance(position, dest.Location)

	if remaining <= s.opts.ArrivalThresholdMeters {
		s.updates++
		s.status = domain.StatusArrived
		s.publishLocked()

		err := s.announcer.AnnounceArrival(ctx, dest.Name)
		s.observer.OnAnnouncement(AnnounceArrival, err)
		return Progress{
			Outcome:         OutcomeArrived,
			Status:          s.status,
			RemainingMeters: remaining,
			Announced:       true,
		}, nil
	}

	bearing := geospatial.Bearing(position, dest.Location)
	inst, err := Compose(s.seq+1, remaining, bearing, s.opts.StrideLengthMeters)
	if err != nil {
		return Progress{}, err
	}
	inst.CreatedAt = s.opts.Now()
	s.updates++
	s.seq = inst.Sequence
	last := inst
	s.last = &last
	s.publishLocked()

	out := inst
	p := Progress{
		Outcome:         OutcomeContinue,
		Status:          s.status,
		Instruction:     &out,
		RemainingMeters: remaining,
	}
	if s.opts.Policy.ShouldAnnounce(s.lastAnnounced, inst) {
		err := s.announcer.Announce(ctx, inst.Text)
		s.observer.OnAnnouncement(AnnounceInstruction, err)
		announced := inst
		s.lastAnnounced = &announced
		p.Announced = true
	}
	return p, nil
}

// Stop cancels a Planned or Active session. It reports false and does
// nothing for sessions in any other state.
func (s *Session) Stop(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.StatusPlanned && s.status != domain.StatusActive {
		return false, nil
	}
	s.status = domain.StatusCancelled
	s.publishLocked()

	err := s.announcer.AnnounceCancelled(ctx)
	s.observer.OnAnnouncement(AnnounceCancelled, err)
	return true, nil
}

// Snapshot returns a copy of the latest published view of the session.
func (s *Session) Snapshot() domain.Snapshot {
	return s.snap.Load().Clone()
}

// Status returns the current lifecycle state.
func (s *Session) Status() domain.SessionStatus {
	return s.snap.Load().Status
}

// LastInstruction returns a copy of the most recent instruction, or nil.
func (s *Session) LastInstruction() *domain.Instruction {
	last := s.snap.Load().LastInstruction
	if last == nil {
		return nil
	}
	cp := *last
	return &cp
}

// Plan returns the current plan, if one was made.
func (s *Session) Plan() (domain.Plan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plan == nil {
		return domain.Plan{}, false
	}
	return *s.plan, true
}

// RemainingDistance returns the distance from p to the planned destination.
func (s *Session) RemainingDistance(p domain.GeoPoint) (float64, error) {
	dest, err := s.destination(p)
	if err != nil {
		return 0, err
	}
	return geospatial.Distance(p, dest.Location), nil
}

// BearingToDestination returns the bearing from p to the planned destination.
func (s *Session) BearingToDestination(p domain.GeoPoint) (float64, error) {
	dest, err := s.destination(p)
	if err != nil {
		return 0, err
	}
	return geospatial.Bearing(p, dest.Location), nil
}

func (s *Session) destination(p domain.GeoPoint) (*domain.NamedLocation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	dest := s.snap.Load().Destination
	if dest == nil {
		return nil, fmt.Errorf("%w: no destination planned", domain.ErrIllegalTransition)
	}
	return dest, nil
}

// publishLocked stores a fresh snapshot and notifies the observer. Caller holds mu.
func (s *Session) publishLocked() {
	snap := &domain.Snapshot{
		Status:          s.status,
		Generation:      s.generation,
		LastInstruction: s.last,
		Updates:         s.updates,
		StartedAt:       s.startedAt,
		UpdatedAt:       s.opts.Now(),
	}
	if s.plan != nil {
		origin := s.plan.Origin
		dest := s.plan.Destination
		snap.Origin = &origin
		snap.Destination = &dest
	}
	s.snap.Store(snap)
	s.observer.OnTransition(snap.Clone())
}

// NopAnnouncer discards every announcement.
type NopAnnouncer struct{}

func (NopAnnouncer) Announce(context.Context, string) error              { return nil }
func (NopAnnouncer) AnnounceStart(context.Context, string, string) error { return nil }
func (NopAnnouncer) AnnounceArrival(context.Context, string) error       { return nil }
func (NopAnnouncer) AnnounceCancelled(context.Context) error             { return nil }

type nopObserver struct{}

func (nopObserver) OnTransition(domain.Snapshot)           {}
func (nopObserver) OnAnnouncement(AnnouncementKind, error) {}
