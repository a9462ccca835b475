package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/navigation"
	"github.com/samirrijal/campusnav/internal/core/ports"
	"github.com/samirrijal/campusnav/internal/pkg/geospatial"
	"github.com/samirrijal/campusnav/internal/pkg/metrics"
	"github.com/samirrijal/campusnav/internal/pkg/telemetry"
)

// eventQueueSize bounds the session events waiting for the publisher.
const eventQueueSize = 256

// AnnouncerFactory returns the announcer for a new session.
type AnnouncerFactory func(sessionID string) ports.Announcer

// StrideSource supplies a user's stride length.
type StrideSource interface {
	StrideFor(ctx context.Context, userID string) (float64, error)
}

// SessionView is what callers see of a managed session.
type SessionView struct {
	ID       string          `json:"id"`
	UserID   string          `json:"user_id,omitempty"`
	Plan     *domain.Plan    `json:"plan,omitempty"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

type sessionEntry struct {
	id      string
	userID  string
	session *navigation.Session
}

// NavigationService owns many concurrent navigation sessions keyed by ID.
type NavigationService struct {
	lookup     ports.LocationLookup
	strides    StrideSource
	publisher  ports.EventPublisher
	announcers AnnouncerFactory
	tracer     trace.Tracer
	outbox     chan *domain.SessionEvent

	defaultsMu sync.RWMutex
	defaults   navigation.Options

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

// NewNavigationService creates a new NavigationService. strides, publisher
// and announcers may be nil. With a publisher, events are queued and only
// leave the process while Run is running.
func NewNavigationService(
	lookup ports.LocationLookup,
	strides StrideSource,
	publisher ports.EventPublisher,
	announcers AnnouncerFactory,
	defaults navigation.Options,
) (*NavigationService, error) {
	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	var outbox chan *domain.SessionEvent
	if publisher != nil {
		outbox = make(chan *domain.SessionEvent, eventQueueSize)
	}
	return &NavigationService{
		outbox:     outbox,
		lookup:     lookup,
		strides:    strides,
		publisher:  publisher,
		announcers: announcers,
		tracer:     otel.Tracer(telemetry.TracerName),
		defaults:   defaults,
		sessions:   make(map[string]*sessionEntry),
	}, nil
}

// Run publishes queued session events in order until ctx is done, then
// flushes whatever is still queued.
func (s *NavigationService) Run(ctx context.Context) {
	if s.outbox == nil {
		<-ctx.Done()
		return
	}
	for {
		select {
		case ev := <-s.outbox:
			s.publish(ctx, ev)
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for {
				select {
				case ev := <-s.outbox:
					s.publish(flushCtx, ev)
				default:
					return
				}
			}
		}
	}
}

func (s *NavigationService) publish(ctx context.Context, ev *domain.SessionEvent) {
	if err := s.publisher.PublishSessionEvent(ctx, ev); err != nil {
		slog.Warn("publish session event", "session_id", ev.SessionID, "type", ev.Type, "error", err)
	}
}

// SetDefaults replaces the options used for sessions planned from now on.
func (s *NavigationService) SetDefaults(opts navigation.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	s.defaultsMu.Lock()
	s.defaults = opts
	s.defaultsMu.Unlock()
	return nil
}

// Defaults returns the options applied to new sessions.
func (s *NavigationService) Defaults() navigation.Options {
	s.defaultsMu.RLock()
	defer s.defaultsMu.RUnlock()
	return s.defaults
}

// Plan creates a session for userID and plans the leg between two names.
func (s *NavigationService) Plan(ctx context.Context, userID, from, to string) (SessionView, error) {
	ctx, span := s.tracer.Start(ctx, "navigation.Plan", trace.WithAttributes(
		telemetry.AttrUserID.String(userID),
		telemetry.AttrOrigin.String(from),
		telemetry.AttrDestination.String(to),
	))
	defer span.End()

	opts := s.Defaults()
	if userID != "" && s.strides != nil {
		stride, err := s.strides.StrideFor(ctx, userID)
		if err != nil {
			slog.WarnContext(ctx, "stride lookup failed, using default", "user_id", userID, "error", err)
		} else {
			opts.StrideLengthMeters = stride
		}
	}

	id := uuid.NewString()
	span.SetAttributes(telemetry.AttrSessionID.String(id))
	opts.Observer = &sessionObserver{svc: s, id: id, userID: userID}

	var announcer ports.Announcer
	if s.announcers != nil {
		announcer = s.announcers(id)
	}

	sess, err := navigation.NewSession(s.lookup, announcer, opts)
	if err != nil {
		return SessionView{}, recordErr(span, err)
	}
	if _, err := sess.PlanPath(ctx, from, to); err != nil {
		return SessionView{}, recordErr(span, err)
	}

	entry := &sessionEntry{id: id, userID: userID, session: sess}
	s.mu.Lock()
	s.sessions[id] = entry
	s.mu.Unlock()

	return entry.view(), nil
}

// Replan points an existing session at a new leg. The session returns to Planned.
func (s *NavigationService) Replan(ctx context.Context, id, from, to string) (SessionView, error) {
	ctx, span := s.tracer.Start(ctx, "navigation.Replan", trace.WithAttributes(
		telemetry.AttrSessionID.String(id),
		telemetry.AttrOrigin.String(from),
		telemetry.AttrDestination.String(to),
	))
	defer span.End()

	entry, err := s.entry(id)
	if err != nil {
		return SessionView{}, recordErr(span, err)
	}
	if _, err := entry.session.PlanPath(ctx, from, to); err != nil {
		return SessionView{}, recordErr(span, err)
	}
	return entry.view(), nil
}

// Get returns a session's current view.
func (s *NavigationService) Get(ctx context.Context, id string) (SessionView, error) {
	entry, err := s.entry(id)
	if err != nil {
		return SessionView{}, err
	}
	return entry.view(), nil
}

// Start begins guidance for a planned session.
func (s *NavigationService) Start(ctx context.Context, id string) (SessionView, error) {
	ctx, span := s.tracer.Start(ctx, "navigation.Start", trace.WithAttributes(
		telemetry.AttrSessionID.String(id),
	))
	defer span.End()

	entry, err := s.entry(id)
	if err != nil {
		return SessionView{}, recordErr(span, err)
	}
	if err := entry.session.Start(ctx); err != nil {
		return SessionView{}, recordErr(span, err)
	}
	return entry.view(), nil
}

// UpdatePosition feeds one position fix to a session.
func (s *NavigationService) UpdatePosition(ctx context.Context, id string, p domain.GeoPoint) (navigation.Progress, error) {
	ctx, span := s.tracer.Start(ctx, "navigation.UpdatePosition", trace.WithAttributes(
		telemetry.AttrSessionID.String(id),
	))
	defer span.End()

	entry, err := s.entry(id)
	if err != nil {
		return navigation.Progress{}, recordErr(span, err)
	}
	progress, err := entry.session.UpdateProgress(ctx, p)
	if err != nil {
		metrics.PositionUpdates.WithLabelValues("invalid").Inc()
		return navigation.Progress{}, recordErr(span, err)
	}

	metrics.PositionUpdates.WithLabelValues(string(progress.Outcome)).Inc()
	if progress.Outcome != navigation.OutcomeIgnored {
		metrics.RemainingDistance.Observe(progress.RemainingMeters)
	}
	span.SetAttributes(
		telemetry.AttrOutcome.String(string(progress.Outcome)),
		telemetry.AttrStatus.String(string(progress.Status)),
		telemetry.AttrRemaining.Float64(progress.RemainingMeters),
	)
	return progress, nil
}

// HandlePosition adapts UpdatePosition to ports.PositionHandler.
func (s *NavigationService) HandlePosition(ctx context.Context, sessionID string, p domain.GeoPoint) error {
	_, err := s.UpdatePosition(ctx, sessionID, p)
	return err
}

// Stop cancels a session. The bool reports whether anything changed.
func (s *NavigationService) Stop(ctx context.Context, id string) (SessionView, bool, error) {
	ctx, span := s.tracer.Start(ctx, "navigation.Stop", trace.WithAttributes(
		telemetry.AttrSessionID.String(id),
	))
	defer span.End()

	entry, err := s.entry(id)
	if err != nil {
		return SessionView{}, false, recordErr(span, err)
	}
	stopped, err := entry.session.Stop(ctx)
	if err != nil {
		return SessionView{}, false, recordErr(span, err)
	}
	return entry.view(), stopped, nil
}

// Discard cancels a session if needed and forgets it.
func (s *NavigationService) Discard(ctx context.Context, id string) error {
	entry, err := s.entry(id)
	if err != nil {
		return err
	}
	if _, err := entry.session.Stop(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Sweep forgets finished sessions last updated before cutoff and returns
// how many were removed.
func (s *NavigationService) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.sessions {
		snap := entry.session.Snapshot()
		if snap.Status.Terminal() && snap.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of sessions held in memory.
func (s *NavigationService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *NavigationService) entry(id string) (*sessionEntry, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return entry, nil
}

func (e *sessionEntry) view() SessionView {
	v := SessionView{ID: e.id, UserID: e.userID, Snapshot: e.session.Snapshot()}
	if plan, ok := e.session.Plan(); ok {
		v.Plan = &plan
	}
	return v
}

func recordErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// sessionObserver turns session transitions into metrics and queued bus
// events. It runs under the session lock, so prev needs no further
// synchronization, and it never waits on the publisher.
type sessionObserver struct {
	svc    *NavigationService
	id     string
	userID string
	prev   domain.SessionStatus
}

func (o *sessionObserver) OnTransition(snap domain.Snapshot) {
	prev := o.prev
	o.prev = snap.Status

	var evType domain.SessionEventType
	switch snap.Status {
	case domain.StatusPlanned:
		evType = domain.EventPlanned
		metrics.SessionsPlanned.Inc()
	case domain.StatusActive:
		if prev == domain.StatusActive {
			evType = domain.EventInstruction
		} else {
			evType = domain.EventStarted
			metrics.ActiveSessions.Inc()
		}
	case domain.StatusArrived:
		evType = domain.EventArrived
		metrics.Arrivals.Inc()
	case domain.StatusCancelled:
		evType = domain.EventCancelled
		metrics.Cancellations.Inc()
	default:
		return
	}
	if prev == domain.StatusActive && snap.Status != domain.StatusActive {
		metrics.ActiveSessions.Dec()
	}

	if o.svc.outbox == nil {
		return
	}
	ev := &domain.SessionEvent{
		SessionID:   o.id,
		Generation:  snap.Generation,
		UserID:      o.userID,
		Type:        evType,
		Status:      snap.Status,
		Instruction: snap.LastInstruction,
		Origin:      snap.Origin,
		Destination: snap.Destination,
		Updates:     snap.Updates,
		StartedAt:   snap.StartedAt,
		At:          snap.UpdatedAt,
	}
	if snap.Origin != nil && snap.Destination != nil {
		ev.Distance = geospatial.Distance(snap.Origin.Location, snap.Destination.Location)
	}
	select {
	case o.svc.outbox <- ev:
	default:
		metrics.EventsDropped.Inc()
		slog.Warn("session event queue full, dropping event", "session_id", o.id, "type", evType)
	}
}

func (o *sessionObserver) OnAnnouncement(kind navigation.AnnouncementKind, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		slog.Warn("announcement failed", "session_id", o.id, "kind", kind, "error", err)
	}
	metrics.Announcements.WithLabelValues(string(kind), result).Inc()
}
