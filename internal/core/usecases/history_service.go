package usecases

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/ports"
)

// HistoryService records and lists finished navigation sessions.
type HistoryService struct {
	history ports.HistoryRepository
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(history ports.HistoryRepository) *HistoryService {
	return &HistoryService{history: history}
}

// Record stores a finished session. Only terminal sessions are recorded.
func (s *HistoryService) Record(ctx context.Context, rec *domain.NavigationRecord) error {
	if rec.SessionID == "" {
		return fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}
	if !rec.Status.Terminal() {
		return fmt.Errorf("%w: session %s is still %s", domain.ErrInvalidInput, rec.SessionID, rec.Status)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Generation <= 0 {
		rec.Generation = 1
	}
	if err := s.history.Insert(ctx, rec); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// ListByUser returns a user's most recent sessions, newest first.
func (s *HistoryService) ListByUser(ctx context.Context, userID string, limit int) ([]domain.NavigationRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.history.ListByUser(ctx, userID, limit)
}

// RecordFromEvent converts a finished session event into a history record.
func RecordFromEvent(ev *domain.SessionEvent) domain.NavigationRecord {
	rec := domain.NavigationRecord{
		SessionID:      ev.SessionID,
		Generation:     ev.Generation,
		UserID:         ev.UserID,
		Status:         ev.Status,
		EndedAt:        ev.At,
		DistanceMeters: ev.Distance,
		Updates:        ev.Updates,
	}
	if ev.Origin != nil {
		rec.FromLocationID = ev.Origin.ID
	}
	if ev.Destination != nil {
		rec.ToLocationID = ev.Destination.ID
	}
	if ev.StartedAt != nil {
		rec.StartedAt = *ev.StartedAt
	} else {
		rec.StartedAt = ev.At
	}
	return rec
}
