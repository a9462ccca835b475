package sqlite

import (
	"context"
	"fmt"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

// HistoryRepo implements ports.HistoryRepository.
type HistoryRepo struct {
	store *Store
}

// NewHistoryRepo creates a new HistoryRepo.
func NewHistoryRepo(store *Store) *HistoryRepo {
	return &HistoryRepo{store: store}
}

// Insert stores a finished trip; repeats for the same session and generation are ignored.
func (r *HistoryRepo) Insert(ctx context.Context, rec *domain.NavigationRecord) error {
	_, err := r.store.sqlDB.ExecContext(ctx, `
		INSERT OR IGNORE INTO navigation_history
		    (id, session_id, generation, user_id, from_location_id, to_location_id, status,
		     started_at, ended_at, distance_meters, updates)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.Generation, rec.UserID, rec.FromLocationID, rec.ToLocationID, string(rec.Status),
		toMillis(rec.StartedAt), toMillis(rec.EndedAt), rec.DistanceMeters, rec.Updates,
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// ListByUser returns a user's sessions, newest first.
func (r *HistoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.NavigationRecord, error) {
	rows, err := r.store.sqlDB.QueryContext(ctx, `
		SELECT id, session_id, generation, user_id, from_location_id, to_location_id, status,
		       started_at, ended_at, distance_meters, updates
		FROM navigation_history
		WHERE user_id = ?
		ORDER BY ended_at DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var recs []domain.NavigationRecord
	for rows.Next() {
		var rec domain.NavigationRecord
		var status string
		var started, ended int64
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.Generation, &rec.UserID, &rec.FromLocationID, &rec.ToLocationID, &status,
			&started, &ended, &rec.DistanceMeters, &rec.Updates,
		); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		rec.Status = domain.SessionStatus(status)
		rec.StartedAt = fromMillis(started)
		rec.EndedAt = fromMillis(ended)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
