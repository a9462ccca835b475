package postgres

import (
	"context"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

// HistoryRepo implements ports.HistoryRepository.
type HistoryRepo struct {
	db *DB
}

// NewHistoryRepo creates a new HistoryRepo.
func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Insert stores a finished trip. A second insert for the same session and
// generation is ignored, which keeps workflow retries idempotent.
func (r *HistoryRepo) Insert(ctx context.Context, rec *domain.NavigationRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO navigation_history
		    (id, session_id, generation, user_id, from_location_id, to_location_id, status,
		     started_at, ended_at, distance_meters, updates)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (session_id, generation) DO NOTHING
	`, rec.ID, rec.SessionID, rec.Generation, rec.UserID, rec.FromLocationID, rec.ToLocationID, string(rec.Status),
		rec.StartedAt, rec.EndedAt, rec.DistanceMeters, rec.Updates)
	return err
}

// ListByUser returns a user's sessions, newest first.
func (r *HistoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.NavigationRecord, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, session_id, generation, user_id, from_location_id, to_location_id, status,
		       started_at, ended_at, distance_meters, updates
		FROM navigation_history
		WHERE user_id = $1
		ORDER BY ended_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.NavigationRecord
	for rows.Next() {
		var rec domain.NavigationRecord
		var status string
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.Generation, &rec.UserID, &rec.FromLocationID, &rec.ToLocationID, &status,
			&rec.StartedAt, &rec.EndedAt, &rec.DistanceMeters, &rec.Updates,
		); err != nil {
			return nil, err
		}
		rec.Status = domain.SessionStatus(status)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
