package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

// PreferenceRepo implements ports.PreferenceRepository.
type PreferenceRepo struct {
	store *Store
}

func NewPreferenceRepo(store *Store) *PreferenceRepo {
	return &PreferenceRepo{store: store}
}

func (r *PreferenceRepo) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	p := &domain.Preferences{}
	var updated int64
	err := r.store.sqlDB.QueryRowContext(ctx, `
		SELECT user_id, stride_length_meters, voice_speed, voice_volume, accessibility_mode, updated_at
		FROM user_preferences WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.StrideLengthMeters, &p.VoiceSpeed, &p.VoiceVolume, &p.AccessibilityMode, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	p.UpdatedAt = fromMillis(updated)
	return p, nil
}

func (r *PreferenceRepo) Upsert(ctx context.Context, p *domain.Preferences) error {
	_, err := r.store.sqlDB.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, stride_length_meters, voice_speed, voice_volume, accessibility_mode, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
		    stride_length_meters = excluded.stride_length_meters,
		    voice_speed = excluded.voice_speed,
		    voice_volume = excluded.voice_volume,
		    accessibility_mode = excluded.accessibility_mode,
		    updated_at = excluded.updated_at`,
		p.UserID, p.StrideLengthMeters, p.VoiceSpeed, p.VoiceVolume, p.AccessibilityMode, toMillis(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}
