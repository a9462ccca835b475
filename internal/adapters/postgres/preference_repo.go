package postgres

import (
	"context"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

// PreferenceRepo implements ports.PreferenceRepository.
type PreferenceRepo struct {
	db *DB
}

func NewPreferenceRepo(db *DB) *PreferenceRepo {
	return &PreferenceRepo{db: db}
}

func (r *PreferenceRepo) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	p := &domain.Preferences{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT user_id, stride_length_meters, voice_speed, voice_volume, accessibility_mode, updated_at
		FROM user_preferences WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.StrideLengthMeters, &p.VoiceSpeed, &p.VoiceVolume, &p.AccessibilityMode, &p.UpdatedAt)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PreferenceRepo) Upsert(ctx context.Context, p *domain.Preferences) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO user_preferences (user_id, stride_length_meters, voice_speed, voice_volume, accessibility_mode, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET stride_length_meters = EXCLUDED.stride_length_meters,
		    voice_speed = EXCLUDED.voice_speed,
		    voice_volume = EXCLUDED.voice_volume,
		    accessibility_mode = EXCLUDED.accessibility_mode,
		    updated_at = EXCLUDED.updated_at
	`, p.UserID, p.StrideLengthMeters, p.VoiceSpeed, p.VoiceVolume, p.AccessibilityMode, p.UpdatedAt)
	return err
}
