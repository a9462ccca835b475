package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/ports"
)

// PreferenceService manages per-user guidance settings.
type PreferenceService struct {
	prefs ports.PreferenceRepository
}

// NewPreferenceService creates a new PreferenceService.
func NewPreferenceService(prefs ports.PreferenceRepository) *PreferenceService {
	return &PreferenceService{prefs: prefs}
}

// Get returns the user's saved preferences, or the defaults.
func (s *PreferenceService) Get(ctx context.Context, userID string) (domain.Preferences, error) {
	if userID == "" {
		return domain.Preferences{}, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	p, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	if p == nil {
		return domain.DefaultPreferences(userID), nil
	}
	return *p, nil
}

// Update validates and stores a user's preferences.
func (s *PreferenceService) Update(ctx context.Context, p domain.Preferences) (domain.Preferences, error) {
	if err := p.Validate(); err != nil {
		return domain.Preferences{}, err
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.prefs.Upsert(ctx, &p); err != nil {
		return domain.Preferences{}, fmt.Errorf("save preferences: %w", err)
	}
	return p, nil
}

// StrideFor returns the stride length to use for a user's sessions.
func (s *PreferenceService) StrideFor(ctx context.Context, userID string) (float64, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return p.StrideLengthMeters, nil
}
