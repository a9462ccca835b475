package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/usecases"
)

func TestPreferenceService_GetDefaults(t *testing.T) {
	svc := usecases.NewPreferenceService(&mockPrefRepo{})

	p, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.StrideLengthMeters != 0.7 || p.VoiceVolume != 100 || !p.AccessibilityMode {
		t.Errorf("expected defaults, got %+v", p)
	}
}

func TestPreferenceService_GetStored(t *testing.T) {
	repo := &mockPrefRepo{
		getFn: func(ctx context.Context, userID string) (*domain.Preferences, error) {
			return &domain.Preferences{UserID: userID, StrideLengthMeters: 0.62, VoiceSpeed: 1, VoiceVolume: 40}, nil
		},
	}
	svc := usecases.NewPreferenceService(repo)

	stride, err := svc.StrideFor(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stride != 0.62 {
		t.Errorf("expected 0.62, got %v", stride)
	}
}

func TestPreferenceService_Update_Validates(t *testing.T) {
	saved := false
	repo := &mockPrefRepo{
		upsertFn: func(ctx context.Context, p *domain.Preferences) error {
			saved = true
			return nil
		},
	}
	svc := usecases.NewPreferenceService(repo)

	bad := domain.DefaultPreferences("u1")
	bad.StrideLengthMeters = 0
	if _, err := svc.Update(context.Background(), bad); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if saved {
		t.Error("invalid preferences must not be saved")
	}

	good := domain.DefaultPreferences("u1")
	good.VoiceVolume = 60
	out, err := svc.Update(context.Background(), good)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !saved || out.UpdatedAt.IsZero() {
		t.Errorf("expected saved preferences with timestamp, got %+v", out)
	}
}

func TestPreferenceService_RequiresUser(t *testing.T) {
	svc := usecases.NewPreferenceService(&mockPrefRepo{})
	if _, err := svc.Get(context.Background(), ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
