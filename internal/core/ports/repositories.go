package ports

import (
	"context"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

// LocationLookup resolves a location name to its stored record.
// Implementations return domain.ErrLocationNotFound for unknown names.
type LocationLookup interface {
	Resolve(ctx context.Context, name string) (*domain.NamedLocation, error)
}

// LocationRepository persists named campus locations.
type LocationRepository interface {
	Create(ctx context.Context, loc *domain.NamedLocation) error
	Update(ctx context.Context, loc *domain.NamedLocation) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.NamedLocation, error)
	GetByName(ctx context.Context, name string) (*domain.NamedLocation, error)
	List(ctx context.Context, offset, limit int) ([]domain.NamedLocation, int, error)
	ListByCategory(ctx context.Context, category string) ([]domain.NamedLocation, error)
	// FindNearest returns locations ordered by distance from p, with Distance populated.
	FindNearest(ctx context.Context, p domain.GeoPoint, limit int) ([]domain.NamedLocation, error)
}

// PreferenceRepository persists per-user guidance preferences.
type PreferenceRepository interface {
	// Get returns nil, nil when the user has no saved row.
	Get(ctx context.Context, userID string) (*domain.Preferences, error)
	Upsert(ctx context.Context, prefs *domain.Preferences) error
}

// HistoryRepository persists finished navigation sessions.
type HistoryRepository interface {
	Insert(ctx context.Context, rec *domain.NavigationRecord) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.NavigationRecord, error)
}
