package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/navigation"
	"github.com/samirrijal/campusnav/internal/core/ports"
	"github.com/samirrijal/campusnav/internal/pkg/metrics"
)

const locationCacheTTL = 300

// LocationService handles campus map business logic. It also serves as the
// navigation engine's LocationLookup.
type LocationService struct {
	locations ports.LocationRepository
	cache     ports.CacheService
}

// NewLocationService creates a new LocationService. cache may be nil.
func NewLocationService(locations ports.LocationRepository, cache ports.CacheService) *LocationService {
	return &LocationService{locations: locations, cache: cache}
}

// Create validates and stores a new location. Names are unique.
func (s *LocationService) Create(ctx context.Context, loc *domain.NamedLocation) error {
	loc.Name = strings.TrimSpace(loc.Name)
	if err := loc.Validate(); err != nil {
		return err
	}
	if err := s.ensureNameFree(ctx, loc.Name, ""); err != nil {
		return err
	}
	if err := s.locations.Create(ctx, loc); err != nil {
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

// Update replaces a stored location's fields.
func (s *LocationService) Update(ctx context.Context, loc *domain.NamedLocation) error {
	loc.Name = strings.TrimSpace(loc.Name)
	if err := loc.Validate(); err != nil {
		return err
	}
	existing, err := s.locations.GetByID(ctx, loc.ID)
	if err != nil {
		return err
	}
	if err := s.ensureNameFree(ctx, loc.Name, loc.ID); err != nil {
		return err
	}
	if err := s.locations.Update(ctx, loc); err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	s.invalidate(ctx, existing)
	s.invalidate(ctx, loc)
	return nil
}

// Delete removes a location.
func (s *LocationService) Delete(ctx context.Context, id string) error {
	existing, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.locations.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	s.invalidate(ctx, existing)
	return nil
}

// GetByID returns a single location.
func (s *LocationService) GetByID(ctx context.Context, id string) (*domain.NamedLocation, error) {
	return s.cached(ctx, "locations:id:"+id, "get_by_id", func() (*domain.NamedLocation, error) {
		return s.locations.GetByID(ctx, id)
	})
}

// Resolve looks a location up by its exact name.
func (s *LocationService) Resolve(ctx context.Context, name string) (*domain.NamedLocation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty location name", domain.ErrLocationNotFound)
	}
	return s.cached(ctx, "locations:name:"+name, "resolve", func() (*domain.NamedLocation, error) {
		return s.locations.GetByName(ctx, name)
	})
}

// List returns a page of locations ordered by name and the total count.
func (s *LocationService) List(ctx context.Context, offset, limit int) ([]domain.NamedLocation, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.locations.List(ctx, offset, limit)
}

// ListByCategory returns every location in a category.
func (s *LocationService) ListByCategory(ctx context.Context, category string) ([]domain.NamedLocation, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category must not be empty", domain.ErrInvalidInput)
	}
	return s.locations.ListByCategory(ctx, category)
}

// Nearest returns the locations closest to p.
func (s *LocationService) Nearest(ctx context.Context, p domain.GeoPoint, limit int) ([]domain.NamedLocation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}
	return s.locations.FindNearest(ctx, p, limit)
}

// DistanceBetween measures the direct leg between two named locations.
func (s *LocationService) DistanceBetween(ctx context.Context, fromName, toName string, strideLengthMeters, walkingSpeedMps float64) (domain.Plan, error) {
	from, err := s.Resolve(ctx, fromName)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("resolve origin %q: %w", fromName, err)
	}
	to, err := s.Resolve(ctx, toName)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("resolve destination %q: %w", toName, err)
	}
	return navigation.NewPlan(*from, *to, strideLengthMeters, walkingSpeedMps)
}

func (s *LocationService) ensureNameFree(ctx context.Context, name, selfID string) error {
	other, err := s.locations.GetByName(ctx, name)
	switch {
	case errors.Is(err, domain.ErrLocationNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check name: %w", err)
	case other.ID != selfID:
		return fmt.Errorf("%w: %q", domain.ErrDuplicateName, name)
	}
	return nil
}

func (s *LocationService) cached(ctx context.Context, key, op string, load func() (*domain.NamedLocation, error)) (*domain.NamedLocation, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var loc domain.NamedLocation
			if err := json.Unmarshal(data, &loc); err == nil {
				metrics.CacheHits.WithLabelValues(op).Inc()
				return &loc, nil
			}
		}
		metrics.CacheMisses.WithLabelValues(op).Inc()
	}

	loc, err := load()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(loc); err == nil {
			_ = s.cache.Set(ctx, key, data, locationCacheTTL)
		}
	}
	return loc, nil
}

func (s *LocationService) invalidate(ctx context.Context, loc *domain.NamedLocation) {
	if s.cache == nil || loc == nil {
		return
	}
	_ = s.cache.Delete(ctx, "locations:id:"+loc.ID)
	_ = s.cache.Delete(ctx, "locations:name:"+loc.Name)
}
