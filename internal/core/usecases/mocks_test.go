package usecases_test

import (
	"context"
	"strings"
	"sync"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

// --- Mock LocationRepository ---

type mockLocationRepo struct {
	createFn         func(ctx context.Context, loc *domain.NamedLocation) error
	updateFn         func(ctx context.Context, loc *domain.NamedLocation) error
	deleteFn         func(ctx context.Context, id string) error
	getByIDFn        func(ctx context.Context, id string) (*domain.NamedLocation, error)
	getByNameFn      func(ctx context.Context, name string) (*domain.NamedLocation, error)
	listFn           func(ctx context.Context, offset, limit int) ([]domain.NamedLocation, int, error)
	listByCategoryFn func(ctx context.Context, category string) ([]domain.NamedLocation, error)
	findNearestFn    func(ctx context.Context, p domain.GeoPoint, limit int) ([]domain.NamedLocation, error)
}

func (m *mockLocationRepo) Create(ctx context.Context, loc *domain.NamedLocation) error {
	if m.createFn != nil {
		return m.createFn(ctx, loc)
	}
	return nil
}

func (m *mockLocationRepo) Update(ctx context.Context, loc *domain.NamedLocation) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, loc)
	}
	return nil
}

func (m *mockLocationRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockLocationRepo) GetByID(ctx context.Context, id string) (*domain.NamedLocation, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrLocationNotFound
}

func (m *mockLocationRepo) GetByName(ctx context.Context, name string) (*domain.NamedLocation, error) {
	if m.getByNameFn != nil {
		return m.getByNameFn(ctx, name)
	}
	return nil, domain.ErrLocationNotFound
}

func (m *mockLocationRepo) List(ctx context.Context, offset, limit int) ([]domain.NamedLocation, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, 0, nil
}

func (m *mockLocationRepo) ListByCategory(ctx context.Context, category string) ([]domain.NamedLocation, error) {
	if m.listByCategoryFn != nil {
		return m.listByCategoryFn(ctx, category)
	}
	return nil, nil
}

func (m *mockLocationRepo) FindNearest(ctx context.Context, p domain.GeoPoint, limit int) ([]domain.NamedLocation, error) {
	if m.findNearestFn != nil {
		return m.findNearestFn(ctx, p, limit)
	}
	return nil, nil
}

// campusRepo serves a fixed set of locations by name and ID.
func campusRepo() *mockLocationRepo {
	locs := []domain.NamedLocation{
		{ID: "a", Name: "Library", Location: domain.GeoPoint{Lat: 45.7535, Lon: 126.6485}, Category: domain.CategoryLibrary},
		{ID: "b", Name: "Main Hall", Location: domain.GeoPoint{Lat: 45.7540, Lon: 126.6490}, Category: domain.CategoryBuilding},
		{ID: "c", Name: "Canteen", Location: domain.GeoPoint{Lat: 45.7530, Lon: 126.6470}, Category: domain.CategoryCanteen},
	}
	find := func(match func(domain.NamedLocation) bool) (*domain.NamedLocation, error) {
		for _, l := range locs {
			if match(l) {
				l := l
				return &l, nil
			}
		}
		return nil, domain.ErrLocationNotFound
	}
	return &mockLocationRepo{
		getByNameFn: func(ctx context.Context, name string) (*domain.NamedLocation, error) {
			return find(func(l domain.NamedLocation) bool { return l.Name == name })
		},
		getByIDFn: func(ctx context.Context, id string) (*domain.NamedLocation, error) {
			return find(func(l domain.NamedLocation) bool { return l.ID == id })
		},
	}
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (c *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	if !ok {
		return nil, domain.ErrLocationNotFound
	}
	return v, nil
}

func (c *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *mockCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mockCache) keys(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}

// --- Mock PreferenceRepository ---

type mockPrefRepo struct {
	getFn    func(ctx context.Context, userID string) (*domain.Preferences, error)
	upsertFn func(ctx context.Context, p *domain.Preferences) error
}

func (m *mockPrefRepo) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockPrefRepo) Upsert(ctx context.Context, p *domain.Preferences) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, p)
	}
	return nil
}

// --- Mock HistoryRepository ---

type mockHistoryRepo struct {
	insertFn     func(ctx context.Context, rec *domain.NavigationRecord) error
	listByUserFn func(ctx context.Context, userID string, limit int) ([]domain.NavigationRecord, error)
}

func (m *mockHistoryRepo) Insert(ctx context.Context, rec *domain.NavigationRecord) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, rec)
	}
	return nil
}

func (m *mockHistoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.NavigationRecord, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID, limit)
	}
	return nil, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.SessionEvent
}

func (p *mockPublisher) PublishSessionEvent(ctx context.Context, ev *domain.SessionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *ev)
	return nil
}

func (p *mockPublisher) types() []domain.SessionEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.SessionEventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}
