// Package storage opens the configured persistence backend.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/campusnav/internal/adapters/postgres"
	"github.com/samirrijal/campusnav/internal/adapters/sqlite"
	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/ports"
	"github.com/samirrijal/campusnav/internal/pkg/config"
)

// LocationStore is a LocationRepository that can also load a map in bulk.
type LocationStore interface {
	ports.LocationRepository
	CreateBatch(ctx context.Context, locs []domain.NamedLocation) error
}

// Stores groups the repositories of one backend.
type Stores struct {
	Driver      string
	Locations   LocationStore
	Preferences ports.PreferenceRepository
	History     ports.HistoryRepository

	ping  func(ctx context.Context) error
	close func()
	pg    *postgres.DB
}

// Open connects to the backend named by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return &Stores{
			Driver:      "postgres",
			Locations:   postgres.NewLocationRepo(db),
			Preferences: postgres.NewPreferenceRepo(db),
			History:     postgres.NewHistoryRepo(db),
			ping:        db.Ping,
			close:       db.Close,
			pg:          db,
		}, nil
	case "sqlite":
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return &Stores{
			Driver:      "sqlite",
			Locations:   sqlite.NewLocationRepo(store),
			Preferences: sqlite.NewPreferenceRepo(store),
			History:     sqlite.NewHistoryRepo(store),
			ping:        store.Ping,
			close: func() {
				if err := store.Close(); err != nil {
					slog.Warn("close sqlite", "error", err)
				}
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Ping checks the backend connection.
func (s *Stores) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Postgres returns the pool when the backend is postgres.
func (s *Stores) Postgres() (*postgres.DB, bool) {
	return s.pg, s.pg != nil
}

// Close releases the backend.
func (s *Stores) Close() {
	s.close()
}
