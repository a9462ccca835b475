package http

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/samirrijal/campusnav/internal/core/usecases"
)

// Pinger is a backing store or cache that can report its connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Locations   *usecases.LocationService
	Preferences *usecases.PreferenceService
	History     *usecases.HistoryService
	Navigation  *usecases.NavigationService
	NATS        *nats.Conn
	DB          Pinger
	Cache       Pinger
}
