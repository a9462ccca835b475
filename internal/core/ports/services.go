package ports

import (
	"context"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

// Announcer delivers guidance to the user. Announce is latest-wins:
// a newer message replaces one that has not been delivered yet.
type Announcer interface {
	Announce(ctx context.Context, text string) error
	AnnounceStart(ctx context.Context, from, to string) error
	AnnounceArrival(ctx context.Context, destination string) error
	AnnounceCancelled(ctx context.Context) error
}

// PositionHandler receives one position fix for a session.
type PositionHandler func(ctx context.Context, sessionID string, p domain.GeoPoint) error

// PositionSource delivers a stream of position fixes.
type PositionSource interface {
	SubscribePositions(ctx context.Context, handler PositionHandler) error
}

// EventPublisher publishes session events to a message broker.
type EventPublisher interface {
	PublishSessionEvent(ctx context.Context, ev *domain.SessionEvent) error
}

// EventSubscriber subscribes to session events from a message broker.
type EventSubscriber interface {
	// SubscribeSessionFinished delivers arrived and cancelled events.
	SubscribeSessionFinished(ctx context.Context, handler func(ctx context.Context, ev *domain.SessionEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
