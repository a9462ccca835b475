package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/ports"
)

const (
	asyncMaxPending = 256
	closeFlushWait  = 5 * time.Second
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream and ensures the streams exist.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream(
		nats.PublishAsyncMaxPending(asyncMaxPending),
		nats.PublishAsyncErrHandler(func(_ nats.JetStream, msg *nats.Msg, err error) {
			slog.Warn("async publish failed", "subject", msg.Subject, "error", err)
		}),
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	for _, cfg := range streamConfigs() {
		cfg := cfg
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist — try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				conn.Close()
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishSessionEvent publishes a session lifecycle event.
func (p *Publisher) PublishSessionEvent(ctx context.Context, ev *domain.SessionEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SessionSubject(ev.SessionID, ev.Type), data, nats.Context(ctx))
	return err
}

// PublishPosition publishes a position fix for a session.
func (p *Publisher) PublishPosition(ctx context.Context, fix *domain.PositionFix) error {
	data, err := json.Marshal(fix)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(PositionSubject(fix.SessionID), data, nats.Context(ctx))
	return err
}

// Announcer returns the announcer for one session.
func (p *Publisher) Announcer(sessionID string) ports.Announcer {
	return &Announcer{js: p.js, sessionID: sessionID}
}

// Close waits briefly for pending announcements, then drains and closes
// the connection.
func (p *Publisher) Close() {
	select {
	case <-p.js.PublishAsyncComplete():
	case <-time.After(closeFlushWait):
		slog.Warn("closing with unacknowledged announcements", "pending", p.js.PublishAsyncPending())
	}
	_ = p.conn.Drain()
}
