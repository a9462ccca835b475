package natsadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/ports"
)

// Subscriber implements ports.PositionSource and ports.EventSubscriber
// using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribePositions delivers position fixes to handler. Fixes for unknown
// sessions and malformed payloads are acknowledged and dropped; other
// handler errors are redelivered up to three times.
func (s *Subscriber) SubscribePositions(ctx context.Context, handler ports.PositionHandler) error {
	sub, err := s.js.Subscribe(positionPrefix+">", func(msg *nats.Msg) {
		fix, err := decodePosition(msg.Subject, msg.Data)
		if err != nil {
			slog.Warn("dropping malformed position", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, fix.SessionID, fix.Point); err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrInvalidInput) {
				slog.Debug("position rejected", "session_id", fix.SessionID, "error", err)
				_ = msg.Ack()
				return
			}
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("position-processor"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// SubscribeSessionFinished delivers arrived and cancelled session events.
func (s *Subscriber) SubscribeSessionFinished(ctx context.Context, handler func(ctx context.Context, ev *domain.SessionEvent) error) error {
	for _, t := range []domain.SessionEventType{domain.EventArrived, domain.EventCancelled} {
		sub, err := s.js.Subscribe(SessionSubject("*", t), func(msg *nats.Msg) {
			var ev domain.SessionEvent
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				_ = msg.Term()
				return
			}
			if err := handler(ctx, &ev); err != nil {
				_ = msg.Nak()
				return
			}
			_ = msg.Ack()
		},
			nats.Durable("history-recorder-"+string(t)),
			nats.ManualAck(),
			nats.MaxDeliver(5),
		)
		if err != nil {
			return err
		}
		s.subs = append(s.subs, sub)
	}
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}

// decodePosition parses a fix, taking the session ID from the subject when
// the payload omits it.
func decodePosition(subject string, data []byte) (*domain.PositionFix, error) {
	var fix domain.PositionFix
	if err := json.Unmarshal(data, &fix); err != nil {
		return nil, err
	}
	if fix.SessionID == "" {
		fix.SessionID = sessionIDFromSubject(subject, positionPrefix)
	}
	if fix.SessionID == "" {
		return nil, fmt.Errorf("position without session id")
	}
	return &fix, nil
}
