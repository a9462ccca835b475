package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Announcement is the payload delivered to a session's speech client.
type Announcement struct {
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	Text      string    `json:"text"`
	At        time.Time `json:"at"`
}

// Announcer implements ports.Announcer by publishing to the session's
// announcement subject. The stream keeps one message per subject, so a
// newer announcement replaces any the client has not consumed.
//
// Publishes never wait for an ack. Failed acks are logged by the
// publisher's error handler.
type Announcer struct {
	js        nats.JetStreamContext
	sessionID string
}

// Announce publishes an instruction.
func (a *Announcer) Announce(ctx context.Context, text string) error {
	return a.publish(ctx, "instruction", text)
}

// AnnounceStart publishes the navigation start message.
func (a *Announcer) AnnounceStart(ctx context.Context, from, to string) error {
	return a.publish(ctx, "start", fmt.Sprintf("navigating from %s to %s.", from, to))
}

// AnnounceArrival publishes the arrival message.
func (a *Announcer) AnnounceArrival(ctx context.Context, destination string) error {
	return a.publish(ctx, "arrival", fmt.Sprintf("you have arrived at %s.", destination))
}

// AnnounceCancelled publishes the cancellation message.
func (a *Announcer) AnnounceCancelled(ctx context.Context) error {
	return a.publish(ctx, "cancelled", "navigation cancelled.")
}

func (a *Announcer) publish(ctx context.Context, kind, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(Announcement{
		SessionID: a.sessionID,
		Kind:      kind,
		Text:      text,
		At:        time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	_, err = a.js.PublishAsync(AnnounceSubject(a.sessionID), data)
	return err
}
