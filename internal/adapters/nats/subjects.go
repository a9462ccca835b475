package natsadapter

import (
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

// Subject layout:
//
//	campusnav.session.<id>.<event>  session lifecycle events
//	campusnav.announce.<id>         spoken guidance, latest message per session kept
//	campusnav.position.<id>         position fixes from devices
const (
	sessionPrefix  = "campusnav.session."
	announcePrefix = "campusnav.announce."
	positionPrefix = "campusnav.position."
)

// SessionSubject returns the subject for one session event.
func SessionSubject(sessionID string, t domain.SessionEventType) string {
	return sessionPrefix + sessionID + "." + string(t)
}

// SessionWildcard matches every event of one session.
func SessionWildcard(sessionID string) string {
	return sessionPrefix + sessionID + ".>"
}

// AnnounceSubject returns the announcement subject for a session.
func AnnounceSubject(sessionID string) string {
	return announcePrefix + sessionID
}

// PositionSubject returns the subject position fixes are published on.
func PositionSubject(sessionID string) string {
	return positionPrefix + sessionID
}

// sessionIDFromSubject extracts the session ID from a position or announce subject.
func sessionIDFromSubject(subject, prefix string) string {
	id := strings.TrimPrefix(subject, prefix)
	if i := strings.IndexByte(id, '.'); i >= 0 {
		id = id[:i]
	}
	return id
}

func streamConfigs() []nats.StreamConfig {
	return []nats.StreamConfig{
		{
			Name:      "CAMPUSNAV_SESSIONS",
			Subjects:  []string{sessionPrefix + ">"},
			Retention: nats.LimitsPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			// Only the newest announcement per session is retained, so a
			// slow listener skips straight to the current instruction.
			Name:              "CAMPUSNAV_ANNOUNCEMENTS",
			Subjects:          []string{announcePrefix + ">"},
			Retention:         nats.LimitsPolicy,
			MaxMsgsPerSubject: 1,
			MaxAge:            1 * time.Hour,
			Storage:           nats.MemoryStorage,
		},
		{
			Name:      "CAMPUSNAV_POSITIONS",
			Subjects:  []string{positionPrefix + ">"},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    1 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}
}

func connect(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return connect(url)
}
