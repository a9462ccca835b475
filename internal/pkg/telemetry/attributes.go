package telemetry

import "go.opentelemetry.io/otel/attribute"

// TracerName is the instrumentation scope for navigation spans.
const TracerName = "github.com/samirrijal/campusnav"

// Span attribute keys used for instrumentation.
const (
	AttrSessionID   = attribute.Key("campusnav.session.id")
	AttrUserID      = attribute.Key("campusnav.user.id")
	AttrOrigin      = attribute.Key("campusnav.origin")
	AttrDestination = attribute.Key("campusnav.destination")
	AttrStatus      = attribute.Key("campusnav.session.status")
	AttrOutcome     = attribute.Key("campusnav.update.outcome")
	AttrRemaining   = attribute.Key("campusnav.remaining_meters")
)
