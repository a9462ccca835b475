package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"
	"github.com/samirrijal/campusnav/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Position fixes arrive about once a second per walker; 600/min leaves
	// room for several devices behind one address.
	app.Use(limiter.New(limiter.Config{
		Max:        600,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	// Campus map
	v1.Get("/locations", timeout.NewWithContext(ListLocationsHandler(deps), requestTimeout))
	v1.Post("/locations", timeout.NewWithContext(CreateLocationHandler(deps), requestTimeout))
	v1.Get("/locations/nearest", timeout.NewWithContext(NearestLocationsHandler(deps), requestTimeout))
	v1.Get("/locations/distance", timeout.NewWithContext(DistanceHandler(deps), requestTimeout))
	v1.Get("/locations/:id", timeout.NewWithContext(GetLocationHandler(deps), requestTimeout))
	v1.Put("/locations/:id", timeout.NewWithContext(UpdateLocationHandler(deps), requestTimeout))
	v1.Delete("/locations/:id", timeout.NewWithContext(DeleteLocationHandler(deps), requestTimeout))

	// Navigation sessions
	v1.Post("/sessions", timeout.NewWithContext(CreateSessionHandler(deps), requestTimeout))
	v1.Get("/sessions/:id", GetSessionHandler(deps))
	v1.Put("/sessions/:id/plan", timeout.NewWithContext(ReplanSessionHandler(deps), requestTimeout))
	v1.Post("/sessions/:id/start", timeout.NewWithContext(StartSessionHandler(deps), requestTimeout))
	v1.Post("/sessions/:id/positions", timeout.NewWithContext(PositionHandler(deps), requestTimeout))
	v1.Post("/sessions/:id/stop", timeout.NewWithContext(StopSessionHandler(deps), requestTimeout))
	v1.Delete("/sessions/:id", timeout.NewWithContext(DiscardSessionHandler(deps), requestTimeout))

	// Users
	v1.Get("/users/:id/preferences", timeout.NewWithContext(GetPreferencesHandler(deps), requestTimeout))
	v1.Put("/users/:id/preferences", timeout.NewWithContext(PutPreferencesHandler(deps), requestTimeout))
	v1.Get("/users/:id/history", timeout.NewWithContext(HistoryHandler(deps), requestTimeout))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
