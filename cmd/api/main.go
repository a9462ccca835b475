package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/campusnav/internal/adapters/http"
	natsadapter "github.com/samirrijal/campusnav/internal/adapters/nats"
	"github.com/samirrijal/campusnav/internal/adapters/storage"
	"github.com/samirrijal/campusnav/internal/adapters/valkey"
	"github.com/samirrijal/campusnav/internal/core/navigation"
	"github.com/samirrijal/campusnav/internal/core/ports"
	"github.com/samirrijal/campusnav/internal/core/usecases"
	"github.com/samirrijal/campusnav/internal/pkg/config"
	"github.com/samirrijal/campusnav/internal/pkg/logging"
	"github.com/samirrijal/campusnav/internal/pkg/metrics"
	"github.com/samirrijal/campusnav/internal/pkg/telemetry"
)

const (
	service = "campusnav-api"

	sweepInterval = time.Minute
	sessionTTL    = 30 * time.Minute
)

// navOptions converts the navigation config section into session options.
func navOptions(n config.NavigationConfig) navigation.Options {
	opts := navigation.DefaultOptions()
	opts.StrideLengthMeters = n.StrideLengthMeters
	opts.ArrivalThresholdMeters = n.ArrivalThresholdMeters
	opts.WalkingSpeedMps = n.WalkingSpeedMps
	opts.Policy = navigation.AnnouncePolicy{
		MinDistanceChangeMeters: n.Announce.MinDistanceChangeMeters,
		MinBearingChangeDegrees: n.Announce.MinBearingChangeDegrees,
	}
	return opts
}

func main() {
	reloads := make(chan config.NavigationConfig, 1)
	cfg, err := config.Watch(service, func(n config.NavigationConfig) {
		select {
		case reloads <- n:
		default:
		}
	})
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format, service)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Storage
	stores, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer stores.Close()

	deps := &http.Dependencies{DB: stores}

	// Cache
	var cache ports.CacheService
	if c, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.Prefix); err != nil {
		slog.Warn("valkey unavailable, location cache disabled", "error", err)
	} else {
		defer c.Close()
		cache = c
		deps.Cache = c
	}

	// NATS
	var (
		publisher  ports.EventPublisher
		announcers usecases.AnnouncerFactory
	)
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, events and announcements disabled", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
		announcers = pub.Announcer
	}

	// Raw NATS connection for WebSocket relay
	if nc, err := natsadapter.RawConn(cfg.NATS.URL); err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer nc.Close()
		deps.NATS = nc
	}

	// Use cases
	deps.Locations = usecases.NewLocationService(stores.Locations, cache)
	deps.Preferences = usecases.NewPreferenceService(stores.Preferences)
	deps.History = usecases.NewHistoryService(stores.History)
	nav, err := usecases.NewNavigationService(deps.Locations, deps.Preferences, publisher, announcers, navOptions(cfg.Navigation))
	if err != nil {
		log.Fatalf("navigation: %v", err)
	}
	deps.Navigation = nav

	// Position fixes from devices
	if sub, err := natsadapter.NewSubscriber(cfg.NATS.URL); err != nil {
		slog.Warn("position subscriber unavailable", "error", err)
	} else {
		defer sub.Close()
		if err := sub.SubscribePositions(ctx, nav.HandlePosition); err != nil {
			slog.Warn("subscribe positions failed", "error", err)
		}
	}

	go maintain(ctx, nav, stores, reloads)

	eventsDone := make(chan struct{})
	go func() {
		defer close(eventsDone)
		nav.Run(ctx)
	}()

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    256 * 1024,
		AppName:      "Campus Navigation API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "storage", stores.Driver)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	// Flush queued session events before the publisher closes.
	cancel()
	<-eventsDone

	slog.Info("server stopped")
}

// maintain applies config reloads, drops finished sessions and samples
// pool metrics until ctx ends.
func maintain(ctx context.Context, nav *usecases.NavigationService, stores *storage.Stores, reloads <-chan config.NavigationConfig) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case n := <-reloads:
			if err := nav.SetDefaults(navOptions(n)); err != nil {
				slog.Warn("navigation defaults rejected", "error", err)
			}
		case <-ticker.C:
			if removed := nav.Sweep(time.Now().Add(-sessionTTL)); removed > 0 {
				slog.Info("swept finished sessions", "removed", removed, "remaining", nav.Len())
			}
			if db, ok := stores.Postgres(); ok {
				metrics.UpdateDBPoolMetrics(db.Stat())
			}
		}
	}
}
