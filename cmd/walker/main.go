package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsadapter "github.com/samirrijal/campusnav/internal/adapters/nats"
	"github.com/samirrijal/campusnav/internal/adapters/storage"
	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/usecases"
	"github.com/samirrijal/campusnav/internal/pkg/config"
	"github.com/samirrijal/campusnav/internal/pkg/geospatial"
	"github.com/samirrijal/campusnav/internal/pkg/logging"
)

// track returns the fixes of a walk from a to b at speed m/s, one per
// interval, ending exactly on b.
func track(a, b domain.GeoPoint, speed float64, interval time.Duration) []domain.GeoPoint {
	dist := geospatial.Distance(a, b)
	step := speed * interval.Seconds()
	if dist == 0 || step <= 0 {
		return []domain.GeoPoint{b}
	}
	n := int(math.Ceil(dist / step))
	out := make([]domain.GeoPoint, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, geospatial.Interpolate(a, b, float64(i)*step/dist))
	}
	return out
}

func main() {
	sessionID := flag.String("session", "", "session to feed")
	from := flag.String("from", "", "origin location name")
	to := flag.String("to", "", "destination location name")
	interval := flag.Duration("interval", time.Second, "time between fixes")
	speed := flag.Float64("speed", 0, "walking speed in m/s (default from config)")
	flag.Parse()

	if *sessionID == "" || *from == "" || *to == "" {
		log.Fatal("usage: walker -session <id> -from <name> -to <name>")
	}

	cfg, err := config.Load("campusnav-walker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, "text", "campusnav-walker")
	if *speed <= 0 {
		*speed = cfg.Navigation.WalkingSpeedMps
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stores, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer stores.Close()

	locations := usecases.NewLocationService(stores.Locations, nil)
	origin, err := locations.Resolve(ctx, *from)
	if err != nil {
		log.Fatalf("origin: %v", err)
	}
	dest, err := locations.Resolve(ctx, *to)
	if err != nil {
		log.Fatalf("destination: %v", err)
	}

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer pub.Close()

	fixes := track(origin.Location, dest.Location, *speed, *interval)
	slog.Info("walking", "session_id", *sessionID, "from", origin.Name, "to", dest.Name, "fixes", len(fixes))

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for i, p := range fixes {
		fix := &domain.PositionFix{SessionID: *sessionID, Point: p, At: time.Now().UTC()}
		if err := pub.PublishPosition(ctx, fix); err != nil {
			slog.Warn("publish position", "seq", i, "error", err)
		}
		select {
		case <-ctx.Done():
			slog.Info("walk interrupted", "seq", i)
			return
		case <-ticker.C:
		}
	}
	slog.Info("walk finished", "session_id", *sessionID)
}
