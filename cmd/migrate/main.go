package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/samirrijal/campusnav/internal/adapters/postgres"
	"github.com/samirrijal/campusnav/internal/adapters/sqlite"
	"github.com/samirrijal/campusnav/internal/pkg/config"
	"github.com/samirrijal/campusnav/internal/pkg/logging"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	cfg, err := config.Load("campusnav-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, "text", "campusnav-migrate")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if cfg.Storage.Driver == "sqlite" {
		// The sqlite store migrates itself on open; there is no down path.
		if os.Args[1] != "up" {
			log.Fatalf("sqlite supports only up")
		}
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			log.Fatalf("sqlite: %v", err)
		}
		_ = store.Close()
		log.Printf("sqlite schema up to date at %s", cfg.SQLite.Path)
		return
	}

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		if err := db.Migrate(ctx); err != nil {
			log.Fatalf("migrate up: %v", err)
		}
		log.Println("all migrations applied")
	case "down":
		if err := db.MigrateDown(ctx); err != nil {
			log.Fatalf("migrate down: %v", err)
		}
		log.Println("all migrations reverted")
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
