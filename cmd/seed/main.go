package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/samirrijal/campusnav/internal/adapters/storage"
	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/pkg/config"
	"github.com/samirrijal/campusnav/internal/pkg/logging"
)

// CampusMap is the YAML layout of a campus map file.
//
//	version: 1
//	locations:
//	  - name: Library
//	    lat: 45.7535
//	    lon: 126.6485
//	    category: library
type CampusMap struct {
	Version   int             `yaml:"version"`
	Locations []CampusMapItem `yaml:"locations"`
}

type CampusMapItem struct {
	Name        string  `yaml:"name"`
	Lat         float64 `yaml:"lat"`
	Lon         float64 `yaml:"lon"`
	Category    string  `yaml:"category"`
	Description string  `yaml:"description"`
}

// parseCampusMap decodes and validates a campus map file.
func parseCampusMap(b []byte) ([]domain.NamedLocation, error) {
	var m CampusMap
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	if m.Version == 0 {
		m.Version = 1
	}
	if m.Version != 1 {
		return nil, fmt.Errorf("unsupported campus map version %d", m.Version)
	}
	if len(m.Locations) == 0 {
		return nil, fmt.Errorf("locations is required")
	}

	seen := make(map[string]bool, len(m.Locations))
	locs := make([]domain.NamedLocation, 0, len(m.Locations))
	for i, item := range m.Locations {
		loc := domain.NamedLocation{
			Name:        item.Name,
			Location:    domain.GeoPoint{Lat: item.Lat, Lon: item.Lon},
			Category:    item.Category,
			Description: item.Description,
		}
		if err := loc.Validate(); err != nil {
			return nil, fmt.Errorf("locations[%d]: %w", i, err)
		}
		if seen[loc.Name] {
			return nil, fmt.Errorf("locations[%d]: duplicate name %q", i, loc.Name)
		}
		seen[loc.Name] = true
		locs = append(locs, loc)
	}
	return locs, nil
}

func main() {
	path := flag.String("map", "configs/campus.yaml", "campus map file")
	flag.Parse()

	cfg, err := config.Load("campusnav-seed")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, "text", "campusnav-seed")

	b, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("read map: %v", err)
	}
	locs, err := parseCampusMap(b)
	if err != nil {
		log.Fatalf("parse %s: %v", *path, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stores, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer stores.Close()

	if err := stores.Locations.CreateBatch(ctx, locs); err != nil {
		log.Fatalf("load locations: %v", err)
	}
	log.Printf("loaded %d locations into %s", len(locs), stores.Driver)
}
