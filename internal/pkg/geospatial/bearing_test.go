package geospatial_test

import (
	"testing"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/pkg/geospatial"
)

func TestCompassLabel(t *testing.T) {
	tests := []struct {
		bearing float64
		want    string
	}{
		{0, "N"},
		{22.4999, "N"},
		{22.5, "NE"},
		{45, "NE"},
		{67.5, "E"},
		{90, "E"},
		{112.5, "SE"},
		{157.5, "S"},
		{180, "S"},
		{202.5, "SW"},
		{247.5, "W"},
		{292.5, "NW"},
		{337.4999, "NW"},
		{337.5, "N"},
		{359.9, "N"},
		{360, "N"},
		{-45, "NW"},
		{405, "NE"},
	}
	for _, tt := range tests {
		if got := geospatial.CompassLabel(tt.bearing); got != tt.want {
			t.Errorf("CompassLabel(%v) = %s, want %s", tt.bearing, got, tt.want)
		}
	}
}

func TestBearing_Cardinals(t *testing.T) {
	origin := domain.GeoPoint{Lat: 10, Lon: 10}
	tests := []struct {
		name string
		to   domain.GeoPoint
		want float64
	}{
		{"north", domain.GeoPoint{Lat: 11, Lon: 10}, 0},
		{"south", domain.GeoPoint{Lat: 9, Lon: 10}, 180},
		{"east", domain.GeoPoint{Lat: 10, Lon: 10.001}, 90},
		{"west", domain.GeoPoint{Lat: 10, Lon: 9.999}, 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geospatial.Bearing(origin, tt.to)
			if geospatial.AngleDelta(got, tt.want) > 0.01 {
				t.Errorf("Bearing = %.4f, want ~%.0f", got, tt.want)
			}
		})
	}
}

func TestBearing_Range(t *testing.T) {
	points := []domain.GeoPoint{
		library, mainHall,
		{Lat: 10, Lon: 10}, {Lat: -10, Lon: -170}, {Lat: 89, Lon: 0},
	}
	for _, a := range points {
		for _, b := range points {
			got := geospatial.Bearing(a, b)
			if got < 0 || got >= 360 {
				t.Errorf("Bearing(%v,%v) = %v out of [0,360)", a, b, got)
			}
		}
	}
}

func TestBearing_CampusLegIsNortheast(t *testing.T) {
	b := geospatial.Bearing(library, mainHall)
	if b <= 0 || b >= 90 {
		t.Fatalf("expected bearing in NE quadrant, got %.2f", b)
	}
	if label := geospatial.CompassLabel(b); label != "NE" {
		t.Errorf("expected NE, got %s", label)
	}
}

func TestNormalizeBearing(t *testing.T) {
	tests := map[float64]float64{
		0:    0,
		360:  0,
		720:  0,
		-90:  270,
		450:  90,
		-360: 0,
	}
	for in, want := range tests {
		if got := geospatial.NormalizeBearing(in); got != want {
			t.Errorf("NormalizeBearing(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestAngleDelta(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{10, 20, 10},
		{350, 10, 20},
		{0, 180, 180},
		{90, 270, 180},
		{359, 1, 2},
	}
	for _, tt := range tests {
		if got := geospatial.AngleDelta(tt.a, tt.b); got != tt.want {
			t.Errorf("AngleDelta(%v,%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
