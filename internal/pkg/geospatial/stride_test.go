package geospatial_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/pkg/geospatial"
)

func TestStepsFor_Ceil(t *testing.T) {
	distances := []float64{0.1, 0.7, 1, 10, 67.9, 68, 100.35, 5000}
	strides := []float64{0.5, 0.7, 0.75, 1.2}
	for _, d := range distances {
		for _, s := range strides {
			got, err := geospatial.StepsFor(d, s)
			if err != nil {
				t.Fatalf("StepsFor(%v,%v): %v", d, s, err)
			}
			if want := int(math.Ceil(d / s)); got != want {
				t.Errorf("StepsFor(%v,%v) = %d, want %d", d, s, got, want)
			}
		}
	}
}

func TestStepsFor_ZeroDistance(t *testing.T) {
	got, err := geospatial.StepsFor(0, 0.7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("expected 0 steps, got %d", got)
	}
}

func TestStepsFor_InvalidStride(t *testing.T) {
	for _, s := range []float64{0, -0.7, math.NaN()} {
		_, err := geospatial.StepsFor(10, s)
		if !errors.Is(err, domain.ErrInvalidConfig) {
			t.Errorf("stride %v: expected ErrInvalidConfig, got %v", s, err)
		}
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("stride %v: ErrInvalidConfig should also match ErrInvalidInput", s)
		}
	}
}

func TestStepsFor_NegativeDistance(t *testing.T) {
	_, err := geospatial.StepsFor(-1, 0.7)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEstimateDuration(t *testing.T) {
	if got := geospatial.EstimateDuration(140, 1.4); got != 100*time.Second {
		t.Errorf("expected 100s, got %s", got)
	}
	if got := geospatial.EstimateDuration(14, 0); got != 10*time.Second {
		t.Errorf("expected default speed to give 10s, got %s", got)
	}
	if got := geospatial.EstimateDuration(0, 1.4); got != 0 {
		t.Errorf("expected 0 for zero distance, got %s", got)
	}
}
