package geospatial

import (
	"fmt"
	"math"
	"time"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

// DefaultWalkingSpeed is an average pedestrian pace in meters per second.
const DefaultWalkingSpeed = 1.4

// StepsFor converts a distance into a whole number of strides, rounding up.
func StepsFor(distanceMeters, strideLengthMeters float64) (int, error) {
	if math.IsNaN(strideLengthMeters) || strideLengthMeters <= 0 {
		return 0, fmt.Errorf("%w: stride length must be positive, got %v", domain.ErrInvalidConfig, strideLengthMeters)
	}
	if math.IsNaN(distanceMeters) || distanceMeters < 0 {
		return 0, fmt.Errorf("%w: distance must be non-negative, got %v", domain.ErrInvalidInput, distanceMeters)
	}
	if distanceMeters == 0 {
		return 0, nil
	}
	return int(math.Ceil(distanceMeters / strideLengthMeters)), nil
}

// EstimateDuration returns the walking time for a distance at speedMps.
// A non-positive speed falls back to DefaultWalkingSpeed.
func EstimateDuration(distanceMeters, speedMps float64) time.Duration {
	if speedMps <= 0 {
		speedMps = DefaultWalkingSpeed
	}
	if distanceMeters <= 0 {
		return 0
	}
	return time.Duration(distanceMeters / speedMps * float64(time.Second)).Round(time.Second)
}
