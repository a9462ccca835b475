package navigation

import (
	"fmt"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/pkg/geospatial"
)

// NewPlan measures the direct leg between two locations.
func NewPlan(from, to domain.NamedLocation, strideLengthMeters, walkingSpeedMps float64) (domain.Plan, error) {
	if from.ID == to.ID {
		return domain.Plan{}, fmt.Errorf("%w: origin and destination are the same location", domain.ErrInvalidInput)
	}
	dist := geospatial.Distance(from.Location, to.Location)
	bearing := geospatial.Bearing(from.Location, to.Location)
	steps, err := geospatial.StepsFor(dist, strideLengthMeters)
	if err != nil {
		return domain.Plan{}, err
	}
	return domain.Plan{
		Origin:            from,
		Destination:       to,
		DistanceMeters:    dist,
		BearingDegrees:    bearing,
		Direction:         geospatial.CompassLabel(bearing),
		StepCount:         steps,
		EstimatedDuration: geospatial.EstimateDuration(dist, walkingSpeedMps),
	}, nil
}
