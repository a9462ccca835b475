package navigation

import (
	"fmt"
	"math"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/pkg/geospatial"
)

// Compose builds the instruction for one position update.
// The stored distance keeps full precision; only the text is rounded.
func Compose(seq int, distanceMeters, bearingDegrees, strideLengthMeters float64) (domain.Instruction, error) {
	if seq < 1 {
		return domain.Instruction{}, fmt.Errorf("%w: sequence must start at 1, got %d", domain.ErrInvalidInput, seq)
	}
	steps, err := geospatial.StepsFor(distanceMeters, strideLengthMeters)
	if err != nil {
		return domain.Instruction{}, err
	}
	bearing := geospatial.NormalizeBearing(bearingDegrees)
	direction := geospatial.CompassLabel(bearing)

	return domain.Instruction{
		Sequence:       seq,
		Text:           FormatText(direction, distanceMeters, steps),
		Direction:      direction,
		DistanceMeters: distanceMeters,
		StepCount:      steps,
		BearingDegrees: bearing,
	}, nil
}

// FormatText renders the spoken guidance sentence.
func FormatText(direction string, distanceMeters float64, steps int) string {
	return fmt.Sprintf("walk toward %s for %d meters, about %d steps.",
		direction, int64(math.Round(distanceMeters)), steps)
}
