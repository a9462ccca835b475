package navigation

import (
	"math"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/pkg/geospatial"
)

// AnnouncePolicy decides which continuing instructions are spoken.
// Arrival and cancellation are always announced.
type AnnouncePolicy struct {
	// MinDistanceChangeMeters is the remaining-distance change that triggers
	// a new announcement. Zero announces every update.
	MinDistanceChangeMeters float64 `json:"min_distance_change_meters"`
	// MinBearingChangeDegrees triggers an announcement when the heading swings
	// by at least this much. Zero disables the check.
	MinBearingChangeDegrees float64 `json:"min_bearing_change_degrees"`
}

// DefaultAnnouncePolicy re-announces every 10 m of progress or on a new compass label.
func DefaultAnnouncePolicy() AnnouncePolicy {
	return AnnouncePolicy{MinDistanceChangeMeters: 10}
}

func (p AnnouncePolicy) validate() bool {
	return p.MinDistanceChangeMeters >= 0 && p.MinBearingChangeDegrees >= 0 &&
		!math.IsNaN(p.MinDistanceChangeMeters) && !math.IsNaN(p.MinBearingChangeDegrees)
}

// ShouldAnnounce reports whether next should be spoken given the last
// announced instruction (nil when nothing was announced yet).
func (p AnnouncePolicy) ShouldAnnounce(last *domain.Instruction, next domain.Instruction) bool {
	if last == nil || p.MinDistanceChangeMeters == 0 {
		return true
	}
	if last.Direction != next.Direction {
		return true
	}
	if math.Abs(last.DistanceMeters-next.DistanceMeters) >= p.MinDistanceChangeMeters {
		return true
	}
	if p.MinBearingChangeDegrees > 0 &&
		geospatial.AngleDelta(last.BearingDegrees, next.BearingDegrees) >= p.MinBearingChangeDegrees {
		return true
	}
	return false
}
