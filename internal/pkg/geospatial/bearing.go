package geospatial

import (
	"math"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

var compassLabels = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Bearing returns the initial great-circle bearing from a to b in [0,360).
// The result is meaningless when a == b.
func Bearing(a, b domain.GeoPoint) float64 {
	phi1 := toRad(a.Lat)
	phi2 := toRad(b.Lat)
	dLon := toRad(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)

	return NormalizeBearing(toDeg(math.Atan2(y, x)))
}

// NormalizeBearing folds any angle into [0,360).
func NormalizeBearing(deg float64) float64 {
	b := math.Mod(deg, 360)
	if b < 0 {
		b += 360
	}
	// -1e-15 + 360 rounds to exactly 360.
	if b >= 360 {
		b = 0
	}
	return b
}

// CompassLabel maps a bearing to one of eight 45° buckets.
// Bucket d covers [θd-22.5, θd+22.5); boundaries go to the clockwise bucket.
func CompassLabel(bearingDegrees float64) string {
	b := NormalizeBearing(bearingDegrees)
	idx := int(math.Floor((b+22.5)/45)) % 8
	return compassLabels[idx]
}

// AngleDelta returns the smallest absolute difference between two bearings, in [0,180].
func AngleDelta(a, b float64) float64 {
	d := math.Abs(NormalizeBearing(a) - NormalizeBearing(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}
