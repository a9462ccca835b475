package geospatial

import "github.com/samirrijal/campusnav/internal/core/domain"

// Interpolate returns the point a fraction f of the way from a to b.
// f is clamped to [0,1]. Straight-line interpolation in degrees is accurate
// to well under a metre over campus-scale legs.
func Interpolate(a, b domain.GeoPoint, f float64) domain.GeoPoint {
	if f <= 0 {
		return a
	}
	if f >= 1 {
		return b
	}
	return domain.GeoPoint{
		Lat: a.Lat + (b.Lat-a.Lat)*f,
		Lon: a.Lon + (b.Lon-a.Lon)*f,
	}
}
