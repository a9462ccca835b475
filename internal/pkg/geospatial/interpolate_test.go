package geospatial_test

import (
	"math"
	"testing"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/pkg/geospatial"
)

func TestInterpolate(t *testing.T) {
	a := domain.GeoPoint{Lat: 45.7535, Lon: 126.6485}
	b := domain.GeoPoint{Lat: 45.7540, Lon: 126.6490}

	if got := geospatial.Interpolate(a, b, -1); got != a {
		t.Errorf("f<0 should clamp to a, got %+v", got)
	}
	if got := geospatial.Interpolate(a, b, 2); got != b {
		t.Errorf("f>1 should clamp to b, got %+v", got)
	}

	mid := geospatial.Interpolate(a, b, 0.5)
	da := geospatial.Distance(a, mid)
	db := geospatial.Distance(mid, b)
	if math.Abs(da-db) > 0.1 {
		t.Errorf("midpoint not equidistant: %.3f vs %.3f", da, db)
	}
}
