package geo

import (
	"math"
	"testing"
)

func TestDistanceKm_KnownPairs(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64 // km
		tol                    float64
	}{
		// Great-circle distances cross-checked against published values.
		{"athens-thessaloniki", 37.9838, 23.7275, 40.6401, 22.9444, 300, 5},
		{"london-paris", 51.5074, -0.1278, 48.8566, 2.3522, 344, 5},
		{"equator-degree", 0, 0, 0, 1, 111.19, 0.5},
	}
	for _, tc := range cases {
		got := DistanceKm(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
		if math.Abs(got-tc.want) > tc.tol {
			t.Errorf("%s: DistanceKm = %.2f, want %.2f ± %.1f", tc.name, got, tc.want, tc.tol)
		}
	}
}

func TestDistanceKm_ZeroAndSymmetry(t *testing.T) {
	if d := DistanceKm(37.9838, 23.7275, 37.9838, 23.7275); d != 0 {
		t.Errorf("identical points: got %v, want 0", d)
	}

	ab := DistanceKm(37.9838, 23.7275, 40.6401, 22.9444)
	ba := DistanceKm(40.6401, 22.9444, 37.9838, 23.7275)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", ab, ba)
	}
	if ab <= 0 {
		t.Errorf("distinct points must be positive, got %v", ab)
	}
}
