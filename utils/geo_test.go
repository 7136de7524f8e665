package utils

import (
	"math"
	"testing"
)

func TestDistanceMeters(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"same point", 12.5, 45.0, 12.5, 45.0, 0},
		{"one degree along the equator", 0, 0, 0, 1, 111195},
		{"one degree along a meridian", 0, 0, 1, 0, 111195},
		{"five hundredths of a degree", 0, 0, 0, 0.05, 5560},
	}

	for _, tc := range cases {
		got := DistanceMeters(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
		if math.Abs(got-tc.want) > 10 {
			t.Errorf("%s: got %.1f m, want %.1f m", tc.name, got, tc.want)
		}
	}
}

func TestDistanceMetersIsSymmetric(t *testing.T) {
	ab := DistanceMeters(52.52, 13.405, 48.8566, 2.3522)
	ba := DistanceMeters(48.8566, 2.3522, 52.52, 13.405)
	if math.Abs(ab-ba) > 1e-6 {
		t.Fatalf("expected symmetric distances, got %.6f and %.6f", ab, ba)
	}
}

func TestDistanceKm(t *testing.T) {
	got := DistanceKm(0, 0, 0, 0.05)
	if math.Abs(got-5.56) > 0.01 {
		t.Fatalf("expected roughly 5.56 km, got %.3f", got)
	}
}
