package geo

import (
	"math"
	"testing"
)

func TestHaversineMeters(t *testing.T) {
	cases := []struct {
		name                string
		lat1, lng1          float64
		lat2, lng2          float64
		wantMeters          float64
		toleranceMeters     float64
	}{
		{"same point", 51.5007, -0.1246, 51.5007, -0.1246, 0, 1},
		{"london to paris", 51.5074, -0.1278, 48.8566, 2.3522, 343_500, 2000},
		{"one degree latitude", 0, 0, 1, 0, 111_195, 200},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := HaversineMeters(c.lat1, c.lng1, c.lat2, c.lng2)
			if math.Abs(got-c.wantMeters) > c.toleranceMeters {
				t.Fatalf("got %.1f, want ~%.1f (+-%.1f)", got, c.wantMeters, c.toleranceMeters)
			}
		})
	}
}

func TestBucketKeyStableAcrossJitter(t *testing.T) {
	k1 := BucketKey(51.50071, -0.12461, 500)
	k2 := BucketKey(51.50074, -0.12463, 500)
	if k1 != k2 {
		t.Fatalf("expected same bucket for nearby points, got %q vs %q", k1, k2)
	}
	k3 := BucketKey(51.51, -0.12461, 500)
	if k1 == k3 {
		t.Fatalf("expected different bucket for a point ~1km away")
	}
}

func TestRoundDisplayMeters(t *testing.T) {
	cases := []struct {
		meters float64
		step   int
		want   int
	}{
		{0, 50, 0},
		{24, 50, 0},
		{26, 50, 50},
		{374, 50, 350},
		{1200, 100, 1200},
	}
	for _, c := range cases {
		if got := RoundDisplayMeters(c.meters, c.step); got != c.want {
			t.Errorf("RoundDisplayMeters(%.0f, %d) = %d, want %d", c.meters, c.step, got, c.want)
		}
	}
}
