// Package geo implements the pure coordinate math the rest of the
// pipeline depends on: distance, bucket keys for cache reuse, and
// display-distance rounding.
package geo

import (
	"fmt"
	"math"
)

// earthRadiusMeters is the WGS-84 mean sphere radius.
const earthRadiusMeters = 6_371_000.0

// HaversineMeters returns the great-circle distance between two points in
// meters.
func HaversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	sinDPhi := math.Sin(dPhi / 2)
	sinDLambda := math.Sin(dLambda / 2)

	a := sinDPhi*sinDPhi + math.Cos(phi1)*math.Cos(phi2)*sinDLambda*sinDLambda
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// Round4 rounds a coordinate to the nearest 4 decimal places (~11m buckets).
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// BucketKey returns a coordinate rounded to 4 decimal places plus the
// query radius, so that two requests
// landing in the same ~11m bucket at the same radius reuse cached POI sets.
func BucketKey(lat, lng float64, radiusMeters int) string {
	return fmt.Sprintf("%.4f,%.4f,%d", Round4(lat), Round4(lng), radiusMeters)
}

// RoundDisplayMeters rounds a distance to the nearest multiple of step
// meters (default 50) for "about N meters away" phrasing.
func RoundDisplayMeters(meters float64, step int) int {
	if step <= 0 {
		step = 50
	}
	return int(math.Round(meters/float64(step))) * step
}
