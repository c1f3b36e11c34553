// Package geo provides the great-circle distance computation and radius
// semantics shared by the proximity read path and the dispatch recorder.
package geo

import (
	"fmt"
	"math"
)

// Radius bounds for proximity queries, in kilometres. The lower bound is
// exclusive, the upper bound inclusive.
const (
	MaxRadiusKm     = 50.0
	DefaultRadiusKm = 5.0
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Distance returns the haversine great-circle distance in kilometres between
// two coordinates given in decimal degrees. Inputs are assumed to be
// well-formed finite numbers; range validation happens upstream.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	deltaLat := toRadians(lat2 - lat1)
	deltaLon := toRadians(lon2 - lon1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// DistanceBetween is Distance over two Points.
func DistanceBetween(a, b Point) float64 {
	return Distance(a.Lat, a.Lon, b.Lat, b.Lon)
}

// ValidateRadius checks that a query radius lies in (0, MaxRadiusKm].
func ValidateRadius(radiusKm float64) error {
	if radiusKm <= 0 || radiusKm > MaxRadiusKm {
		return fmt.Errorf("radius must be greater than 0 and at most %g km, got %g", MaxRadiusKm, radiusKm)
	}
	return nil
}

// RoundKm rounds a distance to two decimals. Only for display and
// persistence; filtering decisions always use full precision.
func RoundKm(distanceKm float64) float64 {
	return math.Round(distanceKm*100) / 100
}

// FormatDistance renders a distance the way it is persisted on identified
// resource rows, e.g. "3.42 km".
func FormatDistance(distanceKm float64) string {
	return fmt.Sprintf("%.2f km", distanceKm)
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
