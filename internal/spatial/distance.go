package spatial

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
)

// ErrInvalidCoordinate is returned for NaN, infinite or out-of-range coordinates
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Validate checks that the point is a finite longitude/latitude pair in decimal degrees
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return fmt.Errorf("%w: (%v, %v) is not finite", ErrInvalidCoordinate, p.Lon, p.Lat)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, p.Lon)
	}
	return nil
}

// Haversine returns the great-circle distance in meters between two validated points
func Haversine(a, b Point) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	return HaversineDistance(a.Lat, a.Lon, b.Lat, b.Lon), nil
}

// HaversineDistance calculates the great-circle distance between two points in meters
// using the Haversine formula. Inputs are not validated.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1Rad)*math.Cos(lat2Rad)*sinLon*sinLon

	// floating point overshoot near antipodes
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// DistanceS2 calculates the great-circle distance using the S2 geometry library.
// It agrees with HaversineDistance to within floating point error.
func DistanceS2(a, b Point) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}
