package spatial

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point represents a coordinate in decimal degrees
type Point struct {
	Lon float64 `json:"longitude"`
	Lat float64 `json:"latitude"`
}

// Bounds is a longitude/latitude bounding box
type Bounds struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// ParseBounds parses "minLon,minLat,maxLon,maxLat"
func ParseBounds(s string) (Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, fmt.Errorf("bounds must have 4 comma separated values, got %d", len(parts))
	}

	vals := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Bounds{}, fmt.Errorf("failed to parse bounds value %q: %w", part, err)
		}
		vals[i] = v
	}

	b := Bounds{MinLon: vals[0], MinLat: vals[1], MaxLon: vals[2], MaxLat: vals[3]}
	if err := b.Validate(); err != nil {
		return Bounds{}, err
	}
	return b, nil
}

// Validate checks that both corners are valid and ordered
func (b Bounds) Validate() error {
	if err := (Point{Lon: b.MinLon, Lat: b.MinLat}).Validate(); err != nil {
		return err
	}
	if err := (Point{Lon: b.MaxLon, Lat: b.MaxLat}).Validate(); err != nil {
		return err
	}
	if b.MinLon >= b.MaxLon || b.MinLat >= b.MaxLat {
		return fmt.Errorf("%w: bounds min corner must be below max corner", ErrInvalidCoordinate)
	}
	return nil
}

// Centroid calculates the geographic centroid of a set of points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	return Point{
		Lat: sumLat / float64(len(points)),
		Lon: sumLon / float64(len(points)),
	}
}

// RadiusOfGyration calculates the radius of gyration for a set of points
// This measures the spatial dispersion around the centroid
func RadiusOfGyration(points []Point) float64 {
	if len(points) == 0 {
		return 0
	}

	center := Centroid(points)

	var sumSquaredDist float64
	for _, p := range points {
		dist := HaversineDistance(center.Lat, center.Lon, p.Lat, p.Lon)
		sumSquaredDist += dist * dist
	}

	return math.Sqrt(sumSquaredDist / float64(len(points)))
}

// PathLength calculates the total length of a path (sequence of points) in meters
func PathLength(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	var totalDist float64
	for i := 1; i < len(points); i++ {
		totalDist += HaversineDistance(points[i-1].Lat, points[i-1].Lon, points[i].Lat, points[i].Lon)
	}

	return totalDist
}
