package spatial

import (
	"fmt"
	"math/rand/v2"
)

// RandomPoints draws n points uniformly in longitude and latitude inside b
func RandomPoints(rng *rand.Rand, b Bounds, n int) ([]Point, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("point count must be non-negative, got %d", n)
	}

	points := make([]Point, n)
	for i := range points {
		points[i] = Point{
			Lon: b.MinLon + rng.Float64()*(b.MaxLon-b.MinLon),
			Lat: b.MinLat + rng.Float64()*(b.MaxLat-b.MinLat),
		}
	}
	return points, nil
}

// SampleFraction shuffles a copy of points and returns the first int(len*frac) of them
func SampleFraction(rng *rand.Rand, points []Point, frac float64) ([]Point, error) {
	if frac < 0 || frac > 1 {
		return nil, fmt.Errorf("sample fraction must be within [0, 1], got %v", frac)
	}

	shuffled := make([]Point, len(points))
	copy(shuffled, points)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled[:int(float64(len(shuffled))*frac)], nil
}
