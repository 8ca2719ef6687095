package spatial

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSeparation is returned when the minimum separation is negative or not a number
var ErrInvalidSeparation = errors.New("invalid minimum separation")

// DedupResult is the outcome of Dedupe
type DedupResult struct {
	Kept     []Point
	Excluded []Point
	// Nearest[i] is the distance in meters from input point i to its nearest other
	// input point, +Inf when the input holds a single point.
	Nearest []float64
	// KeptIndex lists the input positions of Kept, in input order.
	KeptIndex []int
}

// Dedupe keeps the points whose nearest neighbour among all other input points is
// at least minSeparation meters away.
//
// The rule is local: each point is judged only by its own nearest neighbour, it is
// not a greedy selection that guarantees global separation of the kept set. Two
// points closer than the threshold are both excluded since each is the other's
// nearest neighbour.
//
// Every unordered pair is measured once, so the cost is O(N²) time and O(N) extra
// space. This is fine for the few hundred candidates a town produces; larger inputs
// need a spatial index for the nearest neighbour query.
func Dedupe(points []Point, minSeparation float64) (DedupResult, error) {
	if math.IsNaN(minSeparation) || minSeparation < 0 {
		return DedupResult{}, fmt.Errorf("%w: %v", ErrInvalidSeparation, minSeparation)
	}
	for i, p := range points {
		if err := p.Validate(); err != nil {
			return DedupResult{}, fmt.Errorf("candidate %d: %w", i, err)
		}
	}

	nearest := make([]float64, len(points))
	for i := range nearest {
		nearest[i] = math.Inf(1)
	}

	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			d := HaversineDistance(points[i].Lat, points[i].Lon, points[j].Lat, points[j].Lon)
			if d < nearest[i] {
				nearest[i] = d
			}
			if d < nearest[j] {
				nearest[j] = d
			}
		}
	}

	result := DedupResult{Nearest: nearest}
	for i, p := range points {
		if nearest[i] >= minSeparation {
			result.Kept = append(result.Kept, p)
			result.KeptIndex = append(result.KeptIndex, i)
		} else {
			result.Excluded = append(result.Excluded, p)
		}
	}

	return result, nil
}
