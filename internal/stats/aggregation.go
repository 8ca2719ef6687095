package stats

import (
	"math"
	"sort"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	return Sum(values) / float64(len(values))
}

// Min returns the minimum value
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the maximum value
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Sum returns the sum of all values
func Sum(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}

// Quantile calculates the q-th quantile (0 <= q <= 1)
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}

	// Create a copy to avoid modifying the original slice
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := float64(len(sorted))
	index := q * (n - 1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	// Linear interpolation
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Normalize min-max scales values to the [0, 1] range.
// When every value is equal the range is zero and all values scale to 0.
func Normalize(values []float64) []float64 {
	result := make([]float64, len(values))
	min := Min(values)
	rangeVal := Max(values) - min

	if rangeVal == 0 {
		return result
	}

	for i, v := range values {
		result[i] = (v - min) / rangeVal
	}

	return result
}

// Softmax converts scores into a probability distribution.
// The maximum is subtracted before exponentiating so large scores cannot overflow.
func Softmax(scores []float64) []float64 {
	result := make([]float64, len(scores))
	if len(scores) == 0 {
		return result
	}

	max := Max(scores)
	var sum float64
	for i, s := range scores {
		result[i] = math.Exp(s - max)
		sum += result[i]
	}
	for i := range result {
		result[i] /= sum
	}

	return result
}

// MinRank assigns competition ranks (1 = smallest). Tied values share the
// lowest rank of their group and the next distinct value skips ahead, e.g.
// [10, 20, 20, 30] -> [1, 2, 2, 4].
func MinRank(values []float64) []int {
	n := len(values)
	if n == 0 {
		return nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return values[order[i]] < values[order[j]]
	})

	ranks := make([]int, n)
	i := 0
	for i < n {
		j := i
		for j < n && values[order[j]] == values[order[i]] {
			j++
		}
		for k := i; k < j; k++ {
			ranks[order[k]] = i + 1
		}
		i = j
	}

	return ranks
}
