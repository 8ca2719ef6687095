package stats

// Percentile calculates the p-th percentile (0-100)
// Uses linear interpolation between closest ranks
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}

	return Quantile(values, p/100.0)
}

// Summary holds the distribution figures reported for a metric
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	P50   float64 `json:"p50"`
	P90   float64 `json:"p90"`
	Max   float64 `json:"max"`
}

// Summarize computes count, mean, min, median, p90 and max
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	return Summary{
		Count: len(values),
		Mean:  Mean(values),
		Min:   Min(values),
		P50:   Percentile(values, 50),
		P90:   Percentile(values, 90),
		Max:   Max(values),
	}
}
