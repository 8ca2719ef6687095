package mobility

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// StayDistribution parameterises the truncated normal that stay probabilities are drawn from
type StayDistribution struct {
	Mean float64 `yaml:"mean" json:"mean"`
	SD   float64 `yaml:"sd" json:"sd"`
	Low  float64 `yaml:"low" json:"low"`
	Upp  float64 `yaml:"upp" json:"upp"`
	// RoundDecimals rounds each draw to that many decimal places; a negative
	// value keeps full precision.
	RoundDecimals int `yaml:"round_decimals" json:"roundDecimals"`
}

// Validate checks the distribution parameters
func (d StayDistribution) Validate() error {
	for _, v := range []float64{d.Mean, d.SD, d.Low, d.Upp} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: parameters must be finite", ErrInvalidStayDistribution)
		}
	}
	if d.Low >= d.Upp {
		return fmt.Errorf("%w: low %v must be below upp %v", ErrInvalidStayDistribution, d.Low, d.Upp)
	}
	if d.SD <= 0 {
		return fmt.Errorf("%w: sd must be positive, got %v", ErrInvalidStayDistribution, d.SD)
	}
	if d.Low < 0 || d.Upp > 1 {
		return fmt.Errorf("%w: bounds must lie within [0, 1]", ErrInvalidStayDistribution)
	}
	return nil
}

// StayModel draws per-subscriber stay probabilities from a normal distribution
// truncated to (Low, Upp) by inverse-CDF sampling. It holds no random state.
type StayModel struct {
	dist   StayDistribution
	normal distuv.Normal
	cdfLow float64
	cdfUpp float64
}

// NewStayModel validates d and prepares the truncated sampler
func NewStayModel(d StayDistribution) (*StayModel, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	normal := distuv.Normal{Mu: d.Mean, Sigma: d.SD}
	return &StayModel{
		dist:   d,
		normal: normal,
		cdfLow: normal.CDF(d.Low),
		cdfUpp: normal.CDF(d.Upp),
	}, nil
}

// Draw samples one stay probability using rng
func (m *StayModel) Draw(rng *rand.Rand) float64 {
	u := m.cdfLow + rng.Float64()*(m.cdfUpp-m.cdfLow)
	x := m.normal.Quantile(u)

	if m.dist.RoundDecimals >= 0 {
		factor := math.Pow(10, float64(m.dist.RoundDecimals))
		x = math.Round(x*factor) / factor
	}

	// the quantile can leave the bounds when they sit deep in a tail
	return math.Min(m.dist.Upp, math.Max(m.dist.Low, x))
}
