package mobility

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStayModelDrawsWithinBounds(t *testing.T) {
	m, err := NewStayModel(StayDistribution{Mean: 0.5, SD: 0.1, Low: 0.1, Upp: 0.9, RoundDecimals: -1})
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 2))
	var sum float64
	const n = 20000
	for i := 0; i < n; i++ {
		p := m.Draw(rng)
		require.True(t, p > 0.1 && p < 0.9, "draw %v outside (0.1, 0.9)", p)
		sum += p
	}
	assert.InDelta(t, 0.5, sum/n, 0.01)
}

func TestStayModelRounding(t *testing.T) {
	m := mustStayModel(t)
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 1000; i++ {
		p := m.Draw(rng)
		assert.InDelta(t, math.Round(p*10)/10, p, 1e-12)
		assert.GreaterOrEqual(t, p, 0.1)
		assert.LessOrEqual(t, p, 0.9)
	}
}

func TestStayModelTruncatesSkewedDistribution(t *testing.T) {
	// most of the untruncated mass lies above upp
	m, err := NewStayModel(StayDistribution{Mean: 0.95, SD: 0.05, Low: 0.2, Upp: 0.6, RoundDecimals: -1})
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(5, 6))
	for i := 0; i < 1000; i++ {
		p := m.Draw(rng)
		assert.GreaterOrEqual(t, p, 0.2)
		assert.LessOrEqual(t, p, 0.6)
	}
}

func TestStayModelDeterministic(t *testing.T) {
	m := mustStayModel(t)
	a := rand.New(rand.NewPCG(11, 12))
	b := rand.New(rand.NewPCG(11, 12))
	for i := 0; i < 100; i++ {
		assert.Equal(t, m.Draw(a), m.Draw(b))
	}
}

func TestStayDistributionValidate(t *testing.T) {
	tests := []struct {
		name string
		dist StayDistribution
	}{
		{"low equals upp", StayDistribution{Mean: 0.5, SD: 0.1, Low: 0.5, Upp: 0.5}},
		{"low above upp", StayDistribution{Mean: 0.5, SD: 0.1, Low: 0.9, Upp: 0.1}},
		{"zero sd", StayDistribution{Mean: 0.5, SD: 0, Low: 0.1, Upp: 0.9}},
		{"negative low", StayDistribution{Mean: 0.5, SD: 0.1, Low: -0.1, Upp: 0.9}},
		{"upp above one", StayDistribution{Mean: 0.5, SD: 0.1, Low: 0.1, Upp: 1.5}},
		{"nan mean", StayDistribution{Mean: math.NaN(), SD: 0.1, Low: 0.1, Upp: 0.9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStayModel(tt.dist)
			assert.ErrorIs(t, err, ErrInvalidStayDistribution)
		})
	}
}
