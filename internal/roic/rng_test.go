package roic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededRNGReproducible(t *testing.T) {
	a := NewSeededRNG(42, 0)
	b := NewSeededRNG(42, 0)
	c := NewSeededRNG(42, 1)
	same, differ := true, false
	for i := 0; i < 100; i++ {
		x, y, z := a.Normal(0, 1), b.Normal(0, 1), c.Normal(0, 1)
		same = same && x == y
		differ = differ || x != z
	}
	assert.True(t, same, "equal seed and stream must give equal draws")
	assert.True(t, differ, "streams must be independent")
}

func TestNormalStatApprox(t *testing.T) {
	const n = 100000
	for name, rng := range map[string]RandomSource{
		"seeded": NewSeededRNG(7, 3),
		"crypto": DefaultRNG(),
	} {
		t.Run(name, func(t *testing.T) {
			xs := make([]float64, n)
			for i := range xs {
				xs[i] = rng.Normal(0.1, 0.05)
			}
			s := Summarize(xs)
			// should be around N(0.1, 0.05)
			assert.InDelta(t, 0.1, s.Mean, 0.001)
			assert.InDelta(t, 0.05, s.Std, 0.001)
		})
	}
}

func TestExpectedValue(t *testing.T) {
	rng := ExpectedValue()
	assert.Equal(t, 0.123, rng.Normal(0.123, 5))
	assert.Equal(t, -2.0, NoiseFree()(9).Normal(-2, 0.1))
}

func TestZeroSigmaIsMean(t *testing.T) {
	assert.Equal(t, 0.2, NewSeededRNG(1, 1).Normal(0.2, 0))
}
