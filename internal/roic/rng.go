package roic

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// RandomSource draws the revenue growth noise used by the projector.
// Implementations need not be safe for concurrent use; the projector
// hands every scenario its own source.
type RandomSource interface {
	Normal(mu, sigma float64) float64
}

// SourceFactory builds an independent RandomSource per scenario stream.
type SourceFactory func(stream uint64) RandomSource

// cryptoSource feeds crypto/rand bits to gonum as a rand.Source.
type cryptoSource struct{}

func (cryptoSource) Uint64() uint64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return rand.Uint64()
	}
	return binary.BigEndian.Uint64(buf[:])
}

type normalRNG struct {
	src rand.Source
}

func (r normalRNG) Normal(mu, sigma float64) float64 {
	d := distuv.Normal{Mu: mu, Sigma: sigma, Src: r.src}
	return d.Rand()
}

// DefaultRNG returns a non-reproducible source backed by crypto/rand.
func DefaultRNG() RandomSource { return normalRNG{src: cryptoSource{}} }

// NewSeededRNG returns a reproducible PCG-backed source. Different streams
// with the same seed produce unrelated sequences.
func NewSeededRNG(seed, stream uint64) RandomSource {
	return normalRNG{src: rand.NewPCG(seed, stream)}
}

// expectedValue ignores sigma and always returns the mean.
type expectedValue struct{}

func (expectedValue) Normal(mu, _ float64) float64 { return mu }

// ExpectedValue returns a source with no noise: every draw is exactly mu.
func ExpectedValue() RandomSource { return expectedValue{} }

// CryptoSources is the default factory.
func CryptoSources() SourceFactory {
	return func(uint64) RandomSource { return DefaultRNG() }
}

// SeededSources derives one PCG stream per scenario from a single seed.
func SeededSources(seed uint64) SourceFactory {
	return func(stream uint64) RandomSource { return NewSeededRNG(seed, stream) }
}

// NoiseFree makes every scenario use ExpectedValue.
func NoiseFree() SourceFactory {
	return func(uint64) RandomSource { return ExpectedValue() }
}
