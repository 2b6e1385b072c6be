package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// HarmonicTone generates a voiced-like tone: harmonics of f0 with 1/k
// amplitude roll-off, scaled so the peak does not exceed amplitude.
func HarmonicTone(f0, sampleRate, amplitude float64, harmonics, length int) []float64 {
	out := make([]float64, length)
	norm := 0.0
	for k := 1; k <= harmonics; k++ {
		norm += 1 / float64(k)
	}
	if norm == 0 {
		return out
	}
	for i := range out {
		x := 0.0
		for k := 1; k <= harmonics; k++ {
			f := f0 * float64(k)
			if f >= sampleRate/2 {
				break
			}
			x += math.Sin(2*math.Pi*f*float64(i)/sampleRate) / float64(k)
		}
		out[i] = amplitude * x / norm
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
