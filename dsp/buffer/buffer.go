package buffer

import "time"

// Signal is a mono sample sequence with an associated sample rate in Hz.
type Signal struct {
	samples    []float64
	sampleRate int
}

// New returns a zero-filled Signal of the given length.
func New(length, sampleRate int) *Signal {
	if length < 0 {
		length = 0
	}
	return &Signal{samples: make([]float64, length), sampleRate: sampleRate}
}

// FromSlice wraps an existing slice without copying.
// Mutations to the slice are visible through the Signal and vice versa.
func FromSlice(s []float64, sampleRate int) *Signal {
	return &Signal{samples: s, sampleRate: sampleRate}
}

// Samples returns the underlying slice.
func (s *Signal) Samples() []float64 {
	return s.samples
}

// SampleRate returns the sample rate in Hz.
func (s *Signal) SampleRate() int {
	return s.sampleRate
}

// Len returns the current number of samples.
func (s *Signal) Len() int {
	return len(s.samples)
}

// Empty reports whether the signal holds no samples.
func (s *Signal) Empty() bool {
	return len(s.samples) == 0
}

// Seconds returns the signal length in seconds, or 0 for a non-positive rate.
func (s *Signal) Seconds() float64 {
	if s.sampleRate <= 0 {
		return 0
	}
	return float64(len(s.samples)) / float64(s.sampleRate)
}

// Duration returns the signal length as a time.Duration.
func (s *Signal) Duration() time.Duration {
	return time.Duration(s.Seconds() * float64(time.Second))
}

// Resize sets the length to n, truncating or appending zeros at the end.
// New elements beyond the previous length are zeroed.
func (s *Signal) Resize(n int) {
	if n < 0 {
		n = 0
	}
	oldLen := len(s.samples)
	if n <= cap(s.samples) {
		s.samples = s.samples[:n]
	} else {
		grown := make([]float64, n)
		copy(grown, s.samples)
		s.samples = grown
	}
	// Zero any newly exposed elements that may have stale data from
	// previous use of the backing array.
	for i := oldLen; i < n; i++ {
		s.samples[i] = 0
	}
}

// Copy returns a deep copy of the signal.
func (s *Signal) Copy() *Signal {
	out := make([]float64, len(s.samples))
	copy(out, s.samples)
	return &Signal{samples: out, sampleRate: s.sampleRate}
}

// WithSamples returns a new Signal carrying samples at the receiver's rate.
func (s *Signal) WithSamples(samples []float64) *Signal {
	return &Signal{samples: samples, sampleRate: s.sampleRate}
}
