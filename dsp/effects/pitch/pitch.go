package pitch

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/resample"
	"github.com/cwbudde/algo-voice/dsp/stft"
)

const (
	defaultFrameSize = 2048
	defaultHopSize   = 512
	defaultMaxDen    = 512
	minFrameSize     = 64

	// MaxSemitones bounds the accepted shift in either direction.
	MaxSemitones = 24.0

	identityEps = 1e-9
)

var (
	// ErrInvalidSemitones is returned for non-finite or out-of-range shifts.
	ErrInvalidSemitones = errors.New("pitch: invalid semitones")
	// ErrInvalidSampleRate is returned for a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("pitch: invalid sample rate")
	// ErrInvalidConfig is returned by New for unusable frame or hop sizes.
	ErrInvalidConfig = errors.New("pitch: invalid configuration")
)

// Option configures a Shifter.
type Option func(*Shifter)

// WithFrameSize sets the STFT frame size. It must be a power of two >= 64.
func WithFrameSize(n int) Option {
	return func(s *Shifter) {
		s.frameSize = n
	}
}

// WithHopSize sets the STFT hop in samples.
func WithHopSize(n int) Option {
	return func(s *Shifter) {
		s.hop = n
	}
}

// WithResampleQuality selects the resampler quality used for duration correction.
func WithResampleQuality(q resample.Quality) Option {
	return func(s *Shifter) {
		s.quality = q
	}
}

// WithMaxDenominator bounds the denominator of the rational resampling ratio.
func WithMaxDenominator(n int) Option {
	return func(s *Shifter) {
		if n > 0 {
			s.maxDen = n
		}
	}
}

// Shifter is an immutable phase-vocoder pitch shifter. It is safe for
// concurrent use.
type Shifter struct {
	frameSize int
	hop       int
	quality   resample.Quality
	maxDen    int
	transform *stft.Transform
}

// New returns a Shifter with the given options applied in order.
func New(opts ...Option) (*Shifter, error) {
	s := &Shifter{
		frameSize: defaultFrameSize,
		hop:       defaultHopSize,
		quality:   resample.QualityBalanced,
		maxDen:    defaultMaxDen,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.frameSize < minFrameSize || !core.IsPowerOf2(s.frameSize) {
		return nil, fmt.Errorf("pitch: frame size must be power-of-two and >= %d: %d: %w",
			minFrameSize, s.frameSize, ErrInvalidConfig)
	}

	if s.hop <= 0 || s.hop >= s.frameSize {
		return nil, fmt.Errorf("pitch: hop must be in [1, %d): %d: %w", s.frameSize, s.hop, ErrInvalidConfig)
	}

	s.transform = stft.New()

	return s, nil
}

// FrameSize returns the STFT frame size.
func (s *Shifter) FrameSize() int { return s.frameSize }

// HopSize returns the STFT hop size.
func (s *Shifter) HopSize() int { return s.hop }

// Shift moves the pitch of samples by semitones and returns a new slice of
// the same length. A zero shift returns a copy of the input.
func (s *Shifter) Shift(samples []float64, sampleRate int, semitones float64) ([]float64, error) {
	if !core.IsFinite(semitones) || math.Abs(semitones) > MaxSemitones {
		return nil, fmt.Errorf("pitch: semitones must be finite and within ±%g: %g: %w",
			MaxSemitones, semitones, ErrInvalidSemitones)
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("pitch: %d: %w", sampleRate, ErrInvalidSampleRate)
	}

	if len(samples) == 0 {
		return []float64{}, nil
	}

	if math.Abs(semitones) < identityEps {
		return core.Clone(samples), nil
	}

	// rate > 1 shortens the signal; resampling it back to the input
	// duration then lowers the pitch.
	rate := core.SemitonesToRatio(-semitones)

	stretched, err := s.stretch(samples, rate)
	if err != nil {
		return nil, err
	}

	sr := float64(sampleRate)

	out, err := resample.Convert(stretched, sr/rate, sr,
		resample.WithQuality(s.quality),
		resample.WithMaxDenominator(s.maxDen),
	)
	if err != nil {
		return nil, fmt.Errorf("pitch: resample: %w", err)
	}

	return core.FitLength(out, len(samples)), nil
}

// stretch changes the duration of samples by 1/rate without changing pitch.
func (s *Shifter) stretch(samples []float64, rate float64) ([]float64, error) {
	spec, err := s.transform.Forward(samples, s.frameSize, s.hop)
	if err != nil {
		return nil, fmt.Errorf("pitch: analysis: %w", err)
	}

	stretched := phaseVocoder(spec, rate, s.hop)

	length := int(math.Round(float64(len(samples)) / rate))

	out, err := s.transform.Inverse(stretched, s.hop, length)
	if err != nil {
		return nil, fmt.Errorf("pitch: synthesis: %w", err)
	}

	return out, nil
}
