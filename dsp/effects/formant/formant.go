package formant

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/stft"
)

const (
	// MinFactor is the lowest accepted shift factor.
	MinFactor = 0.7
	// MaxFactor is the highest accepted shift factor.
	MaxFactor = 1.4

	defaultFrameSize       = 1024
	defaultHopSize         = 256
	defaultSmoothingWindow = 31
	minFrameSize           = 64

	identityEps = 1e-3
	magFloor    = 1e-7
)

var (
	// ErrInvalidConfig is returned by New for unusable frame, hop or
	// concurrency settings.
	ErrInvalidConfig = errors.New("formant: invalid configuration")
	// ErrInvalidFactor is returned for a NaN shift factor.
	ErrInvalidFactor = errors.New("formant: invalid shift factor")
)

// Transform converts between samples and a complex spectrogram.
// *stft.Transform satisfies it.
type Transform interface {
	Forward(samples []float64, frameSize, hop int) (*stft.Spectrogram, error)
	Inverse(spec *stft.Spectrogram, hop, length int) ([]float64, error)
}

// Option configures a Shifter.
type Option func(*Shifter)

// WithFrameSize sets the STFT frame size (power of two, >= 64).
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

// WithSmoothingWindow sets the width in bins of the moving average that
// extracts the spectral envelope. Even widths are widened by one; widths
// below 3 disable smoothing.
func WithSmoothingWindow(bins int) Option {
	return func(s *Shifter) {
		s.smoothing = bins
	}
}

// WithTransform replaces the default periodic-Hann STFT.
func WithTransform(tr Transform) Option {
	return func(s *Shifter) {
		if tr != nil {
			s.transform = tr
		}
	}
}

// WithConcurrency bounds the number of goroutines that process frames.
// The default is GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(s *Shifter) {
		s.workers = n
	}
}

// WithLogger sets the logger used for fallbacks. Nil selects a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Shifter) {
		s.logger = logger
	}
}

// Shifter is an immutable spectral-envelope formant shifter. It is safe for
// concurrent use.
type Shifter struct {
	frameSize int
	hop       int
	smoothing int
	workers   int
	transform Transform
	logger    *zap.Logger
}

// New returns a Shifter configured by opts, applied in order.
func New(opts ...Option) (*Shifter, error) {
	s := &Shifter{
		frameSize: defaultFrameSize,
		hop:       defaultHopSize,
		smoothing: defaultSmoothingWindow,
		workers:   runtime.GOMAXPROCS(0),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.frameSize < minFrameSize || !core.IsPowerOf2(s.frameSize) {
		return nil, fmt.Errorf("formant: frame size must be power-of-two and >= %d: %d: %w",
			minFrameSize, s.frameSize, ErrInvalidConfig)
	}

	if s.hop <= 0 || s.hop >= s.frameSize {
		return nil, fmt.Errorf("formant: hop must be in [1, %d): %d: %w", s.frameSize, s.hop, ErrInvalidConfig)
	}

	if s.workers <= 0 {
		return nil, fmt.Errorf("formant: concurrency must be positive: %d: %w", s.workers, ErrInvalidConfig)
	}

	if s.transform == nil {
		s.transform = stft.New()
	}

	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	return s, nil
}

// FrameSize returns the STFT frame size.
func (s *Shifter) FrameSize() int { return s.frameSize }

// HopSize returns the STFT hop size.
func (s *Shifter) HopSize() int { return s.hop }

// SmoothingWindow returns the configured envelope smoothing width.
func (s *Shifter) SmoothingWindow() int { return s.smoothing }

// ClampFactor limits factor to [MinFactor, MaxFactor].
func ClampFactor(factor float64) float64 {
	return core.Clamp(factor, MinFactor, MaxFactor)
}

// Shift moves the formants of samples by factor.
//
// The returned slice always has the same length as samples. If processing
// fails, the failure is logged and a copy of samples is returned.
func (s *Shifter) Shift(samples []float64, sampleRate int, factor float64) []float64 {
	out, err := s.ShiftWithError(samples, sampleRate, factor)
	if err != nil {
		s.logger.Warn("formant shift failed, returning input unchanged",
			zap.Int("samples", len(samples)),
			zap.Float64("factor", factor),
			zap.Error(err),
		)

		return core.Clone(samples)
	}

	return out
}

// ShiftWithError moves the formants of samples by factor and reports errors.
//
// factor is clamped to [MinFactor, MaxFactor]; a clamped factor within 1e-3
// of 1, empty input and silent input return a copy of samples. sampleRate
// does not affect the result: the envelope is warped in bins.
func (s *Shifter) ShiftWithError(samples []float64, sampleRate int, factor float64) ([]float64, error) {
	if math.IsNaN(factor) {
		return nil, ErrInvalidFactor
	}

	if len(samples) == 0 {
		return []float64{}, nil
	}

	factor = ClampFactor(factor)
	if math.Abs(factor-1) < identityEps {
		return core.Clone(samples), nil
	}

	spec, err := s.transform.Forward(samples, s.frameSize, s.hop)
	if err != nil {
		return nil, fmt.Errorf("formant: forward transform: %w", err)
	}

	if spec == nil || spec.Empty() {
		s.logger.Debug("empty spectrogram, skipping formant shift", zap.Int("sample_rate", sampleRate))
		return core.Clone(samples), nil
	}

	mag, phase := spec.Polar()
	if silent(mag) {
		s.logger.Debug("silent input, skipping formant shift", zap.Int("sample_rate", sampleRate))
		return core.Clone(samples), nil
	}

	if err := s.warpFrames(mag, factor); err != nil {
		return nil, err
	}

	out, err := s.transform.Inverse(stft.FromPolar(spec.FrameSize, mag, phase), s.hop, len(samples))
	if err != nil {
		return nil, fmt.Errorf("formant: inverse transform: %w", err)
	}

	if len(out) != len(samples) {
		return nil, fmt.Errorf("formant: inverse transform returned %d samples, want %d", len(out), len(samples))
	}

	return out, nil
}
