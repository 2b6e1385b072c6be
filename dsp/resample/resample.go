package resample

import (
	"errors"

	"github.com/cwbudde/algo-voice/dsp/core"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

// Quality controls default anti-aliasing filter settings.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default quality/performance trade-off.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation and passband flatness.
	QualityBest
)

// Profile exposes default filter parameters for each quality mode.
type Profile struct {
	TapsPerPhase int
	CutoffScale  float64
	KaiserBeta   float64
}

// QualityProfile returns the default profile used by quality mode q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5.0}
	case QualityBest:
		return Profile{TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9.0}
	default:
		return Profile{TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5}
	}
}

const defaultMaxDen = 4096

type config struct {
	quality      Quality
	tapsPerPhase int
	maxDen       int
}

// Option configures a conversion.
type Option func(*config)

// WithQuality selects a predefined anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithTapsPerPhase overrides taps per polyphase branch.
func WithTapsPerPhase(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.tapsPerPhase = n
		}
	}
}

// WithMaxDenominator bounds the denominator used when Convert approximates
// a rate ratio as a fraction. Smaller values trade ratio accuracy for a
// shorter filter.
func WithMaxDenominator(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxDen = n
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{quality: QualityBalanced, maxDen: defaultMaxDen}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.tapsPerPhase <= 0 {
		cfg.tapsPerPhase = QualityProfile(cfg.quality).TapsPerPhase
	}

	return cfg
}

// Ratio approximates outRate/inRate as a reduced fraction up/down with
// down <= maxDen.
func Ratio(inRate, outRate float64, maxDen int) (up, down int, err error) {
	if !core.IsFinitePositive(inRate) || !core.IsFinitePositive(outRate) {
		return 0, 0, ErrInvalidRate
	}

	up, down = approximateRatio(outRate/inRate, maxDen)

	return up, down, nil
}

// Convert resamples input from inRate to outRate.
// Equal rates return a copy of the input.
func Convert(input []float64, inRate, outRate float64, opts ...Option) ([]float64, error) {
	cfg := newConfig(opts)

	up, down, err := Ratio(inRate, outRate, cfg.maxDen)
	if err != nil {
		return nil, err
	}

	return resample(input, up, down, cfg)
}

// Resample converts input by the rational factor up/down.
func Resample(input []float64, up, down int, opts ...Option) ([]float64, error) {
	if up <= 0 || down <= 0 {
		return nil, ErrInvalidRatio
	}

	return resample(input, up, down, newConfig(opts))
}

// OutputLen returns the number of samples produced for n input samples.
func OutputLen(n, up, down int) int {
	if n <= 0 || up <= 0 || down <= 0 {
		return 0
	}

	g := gcd(up, down)
	up /= g
	down /= g

	return (n*up + down - 1) / down
}

func resample(input []float64, up, down int, cfg config) ([]float64, error) {
	g := gcd(up, down)
	up /= g
	down /= g

	if up == down {
		out := make([]float64, len(input))
		copy(out, input)

		return out, nil
	}

	if len(input) == 0 {
		return []float64{}, nil
	}

	taps, err := designPrototype(up, down, cfg)
	if err != nil {
		return nil, err
	}

	n := len(input)
	nTaps := len(taps)
	delay := (nTaps - 1) / 2
	out := make([]float64, OutputLen(n, up, down))

	// The filter runs at the virtual rate n*up where only every up-th
	// sample is non-zero, so each output touches at most nTaps/up inputs.
	for m := range out {
		pos := m*down + delay

		qHi := min(pos/up, n-1)
		qLo := 0
		if lo := pos - nTaps + 1; lo > 0 {
			qLo = (lo + up - 1) / up
		}

		var y float64
		for q := qLo; q <= qHi; q++ {
			y += taps[pos-q*up] * input[q]
		}

		out[m] = y
	}

	return out, nil
}
