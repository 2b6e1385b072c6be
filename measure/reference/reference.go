package reference

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-voice/stats/level"
	"github.com/cwbudde/algo-voice/wavfile"
)

const (
	defaultMinDuration = 2.0
	defaultMaxDuration = 30.0
	defaultMinRMS      = 0.01
	defaultClipLevel   = 0.99
	defaultSampleRate  = 24000
)

var (
	// ErrTooShort reports a recording below the minimum duration.
	ErrTooShort = errors.New("reference: audio too short")
	// ErrTooLong reports a recording above the maximum duration.
	ErrTooLong = errors.New("reference: audio too long")
	// ErrTooQuiet reports a recording whose RMS is below the minimum.
	ErrTooQuiet = errors.New("reference: audio too quiet")
	// ErrClipping reports a recording whose peak exceeds the clip level.
	ErrClipping = errors.New("reference: audio clipping")
	// ErrLoad reports a recording that could not be loaded.
	ErrLoad = errors.New("reference: load failed")
)

// Loader decodes an audio file to mono samples at sampleRate.
type Loader interface {
	LoadMono(path string, sampleRate int) ([]float64, int, error)
}

// Report is the outcome of validating one recording.
type Report struct {
	Path     string
	Valid    bool
	Reason   string
	Err      error
	Duration time.Duration
	RMS      float64
	Peak     float64
}

// Option configures a Validator.
type Option func(*Validator)

// WithMinDuration sets the shortest accepted duration in seconds.
func WithMinDuration(seconds float64) Option {
	return func(v *Validator) {
		v.minDuration = seconds
	}
}

// WithMaxDuration sets the longest accepted duration in seconds.
func WithMaxDuration(seconds float64) Option {
	return func(v *Validator) {
		v.maxDuration = seconds
	}
}

// WithMinRMS sets the quietest accepted RMS level.
func WithMinRMS(rms float64) Option {
	return func(v *Validator) {
		v.minRMS = rms
	}
}

// WithClipLevel sets the absolute peak above which a recording counts as clipping.
func WithClipLevel(peak float64) Option {
	return func(v *Validator) {
		v.clipLevel = peak
	}
}

// WithSampleRate sets the rate recordings are loaded at.
func WithSampleRate(rate int) Option {
	return func(v *Validator) {
		if rate > 0 {
			v.sampleRate = rate
		}
	}
}

// WithLoader replaces the WAV loader.
func WithLoader(l Loader) Option {
	return func(v *Validator) {
		if l != nil {
			v.loader = l
		}
	}
}

// WithLogger sets the logger. Nil selects a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// Validator checks reference recordings. It is immutable and safe for
// concurrent use when its loader is.
type Validator struct {
	minDuration float64
	maxDuration float64
	minRMS      float64
	clipLevel   float64
	sampleRate  int
	loader      Loader
	logger      *zap.Logger
}

// New returns a Validator with the given options applied in order.
func New(opts ...Option) (*Validator, error) {
	v := &Validator{
		minDuration: defaultMinDuration,
		maxDuration: defaultMaxDuration,
		minRMS:      defaultMinRMS,
		clipLevel:   defaultClipLevel,
		sampleRate:  defaultSampleRate,
		loader:      wavfile.Loader{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}

	if v.logger == nil {
		v.logger = zap.NewNop()
	}

	if math.IsNaN(v.minDuration) || math.IsNaN(v.maxDuration) || v.minDuration < 0 || v.maxDuration < v.minDuration {
		return nil, fmt.Errorf("reference: invalid duration range [%g, %g]", v.minDuration, v.maxDuration)
	}

	if math.IsNaN(v.minRMS) || v.minRMS < 0 {
		return nil, fmt.Errorf("reference: invalid minimum RMS %g", v.minRMS)
	}

	if math.IsNaN(v.clipLevel) || v.clipLevel <= 0 {
		return nil, fmt.Errorf("reference: invalid clip level %g", v.clipLevel)
	}

	return v, nil
}

// Validate loads path and checks it.
func (v *Validator) Validate(path string) Report {
	samples, rate, err := v.loader.LoadMono(path, v.sampleRate)
	if err == nil && rate <= 0 {
		err = fmt.Errorf("invalid sample rate %d", rate)
	}

	if err != nil {
		v.logger.Debug("reference load failed", zap.String("path", path), zap.Error(err))

		return Report{
			Path:   path,
			Reason: "Error validating audio: " + err.Error(),
			Err:    fmt.Errorf("%w: %w", ErrLoad, err),
		}
	}

	r := v.ValidateSamples(samples, rate)
	r.Path = path

	v.logger.Debug("reference validated",
		zap.String("path", path),
		zap.Bool("valid", r.Valid),
		zap.String("reason", r.Reason),
	)

	return r
}

// ValidateSamples checks in-memory mono audio.
func (v *Validator) ValidateSamples(samples []float64, sampleRate int) Report {
	if sampleRate <= 0 {
		return Report{
			Reason: fmt.Sprintf("Error validating audio: invalid sample rate %d", sampleRate),
			Err:    fmt.Errorf("%w: invalid sample rate %d", ErrLoad, sampleRate),
		}
	}

	seconds := float64(len(samples)) / float64(sampleRate)
	r := Report{Duration: time.Duration(seconds * float64(time.Second))}

	if seconds < v.minDuration {
		r.Reason = fmt.Sprintf("Audio too short (minimum %s seconds)", formatSeconds(v.minDuration))
		r.Err = ErrTooShort

		return r
	}

	if seconds > v.maxDuration {
		r.Reason = fmt.Sprintf("Audio too long (maximum %s seconds)", formatSeconds(v.maxDuration))
		r.Err = ErrTooLong

		return r
	}

	st := level.Measure(samples)
	r.RMS = st.RMS
	r.Peak = st.Peak

	if st.RMS < v.minRMS {
		r.Reason = "Audio is too quiet or silent"
		r.Err = ErrTooQuiet

		return r
	}

	if st.Peak > v.clipLevel {
		r.Reason = "Audio is clipping (reduce input gain)"
		r.Err = ErrClipping

		return r
	}

	r.Valid = true

	return r
}

// ValidateAll validates paths with at most concurrency loads in flight.
// Reports are returned in the order of paths. The only error is the
// context's, in which case reports for unvisited paths are zero values.
func (v *Validator) ValidateAll(ctx context.Context, paths []string, concurrency int) ([]Report, error) {
	reports := make([]Report, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			reports[i] = v.Validate(path)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return reports, err
	}

	if err := ctx.Err(); err != nil {
		return reports, err
	}

	return reports, nil
}

// formatSeconds renders whole numbers with one decimal ("2.0") and other
// values in their shortest form.
func formatSeconds(s float64) string {
	if s == math.Trunc(s) && !math.IsInf(s, 0) {
		return strconv.FormatFloat(s, 'f', 1, 64)
	}

	return strconv.FormatFloat(s, 'f', -1, 64)
}
