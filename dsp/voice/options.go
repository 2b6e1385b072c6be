package voice

import "go.uber.org/zap"

const (
	// DefaultTargetDB is the default RMS target in dBFS.
	DefaultTargetDB = -20.0
	// DefaultPeakLimit is the default absolute sample ceiling.
	DefaultPeakLimit = 0.85
)

type config struct {
	targetDB  float64
	peakLimit float64
	formant   FormantShifter
	pitch     PitchShifter
	logger    *zap.Logger
}

// Option configures Normalize, Blend and NewPipeline. Options that only make
// sense for a pipeline are ignored by the plain functions.
type Option func(*config)

// WithTargetDB sets the RMS target level in dBFS.
func WithTargetDB(db float64) Option {
	return func(cfg *config) {
		cfg.targetDB = db
	}
}

// WithPeakLimit sets the absolute sample ceiling. Values outside (0, 1] are
// ignored.
func WithPeakLimit(limit float64) Option {
	return func(cfg *config) {
		if limit > 0 && limit <= 1 {
			cfg.peakLimit = limit
		}
	}
}

// WithFormantShifter sets the formant stage of a pipeline.
func WithFormantShifter(s FormantShifter) Option {
	return func(cfg *config) {
		cfg.formant = s
	}
}

// WithPitchShifter sets the pitch stage of a pipeline.
func WithPitchShifter(s PitchShifter) Option {
	return func(cfg *config) {
		cfg.pitch = s
	}
}

// WithLogger sets the pipeline logger. Nil selects a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		targetDB:  DefaultTargetDB,
		peakLimit: DefaultPeakLimit,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	return cfg
}
