package voice

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-voice/dsp/buffer"
	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/effects/formant"
	"github.com/cwbudde/algo-voice/dsp/effects/pitch"
)

const stageEps = 1e-3

// FormantShifter moves the spectral envelope of a signal by factor while
// keeping its length. *formant.Shifter satisfies it.
type FormantShifter interface {
	ShiftWithError(samples []float64, sampleRate int, factor float64) ([]float64, error)
}

// PitchShifter moves the pitch of a signal by semitones while keeping its
// length. *pitch.Shifter satisfies it.
type PitchShifter interface {
	Shift(samples []float64, sampleRate int, semitones float64) ([]float64, error)
}

// Pipeline applies formant shift, pitch shift, sanitization and
// normalization in that order. It is immutable and safe for concurrent use
// when its stages are.
type Pipeline struct {
	targetDB  float64
	peakLimit float64
	formant   FormantShifter
	pitch     PitchShifter
	logger    *zap.Logger
}

// NewPipeline builds a pipeline. Missing stages default to formant.New and
// pitch.New.
func NewPipeline(opts ...Option) (*Pipeline, error) {
	cfg := newConfig(opts)

	if cfg.formant == nil {
		fs, err := formant.New(formant.WithLogger(cfg.logger))
		if err != nil {
			return nil, fmt.Errorf("voice: formant stage: %w", err)
		}

		cfg.formant = fs
	}

	if cfg.pitch == nil {
		ps, err := pitch.New()
		if err != nil {
			return nil, fmt.Errorf("voice: pitch stage: %w", err)
		}

		cfg.pitch = ps
	}

	return &Pipeline{
		targetDB:  cfg.targetDB,
		peakLimit: cfg.peakLimit,
		formant:   cfg.formant,
		pitch:     cfg.pitch,
		logger:    cfg.logger,
	}, nil
}

// TargetDB returns the normalization target in dBFS.
func (p *Pipeline) TargetDB() float64 { return p.targetDB }

// PeakLimit returns the normalization peak ceiling.
func (p *Pipeline) PeakLimit() float64 { return p.peakLimit }

// Apply runs the pipeline. When both parameters are within 1e-3 of their
// neutral values the input is returned as a copy without normalization. A
// failing stage is logged and skipped. The default pitch shifter rejects
// shifts beyond ±pitch.MaxSemitones, so such a request leaves the pitch
// unchanged; use ApplyWithError to observe that.
func (p *Pipeline) Apply(samples []float64, sampleRate int, pitchSemitones, formantFactor float64) []float64 {
	out, _ := p.apply(samples, sampleRate, pitchSemitones, formantFactor, false)

	return out
}

// ApplyWithError runs the pipeline and stops at the first failing stage.
func (p *Pipeline) ApplyWithError(samples []float64, sampleRate int, pitchSemitones, formantFactor float64) ([]float64, error) {
	return p.apply(samples, sampleRate, pitchSemitones, formantFactor, true)
}

// ApplySignal runs Apply on sig and returns a new signal at the same rate.
func (p *Pipeline) ApplySignal(sig *buffer.Signal, pitchSemitones, formantFactor float64) *buffer.Signal {
	return sig.WithSamples(p.Apply(sig.Samples(), sig.SampleRate(), pitchSemitones, formantFactor))
}

func (p *Pipeline) apply(samples []float64, sampleRate int, pitchSemitones, formantFactor float64, strict bool) ([]float64, error) {
	if len(samples) == 0 {
		return []float64{}, nil
	}

	doFormant := math.Abs(formantFactor-1) > stageEps
	doPitch := math.Abs(pitchSemitones) > stageEps

	if !doFormant && !doPitch {
		return core.Clone(samples), nil
	}

	out := samples

	if doFormant {
		shifted, err := p.formant.ShiftWithError(out, sampleRate, formantFactor)

		switch {
		case err == nil:
			out = shifted
		case strict:
			return nil, fmt.Errorf("voice: formant stage: %w", err)
		default:
			p.skipStage("formant", err)
		}
	}

	if doPitch {
		shifted, err := p.pitch.Shift(out, sampleRate, pitchSemitones)

		switch {
		case err == nil:
			out = shifted
		case strict:
			return nil, fmt.Errorf("voice: pitch stage: %w", err)
		default:
			p.skipStage("pitch", err)
		}
	}

	return normalize(Sanitize(out), p.targetDB, p.peakLimit), nil
}

func (p *Pipeline) skipStage(stage string, err error) {
	p.logger.Warn("voice effect stage failed, skipping", zap.String("stage", stage), zap.Error(err))
}
