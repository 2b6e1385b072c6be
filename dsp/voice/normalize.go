package voice

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/stats/level"
)

// Normalize scales samples so their RMS equals the target level and then
// clips every sample to ±peak limit. Silent input is only clipped. Empty
// input yields an empty slice.
func Normalize(samples []float64, opts ...Option) []float64 {
	cfg := newConfig(opts)

	return normalize(samples, cfg.targetDB, cfg.peakLimit)
}

func normalize(samples []float64, targetDB, peakLimit float64) []float64 {
	out := make([]float64, len(samples))
	if len(samples) == 0 {
		return out
	}

	if rms := level.RMS(samples); rms > 0 {
		vecmath.ScaleBlock(out, samples, core.DBToLinear(targetDB)/rms)
	} else {
		copy(out, samples)
	}

	for i, v := range out {
		out[i] = core.Clamp(v, -peakLimit, peakLimit)
	}

	return out
}

// Blend mixes primary and secondary as (1-w)*primary + w*secondary, where w
// is secondaryWeight clamped to [0, 1] (NaN counts as 0), and normalizes the
// mix. The shorter input is zero-padded. When one input is empty the other is normalized on
// its own.
func Blend(primary, secondary []float64, secondaryWeight float64, opts ...Option) []float64 {
	cfg := newConfig(opts)

	switch {
	case len(primary) == 0 && len(secondary) == 0:
		return []float64{}
	case len(primary) == 0:
		return normalize(secondary, cfg.targetDB, cfg.peakLimit)
	case len(secondary) == 0:
		return normalize(primary, cfg.targetDB, cfg.peakLimit)
	}

	w := 0.0
	if !math.IsNaN(secondaryWeight) {
		w = core.Clamp(secondaryWeight, 0, 1)
	}
	n := max(len(primary), len(secondary))

	a := core.FitLength(primary, n)
	b := core.FitLength(secondary, n)

	mix := make([]float64, n)
	vecmath.ScaleBlock(mix, a, 1-w)
	vecmath.ScaleBlock(b, b, w)
	vecmath.AddBlockInPlace(mix, b)

	return normalize(mix, cfg.targetDB, cfg.peakLimit)
}

// Sanitize returns a copy of samples with NaN and ±Inf replaced by 0.
func Sanitize(samples []float64) []float64 {
	out := core.Clone(samples)
	core.ReplaceNonFinite(out)

	return out
}
