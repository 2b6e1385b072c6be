package formant

import (
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/interp"
	"github.com/cwbudde/algo-voice/dsp/spectrum"
)

// LogMagnitude writes ln(max(mag[k], 1e-7)) into dst.
func LogMagnitude(dst, mag []float64) {
	for k, m := range mag {
		dst[k] = mathLog(max(m, magFloor))
	}
}

// Decompose splits a log-magnitude frame into its smooth spectral envelope
// and the residual fine structure, so that envelope+residual reproduces
// logMag up to rounding.
func Decompose(logMag []float64, smoothing int) (envelope, residual []float64) {
	envelope = make([]float64, len(logMag))
	residual = make([]float64, len(logMag))

	spectrum.SmoothMovingAverage(envelope, logMag, smoothing)

	for k := range logMag {
		residual[k] = logMag[k] - envelope[k]
	}

	return envelope, residual
}

// WarpEnvelope writes into dst the envelope resampled so that output bin i
// reads source position i/factor. Positions past either end hold the edge
// value.
func WarpEnvelope(dst, envelope []float64, factor float64) {
	for i := range dst {
		dst[i] = interp.LinearClamped(envelope, float64(i)/factor)
	}
}

// warpFrames replaces every magnitude frame with its formant-shifted
// version. Frames are independent, so they are split into contiguous
// batches processed in parallel.
func (s *Shifter) warpFrames(mag [][]float64, factor float64) error {
	if len(mag) == 0 {
		return nil
	}

	workers := min(s.workers, len(mag))
	batch := (len(mag) + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)

	for start := 0; start < len(mag); start += batch {
		frames := mag[start:min(start+batch, len(mag))]

		g.Go(func() error {
			var logMag, warped []float64

			for _, frame := range frames {
				logMag = core.EnsureLen(logMag, len(frame))
				warped = core.EnsureLen(warped, len(frame))

				LogMagnitude(logMag, frame)

				envelope, residual := Decompose(logMag, s.smoothing)
				WarpEnvelope(warped, envelope, factor)

				for k := range frame {
					frame[k] = mathExp(warped[k] + residual[k])
				}
			}

			return nil
		})
	}

	return g.Wait()
}

func silent(mag [][]float64) bool {
	for _, frame := range mag {
		if !spectrum.AllZero(frame) {
			return false
		}
	}

	return true
}
