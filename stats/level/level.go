// Package level computes the loudness-related statistics used to normalize
// and screen voice recordings.
package level

import (
	"math"

	"github.com/cwbudde/algo-voice/dsp/core"
)

// Stats holds level statistics of a mono signal.
type Stats struct {
	Length      int
	RMS         float64
	RMSdB       float64
	Peak        float64 // max |x|
	PeakdB      float64
	PeakPos     int
	CrestFactor float64 // peak / RMS (linear), 0 for silence
	DC          float64 // mean
	NonFinite   int     // NaN and +/-Inf samples, excluded from the other fields
}

// ampTodB converts an amplitude value to decibels: 20 * log10(|value|).
// Returns -Inf for zero values.
func ampTodB(value float64) float64 {
	return core.LinearToDB(math.Abs(value))
}

// Measure computes all statistics in a single pass.
func Measure(signal []float64) Stats {
	st := Stats{
		Length: len(signal),
		RMSdB:  math.Inf(-1),
		PeakdB: math.Inf(-1),
	}

	var (
		sumSq float64
		sum   float64
		count int
	)

	for i, x := range signal {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			st.NonFinite++
			continue
		}

		count++
		sum += x
		sumSq += x * x

		if a := math.Abs(x); a > st.Peak {
			st.Peak = a
			st.PeakPos = i
		}
	}

	if count == 0 {
		return st
	}

	nf := float64(count)
	st.RMS = math.Sqrt(sumSq / nf)
	st.RMSdB = ampTodB(st.RMS)
	st.PeakdB = ampTodB(st.Peak)
	st.DC = sum / nf

	if st.RMS > 0 {
		st.CrestFactor = st.Peak / st.RMS
	}

	return st
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	peak := 0.0

	for _, x := range signal {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	return peak
}
