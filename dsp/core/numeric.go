package core

import "math"

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// IsFinite reports whether x is neither NaN nor +/-Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// IsFinitePositive reports whether x is finite and > 0.
func IsFinitePositive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}

// ReplaceNonFinite overwrites NaN and +/-Inf values in buf with 0 and
// returns the number of replaced samples.
func ReplaceNonFinite(buf []float64) int {
	n := 0

	for i, v := range buf {
		if !IsFinite(v) {
			buf[i] = 0
			n++
		}
	}

	return n
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// SemitonesToRatio converts a pitch offset in semitones to a frequency ratio.
func SemitonesToRatio(semitones float64) float64 {
	return math.Pow(2, semitones/12)
}

// IsPowerOf2 reports whether v is a positive power of two.
func IsPowerOf2(v int) bool {
	return v > 0 && (v&(v-1)) == 0
}
