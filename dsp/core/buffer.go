package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// Clone returns a copy of in. A nil or empty input yields an empty, non-nil slice.
func Clone(in []float64) []float64 {
	out := make([]float64, len(in))
	copy(out, in)
	return out
}

// FitLength returns a new slice of exactly n samples: in is truncated or
// zero-padded at the end.
func FitLength(in []float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	out := make([]float64, n)
	copy(out, in)
	return out
}
