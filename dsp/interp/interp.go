package interp

import "math"

// Linear2 interpolates between x0 and x1 at frac in [0,1].
func Linear2(frac, x0, x1 float64) float64 {
	return x0 + frac*(x1-x0)
}

// LinearClamped samples table at fractional index pos using linear
// interpolation between adjacent entries. Positions before the first entry
// return table[0] and positions past the last entry return the last value;
// no extrapolation is performed. An empty table yields 0.
func LinearClamped(table []float64, pos float64) float64 {
	n := len(table)
	if n == 0 {
		return 0
	}

	if pos <= 0 || math.IsNaN(pos) {
		return table[0]
	}

	last := float64(n - 1)
	if pos >= last {
		return table[n-1]
	}

	lo := int(pos)
	return Linear2(pos-float64(lo), table[lo], table[lo+1])
}
