package resample

import (
	"errors"
	"fmt"
	"math"
)

// designPrototype returns a Kaiser-windowed sinc low-pass at the virtual
// rate n*up, scaled to a DC gain of up to make up for zero stuffing.
// The length is odd so the group delay is a whole number of samples.
func designPrototype(up, down int, cfg config) ([]float64, error) {
	if up <= 0 || down <= 0 {
		return nil, ErrInvalidRatio
	}

	profile := QualityProfile(cfg.quality)

	nTaps := cfg.tapsPerPhase*up | 1

	fc := (0.5 / float64(max(up, down))) * profile.CutoffScale
	if fc <= 0 || fc >= 0.5 {
		return nil, fmt.Errorf("resample: invalid cutoff %.6f", fc)
	}

	taps := make([]float64, nTaps)
	center := 0.5 * float64(nTaps-1)

	var sum float64

	for n := range taps {
		t := float64(n) - center
		taps[n] = 2 * fc * sinc(2*fc*t) * kaiserWindow(n, nTaps, profile.KaiserBeta)
		sum += taps[n]
	}

	if sum == 0 {
		return nil, errors.New("resample: designed zero-sum filter")
	}

	scale := float64(up) / sum
	for i := range taps {
		taps[i] *= scale
	}

	return taps, nil
}

// approximateRatio finds the best rational approximation of v whose
// denominator does not exceed maxDen. When the next convergent would exceed
// the bound, the largest admissible semiconvergent competes with the last
// convergent.
func approximateRatio(v float64, maxDen int) (num, den int) {
	if maxDen <= 0 {
		maxDen = defaultMaxDen
	}

	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1, 1
	}

	limit := float64(maxDen)
	p0, q0 := 1.0, 0.0
	p1, q1 := math.Floor(v), 1.0
	x := v

	for {
		frac := x - math.Floor(x)
		if frac < 1e-12 {
			break
		}

		x = 1 / frac
		a := math.Floor(x)

		q2 := a*q1 + q0
		if q2 > limit {
			if k := math.Floor((limit - q0) / q1); k >= 1 {
				ps, qs := k*p1+p0, k*q1+q0
				if math.Abs(ps/qs-v) < math.Abs(p1/q1-v) {
					p1, q1 = ps, qs
				}
			}

			break
		}

		p0, q0, p1, q1 = p1, q1, a*p1+p0, q2
	}

	num = int(math.Round(p1))
	den = int(math.Round(q1))

	if num <= 0 || den <= 0 {
		return 1, 1
	}

	g := gcd(num, den)

	return num / g, den / g
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}

	if b < 0 {
		b = -b
	}

	for b != 0 {
		a, b = b, a%b
	}

	if a == 0 {
		return 1
	}

	return a
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	pix := math.Pi * x

	return math.Sin(pix) / pix
}

func kaiserWindow(i, n int, beta float64) float64 {
	if n <= 1 || beta == 0 {
		return 1
	}

	t := 2*float64(i)/float64(n-1) - 1
	a := math.Sqrt(math.Max(0, 1-t*t))

	return besselI0(beta*a) / besselI0(beta)
}

// besselI0 evaluates the zeroth-order modified Bessel function by its power series.
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0

	x2 := (x * x) / 4
	for k := 1; k < 64; k++ {
		term *= x2 / float64(k*k)

		sum += term
		if term < 1e-16*sum {
			break
		}
	}

	return sum
}
