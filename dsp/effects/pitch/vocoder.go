package pitch

import (
	"math"

	"github.com/cwbudde/algo-voice/dsp/stft"
)

// phaseVocoder resamples spec along time by rate. Output frame t reads the
// fractional input position t*rate: magnitudes are interpolated between the
// two neighbouring frames and phases advance by the measured per-bin phase
// increment, so partials keep their frequency.
func phaseVocoder(spec *stft.Spectrogram, rate float64, hop int) *stft.Spectrogram {
	mag, phase := spec.Polar()
	frames := len(mag)
	bins := spec.Bins()

	outFrames := int(math.Ceil(float64(frames) / rate))

	outMag := make([][]float64, outFrames)
	outPhase := make([][]float64, outFrames)

	// Expected phase advance per hop for each bin centre.
	advance := make([]float64, bins)
	if bins > 1 {
		for k := range advance {
			advance[k] = math.Pi * float64(hop) * float64(k) / float64(bins-1)
		}
	}

	acc := make([]float64, bins)
	copy(acc, phase[0])

	// Frames past the end read as silence.
	frameAt := func(i int) (m, p []float64) {
		if i < frames {
			return mag[i], phase[i]
		}

		return nil, nil
	}

	for t := range outFrames {
		step := float64(t) * rate
		i := int(step)
		alpha := step - float64(i)

		m0, p0 := frameAt(i)
		m1, p1 := frameAt(i + 1)

		om := make([]float64, bins)
		op := make([]float64, bins)

		for k := range bins {
			var a, b, pa, pb float64
			if m0 != nil {
				a, pa = m0[k], p0[k]
			}

			if m1 != nil {
				b, pb = m1[k], p1[k]
			}

			om[k] = (1-alpha)*a + alpha*b
			op[k] = acc[k]

			dphase := pb - pa - advance[k]
			dphase -= 2 * math.Pi * math.Round(dphase/(2*math.Pi))
			acc[k] += advance[k] + dphase
		}

		outMag[t] = om
		outPhase[t] = op
	}

	return stft.FromPolar(spec.FrameSize, outMag, outPhase)
}
