package formant

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-voice/dsp/stft"
	"github.com/cwbudde/algo-voice/internal/testutil"
)

const testRate = 24000

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{name: "frame not power of two", opts: []Option{WithFrameSize(1000)}},
		{name: "frame too small", opts: []Option{WithFrameSize(32)}},
		{name: "zero hop", opts: []Option{WithHopSize(0)}},
		{name: "hop equals frame", opts: []Option{WithFrameSize(512), WithHopSize(512)}},
		{name: "no workers", opts: []Option{WithConcurrency(0)}},
	}

	for _, tc := range tests {
		if _, err := New(tc.opts...); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: New() error = %v, want ErrInvalidConfig", tc.name, err)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if s.FrameSize() != 1024 || s.HopSize() != 256 || s.SmoothingWindow() != 31 {
		t.Fatalf("defaults = %d/%d/%d, want 1024/256/31", s.FrameSize(), s.HopSize(), s.SmoothingWindow())
	}
}

func TestClampFactor(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{in: 2, want: 1.4},
		{in: 0.1, want: 0.7},
		{in: 1.1, want: 1.1},
		{in: math.Inf(1), want: 1.4},
	}

	for _, tc := range tests {
		if got := ClampFactor(tc.in); got != tc.want {
			t.Fatalf("ClampFactor(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestShiftIdentityIsExact(t *testing.T) {
	s := mustShifter(t)
	in := testutil.HarmonicTone(150, testRate, 0.5, 20, testRate)

	for _, factor := range []float64{1, 1.0005, 0.9995} {
		out := s.Shift(in, testRate, factor)
		testutil.RequireSliceEqual(t, out, in)
	}
}

func TestShiftClampsFactor(t *testing.T) {
	s := mustShifter(t)
	in := testutil.HarmonicTone(150, testRate, 0.5, 20, testRate/2)

	testutil.RequireSliceEqual(t, s.Shift(in, testRate, 2.0), s.Shift(in, testRate, 1.4))
	testutil.RequireSliceEqual(t, s.Shift(in, testRate, 0.2), s.Shift(in, testRate, 0.7))
}

func TestShiftSilenceAndEmpty(t *testing.T) {
	s := mustShifter(t)

	zeros := make([]float64, 5000)
	testutil.RequireSliceEqual(t, s.Shift(zeros, testRate, 1.3), zeros)

	out, err := s.ShiftWithError(nil, testRate, 1.3)
	if err != nil || out == nil || len(out) != 0 {
		t.Fatalf("ShiftWithError(nil) = %#v, %v, want empty non-nil", out, err)
	}
}

func TestShiftPreservesLengthAndFinite(t *testing.T) {
	s := mustShifter(t)

	for _, n := range []int{1, 300, 1024, 12345} {
		in := testutil.DeterministicNoise(int64(n), 0.5, n)

		for _, factor := range []float64{0.7, 0.85, 1.2, 1.4} {
			out, err := s.ShiftWithError(in, testRate, factor)
			if err != nil {
				t.Fatalf("ShiftWithError(n=%d, %v) error = %v", n, factor, err)
			}

			if len(out) != n {
				t.Fatalf("len = %d, want %d", len(out), n)
			}

			testutil.RequireFinite(t, out)
		}
	}
}

func TestShiftRejectsNaNFactor(t *testing.T) {
	s := mustShifter(t)
	in := []float64{0.1, 0.2}

	if _, err := s.ShiftWithError(in, testRate, math.NaN()); !errors.Is(err, ErrInvalidFactor) {
		t.Fatalf("ShiftWithError(NaN) error = %v, want ErrInvalidFactor", err)
	}

	testutil.RequireSliceEqual(t, s.Shift(in, testRate, math.NaN()), in)
}

func TestShiftConcurrencyDoesNotChangeResult(t *testing.T) {
	in := testutil.HarmonicTone(120, testRate, 0.4, 30, testRate)

	serial, err := New(WithConcurrency(1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	parallel, err := New(WithConcurrency(7))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	testutil.RequireSliceEqual(t, parallel.Shift(in, testRate, 1.25), serial.Shift(in, testRate, 1.25))
}

func TestShiftMovesFormantPeak(t *testing.T) {
	s := mustShifter(t)
	in := formantTone(100, 1000, 250, testRate)

	inPeak := peakFrequency(t, in)
	if inPeak < 950 || inPeak > 1050 {
		t.Fatalf("input formant peak = %.0f Hz, want about 1000 Hz", inPeak)
	}

	tests := []struct {
		factor   float64
		min, max float64
	}{
		{factor: 1.25, min: 1150, max: 1350},
		{factor: 0.8, min: 750, max: 850},
	}

	for _, tc := range tests {
		got := peakFrequency(t, s.Shift(in, testRate, tc.factor))
		if got < tc.min || got > tc.max {
			t.Fatalf("factor %v: peak = %.0f Hz, want in [%.0f, %.0f]", tc.factor, got, tc.min, tc.max)
		}
	}
}

type failingTransform struct {
	forwardErr error
	inverseErr error
}

func (f failingTransform) Forward(samples []float64, frameSize, hop int) (*stft.Spectrogram, error) {
	if f.forwardErr != nil {
		return nil, f.forwardErr
	}

	return stft.New().Forward(samples, frameSize, hop)
}

func (f failingTransform) Inverse(spec *stft.Spectrogram, hop, length int) ([]float64, error) {
	if f.inverseErr != nil {
		return nil, f.inverseErr
	}

	return stft.New().Inverse(spec, hop, length)
}

func TestShiftTransformFailures(t *testing.T) {
	boom := errors.New("boom")
	in := testutil.DeterministicNoise(3, 0.3, 4000)

	for _, tr := range []failingTransform{{forwardErr: boom}, {inverseErr: boom}} {
		s, err := New(WithTransform(tr))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		if _, err := s.ShiftWithError(in, testRate, 1.2); !errors.Is(err, boom) {
			t.Fatalf("ShiftWithError() error = %v, want wrapped boom", err)
		}

		testutil.RequireSliceEqual(t, s.Shift(in, testRate, 1.2), in)
	}
}

func TestCustomTransformIsUsed(t *testing.T) {
	s, err := New(WithTransform(failingTransform{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ref := mustShifter(t)
	in := testutil.DeterministicNoise(9, 0.3, 3000)

	testutil.RequireSliceEqual(t, s.Shift(in, testRate, 0.9), ref.Shift(in, testRate, 0.9))
}

func mustShifter(t *testing.T) *Shifter {
	t.Helper()

	s, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return s
}

// formantTone builds a harmonic series on f0 whose amplitudes follow a
// Gaussian resonance centred on formantHz.
func formantTone(f0, formantHz, width float64, length int) []float64 {
	out := make([]float64, length)

	for k := 1; f0*float64(k) < 4000; k++ {
		f := f0 * float64(k)
		amp := 0.05 * math.Exp(-(f-formantHz)*(f-formantHz)/(2*width*width))

		for i := range out {
			out[i] += amp * math.Sin(2*math.Pi*f*float64(i)/testRate)
		}
	}

	return out
}

// peakFrequency returns the frequency of the strongest bin in the
// frame-averaged magnitude spectrum.
func peakFrequency(t *testing.T, x []float64) float64 {
	t.Helper()

	spec, err := stft.New().Forward(x, 1024, 256)
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}

	mag, _ := spec.Polar()
	avg := make([]float64, spec.Bins())

	for _, frame := range mag[4 : len(mag)-4] {
		for k, m := range frame {
			avg[k] += m
		}
	}

	best := 1
	for k := 2; k < len(avg); k++ {
		if avg[k] > avg[best] {
			best = k
		}
	}

	return float64(best) * testRate / 1024
}
