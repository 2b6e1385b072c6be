package level

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-voice/internal/testutil"
)

func TestRMS(t *testing.T) {
	tests := []struct {
		name   string
		signal []float64
		want   float64
	}{
		{name: "empty", signal: nil, want: 0},
		{name: "zeros", signal: make([]float64, 16), want: 0},
		{name: "dc", signal: testutil.DC(0.5, 10), want: 0.5},
		{name: "alternating", signal: []float64{1, -1, 1, -1}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RMS(tt.signal); math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("RMS() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRMSOfSine(t *testing.T) {
	s := testutil.DeterministicSine(100, 24000, 1, 24000)
	if got := RMS(s); math.Abs(got-1/math.Sqrt2) > 1e-6 {
		t.Fatalf("RMS(sine) = %v, want %v", got, 1/math.Sqrt2)
	}
}

func TestPeak(t *testing.T) {
	if got := Peak([]float64{0.1, -0.7, 0.5}); got != 0.7 {
		t.Fatalf("Peak() = %v, want 0.7", got)
	}
	if got := Peak(nil); got != 0 {
		t.Fatalf("Peak(nil) = %v, want 0", got)
	}
}

func TestMeasure(t *testing.T) {
	st := Measure([]float64{0.5, -0.5, 0.5, -0.5})
	if st.Length != 4 {
		t.Fatalf("Length = %d, want 4", st.Length)
	}
	if math.Abs(st.RMS-0.5) > 1e-12 {
		t.Fatalf("RMS = %v, want 0.5", st.RMS)
	}
	if math.Abs(st.RMSdB-(20*math.Log10(0.5))) > 1e-9 {
		t.Fatalf("RMSdB = %v", st.RMSdB)
	}
	if st.Peak != 0.5 || st.PeakPos != 0 {
		t.Fatalf("Peak = %v at %d, want 0.5 at 0", st.Peak, st.PeakPos)
	}
	if math.Abs(st.CrestFactor-1) > 1e-12 {
		t.Fatalf("CrestFactor = %v, want 1", st.CrestFactor)
	}
	if st.DC != 0 {
		t.Fatalf("DC = %v, want 0", st.DC)
	}
}

func TestMeasureSilenceAndNonFinite(t *testing.T) {
	st := Measure([]float64{0, math.NaN(), 0, math.Inf(1)})
	if st.NonFinite != 2 {
		t.Fatalf("NonFinite = %d, want 2", st.NonFinite)
	}
	if st.RMS != 0 || !math.IsInf(st.RMSdB, -1) {
		t.Fatalf("RMS = %v (%v dB), want 0 (-Inf)", st.RMS, st.RMSdB)
	}
	if st.CrestFactor != 0 {
		t.Fatalf("CrestFactor = %v, want 0", st.CrestFactor)
	}
}

func TestAmpTodB(t *testing.T) {
	tests := []struct {
		amp  float64
		want float64
	}{
		{amp: 1, want: 0},
		{amp: -0.1, want: -20},
		{amp: 0.01, want: -40},
	}

	for _, tt := range tests {
		if got := ampTodB(tt.amp); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("ampTodB(%v) = %v, want %v", tt.amp, got, tt.want)
		}
	}

	if got := ampTodB(0); !math.IsInf(got, -1) {
		t.Fatalf("ampTodB(0) = %v, want -Inf", got)
	}
}
