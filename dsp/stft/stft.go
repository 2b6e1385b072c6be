package stft

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/spectrum"
	"github.com/cwbudde/algo-voice/dsp/window"
)

const (
	minFrameSize = 16
	normFloor    = 1e-12
)

var (
	// ErrInvalidFrameSize indicates a frame size that is not a power of two >= 16.
	ErrInvalidFrameSize = errors.New("stft: frame size must be a power of two >= 16")
	// ErrInvalidHop indicates a hop outside [1, frameSize].
	ErrInvalidHop = errors.New("stft: hop must be in [1, frameSize]")
	// ErrShapeMismatch indicates a spectrogram whose frames do not hold frameSize/2+1 bins.
	ErrShapeMismatch = errors.New("stft: spectrogram shape mismatch")
)

// Spectrogram is a complex time-frequency grid stored frame-major:
// Frames[t][k] is bin k of frame t.
type Spectrogram struct {
	FrameSize int
	Frames    [][]complex128
}

// Bins returns the number of frequency bins per frame.
func (s *Spectrogram) Bins() int {
	return s.FrameSize/2 + 1
}

// NumFrames returns the number of analysis frames.
func (s *Spectrogram) NumFrames() int {
	return len(s.Frames)
}

// Empty reports whether the grid holds no values.
func (s *Spectrogram) Empty() bool {
	return len(s.Frames) == 0
}

// Polar splits the grid into magnitude and phase grids of the same shape.
func (s *Spectrogram) Polar() (mag, phase [][]float64) {
	mag = make([][]float64, len(s.Frames))
	phase = make([][]float64, len(s.Frames))

	for t, frame := range s.Frames {
		mag[t] = spectrum.Magnitude(frame)
		phase[t] = spectrum.Phase(frame)
	}

	return mag, phase
}

// FromPolar assembles a spectrogram from magnitude and phase grids.
func FromPolar(frameSize int, mag, phase [][]float64) *Spectrogram {
	frames := make([][]complex128, len(mag))
	for t := range mag {
		frames[t] = make([]complex128, len(mag[t]))
		spectrum.FromPolar(frames[t], mag[t], phase[t])
	}

	return &Spectrogram{FrameSize: frameSize, Frames: frames}
}

// Option configures a Transform.
type Option func(*Transform)

// WithWindow selects the analysis/synthesis window shape.
func WithWindow(t window.Type) Option {
	return func(tr *Transform) {
		tr.windowType = t
	}
}

// Transform is a forward/inverse STFT pair.
type Transform struct {
	windowType window.Type
}

// New returns a Transform using a periodic Hann window unless configured otherwise.
func New(opts ...Option) *Transform {
	tr := &Transform{windowType: window.TypeHann}

	for _, opt := range opts {
		if opt != nil {
			opt(tr)
		}
	}

	return tr
}

// WindowType returns the configured window shape.
func (tr *Transform) WindowType() window.Type { return tr.windowType }

// NumFrames returns the frame count Forward produces for n samples.
func NumFrames(n, hop int) int {
	if n <= 0 || hop <= 0 {
		return 0
	}

	return 1 + n/hop
}

// Forward computes the centred STFT of samples.
// An empty input yields an empty spectrogram.
func (tr *Transform) Forward(samples []float64, frameSize, hop int) (*Spectrogram, error) {
	err := validate(frameSize, hop)
	if err != nil {
		return nil, err
	}

	spec := &Spectrogram{FrameSize: frameSize}
	if len(samples) == 0 {
		return spec, nil
	}

	plan, err := algofft.NewPlan64(frameSize)
	if err != nil {
		return nil, fmt.Errorf("stft: failed to create FFT plan: %w", err)
	}

	coeffs := window.Generate(tr.windowType, frameSize, window.WithPeriodic())
	pad := frameSize / 2
	bins := frameSize/2 + 1
	frameCount := NumFrames(len(samples), hop)

	segment := make([]float64, frameSize)
	buf := make([]complex128, frameSize)
	spec.Frames = make([][]complex128, frameCount)

	for t := range frameCount {
		start := t*hop - pad

		core.Zero(segment)
		for i := range segment {
			if idx := start + i; idx >= 0 && idx < len(samples) {
				segment[i] = samples[idx]
			}
		}

		err = window.ApplyCoefficientsInPlace(segment, coeffs)
		if err != nil {
			return nil, fmt.Errorf("stft: windowing failed: %w", err)
		}

		for i, v := range segment {
			buf[i] = complex(v, 0)
		}

		err = plan.Forward(buf, buf)
		if err != nil {
			return nil, fmt.Errorf("stft: forward FFT failed: %w", err)
		}

		frame := make([]complex128, bins)
		copy(frame, buf[:bins])
		spec.Frames[t] = frame
	}

	return spec, nil
}

// Inverse reconstructs exactly length samples from spec by windowed
// overlap-add with the given hop.
func (tr *Transform) Inverse(spec *Spectrogram, hop, length int) ([]float64, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil spectrogram", ErrShapeMismatch)
	}

	frameSize := spec.FrameSize

	err := validate(frameSize, hop)
	if err != nil {
		return nil, err
	}

	if length <= 0 {
		return []float64{}, nil
	}

	if spec.Empty() {
		return make([]float64, length), nil
	}

	bins := spec.Bins()
	for t, frame := range spec.Frames {
		if len(frame) != bins {
			return nil, fmt.Errorf("%w: frame %d has %d bins, want %d", ErrShapeMismatch, t, len(frame), bins)
		}
	}

	plan, err := algofft.NewPlan64(frameSize)
	if err != nil {
		return nil, fmt.Errorf("stft: failed to create FFT plan: %w", err)
	}

	coeffs := window.Generate(tr.windowType, frameSize, window.WithPeriodic())
	squared := make([]float64, frameSize)
	vecmath.MulBlock(squared, coeffs, coeffs)

	half := frameSize / 2
	outLen := frameSize + hop*(len(spec.Frames)-1)
	output := make([]float64, outLen)
	norm := make([]float64, outLen)

	buf := make([]complex128, frameSize)
	segment := make([]float64, frameSize)

	for t, frame := range spec.Frames {
		// Rebuild the Hermitian-symmetric full spectrum for a real IFFT.
		copy(buf, frame)
		buf[0] = complex(real(buf[0]), 0)

		buf[half] = complex(real(buf[half]), 0)
		for k := 1; k < half; k++ {
			v := frame[k]
			buf[frameSize-k] = complex(real(v), -imag(v))
		}

		err = plan.Inverse(buf, buf)
		if err != nil {
			return nil, fmt.Errorf("stft: inverse FFT failed: %w", err)
		}

		for i := range segment {
			segment[i] = real(buf[i])
		}

		vecmath.MulBlockInPlace(segment, coeffs)

		pos := t * hop
		vecmath.AddBlockInPlace(output[pos:pos+frameSize], segment)
		vecmath.AddBlockInPlace(norm[pos:pos+frameSize], squared)
	}

	for i := range output {
		if norm[i] > normFloor {
			output[i] /= norm[i]
		}
	}

	// Drop the centring pad and force the requested length.
	start := min(half, len(output))

	return core.FitLength(output[start:], length), nil
}

func validate(frameSize, hop int) error {
	if frameSize < minFrameSize || !core.IsPowerOf2(frameSize) {
		return fmt.Errorf("%w: %d", ErrInvalidFrameSize, frameSize)
	}

	if hop <= 0 || hop > frameSize {
		return fmt.Errorf("%w: %d (frame size %d)", ErrInvalidHop, hop, frameSize)
	}

	return nil
}
