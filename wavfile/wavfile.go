package wavfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-voice/dsp/buffer"
	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/resample"
)

const (
	pcmFormat        = 1
	extensibleFormat = 0xFFFE
	saveBitDepth     = 16
)

// Trailing 14 bytes shared by every KSDATAFORMAT_SUBTYPE GUID; the first two
// bytes carry the format tag.
var subtypeGUIDTail = []byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

// fmtExtensible is the WAVE_FORMAT_EXTENSIBLE fmt chunk payload.
type fmtExtensible struct {
	FormatTag      uint16
	NumChannels    uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	ExtensionSize  uint16
	ValidBits      uint16
	ChannelMask    uint32
	SubFormat      [16]byte
}

var (
	// ErrInvalidFile is returned when a file is not a readable WAV container.
	ErrInvalidFile = errors.New("wavfile: invalid WAV file")
	// ErrUnsupportedFormat is returned for non-PCM encodings or unusual bit depths.
	ErrUnsupportedFormat = errors.New("wavfile: unsupported format")
)

// Audio holds decoded audio, one slice per channel.
type Audio struct {
	Channels   [][]float64
	SampleRate int
}

// NumChannels returns the number of channels.
func (a *Audio) NumChannels() int { return len(a.Channels) }

// Len returns the number of frames.
func (a *Audio) Len() int {
	if len(a.Channels) == 0 {
		return 0
	}

	return len(a.Channels[0])
}

// Mono returns the channel average as a signal.
func (a *Audio) Mono() *buffer.Signal {
	return buffer.FromSlice(downmix(a.Channels), a.SampleRate)
}

// Load decodes the WAV file at path. When mono is set all channels are
// averaged into one. When sampleRate is positive and differs from the file
// rate every channel is resampled to it.
func Load(path string, sampleRate int, mono bool) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavfile: open: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wavfile: %s: %w", path, ErrInvalidFile)
	}

	switch dec.WavAudioFormat {
	case pcmFormat:
	case extensibleFormat:
		sub, err := extensibleSubFormat(path)
		if err != nil {
			return nil, fmt.Errorf("wavfile: %s: %w", path, err)
		}

		if sub != pcmFormat {
			return nil, fmt.Errorf("wavfile: %s: extensible sub-format %d: %w", path, sub, ErrUnsupportedFormat)
		}
	default:
		return nil, fmt.Errorf("wavfile: %s: audio format %d: %w", path, dec.WavAudioFormat, ErrUnsupportedFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavfile: decode %s: %w", path, err)
	}

	channels, err := deinterleave(buf, int(dec.BitDepth))
	if err != nil {
		return nil, fmt.Errorf("wavfile: %s: %w", path, err)
	}

	out := &Audio{Channels: channels, SampleRate: buf.Format.SampleRate}

	if mono && len(out.Channels) > 1 {
		out.Channels = [][]float64{downmix(out.Channels)}
	}

	if sampleRate > 0 && sampleRate != out.SampleRate {
		for i, ch := range out.Channels {
			converted, err := resample.Convert(ch, float64(out.SampleRate), float64(sampleRate))
			if err != nil {
				return nil, fmt.Errorf("wavfile: resample %s: %w", path, err)
			}

			out.Channels[i] = converted
		}

		out.SampleRate = sampleRate
	}

	return out, nil
}

// Save writes samples as a 16-bit PCM mono WAV file. Samples are clipped to
// [-1, 1]; non-finite samples are written as silence.
func Save(path string, samples []float64, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("wavfile: sample rate must be positive: %d", sampleRate)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavfile: create: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, saveBitDepth, 1, pcmFormat)

	data := make([]int, len(samples))
	for i, v := range samples {
		if !core.IsFinite(v) {
			continue
		}

		data[i] = int(math.Round(core.Clamp(v, -1, 1) * math.MaxInt16))
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: saveBitDepth,
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("wavfile: encode: %w", err)
	}

	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("wavfile: finalize: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("wavfile: close: %w", err)
	}

	return nil
}

// SaveSignal writes sig with Save.
func SaveSignal(path string, sig *buffer.Signal) error {
	return Save(path, sig.Samples(), sig.SampleRate())
}

// Loader loads mono audio from WAV files.
type Loader struct{}

// LoadMono decodes path as mono at sampleRate (file rate when <= 0).
func (Loader) LoadMono(path string, sampleRate int) ([]float64, int, error) {
	a, err := Load(path, sampleRate, true)
	if err != nil {
		return nil, 0, err
	}

	if len(a.Channels) == 0 {
		return []float64{}, a.SampleRate, nil
	}

	return a.Channels[0], a.SampleRate, nil
}

// extensibleSubFormat returns the format tag embedded in the sub-format GUID
// of a WAVE_FORMAT_EXTENSIBLE fmt chunk. The wav decoder discards the
// extension bytes, so the header is walked again here.
func extensibleSubFormat(path string) (uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	p := riff.New(f)
	if err := p.ParseHeaders(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	for {
		ch, err := p.NextChunk()
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("fmt chunk not found: %w", ErrInvalidFile)
		}

		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidFile, err)
		}

		if ch.ID != riff.FmtID {
			ch.Drain()
			continue
		}

		var hdr fmtExtensible
		if ch.Size < binary.Size(hdr) {
			return 0, fmt.Errorf("extensible fmt chunk of %d bytes: %w", ch.Size, ErrInvalidFile)
		}

		if err := ch.ReadLE(&hdr); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidFile, err)
		}

		if !bytes.Equal(hdr.SubFormat[2:], subtypeGUIDTail) {
			return 0, fmt.Errorf("unknown sub-format GUID: %w", ErrUnsupportedFormat)
		}

		return binary.LittleEndian.Uint16(hdr.SubFormat[:2]), nil
	}
}

func deinterleave(buf *audio.IntBuffer, bitDepth int) ([][]float64, error) {
	if buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("missing channel layout: %w", ErrInvalidFile)
	}

	var offset, scale float64

	switch bitDepth {
	case 8:
		offset, scale = 128, 128
	case 16, 24, 32:
		scale = math.Ldexp(1, bitDepth-1)
	default:
		return nil, fmt.Errorf("bit depth %d: %w", bitDepth, ErrUnsupportedFormat)
	}

	nch := buf.Format.NumChannels
	frames := len(buf.Data) / nch

	channels := make([][]float64, nch)
	for c := range channels {
		channels[c] = make([]float64, frames)
	}

	for i := range frames {
		for c := range nch {
			channels[c][i] = (float64(buf.Data[i*nch+c]) - offset) / scale
		}
	}

	return channels, nil
}

func downmix(channels [][]float64) []float64 {
	if len(channels) == 0 {
		return []float64{}
	}

	if len(channels) == 1 {
		return core.Clone(channels[0])
	}

	out := make([]float64, len(channels[0]))
	for _, ch := range channels {
		for i := range out {
			out[i] += ch[i]
		}
	}

	inv := 1 / float64(len(channels))
	for i := range out {
		out[i] *= inv
	}

	return out
}
