package wavfile

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-voice/internal/testutil"
)

const lsb16 = 1.0 / 32768

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")

	in := testutil.DeterministicSine(440, 24000, 0.5, 2400)
	require.NoError(t, Save(path, in, 24000))

	a, err := Load(path, 0, true)
	require.NoError(t, err)

	assert.Equal(t, 24000, a.SampleRate)
	require.Equal(t, 1, a.NumChannels())
	require.Equal(t, len(in), a.Len())

	for i := range in {
		assert.InDelta(t, in[i], a.Channels[0][i], 2*lsb16, "index %d", i)
	}
}

func TestSaveClipsAndZeroesNonFinite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")

	require.NoError(t, Save(path, []float64{2, -3, math.NaN(), math.Inf(1), 0.25}, 16000))

	a, err := Load(path, 0, false)
	require.NoError(t, err)

	got := a.Channels[0]
	assert.InDelta(t, 32767.0/32768, got[0], 1e-12)
	assert.InDelta(t, -32767.0/32768, got[1], 1e-12)
	assert.Zero(t, got[2])
	assert.Zero(t, got[3])
	assert.InDelta(t, 0.25, got[4], lsb16)
}

func TestSaveRejectsBadRate(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "x.wav"), []float64{0}, 0)
	require.Error(t, err)
}

func TestLoadStereoDownmix(t *testing.T) {
	dir := t.TempDir()

	// Left 0.5, right -0.25 for every frame.
	interleaved := make([]float64, 200)
	for i := 0; i < len(interleaved); i += 2 {
		interleaved[i] = 0.5
		interleaved[i+1] = -0.25
	}

	path := testutil.WriteWAV(t, dir, "stereo.wav", interleaved, 22050, 2)

	stereo, err := Load(path, 0, false)
	require.NoError(t, err)
	require.Equal(t, 2, stereo.NumChannels())
	assert.Equal(t, 100, stereo.Len())
	assert.InDelta(t, 0.5, stereo.Channels[0][10], lsb16)
	assert.InDelta(t, -0.25, stereo.Channels[1][10], lsb16)

	mono, err := Load(path, 0, true)
	require.NoError(t, err)
	require.Equal(t, 1, mono.NumChannels())
	assert.InDelta(t, 0.125, mono.Channels[0][50], lsb16)

	sig := stereo.Mono()
	assert.Equal(t, 22050, sig.SampleRate())
	assert.InDelta(t, 0.125, sig.Samples()[50], lsb16)
}

func TestLoadResamples(t *testing.T) {
	dir := t.TempDir()
	in := testutil.DeterministicSine(300, 48000, 0.5, 48000)
	path := testutil.WriteWAV(t, dir, "hi.wav", in, 48000, 1)

	a, err := Load(path, 24000, true)
	require.NoError(t, err)

	assert.Equal(t, 24000, a.SampleRate)
	assert.Equal(t, 24000, a.Len())

	var sum float64
	for _, v := range a.Channels[0][1000:23000] {
		sum += v * v
	}

	rms := math.Sqrt(sum / 22000)
	assert.InDelta(t, 0.5/math.Sqrt2, rms, 0.01)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.wav"), 0, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	junk := filepath.Join(dir, "junk.wav")
	require.NoError(t, os.WriteFile(junk, []byte("definitely not a wav file"), 0o600))

	_, err = Load(junk, 0, true)
	assert.ErrorIs(t, err, ErrInvalidFile)
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	in := testutil.DeterministicSine(200, 16000, 0.3, 16000)
	path := testutil.WriteWAV(t, dir, "ref.wav", in, 16000, 1)

	samples, rate, err := Loader{}.LoadMono(path, 24000)
	require.NoError(t, err)
	assert.Equal(t, 24000, rate)
	assert.Len(t, samples, 24000)

	_, _, err = Loader{}.LoadMono(filepath.Join(dir, "nope.wav"), 24000)
	assert.Error(t, err)
}

// writeExtensibleWAV writes 16-bit mono samples with a WAVE_FORMAT_EXTENSIBLE
// fmt chunk whose sub-format GUID carries subFormat.
func writeExtensibleWAV(t *testing.T, path string, samples []int16, sampleRate int, subFormat uint16) {
	t.Helper()

	var fmtChunk bytes.Buffer
	hdr := fmtExtensible{
		FormatTag:      extensibleFormat,
		NumChannels:    1,
		SampleRate:     uint32(sampleRate),
		AvgBytesPerSec: uint32(sampleRate * 2),
		BlockAlign:     2,
		BitsPerSample:  16,
		ExtensionSize:  22,
		ValidBits:      16,
		ChannelMask:    0x4,
	}
	binary.LittleEndian.PutUint16(hdr.SubFormat[:2], subFormat)
	copy(hdr.SubFormat[2:], subtypeGUIDTail)
	require.NoError(t, binary.Write(&fmtChunk, binary.LittleEndian, hdr))

	var data bytes.Buffer
	require.NoError(t, binary.Write(&data, binary.LittleEndian, samples))

	var out bytes.Buffer
	out.WriteString("RIFF")
	require.NoError(t, binary.Write(&out, binary.LittleEndian, uint32(4+8+fmtChunk.Len()+8+data.Len())))
	out.WriteString("WAVE")
	out.WriteString("fmt ")
	require.NoError(t, binary.Write(&out, binary.LittleEndian, uint32(fmtChunk.Len())))
	out.Write(fmtChunk.Bytes())
	out.WriteString("data")
	require.NoError(t, binary.Write(&out, binary.LittleEndian, uint32(data.Len())))
	out.Write(data.Bytes())

	require.NoError(t, os.WriteFile(path, out.Bytes(), 0o600))
}

func TestLoadExtensiblePCM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ext.wav")

	samples := []int16{0, 8192, 16384, -16384, -32768, 32767, 100, -100}
	writeExtensibleWAV(t, path, samples, 16000, pcmFormat)

	a, err := Load(path, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 16000, a.SampleRate)
	require.Equal(t, 1, a.NumChannels())
	require.Equal(t, len(samples), a.Len())

	for i, s := range samples {
		assert.InDelta(t, float64(s)/32768, a.Channels[0][i], 1e-12, "sample %d", i)
	}
}

func TestLoadExtensibleRejectsFloat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ext-float.wav")

	writeExtensibleWAV(t, path, []int16{0, 1, 2, 3}, 16000, 3)

	_, err := Load(path, 0, true)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
