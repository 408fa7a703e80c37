package wavfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWAV writes an integer PCM WAV file into dir and returns its path.
func writeWAV(t *testing.T, dir, name string, sampleRate, bitDepth, channels int, data []int) string {
	t.Helper()
	return writeWAVFormat(t, dir, name, sampleRate, bitDepth, channels, 1, data)
}

func writeWAVFormat(t *testing.T, dir, name string, sampleRate, bitDepth, channels, format int, data []int) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, format)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: channels},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	return path
}

func TestDecoder_Matches(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		path     string
		expected bool
	}{
		{name: "plain wav", pattern: "*.wav", path: "/music/song.wav", expected: true},
		{name: "upper case extension", pattern: "*.wav", path: "/music/SONG.WAV", expected: true},
		{name: "other extension", pattern: "*.wav", path: "/music/song.mp3", expected: false},
		{name: "no extension", pattern: "*.wav", path: "/music/song", expected: false},
		{name: "default pattern", pattern: "", path: "song.wav", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(tt.pattern)
			assert.Equal(t, tt.expected, d.Matches(tt.path))
		})
	}
}

func TestDecoder_Load16BitStereo(t *testing.T) {
	dir := t.TempDir()
	path := writeWAV(t, dir, "stereo.wav", 8000, 16, 2, []int{0, 16384, -16384, 32767, 100, -100})

	tr, err := NewDecoder("").Load(path)
	require.NoError(t, err)

	assert.Equal(t, "stereo.wav", tr.Name)
	assert.Equal(t, 8000, tr.SampleRate)
	assert.Equal(t, 2, tr.Channels)
	assert.Equal(t, 16, tr.BitDepth)
	assert.Equal(t, 3, tr.Frames())
	assert.InDelta(t, 0.5, tr.Sample(0, 1), 1e-6)
	assert.InDelta(t, -0.5, tr.Sample(1, 0), 1e-6)
	assert.NotEmpty(t, tr.ID)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(tr.ModTime), "modification time recorded for the thumbnail cache")
}

func TestDecoder_Load24BitMono(t *testing.T) {
	dir := t.TempDir()
	path := writeWAV(t, dir, "mono24.wav", 44100, 24, 1, []int{4194304, -4194304})

	tr, err := NewDecoder("*.wav").Load(path)
	require.NoError(t, err)

	assert.Equal(t, 24, tr.BitDepth)
	assert.Equal(t, 2, tr.Frames())
	assert.InDelta(t, 0.5, tr.Sample(0, 0), 1e-6)
	assert.InDelta(t, -0.5, tr.Sample(1, 0), 1e-6)
}

func TestDecoder_Load8BitUnsigned(t *testing.T) {
	dir := t.TempDir()
	path := writeWAV(t, dir, "eight.wav", 8000, 8, 1, []int{128, 192, 64})

	tr, err := NewDecoder("").Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, tr.Frames())
	assert.InDelta(t, 0, tr.Sample(0, 0), 1e-6)
	assert.InDelta(t, 0.5, tr.Sample(1, 0), 1e-6)
	assert.InDelta(t, -0.5, tr.Sample(2, 0), 1e-6)
}

func TestDecoder_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.wav")
	require.NoError(t, os.WriteFile(garbage, []byte("this is not a riff file at all, not even close"), 0o644))

	float := writeWAVFormat(t, dir, "float.wav", 8000, 32, 1, 3, []int{10, 20, 30})

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "wrong extension", path: filepath.Join(dir, "song.mp3"), wantErr: ErrUnsupportedFormat},
		{name: "not a wav file", path: garbage, wantErr: ErrNotWavFile},
		{name: "float encoding", path: float, wantErr: ErrUnsupportedEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewDecoder("").Load(tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, tr)
		})
	}
}

func TestDecoder_LoadMissingFile(t *testing.T) {
	_, err := NewDecoder("").Load(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScaleFor(t *testing.T) {
	for _, bits := range []int{8, 16, 24, 32} {
		_, _, err := scaleFor(bits)
		assert.NoError(t, err, "%d bits", bits)
	}

	_, _, err := scaleFor(12)
	assert.ErrorIs(t, err, ErrUnsupportedBitDepth)
}
