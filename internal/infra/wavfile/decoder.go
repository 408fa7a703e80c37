// Package wavfile loads WAV files into memory as tracks.
package wavfile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-audio/wav"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wavbox/internal/domain/track"
)

// DefaultPattern is the file name pattern accepted when none is configured.
const DefaultPattern = "*.wav"

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// Decoder decodes WAV files whose name matches Pattern.
type Decoder struct {
	Pattern string
}

// NewDecoder creates a decoder for the given file pattern.
func NewDecoder(pattern string) *Decoder {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Decoder{Pattern: pattern}
}

// Matches reports whether the file name is one this decoder recognizes.
// Matching is case-insensitive.
func (d *Decoder) Matches(path string) bool {
	ok, err := filepath.Match(strings.ToLower(d.Pattern), strings.ToLower(filepath.Base(path)))
	return err == nil && ok
}

// Load reads and decodes the whole file.
func (d *Decoder) Load(path string) (*track.Track, error) {
	if !d.Matches(path) {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s does not match %s", filepath.Base(path), d.Pattern)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	if dec.WavAudioFormat != formatPCM && dec.WavAudioFormat != formatExtensible {
		return nil, errors.Wrapf(ErrUnsupportedEncoding, "format tag %d", dec.WavAudioFormat)
	}

	bitDepth := int(dec.BitDepth)
	divisor, offset, err := scaleFor(bitDepth)
	if err != nil {
		return nil, err
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode PCM data")
	}

	channels := int(dec.NumChans)
	if channels <= 0 || len(buf.Data) < channels {
		return nil, ErrEmptyFile
	}

	// Drop a trailing partial frame.
	n := len(buf.Data) - len(buf.Data)%channels
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		samples[i] = float32(buf.Data[i]-offset) / divisor
	}

	t := track.New(path, int(dec.SampleRate), channels, bitDepth, samples)
	if info, err := f.Stat(); err == nil {
		t.ModTime = info.ModTime()
	}
	zlog.Debug().Msgf("wavfile: decoded %s: rate=%d channels=%d bits=%d frames=%d length=%v",
		t.Name, t.SampleRate, t.Channels, t.BitDepth, t.Frames(), t.Duration())

	return t, nil
}

// scaleFor returns the normalization divisor and zero offset for PCM of the
// given depth. 8-bit WAV samples are unsigned, wider ones signed.
func scaleFor(bitDepth int) (float32, int, error) {
	switch bitDepth {
	case 8:
		return 128.0, 128, nil
	case 16:
		return 32768.0, 0, nil
	case 24:
		return 8388608.0, 0, nil
	case 32:
		return 2147483648.0, 0, nil
	default:
		return 0, 0, errors.Wrapf(ErrUnsupportedBitDepth, "%d bits", bitDepth)
	}
}
