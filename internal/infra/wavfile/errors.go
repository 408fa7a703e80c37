package wavfile

import "github.com/cockroachdb/errors"

var (
	ErrUnsupportedFormat   = errors.New("unsupported file format")
	ErrNotWavFile          = errors.New("not a WAV file")
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
	ErrUnsupportedEncoding = errors.New("only integer PCM is supported")
	ErrEmptyFile           = errors.New("WAV file contains no samples")
)
