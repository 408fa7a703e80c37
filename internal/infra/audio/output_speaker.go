package audio

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	zlog "github.com/rs/zerolog/log"
)

// SpeakerOutput plays a stream on the default audio device through the beep
// speaker. The speaker is process-wide, so only one may be open at a time.
type SpeakerOutput struct {
	mu     sync.Mutex
	closed bool
}

// NewSpeakerOutput opens the audio device and starts pulling from src.
func NewSpeakerOutput(src beep.Streamer, sampleRate int, s SpeakerSettings) (*SpeakerOutput, error) {
	sr := beep.SampleRate(sampleRate)
	bufferSize := sr.N(time.Duration(s.BufferMs) * time.Millisecond)

	if err := speaker.Init(sr, bufferSize); err != nil {
		return nil, errors.Wrap(err, "failed to open audio device")
	}
	speaker.Play(src)

	zlog.Info().Msgf("audio: speaker output started: rate=%d buffer=%dms", sampleRate, s.BufferMs)

	return &SpeakerOutput{}, nil
}

// Close detaches the source and releases the device.
func (o *SpeakerOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true
	speaker.Clear()
	speaker.Close()
	return nil
}
