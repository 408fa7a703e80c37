package audio

import (
	"github.com/gopxl/beep/v2"

	"github.com/osa030/wavbox/internal/domain/track"
)

// trackStreamer implements beep.StreamSeeker over a decoded track.
// Mono is duplicated to both sides; channels beyond two are dropped.
type trackStreamer struct {
	track    *track.Track
	position int
}

var _ beep.StreamSeeker = (*trackStreamer)(nil)

func newTrackStreamer(t *track.Track) *trackStreamer {
	return &trackStreamer{track: t}
}

func (s *trackStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	frames := s.track.Frames()
	if s.position >= frames {
		return 0, false
	}

	right := 0
	if s.track.Channels > 1 {
		right = 1
	}
	for i := range samples {
		if s.position >= frames {
			return i, true
		}
		samples[i][0] = float64(s.track.Sample(s.position, 0))
		samples[i][1] = float64(s.track.Sample(s.position, right))
		s.position++
	}
	return len(samples), true
}

func (s *trackStreamer) Err() error {
	return nil
}

func (s *trackStreamer) Len() int {
	return s.track.Frames()
}

func (s *trackStreamer) Position() int {
	return s.position
}

func (s *trackStreamer) Seek(p int) error {
	s.position = max(0, min(p, s.track.Frames()))
	return nil
}
