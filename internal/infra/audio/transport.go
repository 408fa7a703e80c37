// Package audio provides the playback transport and the outputs that pull from it.
package audio

import (
	"sync"

	"github.com/gopxl/beep/v2"

	"github.com/osa030/wavbox/internal/domain/track"
)

// resampleQuality is the beep resampler quality used when the track rate
// differs from the device rate.
const resampleQuality = 4

// Transport is a seekable source over a decoded track, streamed at the
// device rate. It implements beep.Streamer and never runs dry, so it can
// stay attached to a mixer for the life of the process.
//
// Stream runs on the output goroutine; the control methods run on the UI loop.
type Transport struct {
	mu         sync.Mutex
	track      *track.Track
	deviceRate beep.SampleRate

	source *trackStreamer
	ctrl   *beep.Ctrl
	base   int // Source frame the current chain started from
	played int // Device frames streamed since base
	ended  bool

	changes chan struct{}
}

var _ beep.Streamer = (*Transport)(nil)

// NewTransport creates an empty transport streaming at deviceRate.
func NewTransport(deviceRate int) *Transport {
	return &Transport{
		deviceRate: beep.SampleRate(deviceRate),
		changes:    make(chan struct{}, 1),
	}
}

// Changes delivers a notification whenever playback starts or stops,
// including when the end of the track is reached. Notifications coalesce.
func (t *Transport) Changes() <-chan struct{} {
	return t.changes
}

// DeviceRate returns the output sample rate.
func (t *Transport) DeviceRate() int {
	return int(t.deviceRate)
}

// SetSource replaces the track and rewinds. Playback stops.
func (t *Transport) SetSource(tr *track.Track) {
	t.mu.Lock()
	wasPlaying := t.playingLocked()
	t.track = tr
	t.source = nil
	t.ctrl = nil
	if tr != nil {
		t.source = newTrackStreamer(tr)
		t.rebuildLocked(0, true)
	}
	t.mu.Unlock()

	if wasPlaying {
		t.notify()
	}
}

// Start begins playback from the current position.
func (t *Transport) Start() {
	t.mu.Lock()
	if t.ctrl == nil || t.playingLocked() {
		t.mu.Unlock()
		return
	}
	if t.ended {
		t.rebuildLocked(t.source.Position(), true)
	}
	t.ctrl.Paused = false
	t.mu.Unlock()

	t.notify()
}

// Stop halts playback, keeping the position.
func (t *Transport) Stop() {
	t.mu.Lock()
	if !t.playingLocked() {
		t.mu.Unlock()
		return
	}
	t.ctrl.Paused = true
	t.mu.Unlock()

	t.notify()
}

// SetPosition moves the read head, clamped to the track bounds.
func (t *Transport) SetPosition(seconds float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.source == nil {
		return
	}
	frame := int(seconds * float64(t.track.SampleRate))
	t.rebuildLocked(frame, !t.playingLocked())
}

// Position returns the playback position in seconds.
func (t *Transport) Position() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.track == nil || t.track.SampleRate <= 0 {
		return 0
	}
	frames := float64(t.base) + float64(t.played)*t.ratioLocked()
	frames = min(frames, float64(t.track.Frames()))
	return frames / float64(t.track.SampleRate)
}

// Length returns the track length in seconds.
func (t *Transport) Length() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.track.LengthSeconds()
}

// IsPlaying reports whether the transport is producing audio.
func (t *Transport) IsPlaying() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playingLocked()
}

// Stream fills samples at the device rate. Silence is produced while
// stopped, and the tail after the end of the track is zeroed.
func (t *Transport) Stream(samples [][2]float64) (int, bool) {
	t.mu.Lock()
	n := 0
	ended := false
	if t.playingLocked() {
		n, _ = t.ctrl.Stream(samples)
		t.played += n
		if t.ended {
			t.ctrl.Paused = true
			t.base = t.track.Frames()
			t.played = 0
			ended = true
		}
	}
	t.mu.Unlock()

	clear(samples[n:])

	if ended {
		t.notify()
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (t *Transport) Err() error {
	return nil
}

// rebuildLocked seeks the source to frame and rebuilds the streamer chain.
// The resampler keeps history, so it cannot be reused across a seek.
func (t *Transport) rebuildLocked(frame int, paused bool) {
	_ = t.source.Seek(frame)
	t.base = t.source.Position()
	t.played = 0
	t.ended = false

	var s beep.Streamer = beep.Seq(t.source, beep.Callback(func() {
		// Runs inside Stream with t.mu held.
		t.ended = true
	}))
	srcRate := beep.SampleRate(t.track.SampleRate)
	if srcRate > 0 && t.deviceRate > 0 && srcRate != t.deviceRate {
		s = beep.Resample(resampleQuality, srcRate, t.deviceRate, s)
	}
	t.ctrl = &beep.Ctrl{Streamer: s, Paused: paused}
}

func (t *Transport) playingLocked() bool {
	return t.ctrl != nil && !t.ctrl.Paused
}

// ratioLocked returns source frames per device frame.
func (t *Transport) ratioLocked() float64 {
	if t.deviceRate <= 0 || t.track.SampleRate <= 0 {
		return 1
	}
	return float64(t.track.SampleRate) / float64(t.deviceRate)
}

func (t *Transport) notify() {
	select {
	case t.changes <- struct{}{}:
	default:
	}
}
