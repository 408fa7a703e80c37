package transport

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wavbox/internal/domain/track"
)

// ErrFileOpen matches every error returned by OpenFile.
var ErrFileOpen = errors.New("cannot open file")

// FileOpenError reports a file that could not be loaded.
type FileOpenError struct {
	Path string
	Err  error
}

func (e *FileOpenError) Error() string {
	return fmt.Sprintf("cannot open %s: %v", e.Path, e.Err)
}

func (e *FileOpenError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrFileOpen) true for any FileOpenError.
func (e *FileOpenError) Is(target error) bool { return target == ErrFileOpen }

// Backend is the audio transport the controller drives.
type Backend interface {
	SetSource(t *track.Track)
	Start()
	Stop()
	SetPosition(seconds float64)
	Position() float64
	Length() float64
	IsPlaying() bool
}

// Loader decodes a file into a track.
type Loader interface {
	Load(path string) (*track.Track, error)
}

// Timer is the periodic cursor refresh timer.
type Timer interface {
	Start()
	Stop()
	Running() bool
}

// Controller owns the transport state.
//
// Controller is not safe for concurrent use: every method must be called from
// the same goroutine, normally the UI loop. Backend change notifications are
// expected to be redelivered on that goroutine before OnBackendChanged runs.
type Controller struct {
	backend Backend
	loader  Loader
	timer   Timer

	track *track.Track
	state State

	// Events
	eventCh chan Event

	// Context
	ctx    context.Context
	cancel context.CancelFunc
}

// NewController creates a controller in the stopped state with no track loaded.
func NewController(backend Backend, loader Loader, timer Timer) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		backend: backend,
		loader:  loader,
		timer:   timer,
		state:   StateStopped,
		eventCh: make(chan Event, 16),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Events returns the event channel.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// OpenFile loads path and makes it the current track.
// On failure the current track and state are left untouched.
func (c *Controller) OpenFile(path string) error {
	t, err := c.loader.Load(path)
	if err != nil {
		zlog.Debug().Msgf("transport: open failed: path=%s err=%v", path, err)
		return &FileOpenError{Path: path, Err: err}
	}

	c.backend.SetSource(t)
	c.track = t

	zlog.Info().Msgf("transport: loaded %s (%v)", t.Name, t.Duration())
	c.sendEvent(Event{
		Type:   EventTrackLoaded,
		Track:  t,
		State:  c.state,
		Cursor: c.Cursor(),
	})

	c.changeState(StateStopped)
	return nil
}

// OnPlayPressed toggles between playing and paused.
func (c *Controller) OnPlayPressed() {
	if c.track == nil {
		return
	}

	switch c.state {
	case StateStopped, StatePaused:
		c.changeState(StateStarting)
		c.changeState(StatePlaying)
	case StatePlaying:
		c.changeState(StatePausing)
		c.changeState(StatePaused)
	}
}

// OnStopPressed stops playback and rewinds to the start.
func (c *Controller) OnStopPressed() {
	if c.state == StatePaused {
		c.changeState(StateStopped)
		return
	}
	c.changeState(StateStopping)
	c.changeState(StateStopped)
}

// OnBackendChanged reconciles the state with what the backend reports.
// It covers backend-initiated changes such as stopping at the end of the file.
func (c *Controller) OnBackendChanged() {
	switch {
	case c.backend.IsPlaying():
		c.changeState(StatePlaying)
	case c.state == StateStopping || c.state == StatePlaying:
		c.changeState(StateStopped)
	case c.state == StatePausing:
		c.changeState(StatePaused)
	}
}

// OnTick refreshes the cursor while playing.
func (c *Controller) OnTick() {
	if c.state != StatePlaying {
		return
	}
	c.sendEvent(Event{
		Type:   EventCursorMoved,
		Track:  c.track,
		State:  c.state,
		Cursor: c.Cursor(),
	})
}

// State returns the current transport state.
func (c *Controller) State() State {
	return c.state
}

// Track returns the loaded track, or nil.
func (c *Controller) Track() *track.Track {
	return c.track
}

// PlayEnabled reports whether the play control is enabled.
func (c *Controller) PlayEnabled() bool {
	return c.track != nil
}

// StopEnabled reports whether the stop control is enabled.
func (c *Controller) StopEnabled() bool {
	return c.state.CanStop()
}

// PlayLabel returns the caption of the play control for the current state.
func (c *Controller) PlayLabel() string {
	switch c.state {
	case StatePlaying, StatePausing:
		return "Pause"
	case StatePaused:
		return "Resume"
	default:
		return "Play"
	}
}

// Cursor returns the current playback position.
func (c *Controller) Cursor() Cursor {
	return Cursor{
		Position: c.backend.Position(),
		Length:   c.backend.Length(),
	}
}

// Close stops the timer and closes the event channel.
func (c *Controller) Close() {
	c.cancel()
	c.timer.Stop()
	close(c.eventCh)
}

// changeState commits a transition and runs its side effects.
func (c *Controller) changeState(newState State) {
	prev := c.state
	c.state = newState

	switch newState {
	case StateStopped:
		c.backend.SetPosition(0)
		c.timer.Stop()
	case StateStarting:
		c.backend.Start()
	case StatePlaying:
		if !c.timer.Running() {
			c.timer.Start()
		}
	case StatePausing, StateStopping:
		c.backend.Stop()
	case StatePaused:
		c.timer.Stop()
	}

	zlog.Debug().Msgf("transport: %s -> %s", prev, newState)

	c.sendEvent(Event{
		Type:   EventStateChanged,
		Track:  c.track,
		State:  newState,
		Cursor: c.Cursor(),
	})
}

// sendEvent sends an event without blocking.
func (c *Controller) sendEvent(e Event) {
	select {
	case <-c.ctx.Done():
		return
	default:
	}

	select {
	case c.eventCh <- e:
	default:
		// Channel full; the UI re-reads state on every loop pass anyway.
	}
}
