package transport

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/wavbox/internal/domain/track"
)

type fakeBackend struct {
	source       *track.Track
	playing      bool
	position     float64
	starts       int
	stops        int
	positionSets int
}

func (b *fakeBackend) SetSource(t *track.Track) {
	b.source = t
	b.playing = false
	b.position = 0
}

func (b *fakeBackend) Start() {
	b.starts++
	b.playing = true
}

func (b *fakeBackend) Stop() {
	b.stops++
	b.playing = false
}

func (b *fakeBackend) SetPosition(seconds float64) {
	b.positionSets++
	b.position = seconds
}

func (b *fakeBackend) Position() float64 { return b.position }
func (b *fakeBackend) IsPlaying() bool   { return b.playing }

func (b *fakeBackend) Length() float64 {
	return b.source.LengthSeconds()
}

type fakeLoader struct {
	tracks map[string]*track.Track
}

func (l *fakeLoader) Load(path string) (*track.Track, error) {
	if t, ok := l.tracks[path]; ok {
		return t, nil
	}
	return nil, errors.Newf("unsupported file %s", path)
}

type fakeTimer struct {
	running bool
	starts  int
}

func (t *fakeTimer) Start() {
	t.running = true
	t.starts++
}

func (t *fakeTimer) Stop()         { t.running = false }
func (t *fakeTimer) Running() bool { return t.running }

func newTestController() (*Controller, *fakeBackend, *fakeTimer) {
	backend := &fakeBackend{}
	timer := &fakeTimer{}
	loader := &fakeLoader{tracks: map[string]*track.Track{
		"song.wav":  track.New("song.wav", 8000, 1, 16, make([]float32, 8000*90)),
		"other.wav": track.New("other.wav", 8000, 2, 16, make([]float32, 8000*2*10)),
	}}
	return NewController(backend, loader, timer), backend, timer
}

// loaded returns a controller with song.wav open and the counters cleared.
func loaded(t *testing.T) (*Controller, *fakeBackend, *fakeTimer) {
	t.Helper()
	c, b, tm := newTestController()
	require.NoError(t, c.OpenFile("song.wav"))
	*b = fakeBackend{source: b.source}
	return c, b, tm
}

// driveTo brings a loaded controller into the requested state.
func driveTo(t *testing.T, c *Controller, b *fakeBackend, s State) {
	t.Helper()
	switch s {
	case StateStopped:
	case StatePlaying:
		c.OnPlayPressed()
	case StatePaused:
		c.OnPlayPressed()
		b.position = 12.5
		c.OnPlayPressed()
	case StateStarting, StatePausing, StateStopping:
		c.state = s
	}
	require.Equal(t, s, c.State())
	*b = fakeBackend{source: b.source, playing: b.playing, position: b.position}
}

func TestController_InitialState(t *testing.T) {
	c, b, tm := newTestController()

	assert.Equal(t, StateStopped, c.State())
	assert.Nil(t, c.Track())
	assert.False(t, c.PlayEnabled())
	assert.False(t, c.StopEnabled())
	assert.Equal(t, "Play", c.PlayLabel())
	assert.False(t, tm.Running())

	// Play without a track is a no-op.
	c.OnPlayPressed()
	assert.Equal(t, StateStopped, c.State())
	assert.Equal(t, 0, b.starts)
}

func TestController_OpenFile(t *testing.T) {
	c, b, _ := newTestController()

	require.NoError(t, c.OpenFile("song.wav"))

	assert.Equal(t, StateStopped, c.State())
	assert.True(t, c.PlayEnabled())
	assert.False(t, c.StopEnabled())
	require.NotNil(t, c.Track())
	assert.Equal(t, "song.wav", c.Track().Name)
	assert.Same(t, c.Track(), b.source)
	assert.Equal(t, float64(0), b.position)
	assert.InDelta(t, 90, c.Cursor().Length, 1e-9)
}

func TestController_OpenFileReplacesTrack(t *testing.T) {
	c, b, tm := loaded(t)
	driveTo(t, c, b, StatePlaying)
	first := c.Track()

	require.NoError(t, c.OpenFile("other.wav"))

	assert.NotSame(t, first, c.Track())
	assert.Equal(t, "other.wav", c.Track().Name)
	assert.Equal(t, StateStopped, c.State())
	assert.False(t, tm.Running())
	assert.Equal(t, float64(0), b.position)
}

func TestController_OpenFileFailure(t *testing.T) {
	for _, s := range []State{StateStopped, StatePlaying, StatePaused} {
		t.Run(s.String(), func(t *testing.T) {
			c, b, tm := loaded(t)
			driveTo(t, c, b, s)
			before := c.Track()
			running := tm.Running()

			err := c.OpenFile("broken.mp3")

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFileOpen)
			var openErr *FileOpenError
			require.True(t, errors.As(err, &openErr))
			assert.Equal(t, "broken.mp3", openErr.Path)

			assert.Equal(t, s, c.State())
			assert.Same(t, before, c.Track())
			assert.Same(t, before, b.source)
			assert.Equal(t, running, tm.Running())
			assert.Equal(t, 0, b.starts+b.stops+b.positionSets)
		})
	}
}

func TestController_OpenFileFailureWithoutTrack(t *testing.T) {
	c, _, _ := newTestController()

	err := c.OpenFile("broken.mp3")

	assert.ErrorIs(t, err, ErrFileOpen)
	assert.Nil(t, c.Track())
	assert.False(t, c.PlayEnabled())
	assert.Equal(t, StateStopped, c.State())
}

func TestController_PlayFromStoppedOrPaused(t *testing.T) {
	for _, s := range []State{StateStopped, StatePaused} {
		t.Run(s.String(), func(t *testing.T) {
			c, b, tm := loaded(t)
			driveTo(t, c, b, s)
			pos := b.position

			c.OnPlayPressed()

			assert.Equal(t, StatePlaying, c.State())
			assert.Equal(t, 1, b.starts)
			assert.Equal(t, 0, b.stops)
			assert.Equal(t, pos, b.position, "resume keeps the position")
			assert.True(t, tm.Running())
			assert.Equal(t, "Pause", c.PlayLabel())
			assert.True(t, c.StopEnabled())
		})
	}
}

func TestController_PauseFromPlaying(t *testing.T) {
	c, b, tm := loaded(t)
	driveTo(t, c, b, StatePlaying)
	b.position = 42

	c.OnPlayPressed()

	assert.Equal(t, StatePaused, c.State())
	assert.Equal(t, 1, b.stops)
	assert.Equal(t, 0, b.starts)
	assert.Equal(t, float64(42), b.position)
	assert.Equal(t, 0, b.positionSets)
	assert.False(t, tm.Running())
	assert.Equal(t, "Resume", c.PlayLabel())
	assert.True(t, c.StopEnabled())
}

func TestController_PlayIgnoredInTransientStates(t *testing.T) {
	for _, s := range []State{StateStarting, StatePausing, StateStopping} {
		t.Run(s.String(), func(t *testing.T) {
			c, b, _ := loaded(t)
			driveTo(t, c, b, s)

			c.OnPlayPressed()

			assert.Equal(t, s, c.State())
			assert.Equal(t, 0, b.starts+b.stops)
		})
	}
}

func TestController_StopFromAnyState(t *testing.T) {
	tests := []struct {
		state     State
		wantStops int
	}{
		{state: StateStopped, wantStops: 1},
		{state: StateStarting, wantStops: 1},
		{state: StatePlaying, wantStops: 1},
		{state: StatePausing, wantStops: 1},
		{state: StatePaused, wantStops: 0},
		{state: StateStopping, wantStops: 1},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			c, b, tm := loaded(t)
			driveTo(t, c, b, tt.state)
			b.position = 30

			c.OnStopPressed()

			assert.Equal(t, StateStopped, c.State())
			assert.Equal(t, tt.wantStops, b.stops)
			assert.Equal(t, 1, b.positionSets, "position reset exactly once")
			assert.Equal(t, float64(0), b.position)
			assert.False(t, tm.Running())
			assert.False(t, c.StopEnabled())
			assert.Equal(t, "Play", c.PlayLabel())
		})
	}
}

func TestController_BackendChanged(t *testing.T) {
	tests := []struct {
		name        string
		state       State
		playing     bool
		expected    State
		wantRewound bool
	}{
		{name: "playing reported while starting", state: StateStarting, playing: true, expected: StatePlaying},
		{name: "playing reported while stopped", state: StateStopped, playing: true, expected: StatePlaying},
		{name: "end of file while playing", state: StatePlaying, playing: false, expected: StateStopped, wantRewound: true},
		{name: "stop completed", state: StateStopping, playing: false, expected: StateStopped, wantRewound: true},
		{name: "pause completed", state: StatePausing, playing: false, expected: StatePaused},
		{name: "idle while paused", state: StatePaused, playing: false, expected: StatePaused},
		{name: "idle while stopped", state: StateStopped, playing: false, expected: StateStopped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, b, tm := loaded(t)
			driveTo(t, c, b, tt.state)
			b.playing = tt.playing
			b.position = 7

			c.OnBackendChanged()

			assert.Equal(t, tt.expected, c.State())
			assert.Equal(t, tt.expected == StatePlaying, tm.Running())
			if tt.wantRewound {
				assert.Equal(t, float64(0), b.position)
			} else {
				assert.Equal(t, float64(7), b.position)
			}
			assert.Equal(t, 0, b.starts+b.stops, "reconciling never drives the backend")
		})
	}
}

func TestController_BackendChangedIsIdempotent(t *testing.T) {
	c, b, tm := loaded(t)
	c.OnPlayPressed()
	starts := tm.starts

	// Delayed notification for the start we already committed.
	c.OnBackendChanged()

	assert.Equal(t, StatePlaying, c.State())
	assert.Equal(t, starts, tm.starts, "timer not restarted")
	assert.Equal(t, 1, b.starts)
}

func TestController_TimerRunsOnlyWhilePlaying(t *testing.T) {
	c, b, tm := loaded(t)

	check := func(step string) {
		assert.Equal(t, c.State() == StatePlaying, tm.Running(), "after %s (state %s)", step, c.State())
	}

	check("open")
	c.OnPlayPressed()
	check("play")
	c.OnPlayPressed()
	check("pause")
	c.OnPlayPressed()
	check("resume")
	c.OnStopPressed()
	check("stop")
	c.OnPlayPressed()
	check("play again")
	b.playing = false
	c.OnBackendChanged()
	check("end of file")
	c.OnStopPressed()
	check("stop while stopped")
}

func TestController_Tick(t *testing.T) {
	c, b, _ := loaded(t)
	drain(c)

	c.OnTick()
	assert.Empty(t, drain(c), "no cursor refresh while stopped")

	c.OnPlayPressed()
	drain(c)
	b.position = 65.4

	c.OnTick()

	events := drain(c)
	require.Len(t, events, 1)
	assert.Equal(t, EventCursorMoved, events[0].Type)
	assert.Equal(t, StatePlaying, events[0].State)
	assert.InDelta(t, 65.4, events[0].Cursor.Position, 1e-9)
	assert.InDelta(t, 90, events[0].Cursor.Length, 1e-9)
}

func TestController_Scenario(t *testing.T) {
	c, b, _ := newTestController()

	require.NoError(t, c.OpenFile("song.wav"))
	assert.Equal(t, StateStopped, c.State())
	assert.True(t, c.PlayEnabled())

	c.OnPlayPressed()
	assert.Equal(t, StatePlaying, c.State())
	assert.Equal(t, 1, b.starts)

	b.position = 20
	c.OnStopPressed()
	assert.Equal(t, StateStopped, c.State())
	assert.Equal(t, float64(0), c.Cursor().Position)
	assert.Equal(t, 1, b.stops)
}

func TestController_Events(t *testing.T) {
	c, _, _ := newTestController()

	require.NoError(t, c.OpenFile("song.wav"))
	c.OnPlayPressed()

	var types []EventType
	var states []State
	for _, e := range drain(c) {
		types = append(types, e.Type)
		states = append(states, e.State)
	}

	assert.Equal(t, []EventType{EventTrackLoaded, EventStateChanged, EventStateChanged, EventStateChanged}, types)
	assert.Equal(t, []State{StateStopped, StateStopped, StateStarting, StatePlaying}, states)
}

func TestController_Close(t *testing.T) {
	c, _, tm := loaded(t)
	c.OnPlayPressed()

	c.Close()

	assert.False(t, tm.Running())
	for range c.Events() {
	}
}

func TestCursor_Fraction(t *testing.T) {
	tests := []struct {
		name     string
		cursor   Cursor
		expected float64
	}{
		{name: "halfway", cursor: Cursor{Position: 30, Length: 60}, expected: 0.5},
		{name: "zero length", cursor: Cursor{Position: 30, Length: 0}, expected: 0},
		{name: "past the end", cursor: Cursor{Position: 70, Length: 60}, expected: 1},
		{name: "negative", cursor: Cursor{Position: -1, Length: 60}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.cursor.Fraction(), 1e-9)
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "starting", StateStarting.String())
	assert.Equal(t, "playing", StatePlaying.String())
	assert.Equal(t, "pausing", StatePausing.String())
	assert.Equal(t, "paused", StatePaused.String())
	assert.Equal(t, "stopping", StateStopping.String())
	assert.Equal(t, "unknown", State(42).String())
}

func drain(c *Controller) []Event {
	var events []Event
	for {
		select {
		case e := <-c.Events():
			events = append(events, e)
		default:
			return events
		}
	}
}
