package shell

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type tickMsg struct {
	gen int
}

// TickTimer is the cursor refresh timer, driven by tea.Tick. Start arms it;
// the model schedules each following tick while it keeps running. Stop
// invalidates ticks already in flight.
type TickTimer struct {
	interval time.Duration
	running  bool
	armed    bool
	gen      int
}

// NewTickTimer creates a stopped timer.
func NewTickTimer(interval time.Duration) *TickTimer {
	return &TickTimer{interval: interval}
}

// Start starts ticking. Starting a running timer has no effect.
func (t *TickTimer) Start() {
	if t.running {
		return
	}
	t.running = true
	t.armed = true
	t.gen++
}

// Stop stops ticking.
func (t *TickTimer) Stop() {
	if !t.running {
		return
	}
	t.running = false
	t.armed = false
	t.gen++
}

// Running reports whether the timer is ticking.
func (t *TickTimer) Running() bool {
	return t.running
}

// next returns the first tick after Start, or nil.
func (t *TickTimer) next() tea.Cmd {
	if !t.armed {
		return nil
	}
	t.armed = false
	return t.tick()
}

func (t *TickTimer) tick() tea.Cmd {
	gen := t.gen
	return tea.Tick(t.interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// fired reports whether msg belongs to the current run.
func (t *TickTimer) fired(msg tickMsg) bool {
	return t.running && msg.gen == t.gen
}
