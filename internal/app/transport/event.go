package transport

import "github.com/osa030/wavbox/internal/domain/track"

// EventType represents a transport event type.
type EventType int

const (
	EventTrackLoaded  EventType = iota // A new file was opened
	EventStateChanged                  // A transition was committed
	EventCursorMoved                   // Periodic cursor refresh while playing
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventTrackLoaded:
		return "track_loaded"
	case EventStateChanged:
		return "state_changed"
	case EventCursorMoved:
		return "cursor_moved"
	default:
		return "unknown"
	}
}

// Cursor is the playback position derived from the backend.
type Cursor struct {
	Position float64 // Seconds from the start
	Length   float64 // Total length in seconds
}

// Fraction returns Position/Length, or 0 when the length is unknown.
func (c Cursor) Fraction() float64 {
	if c.Length <= 0 {
		return 0
	}
	f := c.Position / c.Length
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Event represents a transport event.
type Event struct {
	Type   EventType
	State  State
	Track  *track.Track // Loaded track (nil when none)
	Cursor Cursor
}
