// Package transport provides the play/pause/stop state machine driving an audio backend.
package transport

// State represents the transport state.
type State int

const (
	StateStopped  State = iota // Position at zero, nothing playing
	StateStarting              // Backend start requested
	StatePlaying               // Backend producing audio
	StatePausing               // Backend stop requested, position kept
	StatePaused                // Stopped with position kept
	StateStopping              // Backend stop requested, position to be reset
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StatePlaying:
		return "playing"
	case StatePausing:
		return "pausing"
	case StatePaused:
		return "paused"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// CanStop reports whether the stop control is enabled in this state.
func (s State) CanStop() bool {
	switch s {
	case StatePlaying, StatePausing, StatePaused, StateStopping:
		return true
	default:
		return false
	}
}
