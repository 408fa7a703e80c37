// Package track provides the Track domain entity.
package track

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Track represents a decoded audio file held in memory.
// A Track is never mutated once built; opening another file replaces it.
type Track struct {
	ID         string    // Unique per load
	Path       string    // Source file path
	Name       string    // Base file name
	SampleRate int       // Frames per second
	Channels   int       // Interleaved channel count
	BitDepth   int       // Bits per sample in the source file
	ModTime    time.Time // Source file modification time, zero if unknown
	Samples    []float32 // Interleaved samples normalized to [-1,1]
}

// New creates a Track with a fresh ID.
func New(path string, sampleRate, channels, bitDepth int, samples []float32) *Track {
	return &Track{
		ID:         uuid.New().String(),
		Path:       path,
		Name:       filepath.Base(path),
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   bitDepth,
		Samples:    samples,
	}
}

// Frames returns the number of sample frames.
func (t *Track) Frames() int {
	if t == nil || t.Channels <= 0 {
		return 0
	}
	return len(t.Samples) / t.Channels
}

// LengthSeconds returns the track length in seconds.
func (t *Track) LengthSeconds() float64 {
	if t == nil || t.SampleRate <= 0 {
		return 0
	}
	return float64(t.Frames()) / float64(t.SampleRate)
}

// Duration returns the track length as a time.Duration.
func (t *Track) Duration() time.Duration {
	return time.Duration(t.LengthSeconds() * float64(time.Second))
}

// Sample returns the sample of channel ch at frame. Out-of-range frames read as silence.
func (t *Track) Sample(frame, ch int) float32 {
	if frame < 0 || frame >= t.Frames() || ch < 0 || ch >= t.Channels {
		return 0
	}
	return t.Samples[frame*t.Channels+ch]
}
