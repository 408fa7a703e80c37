// Package waveform builds and renders cached visual summaries of tracks.
package waveform

import (
	"strings"

	"github.com/osa030/wavbox/internal/domain/track"
)

// DefaultResolution is the number of source frames summarized by one peak.
const DefaultResolution = 512

// NoFileText is shown in place of a waveform when nothing is loaded.
const NoFileText = "No File Loaded"

// Peak is the sample range of one bucket.
type Peak struct {
	Min float32
	Max float32
}

// Thumbnail is a min/max summary of a track, one peak per bucket per channel.
type Thumbnail struct {
	Resolution int
	Length     float64  // Seconds
	Peaks      [][]Peak // Indexed by channel, then bucket
}

// NewThumbnail summarizes t in buckets of resolution frames.
func NewThumbnail(t *track.Track, resolution int) *Thumbnail {
	if resolution <= 0 {
		resolution = DefaultResolution
	}

	th := &Thumbnail{
		Resolution: resolution,
		Length:     t.LengthSeconds(),
	}

	frames := t.Frames()
	if frames == 0 {
		return th
	}

	buckets := (frames + resolution - 1) / resolution
	th.Peaks = make([][]Peak, t.Channels)
	for ch := range th.Peaks {
		th.Peaks[ch] = make([]Peak, buckets)
	}

	for b := 0; b < buckets; b++ {
		start := b * resolution
		end := min(start+resolution, frames)
		for ch := 0; ch < t.Channels; ch++ {
			p := Peak{Min: t.Sample(start, ch), Max: t.Sample(start, ch)}
			for f := start + 1; f < end; f++ {
				v := t.Sample(f, ch)
				p.Min = min(p.Min, v)
				p.Max = max(p.Max, v)
			}
			th.Peaks[ch][b] = p
		}
	}

	return th
}

// NumChannels returns the number of summarized channels; 0 means empty.
func (th *Thumbnail) NumChannels() int {
	if th == nil {
		return 0
	}
	return len(th.Peaks)
}

// NumBuckets returns the number of peaks per channel.
func (th *Thumbnail) NumBuckets() int {
	if th.NumChannels() == 0 {
		return 0
	}
	return len(th.Peaks[0])
}

// Range returns the combined peak of all channels over buckets [from, to).
func (th *Thumbnail) Range(from, to int) Peak {
	var p Peak
	first := true
	for _, peaks := range th.Peaks {
		for b := max(from, 0); b < min(to, len(peaks)); b++ {
			if first {
				p = peaks[b]
				first = false
				continue
			}
			p.Min = min(p.Min, peaks[b].Min)
			p.Max = max(p.Max, peaks[b].Max)
		}
	}
	return p
}

// Render draws the thumbnail into height rows of width cells. Each column
// shows the combined envelope of all channels; amplitude +1 is the top row
// and -1 the bottom row.
func (th *Thumbnail) Render(width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	if th.NumChannels() == 0 {
		return Placeholder(width, height, NoFileText)
	}

	rows := make([][]rune, height)
	for r := range rows {
		rows[r] = []rune(strings.Repeat(" ", width))
	}

	buckets := th.NumBuckets()
	for x := 0; x < width; x++ {
		from := x * buckets / width
		to := max((x+1)*buckets/width, from+1)
		p := th.Range(from, to)

		for r := 0; r < height; r++ {
			top := 1 - 2*float32(r)/float32(height)
			bottom := 1 - 2*float32(r+1)/float32(height)
			if p.Max >= bottom && p.Min <= top {
				rows[r][x] = '█'
			}
		}
	}

	return join(rows)
}

// Placeholder returns height blank rows of width cells with text centred.
func Placeholder(width, height int, text string) []string {
	if width <= 0 || height <= 0 {
		return nil
	}

	rows := make([][]rune, height)
	for r := range rows {
		rows[r] = []rune(strings.Repeat(" ", width))
	}

	runes := []rune(text)
	if len(runes) > width {
		runes = runes[:width]
	}
	start := (width - len(runes)) / 2
	copy(rows[height/2][start:], runes)
	return join(rows)
}

func join(rows [][]rune) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = string(r)
	}
	return out
}

// MarkerX returns the column of the playback marker inside an area starting
// at left and width columns wide. An unknown length places it at left.
func MarkerX(left, width int, position, length float64) int {
	if length <= 0 || width <= 0 {
		return left
	}
	frac := position / length
	x := left + int(float64(width)*frac)
	return max(left, min(x, left+width-1))
}
