package shell

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/osa030/wavbox/internal/app/waveform"
)

const (
	markerRune  = '│'
	loadingText = "Loading waveform..."
)

var (
	buttonStyle   = lipgloss.NewStyle().Bold(true)
	disabledStyle = lipgloss.NewStyle().Faint(true)
	waveStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder())
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Button is a rendered transport control.
type Button struct {
	Label   string
	Enabled bool
}

func (b Button) String() string {
	s := "[ " + b.Label + " ]"
	if !b.Enabled {
		return disabledStyle.Render(s)
	}
	return buttonStyle.Render(s)
}

// Frame is one screenful of UI state.
type Frame struct {
	Buttons []Button
	Label   string
	Wave    []string // Waveform rows including the marker
	Status  string
	Prompt  string
	Help    string
}

// Render lays the frame out for a terminal width columns wide.
func (f Frame) Render(width int) string {
	buttons := make([]string, len(f.Buttons))
	for i, b := range f.Buttons {
		buttons[i] = b.String()
	}

	parts := []string{
		strings.Join(buttons, "  "),
		lipgloss.PlaceHorizontal(width, lipgloss.Center, f.Label),
		waveStyle.Render(strings.Join(f.Wave, "\n")),
	}
	if f.Status != "" {
		parts = append(parts, statusStyle.Render(f.Status))
	}
	if f.Prompt != "" {
		parts = append(parts, f.Prompt)
	}
	parts = append(parts, f.Help)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// waveRows renders the thumbnail into width×height cells and draws the marker
// column. A missing thumbnail shows the loading text while one is being built.
func waveRows(th *waveform.Thumbnail, loading bool, width, height int, position, length float64) []string {
	if th.NumChannels() == 0 {
		if loading {
			return waveform.Placeholder(width, height, loadingText)
		}
		return th.Render(width, height)
	}

	rows := th.Render(width, height)
	x := waveform.MarkerX(0, width, position, length)
	for i, row := range rows {
		r := []rune(row)
		if x < len(r) {
			r[x] = markerRune
		}
		rows[i] = string(r)
	}
	return rows
}
