// Package shell is the terminal user interface around the transport, run as
// a bubbletea program.
//
// bubbletea delivers every message to Update on one goroutine, so all
// controller calls are serialized: key presses, backend change
// notifications, timer ticks, chooser results and finished thumbnails.
package shell

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wavbox/internal/app/transport"
	"github.com/osa030/wavbox/internal/app/waveform"
	"github.com/osa030/wavbox/internal/domain/track"
)

const (
	defaultWidth      = 80
	defaultWaveHeight = 10
	minWidth          = 20
)

// Options configures the shell.
type Options struct {
	Pattern    string // File name pattern offered by the chooser
	Width      int    // Maximum frame width in columns
	WaveHeight int    // Waveform rows
	File       string // Opened at start when set
}

type backendChangedMsg struct{}

type thumbnailMsg struct {
	track *track.Track
	thumb *waveform.Thumbnail
}

// Model is the bubbletea model of the player.
type Model struct {
	ctx     context.Context
	ctrl    *transport.Controller
	timer   *TickTimer
	changes <-chan struct{}
	chooser Chooser
	thumbs  *waveform.Cache
	opts    Options
	keys    keyMap
	help    help.Model

	width    int
	thumb    *waveform.Thumbnail
	loading  bool
	status   string
	quitting bool
}

// New creates the model. changes is the backend's change notification
// channel; ctx ends the wait on it.
func New(ctx context.Context, ctrl *transport.Controller, timer *TickTimer, changes <-chan struct{},
	chooser Chooser, thumbs *waveform.Cache, opts Options) *Model {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.WaveHeight <= 0 {
		opts.WaveHeight = defaultWaveHeight
	}
	return &Model{
		ctx:     ctx,
		ctrl:    ctrl,
		timer:   timer,
		changes: changes,
		chooser: chooser,
		thumbs:  thumbs,
		opts:    opts,
		keys:    defaultKeyMap(),
		help:    help.New(),
		width:   opts.Width,
	}
}

// Init starts listening for backend changes and opens the initial file.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForChange()}
	if m.opts.File != "" {
		cmds = append(cmds, chosen(m.opts.File, true))
	}
	return tea.Batch(cmds...)
}

// Update handles one message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
	case backendChangedMsg:
		m.ctrl.OnBackendChanged()
		cmds = append(cmds, m.waitForChange())
	case tickMsg:
		if m.timer.fired(msg) {
			m.ctrl.OnTick()
			cmds = append(cmds, m.timer.tick())
		}
	case FileChosenMsg:
		m.fileChosen(msg)
	case thumbnailMsg:
		if msg.track == m.ctrl.Track() {
			m.thumb = msg.thumb
			m.loading = false
		}
	default:
		if p := m.prompt(); p != nil {
			cmds = append(cmds, p.Update(msg))
		}
	}

	if m.quitting {
		return m, tea.Quit
	}

	cmds = append(cmds, m.settle()...)
	cmds = append(cmds, m.timer.next())
	return m, tea.Batch(cmds...)
}

// View renders the current frame.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	return m.Frame().Render(m.width)
}

// Quitting reports whether the user asked to quit.
func (m *Model) Quitting() bool {
	return m.quitting
}

// Frame captures the current UI state.
func (m *Model) Frame() Frame {
	cursor := m.ctrl.Cursor()
	f := Frame{
		Buttons: []Button{
			{Label: "Open...", Enabled: true},
			{Label: m.ctrl.PlayLabel(), Enabled: m.ctrl.PlayEnabled()},
			{Label: "Stop", Enabled: m.ctrl.StopEnabled()},
		},
		Label:  CursorLabel(cursor),
		Wave:   waveRows(m.thumb, m.loading, m.width-2, m.opts.WaveHeight, cursor.Position, cursor.Length),
		Status: m.status,
		Help:   m.help.View(m.keys),
	}
	if p := m.prompt(); p != nil {
		f.Prompt = p.View()
	}
	return f
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return nil
	}
	if p := m.prompt(); p != nil {
		return p.Update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Open):
		return m.chooser.Choose(m.opts.Pattern)
	case key.Matches(msg, m.keys.Play):
		m.ctrl.OnPlayPressed()
	case key.Matches(msg, m.keys.Stop):
		m.ctrl.OnStopPressed()
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
	}
	return nil
}

func (m *Model) fileChosen(msg FileChosenMsg) {
	if !msg.OK {
		return
	}
	if err := m.ctrl.OpenFile(msg.Path); err != nil {
		zlog.Warn().Err(err).Msg("shell: open failed")
		m.status = err.Error()
		return
	}
	m.status = ""
}

// prompt returns the chooser while it owns the keyboard.
func (m *Model) prompt() Prompt {
	if p, ok := m.chooser.(Prompt); ok && p.Active() {
		return p
	}
	return nil
}

func (m *Model) resize(width int) {
	if width < minWidth {
		width = minWidth
	}
	if width > m.opts.Width {
		width = m.opts.Width
	}
	m.width = width
	m.help.Width = width
}

// settle applies pending backend notifications and controller events.
func (m *Model) settle() []tea.Cmd {
	var cmds []tea.Cmd
	for {
		select {
		case <-m.changes:
			m.ctrl.OnBackendChanged()
			continue
		case e, ok := <-m.ctrl.Events():
			if ok {
				cmds = append(cmds, m.handleEvent(e))
				continue
			}
		default:
		}
		return cmds
	}
}

func (m *Model) handleEvent(e transport.Event) tea.Cmd {
	switch e.Type {
	case transport.EventTrackLoaded:
		m.thumb = nil
		m.loading = true
		return m.buildThumbnail(e.Track)
	case transport.EventStateChanged:
		zlog.Debug().Msgf("shell: state %s", e.State)
	}
	return nil
}

// buildThumbnail computes the thumbnail off the UI goroutine.
func (m *Model) buildThumbnail(t *track.Track) tea.Cmd {
	thumbs := m.thumbs
	return func() tea.Msg {
		return thumbnailMsg{track: t, thumb: thumbs.Get(t)}
	}
}

// waitForChange delivers the next backend notification as a message.
func (m *Model) waitForChange() tea.Cmd {
	ctx, changes := m.ctx, m.changes
	return func() tea.Msg {
		select {
		case <-changes:
			return backendChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}
