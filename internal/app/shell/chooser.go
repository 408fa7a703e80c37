package shell

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// FileChosenMsg is the result of a file chooser. OK is false when the user
// cancelled.
type FileChosenMsg struct {
	Path string
	OK   bool
}

func chosen(path string, ok bool) tea.Cmd {
	return func() tea.Msg {
		return FileChosenMsg{Path: path, OK: ok}
	}
}

// Chooser selects a file asynchronously; the result arrives as a FileChosenMsg.
type Chooser interface {
	Choose(pattern string) tea.Cmd
}

// Prompt is implemented by choosers that take over the keyboard while open.
type Prompt interface {
	Active() bool
	Update(msg tea.Msg) tea.Cmd
	View() string
}

const pickerTitle = "Select a Wave file to play...  (enter opens, esc cancels)"

// DefaultPickerHeight is the number of entries the picker shows at once.
const DefaultPickerHeight = 10

// Picker is an in-terminal file chooser built on the bubbles file picker.
type Picker struct {
	dir    string
	height int

	active bool
	fp     filepicker.Model
}

// NewPicker creates a picker that starts browsing in dir.
func NewPicker(dir string, height int) *Picker {
	if dir == "" {
		dir = "."
	}
	if height <= 0 {
		height = DefaultPickerHeight
	}
	return &Picker{dir: dir, height: height}
}

// Choose opens the picker on a fresh listing of the start directory.
func (p *Picker) Choose(pattern string) tea.Cmd {
	fp := filepicker.New()
	fp.CurrentDirectory = p.dir
	fp.AllowedTypes = allowedTypes(pattern)
	fp.AutoHeight = false
	fp.Height = p.height
	fp.ShowPermissions = false

	p.fp = fp
	p.active = true
	return p.fp.Init()
}

// Active reports whether the picker is open.
func (p *Picker) Active() bool {
	return p.active
}

// Update feeds a message to the open picker.
func (p *Picker) Update(msg tea.Msg) tea.Cmd {
	if !p.active {
		return nil
	}

	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, cancelKey) {
		p.active = false
		return chosen("", false)
	}

	var cmd tea.Cmd
	p.fp, cmd = p.fp.Update(msg)
	if ok, path := p.fp.DidSelectFile(msg); ok {
		p.active = false
		return tea.Batch(cmd, chosen(path, true))
	}
	return cmd
}

// View renders the open picker.
func (p *Picker) View() string {
	if !p.active {
		return ""
	}
	return pickerTitle + "\n" + p.fp.View()
}

// allowedTypes turns a glob such as "*.wav" into the picker's suffix filter,
// accepting either case. Patterns without a plain extension allow every file.
func allowedTypes(pattern string) []string {
	ext := filepath.Ext(pattern)
	if ext == "" || ext == "." || strings.ContainsAny(ext, "*?[") {
		return nil
	}
	lower, upper := strings.ToLower(ext), strings.ToUpper(ext)
	if lower == upper {
		return []string{lower}
	}
	return []string{lower, upper}
}
