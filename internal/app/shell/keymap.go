package shell

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Open key.Binding
	Play key.Binding
	Stop key.Binding
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Open: key.NewBinding(
			key.WithKeys("o", "O"),
			key.WithHelp("o", "open"),
		),
		Play: key.NewBinding(
			key.WithKeys("p", "P", " "),
			key.WithHelp("p/space", "play/pause"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s", "S"),
			key.WithHelp("s", "stop"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Play, k.Stop, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var cancelKey = key.NewBinding(
	key.WithKeys("esc"),
	key.WithHelp("esc", "cancel"),
)
