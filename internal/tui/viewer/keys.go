package viewer

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the viewer keybindings.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Clear  key.Binding

	NextPanel  key.Binding
	PrevPanel  key.Binding
	NextOption key.Binding
	BaseUp     key.Binding
	BaseDown   key.Binding

	CellLeft  key.Binding
	CellRight key.Binding
	CellUp    key.Binding
	CellDown  key.Binding

	Preset     key.Binding
	SwitchView key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys("enter", "x", " ", "space"), key.WithHelp("enter/x", "select")),
		Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),

		NextPanel:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
		PrevPanel:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev panel")),
		NextOption: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "option")),
		BaseUp:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "base up")),
		BaseDown:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "base down")),

		CellLeft:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "cell left")),
		CellRight: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "cell right")),
		CellUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "cell up")),
		CellDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "cell down")),

		Preset:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "next preset")),
		SwitchView: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "sequences/numbers")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.NextPanel, k.NextOption, k.Preset, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Clear},
		{k.NextPanel, k.PrevPanel, k.NextOption, k.BaseUp, k.BaseDown},
		{k.CellLeft, k.CellRight, k.CellUp, k.CellDown},
		{k.Preset, k.SwitchView, k.Help, k.Quit},
	}
}
