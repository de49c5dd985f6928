package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Play         key.Binding
	Enumerate    key.Binding
	RandomVoices key.Binding
	Copy         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Play: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/stop"),
		),
		Enumerate: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "spell out"),
		),
		RandomVoices: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "random voices"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy host"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Copy},
		{k.Enumerate, k.RandomVoices},
		{k.Help, k.Quit},
	}
}
