package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Filter key.Binding
	Copy   key.Binding
	Back   key.Binding
	Logs   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "analyze")),
		Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Copy:   key.NewBinding(key.WithKeys("c", "C"), key.WithHelp("c", "copy prompt")),
		Back:   key.NewBinding(key.WithKeys("b", "B"), key.WithHelp("b", "back to list")),
		Logs:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logs")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
