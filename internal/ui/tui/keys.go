package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	First  key.Binding
	Last   key.Binding
	Up     key.Binding
	Down   key.Binding
	Info   key.Binding
	Switch key.Binding
	Reload key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next:   key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/→", "next page")),
		Prev:   key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p/←", "prev page")),
		First:  key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first")),
		Last:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last")),
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Info:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "parameters")),
		Switch: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "txt2img/img2img")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Info, k.Switch, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.First, k.Last},
		{k.Up, k.Down, k.Info},
		{k.Switch, k.Reload, k.Quit},
	}
}
