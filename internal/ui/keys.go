package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pages     key.Binding
	Next      key.Binding
	Prev      key.Binding
	Up        key.Binding
	Down      key.Binding
	Home      key.Binding
	End       key.Binding
	Reload    key.Binding
	Add       key.Binding
	Filter    key.Binding
	Period    key.Binding
	Logout    key.Binding
	Help      key.Binding
	Quit      key.Binding
	Escape    key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Pages:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7"), key.WithHelp("1-7", "page")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next page")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev page")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Home:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		End:       key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Period:    key.NewBinding(key.WithKeys("d", "w", "m", "y"), key.WithHelp("d/w/m/y", "period")),
		Logout:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp is part of help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pages, k.Reload, k.Logout, k.Help, k.Quit}
}

// FullHelp is part of help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pages, k.Next, k.Prev},
		{k.Up, k.Down, k.Home, k.End},
		{k.Reload, k.Add, k.Filter, k.Escape},
		{k.Period, k.Logout, k.Help, k.Quit},
	}
}
