package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the list-mode bindings.
type KeyMap struct {
	Up             key.Binding
	Down           key.Binding
	ToggleComplete key.Binding
	ToggleReminder key.Binding
	Add            key.Binding
	Edit           key.Binding
	Delete         key.Binding
	Open           key.Binding
	Reload         key.Binding
	Quit           key.Binding

	Confirm key.Binding
	Cancel  key.Binding
	Save    key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		ToggleComplete: key.NewBinding(key.WithKeys(" ", "c"), key.WithHelp("space", "complete")),
		ToggleReminder: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "remind me")),
		Add:            key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:           key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:         key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Open:           key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open record")),
		Reload:         key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		Cancel:  key.NewBinding(key.WithKeys("esc", "n"), key.WithHelp("esc", "cancel")),
		Save:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	}
}

func (k KeyMap) listHelp(caps bool, nav bool) []key.Binding {
	out := []key.Binding{k.Up, k.Down, k.ToggleComplete, k.ToggleReminder}
	if caps {
		out = append(out, k.Add)
	}
	out = append(out, k.Edit, k.Delete)
	if nav {
		out = append(out, k.Open)
	}
	return append(out, k.Reload, k.Quit)
}
