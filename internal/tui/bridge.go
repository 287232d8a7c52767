package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/notepad/internal/notepad"
)

// Bridge carries controller events into the bubbletea loop. It implements
// notepad.Notifier; pass it to the controller with notepad.WithNotifier.
// None of its methods block.
type Bridge struct {
	changes chan struct{}
	toasts  chan notepad.Toast
	reloads chan struct{}
}

// NewBridge creates a bridge.
func NewBridge() *Bridge {
	return &Bridge{
		changes: make(chan struct{}, 1),
		toasts:  make(chan notepad.Toast, 16),
		reloads: make(chan struct{}, 1),
	}
}

// Notify implements notepad.Notifier. Toasts arriving faster than the UI
// drains them are dropped.
func (b *Bridge) Notify(t notepad.Toast) {
	select {
	case b.toasts <- t:
	default:
	}
}

// Changed signals that the controller state moved. Consecutive signals
// collapse into one; the model reads the latest snapshot itself.
func (b *Bridge) Changed(notepad.Snapshot) {
	select {
	case b.changes <- struct{}{}:
	default:
	}
}

// RequestReload asks the UI to reload the list, e.g. after the database
// changed on disk or the server reported a change.
func (b *Bridge) RequestReload() {
	select {
	case b.reloads <- struct{}{}:
	default:
	}
}

type changedMsg struct{}

type toastMsg struct{ toast notepad.Toast }

type reloadMsg struct{}

func (b *Bridge) waitChange() tea.Cmd {
	return func() tea.Msg {
		<-b.changes
		return changedMsg{}
	}
}

func (b *Bridge) waitToast() tea.Cmd {
	return func() tea.Msg {
		return toastMsg{toast: <-b.toasts}
	}
}

func (b *Bridge) waitReload() tea.Cmd {
	return func() tea.Msg {
		<-b.reloads
		return reloadMsg{}
	}
}
