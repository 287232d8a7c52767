package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/starford/notepad/internal/notepad"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	linkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Underline(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	confirmStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	ownerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
)

// textStyles and cardStyles are keyed by the derived class names of a
// NoteView.
var textStyles = map[string]lipgloss.Style{
	notepad.ClassTextNormal:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	notepad.ClassTextCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Strikethrough(true),
}

var cardStyles = map[string]lipgloss.Style{
	notepad.ClassCardNormal: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("220")).
		PaddingLeft(1),
	notepad.ClassCardCompleted: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("240")).
		PaddingLeft(1),
}

var icons = map[string]string{
	notepad.IconNoteComplete:   "[ ]",
	notepad.IconNoteIsComplete: "[x]",
	notepad.IconNotifyOff:      "( )",
	notepad.IconNotifyOn:       "(!)",
}

func styleFor(m map[string]lipgloss.Style, class string) lipgloss.Style {
	if s, ok := m[class]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

func icon(name string) string {
	if s, ok := icons[name]; ok {
		return s
	}
	return "?"
}
