// Package tui is the terminal host for a notepad view.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/notepad/internal/notepad"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

// Model is the bubbletea model of a notepad view.
type Model struct {
	ctx    context.Context
	ctl    *notepad.Controller
	bridge *Bridge
	keys   KeyMap
	title  string

	snap      notepad.Snapshot
	cursor    int
	mode      mode
	editingID string
	input     textinput.Model
	status    string
	statusErr bool
	width     int
}

// New creates the model. bridge must be the notifier the controller was
// built with.
func New(ctx context.Context, ctl *notepad.Controller, bridge *Bridge, title string) Model {
	ctl.OnChange(bridge.Changed)

	ti := textinput.New()
	ti.Placeholder = "Note text"
	ti.CharLimit = 1024
	ti.Width = 60

	return Model{
		ctx:    ctx,
		ctl:    ctl,
		bridge: bridge,
		keys:   DefaultKeyMap(),
		title:  title,
		snap:   ctl.Snapshot(),
		input:  ti,
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// actionMsg reports the result of a controller call run off the UI loop.
type actionMsg struct {
	op  string
	err error
}

func (m Model) do(op string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionMsg{op: op, err: fn(ctx)}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.bridge.waitChange(),
		m.bridge.waitToast(),
		m.bridge.waitReload(),
		m.do("load", m.ctl.Load),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.refresh()
		return m, m.bridge.waitChange()

	case toastMsg:
		m.status = msg.toast.Message
		m.statusErr = msg.toast.Variant == notepad.ToastError
		return m, m.bridge.waitToast()

	case reloadMsg:
		return m, tea.Batch(m.bridge.waitReload(), m.do("reload", m.ctl.Reload))

	case actionMsg:
		m.refresh()
		if msg.err != nil && !toasted(msg.err) {
			m.setError(msg.err)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 10 {
			m.input.Width = msg.Width - 10
		}
		return m, nil

	case tea.KeyMsg:
		if m.snap.ShowDeleteConfirmation {
			return m.updateDeleteConfirm(msg)
		}
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeEdit:
			return m.updateEdit(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

// refresh pulls the latest snapshot and keeps the cursor and mode in step
// with it.
func (m *Model) refresh() {
	m.snap = m.ctl.Snapshot()
	m.cursor = clampCursor(m.cursor, len(m.snap.Notes))
	switch m.mode {
	case modeAdd:
		if !m.snap.IsAdding {
			m.leaveInput()
		}
	case modeEdit:
		if v, ok := m.snap.Note(m.editingID); !ok || !v.IsEditing {
			m.leaveInput()
		}
	}
}

func (m *Model) leaveInput() {
	m.mode = modeList
	m.editingID = ""
	m.input.SetValue("")
	m.input.Blur()
}

// toasted reports whether the controller raised a toast for err. Backend
// failures always toast and the toast carries the message to show; the
// controller's own refusals do not.
func toasted(err error) bool {
	for _, local := range []error{
		notepad.ErrEmptyNote,
		notepad.ErrUnknownNote,
		notepad.ErrMutationPending,
		notepad.ErrUnsupported,
		notepad.ErrNotEditing,
	} {
		if errors.Is(err, local) {
			return false
		}
	}
	return true
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}

func (m Model) current() (notepad.NoteView, bool) {
	if len(m.snap.Notes) == 0 {
		return notepad.NoteView{}, false
	}
	return m.snap.Notes[clampCursor(m.cursor, len(m.snap.Notes))], true
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.snap.Notes))
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.snap.Notes))
	case key.Matches(msg, m.keys.Reload):
		m.clearStatus()
		return m, m.do("reload", m.ctl.Reload)

	case key.Matches(msg, m.keys.Add):
		if err := m.ctl.StartNewNote(); err != nil {
			m.setError(err)
			return m, nil
		}
		m.clearStatus()
		m.mode = modeAdd
		m.input.SetValue(m.ctl.Snapshot().NewNoteText)
		m.snap = m.ctl.Snapshot()
		cmd := m.input.Focus()
		return m, cmd
	}

	v, ok := m.current()
	if !ok {
		return m, nil
	}
	id := v.ID
	switch {
	case key.Matches(msg, m.keys.ToggleComplete):
		m.clearStatus()
		return m, m.do("complete", func(ctx context.Context) error { return m.ctl.ToggleComplete(ctx, id) })
	case key.Matches(msg, m.keys.ToggleReminder):
		m.clearStatus()
		return m, m.do("reminder", func(ctx context.Context) error { return m.ctl.ToggleReminder(ctx, id) })
	case key.Matches(msg, m.keys.Edit):
		if !v.IsEditing {
			if err := m.ctl.ToggleEdit(id); err != nil {
				m.setError(err)
				return m, nil
			}
		}
		m.clearStatus()
		m.mode = modeEdit
		m.editingID = id
		m.snap = m.ctl.Snapshot()
		cur, _ := m.snap.Note(id)
		m.input.SetValue(cur.Draft)
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Delete):
		if err := m.ctl.RequestDelete(id); err != nil {
			m.setError(err)
			return m, nil
		}
		m.snap = m.ctl.Snapshot()
	case key.Matches(msg, m.keys.Open):
		link, err := m.ctl.RecordLink(id)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		if link == "" {
			m.status = "No linked record."
		} else {
			m.status = "Record: " + link
		}
		m.statusErr = false
	}
	return m, nil
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case msg.Type == tea.KeyEsc:
		_ = m.ctl.CancelNewNote()
		m.leaveInput()
		m.snap = m.ctl.Snapshot()
		return m, nil
	case key.Matches(msg, m.keys.Save):
		m.clearStatus()
		return m, m.do("create", m.ctl.SaveNewNote)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	_ = m.ctl.SetNewNoteText(m.input.Value())
	return m, cmd
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.editingID
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case msg.Type == tea.KeyEsc:
		_ = m.ctl.CancelEdit(id)
		m.leaveInput()
		m.snap = m.ctl.Snapshot()
		return m, nil
	case key.Matches(msg, m.keys.Save):
		m.clearStatus()
		return m, m.do("update", func(ctx context.Context) error { return m.ctl.SaveEdit(ctx, id) })
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if err := m.ctl.HandleEditChange(id, m.input.Value()); err != nil {
		m.leaveInput()
		m.setError(err)
	}
	return m, cmd
}

func (m Model) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.clearStatus()
		return m, m.do("delete", m.ctl.ConfirmDelete)
	case key.Matches(msg, m.keys.Cancel):
		m.ctl.CancelDelete()
		m.snap = m.ctl.Snapshot()
		m.status = "Delete cancelled"
		m.statusErr = false
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	header := m.title
	if m.snap.Loading {
		header += " (loading...)"
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	if len(m.snap.Notes) == 0 {
		b.WriteString(metaStyle.Render("No notes."))
		b.WriteString("\n")
	}
	for i, v := range m.snap.Notes {
		b.WriteString(m.renderNote(v, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.snap.ShowDeleteConfirmation && m.snap.PendingDelete != nil:
		b.WriteString(confirmStyle.Render(fmt.Sprintf("Delete %q? y/n", truncate(m.snap.PendingDelete.Text, 40))))
		b.WriteString("\n")
	case m.mode == modeAdd:
		b.WriteString("New note: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case m.mode == modeEdit:
		b.WriteString("Edit: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.status != "" {
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(successStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) renderNote(v notepad.NoteView, selected bool) string {
	text := v.Text
	if v.IsEditing {
		text = v.Draft + " ✎"
	}
	line := fmt.Sprintf("%s %s %s", icon(v.CompleteIcon), icon(v.NotificationIcon), styleFor(textStyles, v.NoteTextClass).Render(text))
	if selected {
		line = selectedStyle.Render(line)
	}

	var meta []string
	if v.CreatedDisplay != "" {
		meta = append(meta, v.CreatedDisplay)
	}
	if v.DueDisplay != "" {
		meta = append(meta, "due "+v.DueDisplay)
	}
	if v.OwnerName != "" {
		owner := v.OwnerName
		if v.IsOwner {
			owner = ownerStyle.Render(owner + " (you)")
		}
		meta = append(meta, owner)
	}
	if v.RelatedRecordLink != "" {
		meta = append(meta, linkStyle.Render(v.RelatedRecordName))
	} else if v.CompanyName != "" {
		meta = append(meta, v.CompanyName)
	}

	body := line
	if len(meta) > 0 {
		body += "\n" + metaStyle.Render(strings.Join(meta, " · "))
	}
	return styleFor(cardStyles, v.StickyNoteClass).Render(body)
}

func (m Model) help() string {
	switch {
	case m.snap.ShowDeleteConfirmation:
		return "y: delete • n/esc: keep"
	case m.mode != modeList:
		return "enter: save • esc: cancel"
	}
	bindings := m.keys.listHelp(m.snap.Capabilities.CreateNotes, m.snap.Capabilities.Navigation)
	parts := make([]string, 0, len(bindings))
	for _, k := range bindings {
		h := k.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
