package notepad

import "fmt"

type mutationKind int

const (
	kindComplete mutationKind = iota + 1
	kindReminder
)

func (k mutationKind) String() string {
	switch k {
	case kindComplete:
		return "complete"
	case kindReminder:
		return "reminder"
	default:
		return "unknown"
	}
}

// apply sets the optimistic state of kind k on v.
func (k mutationKind) apply(v NoteView, target bool) NoteView {
	if k == kindReminder {
		return withReminder(v, target)
	}
	return withCompletion(v, target)
}

// restore copies the fields owned by kind k from snapshot back onto current,
// leaving every other field as it is now.
func (k mutationKind) restore(current, snapshot NoteView) NoteView {
	if k == kindReminder {
		current.HasReminder = snapshot.HasReminder
		current.NotificationIcon = snapshot.NotificationIcon
		current.NotifyButtonClass = snapshot.NotifyButtonClass
		return current
	}
	current.IsCompleted = snapshot.IsCompleted
	current.NoteTextClass = snapshot.NoteTextClass
	current.StickyNoteClass = snapshot.StickyNoteClass
	current.CompleteIcon = snapshot.CompleteIcon
	current.CompleteButtonClass = snapshot.CompleteButtonClass
	return current
}

type mutationState int

const (
	stateIdle mutationState = iota
	statePending
	stateCommitted
	stateRolledBack
)

func (s mutationState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case statePending:
		return "pending"
	case stateCommitted:
		return "committed"
	case stateRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

type mutationKey struct {
	kind   mutationKind
	noteID string
}

// mutation is one optimistic change: Idle -> Pending -> Committed | RolledBack.
type mutation struct {
	key      mutationKey
	snapshot NoteView
	target   bool
	state    mutationState
}

func newMutation(kind mutationKind, snapshot NoteView, target bool) *mutation {
	return &mutation{
		key:      mutationKey{kind: kind, noteID: snapshot.ID},
		snapshot: snapshot,
		target:   target,
	}
}

// begin moves to Pending and returns the optimistic view.
func (m *mutation) begin() (NoteView, error) {
	if err := m.transition(stateIdle, statePending); err != nil {
		return NoteView{}, err
	}
	return m.key.kind.apply(m.snapshot, m.target), nil
}

// commit moves to Committed. final is the state the backend ended up in and
// the returned function applies it to the current entry.
func (m *mutation) commit(final bool) (func(NoteView) NoteView, error) {
	if err := m.transition(statePending, stateCommitted); err != nil {
		return nil, err
	}
	return func(v NoteView) NoteView { return m.key.kind.apply(v, final) }, nil
}

// rollback moves to RolledBack and returns the inverse of begin.
func (m *mutation) rollback() (func(NoteView) NoteView, error) {
	if err := m.transition(statePending, stateRolledBack); err != nil {
		return nil, err
	}
	return func(v NoteView) NoteView { return m.key.kind.restore(v, m.snapshot) }, nil
}

func (m *mutation) transition(from, to mutationState) error {
	if m.state != from {
		return fmt.Errorf("notepad: %s mutation on %s: cannot move from %s to %s", m.key.kind, m.key.noteID, m.state, to)
	}
	m.state = to
	return nil
}
