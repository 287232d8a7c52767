package notepad

import (
	"context"
	"log/slog"
	"strings"

	"github.com/starford/notepad/internal/models"
)

// begin snapshots note id and applies the optimistic state of kind. target
// picks the optimistic value from the current entry.
func (c *Controller) begin(kind mutationKind, id string, target func(NoteView) bool) (*mutation, error) {
	c.mu.Lock()
	v, ok := c.store.get(id)
	if !ok {
		c.mu.Unlock()
		return nil, ErrUnknownNote
	}
	key := mutationKey{kind: kind, noteID: id}
	if _, busy := c.pending[key]; busy {
		c.mu.Unlock()
		return nil, ErrMutationPending
	}
	m := newMutation(kind, v, target(v))
	optimistic, err := m.begin()
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.pending[key] = m
	c.store.put(optimistic)
	c.unlockAndEmit()
	return m, nil
}

// finish commits m with the backend's final state, or rolls it back when
// callErr is set.
func (c *Controller) finish(m *mutation, final bool, callErr error) {
	c.mu.Lock()
	delete(c.pending, m.key)

	var (
		apply func(NoteView) NoteView
		err   error
	)
	if callErr != nil {
		apply, err = m.rollback()
	} else {
		apply, err = m.commit(final)
	}
	if err != nil {
		c.mu.Unlock()
		c.logger.Error("mutation state", slog.String("error", err.Error()))
		return
	}
	c.store.update(m.key.noteID, apply)
	c.unlockAndEmit()
}

// ToggleComplete flips the completion flag of note id. The list shows the
// new state at once; a failed remote call restores the previous state.
func (c *Controller) ToggleComplete(ctx context.Context, id string) error {
	m, err := c.begin(kindComplete, id, func(v NoteView) bool { return !v.IsCompleted })
	if err != nil {
		return err
	}

	err = c.gw.SetCompletion(ctx, id, m.target)
	c.finish(m, m.target, err)

	if err != nil {
		c.logger.Error("set completion failed", slog.String("note_id", id), slog.String("error", err.Error()))
		c.notify(toastCompleteFailed)
		return err
	}
	if m.target {
		c.notify(toastCompleted)
	} else {
		c.notify(toastUncompleted)
	}
	c.reload(ctx)
	return nil
}

// ToggleReminder subscribes or unsubscribes the current user to note id.
// The backend is asked whether a reminder exists first and the reminder is
// then created or removed accordingly.
func (c *Controller) ToggleReminder(ctx context.Context, id string) error {
	m, err := c.begin(kindReminder, id, func(v NoteView) bool { return !v.HasReminder })
	if err != nil {
		return err
	}

	final, err := c.flipReminder(ctx, id, m.target)
	c.finish(m, final, err)

	if err != nil {
		c.logger.Error("toggle reminder failed", slog.String("note_id", id), slog.String("error", err.Error()))
		if final {
			c.notify(toastReminderOnFail)
		} else {
			c.notify(toastReminderOffFail)
		}
		return err
	}
	if final {
		c.notify(toastReminderOn)
	} else {
		c.notify(toastReminderOff)
	}
	c.reload(ctx)
	return nil
}

// flipReminder returns the reminder state it asked the backend for, which
// is want when the pre-check itself fails.
func (c *Controller) flipReminder(ctx context.Context, id string, want bool) (bool, error) {
	exists, err := c.gw.ReminderExists(ctx, c.userID, id)
	if err != nil {
		return want, err
	}
	if exists {
		return false, c.gw.RemoveReminder(ctx, c.userID, id)
	}
	return true, c.gw.CreateReminder(ctx, c.userID, id)
}

// StartNewNote opens the add-note input.
func (c *Controller) StartNewNote() error {
	if !c.caps.CreateNotes {
		return ErrUnsupported
	}
	c.mu.Lock()
	c.isAdding = true
	c.unlockAndEmit()
	return nil
}

// CancelNewNote closes the add-note input and discards its text.
func (c *Controller) CancelNewNote() error {
	if !c.caps.CreateNotes {
		return ErrUnsupported
	}
	c.mu.Lock()
	c.isAdding = false
	c.newText = ""
	c.unlockAndEmit()
	return nil
}

// SetNewNoteText stages the text of the note being added.
func (c *Controller) SetNewNoteText(text string) error {
	if !c.caps.CreateNotes {
		return ErrUnsupported
	}
	c.mu.Lock()
	c.newText = text
	c.unlockAndEmit()
	return nil
}

// SaveNewNote creates a note from the staged text. Blank text is refused
// without a remote call. On failure the input is kept.
func (c *Controller) SaveNewNote(ctx context.Context) error {
	if !c.caps.CreateNotes {
		return ErrUnsupported
	}
	c.mu.Lock()
	text := c.newText
	in := models.NewNote{
		ParentID:   c.parentID,
		ParentType: c.parentType,
		Text:       text,
		OwnerID:    c.userID,
		OwnerName:  c.userName,
	}
	c.mu.Unlock()
	if strings.TrimSpace(text) == "" {
		return ErrEmptyNote
	}

	n, err := c.gw.CreateNote(ctx, in)
	if err != nil {
		c.logger.Error("create note failed", slog.String("parent_id", in.ParentID), slog.String("error", err.Error()))
		c.notify(toastCreateFailed)
		return err
	}
	c.logger.Debug("note created", slog.String("note_id", n.ID))

	c.mu.Lock()
	c.isAdding = false
	if c.newText == text {
		c.newText = ""
	}
	c.unlockAndEmit()

	c.notify(toastCreated)
	c.reload(ctx)
	return nil
}

// ToggleEdit enters or leaves edit mode for note id. Entering seeds the
// draft with the note text; leaving discards the draft.
func (c *Controller) ToggleEdit(id string) error {
	return c.editEntry(id, func(v NoteView) (NoteView, error) {
		if v.IsEditing {
			v.IsEditing = false
			v.Draft = ""
		} else {
			v.IsEditing = true
			v.Draft = v.Text
		}
		return v, nil
	})
}

// HandleEditChange stages text as the draft of note id.
func (c *Controller) HandleEditChange(id, text string) error {
	return c.editEntry(id, func(v NoteView) (NoteView, error) {
		if !v.IsEditing {
			return v, ErrNotEditing
		}
		v.Draft = text
		return v, nil
	})
}

// CancelEdit leaves edit mode for note id and discards the draft.
func (c *Controller) CancelEdit(id string) error {
	return c.editEntry(id, func(v NoteView) (NoteView, error) {
		v.IsEditing = false
		v.Draft = ""
		return v, nil
	})
}

func (c *Controller) editEntry(id string, fn func(NoteView) (NoteView, error)) error {
	c.mu.Lock()
	v, ok := c.store.get(id)
	if !ok {
		c.mu.Unlock()
		return ErrUnknownNote
	}
	v, err := fn(v)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.store.put(v)
	c.unlockAndEmit()
	return nil
}

// SaveEdit sends the draft of note id. On success edit mode ends and the list
// is reloaded; on failure edit mode stays open with the draft intact.
func (c *Controller) SaveEdit(ctx context.Context, id string) error {
	c.mu.Lock()
	v, ok := c.store.get(id)
	if !ok {
		c.mu.Unlock()
		return ErrUnknownNote
	}
	if !v.IsEditing {
		c.mu.Unlock()
		return ErrNotEditing
	}
	draft := v.Draft
	c.mu.Unlock()
	if strings.TrimSpace(draft) == "" {
		return ErrEmptyNote
	}

	if err := c.gw.UpdateNoteText(ctx, id, draft); err != nil {
		c.logger.Error("update note failed", slog.String("note_id", id), slog.String("error", err.Error()))
		c.notify(toastUpdateFailed)
		return err
	}

	c.mu.Lock()
	c.store.update(id, func(v NoteView) NoteView {
		v.Text = draft
		v.IsEditing = false
		v.Draft = ""
		return v
	})
	c.unlockAndEmit()

	c.notify(toastUpdated)
	c.reload(ctx)
	return nil
}
