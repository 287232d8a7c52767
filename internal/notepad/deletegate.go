package notepad

import (
	"context"
	"log/slog"
)

// deleteGate guards destructive deletes: idle -> pending(note) -> idle.
type deleteGate struct {
	note       *NoteView
	confirming bool
}

func (g *deleteGate) open() bool { return g.note != nil }

func (g *deleteGate) target() (NoteView, bool) {
	if g.note == nil {
		return NoteView{}, false
	}
	return *g.note, true
}

func (g *deleteGate) request(v NoteView) { g.note = &v }

func (g *deleteGate) clear() {
	g.note = nil
	g.confirming = false
}

// RequestDelete opens the confirmation gate for note id. Requesting another
// note while the gate is open retargets it.
func (c *Controller) RequestDelete(id string) error {
	c.mu.Lock()
	if c.gate.confirming {
		c.mu.Unlock()
		return ErrMutationPending
	}
	v, ok := c.store.get(id)
	if !ok {
		c.mu.Unlock()
		return ErrUnknownNote
	}
	c.gate.request(v)
	c.unlockAndEmit()
	return nil
}

// CancelDelete closes the gate without touching the list or the backend.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	if c.gate.confirming {
		c.mu.Unlock()
		return
	}
	c.gate.clear()
	c.unlockAndEmit()
}

// ConfirmDelete deletes the note held by the gate. The gate closes whatever
// the outcome; the list is reloaded after a successful delete. With the gate
// closed it does nothing.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	v, ok := c.gate.target()
	if !ok {
		c.mu.Unlock()
		return nil
	}
	if c.gate.confirming {
		c.mu.Unlock()
		return ErrMutationPending
	}
	c.gate.confirming = true
	c.mu.Unlock()

	err := c.gw.DeleteNote(ctx, v.ID)

	c.mu.Lock()
	c.gate.clear()
	c.unlockAndEmit()

	if err != nil {
		c.logger.Error("delete note failed", slog.String("note_id", v.ID), slog.String("error", err.Error()))
		c.notify(toastDeleteFailed)
		return err
	}
	c.notify(toastDeleted)
	c.reload(ctx)
	return nil
}
