package notepad

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/notepad/internal/models"
)

var errBackend = errors.New("backend unavailable")

// fakeGateway is an in-memory Gateway that records every call.
type fakeGateway struct {
	mu        sync.Mutex
	notes     []models.Note
	reminders map[string]bool
	companies map[string]string
	calls     []string
	seq       int

	listErr      error
	createErr    error
	updateErr    error
	deleteErr    error
	completeErr  error
	existsErr    error
	createRemErr error
	removeRemErr error
	lookupErr    error

	// Optional overrides, called without the fake's lock.
	onSetCompletion func(id string, completed bool)
	existsFn        func(id string) (bool, error)
}

func newFakeGateway(notes ...models.Note) *fakeGateway {
	return &fakeGateway{
		notes:     notes,
		reminders: make(map[string]bool),
		companies: make(map[string]string),
	}
}

func (f *fakeGateway) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeGateway) callsWithPrefix(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeGateway) ListNotes(_ context.Context, q models.ListQuery) ([]models.Note, error) {
	f.record("ListNotes:%s:%s", q.ParentID, q.OwnerID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Note, len(f.notes))
	copy(out, f.notes)
	return out, nil
}

func (f *fakeGateway) CreateNote(_ context.Context, in models.NewNote) (models.Note, error) {
	f.record("CreateNote:%s:%s", in.ParentID, in.Text)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return models.Note{}, f.createErr
	}
	f.seq++
	n := models.Note{
		ID:        fmt.Sprintf("new-%d", f.seq),
		ParentID:  in.ParentID,
		Text:      in.Text,
		OwnerID:   in.OwnerID,
		CreatedAt: time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC),
	}
	f.notes = append([]models.Note{n}, f.notes...)
	return n, nil
}

func (f *fakeGateway) UpdateNoteText(_ context.Context, id, text string) error {
	f.record("UpdateNoteText:%s:%s", id, text)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.notes {
		if f.notes[i].ID == id {
			f.notes[i].Text = text
		}
	}
	return nil
}

func (f *fakeGateway) DeleteNote(_ context.Context, id string) error {
	f.record("DeleteNote:%s", id)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.notes {
		if f.notes[i].ID == id {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeGateway) SetCompletion(_ context.Context, id string, completed bool) error {
	f.record("SetCompletion:%s:%t", id, completed)
	if f.onSetCompletion != nil {
		f.onSetCompletion(id, completed)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completeErr != nil {
		return f.completeErr
	}
	for i := range f.notes {
		if f.notes[i].ID == id {
			f.notes[i].Completed = completed
		}
	}
	return nil
}

func (f *fakeGateway) ReminderExists(_ context.Context, userID, id string) (bool, error) {
	f.record("ReminderExists:%s:%s", userID, id)
	if f.existsFn != nil {
		return f.existsFn(id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.reminders[id], nil
}

func (f *fakeGateway) CreateReminder(_ context.Context, userID, id string) error {
	f.record("CreateReminder:%s:%s", userID, id)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createRemErr != nil {
		return f.createRemErr
	}
	f.reminders[id] = true
	return nil
}

func (f *fakeGateway) RemoveReminder(_ context.Context, userID, id string) error {
	f.record("RemoveReminder:%s:%s", userID, id)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeRemErr != nil {
		return f.removeRemErr
	}
	delete(f.reminders, id)
	return nil
}

func (f *fakeGateway) LookupRecordIDsByNames(_ context.Context, names []string) (map[string]string, error) {
	f.record("LookupRecordIDsByNames:%v", names)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	out := make(map[string]string)
	for _, n := range names {
		for stored, id := range f.companies {
			if normalizeName(stored) == normalizeName(n) {
				out[stored] = id
			}
		}
	}
	return out, nil
}

// toastLog collects toasts.
type toastLog struct {
	mu     sync.Mutex
	toasts []Toast
}

func (l *toastLog) Notify(t Toast) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.toasts = append(l.toasts, t)
}

func (l *toastLog) all() []Toast {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Toast, len(l.toasts))
	copy(out, l.toasts)
	return out
}

func (l *toastLog) last() (Toast, bool) {
	all := l.all()
	if len(all) == 0 {
		return Toast{}, false
	}
	return all[len(all)-1], true
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newThread(gw Gateway, toasts Notifier, opts ...Option) *Controller {
	base := []Option{
		WithVariant(VariantThread),
		WithUser("u1", "Dana"),
		WithParent("acct-1", "Account"),
		WithLocation(time.UTC),
		WithNotifier(toasts),
		WithLogger(quietLogger()),
	}
	return New(gw, append(base, opts...)...)
}

func newDashboard(gw Gateway, toasts Notifier, opts ...Option) *Controller {
	base := []Option{
		WithVariant(VariantDashboard),
		WithUser("u1", "Dana"),
		WithDashboardQuery(false, 50),
		WithLocation(time.UTC),
		WithNotifier(toasts),
		WithLogger(quietLogger()),
	}
	return New(gw, append(base, opts...)...)
}

func note(id, text string, completed bool) models.Note {
	return models.Note{
		ID:        id,
		ParentID:  "acct-1",
		Text:      text,
		Completed: completed,
		OwnerID:   "u1",
		CreatedAt: time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC),
	}
}

func ids(views []NoteView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}
