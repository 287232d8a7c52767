// Package notepad is the headless sticky-note controller shared by every host.
//
// A Controller holds the ordered list of note views for one scope (a parent
// record or an owner's dashboard), hydrates it with reminder and company-link
// data after each load, and implements the user actions with optimistic
// updates that are rolled back when the remote call fails.
package notepad

import (
	"context"
	"errors"

	"github.com/starford/notepad/internal/models"
)

// Gateway is the remote backend the controller reads from and writes to.
// noteservice.Service and client.Client both satisfy it.
type Gateway interface {
	ListNotes(ctx context.Context, q models.ListQuery) ([]models.Note, error)
	CreateNote(ctx context.Context, n models.NewNote) (models.Note, error)
	UpdateNoteText(ctx context.Context, noteID, text string) error
	DeleteNote(ctx context.Context, noteID string) error
	SetCompletion(ctx context.Context, noteID string, completed bool) error

	ReminderExists(ctx context.Context, userID, noteID string) (bool, error)
	CreateReminder(ctx context.Context, userID, noteID string) error
	RemoveReminder(ctx context.Context, userID, noteID string) error

	LookupRecordIDsByNames(ctx context.Context, names []string) (map[string]string, error)
}

var (
	// ErrUnknownNote is returned when an action names a note that is not in the list.
	ErrUnknownNote = errors.New("notepad: unknown note")
	// ErrMutationPending is returned when the same action is already in flight for a note.
	ErrMutationPending = errors.New("notepad: mutation already pending")
	// ErrEmptyNote is returned when saving blank text.
	ErrEmptyNote = errors.New("notepad: note text is empty")
	// ErrUnsupported is returned when the variant lacks the capability for an action.
	ErrUnsupported = errors.New("notepad: not supported by this view")
	// ErrNotEditing is returned when an edit action targets a note outside edit mode.
	ErrNotEditing = errors.New("notepad: note is not being edited")
)

// Variant selects one of the two note views.
type Variant string

const (
	// VariantThread lists the notes of one parent record and allows adding notes.
	VariantThread Variant = "thread"
	// VariantDashboard lists the current user's notes across records.
	VariantDashboard Variant = "dashboard"
)

// Capabilities gates the behaviour that differs between variants.
type Capabilities struct {
	CreateNotes  bool `json:"create_notes"`
	OwnerFlag    bool `json:"owner_flag"`
	CompanyLinks bool `json:"company_links"`
	Navigation   bool `json:"navigation"`
}

// Capabilities returns the capability set of v.
func (v Variant) Capabilities() Capabilities {
	switch v {
	case VariantDashboard:
		return Capabilities{CompanyLinks: true, Navigation: true}
	default:
		return Capabilities{CreateNotes: true, OwnerFlag: true}
	}
}

// Valid reports whether v names a known variant.
func (v Variant) Valid() bool {
	return v == VariantThread || v == VariantDashboard
}

// Snapshot is an immutable copy of the controller state handed to hosts.
type Snapshot struct {
	Notes                  []NoteView   `json:"notes"`
	IsAdding               bool         `json:"is_adding"`
	NewNoteText            string       `json:"new_note_text"`
	Loading                bool         `json:"loading"`
	ShowDeleteConfirmation bool         `json:"show_delete_confirmation"`
	PendingDelete          *NoteView    `json:"pending_delete,omitempty"`
	Capabilities           Capabilities `json:"capabilities"`
}

// Note returns the view with the given ID.
func (s Snapshot) Note(id string) (NoteView, bool) {
	for _, v := range s.Notes {
		if v.ID == id {
			return v, true
		}
	}
	return NoteView{}, false
}
