package store

import (
	"context"

	"github.com/starford/notepad/internal/models"
)

// Repository defines the record-store operations used by the note service.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type Repository interface {
	ListNotes(ctx context.Context, q models.ListQuery) ([]models.Note, error)
	GetNote(ctx context.Context, id string) (models.Note, error)
	InsertNote(ctx context.Context, n models.NewNote) (models.Note, error)
	UpdateNoteText(ctx context.Context, id, text string) error
	SetCompleted(ctx context.Context, id string, completed bool) error
	DeleteNote(ctx context.Context, id string) error

	ReminderExists(ctx context.Context, userID, noteID string) (bool, error)
	InsertReminder(ctx context.Context, userID, noteID string) error
	DeleteReminder(ctx context.Context, userID, noteID string) error

	UpsertCompany(ctx context.Context, name string) (models.Company, error)
	CompanyIDsByNames(ctx context.Context, names []string) (map[string]string, error)

	Ping(ctx context.Context) error
	Close() error
}

// Verify *DB satisfies Repository at compile time.
var _ Repository = (*DB)(nil)
