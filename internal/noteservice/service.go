// Package noteservice implements the note operations shared by the REST API
// and the in-process gateway: record-store access plus change notification.
package noteservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/notepad/internal/apperr"
	"github.com/starford/notepad/internal/models"
	"github.com/starford/notepad/internal/store"
)

// Notifier receives change notifications after successful writes.
// *sse.Broker satisfies it.
type Notifier interface {
	PublishNoteEvent(kind, noteID string)
	PublishReminderEvent(kind, userID, noteID string)
}

type nopNotifier struct{}

func (nopNotifier) PublishNoteEvent(string, string)            {}
func (nopNotifier) PublishReminderEvent(string, string, string) {}

// Service coordinates record-store operations and change notification.
type Service struct {
	repo   store.Repository
	events Notifier
	logger *slog.Logger
}

// NewService creates a new note service. events may be nil.
func NewService(repo store.Repository, events Notifier, logger *slog.Logger) *Service {
	if events == nil {
		events = nopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, events: events, logger: logger}
}

// Ping checks the record store.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// ListNotes returns the notes selected by q in store order.
func (s *Service) ListNotes(ctx context.Context, q models.ListQuery) ([]models.Note, error) {
	if q.MaxRecords < 0 {
		return nil, fmt.Errorf("noteservice: list notes: max records must not be negative: %w", apperr.ErrInvalid)
	}
	return s.repo.ListNotes(ctx, q)
}

// GetNote returns a single note.
func (s *Service) GetNote(ctx context.Context, id string) (models.Note, error) {
	return s.repo.GetNote(ctx, id)
}

// CreateNote validates and stores a new note.
func (s *Service) CreateNote(ctx context.Context, in models.NewNote) (models.Note, error) {
	if err := validateNewNote(in); err != nil {
		return models.Note{}, fmt.Errorf("noteservice: create note: %v: %w", err, apperr.ErrInvalid)
	}
	n, err := s.repo.InsertNote(ctx, in)
	if err != nil {
		return models.Note{}, err
	}
	s.logger.Debug("note created", slog.String("id", n.ID), slog.String("parent_id", n.ParentID))
	s.events.PublishNoteEvent("created", n.ID)
	return n, nil
}

// UpdateNoteText replaces the text of a note.
func (s *Service) UpdateNoteText(ctx context.Context, id, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("noteservice: update note text: text is empty: %w", apperr.ErrInvalid)
	}
	if err := s.repo.UpdateNoteText(ctx, id, text); err != nil {
		return err
	}
	s.events.PublishNoteEvent("updated", id)
	return nil
}

// SetCompletion sets the completion flag of a note.
func (s *Service) SetCompletion(ctx context.Context, id string, completed bool) error {
	if err := s.repo.SetCompleted(ctx, id, completed); err != nil {
		return err
	}
	s.events.PublishNoteEvent("completed", id)
	return nil
}

// DeleteNote removes a note and its reminders.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	if err := s.repo.DeleteNote(ctx, id); err != nil {
		return err
	}
	s.events.PublishNoteEvent("deleted", id)
	return nil
}

// ReminderExists reports whether userID is subscribed to noteID.
func (s *Service) ReminderExists(ctx context.Context, userID, noteID string) (bool, error) {
	return s.repo.ReminderExists(ctx, userID, noteID)
}

// CreateReminder subscribes userID to noteID.
func (s *Service) CreateReminder(ctx context.Context, userID, noteID string) error {
	if userID == "" {
		return fmt.Errorf("noteservice: create reminder: user is required: %w", apperr.ErrInvalid)
	}
	if err := s.repo.InsertReminder(ctx, userID, noteID); err != nil {
		return err
	}
	s.events.PublishReminderEvent("created", userID, noteID)
	return nil
}

// RemoveReminder unsubscribes userID from noteID.
func (s *Service) RemoveReminder(ctx context.Context, userID, noteID string) error {
	if err := s.repo.DeleteReminder(ctx, userID, noteID); err != nil {
		return err
	}
	s.events.PublishReminderEvent("removed", userID, noteID)
	return nil
}

// LookupRecordIDsByNames resolves company names to record IDs. Keys of the
// result are the stored company names; names with no match are absent.
func (s *Service) LookupRecordIDsByNames(ctx context.Context, names []string) (map[string]string, error) {
	return s.repo.CompanyIDsByNames(ctx, names)
}

// CreateCompany registers a company, returning the existing one when the
// normalized name is already known.
func (s *Service) CreateCompany(ctx context.Context, name string) (models.Company, error) {
	return s.repo.UpsertCompany(ctx, name)
}

func validateNewNote(in models.NewNote) error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Text, validation.Required, validation.By(notBlank)),
		validation.Field(&in.ParentID, validation.When(in.OwnerID == "", validation.Required)),
		validation.Field(&in.DueAt, validation.By(func(v any) error {
			due, _ := v.(*time.Time)
			if due != nil && due.IsZero() {
				return fmt.Errorf("must not be the zero time")
			}
			return nil
		})),
	)
}

func notBlank(v any) error {
	if s, _ := v.(string); strings.TrimSpace(s) == "" {
		return fmt.Errorf("must not be blank")
	}
	return nil
}
