// Package seed loads companies and notes from a YAML file into a notepad
// backend.
package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/notepad/internal/models"
)

// Target is the backend a seed file is written to. noteservice.Service and
// client.Client both satisfy it.
type Target interface {
	CreateCompany(ctx context.Context, name string) (models.Company, error)
	CreateNote(ctx context.Context, n models.NewNote) (models.Note, error)
	SetCompletion(ctx context.Context, noteID string, completed bool) error
	CreateReminder(ctx context.Context, userID, noteID string) error
}

// File is the seed file layout.
type File struct {
	Companies []string `yaml:"companies"`
	Notes     []Note   `yaml:"notes"`
}

// Note is one seeded note.
type Note struct {
	ParentID   string     `yaml:"parent_id"`
	ParentType string     `yaml:"parent_type"`
	Text       string     `yaml:"text"`
	OwnerID    string     `yaml:"owner_id"`
	OwnerName  string     `yaml:"owner_name"`
	TargetType string     `yaml:"target_type"`
	TargetName string     `yaml:"target_name"`
	DueAt      *time.Time `yaml:"due_at"`
	Completed  bool       `yaml:"completed"`
	Reminders  []string   `yaml:"reminders"`
}

// Validate implements validation.Validatable.
func (n Note) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Text, validation.Required),
		validation.Field(&n.ParentID, validation.When(n.OwnerID == "", validation.Required.Error("parent_id or owner_id is required"))),
	)
}

// Validate implements validation.Validatable.
func (f File) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Companies, validation.Each(validation.Required)),
		validation.Field(&f.Notes),
	)
}

// Result counts what Apply wrote.
type Result struct {
	Companies int
	Notes     int
	Reminders int
}

// Load reads and validates a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("seed: parse %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("seed: %s: %w", path, err)
	}
	return &f, nil
}

// Apply writes f to t. Companies are written first so notes can link to
// them. It stops at the first error.
func Apply(ctx context.Context, t Target, f *File) (Result, error) {
	var res Result
	for _, name := range f.Companies {
		if _, err := t.CreateCompany(ctx, name); err != nil {
			return res, fmt.Errorf("seed: company %q: %w", name, err)
		}
		res.Companies++
	}

	for i, n := range f.Notes {
		note, err := t.CreateNote(ctx, models.NewNote{
			ParentID:   n.ParentID,
			ParentType: n.ParentType,
			Text:       n.Text,
			OwnerID:    n.OwnerID,
			OwnerName:  n.OwnerName,
			TargetType: n.TargetType,
			TargetName: n.TargetName,
			DueAt:      n.DueAt,
		})
		if err != nil {
			return res, fmt.Errorf("seed: note %d: %w", i, err)
		}
		res.Notes++

		if n.Completed {
			if err := t.SetCompletion(ctx, note.ID, true); err != nil {
				return res, fmt.Errorf("seed: complete note %d: %w", i, err)
			}
		}
		for _, user := range n.Reminders {
			if err := t.CreateReminder(ctx, user, note.ID); err != nil {
				return res, fmt.Errorf("seed: reminder %d/%s: %w", i, user, err)
			}
			res.Reminders++
		}
	}
	return res, nil
}
