package api

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/notepad/internal/models"
)

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	ParentID   string     `json:"parent_id" example:"001xx000003DGb2"`
	ParentType string     `json:"parent_type" example:"Account"`
	Text       string     `json:"text" example:"Call back on Monday" validate:"required"`
	OwnerID    string     `json:"owner_id,omitempty"`
	OwnerName  string     `json:"owner_name,omitempty"`
	TargetType string     `json:"target_type,omitempty"`
	TargetName string     `json:"target_name,omitempty" example:"Acme"`
	DueAt      *time.Time `json:"due_at,omitempty"`
}

// Validate implements validation.Validatable.
func (r CreateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required),
		validation.Field(&r.ParentID, validation.When(r.OwnerID == "", validation.Required.Error("parent_id or owner_id is required"))),
	)
}

func (r CreateNoteRequest) toModel() models.NewNote {
	return models.NewNote{
		ParentID:   r.ParentID,
		ParentType: r.ParentType,
		Text:       r.Text,
		OwnerID:    r.OwnerID,
		OwnerName:  r.OwnerName,
		TargetType: r.TargetType,
		TargetName: r.TargetName,
		DueAt:      r.DueAt,
	}
}

// UpdateTextRequest is the request body for replacing a note's text.
type UpdateTextRequest struct {
	Text string `json:"text" example:"Call back on Tuesday" validate:"required"`
}

// Validate implements validation.Validatable.
func (r UpdateTextRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required),
	)
}

// CompletionRequest is the request body for setting completion.
type CompletionRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

// Validate implements validation.Validatable.
func (r CompletionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Completed, validation.NotNil),
	)
}

// LookupRequest is the request body for resolving company names.
type LookupRequest struct {
	Names []string `json:"names" validate:"required"`
}

// Validate implements validation.Validatable.
func (r LookupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Names, validation.NotNil, validation.Length(0, 500)),
	)
}

// CreateCompanyRequest is the request body for registering a company.
type CreateCompanyRequest struct {
	Name string `json:"name" example:"Acme" validate:"required"`
}

// Validate implements validation.Validatable.
func (r CreateCompanyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []models.Note `json:"notes" validate:"required"`
}

// ReminderResponse reports whether a reminder exists.
type ReminderResponse struct {
	Exists bool `json:"exists"`
}

// LookupResponse maps stored company names to record IDs.
type LookupResponse struct {
	IDs map[string]string `json:"ids" validate:"required"`
}
