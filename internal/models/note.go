// Package models defines the domain types for notepad.
package models

import "time"

// Note is a persisted sticky note attached to a parent record.
type Note struct {
	ID         string     `json:"id"`
	ParentID   string     `json:"parent_id"`
	ParentType string     `json:"parent_type,omitempty"`
	Text       string     `json:"text"`
	Completed  bool       `json:"completed"`
	OwnerID    string     `json:"owner_id"`
	OwnerName  string     `json:"owner_name,omitempty"`
	TargetType string     `json:"target_type,omitempty"`
	TargetName string     `json:"target_name,omitempty"` // free-text company name
	DueAt      *time.Time `json:"due_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewNote is the input for creating a note.
type NewNote struct {
	ParentID   string     `json:"parent_id"`
	ParentType string     `json:"parent_type,omitempty"`
	Text       string     `json:"text"`
	OwnerID    string     `json:"owner_id"`
	OwnerName  string     `json:"owner_name,omitempty"`
	TargetType string     `json:"target_type,omitempty"`
	TargetName string     `json:"target_name,omitempty"`
	DueAt      *time.Time `json:"due_at,omitempty"`
}

// ListQuery selects the notes of one view.
//
// A thread view sets ParentID (and optionally ParentType). A dashboard view
// sets OwnerID and may limit the result with IncludeCompleted and MaxRecords.
type ListQuery struct {
	ParentID         string
	ParentType       string
	OwnerID          string
	IncludeCompleted bool
	MaxRecords       int
}

// Company is a record that notes can link to by name.
type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
