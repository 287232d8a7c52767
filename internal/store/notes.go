package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/notepad/internal/apperr"
	"github.com/starford/notepad/internal/models"
)

const noteColumns = `id, parent_id, parent_type, text, completed, owner_id, owner_name, target_type, target_name, due_at, created_at`

// ListNotes returns the notes selected by q, newest first.
func (db *DB) ListNotes(ctx context.Context, q models.ListQuery) ([]models.Note, error) {
	var (
		where []string
		args  []any
	)
	switch {
	case q.ParentID != "":
		where = append(where, "parent_id = ?")
		args = append(args, q.ParentID)
		if q.ParentType != "" {
			where = append(where, "parent_type = ?")
			args = append(args, q.ParentType)
		}
	case q.OwnerID != "":
		where = append(where, "owner_id = ?")
		args = append(args, q.OwnerID)
		if !q.IncludeCompleted {
			where = append(where, "completed = 0")
		}
	default:
		return nil, fmt.Errorf("store: list notes: parent or owner is required: %w", apperr.ErrInvalid)
	}

	query := `SELECT ` + noteColumns + ` FROM notes WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC, rowid DESC`
	if q.MaxRecords > 0 {
		query += ` LIMIT ?`
		args = append(args, q.MaxRecords)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list notes: %w", err)
	}
	defer rows.Close()

	out := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// GetNote returns a single note or apperr.ErrNotFound.
func (db *DB) GetNote(ctx context.Context, id string) (models.Note, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Note{}, fmt.Errorf("store: get note: %w", err)
	}
	return n, nil
}

// InsertNote creates a note with a fresh ID and creation time.
func (db *DB) InsertNote(ctx context.Context, in models.NewNote) (models.Note, error) {
	n := models.Note{
		ID:         uuid.NewString(),
		ParentID:   in.ParentID,
		ParentType: in.ParentType,
		Text:       in.Text,
		OwnerID:    in.OwnerID,
		OwnerName:  in.OwnerName,
		TargetType: in.TargetType,
		TargetName: in.TargetName,
		DueAt:      in.DueAt,
		CreatedAt:  db.now().UTC(),
	}
	var due sql.NullString
	if n.DueAt != nil {
		due = sql.NullString{String: formatTime(*n.DueAt), Valid: true}
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO notes (`+noteColumns+`)
		VALUES (?, ?, ?, ?, 0, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.ParentID, n.ParentType, n.Text, n.OwnerID, n.OwnerName, n.TargetType, n.TargetName, due, formatTime(n.CreatedAt))
	if err != nil {
		return models.Note{}, fmt.Errorf("store: insert note: %w", err)
	}
	return n, nil
}

// UpdateNoteText replaces the body of a note.
func (db *DB) UpdateNoteText(ctx context.Context, id, text string) error {
	res, err := db.conn.ExecContext(ctx, `UPDATE notes SET text = ? WHERE id = ?`, text, id)
	if err != nil {
		return fmt.Errorf("store: update note text: %w", err)
	}
	return requireAffected(res)
}

// SetCompleted sets the completion flag of a note.
func (db *DB) SetCompleted(ctx context.Context, id string, completed bool) error {
	val := 0
	if completed {
		val = 1
	}
	res, err := db.conn.ExecContext(ctx, `UPDATE notes SET completed = ? WHERE id = ?`, val, id)
	if err != nil {
		return fmt.Errorf("store: set completed: %w", err)
	}
	return requireAffected(res)
}

// DeleteNote removes a note; its reminders go with it.
func (db *DB) DeleteNote(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete note: %w", err)
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(r rowScanner) (models.Note, error) {
	var (
		n         models.Note
		completed int
		due       sql.NullString
		created   string
	)
	if err := r.Scan(&n.ID, &n.ParentID, &n.ParentType, &n.Text, &completed, &n.OwnerID, &n.OwnerName,
		&n.TargetType, &n.TargetName, &due, &created); err != nil {
		return models.Note{}, err
	}
	n.Completed = completed == 1
	n.CreatedAt = parseTime(created)
	if due.Valid {
		if t := parseTime(due.String); !t.IsZero() {
			n.DueAt = &t
		}
	}
	return n, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: rows affected: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
