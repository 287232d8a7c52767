package store

import (
	"context"
	"fmt"
)

// ReminderExists reports whether userID has a reminder on noteID.
func (db *DB) ReminderExists(ctx context.Context, userID, noteID string) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM reminders WHERE user_id = ? AND note_id = ?`, userID, noteID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("store: reminder exists: %w", err)
	}
	return n > 0, nil
}

// InsertReminder subscribes userID to noteID. Inserting an existing reminder
// is a no-op.
func (db *DB) InsertReminder(ctx context.Context, userID, noteID string) error {
	if _, err := db.GetNote(ctx, noteID); err != nil {
		return err
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT OR IGNORE INTO reminders (user_id, note_id, created_at)
		VALUES (?, ?, ?)
	`, userID, noteID, formatTime(db.now()))
	if err != nil {
		return fmt.Errorf("store: insert reminder: %w", err)
	}
	return nil
}

// DeleteReminder removes the reminder of userID on noteID. Removing a
// missing reminder is a no-op.
func (db *DB) DeleteReminder(ctx context.Context, userID, noteID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM reminders WHERE user_id = ? AND note_id = ?`, userID, noteID)
	if err != nil {
		return fmt.Errorf("store: delete reminder: %w", err)
	}
	return nil
}
