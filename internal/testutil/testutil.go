// Package testutil provides shared test helpers for setting up databases and
// services.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/notepad/internal/noteservice"
	"github.com/starford/notepad/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "notepad-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestService creates a note service over a temporary database. events may
// be nil.
func TestService(t *testing.T, events noteservice.Notifier) *noteservice.Service {
	t.Helper()
	return noteservice.NewService(TestDB(t), events, nil)
}
