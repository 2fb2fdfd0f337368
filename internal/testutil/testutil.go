// Package testutil provides shared helpers for tests that need a board
// directory, an index, or a full item service.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/safal938/board28-sub000/internal/index"
	"github.com/safal938/board28-sub000/internal/itemservice"
	"github.com/safal938/board28-sub000/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "board-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestBoard creates a temporary board directory with a storage.Provider.
func TestBoard(t *testing.T) (string, storage.Provider) {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return store.Root(), store
}

// TestItems wires a board directory and index into an item service.
func TestItems(t *testing.T) (*itemservice.Service, storage.Provider, *index.DB) {
	t.Helper()
	_, store := TestBoard(t)
	db := TestDB(t)
	return itemservice.NewService(store, db, QuietLogger()), store, db
}

// QuietLogger discards everything.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
