// Package testutil provides shared test helpers for the session journal.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/eco-ledger/internal/model"
	"github.com/Veraticus/eco-ledger/internal/service"
	"github.com/Veraticus/eco-ledger/internal/storage"
	"github.com/google/uuid"
)

// TestDB is a migrated journal database scoped to one test.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
	Path    string
}

// SetupTestDB creates a migrated database file in the test's temp directory.
// The file can be shared with code that opens its own connection.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	session := db.MustCreateSession("commute")
//	db.MustAppend(session.ID, testutil.Entry(model.CategoryTransport, 15, model.UnitKilometer))
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return setupTestDB(t, filepath.Join(t.TempDir(), "eco.db"))
}

// SetupMemoryDB creates a migrated in-memory database.
func SetupMemoryDB(t *testing.T) *TestDB {
	t.Helper()
	return setupTestDB(t, ":memory:")
}

func setupTestDB(t *testing.T, path string) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		Path:    path,
		t:       t,
	}
}

// MustCreateSession starts a session or fails the test.
func (db *TestDB) MustCreateSession(name string) *model.Session {
	db.t.Helper()
	session, err := db.Storage.CreateSession(context.Background(), name)
	if err != nil {
		db.t.Fatalf("failed to create session %q: %v", name, err)
	}
	return session
}

// MustAppend journals entries in order, one second apart, or fails the test.
// Only the inputs are stored; emissions are left for the ledger to compute.
func (db *TestDB) MustAppend(sessionID string, entries ...model.ActivityEntry) {
	db.t.Helper()
	base := time.Date(2025, 4, 22, 8, 0, 0, 0, time.UTC)
	for i, e := range entries {
		rec := model.ActivityRecord{
			ID:          uuid.NewString(),
			RecordedAt:  base.Add(time.Duration(i) * time.Second),
			Category:    e.Category,
			Unit:        e.Unit,
			Variant:     e.Variant,
			Description: e.Description,
			Quantity:    e.Quantity,
		}
		if err := db.Storage.AppendActivity(context.Background(), sessionID, rec); err != nil {
			db.t.Fatalf("failed to append entry %d: %v", i, err)
		}
	}
}

// Entry is shorthand for a structured activity.
func Entry(category model.Category, quantity float64, unit model.Unit) model.ActivityEntry {
	return model.ActivityEntry{Category: category, Quantity: quantity, Unit: unit}
}
