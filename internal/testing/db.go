// Package testing provides testing utilities and helpers for the reservestress project.
package testing

import (
	"path/filepath"
	"testing"

	"github.com/aristath/reservestress/internal/database"
)

// NewTestDB creates a migrated SQLite database in a temporary directory.
// Known names ("portfolio", "stress", "history", "cache") get their schema
// applied; unknown names yield an empty database. The returned cleanup
// closes the connection; the directory is removed by the test framework.
func NewTestDB(t *testing.T, name string) (*database.DB, func()) {
	t.Helper()

	profile := database.Profiles[name]
	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: profile,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	return db, func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	}
}
