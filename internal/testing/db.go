// Package testing provides test helpers shared across the admin packages.
package testing

import (
	"fmt"
	"os"
	"testing"

	"github.com/puyolnw/F/internal/database"
)

// NewTestDB creates a temporary SQLite database with the named schema
// applied (see internal/database/schemas). The file is removed when the
// test finishes.
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	// a temp file per test keeps tests isolated
	tmpFile, err := os.CreateTemp("", fmt.Sprintf("test_%s_*.db", name))
	if err != nil {
		t.Fatalf("Failed to create temporary database file: %v", err)
	}
	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()

	db, err := database.New(database.Config{
		Path:    tmpPath,
		Profile: database.ProfileEphemeral,
		Name:    name,
	})
	if err != nil {
		_ = os.Remove(tmpPath)
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		_ = os.Remove(tmpPath)
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
		for _, suffix := range []string{"", "-wal", "-shm"} {
			_ = os.Remove(tmpPath + suffix)
		}
	})

	return db
}
