package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CreatesDirectoryAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sessions.db")

	db, err := New(Config{Path: path, Name: "sessions"})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, path, db.Path())
	assert.Equal(t, "sessions", db.Name())

	require.NoError(t, db.Migrate())
	require.NoError(t, db.Migrate(), "migration is idempotent")

	var count int
	err = db.Conn().QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'sessions'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.NoError(t, db.QuickCheck(context.Background()))
	assert.NoError(t, db.WALCheckpoint())
}

func TestMigrate_UnknownNameIsNoop(t *testing.T) {
	db, err := New(Config{Path: filepath.Join(t.TempDir(), "x.db"), Name: "unknown", Profile: ProfileEphemeral})
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Migrate())
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	db, err := New(Config{Path: filepath.Join(t.TempDir(), "tx.db"), Name: "sessions"})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())

	err = WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		_, execErr := tx.Exec(`INSERT INTO sessions (token, username, payload, created_at, expires_at) VALUES ('t', 'u', x'00', 0, 0)`)
		require.NoError(t, execErr)
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	var count int
	require.NoError(t, db.Conn().QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestBuildConnectionString(t *testing.T) {
	s := buildConnectionString("/tmp/a.db", ProfileStandard)
	assert.Contains(t, s, "/tmp/a.db?_pragma=journal_mode(WAL)")
	assert.Contains(t, s, "synchronous(NORMAL)")

	s = buildConnectionString("file:mem?mode=memory", ProfileEphemeral)
	assert.Contains(t, s, "file:mem?mode=memory&_pragma=journal_mode(WAL)")
	assert.Contains(t, s, "synchronous(OFF)")
}
