// Package session holds the signed-in admin user and the per-session
// navigation state that pages hand to each other.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// User is the signed-in admin. Username is stamped on transactions and
// new members as the acting user.
type User struct {
	Username   string    `msgpack:"username"`
	LoggedInAt time.Time `msgpack:"logged_in_at"`
}

// Store persists sessions in SQLite.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewStore creates a session store over a migrated sessions database.
func NewStore(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With().Str("repo", "sessions").Logger(),
	}
}

// Save inserts or replaces the session for token.
func (s *Store) Save(ctx context.Context, token string, user User, expiresAt time.Time) error {
	payload, err := msgpack.Marshal(&user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sessions (token, username, payload, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`, token, user.Username, payload, time.Now().Unix(), expiresAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns the user for token when the session exists and has not expired.
func (s *Store) Load(ctx context.Context, token string, now time.Time) (User, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM sessions WHERE token = ? AND expires_at > ?
	`, token, now.Unix()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, fmt.Errorf("failed to load session: %w", err)
	}

	var user User
	if err := msgpack.Unmarshal(payload, &user); err != nil {
		s.log.Warn().Err(err).Msg("Discarding undecodable session")
		return User{}, false, nil
	}
	return user, true, nil
}

// Delete removes a session.
func (s *Store) Delete(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PruneExpired deletes sessions that expired before now and returns their
// tokens.
func (s *Store) PruneExpired(ctx context.Context, now time.Time) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin prune: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT token FROM sessions WHERE expires_at <= ?`, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to list expired sessions: %w", err)
	}
	tokens := []string{}
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan session token: %w", err)
		}
		tokens = append(tokens, token)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list expired sessions: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.Unix()); err != nil {
		return nil, fmt.Errorf("failed to prune sessions: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit prune: %w", err)
	}
	return tokens, nil
}

// ActiveCount returns the number of unexpired sessions.
func (s *Store) ActiveCount(ctx context.Context, now time.Time) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE expires_at > ?`, now.Unix()).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}
