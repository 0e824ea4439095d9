// Package di provides dependency injection for database connections.
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/puyolnw/F/internal/config"
	"github.com/puyolnw/F/internal/database"
)

// InitializeDatabases opens the session database and applies its schema.
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	sessionDB, err := database.New(database.Config{
		Path:    cfg.SessionDBPath(),
		Profile: database.ProfileStandard,
		Name:    "sessions",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sessions database: %w", err)
	}

	if err := sessionDB.Migrate(); err != nil {
		sessionDB.Close()
		return nil, fmt.Errorf("failed to migrate sessions database: %w", err)
	}
	container.SessionDB = sessionDB

	log.Info().Str("path", sessionDB.Path()).Msg("Sessions database initialized")
	return container, nil
}
