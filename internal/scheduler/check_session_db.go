package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/puyolnw/F/internal/database"
)

// walFramesWarn is the WAL size above which a checkpoint is forced.
const walFramesWarn = 1000

// CheckSessionDBJob verifies the session database and keeps its WAL small.
type CheckSessionDBJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewCheckSessionDBJob creates a new CheckSessionDBJob
func NewCheckSessionDBJob(db *database.DB, log zerolog.Logger) *CheckSessionDBJob {
	return &CheckSessionDBJob{
		db:  db,
		log: log.With().Str("job", "check_session_db").Logger(),
	}
}

// Name returns the job name
func (j *CheckSessionDBJob) Name() string {
	return "check_session_db"
}

// Run executes the integrity check and WAL checkpoint.
func (j *CheckSessionDBJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var result string
	if err := j.db.Conn().QueryRowContext(ctx, "PRAGMA quick_check").Scan(&result); err != nil {
		return fmt.Errorf("quick_check failed for %s: %w", j.db.Name(), err)
	}
	if result != "ok" {
		// Sessions are disposable; admins simply sign in again after a rebuild.
		j.log.Error().Str("result", result).Msg("Session database integrity check failed")
		return fmt.Errorf("database %s is corrupted: %s", j.db.Name(), result)
	}

	// PRAGMA wal_checkpoint returns: busy, log, checkpointed
	var busy, frames, checkpointed int
	err := j.db.Conn().QueryRowContext(ctx, "PRAGMA wal_checkpoint(PASSIVE)").Scan(&busy, &frames, &checkpointed)
	if err != nil {
		j.log.Warn().Err(err).Msg("Failed to check WAL checkpoint")
		return nil
	}

	if frames > walFramesWarn {
		j.log.Warn().
			Int("wal_frames", frames).
			Int("checkpointed", checkpointed).
			Msg("WAL file is large, truncating")
		return j.db.WALCheckpoint()
	}

	j.log.Debug().Int("wal_frames", frames).Msg("Session database OK")
	return nil
}
