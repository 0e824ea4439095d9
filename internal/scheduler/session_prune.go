package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// SessionPruner drops expired sessions.
type SessionPruner interface {
	Prune(ctx context.Context) (int64, error)
}

// SessionPruneJob removes expired sessions and their carried page state.
type SessionPruneJob struct {
	sessions SessionPruner
	log      zerolog.Logger
}

// NewSessionPruneJob creates a new SessionPruneJob
func NewSessionPruneJob(sessions SessionPruner, log zerolog.Logger) *SessionPruneJob {
	return &SessionPruneJob{
		sessions: sessions,
		log:      log.With().Str("job", "session_prune").Logger(),
	}
}

// Name returns the job name
func (j *SessionPruneJob) Name() string {
	return "session_prune"
}

// Run executes the prune
func (j *SessionPruneJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := j.sessions.Prune(ctx)
	if err != nil {
		return fmt.Errorf("failed to prune sessions: %w", err)
	}
	if n > 0 {
		j.log.Info().Int64("removed", n).Msg("Expired sessions pruned")
	}
	return nil
}
