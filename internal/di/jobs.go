// Package di provides dependency injection for scheduler jobs.
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/puyolnw/F/internal/config"
	"github.com/puyolnw/F/internal/scheduler"
)

// RegisterJobs schedules the background jobs and returns them for manual
// triggering. The scheduler is created here but started by the caller.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}
	if container.BackendProbeMonitor == nil || container.Sessions == nil {
		return nil, fmt.Errorf("services must be initialized before jobs")
	}

	container.Scheduler = scheduler.New(log)
	instances := &JobInstances{
		BackendProbe:   container.BackendProbeMonitor,
		SessionPrune:   scheduler.NewSessionPruneJob(container.Sessions, log),
		SessionDBCheck: scheduler.NewCheckSessionDBJob(container.SessionDB, log),
	}

	if err := container.Scheduler.AddJob(cfg.HealthCheckSchedule, instances.BackendProbe); err != nil {
		return nil, fmt.Errorf("failed to schedule %s: %w", instances.BackendProbe.Name(), err)
	}
	if err := container.Scheduler.AddJob(cfg.SessionPruneSchedule, instances.SessionPrune); err != nil {
		return nil, fmt.Errorf("failed to schedule %s: %w", instances.SessionPrune.Name(), err)
	}
	if err := container.Scheduler.AddJob(cfg.DBCheckSchedule, instances.SessionDBCheck); err != nil {
		return nil, fmt.Errorf("failed to schedule %s: %w", instances.SessionDBCheck.Name(), err)
	}

	log.Info().
		Str("backend_probe", cfg.HealthCheckSchedule).
		Str("session_prune", cfg.SessionPruneSchedule).
		Str("check_session_db", cfg.DBCheckSchedule).
		Msg("Jobs registered")
	return instances, nil
}
