package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Pinger is anything that can check the fund API is answering.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeStatus is the outcome of the most recent probe.
type ProbeStatus struct {
	Checked   bool          `json:"checked"`
	Reachable bool          `json:"reachable"`
	CheckedAt time.Time     `json:"checked_at"`
	Latency   time.Duration `json:"latency_ns"`
	Error     string        `json:"error,omitempty"`
	// Failures counts consecutive failed probes.
	Failures int `json:"consecutive_failures"`
}

// BackendProbeJob pings the fund API and remembers the result.
type BackendProbeJob struct {
	api     Pinger
	timeout time.Duration
	now     func() time.Time
	log     zerolog.Logger

	mu   sync.RWMutex
	last ProbeStatus
}

// NewBackendProbeJob creates the probe. timeout bounds each ping.
func NewBackendProbeJob(api Pinger, timeout time.Duration, log zerolog.Logger) *BackendProbeJob {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BackendProbeJob{
		api:     api,
		timeout: timeout,
		now:     time.Now,
		log:     log.With().Str("job", "backend_probe").Logger(),
	}
}

// Name returns the job name
func (j *BackendProbeJob) Name() string {
	return "backend_probe"
}

// Run pings once. An unreachable backend is recorded, not returned, so the
// scheduler does not log every outage twice.
func (j *BackendProbeJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := j.now()
	err := j.api.Ping(ctx)
	status := ProbeStatus{
		Checked:   true,
		Reachable: err == nil,
		CheckedAt: start,
		Latency:   j.now().Sub(start),
	}

	j.mu.Lock()
	prev := j.last
	if err != nil {
		status.Error = err.Error()
		status.Failures = prev.Failures + 1
	}
	j.last = status
	j.mu.Unlock()

	switch {
	case err != nil && (prev.Reachable || !prev.Checked):
		j.log.Warn().Err(err).Msg("Fund API unreachable")
	case err == nil && prev.Checked && !prev.Reachable:
		j.log.Info().Int("after_failures", prev.Failures).Msg("Fund API reachable again")
	}
	return nil
}

// Last returns the most recent probe result.
func (j *BackendProbeJob) Last() ProbeStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.last
}
