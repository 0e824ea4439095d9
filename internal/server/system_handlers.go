package server

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/puyolnw/F/internal/di"
	"github.com/puyolnw/F/internal/scheduler"
	"github.com/puyolnw/F/internal/web"
)

// ActiveSessions counts signed-in operators.
type ActiveSessions interface {
	ActiveCount(ctx context.Context) (int, error)
}

// ProbeReader returns the last backend probe.
type ProbeReader interface {
	Last() scheduler.ProbeStatus
}

// JobRunner runs a job outside its schedule.
type JobRunner interface {
	RunNow(job scheduler.Job) error
}

// SystemDeps are the collaborators of the system handlers.
type SystemDeps struct {
	Sessions  ActiveSessions
	Probe     ProbeReader
	Scheduler JobRunner
	Jobs      map[string]scheduler.Job
	FundAPI   string
	// Stats overrides the gopsutil sampling, for tests.
	Stats func() (cpuPercent, memPercent float64)
}

// SystemHandlers handles system-wide monitoring endpoints
type SystemHandlers struct {
	deps      SystemDeps
	startedAt time.Time
	log       zerolog.Logger
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(deps SystemDeps, log zerolog.Logger) *SystemHandlers {
	h := &SystemHandlers{
		deps:      deps,
		startedAt: time.Now(),
		log:       log.With().Str("handler", "system").Logger(),
	}
	if h.deps.Stats == nil {
		h.deps.Stats = h.getSystemStats
	}
	return h
}

func jobsOf(jobs *di.JobInstances) map[string]scheduler.Job {
	out := map[string]scheduler.Job{}
	if jobs == nil {
		return out
	}
	for _, j := range []scheduler.Job{jobs.BackendProbe, jobs.SessionPrune, jobs.SessionDBCheck} {
		if j != nil {
			out[j.Name()] = j
		}
	}
	return out
}

// FundAPIStatus is the backend part of the status response.
type FundAPIStatus struct {
	URL string `json:"url"`
	scheduler.ProbeStatus
}

// SystemStatusResponse represents system status
type SystemStatusResponse struct {
	Status         string        `json:"status"` // "healthy" or "degraded"
	StartedAt      time.Time     `json:"started_at"`
	UptimeSeconds  int64         `json:"uptime_seconds"`
	CPUPercent     float64       `json:"cpu_percent"`
	MemoryPercent  float64       `json:"memory_percent"`
	Goroutines     int           `json:"goroutines"`
	ActiveSessions int           `json:"active_sessions"`
	FundAPI        FundAPIStatus `json:"fund_api"`
}

// Snapshot collects the current status.
func (h *SystemHandlers) Snapshot(ctx context.Context) SystemStatusResponse {
	cpuPercent, memPercent := h.deps.Stats()
	resp := SystemStatusResponse{
		Status:        "healthy",
		StartedAt:     h.startedAt,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		Goroutines:    runtime.NumGoroutine(),
		FundAPI:       FundAPIStatus{URL: h.deps.FundAPI},
	}

	if h.deps.Sessions != nil {
		n, err := h.deps.Sessions.ActiveCount(ctx)
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to count sessions")
			resp.Status = "degraded"
		}
		resp.ActiveSessions = n
	}

	if h.deps.Probe != nil {
		resp.FundAPI.ProbeStatus = h.deps.Probe.Last()
		if resp.FundAPI.Checked && !resp.FundAPI.Reachable {
			resp.Status = "degraded"
		}
	}
	return resp
}

// HandleSystemStatus handles GET /api/system/status.
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")
	web.WriteJSON(w, http.StatusOK, h.Snapshot(r.Context()))
}

// RegisterUIRoutes registers the manual job triggers.
func (h *SystemHandlers) RegisterUIRoutes(r chi.Router) {
	r.Post("/api/jobs/{name}", h.HandleTriggerJob)
}

// HandleTriggerJob runs a registered job immediately.
// POST /ui/api/jobs/{name}
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	job, ok := h.deps.Jobs[name]
	if !ok || h.deps.Scheduler == nil {
		web.WriteJSON(w, http.StatusNotFound, map[string]string{
			"status":  "error",
			"message": "Job not registered: " + name,
		})
		return
	}

	h.log.Info().Str("job", name).Msg("Manual job triggered")
	if err := h.deps.Scheduler.RunNow(job); err != nil {
		h.log.Error().Err(err).Str("job", name).Msg("Manual job failed")
		web.WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	web.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": name + " completed",
	})
}

// getSystemStats samples CPU over 100ms and reads memory usage.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}
	return cpuAvg, memStat.UsedPercent
}
