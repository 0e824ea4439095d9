// Package handlers provides the dashboard page.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/puyolnw/F/internal/modules/dashboard"
	"github.com/puyolnw/F/internal/web"
)

// Handler serves the dashboard.
type Handler struct {
	svc    *dashboard.Service
	render web.Renderer
	log    zerolog.Logger
}

// NewHandler creates a new dashboard handler.
func NewHandler(svc *dashboard.Service, render web.Renderer, log zerolog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		render: render,
		log:    log.With().Str("handler", "dashboard").Logger(),
	}
}

// HandleDashboard handles GET /.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "dashboard/index", web.Page{
		Title: "ภาพรวม",
		Nav:   "dashboard",
		Data:  h.svc.Overview(r.Context()),
	})
}

// HandleOverviewJSON handles GET /ui/api/dashboard for page refreshes.
func (h *Handler) HandleOverviewJSON(w http.ResponseWriter, r *http.Request) {
	web.WriteJSON(w, http.StatusOK, h.svc.Overview(r.Context()))
}

// RegisterRoutes registers the dashboard page.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleDashboard)
	r.Get("/dashboard", h.HandleDashboard)
}

// RegisterUIRoutes registers the JSON view.
func (h *Handler) RegisterUIRoutes(r chi.Router) {
	r.Get("/api/dashboard", h.HandleOverviewJSON)
}
