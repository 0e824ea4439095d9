package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the fund account pages.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/fundaccount", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/{kind}", h.HandleKind)
	})
	for path := range legacyPaths {
		r.Get(path, h.HandleLegacy)
	}
}
