package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the member pages.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/members", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/addmember", h.HandleAddForm)
		r.Post("/addmember", h.HandleAdd)
	})
}
