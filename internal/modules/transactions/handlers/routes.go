package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the transaction pages.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.HandleForm)
		r.Post("/", h.HandleSubmit)
		r.Get("/history", h.HandleHistory)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleDetail)
			r.Get("/edit", h.HandleEditForm)
			r.Post("/edit", h.HandleEdit)
			r.Get("/delete", h.HandleDeleteConfirm)
			r.Post("/delete", h.HandleDelete)
		})
	})
}
