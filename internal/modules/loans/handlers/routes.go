package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the loan pages.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/loan", func(r chi.Router) {
		r.Get("/", h.HandleWizard)
		r.Post("/", h.HandleWizardStep)

		r.Get("/history", h.HandleHistory)
		r.Get("/payment", h.HandlePayment)
		r.Post("/payment", h.HandlePay)

		r.Get("/{id}", h.HandleDetail)
	})
}
