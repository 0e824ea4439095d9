package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the account pages.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/search", h.HandleSearchPage)
	r.Post("/search", h.HandleSearch)
	r.Get("/searchresults", h.HandleResults)

	r.Route("/accounts", func(r chi.Router) {
		r.Get("/view/{number}", h.HandleCarriedDetail)
		r.Get("/{id}", h.HandleDetail)
	})
}

// RegisterUIRoutes registers the JSON live search used by page scripts.
func (h *Handler) RegisterUIRoutes(r chi.Router) {
	r.Get("/api/accounts/search", h.HandleLiveSearch)
}

// RegisterSocketRoutes registers the long-lived search socket. It must be
// mounted outside any request timeout.
func (h *Handler) RegisterSocketRoutes(r chi.Router) {
	r.Get("/ws/search", h.HandleSearchSocket)
}
