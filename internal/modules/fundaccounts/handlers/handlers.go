// Package handlers provides HTTP handlers for the fund account pages.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/puyolnw/F/internal/domain"
	"github.com/puyolnw/F/internal/modules/fundaccounts"
	"github.com/puyolnw/F/internal/pagination"
	"github.com/puyolnw/F/internal/viewstate"
	"github.com/puyolnw/F/internal/web"
)

// legacyPaths are the page names older bookmarks still use.
var legacyPaths = map[string]domain.FundKind{
	"/MainFundAccount":  domain.FundMain,
	"/SajjaFundAccount": domain.FundSavings,
	"/LoanFundAccount":  domain.FundLoanPool,
}

// Handler serves the fund account pages.
type Handler struct {
	svc    *fundaccounts.Service
	render web.Renderer
	log    zerolog.Logger
}

// NewHandler creates a new fund accounts handler.
func NewHandler(svc *fundaccounts.Service, render web.Renderer, log zerolog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		render: render,
		log:    log.With().Str("handler", "fundaccounts").Logger(),
	}
}

// HandleList handles GET /fundaccount.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	state := viewstate.Fetch(r.Context(), h.log, fundaccounts.MsgLoadFailed, h.svc.Cards)
	h.render.Render(w, r, http.StatusOK, "fundaccounts/list", web.Page{
		Title: "บัญชีกองทุน",
		Nav:   "fundaccounts",
		Data:  state,
	})
}

// SavingsView is the savings page model with its paged statement.
type SavingsView struct {
	State viewstate.State[fundaccounts.Savings]
	Page  pagination.Page[domain.Transaction]
}

// HandleKind handles GET /fundaccount/{kind}.
func (h *Handler) HandleKind(w http.ResponseWriter, r *http.Request) {
	kind, ok := fundaccounts.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		h.render.Render(w, r, http.StatusNotFound, "error", web.Page{
			Title: "ไม่พบหน้า",
			Data:  fundaccounts.MsgNotFound,
		})
		return
	}

	switch kind {
	case domain.FundMain:
		state := viewstate.Fetch(r.Context(), h.log, fundaccounts.MsgLoadFailed,
			func(ctx context.Context) (domain.FundAccount, error) {
				return h.svc.Resolve(ctx, domain.FundMain)
			})
		h.renderKind(w, r, "fundaccounts/main", kind, state.Failed(), state)

	case domain.FundSavings:
		state := viewstate.Fetch(r.Context(), h.log, fundaccounts.MsgLoadFailed, h.svc.Savings)
		req := pagination.ParseRequest(r, pagination.HistorySize)
		view := SavingsView{
			State: state,
			Page:  pagination.Paginate(state.Data.Transactions, req.Index, pagination.HistorySize),
		}
		h.renderKind(w, r, "fundaccounts/savings", kind, state.Failed(), view)

	case domain.FundLoanPool:
		var unknown bool
		state := viewstate.Fetch(r.Context(), h.log, fundaccounts.MsgLoadFailed,
			func(ctx context.Context) (fundaccounts.LoanPool, error) {
				p, err := h.svc.LoanPool(ctx)
				unknown = errors.Is(err, fundaccounts.ErrUnknownKind)
				return p, err
			})
		if unknown {
			state.Err = fundaccounts.MsgNotFound
		}
		h.renderKind(w, r, "fundaccounts/loanpool", kind, state.Failed(), state)
	}
}

func (h *Handler) renderKind(w http.ResponseWriter, r *http.Request, name string, kind domain.FundKind, failed bool, data interface{}) {
	status := http.StatusOK
	if failed {
		status = http.StatusBadGateway
	}
	h.render.Render(w, r, status, name, web.Page{
		Title: kind.Title(),
		Nav:   "fundaccounts",
		Data:  data,
	})
}

// HandleLegacy redirects the old page names to /fundaccount/{kind}.
func (h *Handler) HandleLegacy(w http.ResponseWriter, r *http.Request) {
	kind, ok := legacyPaths[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	web.Redirect(w, r, "/fundaccount/"+string(kind))
}
