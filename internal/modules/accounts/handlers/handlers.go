// Package handlers provides HTTP handlers for account lookup and detail.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/puyolnw/F/internal/clients/fundapi"
	"github.com/puyolnw/F/internal/domain"
	"github.com/puyolnw/F/internal/modules/accounts"
	"github.com/puyolnw/F/internal/pagination"
	"github.com/puyolnw/F/internal/search"
	"github.com/puyolnw/F/internal/session"
	"github.com/puyolnw/F/internal/viewstate"
	"github.com/puyolnw/F/internal/web"
)

// resultsKey is the navigation slot holding the last search results.
const resultsKey = "account_search"

// Handler serves the account pages.
type Handler struct {
	svc    *accounts.Service
	nav    *session.Navigation
	render web.Renderer
	log    zerolog.Logger
}

// NewHandler creates a new accounts handler.
func NewHandler(svc *accounts.Service, nav *session.Navigation, render web.Renderer, log zerolog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		nav:    nav,
		render: render,
		log:    log.With().Str("handler", "accounts").Logger(),
	}
}

// SearchView is the search page model.
type SearchView struct {
	Term   string
	Result search.Result[domain.Account]
}

// HandleSearchPage handles GET /search.
func (h *Handler) HandleSearchPage(w http.ResponseWriter, r *http.Request) {
	view := SearchView{Term: r.URL.Query().Get("q")}
	view.Result = search.Result[domain.Account]{
		Status:  search.StatusIdle,
		Reason:  search.ReasonNeedsMoreInput,
		Message: search.AccountMessages.Empty,
		Items:   []domain.Account{},
	}
	h.render.Render(w, r, http.StatusOK, "accounts/search", web.Page{
		Title: "ค้นหาบัญชี",
		Nav:   "search",
		Data:  view,
	})
}

// HandleSearch handles POST /search. Matches are carried to the results page.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	term := r.PostFormValue("q")
	res := h.svc.Lookup(r.Context(), term)

	if res.Status == search.StatusReady && len(res.Items) > 0 {
		session.Carry(h.nav, session.TokenFrom(r.Context()), resultsKey, accounts.Results{
			Term:     res.Term,
			Accounts: res.Items,
		})
		web.Redirect(w, r, "/searchresults")
		return
	}

	status := http.StatusOK
	if res.Reason == search.ReasonFailed {
		status = http.StatusBadGateway
	}
	h.render.Render(w, r, status, "accounts/search", web.Page{
		Title: "ค้นหาบัญชี",
		Nav:   "search",
		Data:  SearchView{Term: term, Result: res},
	})
}

// HandleLiveSearch handles GET /ui/api/accounts/search?term=. A newer
// keystroke from the same session cancels the one in flight.
func (h *Handler) HandleLiveSearch(w http.ResponseWriter, r *http.Request) {
	key := session.TokenFrom(r.Context())
	if key == "" {
		key = r.RemoteAddr
	}
	res := h.svc.Live(r.Context(), key, r.URL.Query().Get("term"))
	web.WriteJSON(w, http.StatusOK, res)
}

// ResultsView is the search results page model.
type ResultsView struct {
	Term string
	Page pagination.Page[domain.Account]
}

// HandleResults handles GET /searchresults.
func (h *Handler) HandleResults(w http.ResponseWriter, r *http.Request) {
	carried, _ := session.Carried[accounts.Results](h.nav, session.TokenFrom(r.Context()), resultsKey)
	req := pagination.ParseRequest(r, pagination.SearchResultsSize)

	h.render.Render(w, r, http.StatusOK, "accounts/results", web.Page{
		Title: "ผลการค้นหา",
		Nav:   "search",
		Data: ResultsView{
			Term: carried.Term,
			Page: pagination.Paginate(carried.Accounts, req.Index, pagination.SearchResultsSize),
		},
	})
}

// DetailView is the account detail page model. Carried is set when the
// account came from the results page rather than the API.
type DetailView struct {
	State   viewstate.State[accounts.Detail]
	Carried bool
}

// HandleDetail handles GET /accounts/{id}.
func (h *Handler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := domain.ID(chi.URLParam(r, "id"))

	var missing bool
	state := viewstate.Fetch(r.Context(), h.log, accounts.MsgLoadFailed,
		func(ctx context.Context) (accounts.Detail, error) {
			d, err := h.svc.Detail(ctx, id)
			missing = errors.Is(err, fundapi.ErrNotFound)
			return d, err
		})

	status := http.StatusOK
	switch {
	case missing:
		status = http.StatusNotFound
		state.Err = accounts.MsgNotFound
	case state.Failed():
		status = http.StatusBadGateway
	}
	h.renderDetail(w, r, status, DetailView{State: state})
}

// HandleCarriedDetail handles GET /accounts/view/{number}. The account comes
// from the carried search results; only the statement is fetched.
func (h *Handler) HandleCarriedDetail(w http.ResponseWriter, r *http.Request) {
	number := strings.TrimSpace(chi.URLParam(r, "number"))
	carried, _ := session.Carried[accounts.Results](h.nav, session.TokenFrom(r.Context()), resultsKey)

	account, ok := carried.Find(number)
	if !ok {
		h.renderDetail(w, r, http.StatusNotFound, DetailView{
			State: viewstate.State[accounts.Detail]{Err: accounts.MsgNotFound},
		})
		return
	}

	state := viewstate.Fetch(r.Context(), h.log, accounts.MsgLoadFailed,
		func(ctx context.Context) (accounts.Detail, error) {
			txs, err := h.svc.Statement(ctx, account.Number)
			if err != nil {
				return accounts.Detail{}, err
			}
			return accounts.Detail{Account: account, Transactions: txs}, nil
		})
	h.renderDetail(w, r, http.StatusOK, DetailView{State: state, Carried: true})
}

func (h *Handler) renderDetail(w http.ResponseWriter, r *http.Request, status int, view DetailView) {
	h.render.Render(w, r, status, "accounts/detail", web.Page{
		Title: "รายละเอียดบัญชี",
		Nav:   "search",
		Data:  view,
	})
}
