// Package handlers provides HTTP handlers for the transaction screens.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/puyolnw/F/internal/domain"
	"github.com/puyolnw/F/internal/modules/transactions"
	"github.com/puyolnw/F/internal/pagination"
	"github.com/puyolnw/F/internal/search"
	"github.com/puyolnw/F/internal/session"
	"github.com/puyolnw/F/internal/viewstate"
	"github.com/puyolnw/F/internal/web"
)

// Handler serves the transaction pages.
type Handler struct {
	svc    *transactions.Service
	render web.Renderer
	log    zerolog.Logger
}

// NewHandler creates a new transactions handler.
func NewHandler(svc *transactions.Service, render web.Renderer, log zerolog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		render: render,
		log:    log.With().Str("handler", "transactions").Logger(),
	}
}

// FormView is the deposit/withdrawal page model.
type FormView struct {
	Token       string
	Kind        transactions.Kind
	Term        string
	Search      search.Result[domain.Account]
	Selected    *domain.Account
	Amount      string
	AmountError string
	AccountErr  string
	Error       string
	Slip        *transactions.Slip
	SlipError   string
	Result      *transactions.Result
	Now         time.Time
}

// HandleForm handles GET /transactions.
func (h *Handler) HandleForm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := FormView{
		Token: transactions.NewToken(),
		Kind:  transactions.ParseKind(q.Get("kind")),
		Term:  q.Get("term"),
		Now:   time.Now(),
	}
	view.Search = h.searchAccounts(r, view.Term)

	if id := strings.TrimSpace(q.Get("account_id")); id != "" {
		h.selectAccount(r, &view, domain.ID(id))
	}

	h.render.Render(w, r, http.StatusOK, "transactions/form", web.Page{
		Title: "ทำรายการ" + view.Kind.Label(),
		Nav:   "transactions",
		Data:  view,
	})
}

// HandleSubmit handles POST /transactions.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(transactions.MaxSlipBytes + 1<<20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.log.Warn().Err(err).Msg("Failed to parse transaction form")
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	view := FormView{
		Token:  r.FormValue("token"),
		Kind:   transactions.ParseKind(r.FormValue("kind")),
		Amount: r.FormValue("amount"),
		Now:    time.Now(),
		Search: h.searchAccounts(r, ""),
	}

	if file, header, err := r.FormFile("slip"); err == nil {
		slip, err := transactions.ReadSlip(header.Filename, file)
		_ = file.Close()
		switch {
		case errors.Is(err, transactions.ErrSlipTooLarge):
			view.SlipError = "ไฟล์สลิปต้องมีขนาดไม่เกิน 5MB"
		case err != nil:
			view.SlipError = "กรุณาเลือกไฟล์รูปภาพ"
		default:
			view.Slip = &slip
		}
	}

	accountID := strings.TrimSpace(r.FormValue("account_id"))
	accountNumber := strings.TrimSpace(r.FormValue("account_number"))

	user, _ := session.UserFrom(r.Context())
	res, err := h.svc.Submit(r.Context(), transactions.Submission{
		Token:         view.Token,
		Kind:          view.Kind,
		AccountNumber: accountNumber,
		Amount:        view.Amount,
		Username:      user.Username,
	})

	var verr *transactions.ValidationError
	switch {
	case errors.As(err, &verr):
		switch verr.Field {
		case "amount":
			view.AmountError = verr.Message
		case "account":
			view.AccountErr = verr.Message
		default:
			view.Error = verr.Message
		}
	case errors.Is(err, transactions.ErrDuplicateSubmit):
		view.Error = transactions.MsgDuplicate
	case err != nil:
		view.Error = transactions.MsgFailed
	default:
		view.Result = &res
	}

	if res.Success {
		view.Token = transactions.NewToken()
		view.Amount = ""
	} else if accountID != "" {
		h.selectAccount(r, &view, domain.ID(accountID))
	}

	status := http.StatusOK
	if verr != nil {
		status = http.StatusUnprocessableEntity
	}
	h.render.Render(w, r, status, "transactions/form", web.Page{
		Title: "ทำรายการ" + view.Kind.Label(),
		Nav:   "transactions",
		Data:  view,
	})
}

func (h *Handler) searchAccounts(r *http.Request, term string) search.Result[domain.Account] {
	return search.NewAdapter(h.svc.SearchAccounts, search.AccountMessages, h.log).Query(r.Context(), term)
}

func (h *Handler) selectAccount(r *http.Request, view *FormView, id domain.ID) {
	acc, err := h.svc.Account(r.Context(), id)
	if err != nil {
		h.log.Warn().Err(err).Str("account_id", id.String()).Msg("Failed to load selected account")
		view.AccountErr = transactions.MsgLoadFailed
		return
	}
	view.Selected = &acc
}

// HistoryView is the history page model.
type HistoryView struct {
	State viewstate.State[pagination.Page[domain.Transaction]]
}

// HandleHistory handles GET /transactions/history.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	req := pagination.ParseRequest(r, pagination.HistorySize)
	state := viewstate.Fetch(r.Context(), h.log, transactions.MsgLoadFailed,
		func(ctx context.Context) (pagination.Page[domain.Transaction], error) {
			txs, err := h.svc.History(ctx)
			if err != nil {
				return pagination.Page[domain.Transaction]{}, err
			}
			return pagination.Paginate(txs, req.Index, req.Size), nil
		})

	h.render.Render(w, r, http.StatusOK, "transactions/history", web.Page{
		Title: "ประวัติธุรกรรม",
		Nav:   "transactions",
		Data:  HistoryView{State: state},
	})
}

// DetailView is the detail, edit and delete page model.
type DetailView struct {
	State   viewstate.State[domain.Transaction]
	Edit    transactions.EditForm
	Error   string
	Confirm string
}

func (h *Handler) loadDetail(r *http.Request) DetailView {
	id := domain.ID(chi.URLParam(r, "id"))
	state := viewstate.Fetch(r.Context(), h.log, transactions.MsgDetailFailed,
		func(ctx context.Context) (domain.Transaction, error) {
			return h.svc.Detail(ctx, id)
		})
	view := DetailView{State: state, Confirm: transactions.MsgConfirmDelete}
	if state.Ready() {
		tx := state.Data
		view.Edit = transactions.EditForm{
			Amount: tx.Amount().StringFixed(2),
			Date:   dateOnly(tx.Date),
			Time:   tx.Time,
		}
	}
	return view
}

func dateOnly(s string) string {
	if t, ok := domain.ParseAPIDate(s); ok {
		return t.Format("2006-01-02")
	}
	return s
}

func detailStatus(v DetailView) int {
	if v.State.Failed() {
		return http.StatusNotFound
	}
	return http.StatusOK
}

// HandleDetail handles GET /transactions/{id}.
func (h *Handler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	view := h.loadDetail(r)
	h.render.Render(w, r, detailStatus(view), "transactions/detail", web.Page{
		Title: "รายละเอียดธุรกรรม",
		Nav:   "transactions",
		Data:  view,
	})
}

// HandleEditForm handles GET /transactions/{id}/edit.
func (h *Handler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	view := h.loadDetail(r)
	h.render.Render(w, r, detailStatus(view), "transactions/edit", web.Page{
		Title: "แก้ไขรายการ",
		Nav:   "transactions",
		Data:  view,
	})
}

// HandleEdit handles POST /transactions/{id}/edit.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	form := transactions.EditForm{
		Amount: r.FormValue("amount"),
		Date:   r.FormValue("transaction_date"),
		Time:   r.FormValue("transaction_time"),
	}

	err := h.svc.Update(r.Context(), domain.ID(id), form)
	if err == nil {
		web.Redirect(w, r, "/transactions/"+id)
		return
	}

	view := h.loadDetail(r)
	view.Edit = form
	status := http.StatusBadGateway
	var verr *transactions.ValidationError
	if errors.As(err, &verr) {
		view.Error = verr.Message
		status = http.StatusUnprocessableEntity
	} else {
		h.log.Error().Err(err).Str("transaction_id", id).Msg("Failed to update transaction")
		view.Error = transactions.MsgFailed
	}
	h.render.Render(w, r, status, "transactions/edit", web.Page{
		Title: "แก้ไขรายการ",
		Nav:   "transactions",
		Data:  view,
	})
}

// HandleDeleteConfirm handles GET /transactions/{id}/delete.
func (h *Handler) HandleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	view := h.loadDetail(r)
	h.render.Render(w, r, detailStatus(view), "transactions/delete", web.Page{
		Title: "ลบรายการ",
		Nav:   "transactions",
		Data:  view,
	})
}

// HandleDelete handles POST /transactions/{id}/delete. Only a form that
// carries confirm=yes deletes anything.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if r.FormValue("confirm") != "yes" {
		web.Redirect(w, r, "/transactions/"+id)
		return
	}

	if err := h.svc.Delete(r.Context(), domain.ID(id)); err != nil {
		h.log.Error().Err(err).Str("transaction_id", id).Msg("Failed to delete transaction")
		view := h.loadDetail(r)
		view.Error = transactions.MsgFailed
		h.render.Render(w, r, http.StatusBadGateway, "transactions/delete", web.Page{
			Title: "ลบรายการ",
			Nav:   "transactions",
			Data:  view,
		})
		return
	}
	web.Redirect(w, r, "/transactions/history")
}
