// Package handlers provides HTTP handlers for the loan screens.
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
	"github.com/puyolnw/F/internal/format"
	"github.com/puyolnw/F/internal/modules/loans"
	"github.com/puyolnw/F/internal/pagination"
	"github.com/puyolnw/F/internal/search"
	"github.com/puyolnw/F/internal/session"
	"github.com/puyolnw/F/internal/viewstate"
	"github.com/puyolnw/F/internal/web"
)

const wizardKey = "loan_wizard"

// Handler serves the loan pages.
type Handler struct {
	svc    *loans.Service
	nav    *session.Navigation
	render web.Renderer
	log    zerolog.Logger
}

// NewHandler creates a new loans handler.
func NewHandler(svc *loans.Service, nav *session.Navigation, render web.Renderer, log zerolog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		nav:    nav,
		render: render,
		log:    log.With().Str("handler", "loans").Logger(),
	}
}

func (h *Handler) wizard(r *http.Request) loans.Wizard {
	if w, ok := session.Carried[loans.Wizard](h.nav, session.TokenFrom(r.Context()), wizardKey); ok {
		return w.Clone()
	}
	return loans.NewWizard()
}

func (h *Handler) renderWizard(w http.ResponseWriter, r *http.Request, status int, wiz loans.Wizard) {
	h.render.Render(w, r, status, "loans/wizard", web.Page{
		Title: "ทำสัญญาเงินกู้",
		Nav:   "loans",
		Data:  wiz,
	})
}

// HandleWizard handles GET /loan.
func (h *Handler) HandleWizard(w http.ResponseWriter, r *http.Request) {
	h.renderWizard(w, r, http.StatusOK, h.wizard(r))
}

// HandleWizardStep handles POST /loan. The action field picks the move.
func (h *Handler) HandleWizardStep(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	token := session.TokenFrom(r.Context())
	wiz := h.wizard(r)
	status := http.StatusOK

	switch r.PostFormValue("action") {
	case "next":
		wiz.Update(r.PostFormValue)
		if !wiz.Next() {
			status = http.StatusUnprocessableEntity
		}
	case "back":
		if wiz.Step < loans.StepReview {
			wiz.Update(r.PostFormValue)
		}
		wiz.Back()
	case "submit":
		err := h.svc.Submit(r.Context(), &wiz)
		switch {
		case err == nil:
		case errors.Is(err, loans.ErrIncomplete), errors.Is(err, loans.ErrNotReviewed):
			status = http.StatusUnprocessableEntity
		default:
			status = http.StatusBadGateway
		}
	case "reset":
		wiz = loans.NewWizard()
	default:
		status = http.StatusBadRequest
	}

	if wiz.Step == loans.StepSubmitted {
		h.nav.Delete(token, wizardKey)
	} else {
		session.Carry(h.nav, token, wizardKey, wiz)
	}
	h.renderWizard(w, r, status, wiz)
}

// PaymentView is the repayment page model.
type PaymentView struct {
	Loans    viewstate.State[[]domain.Loan]
	Term     string
	Matches  search.Result[domain.Loan]
	Selected *domain.Loan
	Upcoming viewstate.State[[]loans.ScheduleRow]
	Amount   string
	Date     string
	Error    string
	Success  string
}

// MaxHint is the helper text under the amount field.
func (v PaymentView) MaxHint() string {
	if v.Selected == nil {
		return loans.MsgSelectLoan
	}
	return "ยอดชำระสูงสุด: " + format.Baht(v.Selected.RemainingBalance)
}

func (h *Handler) loadPayment(r *http.Request, term, loanID string) PaymentView {
	view := PaymentView{
		Term: term,
		Date: format.InputDate(time.Now()),
	}
	view.Loans = viewstate.Fetch(r.Context(), h.log, loans.MsgLoadFailed, h.svc.ActiveLoans)
	view.Matches = search.Filter(r.Context(), view.Loans.Data, term, domain.Loan.BorrowerName, search.LoanMessages)

	if loanID == "" || !view.Loans.Ready() {
		return view
	}
	for i := range view.Loans.Data {
		if view.Loans.Data[i].ID.String() == loanID {
			loan := view.Loans.Data[i]
			view.Selected = &loan
			break
		}
	}
	if view.Selected == nil {
		return view
	}

	selected := *view.Selected
	view.Upcoming = viewstate.Fetch(r.Context(), h.log, loans.MsgLoadFailed,
		func(ctx context.Context) ([]loans.ScheduleRow, error) {
			upcoming, err := h.svc.Upcoming(ctx, selected.ID)
			if err != nil {
				return nil, err
			}
			return loans.UpcomingRows(selected, upcoming, time.Now()), nil
		})
	return view
}

// HandlePayment handles GET /loan/payment.
func (h *Handler) HandlePayment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := h.loadPayment(r, q.Get("term"), strings.TrimSpace(q.Get("loan_id")))
	h.render.Render(w, r, http.StatusOK, "loans/payment", web.Page{
		Title: "ชำระเงินกู้",
		Nav:   "loans",
		Data:  view,
	})
}

// HandlePay handles POST /loan/payment.
func (h *Handler) HandlePay(w http.ResponseWriter, r *http.Request) {
	loanID := strings.TrimSpace(r.FormValue("loan_id"))
	view := h.loadPayment(r, r.FormValue("term"), loanID)
	view.Amount = r.FormValue("amount")
	if d := strings.TrimSpace(r.FormValue("payment_date")); d != "" {
		view.Date = d
	}

	status := http.StatusOK
	switch {
	case view.Loans.Failed():
		view.Error = view.Loans.Err
		status = http.StatusBadGateway
	case view.Selected == nil:
		view.Error = loans.MsgSelectLoan
		status = http.StatusUnprocessableEntity
	default:
		date, _ := domain.ParseAPIDate(view.Date)
		msg, err := h.svc.Pay(r.Context(), loans.Payment{
			Loan:     *view.Selected,
			Upcoming: entries(view.Upcoming.Data),
			Amount:   view.Amount,
			Date:     date,
		})
		var verr *loans.ValidationError
		switch {
		case errors.As(err, &verr):
			view.Error = msg
			status = http.StatusUnprocessableEntity
		case err != nil:
			view.Error = msg
			status = http.StatusBadGateway
		default:
			// Balances and schedules are server-owned; reload both.
			refreshed := h.loadPayment(r, view.Term, loanID)
			refreshed.Success = msg
			view = refreshed
		}
	}

	h.render.Render(w, r, status, "loans/payment", web.Page{
		Title: "ชำระเงินกู้",
		Nav:   "loans",
		Data:  view,
	})
}

func entries(rows []loans.ScheduleRow) []domain.PaymentScheduleEntry {
	out := make([]domain.PaymentScheduleEntry, len(rows))
	for i, row := range rows {
		out[i] = row.Entry
	}
	return out
}

// HistoryView is the loan history page model.
type HistoryView struct {
	State viewstate.State[pagination.Page[domain.Loan]]
}

// HandleHistory handles GET /loan/history.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	req := pagination.ParseRequest(r, pagination.HistorySize)
	state := viewstate.Fetch(r.Context(), h.log, "เกิดข้อผิดพลาดในการดึงข้อมูล",
		func(ctx context.Context) (pagination.Page[domain.Loan], error) {
			all, err := h.svc.History(ctx)
			if err != nil {
				return pagination.Page[domain.Loan]{}, err
			}
			return pagination.Paginate(all, req.Index, req.Size), nil
		})

	h.render.Render(w, r, http.StatusOK, "loans/history", web.Page{
		Title: "ประวัติการกู้ยืม",
		Nav:   "loans",
		Data:  HistoryView{State: state},
	})
}

// HandleDetail handles GET /loan/{id}.
func (h *Handler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := domain.ID(chi.URLParam(r, "id"))
	state := viewstate.Fetch(r.Context(), h.log, loans.MsgLoanNotFound,
		func(ctx context.Context) (loans.Detail, error) {
			return h.svc.Detail(ctx, id)
		})

	status := http.StatusOK
	if state.Failed() {
		status = http.StatusNotFound
	}
	h.render.Render(w, r, status, "loans/detail", web.Page{
		Title: "รายละเอียดสัญญากู้ยืม",
		Nav:   "loans",
		Data:  state,
	})
}
