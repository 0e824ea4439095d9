// Package handlers provides HTTP handlers for the member screens.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/puyolnw/F/internal/domain"
	"github.com/puyolnw/F/internal/modules/members"
	"github.com/puyolnw/F/internal/pagination"
	"github.com/puyolnw/F/internal/session"
	"github.com/puyolnw/F/internal/viewstate"
	"github.com/puyolnw/F/internal/web"
)

// Handler serves the member pages.
type Handler struct {
	svc    *members.Service
	render web.Renderer
	log    zerolog.Logger
}

// NewHandler creates a new members handler.
func NewHandler(svc *members.Service, render web.Renderer, log zerolog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		render: render,
		log:    log.With().Str("handler", "members").Logger(),
	}
}

// ListView is the member table model. View, edit and delete are rendered
// disabled until the API grows those endpoints.
type ListView struct {
	State viewstate.State[pagination.Page[domain.Member]]
	Sizes []int
}

// HandleList handles GET /members.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	req := pagination.ParseRequest(r, pagination.MembersSize, pagination.MemberSizes...)
	state := viewstate.Fetch(r.Context(), h.log, members.MsgLoadFailed,
		func(ctx context.Context) (pagination.Page[domain.Member], error) {
			all, err := h.svc.List(ctx)
			if err != nil {
				return pagination.Page[domain.Member]{}, err
			}
			return pagination.Paginate(all, req.Index, req.Size), nil
		})

	h.render.Render(w, r, http.StatusOK, "members/list", web.Page{
		Title: "สมาชิก",
		Nav:   "members",
		Data:  ListView{State: state, Sizes: pagination.MemberSizes},
	})
}

// AddView is the add-member page model.
type AddView struct {
	Form            members.Form
	Errors          map[string]string
	Error           string
	Success         string
	Genders         []string
	MaritalStatuses []string
}

func newAddView() AddView {
	return AddView{
		Errors:          map[string]string{},
		Genders:         members.Genders,
		MaritalStatuses: members.MaritalStatuses,
	}
}

// HandleAddForm handles GET /members/addmember.
func (h *Handler) HandleAddForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "members/add", web.Page{
		Title: "เพิ่มสมาชิก",
		Nav:   "members",
		Data:  newAddView(),
	})
}

// HandleAdd handles POST /members/addmember.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	view := newAddView()
	view.Form = members.FormFrom(r.PostFormValue)

	user, _ := session.UserFrom(r.Context())
	msg, err := h.svc.Create(r.Context(), view.Form, user.Username)

	status := http.StatusOK
	var invalid *members.InvalidFormError
	switch {
	case err == nil:
		view.Success = msg
		view.Form = members.Form{}
	case errors.As(err, &invalid):
		view.Errors = invalid.Fields
		status = http.StatusUnprocessableEntity
	case errors.Is(err, members.ErrNoUser):
		view.Error = msg
		status = http.StatusUnauthorized
	default:
		view.Error = msg
		status = http.StatusBadGateway
	}

	h.render.Render(w, r, status, "members/add", web.Page{
		Title: "เพิ่มสมาชิก",
		Nav:   "members",
		Data:  view,
	})
}
