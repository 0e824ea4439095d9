package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/puyolnw/F/internal/session"
	"github.com/puyolnw/F/internal/web"
)

const (
	MsgUsernameRequired = "กรุณากรอกชื่อผู้ใช้"
	MsgLoginFailed      = "ไม่สามารถเข้าสู่ระบบได้ กรุณาลองใหม่อีกครั้ง"
)

// LoginView is the login page model.
type LoginView struct {
	Username string
	Next     string
	Error    string
}

// AuthHandlers serves sign-in and sign-out. Credentials are checked by the
// identity provider in front of this service; the form only names the
// operator recorded as created_by / by_user.
type AuthHandlers struct {
	sessions *session.Manager
	render   web.Renderer
	log      zerolog.Logger
}

// NewAuthHandlers creates the auth handlers.
func NewAuthHandlers(sessions *session.Manager, render web.Renderer, log zerolog.Logger) *AuthHandlers {
	return &AuthHandlers{
		sessions: sessions,
		render:   render,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// RegisterRoutes registers the auth pages.
func (h *AuthHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", h.HandleLoginForm)
		r.Post("/login", h.HandleLogin)
		r.Post("/logout", h.HandleLogout)
	})
}

// HandleLoginForm handles GET /auth/login.
func (h *AuthHandlers) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	next := localPath(r.URL.Query().Get("next"))
	if _, ok := session.UserFrom(r.Context()); ok {
		web.Redirect(w, r, next)
		return
	}
	h.renderLogin(w, r, http.StatusOK, LoginView{Next: next})
}

// HandleLogin handles POST /auth/login.
func (h *AuthHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	view := LoginView{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Next:     localPath(r.PostFormValue("next")),
	}
	if view.Username == "" {
		view.Error = MsgUsernameRequired
		h.renderLogin(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	if _, err := h.sessions.Login(r.Context(), w, view.Username); err != nil {
		h.log.Error().Err(err).Str("username", view.Username).Msg("Failed to start session")
		view.Error = MsgLoginFailed
		h.renderLogin(w, r, http.StatusInternalServerError, view)
		return
	}
	h.log.Info().Str("username", view.Username).Msg("Signed in")
	web.Redirect(w, r, view.Next)
}

// HandleLogout handles POST /auth/logout.
func (h *AuthHandlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context(), w, r)
	web.Redirect(w, r, session.LoginPath)
}

func (h *AuthHandlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, view LoginView) {
	h.render.Render(w, r, status, "auth/login", web.Page{
		Title: "เข้าสู่ระบบ",
		Data:  view,
	})
}

// localPath keeps redirects on this host. Anything that is not a plain
// absolute path falls back to the dashboard.
func localPath(next string) string {
	next = strings.TrimSpace(next)
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
