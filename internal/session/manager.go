package session

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CookieName carries the opaque session token.
const CookieName = "vf_session"

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/auth/login"

// ErrEmptyUsername is returned by Login for a blank name.
var ErrEmptyUsername = errors.New("username is required")

type ctxKey int

const (
	userKey ctxKey = iota
	tokenKey
)

// Manager owns the session lifecycle: set at login, cleared at logout.
type Manager struct {
	store  *Store
	nav    *Navigation
	ttl    time.Duration
	secure bool
	now    func() time.Time
	log    zerolog.Logger

	mu       sync.Mutex
	onExpire []func(token string)
}

// NewManager creates a session manager.
func NewManager(store *Store, nav *Navigation, ttl time.Duration, secure bool, log zerolog.Logger) *Manager {
	return &Manager{
		store:  store,
		nav:    nav,
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
		log:    log.With().Str("component", "session").Logger(),
	}
}

// Navigation returns the navigation-carried state store.
func (m *Manager) Navigation() *Navigation {
	return m.nav
}

// OnExpire registers fn to run for every session that ends, by logout or by
// pruning. Hooks release state other packages keep per token.
func (m *Manager) OnExpire(fn func(token string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = append(m.onExpire, fn)
}

// teardown drops everything held for token outside the store.
func (m *Manager) teardown(token string) {
	m.nav.Clear(token)
	m.mu.Lock()
	hooks := append([]func(string){}, m.onExpire...)
	m.mu.Unlock()
	for _, fn := range hooks {
		fn(token)
	}
}

// Login starts a session for username and sets the cookie.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, username string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return User{}, ErrEmptyUsername
	}

	token := uuid.New().String()
	user := User{Username: username, LoggedInAt: m.now()}
	expires := m.now().Add(m.ttl)

	if err := m.store.Save(ctx, token, user, expires); err != nil {
		return User{}, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	m.log.Info().Str("user", username).Msg("User logged in")
	return user, nil
}

// Current resolves the session of r.
func (m *Manager) Current(r *http.Request) (User, string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return User{}, "", false
	}
	user, ok, err := m.store.Load(r.Context(), c.Value, m.now())
	if err != nil {
		m.log.Error().Err(err).Msg("Failed to load session")
		return User{}, "", false
	}
	if !ok {
		return User{}, "", false
	}
	return user, c.Value, true
}

// Logout deletes the session, the state held for it and the cookie.
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		if err := m.store.Delete(ctx, c.Value); err != nil {
			m.log.Error().Err(err).Msg("Failed to delete session")
		}
		m.teardown(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Prune removes expired sessions with the state held for them, then sweeps
// stale navigation entries of live sessions.
func (m *Manager) Prune(ctx context.Context) (int64, error) {
	tokens, err := m.store.PruneExpired(ctx, m.now())
	if err != nil {
		return 0, err
	}
	for _, token := range tokens {
		m.teardown(token)
	}
	swept := m.nav.Sweep()
	if len(tokens) > 0 || swept > 0 {
		m.log.Debug().Int("sessions", len(tokens)).Int("nav_entries", swept).Msg("Pruned expired session state")
	}
	return int64(len(tokens)), nil
}

// Attach loads the session (if any) into the request context.
func (m *Manager) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, token, ok := m.Current(r); ok {
			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = context.WithValue(ctx, tokenKey, token)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser guards routes behind a login. Pages redirect to the login
// form; JSON and socket endpoints get 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFrom(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/ui/") {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		target := LoginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
		http.Redirect(w, r, target, http.StatusSeeOther)
	})
}

// UserFrom returns the signed-in user stored by Attach.
func UserFrom(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey).(User)
	return u, ok
}

// TokenFrom returns the session token stored by Attach.
func TokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}

// WithUser is used by tests and handlers that act on behalf of a user.
func WithUser(ctx context.Context, user User, token string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, tokenKey, token)
}

// ActiveCount reports the number of unexpired sessions.
func (m *Manager) ActiveCount(ctx context.Context) (int, error) {
	return m.store.ActiveCount(ctx, m.now())
}
