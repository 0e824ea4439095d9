package testing

import (
	"net/http"
	"sync"

	"github.com/puyolnw/F/internal/session"
	"github.com/puyolnw/F/internal/web"
)

// RenderedPage is one call captured by RecordingRenderer.
type RenderedPage struct {
	Status int
	Name   string
	Page   web.Page
}

// RecordingRenderer captures rendered pages instead of executing templates,
// so handler tests can assert on the view model.
type RecordingRenderer struct {
	mu    sync.Mutex
	pages []RenderedPage
}

// Render implements web.Renderer.
func (rr *RecordingRenderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, page web.Page) {
	if user, ok := session.UserFrom(r.Context()); ok {
		page.User = user
	}
	rr.mu.Lock()
	rr.pages = append(rr.pages, RenderedPage{Status: status, Name: name, Page: page})
	rr.mu.Unlock()
	w.WriteHeader(status)
}

// Last returns the most recent page; the zero value when nothing rendered.
func (rr *RecordingRenderer) Last() RenderedPage {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if len(rr.pages) == 0 {
		return RenderedPage{}
	}
	return rr.pages[len(rr.pages)-1]
}

// Count returns how many pages were rendered.
func (rr *RecordingRenderer) Count() int {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return len(rr.pages)
}

// AsUser returns r carrying a signed-in session for username.
func AsUser(r *http.Request, username string) *http.Request {
	ctx := session.WithUser(r.Context(), session.User{Username: username}, "test-session-"+username)
	return r.WithContext(ctx)
}
