// Package web renders the admin pages from embedded templates.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/puyolnw/F/internal/domain"
	"github.com/puyolnw/F/internal/format"
	"github.com/puyolnw/F/internal/pagination"
	"github.com/puyolnw/F/internal/session"
)

// Renderer writes a full HTML page.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name string, page Page)
}

// Page is the view model every template receives.
type Page struct {
	Title string
	// Nav marks the active sidebar entry.
	Nav  string
	User session.User
	// Path is the request URL, used to build pager links.
	Path *url.URL
	Data interface{}
}

// LoggedIn reports whether the page is rendered for a signed-in user.
func (p Page) LoggedIn() bool {
	return p.User.Username != ""
}

// Templates renders pages from an fs.FS laid out as
//
//	templates/layout.html      base layout, defines "layout"
//	templates/partials/*.html  shared blocks
//	templates/<section>/<page>.html  one page each, defines "content"
type Templates struct {
	pages map[string]*template.Template
	log   zerolog.Logger
}

// NewTemplates parses every page under root in fsys.
func NewTemplates(fsys fs.FS, root string, log zerolog.Logger) (*Templates, error) {
	base := template.New("layout").Funcs(Funcs())

	base, err := base.ParseFS(fsys, path.Join(root, "layout.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	partials, err := fs.Glob(fsys, path.Join(root, "partials", "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to list partials: %w", err)
	}
	if len(partials) > 0 {
		if base, err = base.ParseFS(fsys, partials...); err != nil {
			return nil, fmt.Errorf("failed to parse partials: %w", err)
		}
	}

	t := &Templates{
		pages: make(map[string]*template.Template),
		log:   log.With().Str("component", "templates").Logger(),
	}

	err = fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		if rel == "layout.html" || strings.HasPrefix(rel, "partials/") {
			return nil
		}

		clone, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := clone.ParseFS(fsys, p); err != nil {
			return fmt.Errorf("failed to parse %s: %w", p, err)
		}
		t.pages[strings.TrimSuffix(rel, ".html")] = clone
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.log.Debug().Int("pages", len(t.pages)).Msg("Templates loaded")
	return t, nil
}

// Has reports whether a page template exists.
func (t *Templates) Has(name string) bool {
	_, ok := t.pages[name]
	return ok
}

// Render executes page name into the layout. The page is buffered so a
// template error never leaves a half-written response.
func (t *Templates) Render(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	tmpl, ok := t.pages[name]
	if !ok {
		t.log.Error().Str("page", name).Msg("Unknown page template")
		http.Error(w, "page not found", http.StatusInternalServerError)
		return
	}

	if user, ok := session.UserFrom(r.Context()); ok {
		page.User = user
	}
	if page.Path == nil {
		page.Path = r.URL
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		t.log.Error().Err(err).Str("page", name).Msg("Failed to render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		t.log.Debug().Err(err).Str("page", name).Msg("Failed to write page")
	}
}

// Funcs are the template helpers.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"baht":          format.Baht,
		"number":        format.Number,
		"float":         format.Float,
		"thaiDate":      format.ThaiDate,
		"thaiShortDate": format.ThaiShortDate,
		"thaiDateTime":  format.ThaiDateTime,
		"thaiDateOf":    format.ThaiDateOf,
		"describeTx":    format.DescribeTransaction,
		"pageLink": func(base *url.URL, n, size int) string {
			if base == nil {
				return "?page=" + fmt.Sprint(n)
			}
			return pagination.Link(base, n, size)
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"now": time.Now,
		"json": func(v interface{}) (template.JS, error) {
			b, err := json.Marshal(v)
			return template.JS(b), err
		},
		"dataURL": func(s string) template.URL {
			if strings.HasPrefix(s, "data:image/") {
				return template.URL(s)
			}
			return ""
		},
		"fundTitle": func(k domain.FundKind) string { return k.Title() },
		"pager":     NewPager,
		"alert":     func(tone, text string) Alert { return Alert{Tone: tone, Text: text} },
	}
}

// Alert is the model of the "alert" partial.
type Alert struct {
	Tone string
	Text string
}

// PagerLink is one numbered pager button.
type PagerLink struct {
	Number  int
	URL     string
	Current bool
}

// Pager is the model of the "pager" partial. It is empty for a single page.
type Pager struct {
	Prev  string
	Next  string
	Links []PagerLink
}

// NewPager builds pager links for a zero-based index out of totalPages.
func NewPager(base *url.URL, index, totalPages, size int) Pager {
	var p Pager
	if totalPages <= 1 {
		return p
	}
	if base == nil {
		base = &url.URL{}
	}
	for n := 1; n <= totalPages; n++ {
		p.Links = append(p.Links, PagerLink{Number: n, URL: pagination.Link(base, n, size), Current: n == index+1})
	}
	if index > 0 {
		p.Prev = pagination.Link(base, index, size)
	}
	if index+1 < totalPages {
		p.Next = pagination.Link(base, index+2, size)
	}
	return p
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Redirect sends a 303 so a POST is never replayed by a refresh.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}
