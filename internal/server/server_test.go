package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puyolnw/F/internal/config"
	"github.com/puyolnw/F/internal/di"
	"github.com/puyolnw/F/internal/session"
	testingpkg "github.com/puyolnw/F/internal/testing"
)

type testServer struct {
	fake      *testingpkg.FakeFundAPI
	container *di.Container
	handler   http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	fake := testingpkg.NewFakeFundAPI(t)
	cfg := &config.Config{
		DataDir:              t.TempDir(),
		FundAPIURL:           fake.URL(),
		FundAPITimeout:       5 * time.Second,
		Port:                 8080,
		DevMode:              true,
		SessionTTL:           time.Hour,
		HealthCheckSchedule:  "@every 30s",
		SessionPruneSchedule: "@every 10m",
		DBCheckSchedule:      "0 0 * * * *",
	}

	container, jobs, err := di.Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	srv := New(Config{
		Log:       zerolog.Nop(),
		Config:    cfg,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
		Container: container,
		Jobs:      jobs,
	})
	return &testServer{fake: fake, container: container, handler: srv.Handler()}
}

func (s *testServer) do(t *testing.T, req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, username string) *http.Cookie {
	t.Helper()
	form := url.Values{"username": {username}, "next": {"/members"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := s.do(t, req, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/members", rec.Header().Get("Location"))

	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/health", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "villagefund-admin", body["service"])
}

func TestPages_RequireLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/members", nil), nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login?next=%2Fmembers", rec.Header().Get("Location"))

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/ui/api/accounts/search?term=000", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, s.fake.TotalRequests())
}

func TestLogin_EmptyUsername(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("username=+++"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := s.do(t, req, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), MsgUsernameRequired)
}

func TestLoginPage_RendersForm(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/auth/login?next=%2Floan", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="next" value="/loan"`)
	assert.NotContains(t, rec.Body.String(), "ออกจากระบบ")
}

func TestEveryPage_Renders(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "admin")

	for _, path := range []string{
		"/",
		"/transactions",
		"/transactions?kind=withdraw&account_id=1",
		"/transactions?kind=deposit&term=0001",
		"/transactions/history",
		"/transactions/10",
		"/transactions/10/edit",
		"/transactions/10/delete",
		"/loan",
		"/loan/payment",
		"/loan/payment?loan_id=1",
		"/loan/history",
		"/loan/1",
		"/members",
		"/members?page=1&size=10",
		"/members/addmember",
		"/search",
		"/searchresults",
		"/accounts/1",
		"/fundaccount",
		"/fundaccount/main",
		"/fundaccount/savings",
		"/fundaccount/loan_pool",
	} {
		t.Run(path, func(t *testing.T) {
			rec := s.do(t, httptest.NewRequest(http.MethodGet, path, nil), cookie)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), "admin")
		})
	}
}

func TestSearchFlow_CarriesResults(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "admin")

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader("q=0001234"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := s.do(t, req, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/searchresults", rec.Header().Get("Location"))

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/searchresults", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/accounts/view/0001234567")

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/accounts/view/0001234567", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "สมชาย ใจดี")
}

func TestLiveSearch_JSON(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "admin")

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/ui/api/accounts/search?term=0001234567", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string `json:"status"`
		Items  []struct {
			Number string `json:"account_number"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body.Status)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "0001234567", body.Items[0].Number)
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "admin")

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/no/such/page", nil), cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), MsgPageNotFound)

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/fundaccount/other", nil), cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLegacyFundPaths_Redirect(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "admin")

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/SajjaFundAccount", nil), cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/fundaccount/savings", rec.Header().Get("Location"))
}

func TestSystemStatus(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "admin")

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/api/system/status", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status SystemStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, 1, status.ActiveSessions)
	assert.Equal(t, s.fake.URL(), status.FundAPI.URL)
	assert.False(t, status.FundAPI.Checked)
	assert.Positive(t, status.Goroutines)
}

func TestTriggerJob(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "admin")

	rec := s.do(t, httptest.NewRequest(http.MethodPost, "/ui/api/jobs/check_session_db", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"success"`)

	rec = s.do(t, httptest.NewRequest(http.MethodPost, "/ui/api/jobs/backend_probe", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/api/system/status", nil), nil)
	var status SystemStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.FundAPI.Checked)
	assert.True(t, status.FundAPI.Reachable)

	rec = s.do(t, httptest.NewRequest(http.MethodPost, "/ui/api/jobs/rebalance", nil), cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticAssets(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/static/app.css", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/static/app.js", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/ui/ws/search")
	// Every keystroke is sent as typed; the server orders and cancels queries.
	assert.NotContains(t, rec.Body.String(), "clearTimeout")
}

func TestCORS_NoCredentialsForOtherOrigins(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "admin")

	req := httptest.NewRequest(http.MethodGet, "/ui/api/accounts/search?term=0001234567", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := s.do(t, req, cookie)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))

	preflight := httptest.NewRequest(http.MethodOptions, "/ui/api/accounts/search", nil)
	preflight.Header.Set("Origin", "https://evil.example")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec = s.do(t, preflight, nil)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestLogout_ReleasesLiveSearch(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "admin")

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/ui/api/accounts/search?term=0001234567", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, s.container.AccountService.LiveCount())

	rec = s.do(t, httptest.NewRequest(http.MethodPost, "/auth/logout", nil), cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Zero(t, s.container.AccountService.LiveCount())
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "admin")

	rec := s.do(t, httptest.NewRequest(http.MethodPost, "/auth/logout", nil), cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, session.LoginPath, rec.Header().Get("Location"))

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestLocalPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/members?page=2", "/members?page=2"},
		{"//evil.example", "/"},
		{"/\\evil.example", "/"},
		{"https://evil.example/", "/"},
		{"members", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, localPath(tt.in), tt.in)
	}
}
