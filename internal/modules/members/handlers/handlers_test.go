package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puyolnw/F/internal/clients/fundapi"
	"github.com/puyolnw/F/internal/domain"
	"github.com/puyolnw/F/internal/modules/members"
	testingpkg "github.com/puyolnw/F/internal/testing"
)

func setup(t *testing.T) (*testingpkg.FakeFundAPI, *testingpkg.RecordingRenderer, chi.Router) {
	t.Helper()
	fake := testingpkg.NewFakeFundAPI(t)
	svc := members.NewService(fundapi.NewClient(fake.URL(), 0, zerolog.Nop()), zerolog.Nop())
	render := &testingpkg.RecordingRenderer{}
	router := chi.NewRouter()
	NewHandler(svc, render, zerolog.Nop()).RegisterRoutes(router)
	return fake, render, router
}

func TestHandleList_Pages(t *testing.T) {
	fake, render, router := setup(t)
	for i := 0; i < 9; i++ {
		fake.Members = append(fake.Members, domain.Member{ID: domain.ID("x"), FullName: "extra"})
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/members", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	view := render.Last().Page.Data.(ListView)
	require.True(t, view.State.Ready())
	assert.Equal(t, 12, view.State.Data.TotalItems)
	assert.Len(t, view.State.Data.Items, 5)
	assert.Equal(t, 3, view.State.Data.TotalPages)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/members?page=2&size=10", nil))
	view = render.Last().Page.Data.(ListView)
	assert.Len(t, view.State.Data.Items, 2)
	assert.Equal(t, 11, view.State.Data.FirstRow())

	// 7 is not an offered size.
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/members?size=7", nil))
	view = render.Last().Page.Data.(ListView)
	assert.Equal(t, 5, view.State.Data.Size)
}

func TestHandleList_LoadFailure(t *testing.T) {
	fake, render, router := setup(t)
	fake.Fail(http.MethodGet, "/api/members", http.StatusInternalServerError, "boom")

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/members", nil))
	view := render.Last().Page.Data.(ListView)
	assert.True(t, view.State.Failed())
	assert.Equal(t, members.MsgLoadFailed, view.State.Err)
}

func addRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/members/addmember", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleAdd(t *testing.T) {
	fake, render, router := setup(t)
	values := url.Values{
		"id_card_number": {"1100100100199"},
		"full_name":      {"ชูใจ ใฝ่ดี"},
		"birth_date":     {"1995-03-04"},
		"phone_number":   {"0801234567"},
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, addRequest(values))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, members.MsgLoginFirst, render.Last().Page.Data.(AddView).Error)
	assert.Equal(t, 0, fake.Count(http.MethodPost, "/api/members"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, testingpkg.AsUser(addRequest(url.Values{}), "admin"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Len(t, render.Last().Page.Data.(AddView).Errors, 4)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, testingpkg.AsUser(addRequest(values), "admin"))
	assert.Equal(t, http.StatusOK, rec.Code)
	view := render.Last().Page.Data.(AddView)
	assert.Equal(t, members.MsgCreated, view.Success)
	assert.Empty(t, view.Form.FullName)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, testingpkg.AsUser(addRequest(values), "admin"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "เลขบัตรประชาชนนี้มีอยู่ในระบบแล้ว", render.Last().Page.Data.(AddView).Error)
}
