package di

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puyolnw/F/internal/config"
	"github.com/puyolnw/F/internal/web"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		DataDir:              t.TempDir(),
		FundAPIURL:           "http://127.0.0.1:1",
		FundAPITimeout:       time.Second,
		Port:                 8080,
		SessionTTL:           time.Hour,
		HealthCheckSchedule:  "@every 30s",
		SessionPruneSchedule: "@every 10m",
		DBCheckSchedule:      "0 0 * * * *",
	}
}

func TestWire(t *testing.T) {
	cfg := testConfig(t)

	container, jobs, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, container)
	require.NotNil(t, jobs)
	t.Cleanup(func() { _ = container.Close() })

	assert.NotNil(t, container.SessionDB)
	assert.Equal(t, cfg.SessionDBPath(), container.SessionDB.Path())
	assert.Equal(t, "http://127.0.0.1:1", container.FundAPI.BaseURL())
	assert.NotNil(t, container.Sessions)
	assert.Same(t, container.Navigation, container.Sessions.Navigation())
	assert.NotNil(t, container.Static)

	assert.NotNil(t, container.TransactionService)
	assert.NotNil(t, container.LoanService)
	assert.NotNil(t, container.MemberService)
	assert.NotNil(t, container.AccountService)
	assert.NotNil(t, container.FundAccountService)
	assert.NotNil(t, container.DashboardService)

	assert.Same(t, container.BackendProbeMonitor, jobs.BackendProbe)
	assert.NotNil(t, jobs.SessionPrune)
	assert.NotNil(t, jobs.SessionDBCheck)
	assert.NoError(t, jobs.SessionDBCheck.Run())
}

func TestWire_LoadsEveryPage(t *testing.T) {
	container, _, err := Wire(testConfig(t), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	templates, ok := container.Renderer.(*web.Templates)
	require.True(t, ok)
	for _, name := range []string{
		"error",
		"auth/login",
		"dashboard/index",
		"transactions/form",
		"transactions/history",
		"loans/wizard",
		"loans/payment",
		"members/list",
		"members/add",
		"accounts/search",
		"accounts/results",
		"accounts/detail",
		"fundaccounts/list",
		"fundaccounts/main",
		"fundaccounts/savings",
		"fundaccounts/loanpool",
	} {
		assert.True(t, templates.Has(name), name)
	}
}

func TestWire_BadSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.SessionPruneSchedule = "whenever"

	_, _, err := Wire(cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "failed to register jobs")
}

func TestWire_PruneReleasesLiveSearch(t *testing.T) {
	cfg := testConfig(t)
	cfg.SessionTTL = -time.Minute

	container, jobs, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	ctx := context.Background()
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		_, err := container.Sessions.Login(ctx, rec, "admin")
		require.NoError(t, err)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		container.AccountService.Live(ctx, cookies[0].Value, "ab")
	}
	require.Equal(t, 50, container.AccountService.LiveCount())

	require.NoError(t, jobs.SessionPrune.Run())
	assert.Zero(t, container.AccountService.LiveCount())
}
