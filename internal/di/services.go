// Package di provides service initialization functions.
package di

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/rs/zerolog"

	"github.com/puyolnw/F/internal/clients/fundapi"
	"github.com/puyolnw/F/internal/config"
	"github.com/puyolnw/F/internal/modules/accounts"
	"github.com/puyolnw/F/internal/modules/dashboard"
	"github.com/puyolnw/F/internal/modules/fundaccounts"
	"github.com/puyolnw/F/internal/modules/loans"
	"github.com/puyolnw/F/internal/modules/members"
	"github.com/puyolnw/F/internal/modules/transactions"
	"github.com/puyolnw/F/internal/scheduler"
	"github.com/puyolnw/F/internal/session"
	"github.com/puyolnw/F/internal/web"
	"github.com/puyolnw/F/pkg/embedded"
)

const (
	// submitGuardTTL bounds how long an unconfirmed deposit key is remembered.
	submitGuardTTL = 10 * time.Minute
	// probeTimeout caps one reachability check against the fund API.
	probeTimeout = 5 * time.Second
)

// InitializeServices creates the API client, session manager, renderer and
// the service behind every screen.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	// Clients
	container.FundAPI = fundapi.NewClient(cfg.FundAPIURL, cfg.FundAPITimeout, log)

	// Sessions and carried page state
	container.Navigation = session.NewNavigation(cfg.SessionTTL)
	store := session.NewStore(container.SessionDB.Conn(), log)
	container.Sessions = session.NewManager(store, container.Navigation, cfg.SessionTTL, cfg.CookieSecure, log)

	// Templates and static assets
	templates, err := web.NewTemplates(embedded.Files, "templates", log)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	container.Renderer = templates

	static, err := fs.Sub(embedded.Files, "static")
	if err != nil {
		return fmt.Errorf("failed to open static assets: %w", err)
	}
	container.Static = static

	// Screens
	container.SubmitGuard = transactions.NewSubmitGuard(submitGuardTTL)
	container.TransactionService = transactions.NewService(container.FundAPI, container.SubmitGuard, log)
	container.LoanService = loans.NewService(container.FundAPI, log)
	container.MemberService = members.NewService(container.FundAPI, log)
	container.AccountService = accounts.NewService(container.FundAPI, log)
	container.Sessions.OnExpire(container.AccountService.Forget)
	container.FundAccountService = fundaccounts.NewService(container.FundAPI, log)

	// The dashboard reads the last probe result, so the probe exists before
	// the job is scheduled.
	container.BackendProbeMonitor = scheduler.NewBackendProbeJob(container.FundAPI, probeTimeout, log)
	container.DashboardService = dashboard.NewService(container.FundAPI, container.BackendProbeMonitor, log)

	log.Info().Str("fund_api", container.FundAPI.BaseURL()).Msg("Services initialized")
	return nil
}
