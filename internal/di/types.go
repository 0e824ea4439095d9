/**
 * Package di provides dependency injection type definitions.
 *
 * The Container holds every long-lived dependency of the admin server: the
 * local session store, the fund API client, the page renderer and the
 * services behind each screen. It is created by Wire() and handed to the
 * HTTP server, which builds the handlers from it.
 */
package di

import (
	"io/fs"

	"github.com/puyolnw/F/internal/clients/fundapi"
	"github.com/puyolnw/F/internal/database"
	"github.com/puyolnw/F/internal/modules/accounts"
	"github.com/puyolnw/F/internal/modules/dashboard"
	"github.com/puyolnw/F/internal/modules/fundaccounts"
	"github.com/puyolnw/F/internal/modules/loans"
	"github.com/puyolnw/F/internal/modules/members"
	"github.com/puyolnw/F/internal/modules/transactions"
	"github.com/puyolnw/F/internal/scheduler"
	"github.com/puyolnw/F/internal/session"
	"github.com/puyolnw/F/internal/web"
)

// Container holds all dependencies for the application.
type Container struct {
	// Local SQLite store, sessions only. Fund data lives behind the API.
	SessionDB *database.DB

	// Clients
	FundAPI *fundapi.Client

	// Session state
	Navigation *session.Navigation
	Sessions   *session.Manager

	// Presentation
	Renderer web.Renderer
	Static   fs.FS

	// Services
	TransactionService  *transactions.Service
	LoanService         *loans.Service
	MemberService       *members.Service
	AccountService      *accounts.Service
	FundAccountService  *fundaccounts.Service
	DashboardService    *dashboard.Service
	SubmitGuard         *transactions.SubmitGuard
	BackendProbeMonitor *scheduler.BackendProbeJob

	// Background jobs
	Scheduler *scheduler.Scheduler
}

// JobInstances exposes the registered jobs for manual triggering.
type JobInstances struct {
	BackendProbe   *scheduler.BackendProbeJob
	SessionPrune   *scheduler.SessionPruneJob
	SessionDBCheck *scheduler.CheckSessionDBJob
}

// Close releases the resources held by the container.
func (c *Container) Close() error {
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.SessionDB != nil {
		return c.SessionDB.Close()
	}
	return nil
}
