// Package dashboard builds the landing page rollup from the fund API.
package dashboard

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/puyolnw/F/internal/domain"
	"github.com/puyolnw/F/internal/scheduler"
	"github.com/puyolnw/F/internal/viewstate"
)

// RecentCount is how many transactions the activity list shows.
const RecentCount = 5

const MsgLoadFailed = "ไม่สามารถโหลดข้อมูลได้"

// API is the part of the fund client used here.
type API interface {
	ListFundAccounts(ctx context.Context) ([]domain.FundAccount, error)
	GetFundReport(ctx context.Context, id domain.ID) (domain.FundReport, error)
	ListMembers(ctx context.Context) ([]domain.Member, error)
	ListLoans(ctx context.Context) ([]domain.Loan, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}

// Probe reports the last backend health check.
type Probe interface {
	Last() scheduler.ProbeStatus
}

// Funds sums the fund accounts by kind.
type Funds struct {
	Main     domain.Money
	Savings  domain.Money
	LoanPool domain.Money
	Other    domain.Money
	Total    domain.Money
}

// Loans summarises the loan book.
type Loans struct {
	Active  int
	Overdue int
	// Outstanding is the naive sum of remaining balances on active loans.
	Outstanding domain.Money
}

// Balances describes the spread of member account balances.
type Balances struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Overview is the dashboard model. Each source settles on its own so one
// failing endpoint only blanks its own card.
type Overview struct {
	Funds    viewstate.State[Funds]
	Members  viewstate.State[int]
	Loans    viewstate.State[Loans]
	Recent   viewstate.State[[]domain.Transaction]
	Balances viewstate.State[Balances]
	Probe    scheduler.ProbeStatus
}

// Service builds the overview.
type Service struct {
	api   API
	probe Probe
	log   zerolog.Logger
}

// NewService creates the dashboard service. probe may be nil.
func NewService(api API, probe Probe, log zerolog.Logger) *Service {
	return &Service{
		api:   api,
		probe: probe,
		log:   log.With().Str("service", "dashboard").Logger(),
	}
}

// Overview loads every source concurrently.
func (s *Service) Overview(ctx context.Context) Overview {
	var (
		out Overview
		wg  sync.WaitGroup
	)
	run := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}

	run(func() { out.Funds = viewstate.Fetch(ctx, s.log, MsgLoadFailed, s.funds) })
	run(func() { out.Members = viewstate.Fetch(ctx, s.log, MsgLoadFailed, s.memberCount) })
	run(func() { out.Loans = viewstate.Fetch(ctx, s.log, MsgLoadFailed, s.loans) })
	run(func() { out.Recent = viewstate.Fetch(ctx, s.log, MsgLoadFailed, s.recent) })
	run(func() { out.Balances = viewstate.Fetch(ctx, s.log, MsgLoadFailed, s.balances) })
	wg.Wait()

	if s.probe != nil {
		out.Probe = s.probe.Last()
	}
	return out
}

func (s *Service) funds(ctx context.Context) (Funds, error) {
	all, err := s.api.ListFundAccounts(ctx)
	if err != nil {
		return Funds{}, err
	}
	return SumFunds(all), nil
}

// SumFunds adds balances per kind.
func SumFunds(all []domain.FundAccount) Funds {
	var f Funds
	for _, a := range all {
		switch a.Kind() {
		case domain.FundMain:
			f.Main = f.Main.Add(a.Balance)
		case domain.FundSavings:
			f.Savings = f.Savings.Add(a.Balance)
		case domain.FundLoanPool:
			f.LoanPool = f.LoanPool.Add(a.Balance)
		default:
			f.Other = f.Other.Add(a.Balance)
		}
	}
	f.Total = domain.SumMoney(f.Main, f.Savings, f.LoanPool, f.Other)
	return f
}

func (s *Service) memberCount(ctx context.Context) (int, error) {
	members, err := s.api.ListMembers(ctx)
	return len(members), err
}

func (s *Service) loans(ctx context.Context) (Loans, error) {
	all, err := s.api.ListLoans(ctx)
	if err != nil {
		return Loans{}, err
	}
	var l Loans
	for _, loan := range all {
		if loan.Outstanding() {
			l.Active++
			l.Outstanding = l.Outstanding.Add(loan.RemainingBalance)
		}
	}

	// The overdue count lives on the loan pool report; a missing report is
	// not worth failing the card over.
	funds, err := s.api.ListFundAccounts(ctx)
	if err != nil {
		return l, nil
	}
	if pool, ok := domain.FindFund(funds, domain.FundLoanPool); ok {
		if report, err := s.api.GetFundReport(ctx, pool.ID); err == nil {
			l.Overdue = int(report.OverdueLoans)
		} else {
			s.log.Debug().Err(err).Msg("Loan pool report unavailable")
		}
	}
	return l, nil
}

func (s *Service) recent(ctx context.Context) ([]domain.Transaction, error) {
	txs, err := s.api.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return Recent(txs, RecentCount), nil
}

// Recent returns the n newest transactions.
func Recent(txs []domain.Transaction, n int) []domain.Transaction {
	sorted := make([]domain.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt().After(sorted[j].OccurredAt())
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func (s *Service) balances(ctx context.Context) (Balances, error) {
	accounts, err := s.api.ListAccounts(ctx)
	if err != nil {
		return Balances{}, err
	}
	values := make([]float64, 0, len(accounts))
	for _, a := range accounts {
		values = append(values, a.Balance.InexactFloat64())
	}
	return Describe(values), nil
}

// Describe summarises balances. Floats are fine here; the figures are only
// displayed, never sent back.
func Describe(values []float64) Balances {
	b := Balances{Count: len(values)}
	if len(values) == 0 {
		return b
	}
	b.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		b.StdDev = stat.StdDev(values, nil)
	}
	b.Min, b.Max = values[0], values[0]
	for _, v := range values[1:] {
		if v < b.Min {
			b.Min = v
		}
		if v > b.Max {
			b.Max = v
		}
	}
	return b
}
