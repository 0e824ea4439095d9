// Package fundaccounts implements the fund-level account pages.
package fundaccounts

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/puyolnw/F/internal/domain"
)

const (
	MsgLoadFailed = "ไม่สามารถโหลดข้อมูลได้"
	MsgNotFound   = "ไม่พบข้อมูลบัญชี"
	MsgEmpty      = "ไม่พบข้อมูล"
)

// ErrUnknownKind is returned when no fund account resolves to a kind.
var ErrUnknownKind = errors.New("no fund account of that kind")

// API is the part of the fund client used here.
type API interface {
	ListFundAccounts(ctx context.Context) ([]domain.FundAccount, error)
	GetFundAccount(ctx context.Context, id domain.ID) (domain.FundAccount, error)
	GetFundReport(ctx context.Context, id domain.ID) (domain.FundReport, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}

// ParseKind maps a URL segment onto a kind.
func ParseKind(s string) (domain.FundKind, bool) {
	switch domain.FundKind(s) {
	case domain.FundMain, domain.FundSavings, domain.FundLoanPool:
		return domain.FundKind(s), true
	}
	return "", false
}

// Card is one entry of the fund account list.
type Card struct {
	Account domain.FundAccount
	Kind    domain.FundKind
}

// Active reports whether the status chip shows as normal.
func (c Card) Active() bool {
	return c.Account.Status == string(domain.AccountNormal)
}

// Savings is the savings ("sajja") fund view: the naive sum of every member
// balance plus all member transactions, newest first.
type Savings struct {
	Account      domain.FundAccount
	Total        domain.Money
	Accounts     int
	Transactions []domain.Transaction
}

// LoanPool is the loan fund view.
type LoanPool struct {
	Account domain.FundAccount
	Report  domain.FundReport
}

// Service runs the fund account screens.
type Service struct {
	api API
	log zerolog.Logger
}

// NewService creates the fund account service.
func NewService(api API, log zerolog.Logger) *Service {
	return &Service{
		api: api,
		log: log.With().Str("service", "fundaccounts").Logger(),
	}
}

// Cards lists every fund account with its resolved kind.
func (s *Service) Cards(ctx context.Context) ([]Card, error) {
	all, err := s.api.ListFundAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fund accounts: %w", err)
	}
	cards := make([]Card, 0, len(all))
	for _, a := range all {
		cards = append(cards, Card{Account: a, Kind: a.Kind()})
	}
	return cards, nil
}

// Resolve finds the fund account of kind and fetches its current record.
func (s *Service) Resolve(ctx context.Context, kind domain.FundKind) (domain.FundAccount, error) {
	all, err := s.api.ListFundAccounts(ctx)
	if err != nil {
		return domain.FundAccount{}, fmt.Errorf("failed to list fund accounts: %w", err)
	}
	found, ok := domain.FindFund(all, kind)
	if !ok {
		return domain.FundAccount{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	account, err := s.api.GetFundAccount(ctx, found.ID)
	if err != nil {
		return domain.FundAccount{}, fmt.Errorf("failed to get fund account %s: %w", found.ID, err)
	}
	return account, nil
}

// Savings builds the savings fund view. The fund record itself is optional;
// the totals come from the member accounts.
func (s *Service) Savings(ctx context.Context) (Savings, error) {
	var view Savings
	if account, err := s.Resolve(ctx, domain.FundSavings); err == nil {
		view.Account = account
	} else {
		s.log.Debug().Err(err).Msg("Savings fund record unavailable")
	}

	accounts, err := s.api.ListAccounts(ctx)
	if err != nil {
		return Savings{}, fmt.Errorf("failed to list accounts: %w", err)
	}
	view.Accounts = len(accounts)
	for _, a := range accounts {
		view.Total = view.Total.Add(a.Balance)
	}

	txs, err := s.api.ListTransactions(ctx)
	if err != nil {
		return Savings{}, fmt.Errorf("failed to list transactions: %w", err)
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].OccurredAt().After(txs[j].OccurredAt())
	})
	view.Transactions = txs
	return view, nil
}

// LoanPool builds the loan fund view.
func (s *Service) LoanPool(ctx context.Context) (LoanPool, error) {
	account, err := s.Resolve(ctx, domain.FundLoanPool)
	if err != nil {
		return LoanPool{}, err
	}
	report, err := s.api.GetFundReport(ctx, account.ID)
	if err != nil {
		return LoanPool{}, fmt.Errorf("failed to get fund report %s: %w", account.ID, err)
	}
	return LoanPool{Account: account, Report: report}, nil
}
