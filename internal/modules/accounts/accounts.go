// Package accounts implements account lookup, the search results page and
// the member account detail views.
package accounts

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/puyolnw/F/internal/domain"
	"github.com/puyolnw/F/internal/search"
)

const (
	MsgLoadFailed = "ไม่สามารถโหลดข้อมูลได้"
	MsgNotFound   = "ไม่พบข้อมูลบัญชี"
)

// API is the part of the fund client used here.
type API interface {
	SearchAccounts(ctx context.Context, term string) ([]domain.Account, error)
	GetAccount(ctx context.Context, id domain.ID) (domain.Account, error)
	ListAccountTransactions(ctx context.Context, accountNumber string) ([]domain.Transaction, error)
}

// Results is what the search page carries over to the results page.
type Results struct {
	Term     string
	Accounts []domain.Account
}

// Find returns the carried account with the given number.
func (r Results) Find(number string) (domain.Account, bool) {
	for _, a := range r.Accounts {
		if a.Number == number {
			return a, true
		}
	}
	return domain.Account{}, false
}

// Detail is an account with its statement.
type Detail struct {
	Account      domain.Account
	Transactions []domain.Transaction
}

// Service runs the account screens.
type Service struct {
	api API
	log zerolog.Logger

	mu       sync.Mutex
	adapters map[string]*search.Adapter[domain.Account]
}

// NewService creates the account service.
func NewService(api API, log zerolog.Logger) *Service {
	return &Service{
		api:      api,
		log:      log.With().Str("service", "accounts").Logger(),
		adapters: make(map[string]*search.Adapter[domain.Account]),
	}
}

// Searcher adapts the API search to the search package.
func (s *Service) Searcher() search.Searcher[domain.Account] {
	return s.api.SearchAccounts
}

// NewAdapter returns a fresh adapter, one per input box.
func (s *Service) NewAdapter() *search.Adapter[domain.Account] {
	return search.NewAdapter(s.Searcher(), search.AccountMessages, s.log)
}

// Live runs one keystroke for the input box owned by key (a session token).
// Each key keeps its own adapter so a newer keystroke cancels the older one.
func (s *Service) Live(ctx context.Context, key, raw string) search.Result[domain.Account] {
	s.mu.Lock()
	a, ok := s.adapters[key]
	if !ok {
		a = s.NewAdapter()
		s.adapters[key] = a
	}
	s.mu.Unlock()
	return a.Query(ctx, raw)
}

// Forget drops the adapter of key and aborts its query.
func (s *Service) Forget(key string) {
	s.mu.Lock()
	a, ok := s.adapters[key]
	delete(s.adapters, key)
	s.mu.Unlock()
	if ok {
		a.Close()
	}
}

// LiveCount reports how many input boxes hold an adapter.
func (s *Service) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.adapters)
}

// Lookup runs a submitted search once.
func (s *Service) Lookup(ctx context.Context, raw string) search.Result[domain.Account] {
	return s.NewAdapter().Query(ctx, raw)
}

// Detail fetches the account by id and then its statement, newest first.
func (s *Service) Detail(ctx context.Context, id domain.ID) (Detail, error) {
	account, err := s.api.GetAccount(ctx, id)
	if err != nil {
		return Detail{}, fmt.Errorf("failed to get account %s: %w", id, err)
	}
	txs, err := s.Statement(ctx, account.Number)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Account: account, Transactions: txs}, nil
}

// Statement fetches the transactions of one account, newest first.
func (s *Service) Statement(ctx context.Context, number string) ([]domain.Transaction, error) {
	txs, err := s.api.ListAccountTransactions(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions of %s: %w", number, err)
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].OccurredAt().After(txs[j].OccurredAt())
	})
	return txs, nil
}
