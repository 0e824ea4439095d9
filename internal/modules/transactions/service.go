package transactions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/puyolnw/F/internal/clients/fundapi"
	"github.com/puyolnw/F/internal/domain"
)

// API is the part of the fund client used here.
type API interface {
	GetAccount(ctx context.Context, id domain.ID) (domain.Account, error)
	SearchAccounts(ctx context.Context, term string) ([]domain.Account, error)
	CreateTransaction(ctx context.Context, in domain.TransactionInput) (domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, id domain.ID) (domain.Transaction, error)
	UpdateTransaction(ctx context.Context, id domain.ID, in domain.TransactionUpdate) error
	DeleteTransaction(ctx context.Context, id domain.ID) error
}

// ErrDuplicateSubmit is returned when a form token was already used.
var ErrDuplicateSubmit = errors.New("form already submitted")

// ValidationError is a form error caught before any API call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Submission is one press of the confirm button.
type Submission struct {
	Token         string
	Kind          Kind
	AccountNumber string
	Amount        string
	Username      string
}

// Result is the summary shown after a submit reached the API.
type Result struct {
	Success       bool
	Message       string
	Kind          Kind
	Amount        domain.Money
	AccountNumber string
	At            time.Time
	Transaction   domain.Transaction
}

// Service runs the transaction screens against the fund API.
type Service struct {
	api   API
	guard *SubmitGuard
	now   func() time.Time
	log   zerolog.Logger
}

// NewService creates the transaction service.
func NewService(api API, guard *SubmitGuard, log zerolog.Logger) *Service {
	return &Service{
		api:   api,
		guard: guard,
		now:   time.Now,
		log:   log.With().Str("service", "transactions").Logger(),
	}
}

// Submit validates the form and posts exactly one transaction. Validation
// failures and duplicate tokens never reach the API.
func (s *Service) Submit(ctx context.Context, sub Submission) (Result, error) {
	if strings.TrimSpace(sub.AccountNumber) == "" {
		return Result{}, &ValidationError{Field: "account", Message: MsgSelectAccount}
	}
	if strings.TrimSpace(sub.Amount) == "" {
		return Result{}, &ValidationError{Field: "amount", Message: MsgAmountRequired}
	}
	amount, msg := ValidateAmount(sub.Amount)
	if msg != "" {
		return Result{}, &ValidationError{Field: "amount", Message: msg}
	}
	if strings.TrimSpace(sub.Username) == "" {
		return Result{}, &ValidationError{Field: "user", Message: MsgNoUser}
	}
	if !s.guard.Acquire(sub.Token) {
		return Result{}, ErrDuplicateSubmit
	}

	in := domain.TransactionInput{
		AccountNumber:   strings.TrimSpace(sub.AccountNumber),
		TransactionType: sub.Kind.TransactionType(),
		Amount:          amount,
		ByUser:          sub.Username,
		Channel:         domain.ChannelWeb,
	}

	res := Result{
		Kind:          sub.Kind,
		Amount:        amount,
		AccountNumber: in.AccountNumber,
		At:            s.now(),
	}

	tx, err := s.api.CreateTransaction(ctx, in)
	if err != nil {
		s.guard.Release(sub.Token)
		s.log.Warn().Err(err).
			Str("account", in.AccountNumber).
			Str("type", string(in.TransactionType)).
			Msg("Transaction rejected")
		res.Message = fundapi.MessageOr(err, MsgFailed)
		return res, nil
	}

	s.guard.Complete(sub.Token)
	s.log.Info().
		Str("account", in.AccountNumber).
		Str("type", string(in.TransactionType)).
		Str("amount", amount.StringFixed(2)).
		Str("by_user", in.ByUser).
		Msg("Transaction created")

	res.Success = true
	res.Message = MsgSuccess
	res.Transaction = tx
	return res, nil
}

// Account loads the selected account card.
func (s *Service) Account(ctx context.Context, id domain.ID) (domain.Account, error) {
	return s.api.GetAccount(ctx, id)
}

// SearchAccounts backs the account picker.
func (s *Service) SearchAccounts(ctx context.Context, term string) ([]domain.Account, error) {
	return s.api.SearchAccounts(ctx, term)
}

// History returns every transaction, newest first.
func (s *Service) History(ctx context.Context) ([]domain.Transaction, error) {
	txs, err := s.api.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(txs)
	return txs, nil
}

// SortNewestFirst orders by date and time, keeping API order for ties.
func SortNewestFirst(txs []domain.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].OccurredAt().After(txs[j].OccurredAt())
	})
}

// Detail loads one transaction.
func (s *Service) Detail(ctx context.Context, id domain.ID) (domain.Transaction, error) {
	return s.api.GetTransaction(ctx, id)
}

// EditForm is the edit dialog input.
type EditForm struct {
	Amount string
	Date   string
	Time   string
}

// BuildUpdate turns an edit into the PUT body. The edited amount stays on the
// side of the original: a deposit remains a deposit.
func BuildUpdate(orig domain.Transaction, form EditForm) (domain.TransactionUpdate, error) {
	if strings.TrimSpace(form.Amount) == "" {
		return domain.TransactionUpdate{}, &ValidationError{Field: "amount", Message: MsgAmountRequired}
	}
	amount, msg := ValidateAmount(form.Amount)
	if msg != "" {
		return domain.TransactionUpdate{}, &ValidationError{Field: "amount", Message: msg}
	}

	date := strings.TrimSpace(form.Date)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return domain.TransactionUpdate{}, &ValidationError{Field: "date", Message: MsgInvalidDate}
	}
	clock, err := normalizeClock(form.Time)
	if err != nil {
		return domain.TransactionUpdate{}, &ValidationError{Field: "time", Message: MsgInvalidTime}
	}

	upd := domain.TransactionUpdate{TransactionDate: date, TransactionTime: clock}
	if orig.Kind() == domain.KindWithdrawal {
		upd.Withdrawal = amount
	} else {
		upd.Deposit = amount
	}
	return upd, nil
}

func normalizeClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("invalid time %q", s)
}

// Update edits a transaction.
func (s *Service) Update(ctx context.Context, id domain.ID, form EditForm) error {
	orig, err := s.api.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	upd, err := BuildUpdate(orig, form)
	if err != nil {
		return err
	}
	if err := s.api.UpdateTransaction(ctx, id, upd); err != nil {
		return err
	}
	s.log.Info().Str("transaction_id", id.String()).Msg("Transaction updated")
	return nil
}

// Delete removes a transaction. Callers must have confirmed first.
func (s *Service) Delete(ctx context.Context, id domain.ID) error {
	if err := s.api.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("transaction_id", id.String()).Msg("Transaction deleted")
	return nil
}
