package fundaccounts

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puyolnw/F/internal/clients/fundapi"
	"github.com/puyolnw/F/internal/domain"
	testingpkg "github.com/puyolnw/F/internal/testing"
)

func newService(t *testing.T) (*Service, *testingpkg.FakeFundAPI) {
	t.Helper()
	fake := testingpkg.NewFakeFundAPI(t)
	return NewService(fundapi.NewClient(fake.URL(), 0, zerolog.Nop()), zerolog.Nop()), fake
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("loan_pool")
	assert.True(t, ok)
	assert.Equal(t, domain.FundLoanPool, k)

	_, ok = ParseKind("other")
	assert.False(t, ok)
}

func TestCards_ResolveKinds(t *testing.T) {
	svc, _ := newService(t)
	cards, err := svc.Cards(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, domain.FundMain, cards[0].Kind)
	assert.Equal(t, domain.FundSavings, cards[1].Kind)
	assert.Equal(t, domain.FundLoanPool, cards[2].Kind)
}

func TestResolve_PrefersTypeField(t *testing.T) {
	svc, fake := newService(t)
	// The loan pool moved to id 7 but still says what it is.
	fake.Funds[2].ID = "7"

	account, err := svc.Resolve(context.Background(), domain.FundLoanPool)
	require.NoError(t, err)
	assert.Equal(t, domain.ID("7"), account.ID)
	assert.Equal(t, 1, fake.Count(http.MethodGet, "/api/fundaccount/7"))
}

func TestResolve_UnknownKind(t *testing.T) {
	svc, fake := newService(t)
	fake.Funds = fake.Funds[:1]

	_, err := svc.Resolve(context.Background(), domain.FundLoanPool)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestSavings_SumsMemberBalances(t *testing.T) {
	svc, _ := newService(t)

	view, err := svc.Savings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "18250.5", view.Total.String())
	assert.Equal(t, 3, view.Accounts)
	require.Len(t, view.Transactions, 4)
	assert.Equal(t, domain.ID("13"), view.Transactions[0].ID)
	assert.Equal(t, domain.ID("2"), view.Account.ID)
}

func TestSavings_TransactionFailure(t *testing.T) {
	svc, fake := newService(t)
	fake.Fail(http.MethodGet, "/api/transactions", http.StatusInternalServerError, "")

	_, err := svc.Savings(context.Background())
	assert.Error(t, err)
}

func TestLoanPool(t *testing.T) {
	svc, _ := newService(t)

	pool, err := svc.LoanPool(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ID("4"), pool.Account.ID)
	assert.Equal(t, domain.Count(3), pool.Report.TotalLoans)
	assert.Equal(t, domain.Count(1), pool.Report.OverdueLoans)
	assert.Equal(t, "21000", pool.Report.TotalAmount.String())
}
