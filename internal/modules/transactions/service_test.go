package transactions

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

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
	client := fundapi.NewClient(fake.URL(), 0, zerolog.Nop())
	return NewService(client, NewSubmitGuard(time.Hour), zerolog.Nop()), fake
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		message string
	}{
		{"", "0", ""},
		{"   ", "0", ""},
		{"abc", "0", MsgInvalidNumber},
		{"0", "0", MsgNotPositive},
		{"-5", "0", MsgNotPositive},
		{"100", "100", ""},
		{"1,250.50", "1250.5", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			amount, msg := ValidateAmount(tt.raw)
			assert.Equal(t, tt.message, msg)
			assert.Equal(t, tt.want, amount.String())
		})
	}
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, KindWithdraw, ParseKind("withdraw"))
	assert.Equal(t, KindDeposit, ParseKind("deposit"))
	assert.Equal(t, KindDeposit, ParseKind("bogus"))
	assert.Equal(t, domain.TransactionWithdrawal, KindWithdraw.TransactionType())
	assert.Equal(t, domain.TransactionDeposit, KindDeposit.TransactionType())
}

func TestSubmit_InvalidAmountNeverPosts(t *testing.T) {
	svc, fake := newService(t)

	for _, raw := range []string{"", "abc", "0", "-1"} {
		_, err := svc.Submit(context.Background(), Submission{
			Token:         NewToken(),
			Kind:          KindDeposit,
			AccountNumber: "0001234567",
			Amount:        raw,
			Username:      "admin",
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, raw)
		assert.Equal(t, "amount", verr.Field)
	}

	assert.Equal(t, 0, fake.Count(http.MethodPost, "/api/transactions"))
}

func TestSubmit_RequiresAccountAndUser(t *testing.T) {
	svc, fake := newService(t)

	_, err := svc.Submit(context.Background(), Submission{Token: NewToken(), Amount: "100", Username: "admin"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgSelectAccount, verr.Message)

	_, err = svc.Submit(context.Background(), Submission{Token: NewToken(), AccountNumber: "0001234567", Amount: "100"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgNoUser, verr.Message)

	assert.Equal(t, 0, fake.TotalRequests())
}

func TestSubmit_ValidDepositPostsOnce(t *testing.T) {
	svc, fake := newService(t)

	res, err := svc.Submit(context.Background(), Submission{
		Token:         NewToken(),
		Kind:          KindDeposit,
		AccountNumber: "0001234567",
		Amount:        "500",
		Username:      "admin",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, MsgSuccess, res.Message)

	reqs := fake.Requests(http.MethodPost, "/api/transactions")
	require.Len(t, reqs, 1)
	body := reqs[0].DecodeBody()
	assert.Equal(t, "0001234567", body["account_number"])
	assert.Equal(t, "deposit", body["transaction_type"])
	assert.Equal(t, float64(500), body["amount"])
	assert.Equal(t, "admin", body["by_user"])
	assert.Equal(t, "web", body["channel"])
}

func TestSubmit_SameTokenPostsOnce(t *testing.T) {
	svc, fake := newService(t)
	sub := Submission{
		Token:         NewToken(),
		Kind:          KindWithdraw,
		AccountNumber: "0001234567",
		Amount:        "100",
		Username:      "admin",
	}

	_, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), sub)
	assert.ErrorIs(t, err, ErrDuplicateSubmit)

	assert.Equal(t, 1, fake.Count(http.MethodPost, "/api/transactions"))
}

func TestSubmit_ServerMessageSurfaces(t *testing.T) {
	svc, fake := newService(t)
	sub := Submission{
		Token:         NewToken(),
		Kind:          KindWithdraw,
		AccountNumber: "0001234567",
		Amount:        "999999",
		Username:      "admin",
	}

	res, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "ยอดเงินในบัญชีไม่เพียงพอ", res.Message)

	// A failed call frees the token for a retry.
	fake.Fail(http.MethodPost, "/api/transactions", http.StatusInternalServerError, "")
	res, err = svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, MsgFailed, res.Message)
	assert.Equal(t, 2, fake.Count(http.MethodPost, "/api/transactions"))
}

func TestSubmitGuard_Expiry(t *testing.T) {
	g := NewSubmitGuard(time.Minute)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	assert.False(t, g.Acquire(""))
	require.True(t, g.Acquire("a"))
	assert.False(t, g.Acquire("a"))
	g.Complete("a")
	assert.False(t, g.Acquire("a"))

	now = now.Add(2 * time.Minute)
	assert.True(t, g.Acquire("a"))

	g.Release("a")
	assert.True(t, g.Acquire("a"))
}

func TestReadSlip(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n" + strings.Repeat("\x00", 32))
	slip, err := ReadSlip("slip.png", bytes.NewReader(png))
	require.NoError(t, err)
	assert.Equal(t, "image/png", slip.ContentType)
	assert.True(t, strings.HasPrefix(slip.DataURL, "data:image/png;base64,"))

	_, err = ReadSlip("notes.txt", strings.NewReader("hello world"))
	assert.ErrorIs(t, err, ErrSlipNotImage)

	big := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, MaxSlipBytes)...)
	_, err = ReadSlip("big.png", bytes.NewReader(big))
	assert.ErrorIs(t, err, ErrSlipTooLarge)
}

func TestBuildUpdate_KeepsSide(t *testing.T) {
	deposit := domain.Transaction{Deposit: domain.MustMoney("100")}
	withdrawal := domain.Transaction{Withdrawal: domain.MustMoney("100")}
	form := EditForm{Amount: "250", Date: "2024-03-01", Time: "09:30"}

	upd, err := BuildUpdate(deposit, form)
	require.NoError(t, err)
	assert.Equal(t, "250", upd.Deposit.String())
	assert.True(t, upd.Withdrawal.IsZero())
	assert.Equal(t, "09:30:00", upd.TransactionTime)

	upd, err = BuildUpdate(withdrawal, form)
	require.NoError(t, err)
	assert.Equal(t, "250", upd.Withdrawal.String())
	assert.True(t, upd.Deposit.IsZero())

	_, err = BuildUpdate(deposit, EditForm{Amount: "250", Date: "01/03/2024", Time: "09:30"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgInvalidDate, verr.Message)
}

func TestHistory_NewestFirst(t *testing.T) {
	svc, _ := newService(t)
	txs, err := svc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 4)
	assert.Equal(t, domain.ID("13"), txs[0].ID)
	assert.Equal(t, domain.ID("10"), txs[3].ID)
}

func TestUpdateAndDelete(t *testing.T) {
	svc, fake := newService(t)

	require.NoError(t, svc.Update(context.Background(), "12", EditForm{Amount: "600", Date: "2024-02-11", Time: "10:00"}))
	reqs := fake.Requests(http.MethodPut, "/api/transactions/12")
	require.Len(t, reqs, 1)
	body := reqs[0].DecodeBody()
	assert.Equal(t, float64(600), body["withdrawal"])
	assert.Equal(t, float64(0), body["deposit"])

	require.NoError(t, svc.Delete(context.Background(), "12"))
	_, err := svc.Detail(context.Background(), "12")
	assert.ErrorIs(t, err, fundapi.ErrNotFound)
}
