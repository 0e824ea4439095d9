package loans

import (
	"context"
	"net/http"
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
	svc := NewService(fundapi.NewClient(fake.URL(), 0, zerolog.Nop()), zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2024, 4, 20, 9, 0, 0, 0, domain.Bangkok) }
	return svc, fake
}

func TestValidatePayment(t *testing.T) {
	loan := domain.Loan{RemainingBalance: domain.MustMoney("10500")}

	tests := []struct {
		raw  string
		want string
	}{
		{"", MsgAmountRequired},
		{"abc", MsgInvalidNumber},
		{"0", MsgNotPositive},
		{"10500.01", "ไม่สามารถชำระเงินเกินยอดคงเหลือ ฿10,500.00"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := ValidatePayment(loan, tt.raw)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}

	amount, err := ValidatePayment(loan, "10500")
	require.NoError(t, err)
	assert.Equal(t, "10500", amount.String())
}

func TestPay_OverpaymentMakesNoCall(t *testing.T) {
	svc, fake := newService(t)
	loans, err := svc.ActiveLoans(context.Background())
	require.NoError(t, err)
	before := fake.TotalRequests()

	msg, err := svc.Pay(context.Background(), Payment{Loan: loans[0], Amount: "999999"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, msg, "ไม่สามารถชำระเงินเกินยอดคงเหลือ")
	assert.Equal(t, before, fake.TotalRequests())
}

func TestPay_PostsFirstUpcomingInstallment(t *testing.T) {
	svc, fake := newService(t)
	ctx := context.Background()

	active, err := svc.ActiveLoans(ctx)
	require.NoError(t, err)
	upcoming, err := svc.Upcoming(ctx, active[0].ID)
	require.NoError(t, err)

	msg, err := svc.Pay(ctx, Payment{
		Loan:     active[0],
		Upcoming: upcoming,
		Amount:   "1050",
		Date:     time.Date(2024, 4, 10, 0, 0, 0, 0, domain.Bangkok),
	})
	require.NoError(t, err)
	assert.Equal(t, MsgPaid, msg)

	reqs := fake.Requests(http.MethodPost, "/api/loan/repayment")
	require.Len(t, reqs, 1)
	body := reqs[0].DecodeBody()
	assert.Equal(t, float64(1), body["loan_contract_id"])
	assert.Equal(t, float64(1050), body["amount_paid"])
	assert.Equal(t, "2024-04-10", body["payment_date"])
	assert.Equal(t, "cash", body["payment_method"])
	assert.Equal(t, float64(103), body["payment_schedule_id"])
}

func TestPay_ServerAndTransportErrors(t *testing.T) {
	svc, fake := newService(t)
	loan := domain.Loan{ID: "1", RemainingBalance: domain.MustMoney("100")}

	fake.Fail(http.MethodPost, "/api/loan/repayment", http.StatusBadRequest, "งวดนี้ชำระแล้ว")
	msg, err := svc.Pay(context.Background(), Payment{Loan: loan, Amount: "50"})
	require.Error(t, err)
	assert.Equal(t, "งวดนี้ชำระแล้ว", msg)

	offline := NewService(fundapi.NewClient("http://127.0.0.1:1", time.Second, zerolog.Nop()), zerolog.Nop())
	msg, err = offline.Pay(context.Background(), Payment{Loan: loan, Amount: "50"})
	require.Error(t, err)
	assert.Equal(t, MsgConnection, msg)
}

func TestActiveLoans_DropsRepaid(t *testing.T) {
	svc, _ := newService(t)
	active, err := svc.ActiveLoans(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, l := range active {
		assert.True(t, l.Outstanding())
	}
}

func TestHistory_NewestFirst(t *testing.T) {
	svc, _ := newService(t)
	all, err := svc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domain.ID("2"), all[0].ID)
	assert.Equal(t, domain.ID("3"), all[2].ID)
}

func TestDetail_ProgressAndOverdue(t *testing.T) {
	svc, fake := newService(t)
	fake.Loans[0].PaidInstallments = 0

	d, err := svc.Detail(context.Background(), "1")
	require.NoError(t, err)

	assert.Equal(t, 2, d.PaidCount)
	assert.Equal(t, 16, d.Progress)
	assert.Equal(t, "17.50", d.PaidRatio)
	require.Len(t, d.Schedule, 4)
	assert.Equal(t, "ชำระแล้ว", d.Schedule[0].Label)
	assert.True(t, d.Schedule[2].Overdue)
	assert.Equal(t, "เกินกำหนด", d.Schedule[2].Label)
	assert.False(t, d.Schedule[3].Overdue)
	assert.Equal(t, "รอดำเนินการ", d.Schedule[3].Label)
}

func TestDetail_NotFound(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Detail(context.Background(), "404")
	assert.ErrorIs(t, err, fundapi.ErrNotFound)
}

func TestSubmit(t *testing.T) {
	svc, fake := newService(t)

	w := NewWizard()
	assert.ErrorIs(t, svc.Submit(context.Background(), &w), ErrNotReviewed)

	w = walkToReview(t)
	require.NoError(t, svc.Submit(context.Background(), &w))
	assert.Equal(t, StepSubmitted, w.Step)
	assert.Equal(t, MsgCreated, w.Message)
	assert.Empty(t, w.Value("first_name"))
	assert.Equal(t, 1, fake.Count(http.MethodPost, "/api/loan"))

	w = walkToReview(t)
	w.Values["bank_name"] = ""
	assert.ErrorIs(t, svc.Submit(context.Background(), &w), ErrIncomplete)
	assert.Equal(t, StepFinancial, w.Step)
	assert.Equal(t, 1, fake.Count(http.MethodPost, "/api/loan"))
}

func TestUpcomingRows_Numbering(t *testing.T) {
	loan := domain.Loan{PaidInstallments: 2}
	rows := UpcomingRows(loan, testingpkg.NewScheduleFixtures()[2:], time.Date(2024, 4, 1, 0, 0, 0, 0, domain.Bangkok))
	require.Len(t, rows, 2)
	assert.Equal(t, 3, rows[0].Number)
	assert.Equal(t, 4, rows[1].Number)
	assert.Equal(t, "รอดำเนินการ", rows[0].Label)
}
