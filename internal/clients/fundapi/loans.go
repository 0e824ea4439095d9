package fundapi

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/puyolnw/F/internal/domain"
)

// ListLoans fetches every loan contract.
func (c *Client) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/loan", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Loan](raw, "results", "loans", "data")
}

// CreateLoan submits a new loan contract.
func (c *Client) CreateLoan(ctx context.Context, in domain.LoanInput) error {
	return c.post(ctx, "/api/loan", in, nil)
}

// GetLoan fetches one loan contract.
func (c *Client) GetLoan(ctx context.Context, id domain.ID) (domain.Loan, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/loan/"+url.PathEscape(id.String()), nil, &raw); err != nil {
		return domain.Loan{}, err
	}
	return decodeOne[domain.Loan](raw, "loan", "data")
}

// ListLoanPayments fetches the full payment schedule of a loan.
func (c *Client) ListLoanPayments(ctx context.Context, id domain.ID) ([]domain.PaymentScheduleEntry, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/loan/"+url.PathEscape(id.String())+"/payments", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.PaymentScheduleEntry](raw, "payments", "payment_schedule", "data")
}

// ListUpcomingPayments fetches the unpaid installments of a loan, next due first.
func (c *Client) ListUpcomingPayments(ctx context.Context, id domain.ID) ([]domain.PaymentScheduleEntry, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/loan/"+url.PathEscape(id.String())+"/upcoming-payments", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.PaymentScheduleEntry](raw, "payments", "upcoming", "data")
}

// CreateRepayment records a repayment against a loan installment.
func (c *Client) CreateRepayment(ctx context.Context, in domain.RepaymentInput) error {
	return c.post(ctx, "/api/loan/repayment", in, nil)
}
