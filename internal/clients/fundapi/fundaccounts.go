package fundapi

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/puyolnw/F/internal/domain"
)

// ListFundAccounts fetches every fund-level account.
func (c *Client) ListFundAccounts(ctx context.Context) ([]domain.FundAccount, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/fundaccount", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.FundAccount](raw, "results", "accounts", "data")
}

// GetFundAccount fetches one fund account.
func (c *Client) GetFundAccount(ctx context.Context, id domain.ID) (domain.FundAccount, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/fundaccount/"+url.PathEscape(id.String()), nil, &raw); err != nil {
		return domain.FundAccount{}, err
	}
	return decodeOne[domain.FundAccount](raw, "account", "data")
}

// GetFundReport fetches the loan summary for a fund account.
func (c *Client) GetFundReport(ctx context.Context, id domain.ID) (domain.FundReport, error) {
	var report domain.FundReport
	if err := c.get(ctx, "/api/fundaccount/"+url.PathEscape(id.String())+"/report", nil, &report); err != nil {
		return domain.FundReport{}, err
	}
	return report, nil
}

// Ping checks that the API answers at all. Used by the health probe.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/api/fundaccount", nil, nil)
}
