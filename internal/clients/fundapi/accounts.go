package fundapi

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/puyolnw/F/internal/domain"
)

// searchResponse is the envelope served by /api/accounts/search.
type searchResponse struct {
	Success bool             `json:"success"`
	Results []domain.Account `json:"results"`
	Message string           `json:"message"`
}

// GetAccount fetches one member account by id.
func (c *Client) GetAccount(ctx context.Context, id domain.ID) (domain.Account, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/accounts/"+url.PathEscape(id.String()), nil, &raw); err != nil {
		return domain.Account{}, err
	}
	return decodeOne[domain.Account](raw, "account", "data")
}

// SearchAccounts runs the backend's account search (name or number).
func (c *Client) SearchAccounts(ctx context.Context, term string) ([]domain.Account, error) {
	var resp searchResponse
	if err := c.get(ctx, "/api/accounts/search", url.Values{"term": {term}}, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return []domain.Account{}, nil
	}
	return resp.Results, nil
}

// ListAccounts fetches every member account.
func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/accounts", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Account](raw, "results", "accounts", "data")
}
