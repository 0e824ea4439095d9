package fundapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/puyolnw/F/internal/domain"
)

// ListTransactions fetches the full transaction history.
func (c *Client) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/transactions", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Transaction](raw, "results", "transactions", "data")
}

// GetTransaction fetches one transaction.
func (c *Client) GetTransaction(ctx context.Context, id domain.ID) (domain.Transaction, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/transactions/"+url.PathEscape(id.String()), nil, &raw); err != nil {
		return domain.Transaction{}, err
	}
	return decodeOne[domain.Transaction](raw, "transaction", "data")
}

// CreateTransaction posts a deposit or withdrawal.
func (c *Client) CreateTransaction(ctx context.Context, in domain.TransactionInput) (domain.Transaction, error) {
	var raw json.RawMessage
	if err := c.post(ctx, "/api/transactions", in, &raw); err != nil {
		return domain.Transaction{}, err
	}
	tx, err := decodeOne[domain.Transaction](raw, "transaction", "data")
	if errors.Is(err, ErrNotFound) {
		return domain.Transaction{}, nil
	}
	return tx, err
}

// UpdateTransaction edits amounts and timestamp of a transaction.
func (c *Client) UpdateTransaction(ctx context.Context, id domain.ID, in domain.TransactionUpdate) error {
	return c.put(ctx, "/api/transactions/"+url.PathEscape(id.String()), in, nil)
}

// DeleteTransaction removes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id domain.ID) error {
	return c.delete(ctx, "/api/transactions/"+url.PathEscape(id.String()), nil)
}

// ListAccountTransactions fetches the history of one account by number.
func (c *Client) ListAccountTransactions(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	var raw json.RawMessage
	path := "/api/transactions/accounts/" + url.PathEscape(accountNumber) + "/transactions"
	if err := c.get(ctx, path, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Transaction](raw, "results", "transactions", "data")
}
