package fundapi

import (
	"context"
	"encoding/json"

	"github.com/puyolnw/F/internal/domain"
)

// ListMembers fetches the member registry.
func (c *Client) ListMembers(ctx context.Context) ([]domain.Member, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/members", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Member](raw, "results", "members", "data")
}

// CreateMember registers a member; the backend opens the member's account.
func (c *Client) CreateMember(ctx context.Context, in domain.MemberInput) error {
	return c.post(ctx, "/api/members", in, nil)
}
