package api

import (
	"context"

	"github.com/partstash/partstash/pkg/inventory"
)

// ListUsers returns all accounts visible to the signed-in admin,
// including one level of sub-accounts.
func (c *Client) ListUsers(ctx context.Context) ([]inventory.User, error) {
	var users []inventory.User
	if err := c.get(ctx, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser changes an account's status or pricing plan.
func (c *Client) UpdateUser(ctx context.Context, id string, fields map[string]interface{}) error {
	return c.send(ctx, "PUT", "/user/"+id, fields, nil)
}

// Tariff is one pricing tier offered by the service.
type Tariff struct {
	Name         string  `json:"name"`
	MonthlyPrice float64 `json:"monthly_price"`
	CreditsLimit int     `json:"credits_limit"`
}

// GetTariffs returns the available pricing tiers.
func (c *Client) GetTariffs(ctx context.Context) ([]Tariff, error) {
	var tariffs []Tariff
	if err := c.get(ctx, "/get_tariffs", &tariffs); err != nil {
		return nil, err
	}
	return tariffs, nil
}

// Portal is a billing-management link for the current subscription.
type Portal struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// GetSubscriptionPortals returns billing portal links.
func (c *Client) GetSubscriptionPortals(ctx context.Context) ([]Portal, error) {
	var portals []Portal
	if err := c.get(ctx, "/subscription_portals", &portals); err != nil {
		return nil, err
	}
	return portals, nil
}
