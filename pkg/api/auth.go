package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/partstash/partstash/pkg/session"
)

type signinResponse struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

// SignIn exchanges credentials for a bearer token and persists the
// session on success.
func (c *Client) SignIn(ctx context.Context, username, password string) (*session.User, error) {
	payload := map[string]string{"username": username, "password": password}
	res, err := c.do(ctx, "POST", "/user/signin", payload, true)
	if err != nil {
		return nil, err
	}

	var sr signinResponse
	if err := json.Unmarshal([]byte(res.BodyString), &sr); err != nil {
		return nil, fmt.Errorf("malformed signin response: %w", err)
	}
	if sr.Token == "" {
		return nil, fmt.Errorf("signin response missing token")
	}
	if err := c.Session.Save(sr.User, sr.Token); err != nil {
		return nil, err
	}
	return &sr.User, nil
}

// Register creates an account. When parentUserID is set the new account
// is a sub-account of that user. The request goes out without the
// Authorization header regardless of any stored session.
func (c *Client) Register(ctx context.Context, username, password, parentUserID string) error {
	payload := map[string]string{"username": username, "password": password}
	if parentUserID != "" {
		payload["parent_user_id"] = parentUserID
	}
	_, err := c.do(ctx, "POST", "/user", payload, false)
	return err
}

// VerifyAccount confirms a pending registration with the emailed code.
func (c *Client) VerifyAccount(ctx context.Context, code string) error {
	return c.send(ctx, "POST", "/verify_account", map[string]string{"code": code}, nil)
}

// RequestPasswordReset starts the dual-purpose reset flow.
func (c *Client) RequestPasswordReset(ctx context.Context, username string) error {
	payload := map[string]string{"requestType": "request", "username": username}
	return c.send(ctx, "POST", "/reset_password", payload, nil)
}

// UpdatePassword completes the reset flow with the token from the email.
func (c *Client) UpdatePassword(ctx context.Context, resetToken, newPassword string) error {
	payload := map[string]string{"requestType": "update", "token": resetToken, "password": newPassword}
	return c.send(ctx, "POST", "/reset_password", payload, nil)
}

// Access describes the current account's entitlements and credit usage.
type Access struct {
	PricingPlan  string `json:"pricing_plan"`
	CreditsUsed  int    `json:"credits_used"`
	CreditsLimit int    `json:"credits_limit"`
	IsViewOnly   bool   `json:"is_view_only"`
}

// GetUserAccess returns the signed-in account's entitlements.
func (c *Client) GetUserAccess(ctx context.Context) (*Access, error) {
	var a Access
	if err := c.get(ctx, "/get_user_access", &a); err != nil {
		return nil, err
	}
	return &a, nil
}
