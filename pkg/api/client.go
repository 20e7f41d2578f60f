package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/partstash/partstash/internal/utils"
	"github.com/partstash/partstash/pkg/session"
	"github.com/partstash/partstash/pkg/whttp"
)

var (
	// ErrUnauthorized is returned on any 401. The session store has
	// already been cleared by the time callers see it.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned on 404 responses.
	ErrNotFound = errors.New("not found")
)

// Client is the uniform façade over the inventory REST API. Every request
// carries the bearer token from the session store, except registration,
// which must go out unauthenticated.
type Client struct {
	BaseURL string
	HTTP    *retryablehttp.Client
	Session *session.Store
}

// NewClient builds a client against baseURL using the shared transport.
func NewClient(baseURL string, sess *session.Store) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    whttp.GetDefaultClient(),
		Session: sess,
	}
}

// do shapes and sends one API request. A 401 on any call clears the
// persisted session so subsequent protected commands force a re-login.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}, withAuth bool) (*whttp.WHTTPRes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var body []byte
	headers := []whttp.WHTTPHeader{}
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		headers = append(headers, whttp.WHTTPHeader{Name: "Content-Type", Value: "application/json"})
	}
	if withAuth {
		if token := c.Session.Token(); token != "" {
			headers = append(headers, whttp.WHTTPHeader{Name: "Authorization", Value: "Bearer " + token})
		}
	}

	res, err := whttp.SendHTTPRequest(&whttp.WHTTPReq{
		Method:  method,
		URL:     c.BaseURL + path,
		Body:    body,
		Headers: headers,
	}, c.HTTP)
	if err != nil {
		return nil, err
	}

	switch {
	case res.StatusCode == 401:
		utils.Log.Debug("Got 401 from ", path, ", clearing stored session")
		c.Session.Clear()
		return nil, ErrUnauthorized
	case res.StatusCode == 404:
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	case res.StatusCode >= 400:
		if res.HTTPTitle != "" {
			return nil, fmt.Errorf("%s %s failed with status %d (%s)", method, path, res.StatusCode, res.HTTPTitle)
		}
		return nil, fmt.Errorf("%s %s failed with status %d", method, path, res.StatusCode)
	}

	return res, nil
}

// get issues an authenticated GET and unmarshals the response into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	res, err := c.do(ctx, "GET", path, nil, true)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(res.BodyString), out)
}

// send issues an authenticated request with a JSON payload, optionally
// decoding the response.
func (c *Client) send(ctx context.Context, method, path string, payload, out interface{}) error {
	res, err := c.do(ctx, method, path, payload, true)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(res.BodyString), out)
}
