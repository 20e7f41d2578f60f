package api

import (
	"context"
	"fmt"

	"github.com/partstash/partstash/pkg/inventory"
)

// FetchBox fetches one box. With verbose set the response includes the
// box's immediate parts and child-box summaries; without it only the
// denormalized counts come back. Satisfies inventory.BoxFetcher.
func (c *Client) FetchBox(ctx context.Context, id string, verbose bool) (*inventory.Box, error) {
	path := "/box/" + id
	if verbose {
		path += "?verbose=true"
	}
	var b inventory.Box
	if err := c.get(ctx, path, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBox creates a box under a project, optionally nested inside a
// parent box.
func (c *Client) CreateBox(ctx context.Context, projectID, parentBoxID, name string) (*inventory.Box, error) {
	if name == "" {
		return nil, fmt.Errorf("box name must not be empty")
	}
	payload := map[string]string{"project_id": projectID, "name": name}
	if parentBoxID != "" {
		payload["parent_box_id"] = parentBoxID
	}
	var b inventory.Box
	if err := c.send(ctx, "POST", "/box/create", payload, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBox renames or otherwise updates a box.
func (c *Client) UpdateBox(ctx context.Context, id string, fields map[string]interface{}) error {
	return c.send(ctx, "PUT", "/box/"+id, fields, nil)
}

// DeleteBox removes a box and its entire subtree server-side.
func (c *Client) DeleteBox(ctx context.Context, id string) error {
	return c.send(ctx, "DELETE", "/box/"+id, nil, nil)
}
