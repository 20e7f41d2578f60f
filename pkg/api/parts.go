package api

import (
	"context"

	"github.com/partstash/partstash/pkg/inventory"
)

// GetPart fetches one part with its images and both content layers.
func (c *Client) GetPart(ctx context.Context, id string) (*inventory.Part, error) {
	var p inventory.Part
	if err := c.get(ctx, "/part/"+id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveManualContent writes the manual override layer and marks the part
// reviewed. Callers must check Part.NeedsManualSave first; content equal
// to the generated layer is a no-op and should never reach the wire.
func (c *Client) SaveManualContent(ctx context.Context, id string, manual map[string]string) error {
	payload := map[string]interface{}{
		"manualContent": manual,
		"review_status": inventory.ReviewDone,
	}
	return c.send(ctx, "PUT", "/part/"+id, payload, nil)
}

// SetReviewStatus moves a part to the given review state without
// touching its content.
func (c *Client) SetReviewStatus(ctx context.Context, id, status string) error {
	return c.send(ctx, "PUT", "/part/"+id, map[string]interface{}{"review_status": status}, nil)
}

// UpdatePart updates arbitrary descriptive fields on a part.
func (c *Client) UpdatePart(ctx context.Context, id string, fields map[string]interface{}) error {
	return c.send(ctx, "PUT", "/part/"+id, fields, nil)
}

// DeletePart removes a part.
func (c *Client) DeletePart(ctx context.Context, id string) error {
	return c.send(ctx, "DELETE", "/part/"+id, nil, nil)
}
