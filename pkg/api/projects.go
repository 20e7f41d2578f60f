package api

import (
	"context"
	"fmt"

	"github.com/partstash/partstash/pkg/inventory"
)

// ListProjects returns all projects visible to the signed-in user.
func (c *Client) ListProjects(ctx context.Context) ([]inventory.Project, error) {
	var projects []inventory.Project
	if err := c.get(ctx, "/user/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches one project with its top-level box summaries.
func (c *Client) GetProject(ctx context.Context, id string) (*inventory.Project, error) {
	var p inventory.Project
	if err := c.get(ctx, "/project/"+id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject creates a named project. The name must be validated
// non-empty before calling.
func (c *Client) CreateProject(ctx context.Context, name string) (*inventory.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("project name must not be empty")
	}
	var p inventory.Project
	if err := c.send(ctx, "POST", "/project/create", map[string]string{"name": name}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProject renames or otherwise updates a project.
func (c *Client) UpdateProject(ctx context.Context, id string, fields map[string]interface{}) error {
	return c.send(ctx, "PUT", "/project/"+id, fields, nil)
}

// DeleteProject removes a project and everything in it.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.send(ctx, "DELETE", "/project/"+id, nil, nil)
}

// ListAllParts returns every part across a project's whole box tree,
// flattened. Used by the table views and the snapshot cache.
func (c *Client) ListAllParts(ctx context.Context, projectID string) ([]inventory.Part, error) {
	var parts []inventory.Part
	if err := c.get(ctx, "/project/"+projectID+"/allparts", &parts); err != nil {
		return nil, err
	}
	return parts, nil
}
