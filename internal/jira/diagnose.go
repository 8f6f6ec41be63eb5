package jira

import (
	"context"
	"fmt"
)

// Diagnostics describes what a project and the instance expose. It helps
// when Discover finds nothing: the issue type list shows which label to pass
// with --label.
type Diagnostics struct {
	Project    *Project
	Statuses   []IssueTypeStatuses
	IssueTypes []IssueTypeDescriptor
}

// Diagnose fetches the project, its per-type statuses, and the instance's
// issue types. Statuses are best effort: a failure there leaves Statuses nil.
func (c *Client) Diagnose(ctx context.Context, projectKey string) (*Diagnostics, error) {
	project, err := c.GetProject(ctx, projectKey)
	if err != nil {
		return nil, fmt.Errorf("fetching project %s: %w", projectKey, err)
	}

	diag := &Diagnostics{Project: project}

	statuses, err := c.GetProjectStatuses(ctx, projectKey)
	if err != nil {
		c.logger.Debug("fetching project statuses failed", "project", projectKey, "error", err)
	} else {
		diag.Statuses = statuses
	}

	types, err := c.IssueTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing issue types: %w", err)
	}
	diag.IssueTypes = types

	return diag, nil
}
