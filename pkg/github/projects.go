package github

import (
	"context"

	"github.com/felixgeelhaar/ghprojects/pkg/domain/projects"
	"github.com/felixgeelhaar/ghprojects/pkg/graphql"
)

// OrganizationProjects lists an organization's projects. first is clamped
// to GitHub's [1,100] pagination bounds; after is an optional cursor.
func (c *Client) OrganizationProjects(ctx context.Context, login string, first int, after string) (*projects.ProjectConnection, error) {
	vars := map[string]any{"login": login, "first": clampPageSize(first)}
	if after != "" {
		vars["after"] = after
	}
	var resp struct {
		Organization struct {
			ProjectsV2 projects.ProjectConnection `json:"projectsV2"`
		} `json:"organization"`
	}
	if err := c.execute(ctx, graphql.Request{
		Query:         queryOrganizationProjects,
		Variables:     vars,
		OperationName: "GetOrgProjects",
	}, &resp); err != nil {
		return nil, err
	}
	return &resp.Organization.ProjectsV2, nil
}

// UserProjects lists a user's projects with the same pagination rules as
// OrganizationProjects.
func (c *Client) UserProjects(ctx context.Context, login string, first int, after string) (*projects.ProjectConnection, error) {
	vars := map[string]any{"login": login, "first": clampPageSize(first)}
	if after != "" {
		vars["after"] = after
	}
	var resp struct {
		User struct {
			ProjectsV2 projects.ProjectConnection `json:"projectsV2"`
		} `json:"user"`
	}
	if err := c.execute(ctx, graphql.Request{
		Query:         queryUserProjects,
		Variables:     vars,
		OperationName: "GetUserProjects",
	}, &resp); err != nil {
		return nil, err
	}
	return &resp.User.ProjectsV2, nil
}

// Project fetches a single project by its node ID.
func (c *Client) Project(ctx context.Context, projectID string) (*projects.Project, error) {
	var resp struct {
		Node projects.Project `json:"node"`
	}
	if err := c.execute(ctx, graphql.Request{
		Query:         queryProject,
		Variables:     map[string]any{"id": projectID},
		OperationName: "GetProject",
	}, &resp); err != nil {
		return nil, err
	}
	return &resp.Node, nil
}

// CreateProject creates a project under the given owner (organization or
// user node ID). description may be empty.
func (c *Client) CreateProject(ctx context.Context, ownerID, title, description string) (*projects.Project, error) {
	vars := map[string]any{"ownerId": ownerID, "title": title}
	if description != "" {
		vars["description"] = description
	}
	var resp struct {
		CreateProjectV2 struct {
			ProjectV2 projects.Project `json:"projectV2"`
		} `json:"createProjectV2"`
	}
	if err := c.execute(ctx, graphql.Request{
		Query:         mutationCreateProject,
		Variables:     vars,
		OperationName: "CreateProject",
	}, &resp); err != nil {
		return nil, err
	}
	return &resp.CreateProjectV2.ProjectV2, nil
}

// ProjectUpdate holds the optional fields of an UpdateProject call. Nil
// members are left untouched on the remote project.
type ProjectUpdate struct {
	Title       *string
	Description *string
	Readme      *string
	Public      *bool
}

// UpdateProject applies the non-nil fields of update to a project.
func (c *Client) UpdateProject(ctx context.Context, projectID string, update ProjectUpdate) (*projects.Project, error) {
	vars := map[string]any{"projectId": projectID}
	if update.Title != nil {
		vars["title"] = *update.Title
	}
	if update.Description != nil {
		vars["description"] = *update.Description
	}
	if update.Readme != nil {
		vars["readme"] = *update.Readme
	}
	if update.Public != nil {
		vars["public"] = *update.Public
	}
	var resp struct {
		UpdateProjectV2 struct {
			ProjectV2 projects.Project `json:"projectV2"`
		} `json:"updateProjectV2"`
	}
	if err := c.execute(ctx, graphql.Request{
		Query:         mutationUpdateProject,
		Variables:     vars,
		OperationName: "UpdateProject",
	}, &resp); err != nil {
		return nil, err
	}
	return &resp.UpdateProjectV2.ProjectV2, nil
}

// DeleteProject deletes a project and returns the deleted project's ID.
func (c *Client) DeleteProject(ctx context.Context, projectID string) (string, error) {
	var resp struct {
		DeleteProjectV2 struct {
			ProjectV2 struct {
				ID string `json:"id"`
			} `json:"projectV2"`
		} `json:"deleteProjectV2"`
	}
	if err := c.execute(ctx, graphql.Request{
		Query:         mutationDeleteProject,
		Variables:     map[string]any{"projectId": projectID},
		OperationName: "DeleteProject",
	}, &resp); err != nil {
		return "", err
	}
	return resp.DeleteProjectV2.ProjectV2.ID, nil
}
