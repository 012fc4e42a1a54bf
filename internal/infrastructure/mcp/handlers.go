package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/ghprojects/pkg/github"
)

type OrgProjectsArgs struct {
	OrgLogin string `json:"org_login" jsonschema:"description=Organization login name"`
	First    int    `json:"first,omitempty" jsonschema:"description=Number of projects to retrieve (default 20, max 100)"`
	After    string `json:"after,omitempty" jsonschema:"description=Pagination cursor from a previous page"`
}

func (s *Server) handleGetOrganizationProjects(ctx context.Context, args OrgProjectsArgs) (any, error) {
	if args.First == 0 {
		args.First = 20
	}
	conn, err := s.client.OrganizationProjects(ctx, args.OrgLogin, args.First, args.After)
	if err != nil {
		return nil, s.toolError("get_organization_projects", err)
	}
	return conn, nil
}

type UserProjectsArgs struct {
	UserLogin string `json:"user_login" jsonschema:"description=User login name"`
	First     int    `json:"first,omitempty" jsonschema:"description=Number of projects to retrieve (default 20, max 100)"`
	After     string `json:"after,omitempty" jsonschema:"description=Pagination cursor from a previous page"`
}

func (s *Server) handleGetUserProjects(ctx context.Context, args UserProjectsArgs) (any, error) {
	if args.First == 0 {
		args.First = 20
	}
	conn, err := s.client.UserProjects(ctx, args.UserLogin, args.First, args.After)
	if err != nil {
		return nil, s.toolError("get_user_projects", err)
	}
	return conn, nil
}

type ProjectArgs struct {
	ProjectID string `json:"project_id" jsonschema:"description=GitHub project node ID"`
}

func (s *Server) handleGetProject(ctx context.Context, args ProjectArgs) (any, error) {
	project, err := s.client.Project(ctx, args.ProjectID)
	if err != nil {
		return nil, s.toolError("get_project", err)
	}
	return project, nil
}

type ProjectItemsArgs struct {
	ProjectID string `json:"project_id" jsonschema:"description=GitHub project node ID"`
	First     int    `json:"first,omitempty" jsonschema:"description=Number of items to retrieve (default 50, max 100)"`
	After     string `json:"after,omitempty" jsonschema:"description=Pagination cursor from a previous page"`
}

func (s *Server) handleGetProjectItems(ctx context.Context, args ProjectItemsArgs) (any, error) {
	if args.First == 0 {
		args.First = 50
	}
	conn, err := s.client.ProjectItems(ctx, args.ProjectID, args.First, args.After)
	if err != nil {
		return nil, s.toolError("get_project_items", err)
	}
	return conn, nil
}

type ProjectItemsAdvancedArgs struct {
	ProjectID       string         `json:"project_id" jsonschema:"description=GitHub project node ID"`
	First           int            `json:"first,omitempty" jsonschema:"description=Number of items to retrieve (default 50, max 100)"`
	After           string         `json:"after,omitempty" jsonschema:"description=Pagination cursor from a previous page"`
	CustomFields    string         `json:"custom_fields,omitempty" jsonschema:"description=Custom GraphQL field selection for each item node"`
	CustomFilters   string         `json:"custom_filters,omitempty" jsonschema:"description=Extra arguments for the items connection (e.g. orderBy)"`
	CustomVariables map[string]any `json:"custom_variables,omitempty" jsonschema:"description=Extra query variables referenced by custom fields or filters"`
}

func (s *Server) handleGetProjectItemsAdvanced(ctx context.Context, args ProjectItemsAdvancedArgs) (any, error) {
	if args.First == 0 {
		args.First = 50
	}
	raw, err := s.client.ProjectItemsAdvanced(ctx, args.ProjectID, github.AdvancedItemsOptions{
		First:           args.First,
		After:           args.After,
		CustomFields:    args.CustomFields,
		CustomFilters:   args.CustomFilters,
		CustomVariables: args.CustomVariables,
	})
	if err != nil {
		return nil, s.toolError("get_project_items_advanced", err)
	}
	return json.RawMessage(raw), nil
}

func (s *Server) handleGetProjectFields(ctx context.Context, args ProjectArgs) (any, error) {
	fields, err := s.client.ProjectFields(ctx, args.ProjectID)
	if err != nil {
		return nil, s.toolError("get_project_fields", err)
	}
	return fields, nil
}

type CustomQueryArgs struct {
	Query     string         `json:"query" jsonschema:"description=Read-only GraphQL query document"`
	Variables map[string]any `json:"variables,omitempty" jsonschema:"description=Query variables"`
}

func (s *Server) handleExecuteCustomQuery(ctx context.Context, args CustomQueryArgs) (any, error) {
	raw, err := s.client.ExecuteQuery(ctx, args.Query, args.Variables)
	if err != nil {
		return nil, s.toolError("execute_custom_query", err)
	}
	return json.RawMessage(raw), nil
}

type AddItemArgs struct {
	ProjectID string `json:"project_id" jsonschema:"description=GitHub project node ID"`
	ContentID string `json:"content_id" jsonschema:"description=Node ID of the issue or pull request to add"`
}

func (s *Server) handleAddItemToProject(ctx context.Context, args AddItemArgs) (any, error) {
	itemID, err := s.client.AddItem(ctx, args.ProjectID, args.ContentID)
	if err != nil {
		return nil, s.toolError("add_item_to_project", err)
	}
	return map[string]string{"id": itemID}, nil
}

type UpdateItemFieldArgs struct {
	ProjectID string `json:"project_id" jsonschema:"description=GitHub project node ID"`
	ItemID    string `json:"item_id" jsonschema:"description=Project item node ID"`
	FieldID   string `json:"field_id" jsonschema:"description=Field node ID to update"`
	Value     any    `json:"value" jsonschema:"description=New value: a string, a number, or a ProjectV2FieldValueInput object"`
}

func (s *Server) handleUpdateItemFieldValue(ctx context.Context, args UpdateItemFieldArgs) (any, error) {
	itemID, err := s.client.UpdateItemField(ctx, args.ProjectID, args.ItemID, args.FieldID, args.Value)
	if err != nil {
		return nil, s.toolError("update_item_field_value", err)
	}
	return map[string]string{"id": itemID}, nil
}

type RemoveItemArgs struct {
	ProjectID string `json:"project_id" jsonschema:"description=GitHub project node ID"`
	ItemID    string `json:"item_id" jsonschema:"description=Project item node ID to remove"`
}

func (s *Server) handleRemoveItemFromProject(ctx context.Context, args RemoveItemArgs) (any, error) {
	deletedID, err := s.client.RemoveItem(ctx, args.ProjectID, args.ItemID)
	if err != nil {
		return nil, s.toolError("remove_item_from_project", err)
	}
	return map[string]string{"deleted_item_id": deletedID}, nil
}

func (s *Server) handleArchiveItem(ctx context.Context, args RemoveItemArgs) (any, error) {
	item, err := s.client.ArchiveItem(ctx, args.ProjectID, args.ItemID)
	if err != nil {
		return nil, s.toolError("archive_item", err)
	}
	return item, nil
}

type CreateProjectArgs struct {
	OwnerID     string `json:"owner_id" jsonschema:"description=Node ID of the owning organization or user"`
	Title       string `json:"title" jsonschema:"description=Project title"`
	Description string `json:"description,omitempty" jsonschema:"description=Optional project description"`
}

func (s *Server) handleCreateProject(ctx context.Context, args CreateProjectArgs) (any, error) {
	project, err := s.client.CreateProject(ctx, args.OwnerID, args.Title, args.Description)
	if err != nil {
		return nil, s.toolError("create_project", err)
	}
	return project, nil
}

type UpdateProjectArgs struct {
	ProjectID   string  `json:"project_id" jsonschema:"description=GitHub project node ID"`
	Title       *string `json:"title,omitempty" jsonschema:"description=New project title"`
	Description *string `json:"description,omitempty" jsonschema:"description=New project description"`
	Readme      *string `json:"readme,omitempty" jsonschema:"description=New project readme"`
	Public      *bool   `json:"public,omitempty" jsonschema:"description=Whether the project should be public"`
}

func (s *Server) handleUpdateProject(ctx context.Context, args UpdateProjectArgs) (any, error) {
	project, err := s.client.UpdateProject(ctx, args.ProjectID, github.ProjectUpdate{
		Title:       args.Title,
		Description: args.Description,
		Readme:      args.Readme,
		Public:      args.Public,
	})
	if err != nil {
		return nil, s.toolError("update_project", err)
	}
	return project, nil
}

func (s *Server) handleDeleteProject(ctx context.Context, args ProjectArgs) (any, error) {
	deletedID, err := s.client.DeleteProject(ctx, args.ProjectID)
	if err != nil {
		return nil, s.toolError("delete_project", err)
	}
	return map[string]string{"id": deletedID}, nil
}

func (s *Server) handleGetRateLimit(ctx context.Context, args struct{}) (any, error) {
	viewer, limit, err := s.client.RateLimit(ctx)
	if err != nil {
		return nil, s.toolError("get_rate_limit", err)
	}
	return map[string]any{"viewer": viewer, "rate_limit": limit}, nil
}

type ResolveContentArgs struct {
	Owner  string `json:"owner" jsonschema:"description=Repository owner"`
	Repo   string `json:"repo" jsonschema:"description=Repository name"`
	Number int    `json:"number" jsonschema:"description=Issue or pull request number"`
	Type   string `json:"type,omitempty" jsonschema:"description=Content type: issue (default) or pull_request"`
}

func (s *Server) handleResolveContentID(ctx context.Context, args ResolveContentArgs) (any, error) {
	var (
		nodeID string
		err    error
	)
	switch args.Type {
	case "", "issue":
		nodeID, err = s.client.ResolveIssueID(ctx, args.Owner, args.Repo, args.Number)
	case "pull_request":
		nodeID, err = s.client.ResolvePullRequestID(ctx, args.Owner, args.Repo, args.Number)
	default:
		return nil, fmt.Errorf("unsupported content type %q: must be issue or pull_request", args.Type)
	}
	if err != nil {
		return nil, s.toolError("resolve_content_id", err)
	}
	return map[string]string{"content_id": nodeID}, nil
}
