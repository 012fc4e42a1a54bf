package github

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/ghprojects/pkg/domain/projects"
	"github.com/felixgeelhaar/ghprojects/pkg/graphql"
)

// ProjectItems lists the items of a project with their content and field
// values. first is clamped to [1,100]; after is an optional cursor.
func (c *Client) ProjectItems(ctx context.Context, projectID string, first int, after string) (*projects.ItemConnection, error) {
	raw, err := c.projectItemsRaw(ctx, projectID, first, after)
	if err != nil {
		return nil, err
	}
	var conn projects.ItemConnection
	if err := json.Unmarshal(raw, &conn); err != nil {
		return nil, fmt.Errorf("decode project items: %w", err)
	}
	return &conn, nil
}

func (c *Client) projectItemsRaw(ctx context.Context, projectID string, first int, after string) (json.RawMessage, error) {
	vars := map[string]any{"id": projectID, "first": clampPageSize(first)}
	if after != "" {
		vars["after"] = after
	}
	var resp struct {
		Node struct {
			Items json.RawMessage `json:"items"`
		} `json:"node"`
	}
	if err := c.execute(ctx, graphql.Request{
		Query:         queryProjectItems,
		Variables:     vars,
		OperationName: "GetProjectItems",
	}, &resp); err != nil {
		return nil, err
	}
	return resp.Node.Items, nil
}

// defaultAdvancedFields is the minimal selection used when the caller
// supplies no custom field set.
const defaultAdvancedFields = `
id
type
createdAt
updatedAt
isArchived
content {
  ... on Issue {
    id
    title
    number
    url
    issueState: state
  }
}
fieldValues(first: 10) {
  nodes {
    ... on ProjectV2ItemFieldMilestoneValue {
      milestone {
        id
        title
      }
      field {
        ... on ProjectV2FieldCommon {
          id
          name
        }
      }
    }
    ... on ProjectV2ItemFieldSingleSelectValue {
      name
      field {
        ... on ProjectV2FieldCommon {
          id
          name
        }
      }
    }
  }
}`

// AdvancedItemsOptions customizes an item listing with caller-supplied
// GraphQL modifiers. CustomFields replaces the node field selection,
// CustomFilters is injected into the items(...) arguments, and
// CustomVariables are declared and passed through.
type AdvancedItemsOptions struct {
	First           int
	After           string
	CustomFields    string
	CustomFilters   string
	CustomVariables map[string]any
}

// ProjectItemsAdvanced lists items with custom GraphQL modifiers and
// returns the raw items connection, since custom field sets do not decode
// into the fixed domain types. When the custom query fails, it falls back
// to the standard listing if custom parts were supplied.
func (c *Client) ProjectItemsAdvanced(ctx context.Context, projectID string, opts AdvancedItemsOptions) (json.RawMessage, error) {
	query := buildAdvancedItemsQuery(opts)
	if err := validateCustomQuery(query); err != nil {
		if opts.CustomFields != "" || opts.CustomFilters != "" {
			c.logger.Warn("custom items query rejected, falling back to standard listing", "error", err)
			return c.projectItemsRaw(ctx, projectID, opts.First, opts.After)
		}
		return nil, err
	}

	vars := map[string]any{"id": projectID, "first": clampPageSize(opts.First)}
	if opts.After != "" {
		vars["after"] = opts.After
	}
	for name, value := range opts.CustomVariables {
		vars[name] = value
	}

	var resp struct {
		Node struct {
			Items json.RawMessage `json:"items"`
		} `json:"node"`
	}
	err := c.execute(ctx, graphql.Request{
		Query:         query,
		Variables:     vars,
		OperationName: "GetProjectItemsAdvanced",
	}, &resp)
	if err != nil {
		if opts.CustomFields != "" || opts.CustomFilters != "" {
			c.logger.Warn("custom items query failed, falling back to standard listing", "error", err)
			return c.projectItemsRaw(ctx, projectID, opts.First, opts.After)
		}
		return nil, err
	}
	return resp.Node.Items, nil
}

// buildAdvancedItemsQuery assembles the advanced listing document from the
// caller's modifiers. Variable types are inferred from the Go value.
func buildAdvancedItemsQuery(opts AdvancedItemsOptions) string {
	var b strings.Builder
	b.WriteString("query GetProjectItemsAdvanced($id: ID!, $first: Int!, $after: String")
	for name, value := range opts.CustomVariables {
		fmt.Fprintf(&b, ", $%s: %s", name, graphqlType(value))
	}
	b.WriteString(") {\n")
	b.WriteString("  node(id: $id) {\n")
	b.WriteString("    ... on ProjectV2 {\n")

	if opts.CustomFilters != "" {
		fmt.Fprintf(&b, "      items(first: $first, after: $after, %s) {\n", opts.CustomFilters)
	} else {
		b.WriteString("      items(first: $first, after: $after) {\n")
	}

	fields := opts.CustomFields
	if fields == "" {
		fields = defaultAdvancedFields
	}

	b.WriteString("        pageInfo {\n")
	b.WriteString("          hasNextPage\n")
	b.WriteString("          endCursor\n")
	b.WriteString("        }\n")
	b.WriteString("        nodes {\n")
	fmt.Fprintf(&b, "          %s\n", fields)
	b.WriteString("        }\n")
	b.WriteString("      }\n")
	b.WriteString("    }\n")
	b.WriteString("  }\n")
	b.WriteString("}")
	return b.String()
}

func graphqlType(value any) string {
	switch value.(type) {
	case string:
		return "String"
	case int, int32, int64:
		return "Int"
	case float32, float64:
		return "Float"
	case bool:
		return "Boolean"
	}
	return "String"
}

// ProjectFields lists a project's fields, including single-select options
// and iteration configurations.
func (c *Client) ProjectFields(ctx context.Context, projectID string) ([]projects.Field, error) {
	var resp struct {
		Node struct {
			Fields struct {
				Nodes []projects.Field `json:"nodes"`
			} `json:"fields"`
		} `json:"node"`
	}
	if err := c.execute(ctx, graphql.Request{
		Query:         queryProjectFieldsDoc,
		Variables:     map[string]any{"id": projectID},
		OperationName: "GetProjectFields",
	}, &resp); err != nil {
		return nil, err
	}
	return resp.Node.Fields.Nodes, nil
}

// AddItem adds an issue, pull request, or draft issue to a project by its
// content node ID and returns the created item's ID.
func (c *Client) AddItem(ctx context.Context, projectID, contentID string) (string, error) {
	var resp struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID string `json:"id"`
			} `json:"item"`
		} `json:"addProjectV2ItemById"`
	}
	if err := c.execute(ctx, graphql.Request{
		Query:         mutationAddItem,
		Variables:     map[string]any{"projectId": projectID, "contentId": contentID},
		OperationName: "AddProjectItem",
	}, &resp); err != nil {
		return "", err
	}
	return resp.AddProjectV2ItemByID.Item.ID, nil
}

// formatFieldValue wraps a plain value into the ProjectV2FieldValueInput
// shape: strings become text values, numbers become number values, and
// maps (single-select, iteration, date inputs) pass through unchanged.
func formatFieldValue(value any) map[string]any {
	switch v := value.(type) {
	case string:
		return map[string]any{"text": v}
	case int:
		return map[string]any{"number": float64(v)}
	case int64:
		return map[string]any{"number": float64(v)}
	case float64:
		return map[string]any{"number": v}
	case map[string]any:
		return v
	}
	return map[string]any{"text": fmt.Sprintf("%v", value)}
}

// UpdateItemField sets one field value on a project item and returns the
// item's ID.
func (c *Client) UpdateItemField(ctx context.Context, projectID, itemID, fieldID string, value any) (string, error) {
	var resp struct {
		UpdateProjectV2ItemFieldValue struct {
			ProjectV2Item struct {
				ID string `json:"id"`
			} `json:"projectV2Item"`
		} `json:"updateProjectV2ItemFieldValue"`
	}
	if err := c.execute(ctx, graphql.Request{
		Query: mutationUpdateItemField,
		Variables: map[string]any{
			"projectId": projectID,
			"itemId":    itemID,
			"fieldId":   fieldID,
			"value":     formatFieldValue(value),
		},
		OperationName: "UpdateProjectItemField",
	}, &resp); err != nil {
		return "", err
	}
	return resp.UpdateProjectV2ItemFieldValue.ProjectV2Item.ID, nil
}

// RemoveItem deletes an item from a project and returns the deleted item's ID.
func (c *Client) RemoveItem(ctx context.Context, projectID, itemID string) (string, error) {
	var resp struct {
		DeleteProjectV2Item struct {
			DeletedItemID string `json:"deletedItemId"`
		} `json:"deleteProjectV2Item"`
	}
	if err := c.execute(ctx, graphql.Request{
		Query:         mutationRemoveItem,
		Variables:     map[string]any{"projectId": projectID, "itemId": itemID},
		OperationName: "RemoveProjectItem",
	}, &resp); err != nil {
		return "", err
	}
	return resp.DeleteProjectV2Item.DeletedItemID, nil
}

// ArchiveItem archives a project item in place.
func (c *Client) ArchiveItem(ctx context.Context, projectID, itemID string) (*projects.Item, error) {
	var resp struct {
		ArchiveProjectV2Item struct {
			Item projects.Item `json:"item"`
		} `json:"archiveProjectV2Item"`
	}
	if err := c.execute(ctx, graphql.Request{
		Query:         mutationArchiveItem,
		Variables:     map[string]any{"projectId": projectID, "itemId": itemID},
		OperationName: "ArchiveProjectItem",
	}, &resp); err != nil {
		return nil, err
	}
	return &resp.ArchiveProjectV2Item.Item, nil
}

// forbiddenKeywords blocks mutations and introspection in caller-supplied
// query documents.
var forbiddenKeywords = []string{"mutation", "subscription", "__schema", "__type"}

func validateCustomQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return projects.ErrEmptyQuery
	}
	lowered := strings.ToLower(query)
	for _, keyword := range forbiddenKeywords {
		if strings.Contains(lowered, keyword) {
			return fmt.Errorf("%w: %s", projects.ErrForbiddenKeyword, keyword)
		}
	}
	return nil
}

// ExecuteQuery runs a caller-supplied read-only GraphQL query. Mutations,
// subscriptions, and introspection are rejected before any request is sent.
func (c *Client) ExecuteQuery(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	if err := validateCustomQuery(query); err != nil {
		return nil, err
	}
	return c.gql.Execute(ctx, graphql.Request{Query: query, Variables: variables})
}
