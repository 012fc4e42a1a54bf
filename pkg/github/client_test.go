package github

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/felixgeelhaar/ghprojects/pkg/domain/projects"
	"github.com/felixgeelhaar/ghprojects/pkg/graphql"
)

// graphqlRequest mirrors the wire shape of an outgoing operation so stub
// servers can dispatch on it.
type graphqlRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newStubClient wires a Client to an in-process GraphQL stub. The handler
// receives each decoded request and returns the JSON for the data payload.
func newStubClient(t *testing.T, handle func(req graphqlRequest) (string, string)) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		data, errBody := handle(req)
		w.Header().Set("Content-Type", "application/json")
		if errBody != "" {
			io.WriteString(w, `{"data": null, "errors": `+errBody+`}`)
			return
		}
		io.WriteString(w, `{"data": `+data+`}`)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{Config: graphql.Config{
		Token:    "test-token",
		Endpoint: srv.URL,
		Logger:   discardLogger(),
	}})
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	return c, srv
}

func TestClampPageSize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 1},
		{-5, 1},
		{1, 1},
		{50, 50},
		{100, 100},
		{101, 100},
		{5000, 100},
	}
	for _, tt := range tests {
		if got := clampPageSize(tt.in); got != tt.want {
			t.Errorf("clampPageSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestOrganizationProjects(t *testing.T) {
	var gotVars map[string]any
	c, _ := newStubClient(t, func(req graphqlRequest) (string, string) {
		if req.OperationName != "GetOrgProjects" {
			t.Errorf("operation = %q, want GetOrgProjects", req.OperationName)
		}
		gotVars = req.Variables
		return `{"organization": {"projectsV2": {
			"nodes": [
				{"id": "PVT_1", "title": "Roadmap", "number": 1, "closed": false},
				{"id": "PVT_2", "title": "Backlog", "number": 2, "closed": true}
			],
			"pageInfo": {"hasNextPage": true, "endCursor": "abc"}
		}}}`, ""
	})

	conn, err := c.OrganizationProjects(context.Background(), "acme", 500, "")
	if err != nil {
		t.Fatalf("OrganizationProjects() failed: %v", err)
	}
	if gotVars["login"] != "acme" {
		t.Errorf("login variable = %v, want acme", gotVars["login"])
	}
	if gotVars["first"] != float64(100) {
		t.Errorf("first variable = %v, want clamped to 100", gotVars["first"])
	}
	if _, ok := gotVars["after"]; ok {
		t.Error("empty cursor should not be sent")
	}
	if len(conn.Nodes) != 2 || conn.Nodes[0].ID != "PVT_1" || conn.Nodes[1].Title != "Backlog" {
		t.Fatalf("unexpected projects: %+v", conn.Nodes)
	}
	if !conn.PageInfo.HasNextPage || conn.PageInfo.EndCursor != "abc" {
		t.Fatalf("unexpected page info: %+v", conn.PageInfo)
	}
}

func TestUserProjectsPassesCursor(t *testing.T) {
	var gotVars map[string]any
	c, _ := newStubClient(t, func(req graphqlRequest) (string, string) {
		gotVars = req.Variables
		return `{"user": {"projectsV2": {"nodes": [], "pageInfo": {"hasNextPage": false}}}}`, ""
	})

	if _, err := c.UserProjects(context.Background(), "octocat", 10, "cursor-1"); err != nil {
		t.Fatalf("UserProjects() failed: %v", err)
	}
	if gotVars["after"] != "cursor-1" {
		t.Errorf("after variable = %v, want cursor-1", gotVars["after"])
	}
}

func TestProjectNotFound(t *testing.T) {
	c, _ := newStubClient(t, func(req graphqlRequest) (string, string) {
		return "", `[{"type": "NOT_FOUND", "message": "Could not resolve to a node with the global id of 'PVT_x'"}]`
	})

	_, err := c.Project(context.Background(), "PVT_x")
	if graphql.KindOf(err) != graphql.KindNotFound {
		t.Fatalf("kind = %s, want %s", graphql.KindOf(err), graphql.KindNotFound)
	}
}

func TestProjectItems(t *testing.T) {
	c, _ := newStubClient(t, func(req graphqlRequest) (string, string) {
		if req.OperationName != "GetProjectItems" {
			t.Errorf("operation = %q, want GetProjectItems", req.OperationName)
		}
		return `{"node": {"items": {
			"nodes": [{
				"id": "PVTI_1",
				"type": "ISSUE",
				"content": {"id": "I_1", "title": "Fix login", "number": 42, "issueState": "OPEN"},
				"fieldValues": {"nodes": [
					{"name": "In Progress", "field": {"id": "PVTF_1", "name": "Status"}}
				]}
			}],
			"pageInfo": {"hasNextPage": false, "endCursor": "end"}
		}}}`, ""
	})

	conn, err := c.ProjectItems(context.Background(), "PVT_1", 20, "")
	if err != nil {
		t.Fatalf("ProjectItems() failed: %v", err)
	}
	if len(conn.Nodes) != 1 {
		t.Fatalf("items = %d, want 1", len(conn.Nodes))
	}
	item := conn.Nodes[0]
	if item.Content == nil || item.Content.Title != "Fix login" {
		t.Fatalf("unexpected content: %+v", item.Content)
	}
	values := item.FieldValues.Nodes
	if len(values) != 1 || values[0].Name == nil || *values[0].Name != "In Progress" {
		t.Fatalf("unexpected field values: %+v", values)
	}
}

func TestAddItem(t *testing.T) {
	var gotVars map[string]any
	c, _ := newStubClient(t, func(req graphqlRequest) (string, string) {
		gotVars = req.Variables
		return `{"addProjectV2ItemById": {"item": {"id": "PVTI_new"}}}`, ""
	})

	id, err := c.AddItem(context.Background(), "PVT_1", "I_9")
	if err != nil {
		t.Fatalf("AddItem() failed: %v", err)
	}
	if id != "PVTI_new" {
		t.Fatalf("item id = %q, want PVTI_new", id)
	}
	if gotVars["projectId"] != "PVT_1" || gotVars["contentId"] != "I_9" {
		t.Fatalf("unexpected variables: %v", gotVars)
	}
}

func TestUpdateItemFieldWrapsValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  map[string]any
	}{
		{"text", "Done", map[string]any{"text": "Done"}},
		{"number", 5, map[string]any{"number": float64(5)}},
		{"float", 2.5, map[string]any{"number": 2.5}},
		{"single select passthrough", map[string]any{"singleSelectOptionId": "opt_1"}, map[string]any{"singleSelectOptionId": "opt_1"}},
		{"date passthrough", map[string]any{"date": "2025-06-01"}, map[string]any{"date": "2025-06-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotVars map[string]any
			c, _ := newStubClient(t, func(req graphqlRequest) (string, string) {
				gotVars = req.Variables
				return `{"updateProjectV2ItemFieldValue": {"projectV2Item": {"id": "PVTI_1"}}}`, ""
			})

			if _, err := c.UpdateItemField(context.Background(), "PVT_1", "PVTI_1", "PVTF_1", tt.value); err != nil {
				t.Fatalf("UpdateItemField() failed: %v", err)
			}
			got, ok := gotVars["value"].(map[string]any)
			if !ok {
				t.Fatalf("value variable = %T, want object", gotVars["value"])
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("value[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestRemoveItem(t *testing.T) {
	c, _ := newStubClient(t, func(req graphqlRequest) (string, string) {
		return `{"deleteProjectV2Item": {"deletedItemId": "PVTI_gone"}}`, ""
	})

	id, err := c.RemoveItem(context.Background(), "PVT_1", "PVTI_1")
	if err != nil {
		t.Fatalf("RemoveItem() failed: %v", err)
	}
	if id != "PVTI_gone" {
		t.Fatalf("deleted id = %q, want PVTI_gone", id)
	}
}

func TestDeleteProject(t *testing.T) {
	c, _ := newStubClient(t, func(req graphqlRequest) (string, string) {
		return `{"deleteProjectV2": {"projectV2": {"id": "PVT_1"}}}`, ""
	})

	id, err := c.DeleteProject(context.Background(), "PVT_1")
	if err != nil {
		t.Fatalf("DeleteProject() failed: %v", err)
	}
	if id != "PVT_1" {
		t.Fatalf("deleted id = %q, want PVT_1", id)
	}
}

func TestUpdateProjectSendsOnlySetFields(t *testing.T) {
	var gotVars map[string]any
	c, _ := newStubClient(t, func(req graphqlRequest) (string, string) {
		gotVars = req.Variables
		return `{"updateProjectV2": {"projectV2": {"id": "PVT_1", "title": "Renamed"}}}`, ""
	})

	title := "Renamed"
	public := true
	proj, err := c.UpdateProject(context.Background(), "PVT_1", ProjectUpdate{Title: &title, Public: &public})
	if err != nil {
		t.Fatalf("UpdateProject() failed: %v", err)
	}
	if proj.Title != "Renamed" {
		t.Fatalf("title = %q, want Renamed", proj.Title)
	}
	if gotVars["title"] != "Renamed" || gotVars["public"] != true {
		t.Fatalf("unexpected variables: %v", gotVars)
	}
	if _, ok := gotVars["description"]; ok {
		t.Error("unset description should not be sent")
	}
	if _, ok := gotVars["readme"]; ok {
		t.Error("unset readme should not be sent")
	}
}

func TestValidateCustomQuery(t *testing.T) {
	if err := validateCustomQuery("  "); !errors.Is(err, projects.ErrEmptyQuery) {
		t.Errorf("empty query error = %v, want ErrEmptyQuery", err)
	}
	for _, q := range []string{
		`mutation { deleteProjectV2(input: {projectId: "x"}) { clientMutationId } }`,
		`query { __schema { types { name } } }`,
		`query { __type(name: "ProjectV2") { name } }`,
		`subscription { anything }`,
	} {
		if err := validateCustomQuery(q); !errors.Is(err, projects.ErrForbiddenKeyword) {
			t.Errorf("validateCustomQuery(%q) = %v, want ErrForbiddenKeyword", q, err)
		}
	}
	if err := validateCustomQuery(`query { viewer { login } }`); err != nil {
		t.Errorf("read query rejected: %v", err)
	}
}

func TestExecuteQueryRejectsMutationsBeforeSending(t *testing.T) {
	calls := 0
	c, _ := newStubClient(t, func(req graphqlRequest) (string, string) {
		calls++
		return `{}`, ""
	})

	_, err := c.ExecuteQuery(context.Background(), `mutation { x }`, nil)
	if !errors.Is(err, projects.ErrForbiddenKeyword) {
		t.Fatalf("error = %v, want ErrForbiddenKeyword", err)
	}
	if calls != 0 {
		t.Fatalf("expected no network calls, got %d", calls)
	}
}

func TestBuildAdvancedItemsQuery(t *testing.T) {
	query := buildAdvancedItemsQuery(AdvancedItemsOptions{
		CustomFields:    "id\ntitle",
		CustomFilters:   "orderBy: {field: POSITION, direction: ASC}",
		CustomVariables: map[string]any{"state": "OPEN"},
	})

	for _, want := range []string{
		"$state: String",
		"items(first: $first, after: $after, orderBy: {field: POSITION, direction: ASC})",
		"id\ntitle",
		"pageInfo",
	} {
		if !strings.Contains(query, want) {
			t.Errorf("query missing %q:\n%s", want, query)
		}
	}
}

func TestBuildAdvancedItemsQueryDefaults(t *testing.T) {
	query := buildAdvancedItemsQuery(AdvancedItemsOptions{})
	if !strings.Contains(query, "items(first: $first, after: $after)") {
		t.Errorf("default query should not inject filters:\n%s", query)
	}
	if !strings.Contains(query, "ProjectV2ItemFieldSingleSelectValue") {
		t.Errorf("default query should select the standard field set:\n%s", query)
	}
}

func TestGraphqlType(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"s", "String"},
		{3, "Int"},
		{int64(3), "Int"},
		{1.5, "Float"},
		{true, "Boolean"},
		{[]string{"x"}, "String"},
	}
	for _, tt := range tests {
		if got := graphqlType(tt.value); got != tt.want {
			t.Errorf("graphqlType(%T) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestProjectItemsAdvancedFallsBackOnExecutionFailure(t *testing.T) {
	var ops []string
	c, _ := newStubClient(t, func(req graphqlRequest) (string, string) {
		ops = append(ops, req.OperationName)
		if req.OperationName == "GetProjectItemsAdvanced" {
			return "", `[{"message": "Field 'bogus' doesn't exist on type 'ProjectV2Item'"}]`
		}
		return `{"node": {"items": {"nodes": [{"id": "PVTI_1"}], "pageInfo": {"hasNextPage": false}}}}`, ""
	})

	raw, err := c.ProjectItemsAdvanced(context.Background(), "PVT_1", AdvancedItemsOptions{
		First:        10,
		CustomFields: "bogus",
	})
	if err != nil {
		t.Fatalf("expected fallback to succeed, got %v", err)
	}
	if !strings.Contains(string(raw), "PVTI_1") {
		t.Fatalf("unexpected fallback payload: %s", raw)
	}
	if len(ops) != 2 || ops[0] != "GetProjectItemsAdvanced" || ops[1] != "GetProjectItems" {
		t.Fatalf("operations = %v, want advanced then standard", ops)
	}
}

func TestProjectItemsAdvancedFallsBackOnForbiddenFields(t *testing.T) {
	var ops []string
	c, _ := newStubClient(t, func(req graphqlRequest) (string, string) {
		ops = append(ops, req.OperationName)
		return `{"node": {"items": {"nodes": [], "pageInfo": {"hasNextPage": false}}}}`, ""
	})

	_, err := c.ProjectItemsAdvanced(context.Background(), "PVT_1", AdvancedItemsOptions{
		First:        10,
		CustomFields: "__schema { types { name } }",
	})
	if err != nil {
		t.Fatalf("expected fallback to succeed, got %v", err)
	}
	if len(ops) != 1 || ops[0] != "GetProjectItems" {
		t.Fatalf("operations = %v, want only the standard listing", ops)
	}
}

func TestRateLimit(t *testing.T) {
	c, _ := newStubClient(t, func(req graphqlRequest) (string, string) {
		return `{
			"viewer": {"login": "octocat"},
			"rateLimit": {"limit": 5000, "remaining": 4990, "used": 10, "resetAt": "2025-06-01T12:00:00Z"}
		}`, ""
	})

	viewer, quota, err := c.RateLimit(context.Background())
	if err != nil {
		t.Fatalf("RateLimit() failed: %v", err)
	}
	if viewer.Login != "octocat" {
		t.Fatalf("login = %q, want octocat", viewer.Login)
	}
	if quota.Remaining != 4990 || quota.Limit != 5000 {
		t.Fatalf("unexpected quota: %+v", quota)
	}
}

func TestResolveIssueID(t *testing.T) {
	rest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/repos/acme/widgets/issues/7") {
			t.Errorf("unexpected REST path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": 1, "number": 7, "node_id": "I_kwDOabc"}`)
	}))
	defer rest.Close()

	c, err := NewClient(Config{
		Config: graphql.Config{
			Token:  "test-token",
			Logger: discardLogger(),
		},
		RESTEndpoint: rest.URL + "/",
	})
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}

	id, err := c.ResolveIssueID(context.Background(), "acme", "widgets", 7)
	if err != nil {
		t.Fatalf("ResolveIssueID() failed: %v", err)
	}
	if id != "I_kwDOabc" {
		t.Fatalf("node id = %q, want I_kwDOabc", id)
	}
}

func TestResolvePullRequestID(t *testing.T) {
	rest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/repos/acme/widgets/pulls/12") {
			t.Errorf("unexpected REST path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": 2, "number": 12, "node_id": "PR_kwDOxyz"}`)
	}))
	defer rest.Close()

	c, err := NewClient(Config{
		Config: graphql.Config{
			Token:  "test-token",
			Logger: discardLogger(),
		},
		RESTEndpoint: rest.URL + "/",
	})
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}

	id, err := c.ResolvePullRequestID(context.Background(), "acme", "widgets", 12)
	if err != nil {
		t.Fatalf("ResolvePullRequestID() failed: %v", err)
	}
	if id != "PR_kwDOxyz" {
		t.Fatalf("node id = %q, want PR_kwDOxyz", id)
	}
}
