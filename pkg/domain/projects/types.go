// Package projects defines the GitHub Projects v2 domain types returned
// by the API client. Field names and JSON tags follow the GraphQL
// response shapes so payloads decode without translation layers.
package projects

import "time"

// Owner is the project owner (organization or user).
type Owner struct {
	Login string `json:"login"`
}

// Project is a GitHub Projects v2 board.
type Project struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"shortDescription,omitempty"`
	Readme           string    `json:"readme,omitempty"`
	Public           bool      `json:"public"`
	Closed           bool      `json:"closed"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	Number           int       `json:"number"`
	URL              string    `json:"url"`
	Owner            Owner     `json:"owner"`
}

// PageInfo carries cursor pagination state for a connection.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// ProjectConnection is a paginated page of projects.
type ProjectConnection struct {
	PageInfo PageInfo  `json:"pageInfo"`
	Nodes    []Project `json:"nodes"`
}

// ItemContent is the issue, pull request, or draft issue backing an item.
// IssueState and PRState are aliased in the query so both content types
// can be decoded into the same struct.
type ItemContent struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Number     int    `json:"number,omitempty"`
	URL        string `json:"url,omitempty"`
	IssueState string `json:"issueState,omitempty"`
	PRState    string `json:"prState,omitempty"`
}

// FieldRef identifies the field a value belongs to.
type FieldRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Milestone is a milestone referenced by a field value.
type Milestone struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// FieldValue is one value of a project item. Exactly one of the value
// members is set depending on the field's data type; the rest stay nil.
type FieldValue struct {
	Text      *string    `json:"text,omitempty"`
	Number    *float64   `json:"number,omitempty"`
	Name      *string    `json:"name,omitempty"`
	Date      *string    `json:"date,omitempty"`
	Title     *string    `json:"title,omitempty"`
	Milestone *Milestone `json:"milestone,omitempty"`
	Field     FieldRef   `json:"field"`
}

// FieldValueConnection is the fieldValues page embedded in an item.
type FieldValueConnection struct {
	Nodes []FieldValue `json:"nodes"`
}

// Item is a project item (issue, pull request, or draft issue).
type Item struct {
	ID          string               `json:"id"`
	Type        string               `json:"type"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
	IsArchived  bool                 `json:"isArchived"`
	Content     *ItemContent         `json:"content,omitempty"`
	FieldValues FieldValueConnection `json:"fieldValues"`
}

// ItemConnection is a paginated page of project items.
type ItemConnection struct {
	PageInfo PageInfo `json:"pageInfo"`
	Nodes    []Item   `json:"nodes"`
}

// FieldOption is one option of a single-select field.
type FieldOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Iteration is one iteration of an iteration field.
type Iteration struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// IterationConfiguration holds the iterations of an iteration field.
type IterationConfiguration struct {
	Iterations []Iteration `json:"iterations"`
}

// Field describes a project field. Options and Configuration are only
// populated for single-select and iteration fields respectively.
type Field struct {
	ID            string                  `json:"id"`
	Name          string                  `json:"name"`
	DataType      string                  `json:"dataType"`
	Options       []FieldOption           `json:"options,omitempty"`
	Configuration *IterationConfiguration `json:"configuration,omitempty"`
}

// RateLimitInfo reports the authenticated token's GraphQL quota.
type RateLimitInfo struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Used      int       `json:"used"`
	ResetAt   time.Time `json:"resetAt"`
}

// Viewer is the authenticated user.
type Viewer struct {
	Login string `json:"login"`
}
