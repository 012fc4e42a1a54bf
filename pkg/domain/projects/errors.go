package projects

import "errors"

var (
	// ErrEmptyQuery is returned when a custom query has no document text.
	ErrEmptyQuery = errors.New("query document is empty")

	// ErrForbiddenKeyword is returned when a custom query contains a
	// mutation, subscription, or introspection keyword.
	ErrForbiddenKeyword = errors.New("query contains forbidden keyword")
)
