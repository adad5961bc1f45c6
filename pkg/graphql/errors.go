package graphql

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoData is returned by Result.Decode when the response had no data.
	ErrNoData = errors.New("graphql: response contained no data")

	// ErrNotMutation is reported when ExecuteMutation gets a query document.
	ErrNotMutation = errors.New("graphql: document is not a mutation")
)

// Location is a position in the query document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Error is a single entry of a response's "errors" list.
type Error struct {
	Message    string         `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Path))
	for i, p := range e.Path {
		parts[i] = fmt.Sprint(p)
	}
	return fmt.Sprintf("%s (path: %s)", e.Message, strings.Join(parts, "."))
}

// HTTPError reports a non-GraphQL HTTP response.
type HTTPError struct {
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return "unexpected HTTP status " + e.Status
}

// CombinedError joins a transport failure and the GraphQL errors of a
// response into one error value.
type CombinedError struct {
	NetworkError  error
	GraphQLErrors []*Error
}

// NewNetworkError wraps a transport failure.
func NewNetworkError(err error) *CombinedError {
	return &CombinedError{NetworkError: err}
}

// NewGraphQLError builds a CombinedError from error messages.
func NewGraphQLError(messages ...string) *CombinedError {
	errs := make([]*Error, len(messages))
	for i, m := range messages {
		errs[i] = &Error{Message: m}
	}
	return &CombinedError{GraphQLErrors: errs}
}

// Message returns the human-readable error text. A network error wins over
// GraphQL errors; several GraphQL errors are joined by newlines:
//
//	[Network] dial tcp: connection refused
//	[GraphQL] invalid username or password
func (e *CombinedError) Message() string {
	if e == nil {
		return ""
	}
	if e.NetworkError != nil {
		return "[Network] " + e.NetworkError.Error()
	}
	var sb strings.Builder
	for i, gqlErr := range e.GraphQLErrors {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("[GraphQL] ")
		sb.WriteString(gqlErr.Message)
	}
	return sb.String()
}

// Error implements the error interface.
func (e *CombinedError) Error() string {
	return e.Message()
}

// Unwrap returns the network error and every GraphQL error.
func (e *CombinedError) Unwrap() []error {
	var errs []error
	if e.NetworkError != nil {
		errs = append(errs, e.NetworkError)
	}
	for _, gqlErr := range e.GraphQLErrors {
		errs = append(errs, gqlErr)
	}
	return errs
}
