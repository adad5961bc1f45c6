package graphql

import (
	"context"
	"encoding/json"
)

// Client executes GraphQL operations.
type Client interface {
	// ExecuteMutation runs a mutation document with the given variables.
	// The returned Result is never nil.
	ExecuteMutation(ctx context.Context, doc *Document, variables map[string]any) *Result
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, doc *Document, variables map[string]any) *Result

// ExecuteMutation implements Client.
func (f ClientFunc) ExecuteMutation(ctx context.Context, doc *Document, variables map[string]any) *Result {
	return f(ctx, doc, variables)
}

// Result is the outcome of one operation.
type Result struct {
	// Data is the raw "data" member of the response, if any.
	Data json.RawMessage

	// Error is set when the request failed or the response carried errors.
	Error *CombinedError

	// Extensions is the "extensions" member of the response, if any.
	Extensions map[string]any
}

// Decode unmarshals Data into v.
func (r *Result) Decode(v any) error {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return ErrNoData
	}
	return json.Unmarshal(r.Data, v)
}

// DataResult builds a successful Result from a value that marshals to the
// response data. It panics if data cannot be marshaled.
func DataResult(data any) *Result {
	raw, err := json.Marshal(data)
	if err != nil {
		panic("graphql: DataResult: " + err.Error())
	}
	return &Result{Data: raw}
}

// ErrorResult builds a failed Result.
func ErrorResult(err *CombinedError) *Result {
	return &Result{Error: err}
}
