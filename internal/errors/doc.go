// Package errors provides coded, actionable errors for the loginform
// command.
//
// Each code maps to a registered template with a category, a short
// message, a detail paragraph and, where one exists, a hint:
//
//	E1xx  config     loading and validating configuration
//	E2xx  protocol   listeners and exporters
//	E3xx  runtime    serving and shutdown
//	E4xx  graphql    the development GraphQL API
//
// Usage:
//
//	if err := cfg.Validate(); err != nil {
//	    return errors.New("E103").WithDetail(err.Error())
//	}
//
// Print renders an error for the terminal:
//
//	ERROR E201: Listen failed
//
//	  The server could not bind its listen address.
//
//	  Cause: listen tcp :8080: bind: address already in use
//
//	  Hint: Pick a free port with --addr or LOGINFORM_SERVER_ADDRESS.
package errors
