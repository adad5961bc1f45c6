// Package login implements the login form component: two text fields, a
// submit button and an error line, driven by a reducer and backed by the
// GraphQL login mutation.
package login
