// Package devapi is a development GraphQL API for the login form.
//
// It serves the login mutation over a fixed user table so the form can be
// exercised locally without a real backend:
//
//	mutation { login(data: {username: "test", password: "test"}) { token } }
//
// A wrong password or an unknown user yields the GraphQL error "invalid
// username or password". Tokens are random UUIDs held in memory; the
// viewer query resolves a token back to its user.
package devapi
