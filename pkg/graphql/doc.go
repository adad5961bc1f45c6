// Package graphql is a small GraphQL client.
//
// A Document is parsed once, usually at package init:
//
//	var loginMutation = graphql.MustParse(`mutation LoginMutation($username: String!, $password: String!) {
//	    login(data: {username: $username, password: $password}) { token }
//	}`)
//
// and executed through a Client:
//
//	res := client.ExecuteMutation(ctx, loginMutation, map[string]any{
//	    "username": "test",
//	    "password": "test",
//	})
//	if res.Error != nil {
//	    return res.Error.Message()
//	}
//
// Transport failures and GraphQL errors both surface as a *CombinedError
// on the Result, never as a separate return value.
package graphql
