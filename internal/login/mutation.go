package login

import (
	"github.com/vango-dev/loginform/pkg/graphql"
)

// LoginMutation exchanges credentials for a token.
var LoginMutation = graphql.MustParse(`mutation LoginMutation($username: String!, $password: String!) {
  login(data: {username: $username, password: $password}) {
    token
  }
}`)

type loginData struct {
	Login *struct {
		Token *string `json:"token"`
	} `json:"login"`
}

// TokenFrom extracts data.login.token from a mutation result. Only the
// result's error fails a login; a payload without a token yields "".
func TokenFrom(res *graphql.Result) (string, error) {
	if res.Error != nil {
		return "", res.Error
	}
	var data loginData
	if err := res.Decode(&data); err == nil && data.Login != nil && data.Login.Token != nil {
		return *data.Login.Token, nil
	}
	return "", nil
}
