package graphql

import (
	"errors"
	"testing"
)

func TestCombinedErrorMessage(t *testing.T) {
	netErr := errors.New("dial tcp 127.0.0.1:3000: connect: connection refused")

	tests := []struct {
		name string
		err  *CombinedError
		want string
	}{
		{"nil", nil, ""},
		{"network", NewNetworkError(netErr), "[Network] dial tcp 127.0.0.1:3000: connect: connection refused"},
		{"graphql", NewGraphQLError("invalid username or password"), "[GraphQL] invalid username or password"},
		{"several", NewGraphQLError("a", "b"), "[GraphQL] a\n[GraphQL] b"},
		{
			"network wins",
			&CombinedError{NetworkError: netErr, GraphQLErrors: []*Error{{Message: "x"}}},
			"[Network] dial tcp 127.0.0.1:3000: connect: connection refused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCombinedErrorUnwrap(t *testing.T) {
	netErr := errors.New("boom")
	gqlErr := &Error{Message: "denied"}
	err := &CombinedError{NetworkError: netErr, GraphQLErrors: []*Error{gqlErr}}

	if !errors.Is(err, netErr) {
		t.Error("errors.Is(network) = false")
	}
	var target *Error
	if !errors.As(err, &target) || target != gqlErr {
		t.Errorf("errors.As(*Error) = %v", target)
	}
	if err.Error() != err.Message() {
		t.Errorf("Error() = %q, Message() = %q", err.Error(), err.Message())
	}
}

func TestErrorWithPath(t *testing.T) {
	e := &Error{Message: "bad", Path: []any{"login", 0, "token"}}
	if e.Error() != "bad (path: login.0.token)" {
		t.Errorf("Error() = %q", e.Error())
	}
}

func TestResultDecode(t *testing.T) {
	res := DataResult(map[string]any{"login": map[string]any{"token": "abc"}})
	var out struct {
		Login struct{ Token string }
	}
	if err := res.Decode(&out); err != nil || out.Login.Token != "abc" {
		t.Errorf("Decode() = %+v, %v", out, err)
	}

	empty := &Result{Data: []byte("null")}
	if err := empty.Decode(&out); !errors.Is(err, ErrNoData) {
		t.Errorf("Decode(null) error = %v, want ErrNoData", err)
	}
}
