package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var testLogin = MustParse(loginSource)

func newGraphQLServer(t *testing.T, handler func(t *testing.T, body request) (int, string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var body request
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		status, resp := handler(t, body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClientSuccess(t *testing.T) {
	srv := newGraphQLServer(t, func(t *testing.T, body request) (int, string) {
		if body.OperationName != "LoginMutation" {
			t.Errorf("operationName = %q", body.OperationName)
		}
		if body.Query != loginSource {
			t.Errorf("query = %q", body.Query)
		}
		want := map[string]any{"username": "test", "password": "test"}
		if diff := cmp.Diff(want, body.Variables); diff != "" {
			t.Errorf("variables mismatch (-want +got):\n%s", diff)
		}
		return http.StatusOK, `{"data":{"login":{"token":"some secret token string"}}}`
	})

	c := NewHTTPClient(srv.URL)
	res := c.ExecuteMutation(context.Background(), testLogin, map[string]any{"username": "test", "password": "test"})
	if res.Error != nil {
		t.Fatalf("ExecuteMutation() error = %v", res.Error)
	}

	var data struct {
		Login struct {
			Token string `json:"token"`
		} `json:"login"`
	}
	if err := res.Decode(&data); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if data.Login.Token != "some secret token string" {
		t.Errorf("token = %q", data.Login.Token)
	}
}

func TestHTTPClientGraphQLErrors(t *testing.T) {
	srv := newGraphQLServer(t, func(t *testing.T, _ request) (int, string) {
		return http.StatusOK, `{"data":null,"errors":[{"message":"invalid username or password","path":["login"]}]}`
	})

	res := NewHTTPClient(srv.URL).ExecuteMutation(context.Background(), testLogin,
		map[string]any{"username": "test", "password": "nope"})
	if res.Error == nil {
		t.Fatal("expected error")
	}
	if got := res.Error.Message(); got != "[GraphQL] invalid username or password" {
		t.Errorf("Message() = %q", got)
	}
	if res.Error.NetworkError != nil {
		t.Errorf("NetworkError = %v, want nil", res.Error.NetworkError)
	}
}

func TestHTTPClientStatusError(t *testing.T) {
	srv := newGraphQLServer(t, func(t *testing.T, _ request) (int, string) {
		return http.StatusBadGateway, `upstream down`
	})

	res := NewHTTPClient(srv.URL).ExecuteMutation(context.Background(), testLogin,
		map[string]any{"username": "a", "password": "b"})
	var httpErr *HTTPError
	if res.Error == nil || !errors.As(res.Error, &httpErr) {
		t.Fatalf("error = %v, want *HTTPError", res.Error)
	}
	if httpErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d", httpErr.StatusCode)
	}
	if !strings.HasPrefix(res.Error.Message(), "[Network] ") {
		t.Errorf("Message() = %q", res.Error.Message())
	}
}

func TestHTTPClientGraphQLErrorOnBadStatus(t *testing.T) {
	srv := newGraphQLServer(t, func(t *testing.T, _ request) (int, string) {
		return http.StatusBadRequest, `{"errors":[{"message":"Variable \"$username\" of required type \"String!\" was not provided."}]}`
	})

	res := NewHTTPClient(srv.URL).ExecuteMutation(context.Background(), testLogin,
		map[string]any{"username": "a", "password": "b"})
	if res.Error == nil || len(res.Error.GraphQLErrors) != 1 {
		t.Fatalf("error = %v, want one GraphQL error", res.Error)
	}
}

func TestHTTPClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := NewHTTPClient(url, WithTimeout(time.Second)).ExecuteMutation(context.Background(), testLogin,
		map[string]any{"username": "a", "password": "b"})
	if res.Error == nil || res.Error.NetworkError == nil {
		t.Fatalf("error = %v, want network error", res.Error)
	}
}

func TestHTTPClientRejectsQuery(t *testing.T) {
	res := NewHTTPClient("http://127.0.0.1:1").ExecuteMutation(context.Background(), MustParse(`{ me { id } }`), nil)
	if res.Error == nil || !errors.Is(res.Error, ErrNotMutation) {
		t.Errorf("error = %v, want ErrNotMutation", res.Error)
	}
}

func TestHTTPClientMissingVariable(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	res := NewHTTPClient(srv.URL).ExecuteMutation(context.Background(), testLogin, map[string]any{"username": "a"})
	if res.Error == nil || !strings.Contains(res.Error.Message(), `"password"`) {
		t.Errorf("error = %v, want missing password", res.Error)
	}
	if called {
		t.Error("request sent despite missing variable")
	}
}

func TestHTTPClientHeaders(t *testing.T) {
	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"login":{"token":"t"}}}`))
	}))
	defer srv.Close()

	res := NewHTTPClient(srv.URL, WithHeader("X-Client", "loginform")).ExecuteMutation(context.Background(), testLogin,
		map[string]any{"username": "a", "password": "b"})
	if res.Error != nil {
		t.Fatalf("ExecuteMutation() error = %v", res.Error)
	}
	h := <-headers
	if h.Get("X-Client") != "loginform" {
		t.Errorf("X-Client = %q, want loginform", h.Get("X-Client"))
	}
	if !strings.Contains(h.Get("Accept"), "application/json") {
		t.Errorf("Accept = %q", h.Get("Accept"))
	}
}

func TestHTTPClientCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewHTTPClient(srv.URL).ExecuteMutation(ctx, testLogin,
		map[string]any{"username": "a", "password": "b"})
	if res.Error == nil || !errors.Is(res.Error, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", res.Error)
	}
}

func TestClientFunc(t *testing.T) {
	var c Client = ClientFunc(func(ctx context.Context, doc *Document, vars map[string]any) *Result {
		return ErrorResult(NewGraphQLError("nope"))
	})
	if got := c.ExecuteMutation(context.Background(), testLogin, nil).Error.Message(); got != "[GraphQL] nope" {
		t.Errorf("Message() = %q", got)
	}
}
