package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"

	lferrors "github.com/vango-dev/loginform/internal/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load() without sources (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{
  "server": {"address": ":9090", "shutdown_timeout": "5s", "max_sessions": 10},
  "graphql": {
    "endpoint": "https://api.example.com/graphql",
    "headers": ["Authorization: Bearer abc"]
  },
  "log": {"format": "json"},
  "devapi": {"users": ["alice:secret", "bob:hunter2"]}
}`)

	cfg, err := Load(Options{Dir: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := Default()
	want.Server.Address = ":9090"
	want.Server.ShutdownTimeout = 5 * time.Second
	want.Server.MaxSessions = 10
	want.GraphQL.Endpoint = "https://api.example.com/graphql"
	want.GraphQL.Headers = []string{"Authorization: Bearer abc"}
	want.Log.Format = "json"
	want.DevAPI.Users = []string{"alice:secret", "bob:hunter2"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() (-want +got):\n%s", diff)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `{"server": {"title": "Sign in"}}`)

	cfg, err := Load(Options{File: path})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Title != "Sign in" {
		t.Errorf("Server.Title = %q, want Sign in", cfg.Server.Title)
	}
}

func TestLoadFileErrors(t *testing.T) {
	malformed := writeConfig(t, t.TempDir(), `{"server": `)

	tests := []struct {
		name string
		opts Options
		code string
	}{
		{"missing explicit file", Options{File: filepath.Join(t.TempDir(), "nope.json")}, "E102"},
		{"malformed file", Options{File: malformed}, "E101"},
		{"malformed file in dir", Options{Dir: filepath.Dir(malformed)}, "E101"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.opts)
			if got := lferrors.Code(err); got != tt.code {
				t.Errorf("Load() error = %v, code %q, want %q", err, got, tt.code)
			}
		})
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"server": {"address": ":9090"}, "log": {"level": "warn"}}`)

	t.Setenv("LOGINFORM_SERVER_ADDRESS", ":9191")
	t.Setenv("LOGINFORM_SESSION_READ_TIMEOUT", "2m")
	t.Setenv("LOGINFORM_DEVAPI_USERS", "a:b,c:d")

	cfg, err := Load(Options{Dir: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Address != ":9191" {
		t.Errorf("env did not override file: Server.Address = %q", cfg.Server.Address)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn from file", cfg.Log.Level)
	}
	if cfg.Session.ReadTimeout != 2*time.Minute {
		t.Errorf("Session.ReadTimeout = %v, want 2m", cfg.Session.ReadTimeout)
	}
	if diff := cmp.Diff([]string{"a:b", "c:d"}, cfg.DevAPI.Users); diff != "" {
		t.Errorf("DevAPI.Users (-want +got):\n%s", diff)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, "addr", "log-level")
	if err := fs.Parse([]string{"--addr", ":9292"}); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(Options{Dir: dir, Flags: fs})
	if err != nil {
		t.Fatalf("Load() with flags error: %v", err)
	}
	if cfg.Server.Address != ":9292" {
		t.Errorf("flag did not override env: Server.Address = %q", cfg.Server.Address)
	}
	// An unset flag does not shadow the file.
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn from file", cfg.Log.Level)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("LOGINFORM_LOG_FORMAT", "xml")

	_, err := Load(Options{Dir: t.TempDir()})
	if got := lferrors.Code(err); got != "E103" {
		t.Fatalf("Load() error = %v, want E103", err)
	}
	if !strings.Contains(err.Error(), "log.format") {
		t.Errorf("error %q does not name log.format", err)
	}
	var reasons *multierror.Error
	if !errors.As(err, &reasons) || len(reasons.Errors) != 1 {
		t.Errorf("Load() error = %v, want one wrapped validation reason", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty address", func(c *Config) { c.Server.Address = "" }, "server.address: must not be empty"},
		{"address without port", func(c *Config) { c.Server.Address = "localhost" }, "server.address"},
		{"negative max sessions", func(c *Config) { c.Server.MaxSessions = -1 }, "server.max_sessions"},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "server.shutdown_timeout must be positive"},
		{"zero read timeout", func(c *Config) { c.Session.ReadTimeout = 0 }, "session.read_timeout must be positive"},
		{"heartbeat too slow", func(c *Config) { c.Session.HeartbeatInterval = 2 * c.Session.ReadTimeout }, "shorter than session.read_timeout"},
		{"zero message size", func(c *Config) { c.Session.MaxMessageSize = 0 }, "session.max_message_size"},
		{"zero queue", func(c *Config) { c.Session.MaxEventQueue = 0 }, "session.max_event_queue"},
		{"relative endpoint", func(c *Config) { c.GraphQL.Endpoint = "/graphql" }, "graphql.endpoint must be an absolute"},
		{"ftp endpoint", func(c *Config) { c.GraphQL.Endpoint = "ftp://example.com/graphql" }, "graphql.endpoint"},
		{"bad header", func(c *Config) { c.GraphQL.Headers = []string{"no colon"} }, "graphql.headers"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, `log.level: unknown level "loud"`},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"tracing without endpoint", func(c *Config) { c.Tracing.Enabled = true; c.Tracing.Endpoint = "" }, "tracing.endpoint is required"},
		{"sample ratio", func(c *Config) { c.Tracing.SampleRatio = 1.5 }, "tracing.sample_ratio"},
		{"devapi address", func(c *Config) { c.DevAPI.Address = "nope" }, "devapi.address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Server.Address = ""
	cfg.Log.Format = "xml"
	cfg.Session.MaxEventQueue = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil")
	}
	if lines := strings.Split(err.Error(), "\n"); len(lines) != 3 {
		t.Errorf("Validate() reported %d problems, want 3:\n%s", len(lines), err)
	}
}

func TestServerConfig(t *testing.T) {
	cfg := Default()
	cfg.Server.Address = ":9999"
	cfg.Server.MaxSessions = 3
	cfg.Session.MaxEventQueue = 8

	sc := cfg.ServerConfig()
	if sc.Address != ":9999" || sc.MaxSessions != 3 || sc.Title != "Login" {
		t.Errorf("ServerConfig() = %+v", sc)
	}
	if sc.SessionConfig.MaxEventQueue != 8 || sc.SessionConfig.ReadTimeout != cfg.Session.ReadTimeout {
		t.Errorf("SessionConfig = %+v", sc.SessionConfig)
	}
	if sc.CheckOrigin == nil {
		t.Error("CheckOrigin not set")
	}
}

func TestHeaderMap(t *testing.T) {
	g := GraphQLConfig{Headers: []string{"Authorization: Bearer abc", "X-Trace:1"}}
	got, err := g.HeaderMap()
	if err != nil {
		t.Fatalf("HeaderMap() error: %v", err)
	}
	want := map[string]string{"Authorization": "Bearer abc", "X-Trace": "1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("HeaderMap() (-want +got):\n%s", diff)
	}
	if _, err := (GraphQLConfig{Headers: []string{": empty name"}}).HeaderMap(); err == nil {
		t.Error("HeaderMap() accepted an empty header name")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("json output = %s", out)
	}

	buf.Reset()
	LogConfig{Level: "debug", Format: "text"}.NewLogger(&buf).Debug("dbg")
	if !strings.Contains(buf.String(), "msg=dbg") {
		t.Errorf("text output = %s", buf.String())
	}
}

func TestRegisterFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	for name := range flagKeys {
		RegisterFlags(fs, name)
	}
	if f := fs.Lookup("endpoint"); f == nil || f.DefValue != Default().GraphQL.Endpoint {
		t.Errorf("endpoint flag = %+v", f)
	}

	defer func() {
		if recover() == nil {
			t.Error("RegisterFlags did not panic on an unknown flag")
		}
	}()
	RegisterFlags(fs, "bogus")
}
