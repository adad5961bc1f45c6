package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	lferrors "github.com/vango-dev/loginform/internal/errors"
	"github.com/vango-dev/loginform/pkg/server"
)

const (
	// FileName is the configuration file looked up in the working directory.
	FileName = "loginform.json"

	// EnvPrefix prefixes environment overrides, e.g. LOGINFORM_SERVER_ADDRESS.
	EnvPrefix = "LOGINFORM"
)

// Config is the complete loginform configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Session SessionConfig `mapstructure:"session"`
	GraphQL GraphQLConfig `mapstructure:"graphql"`
	Log     LogConfig     `mapstructure:"log"`
	Tracing TracingConfig `mapstructure:"tracing"`
	DevAPI  DevAPIConfig  `mapstructure:"devapi"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	Title           string        `mapstructure:"title"`
	MaxSessions     int           `mapstructure:"max_sessions"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Metrics         bool          `mapstructure:"metrics"`
}

// SessionConfig configures each live session.
type SessionConfig struct {
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	MaxMessageSize    int64         `mapstructure:"max_message_size"`
	MaxEventQueue     int           `mapstructure:"max_event_queue"`
}

// GraphQLConfig configures the client the form submits through.
type GraphQLConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
	// Headers are sent with every request, as "Name: value".
	Headers []string `mapstructure:"headers"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TracingConfig configures OTLP trace export.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// DevAPIConfig configures the development GraphQL API.
type DevAPIConfig struct {
	Address string `mapstructure:"address"`
	// Users are "username:password" pairs accepted by the login mutation.
	Users []string `mapstructure:"users"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	sc := server.DefaultSessionConfig()
	return &Config{
		Server: ServerConfig{
			Address:         ":8080",
			Title:           "Login",
			ShutdownTimeout: 30 * time.Second,
			Metrics:         true,
		},
		Session: SessionConfig{
			ReadTimeout:       sc.ReadTimeout,
			WriteTimeout:      sc.WriteTimeout,
			HeartbeatInterval: sc.HeartbeatInterval,
			MaxMessageSize:    sc.MaxMessageSize,
			MaxEventQueue:     sc.MaxEventQueue,
		},
		GraphQL: GraphQLConfig{
			Endpoint: "http://localhost:3000/graphql",
			Timeout:  10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Tracing: TracingConfig{
			Endpoint:    "localhost:4317",
			ServiceName: "loginform",
			SampleRatio: 1,
		},
		DevAPI: DevAPIConfig{
			Address: ":3000",
			Users:   []string{"test:test"},
		},
	}
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"addr":          "server.address",
	"title":         "server.title",
	"max-sessions":  "server.max_sessions",
	"endpoint":      "graphql.endpoint",
	"log-level":     "log.level",
	"log-format":    "log.format",
	"tracing":       "tracing.enabled",
	"otlp-endpoint": "tracing.endpoint",
	"devapi-addr":   "devapi.address",
	"user":          "devapi.users",
}

// RegisterFlags adds the named flags to fs, with usage text and the
// defaults of Default(). Unknown names panic.
func RegisterFlags(fs *pflag.FlagSet, names ...string) {
	d := Default()
	for _, name := range names {
		switch name {
		case "addr":
			fs.String(name, d.Server.Address, "address to listen on")
		case "title":
			fs.String(name, d.Server.Title, "document title of the login page")
		case "max-sessions":
			fs.Int(name, d.Server.MaxSessions, "maximum concurrent sessions, 0 for unlimited")
		case "endpoint":
			fs.String(name, d.GraphQL.Endpoint, "GraphQL endpoint the login mutation is sent to")
		case "log-level":
			fs.String(name, d.Log.Level, "log level: debug, info, warn or error")
		case "log-format":
			fs.String(name, d.Log.Format, "log format: text or json")
		case "tracing":
			fs.Bool(name, d.Tracing.Enabled, "export traces over OTLP/gRPC")
		case "otlp-endpoint":
			fs.String(name, d.Tracing.Endpoint, "OTLP/gRPC collector address")
		case "devapi-addr":
			fs.String(name, d.DevAPI.Address, "address the dev GraphQL API listens on")
		case "user":
			fs.StringSlice(name, d.DevAPI.Users, "dev API user as username:password, repeatable")
		default:
			panic("config: unknown flag " + name)
		}
	}
}

// Options control where Load looks for configuration.
type Options struct {
	// File is an explicit config file path. It must exist when set.
	// Otherwise FileName is read from Dir when present.
	File string

	// Dir is searched for FileName when File is empty. Defaults to ".".
	Dir string

	// Flags are bound by name when they appear in the flag table.
	Flags *pflag.FlagSet
}

// Load builds a Config from defaults, the config file, LOGINFORM_*
// environment variables and flags, in increasing priority, and validates
// it.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readFile(v, opts); err != nil {
		return nil, err
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, lferrors.Wrap("E103", err)
				}
			}
		}
	}

	cfg := &Config{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return nil, lferrors.New("E103").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, lferrors.New("E103").Wrap(err)
	}
	return cfg, nil
}

func readFile(v *viper.Viper, opts Options) error {
	v.SetConfigType("json")
	if opts.File != "" {
		if _, err := os.Stat(opts.File); errors.Is(err, fs.ErrNotExist) {
			return lferrors.New("E102").Wrap(err)
		}
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return lferrors.New("E101").Wrap(err)
		}
		return nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	v.SetConfigName(strings.TrimSuffix(FileName, ".json"))
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return lferrors.New("E101").Wrap(err)
	}
	return nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.title", d.Server.Title)
	v.SetDefault("server.max_sessions", d.Server.MaxSessions)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.metrics", d.Server.Metrics)

	v.SetDefault("session.read_timeout", d.Session.ReadTimeout)
	v.SetDefault("session.write_timeout", d.Session.WriteTimeout)
	v.SetDefault("session.heartbeat_interval", d.Session.HeartbeatInterval)
	v.SetDefault("session.max_message_size", d.Session.MaxMessageSize)
	v.SetDefault("session.max_event_queue", d.Session.MaxEventQueue)

	v.SetDefault("graphql.endpoint", d.GraphQL.Endpoint)
	v.SetDefault("graphql.timeout", d.GraphQL.Timeout)
	v.SetDefault("graphql.headers", d.GraphQL.Headers)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.insecure", d.Tracing.Insecure)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("tracing.sample_ratio", d.Tracing.SampleRatio)

	v.SetDefault("devapi.address", d.DevAPI.Address)
	v.SetDefault("devapi.users", d.DevAPI.Users)
}

// Validate reports every invalid value at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	add := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf(format, args...))
	}

	if err := checkAddress(c.Server.Address); err != nil {
		add("server.address: %v", err)
	}
	if c.Server.MaxSessions < 0 {
		add("server.max_sessions must not be negative, got %d", c.Server.MaxSessions)
	}

	positive := []struct {
		key string
		d   time.Duration
	}{
		{"server.shutdown_timeout", c.Server.ShutdownTimeout},
		{"session.read_timeout", c.Session.ReadTimeout},
		{"session.write_timeout", c.Session.WriteTimeout},
		{"session.heartbeat_interval", c.Session.HeartbeatInterval},
		{"graphql.timeout", c.GraphQL.Timeout},
	}
	for _, p := range positive {
		if p.d <= 0 {
			add("%s must be positive, got %v", p.key, p.d)
		}
	}
	if c.Session.HeartbeatInterval >= c.Session.ReadTimeout && c.Session.ReadTimeout > 0 {
		add("session.heartbeat_interval (%v) must be shorter than session.read_timeout (%v)",
			c.Session.HeartbeatInterval, c.Session.ReadTimeout)
	}
	if c.Session.MaxMessageSize <= 0 {
		add("session.max_message_size must be positive, got %d", c.Session.MaxMessageSize)
	}
	if c.Session.MaxEventQueue <= 0 {
		add("session.max_event_queue must be positive, got %d", c.Session.MaxEventQueue)
	}

	if u, err := url.Parse(c.GraphQL.Endpoint); err != nil {
		add("graphql.endpoint: %v", err)
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("graphql.endpoint must be an absolute http(s) URL, got %q", c.GraphQL.Endpoint)
	}
	if _, err := c.GraphQL.HeaderMap(); err != nil {
		add("graphql.headers: %v", err)
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		add("log.level: %v", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		add("log.format must be text or json, got %q", c.Log.Format)
	}

	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		add("tracing.endpoint is required when tracing is enabled")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		add("tracing.sample_ratio must be within [0, 1], got %v", c.Tracing.SampleRatio)
	}

	if err := checkAddress(c.DevAPI.Address); err != nil {
		add("devapi.address: %v", err)
	}

	if result == nil {
		return nil
	}
	result.ErrorFormat = listFormat
	return result
}

func listFormat(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}

func checkAddress(addr string) error {
	if addr == "" {
		return errors.New("must not be empty")
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return err
	}
	return nil
}

// HeaderMap parses Headers into name/value pairs.
func (c GraphQLConfig) HeaderMap() (map[string]string, error) {
	out := make(map[string]string, len(c.Headers))
	for _, h := range c.Headers {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("header %q is not of the form Name: value", h)
		}
		out[name] = strings.TrimSpace(value)
	}
	return out, nil
}

// ServerConfig converts the server and session sections into the
// configuration pkg/server consumes.
func (c *Config) ServerConfig() *server.ServerConfig {
	sc := server.DefaultServerConfig()
	sc.Address = c.Server.Address
	sc.Title = c.Server.Title
	sc.MaxSessions = c.Server.MaxSessions
	sc.ShutdownTimeout = c.Server.ShutdownTimeout
	sc.SessionConfig = &server.SessionConfig{
		ReadTimeout:       c.Session.ReadTimeout,
		WriteTimeout:      c.Session.WriteTimeout,
		HeartbeatInterval: c.Session.HeartbeatInterval,
		MaxMessageSize:    c.Session.MaxMessageSize,
		MaxEventQueue:     c.Session.MaxEventQueue,
	}
	return sc
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("unknown level %q", s)
	}
	return l, nil
}

// NewLogger builds the slog logger described by c, writing to w.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
