package server

import (
	"net/http"
	"net/url"
	"time"
)

// SessionConfig tunes one WebSocket session.
type SessionConfig struct {
	// ReadTimeout closes a connection that has been silent this long.
	// Pongs count as traffic.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// HeartbeatInterval is the period of server pings. It must be shorter
	// than ReadTimeout.
	HeartbeatInterval time.Duration

	MaxMessageSize int64

	// MaxEventQueue bounds the task queue that client events and
	// dispatched functions share. Events beyond it are rejected.
	MaxEventQueue int
}

func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		ReadTimeout:       time.Minute,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    64 << 10,
		MaxEventQueue:     256,
	}
}

// ServerConfig configures a Server. New fills in CheckOrigin and
// SessionConfig when they are nil.
type ServerConfig struct {
	Address string
	Title   string // document title of the page

	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool

	SessionConfig   *SessionConfig
	ShutdownTimeout time.Duration

	// MaxSessions caps concurrent sessions; 0 is unlimited.
	MaxSessions int
}

func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:         ":8080",
		Title:           "Login",
		ReadBufferSize:  4 << 10,
		WriteBufferSize: 4 << 10,
		CheckOrigin:     SameOriginCheck,
		SessionConfig:   DefaultSessionConfig(),
		ShutdownTimeout: 30 * time.Second,
	}
}

// SameOriginCheck allows WebSocket upgrades without an Origin header, and
// those whose Origin host equals the request host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && r.Host != "" && u.Host == r.Host
}

// Clone returns a deep copy.
func (c *ServerConfig) Clone() *ServerConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.SessionConfig != nil {
		sc := *c.SessionConfig
		out.SessionConfig = &sc
	}
	return &out
}
