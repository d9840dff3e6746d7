// Package server implements the UDP presence/chat server: one datagram
// socket, a session registry, a presence store, a command dispatcher, and
// best-effort fan-out delivery with an append-only message history.
package server

import (
	"context"
	"net"

	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/history"
)

// Config holds server configuration.
type Config struct {
	ListenAddr  string // UDP bind address (e.g. ":1234")
	MetricsAddr string // HTTP bind address for /metrics endpoint (empty = disabled)
	HistoryFile string // append-only history log path (empty = disabled)
	HistoryDB   string // SQLite history database path (empty = disabled)
	LogLevel    string // slog level: debug, info, warn, error
	LogFormat   string // slog format: text or json
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ListenAddr:  ":1234",
		MetricsAddr: ":9602",
		HistoryFile: "history.log",
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Dependencies holds external dependencies for the server.
// Server assumes ownership of Recorder and will Close() it on shutdown.
type Dependencies struct {
	Recorder history.Recorder
}

// Server is the chat server.
type Server struct {
	cfg       Config
	registry  *Registry
	presence  *Presence
	metrics   *Metrics
	recorder  history.Recorder
	transport *Transport
	send      func(addr *net.UDPAddr, payload []byte) error
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates a new Server instance.
func New(cfg Config, deps Dependencies) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	rec := deps.Recorder
	if rec == nil {
		rec = history.Nop{}
	}
	return &Server{
		cfg:      cfg,
		registry: NewRegistry(),
		presence: NewPresence(),
		metrics:  NewMetrics(),
		recorder: rec,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Registry returns the session registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Presence returns the presence store.
func (s *Server) Presence() *Presence {
	return s.presence
}

// Metrics returns the server metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}
