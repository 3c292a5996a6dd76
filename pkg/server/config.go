package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vango-dev/vdiff/internal/config"
	"github.com/vango-dev/vdiff/pkg/observe"
	"github.com/vango-dev/vdiff/pkg/render"
	"github.com/vango-dev/vdiff/pkg/store"
)

// ServerConfig holds configuration for the diff server.
type ServerConfig struct {
	// Address is the address to listen on (e.g., ":7070").
	// Default: "localhost:7070".
	Address string

	// WebSocket buffer sizes

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// CheckOrigin is called to validate the request origin.
	// Default: allows all origins.
	CheckOrigin func(r *http.Request) bool

	// Limits

	// MaxMessageBytes is the maximum size of a WebSocket message or a
	// /diff request body.
	// Default: 1MB.
	MaxMessageBytes int64

	// MaxPatchHistory is the number of recent frames each session keeps for
	// replay.
	// Default: 100.
	MaxPatchHistory int

	// Timeouts

	// ReadTimeout is the maximum time to wait for a message from the client.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// ReadHeaderTimeout bounds reading HTTP request headers.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 30 seconds.
	ShutdownTimeout time.Duration

	// Collaborators

	// Registry receives the server and diff metrics and is served on
	// /metrics. Nil disables metrics.
	Registry *prometheus.Registry

	// MetricsNamespace prefixes the server metrics.
	// Default: "vdiff".
	MetricsNamespace string

	// DiffOptions configure the instrumented differ. WithRegistry is
	// supplied by the server.
	DiffOptions []observe.Option

	// Render configures the markup returned by /diff when requested.
	Render render.RendererConfig

	// Store archives every patch frame sent. Nil disables archiving.
	Store store.Store

	// Logger is the structured logger. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           config.DefaultHost + ":7070",
		ReadBufferSize:    config.DefaultBufferSize,
		WriteBufferSize:   config.DefaultBufferSize,
		CheckOrigin:       func(r *http.Request) bool { return true },
		MaxMessageBytes:   config.DefaultMaxMessageBytes,
		MaxPatchHistory:   100,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   30 * time.Second,
		MetricsNamespace:  "vdiff",
	}
}

// FromConfig maps the file configuration onto a ServerConfig. The registry
// is created when metrics are enabled; Store and tracing are left to the
// caller.
func FromConfig(cfg *config.Config) *ServerConfig {
	sc := DefaultServerConfig()
	sc.Address = cfg.Address()
	sc.ReadBufferSize = cfg.Server.ReadBufferSize
	sc.WriteBufferSize = cfg.Server.WriteBufferSize
	sc.MaxMessageBytes = cfg.Server.MaxMessageBytes
	sc.Render = render.RendererConfig{
		Pretty:       cfg.Render.Pretty,
		Indent:       cfg.Render.Indent,
		HandlerAttrs: cfg.Render.HandlerAttrs,
	}
	if cfg.Metrics.Enabled {
		sc.Registry = prometheus.NewRegistry()
		sc.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		sc.MetricsNamespace = cfg.Metrics.Namespace
		sc.DiffOptions = append(sc.DiffOptions,
			observe.WithNamespace(cfg.Metrics.Namespace),
			observe.WithSubsystem(cfg.Metrics.Subsystem),
		)
	}
	return sc
}

// withDefaults fills in defaults for any unset fields.
func (c *ServerConfig) withDefaults() *ServerConfig {
	out := *c
	d := DefaultServerConfig()
	if out.Address == "" {
		out.Address = d.Address
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = d.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = d.WriteBufferSize
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = d.CheckOrigin
	}
	if out.MaxMessageBytes == 0 {
		out.MaxMessageBytes = d.MaxMessageBytes
	}
	if out.MaxPatchHistory == 0 {
		out.MaxPatchHistory = d.MaxPatchHistory
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = d.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.MetricsNamespace == "" {
		out.MetricsNamespace = d.MetricsNamespace
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}
