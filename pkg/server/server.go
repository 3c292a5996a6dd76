package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vdiff/internal/errors"
	"github.com/vango-dev/vdiff/pkg/observe"
	"github.com/vango-dev/vdiff/pkg/render"
	"github.com/vango-dev/vdiff/pkg/store"
)

// Server is the HTTP/WebSocket diff server.
type Server struct {
	config   *ServerConfig
	router   chi.Router
	upgrader websocket.Upgrader
	differ   *observe.Differ
	renderer *render.Renderer
	store    store.Store
	metrics  *serverMetrics
	logger   *slog.Logger

	mu         sync.Mutex
	sessions   map[string]*Session
	httpServer *http.Server
}

// New creates a Server. A nil config uses DefaultServerConfig.
func New(cfg *ServerConfig) *Server {
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	cfg = cfg.withDefaults()

	// A nil *Registry must not reach promauto as a non-nil interface.
	var reg prometheus.Registerer
	if cfg.Registry != nil {
		reg = cfg.Registry
	}
	diffOpts := append(append([]observe.Option(nil), cfg.DiffOptions...), observe.WithRegistry(reg))

	s := &Server{
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
		differ:   observe.NewDiffer(diffOpts...),
		renderer: render.NewRenderer(cfg.Render),
		store:    cfg.Store,
		metrics:  newServerMetrics(reg, cfg.MetricsNamespace),
		logger:   cfg.Logger.With("component", "server"),
		sessions: make(map[string]*Session),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Post("/diff", s.handleDiff)
	r.Get("/ws", s.HandleWebSocket)
	r.Route("/sessions/{session}", func(r chi.Router) {
		r.Get("/frames", s.handleListFrames)
		r.Get("/frames/{seq}", s.handleGetFrame)
	})
	if s.config.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{
			Registry: s.config.Registry,
		}))
	}
	return r
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on the configured address and serves until ctx is done, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done or the server is shut
// down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.httpServer != nil {
		s.mu.Unlock()
		ln.Close()
		return ErrServerRunning
	}
	s.httpServer = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}
	srv := s.httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every session and then stops the HTTP server, waiting up
// to ShutdownTimeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by http.Server.
	for _, sess := range s.liveSessions() {
		sess.Close()
	}

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Session returns a live session by ID.
func (s *Server) Session(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) liveSessions() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

func (s *Server) addSession(sess *Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.metrics.activeSessions.Inc()
	s.metrics.sessionsTotal.Inc()
}

func (s *Server) removeSession(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
	s.metrics.activeSessions.Dec()
}

// Frame returns an encoded patch frame of a session, from the live
// session's history or else from the archive.
func (s *Server) Frame(ctx context.Context, sessionID string, seq uint64) ([]byte, error) {
	if sess, ok := s.Session(sessionID); ok {
		if frame, ok := sess.History().Get(seq); ok {
			return frame, nil
		}
	}
	if s.store == nil {
		return nil, ErrFrameNotFound
	}
	frame, err := s.store.Get(ctx, store.Key(sessionID, seq))
	if errors.Is(err, errors.CodeObjectNotFound) {
		return nil, ErrFrameNotFound
	}
	return frame, err
}

// Frames lists the sequence numbers available for a session, from the
// archive and the live history, in ascending order.
func (s *Server) Frames(ctx context.Context, sessionID string) ([]uint64, error) {
	seen := map[uint64]bool{}
	if s.store != nil {
		keys, err := s.store.List(ctx, store.SessionPrefix(sessionID))
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			if id, seq, ok := store.ParseKey(key); ok && id == sessionID {
				seen[seq] = true
			}
		}
	}
	if sess, ok := s.Session(sessionID); ok {
		if lo, hi, ok := sess.History().Bounds(); ok {
			for seq := lo; seq <= hi; seq++ {
				seen[seq] = true
			}
		}
	}

	out := make([]uint64, 0, len(seen))
	for seq := range seen {
		out = append(out, seq)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Logger returns the server's logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}
