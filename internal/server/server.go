// ABOUTME: HTTP API server: route table, middleware stack and graceful lifecycle
// ABOUTME: The listener is capped with netutil.LimitListener; shutdown drains within a timeout

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/netutil"

	"github.com/mauromedda/unpack/internal/config"
	"github.com/mauromedda/unpack/internal/engine"
	pilog "github.com/mauromedda/unpack/internal/log"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server serves the /api endpoints.
type Server struct {
	engine   *engine.Engine
	store    *config.Store
	models   *config.ModelStore
	settings config.Server
	now      func() time.Time
	handler  http.Handler
}

// New builds the server and its handler chain.
func New(eng *engine.Engine, store *config.Store, models *config.ModelStore, settings config.Server) *Server {
	s := &Server{
		engine:   eng,
		store:    store,
		models:   models,
		settings: settings,
		now:      time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/models", s.handleModels)
	mux.HandleFunc("GET /api/backend-config", s.handleGetBackend)
	mux.HandleFunc("POST /api/backend-config", s.handleUpdateBackend)
	mux.HandleFunc("POST /api/configure", s.handleConfigure)
	mux.HandleFunc("POST /api/check-and-respond", s.handleCheckAndRespond)
	mux.HandleFunc("POST /api/generate-final", s.handleGenerateFinal)

	s.handler = chain(mux,
		requestID,
		logRequests,
		recoverPanics,
		cors(settings.AllowedOrigins),
	)
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe listens on the configured address and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.settings.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.settings.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is done, then shuts down gracefully. It
// returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.settings.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.settings.MaxConns)
	}
	srv := newHTTPServer(s.handler, s.settings.UpstreamTimeout)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	pilog.Info("server: listening on %s", ln.Addr())

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	timeout := s.settings.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pilog.Info("server: shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// newHTTPServer sets header, read and idle timeouts. The write timeout leaves
// room for one upstream model call.
func newHTTPServer(handler http.Handler, upstream time.Duration) *http.Server {
	if upstream <= 0 {
		upstream = 60 * time.Second
	}
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      upstream + 30*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
