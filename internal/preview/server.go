// Package preview serves the site from an in-memory snapshot and reloads it
// when the content tree changes.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/render"
	"git.home.luguber.info/inful/folio/internal/site"
)

// Server answers page and API requests from the current snapshot.
type Server struct {
	store    *site.Store
	renderer *render.Renderer
	registry *prom.Registry
	status   *buildStatus
	logger   *slog.Logger
	http     *http.Server
}

// NewServer creates a preview server. registry may be nil to disable /metrics.
func NewServer(store *site.Store, renderer *render.Renderer, reloader *Reloader, registry *prom.Registry) *Server {
	status := &buildStatus{}
	if reloader != nil {
		status = reloader.status
	}
	return &Server{store: store, renderer: renderer, registry: registry, status: status, logger: slog.Default()}
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/sections", s.handleSections)
	mux.HandleFunc("GET /api/nav/{section}", s.handleNav)
	mux.HandleFunc("GET /api/routes", s.handleRoutes)
	mux.HandleFunc("GET /api/ls/{section}", s.handleListing)
	mux.HandleFunc("GET /api/ls/{section}/{dir...}", s.handleListing)
	mux.HandleFunc("GET /api/posts", s.handlePosts)
	mux.HandleFunc("GET /api/resolve", s.handleResolve)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.registry != nil {
		mux.Handle("GET /metrics", metrics.HTTPHandler(s.registry))
	}
	mux.HandleFunc("GET /", s.handlePage)
	return chain(s.logger, mux)
}

// Start binds addr and serves in the background.
func (s *Server) Start(ctx context.Context, addr string) (net.Addr, error) {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("preview listen %s: %w", addr, err)
	}
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("preview server error", slog.String("error", err.Error()))
		}
	}()
	return ln.Addr(), nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
