package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fortress-arena/internal/config"
	"fortress-arena/internal/store"
)

// Server bundles the HTTP router with its dependencies and lifecycle.
// Construction does not open listeners; Start does.
type Server struct {
	cfg         config.ServerConfig
	router      *chi.Mux
	rateLimiter *IPRateLimiter
	httpSrv     *http.Server
}

// NewServer wires the router against the given store.
func NewServer(cfg config.ServerConfig, db *store.DB) *Server {
	rl := NewIPRateLimiter(cfg)
	router := NewRouter(RouterConfig{
		DB:          db,
		Server:      cfg,
		RateLimiter: rl,
	})
	return &Server{
		cfg:         cfg,
		router:      router,
		rateLimiter: rl,
	}
}

// Router exposes the handler for tests (httptest.NewServer).
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start blocks serving HTTP until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Printf("arena API listening on :%d", s.cfg.Port)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains connections and stops background workers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.Stop()
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
