package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fortress-arena/internal/config"
	"fortress-arena/internal/store"
)

// RouterConfig contains the dependencies needed to construct the HTTP
// router. Designed for dependency injection: tests pass a temp-file
// store and a permissive rate limit.
type RouterConfig struct {
	// DB is the battle store (required for the battle and replay
	// endpoints; simulate/verify work without it).
	DB *store.DB

	// Server carries CORS origins and rate limit settings. Zero value
	// falls back to defaults.
	Server config.ServerConfig

	// RateLimiter is optional; built from Server when nil.
	RateLimiter *IPRateLimiter

	// DisableLogging turns off the request logger (benchmarks).
	DisableLogging bool
}

// NewRouter builds the chi router with the full middleware stack.
func NewRouter(cfg RouterConfig) *chi.Mux {
	if cfg.Server.RatePerSecond == 0 {
		cfg.Server = config.DefaultServer()
	}
	rl := cfg.RateLimiter
	if rl == nil {
		rl = NewIPRateLimiter(cfg.Server)
	}

	h := &handlers{db: cfg.DB}
	rs := newReplayStreamer(h)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", handleHealthz)
	r.Handle("/metrics", MetricsHandler())

	r.Route("/api", func(r chi.Router) {
		r.Use(rl.Middleware)
		r.Post("/simulate", h.handleSimulate)
		r.Post("/verify", h.handleVerify)
		r.Post("/guild", h.handleGuild)
		if cfg.DB != nil {
			r.Get("/battles", h.handleListBattles)
			r.Get("/battles/{id}", h.handleGetBattle)
			r.Get("/battles/{id}/events", h.handleGetEvents)
		}
	})

	if cfg.DB != nil {
		r.Get("/ws/replay/{id}", rs.handleReplay)
	}

	return r
}
