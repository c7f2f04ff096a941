package api

import (
	"log"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fortress-arena/internal/config"
)

// Metrics with bounded cardinality (no per-player labels).
var (
	battlesSimulated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_battles_simulated_total",
		Help: "Battles simulated via the API",
	})

	battleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_battle_duration_ticks",
		Help:    "Battle length in ticks",
		Buckets: []float64{100, 300, 600, 1200, 2400, 4800, 9000},
	})

	simulateLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_simulate_duration_seconds",
		Help:    "Wall time spent running one battle",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	})

	verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_verifications_total",
		Help: "Verification outcomes",
	}, []string{"outcome"}) // bounded: "ok" or a mismatch kind

	requestsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_requests_rejected_total",
		Help: "Requests rejected before handling",
	}, []string{"reason"}) // bounded: "rate_limit", "invalid", "ws_limit"

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_websocket_connections_active",
		Help: "Currently active replay streaming connections",
	})
)

// RecordBattle observes one simulated battle.
func RecordBattle(durationTicks int32, elapsed time.Duration) {
	battlesSimulated.Inc()
	battleDuration.Observe(float64(durationTicks))
	simulateLatency.Observe(elapsed.Seconds())
}

// RecordVerification observes one verification outcome.
func RecordVerification(outcome string) {
	verifications.WithLabelValues(outcome).Inc()
}

// RecordRejected counts a rejected request.
func RecordRejected(reason string) {
	requestsRejected.WithLabelValues(reason).Inc()
}

// MetricsHandler exposes the prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// StartDebugServer runs pprof + metrics on a loopback listener. Never
// expose this address publicly.
func StartDebugServer(cfg config.ObservabilityConfig) error {
	if !cfg.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("debug server on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("debug server: %v", err)
		}
	}()
	return nil
}
