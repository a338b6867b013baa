package main

import (
    "log"
    "net/http"
    "time"

    "github.com/prometheus/client_golang/prometheus/promhttp"

    "ridefleet/internal/api"
    "ridefleet/internal/config"
    "ridefleet/internal/metrics"
)

func main() {
    cfg, err := config.Load()
    if err != nil {
        log.Fatalf("failed to load config: %v", err)
    }
    srvDeps, err := api.NewServer(cfg)
    if err != nil {
        log.Fatalf("failed to init server: %v", err)
    }

    mux := http.NewServeMux()

    // Scheduling and scoring
    mux.HandleFunc("/v1/plan", srvDeps.PlanHandler)
    mux.HandleFunc("/v1/plan/ws", srvDeps.PlanWSHandler)
    mux.HandleFunc("/v1/score", srvDeps.ScoreHandler)

    // Runs
    mux.HandleFunc("/v1/runs", srvDeps.RunsIndexHandler)
    mux.HandleFunc("/v1/runs/", srvDeps.RunByIDHandler) // includes /events/stream

    // Admin
    mux.HandleFunc("/v1/admin/plan-metrics", srvDeps.PlanMetricsHandler)

    // Health
    mux.HandleFunc("/healthz", srvDeps.HealthHandler)
    mux.HandleFunc("/readyz", srvDeps.ReadyHandler)

    // Ops
    mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
    mux.HandleFunc("/debug/vars", srvDeps.DebugJSON)

    addr := cfg.Addr()
    srv := &http.Server{
        Addr:              addr,
        Handler:           logMiddleware(api.Instrument(srvDeps.RateLimit(mux))),
        ReadHeaderTimeout: 5 * time.Second,
    }

    log.Printf("API listening on %s", addr)
    if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
        log.Fatalf("server error: %v", err)
    }
}

func logMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        next.ServeHTTP(w, r)
        dur := time.Since(start)
        log.Printf("%s %s %s %v", r.RemoteAddr, r.Method, r.URL.Path, dur)
    })
}
