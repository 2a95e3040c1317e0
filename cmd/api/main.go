package main

import (
    "flag"
    "net/http"

    "github.com/prometheus/client_golang/prometheus/promhttp"
    log "github.com/sirupsen/logrus"

    "routesolve/internal/api"
    "routesolve/internal/config"
    "routesolve/internal/metrics"
)

func main() {
    cfgPath := flag.String("config", "", "path to YAML config file")
    flag.Parse()

    cfg, err := config.Load(*cfgPath)
    if err != nil {
        log.Fatalf("failed to load config: %v", err)
    }
    if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
        log.SetLevel(lvl)
    }

    srvDeps, err := api.NewServer(cfg)
    if err != nil {
        log.Fatalf("failed to init server: %v", err)
    }
    metrics.RegisterDefault()

    mux := http.NewServeMux()

    // Solves
    mux.HandleFunc("/v1/solve", srvDeps.SolveHandler)
    mux.HandleFunc("/v1/solves", srvDeps.SolvesHandler)
    mux.HandleFunc("/v1/solves/ws", srvDeps.SolveWSHandler)
    mux.HandleFunc("/v1/solves/", srvDeps.SolveByIDHandler) // includes /events/stream

    // Solver configuration
    mux.HandleFunc("/v1/solver/config", srvDeps.SolverConfigHandler)
    mux.HandleFunc("/v1/admin/solver/config", srvDeps.AdminSolverConfigHandler)

    // Admin
    mux.HandleFunc("/v1/admin/solve-metrics", srvDeps.SolveMetricsHandler)

    // Health & observability
    mux.HandleFunc("/healthz", srvDeps.HealthHandler)
    mux.HandleFunc("/readyz", srvDeps.ReadyHandler)
    mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

    srv := &http.Server{
        Addr:              cfg.Addr,
        Handler:           api.Middleware(mux),
        ReadHeaderTimeout: cfg.ReadHeaderTimeout,
    }

    log.Infof("API listening on %s", cfg.Addr)
    if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
        log.Fatalf("server error: %v", err)
    }
}
