package metrics

import (
    "sync"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
)

var (
    // Registry is the dedicated Prometheus registry for the API
    Registry = prometheus.NewRegistry()
    // HTTPRequests counts requests by method, path, and status
    HTTPRequests = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
        []string{"method", "path", "status"},
    )
    // HTTPDuration records request durations in seconds
    HTTPDuration = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
        []string{"method", "path", "status"},
    )

    // Solves counts solve outcomes by status (completed, no_solution, error)
    Solves = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "solves_total", Help: "Solve requests by outcome."},
        []string{"status"},
    )
    // SolveDuration tracks wall-clock solve time in seconds
    SolveDuration = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{Name: "solve_duration_seconds", Help: "Solve wall-clock duration in seconds.", Buckets: []float64{0.1, 0.5, 1, 3, 5, 8, 10, 15, 30}},
        []string{"status"},
    )
    // DroppedVisits counts customers dropped from solutions
    DroppedVisits = prometheus.NewCounter(
        prometheus.CounterOpts{Name: "solve_dropped_visits_total", Help: "Total customer visits dropped across solves."},
    )
    // SearchIterations tracks engine iterations per solve
    SearchIterations = prometheus.NewHistogram(
        prometheus.HistogramOpts{Name: "solve_search_iterations", Help: "Engine iterations per solve.", Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000}},
    )
)

// RegisterDefault registers collectors to the dedicated registry.
func RegisterDefault() {
    regOnce.Do(func(){
        Registry.MustRegister(HTTPRequests)
        Registry.MustRegister(HTTPDuration)
        Registry.MustRegister(Solves)
        Registry.MustRegister(SolveDuration)
        Registry.MustRegister(DroppedVisits)
        Registry.MustRegister(SearchIterations)
        // Go/process collectors on our registry
        Registry.MustRegister(collectors.NewGoCollector())
        Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    })
}

var regOnce sync.Once
