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
    // HTTPThrottled counts requests rejected by the rate limiter
    HTTPThrottled = prometheus.NewCounter(
        prometheus.CounterOpts{Name: "http_throttled_total", Help: "Requests rejected by the rate limiter."},
    )

    // SchedulerRides counts scheduler decisions by outcome (committed, pruned)
    SchedulerRides = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "scheduler_rides_total", Help: "Rides committed or pruned by the scheduler."},
        []string{"outcome"},
    )
    // SchedulerDuration tracks wall time of one scheduling run
    SchedulerDuration = prometheus.NewHistogram(
        prometheus.HistogramOpts{Name: "scheduler_run_seconds", Help: "Scheduler run duration in seconds.", Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 30}},
    )

    // ScoreRuns counts scoring requests by result (ok, invalid)
    ScoreRuns = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "score_runs_total", Help: "Assignment scoring runs by result."},
        []string{"result"},
    )
    // ValidationFailures counts rejected assignments by failing check
    ValidationFailures = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "score_validation_failures_total", Help: "Rejected assignments by check."},
        []string{"check"},
    )
    // LastScore is the total of the most recent successful score per kind (plan, score)
    LastScore = prometheus.NewGaugeVec(
        prometheus.GaugeOpts{Name: "score_last_total", Help: "Most recent score total."},
        []string{"kind"},
    )
)

// RegisterDefault registers collectors to the default registry.
func RegisterDefault() {
    regOnce.Do(func(){
        Registry.MustRegister(HTTPRequests)
        Registry.MustRegister(HTTPDuration)
        Registry.MustRegister(HTTPThrottled)
        Registry.MustRegister(SchedulerRides)
        Registry.MustRegister(SchedulerDuration)
        Registry.MustRegister(ScoreRuns)
        Registry.MustRegister(ValidationFailures)
        Registry.MustRegister(LastScore)
        // Go/process collectors on our registry
        Registry.MustRegister(collectors.NewGoCollector())
        Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    })
}

var regOnce sync.Once
