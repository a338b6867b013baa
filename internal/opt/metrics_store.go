package opt

import (
    "sync"
    "time"
)

// Metrics summarizes one scheduling run.
type Metrics struct {
    Rides     int           `json:"rides"`
    Vehicles  int           `json:"vehicles"`
    Steps     int           `json:"steps"`
    Committed int           `json:"committed"`
    Pruned    int           `json:"pruned"`
    Score     int           `json:"score"`
    Elapsed   time.Duration `json:"elapsedNs"`
    At        time.Time     `json:"at"`
}

// MetricsFor fills the counters that come straight from a Plan.
func MetricsFor(p Plan, rides int, elapsed time.Duration) Metrics {
    return Metrics{
        Rides:     rides,
        Vehicles:  len(p.Fleet),
        Steps:     p.Steps,
        Committed: len(p.Committed),
        Pruned:    len(p.Pruned),
        Elapsed:   elapsed,
        At:        time.Now().UTC(),
    }
}

type key struct{
    Dataset string
    Algo string
}

var (
    mu sync.Mutex
    store = map[key]Metrics{}
)

// RecordMetrics keeps the latest run per dataset and algorithm.
func RecordMetrics(dataset, algo string, m Metrics) {
    mu.Lock()
    store[key{Dataset:dataset, Algo:algo}] = m
    mu.Unlock()
}

func GetMetrics(dataset string) map[string]Metrics {
    mu.Lock()
    defer mu.Unlock()
    out := map[string]Metrics{}
    for k, v := range store {
        if k.Dataset == dataset {
            out[k.Algo] = v
        }
    }
    return out
}
