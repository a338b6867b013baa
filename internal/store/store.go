package store

import (
    "context"
    "errors"
    "time"

    "ridefleet/internal/opt"
    "ridefleet/internal/score"
)

// Run kinds
const (
    KindPlan  = "plan"
    KindScore = "score"
)

// Run is one persisted scheduling or scoring request.
type Run struct {
    ID         string        `json:"id"`
    Kind       string        `json:"kind"`
    Dataset    string        `json:"dataset,omitempty"`
    CreatedAt  time.Time     `json:"createdAt"`
    Report     *score.Report `json:"report,omitempty"`
    Assignment [][]int       `json:"assignment,omitempty"`
    Committed  int           `json:"committed"`
    Pruned     int           `json:"pruned"`
    Steps      int           `json:"steps"`
    Error      string        `json:"error,omitempty"`
}

// Store is the persistence interface used by the API server.
type Store interface {
    // Runs. SaveRun assigns ID and CreatedAt when unset.
    SaveRun(ctx context.Context, run Run) (Run, error)
    GetRun(ctx context.Context, id string) (Run, error)
    // ListRuns returns runs newest first; cursor is the last id of the previous page.
    ListRuns(ctx context.Context, kind, cursor string, limit int) ([]Run, string, error)

    // Scheduler metrics, latest per (dataset, algo)
    SavePlanMetrics(ctx context.Context, dataset, algo string, m opt.Metrics) error
    ListPlanMetrics(ctx context.Context, dataset string) (map[string]opt.Metrics, error)
}

var ErrNotFound = errors.New("not found")

func clampLimit(limit int) int {
    if limit <= 0 || limit > 500 { return 100 }
    return limit
}
