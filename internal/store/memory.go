package store

import (
    "context"
    "sync"
    "time"

    "github.com/google/uuid"
    "ridefleet/internal/opt"
)

// Memory is a simple in-memory store used when no database is configured.
type Memory struct {
    mu     sync.Mutex
    runs   map[string]Run          // id -> run
    order  []string                // ids in insertion order
    planMx map[string]map[string]opt.Metrics // dataset -> algo -> metrics
}

func NewMemory() *Memory {
    return &Memory{
        runs: map[string]Run{},
        planMx: map[string]map[string]opt.Metrics{},
    }
}

func (m *Memory) SaveRun(ctx context.Context, run Run) (Run, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    if run.ID == "" { run.ID = uuid.New().String() }
    if run.CreatedAt.IsZero() { run.CreatedAt = time.Now().UTC() }
    if _, exists := m.runs[run.ID]; !exists {
        m.order = append(m.order, run.ID)
    }
    m.runs[run.ID] = run
    return run, nil
}

func (m *Memory) GetRun(ctx context.Context, id string) (Run, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    run, ok := m.runs[id]
    if !ok { return Run{}, ErrNotFound }
    return run, nil
}

func (m *Memory) ListRuns(ctx context.Context, kind, cursor string, limit int) ([]Run, string, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    limit = clampLimit(limit)
    start := len(m.order) - 1
    if cursor != "" {
        // an unknown cursor yields an empty page, as in the SQL stores
        start = -1
        for i := len(m.order) - 1; i >= 0; i-- {
            if m.order[i] == cursor { start = i - 1; break }
        }
    }
    out := []Run{}
    var next string
    for i := start; i >= 0; i-- {
        run := m.runs[m.order[i]]
        if kind != "" && run.Kind != kind { continue }
        if len(out) == limit { next = out[len(out)-1].ID; break }
        out = append(out, run)
    }
    return out, next, nil
}

func (m *Memory) SavePlanMetrics(ctx context.Context, dataset, algo string, mx opt.Metrics) error {
    m.mu.Lock(); defer m.mu.Unlock()
    if m.planMx[dataset] == nil { m.planMx[dataset] = map[string]opt.Metrics{} }
    m.planMx[dataset][algo] = mx
    return nil
}

func (m *Memory) ListPlanMetrics(ctx context.Context, dataset string) (map[string]opt.Metrics, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    out := map[string]opt.Metrics{}
    for algo, mx := range m.planMx[dataset] { out[algo] = mx }
    return out, nil
}
