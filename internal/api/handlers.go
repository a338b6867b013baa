package api

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "strings"
    "time"

    "ridefleet/internal/opt"
    "ridefleet/internal/score"
    "ridefleet/internal/store"
)

// PlanHandler handles POST /v1/plan
func (s *Server) PlanHandler(w http.ResponseWriter, r *http.Request) {
    if r.URL.Path != "/v1/plan" { writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path); return }
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    var req planRequest
    if !s.decode(w, r, &req) { return }
    if err := validatePlanRequest(&req); err != nil {
        writeProblem(w, http.StatusBadRequest, "Invalid plan request", err.Error(), r.URL.Path)
        return
    }
    world, err := req.build(s.Config)
    if err != nil {
        writeProblem(w, http.StatusBadRequest, "Invalid world", err.Error(), r.URL.Path)
        return
    }
    res, err := s.executePlan(r.Context(), req.RunID, req.Dataset, world, nil)
    if err != nil {
        writeProblem(w, http.StatusInternalServerError, "Plan failed", err.Error(), r.URL.Path)
        return
    }
    writeJSON(w, http.StatusOK, res)
}

// ScoreHandler handles POST /v1/score
func (s *Server) ScoreHandler(w http.ResponseWriter, r *http.Request) {
    if r.URL.Path != "/v1/score" { writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path); return }
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    var req scoreRequest
    if !s.decode(w, r, &req) { return }
    world, err := req.build(s.Config)
    if err != nil {
        writeProblem(w, http.StatusBadRequest, "Invalid world", err.Error(), r.URL.Path)
        return
    }
    lines, err := req.assignmentLines()
    if err != nil {
        writeProblem(w, http.StatusBadRequest, "Invalid assignment", err.Error(), r.URL.Path)
        return
    }
    res, err := s.executeScore(r.Context(), req.Dataset, world, lines)
    switch {
    case errors.Is(err, score.ErrValidation):
        writeProblem(w, http.StatusUnprocessableEntity, "Invalid assignment", err.Error(), "/v1/runs/"+res.RunID)
        return
    case err != nil:
        writeProblem(w, http.StatusInternalServerError, "Score failed", err.Error(), r.URL.Path)
        return
    }
    writeJSON(w, http.StatusOK, res)
}

// RunsIndexHandler handles GET /v1/runs
func (s *Server) RunsIndexHandler(w http.ResponseWriter, r *http.Request) {
    if r.URL.Path != "/v1/runs" { writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path); return }
    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    q := r.URL.Query()
    kind := q.Get("kind")
    if kind != "" && kind != store.KindPlan && kind != store.KindScore {
        writeProblem(w, http.StatusBadRequest, "Invalid kind", "kind must be plan or score", r.URL.Path)
        return
    }
    limit := 100
    if v := q.Get("limit"); v != "" { fmt.Sscanf(v, "%d", &limit) }
    items, next, err := s.Store.ListRuns(r.Context(), kind, q.Get("cursor"), limit)
    if err != nil { writeProblem(w, 500, "List runs failed", err.Error(), r.URL.Path); return }
    writeJSON(w, 200, map[string]any{"items": items, "nextCursor": next})
}

// RunByIDHandler handles GET /v1/runs/{id} and /v1/runs/{id}/events/stream
func (s *Server) RunByIDHandler(w http.ResponseWriter, r *http.Request) {
    path := r.URL.Path
    rest := strings.TrimPrefix(path, "/v1/runs/")
    if rest == path || rest == "" {
        writeProblem(w, http.StatusNotFound, "Not Found", "missing id", path)
        return
    }
    parts := strings.Split(rest, "/")
    id := parts[0]
    if len(parts) == 3 && parts[1] == "events" && parts[2] == "stream" {
        if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
        s.streamRunEvents(w, r, id)
        return
    }
    if len(parts) > 1 {
        writeProblem(w, http.StatusNotFound, "Not Found", "", path)
        return
    }
    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    run, err := s.Store.GetRun(r.Context(), id)
    if errors.Is(err, store.ErrNotFound) {
        writeProblem(w, http.StatusNotFound, "Run not found", id, path)
        return
    }
    if err != nil {
        writeProblem(w, http.StatusInternalServerError, "Get run failed", err.Error(), path)
        return
    }
    writeJSON(w, http.StatusOK, run)
}

// streamRunEvents relays broker events for a run as server-sent events until
// the client goes away.
func (s *Server) streamRunEvents(w http.ResponseWriter, r *http.Request, id string) {
    flusher, ok := w.(http.Flusher)
    if !ok { writeProblem(w, 500, "Streaming unsupported", "", r.URL.Path); return }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("Connection", "keep-alive")
    ch := s.Broker.Subscribe(id)
    defer s.Broker.Unsubscribe(id, ch)

    heartbeat := func() {
        fmt.Fprintf(w, "event: heartbeat\n")
        fmt.Fprintf(w, "data: {\"runId\":\"%s\",\"ts\":\"%s\"}\n\n", id, time.Now().Format(time.RFC3339))
        flusher.Flush()
    }
    heartbeat()
    ticker := time.NewTicker(15 * time.Second)
    defer ticker.Stop()
    for {
        select {
        case <-r.Context().Done():
            return
        case evt, ok := <-ch:
            if !ok { return }
            b, _ := json.Marshal(evt.Data)
            fmt.Fprintf(w, "event: %s\n", evt.Type)
            fmt.Fprintf(w, "data: %s\n\n", string(b))
            flusher.Flush()
        case <-ticker.C:
            heartbeat()
        }
    }
}

// PlanMetricsHandler handles GET /v1/admin/plan-metrics?dataset=
func (s *Server) PlanMetricsHandler(w http.ResponseWriter, r *http.Request) {
    if r.URL.Path != "/v1/admin/plan-metrics" || r.Method != http.MethodGet { writeProblem(w, 404, "Not Found", "", r.URL.Path); return }
    dataset := r.URL.Query().Get("dataset")
    // Prefer stored metrics; fallback to in-memory
    items, err := s.Store.ListPlanMetrics(r.Context(), dataset)
    if err != nil || len(items) == 0 {
        items = opt.GetMetrics(dataset)
    }
    writeJSON(w, 200, map[string]any{"dataset": dataset, "items": items})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
    // Check DB connectivity for the SQL stores
    type pinger interface{ Ping(ctx context.Context) error }
    if pg, ok := s.Store.(pinger); ok {
        ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
        defer cancel()
        if err := pg.Ping(ctx); err != nil { writeProblem(w, 503, "Not Ready", err.Error(), r.URL.Path); return }
    }
    writeJSON(w, 200, map[string]string{"status": "ready"})
}

// decode reads a JSON body bounded by MaxBodyBytes, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
    r.Body = http.MaxBytesReader(w, r.Body, s.Config.MaxBodyBytes)
    dec := json.NewDecoder(r.Body)
    dec.DisallowUnknownFields()
    if err := dec.Decode(v); err != nil {
        writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
        return false
    }
    return true
}
