package api

import (
    "encoding/json"
    "net/http"
    "time"

    "ridefleet/internal/buildinfo"
    "ridefleet/internal/store"
)

// DebugJSON handles /debug/vars with build info and the effective config.
func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
    info := map[string]any{
        "build":  buildinfo.Info(),
        "time":   time.Now().UTC().Format(time.RFC3339),
        "config": s.Config.Public(),
        "store":  storeKind(s),
    }
    w.Header().Set("Content-Type", "application/json")
    _ = json.NewEncoder(w).Encode(info)
}

func storeKind(s *Server) string {
    switch s.Store.(type) {
    case *store.Postgres:
        return "postgres"
    case *store.SQLite:
        return "sqlite"
    case *store.Memory:
        return "memory"
    }
    return "custom"
}
