package api

import (
    "context"
    "log"
    "strings"

    "golang.org/x/time/rate"

    "ridefleet/internal/config"
    "ridefleet/internal/metrics"
    "ridefleet/internal/store"
)

type Server struct {
    Store   store.Store
    Broker  EventBroker
    Config  *config.Config
    limiter *rate.Limiter
}

// NewServer creates a Server. Postgres is used when DatabaseURL is set, SQLite
// when SQLitePath is set, and an in-memory store otherwise.
func NewServer(cfg *config.Config) (*Server, error) {
    if cfg == nil { cfg = config.Default() }
    metrics.RegisterDefault()

    var s store.Store
    switch {
    case strings.TrimSpace(cfg.DatabaseURL) != "":
        sp, err := store.NewPostgres(cfg.DatabaseURL)
        if err != nil {
            return nil, err
        }
        if cfg.DBMigrate {
            if err := sp.Migrate(context.Background()); err != nil {
                return nil, err
            }
        }
        s = sp
    case strings.TrimSpace(cfg.SQLitePath) != "":
        ss, err := store.NewSQLite(cfg.SQLitePath)
        if err != nil {
            return nil, err
        }
        s = ss
    default:
        s = store.NewMemory()
    }

    // Broker selection
    var broker EventBroker
    if cfg.RedisURL != "" {
        if rb, err := NewRedisBroker(cfg.RedisURL); err == nil {
            broker = rb
        } else {
            log.Printf("redis broker unavailable, using in-memory: %v", err)
            broker = NewBroker()
        }
    } else {
        broker = NewBroker()
    }

    var lim *rate.Limiter
    if cfg.RateRPS > 0 {
        lim = rate.NewLimiter(rate.Limit(cfg.RateRPS), max(cfg.RateBurst, 1))
    }
    return &Server{Store: s, Broker: broker, Config: cfg, limiter: lim}, nil
}
