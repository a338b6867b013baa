package store

import (
    "context"
    "database/sql"
    _ "embed"
    "errors"
    "fmt"
    "sync"
    "time"

    _ "modernc.org/sqlite"

    "ridefleet/internal/opt"
)

//go:embed sqlite_schema.sql
var sqliteSchema string

// SQLite is a single-file store for deployments without Postgres.
type SQLite struct {
    db      *sql.DB
    writeMu sync.Mutex // SQLite has one writer
}

// NewSQLite opens (creating if needed) the database at path and ensures the schema.
func NewSQLite(path string) (*SQLite, error) {
    dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
    db, err := sql.Open("sqlite", dsn)
    if err != nil {
        return nil, fmt.Errorf("open sqlite: %w", err)
    }
    db.SetMaxOpenConns(1)
    db.SetMaxIdleConns(1)
    db.SetConnMaxLifetime(time.Hour)
    if err := db.Ping(); err != nil {
        db.Close()
        return nil, fmt.Errorf("ping sqlite: %w", err)
    }
    if _, err := db.Exec(sqliteSchema); err != nil {
        db.Close()
        return nil, fmt.Errorf("sqlite schema: %w", err)
    }
    return &SQLite{db: db}, nil
}

func (s *SQLite) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) SaveRun(ctx context.Context, run Run) (Run, error) {
    run, rep, asg, err := prepareRun(run)
    if err != nil { return Run{}, err }
    s.writeMu.Lock()
    defer s.writeMu.Unlock()
    _, err = s.db.ExecContext(ctx, `INSERT INTO runs (id, kind, dataset, created_at, report, assignment, committed, pruned, steps, error)
        VALUES (?,?,?,?,?,?,?,?,?,?)
        ON CONFLICT (id) DO UPDATE SET
          kind=excluded.kind, dataset=excluded.dataset, report=excluded.report, assignment=excluded.assignment,
          committed=excluded.committed, pruned=excluded.pruned, steps=excluded.steps, error=excluded.error`,
        run.ID, run.Kind, nullIfEmpty(run.Dataset), run.CreatedAt, rep, asg, run.Committed, run.Pruned, run.Steps, nullIfEmpty(run.Error))
    if err != nil { return Run{}, err }
    return run, nil
}

func (s *SQLite) GetRun(ctx context.Context, id string) (Run, error) {
    row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id=?`, id)
    run, err := scanRun(row)
    if errors.Is(err, sql.ErrNoRows) { return Run{}, ErrNotFound }
    return run, err
}

func (s *SQLite) ListRuns(ctx context.Context, kind, cursor string, limit int) ([]Run, string, error) {
    limit = clampLimit(limit)
    base := `SELECT ` + runColumns + ` FROM runs WHERE (? = '' OR kind = ?)`
    args := []any{kind, kind}
    if cursor != "" {
        base += ` AND seq < (SELECT seq FROM runs WHERE id=?)`
        args = append(args, cursor)
    }
    base += ` ORDER BY seq DESC LIMIT ?`
    args = append(args, limit+1)
    rows, err := s.db.QueryContext(ctx, base, args...)
    if err != nil { return nil, "", err }
    return scanRuns(rows, limit)
}

func (s *SQLite) SavePlanMetrics(ctx context.Context, dataset, algo string, m opt.Metrics) error {
    s.writeMu.Lock()
    defer s.writeMu.Unlock()
    _, err := s.db.ExecContext(ctx, `INSERT INTO plan_metrics (dataset, algo, rides, vehicles, steps, committed, pruned, score, elapsed_ns, created_at)
        VALUES (?,?,?,?,?,?,?,?,?,?)
        ON CONFLICT (dataset, algo) DO UPDATE SET
          rides=excluded.rides, vehicles=excluded.vehicles, steps=excluded.steps, committed=excluded.committed,
          pruned=excluded.pruned, score=excluded.score, elapsed_ns=excluded.elapsed_ns, created_at=excluded.created_at`,
        dataset, algo, m.Rides, m.Vehicles, m.Steps, m.Committed, m.Pruned, m.Score, int64(m.Elapsed), m.At)
    return err
}

func (s *SQLite) ListPlanMetrics(ctx context.Context, dataset string) (map[string]opt.Metrics, error) {
    rows, err := s.db.QueryContext(ctx, `SELECT algo, rides, vehicles, steps, committed, pruned, score, elapsed_ns, created_at FROM plan_metrics WHERE dataset=?`, dataset)
    if err != nil { return nil, err }
    return scanPlanMetrics(rows)
}
