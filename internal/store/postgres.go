package store

import (
    "context"
    "database/sql"
    "embed"
    "errors"
    "fmt"
    "io/fs"
    "os"
    "sort"
    "strings"

    _ "github.com/jackc/pgx/v5/stdlib"

    "ridefleet/internal/opt"
)

//go:embed migrations/*.sql
var migrations embed.FS

const pgRunColumns = `id, kind, dataset, created_at, report::text, assignment::text, committed, pruned, steps, error`

type Postgres struct {
    db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
    db, err := sql.Open("pgx", dsn)
    if err != nil {
        return nil, err
    }
    if err := db.Ping(); err != nil {
        return nil, err
    }
    return &Postgres{db: db}, nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func (p *Postgres) Close() error { return p.db.Close() }

// Migrate applies the embedded migrations in name order. Statements are idempotent.
func (p *Postgres) Migrate(ctx context.Context) error {
    sub, err := fs.Sub(migrations, "migrations")
    if err != nil { return err }
    return p.migrateFS(ctx, sub)
}

// MigrateDir applies *.sql files from dir in name order.
func (p *Postgres) MigrateDir(dir string) error {
    return p.migrateFS(context.Background(), os.DirFS(dir))
}

func (p *Postgres) migrateFS(ctx context.Context, fsys fs.FS) error {
    names, err := fs.Glob(fsys, "*.sql")
    if err != nil { return err }
    sort.Strings(names)
    for _, name := range names {
        b, err := fs.ReadFile(fsys, name)
        if err != nil { return err }
        if strings.TrimSpace(string(b)) == "" { continue }
        if _, err := p.db.ExecContext(ctx, string(b)); err != nil {
            return fmt.Errorf("migrate %s: %w", name, err)
        }
    }
    return nil
}

func (p *Postgres) SaveRun(ctx context.Context, run Run) (Run, error) {
    run, rep, asg, err := prepareRun(run)
    if err != nil { return Run{}, err }
    _, err = p.db.ExecContext(ctx, `INSERT INTO runs (id, kind, dataset, created_at, report, assignment, committed, pruned, steps, error)
        VALUES ($1,$2,$3,$4,$5::jsonb,$6::jsonb,$7,$8,$9,$10)
        ON CONFLICT (id) DO UPDATE SET
          kind=$2, dataset=$3, report=$5::jsonb, assignment=$6::jsonb, committed=$7, pruned=$8, steps=$9, error=$10`,
        run.ID, run.Kind, nullIfEmpty(run.Dataset), run.CreatedAt, rep, asg, run.Committed, run.Pruned, run.Steps, nullIfEmpty(run.Error))
    if err != nil { return Run{}, err }
    return run, nil
}

func (p *Postgres) GetRun(ctx context.Context, id string) (Run, error) {
    row := p.db.QueryRowContext(ctx, `SELECT `+pgRunColumns+` FROM runs WHERE id=$1`, id)
    run, err := scanRun(row)
    if errors.Is(err, sql.ErrNoRows) { return Run{}, ErrNotFound }
    return run, err
}

func (p *Postgres) ListRuns(ctx context.Context, kind, cursor string, limit int) ([]Run, string, error) {
    limit = clampLimit(limit)
    base := `SELECT ` + pgRunColumns + ` FROM runs WHERE ($1 = '' OR kind = $1)`
    args := []any{kind}
    if cursor != "" {
        base += ` AND seq < (SELECT seq FROM runs WHERE id=$2)`
        args = append(args, cursor)
    }
    base += fmt.Sprintf(` ORDER BY seq DESC LIMIT %d`, limit+1)
    rows, err := p.db.QueryContext(ctx, base, args...)
    if err != nil { return nil, "", err }
    return scanRuns(rows, limit)
}

func (p *Postgres) SavePlanMetrics(ctx context.Context, dataset, algo string, m opt.Metrics) error {
    _, err := p.db.ExecContext(ctx, `INSERT INTO plan_metrics (dataset, algo, rides, vehicles, steps, committed, pruned, score, elapsed_ns, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        ON CONFLICT (dataset, algo) DO UPDATE SET
          rides=$3, vehicles=$4, steps=$5, committed=$6, pruned=$7, score=$8, elapsed_ns=$9, created_at=$10`,
        dataset, algo, m.Rides, m.Vehicles, m.Steps, m.Committed, m.Pruned, m.Score, int64(m.Elapsed), m.At)
    return err
}

func (p *Postgres) ListPlanMetrics(ctx context.Context, dataset string) (map[string]opt.Metrics, error) {
    rows, err := p.db.QueryContext(ctx, `SELECT algo, rides, vehicles, steps, committed, pruned, score, elapsed_ns, created_at FROM plan_metrics WHERE dataset=$1`, dataset)
    if err != nil { return nil, err }
    return scanPlanMetrics(rows)
}
