package store

import (
    "database/sql"
    "encoding/json"
    "time"

    "github.com/google/uuid"
    "ridefleet/internal/opt"
    "ridefleet/internal/score"
)

// Columns shared by the SQL backends; report and assignment are JSON text.
const runColumns = `id, kind, dataset, created_at, report, assignment, committed, pruned, steps, error`

type rowScanner interface {
    Scan(dest ...any) error
}

// prepareRun fills defaults and encodes the JSON columns.
func prepareRun(run Run) (Run, sql.NullString, sql.NullString, error) {
    if run.ID == "" { run.ID = uuid.New().String() }
    if run.CreatedAt.IsZero() { run.CreatedAt = time.Now().UTC() }
    var rep, asg sql.NullString
    if run.Report != nil {
        b, err := json.Marshal(run.Report)
        if err != nil { return run, rep, asg, err }
        rep = sql.NullString{String: string(b), Valid: true}
    }
    if run.Assignment != nil {
        b, err := json.Marshal(run.Assignment)
        if err != nil { return run, rep, asg, err }
        asg = sql.NullString{String: string(b), Valid: true}
    }
    return run, rep, asg, nil
}

func scanRun(row rowScanner) (Run, error) {
    var run Run
    var dataset, rep, asg, errText sql.NullString
    if err := row.Scan(&run.ID, &run.Kind, &dataset, &run.CreatedAt, &rep, &asg, &run.Committed, &run.Pruned, &run.Steps, &errText); err != nil {
        return Run{}, err
    }
    run.Dataset = dataset.String
    run.Error = errText.String
    run.CreatedAt = run.CreatedAt.UTC()
    if rep.Valid {
        run.Report = &score.Report{}
        if err := json.Unmarshal([]byte(rep.String), run.Report); err != nil { return Run{}, err }
    }
    if asg.Valid {
        if err := json.Unmarshal([]byte(asg.String), &run.Assignment); err != nil { return Run{}, err }
    }
    return run, nil
}

func scanRuns(rows *sql.Rows, limit int) ([]Run, string, error) {
    defer rows.Close()
    out := []Run{}
    var next string
    for rows.Next() {
        run, err := scanRun(rows)
        if err != nil { return nil, "", err }
        // one extra row was requested to detect another page
        if len(out) == limit { next = out[len(out)-1].ID; break }
        out = append(out, run)
    }
    if err := rows.Err(); err != nil { return nil, "", err }
    return out, next, nil
}

func scanPlanMetrics(rows *sql.Rows) (map[string]opt.Metrics, error) {
    defer rows.Close()
    out := map[string]opt.Metrics{}
    for rows.Next() {
        var algo string
        var m opt.Metrics
        var elapsedNs int64
        if err := rows.Scan(&algo, &m.Rides, &m.Vehicles, &m.Steps, &m.Committed, &m.Pruned, &m.Score, &elapsedNs, &m.At); err != nil { return nil, err }
        m.Elapsed = time.Duration(elapsedNs)
        m.At = m.At.UTC()
        out[algo] = m
    }
    return out, rows.Err()
}

func nullIfEmpty(s string) any { if s == "" { return nil }; return s }
