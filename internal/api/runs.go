package api

import (
    "context"
    "errors"
    "log"
    "time"

    "github.com/google/uuid"

    "ridefleet/internal/input"
    "ridefleet/internal/metrics"
    "ridefleet/internal/model"
    "ridefleet/internal/opt"
    "ridefleet/internal/score"
    "ridefleet/internal/store"
)

const algoGreedy = "greedy"

// planResult is the body returned for a scheduling run.
type planResult struct {
    RunID      string       `json:"runId"`
    Assignment [][]int      `json:"assignment"`
    // AssignmentText is Assignment in file form, ready for /v1/score or ridescore.
    AssignmentText string   `json:"assignmentText"`
    Committed  []int        `json:"committed"`
    Pruned     []int        `json:"pruned"`
    Steps      int          `json:"steps"`
    Score      score.Report `json:"score"`
}

type scoreResult struct {
    RunID  string       `json:"runId"`
    Report score.Report `json:"report"`
}

// brokerObserver publishes scheduler events for runID and counts them.
func (s *Server) brokerObserver(runID string) opt.Observer {
    return opt.ObserverFunc(func(e opt.Event) {
        metrics.SchedulerRides.WithLabelValues(e.Kind).Inc()
        s.Broker.Publish(runID, SSEEvent{Type: "ride." + e.Kind, Data: map[string]any{
            "step": e.Step, "ride": e.Ride, "vehicle": e.Vehicle, "start": e.Start, "end": e.End,
        }})
    })
}

// executePlan schedules w, scores the plan, and records the run. extra, when
// set, sees every scheduler event after the broker does.
func (s *Server) executePlan(ctx context.Context, runID, dataset string, w *model.World, extra opt.Observer) (planResult, error) {
    if runID == "" { runID = uuid.New().String() }
    start := time.Now()
    plan := opt.Schedule(w, opt.Tee(s.brokerObserver(runID), extra))
    elapsed := time.Since(start)
    metrics.SchedulerDuration.Observe(elapsed.Seconds())

    assignment := plan.Assignment()
    rep, err := score.Replay(w, assignment)
    if err != nil {
        return planResult{}, err
    }
    metrics.LastScore.WithLabelValues(store.KindPlan).Set(float64(rep.Total))

    m := opt.MetricsFor(plan, len(w.Rides), elapsed)
    m.Score = rep.Total
    opt.RecordMetrics(dataset, algoGreedy, m)
    if err := s.Store.SavePlanMetrics(ctx, dataset, algoGreedy, m); err != nil {
        log.Printf("save plan metrics: %v", err)
    }

    run, err := s.Store.SaveRun(ctx, store.Run{
        ID: runID, Kind: store.KindPlan, Dataset: dataset, Report: &rep, Assignment: assignment,
        Committed: len(plan.Committed), Pruned: len(plan.Pruned), Steps: plan.Steps,
    })
    if err != nil {
        return planResult{}, err
    }
    s.Broker.Publish(runID, SSEEvent{Type: "run.completed", Data: map[string]any{"runId": runID, "score": rep.Total}})
    log.Printf("plan run %s: committed=%d pruned=%d steps=%d score=%d in %v", run.ID, len(plan.Committed), len(plan.Pruned), plan.Steps, rep.Total, elapsed)

    return planResult{
        RunID: run.ID, Assignment: assignment, AssignmentText: input.FormatRecords(input.AssignmentRecords(assignment)),
        Committed: nonNil(plan.Committed), Pruned: nonNil(plan.Pruned),
        Steps: plan.Steps, Score: rep,
    }, nil
}

// executeScore validates and scores lines against w and records the run. A
// validation failure is recorded and returned as the error.
func (s *Server) executeScore(ctx context.Context, dataset string, w *model.World, lines [][]int) (scoreResult, error) {
    rep, evalErr := score.Evaluate(w, lines)
    run := store.Run{Kind: store.KindScore, Dataset: dataset}
    if evalErr != nil {
        if !errors.Is(evalErr, score.ErrValidation) {
            return scoreResult{}, evalErr
        }
        metrics.ScoreRuns.WithLabelValues("invalid").Inc()
        metrics.ValidationFailures.WithLabelValues(validationCheck(evalErr)).Inc()
        run.Error = evalErr.Error()
    } else {
        metrics.ScoreRuns.WithLabelValues("ok").Inc()
        metrics.LastScore.WithLabelValues(store.KindScore).Set(float64(rep.Total))
        run.Report = &rep
    }
    run, err := s.Store.SaveRun(ctx, run)
    if err != nil {
        return scoreResult{}, err
    }
    if evalErr != nil {
        log.Printf("score run %s: rejected: %v", run.ID, evalErr)
        return scoreResult{RunID: run.ID}, evalErr
    }
    log.Printf("score run %s: total=%d taken=%d late=%d", run.ID, rep.Total, rep.Taken, rep.Late)
    return scoreResult{RunID: run.ID, Report: rep}, nil
}

func validationCheck(err error) string {
    var (
        vc  *score.VehicleCountError
        rc  *score.RideCountError
        ir  *score.InvalidRideError
        dup *score.DuplicateRideError
    )
    switch {
    case errors.As(err, &vc):
        return "vehicle_count"
    case errors.As(err, &rc):
        return "ride_count"
    case errors.As(err, &ir):
        return "ride_id"
    case errors.As(err, &dup):
        return "duplicate_ride"
    }
    return "other"
}

func nonNil(ids []int) []int {
    if ids == nil { return []int{} }
    return ids
}
