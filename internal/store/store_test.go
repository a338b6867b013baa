package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ridefleet/internal/opt"
	"ridefleet/internal/score"
)

// exerciseStore runs the behavior every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	rep := &score.Report{Total: 9, DistanceScore: 4, BonusScore: 5, Taken: 1, OnTime: 1}
	first, err := s.SaveRun(ctx, Run{Kind: KindScore, Dataset: "a_example", Report: rep})
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Fatalf("id/createdAt not assigned: %+v", first)
	}
	second, err := s.SaveRun(ctx, Run{Kind: KindPlan, Assignment: [][]int{{0}, {}}, Committed: 1, Pruned: 2, Steps: 7})
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	third, err := s.SaveRun(ctx, Run{Kind: KindScore, Error: "Ride 1 was assigned more than once"})
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.GetRun(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Kind != KindScore || got.Dataset != "a_example" || got.Report == nil || *got.Report != *rep {
		t.Fatalf("GetRun = %+v", got)
	}
	got, err = s.GetRun(ctx, second.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Assignment) != 2 || len(got.Assignment[0]) != 1 || len(got.Assignment[1]) != 0 || got.Steps != 7 || got.Report != nil {
		t.Fatalf("plan run = %+v", got)
	}

	if _, err := s.GetRun(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetRun(missing) err = %v", err)
	}

	all, next, err := s.ListRuns(ctx, "", "", 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(all) != 2 || all[0].ID != third.ID || all[1].ID != second.ID || next != second.ID {
		t.Fatalf("page 1 = %v next=%q", ids(all), next)
	}
	rest, next, err := s.ListRuns(ctx, "", next, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 1 || rest[0].ID != first.ID || next != "" {
		t.Fatalf("page 2 = %v next=%q", ids(rest), next)
	}

	stale, next, err := s.ListRuns(ctx, "", "no-such-run", 2)
	if err != nil {
		t.Fatalf("ListRuns(unknown cursor): %v", err)
	}
	if len(stale) != 0 || next != "" {
		t.Fatalf("unknown cursor page = %v next=%q", ids(stale), next)
	}

	scores, _, err := s.ListRuns(ctx, KindScore, "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 2 || scores[0].Error == "" {
		t.Fatalf("score runs = %v", ids(scores))
	}

	m := opt.Metrics{Rides: 3, Vehicles: 2, Steps: 7, Committed: 1, Pruned: 2, Score: 9, Elapsed: 3 * time.Millisecond, At: time.Now().UTC().Truncate(time.Second)}
	if err := s.SavePlanMetrics(ctx, "a_example", "greedy", m); err != nil {
		t.Fatalf("SavePlanMetrics: %v", err)
	}
	m.Score = 10
	if err := s.SavePlanMetrics(ctx, "a_example", "greedy", m); err != nil {
		t.Fatalf("SavePlanMetrics overwrite: %v", err)
	}
	mx, err := s.ListPlanMetrics(ctx, "a_example")
	if err != nil {
		t.Fatal(err)
	}
	if len(mx) != 1 || mx["greedy"].Score != 10 || mx["greedy"].Elapsed != 3*time.Millisecond {
		t.Fatalf("plan metrics = %+v", mx)
	}
	if mx, _ := s.ListPlanMetrics(ctx, "other"); len(mx) != 0 {
		t.Fatalf("unexpected metrics for other dataset: %+v", mx)
	}
}

func ids(runs []Run) []string {
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.ID
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()
	if err := s.Ping(context.Background()); err != nil {
		t.Fatal(err)
	}
	exerciseStore(t, s)
}

func TestMemoryUpsertKeepsPosition(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	a, _ := m.SaveRun(ctx, Run{Kind: KindPlan})
	b, _ := m.SaveRun(ctx, Run{Kind: KindPlan})
	a.Steps = 5
	if _, err := m.SaveRun(ctx, a); err != nil {
		t.Fatal(err)
	}
	runs, _, _ := m.ListRuns(ctx, "", "", 0)
	if len(runs) != 2 || runs[0].ID != b.ID || runs[1].Steps != 5 {
		t.Fatalf("runs = %+v", runs)
	}
}
