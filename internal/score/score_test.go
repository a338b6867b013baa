package score

import (
	"errors"
	"testing"

	"ridefleet/internal/model"
)

// world builds a World from ride tuples (a, b, x, y, s, f).
func world(t *testing.T, vehicles, bonus, steps int, rides ...[6]int) *model.World {
	t.Helper()
	rs := make([]*model.Ride, 0, len(rides))
	for i, r := range rides {
		a, err := model.NewLocation(r[0], r[1])
		if err != nil {
			t.Fatal(err)
		}
		b, err := model.NewLocation(r[2], r[3])
		if err != nil {
			t.Fatal(err)
		}
		ride, err := model.NewRide(i, &a, &b, r[4], r[5])
		if err != nil {
			t.Fatal(err)
		}
		rs = append(rs, ride)
	}
	w, err := model.NewWorld(model.Header{Rows: 10, Cols: 10, Vehicles: vehicles, Rides: len(rides), Bonus: bonus, Steps: steps}, rs)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestCheckVehicleCount(t *testing.T) {
	err := CheckVehicleCount(2, [][]int{{2, 1}})
	if err == nil || err.Error() != "Found 1 cars in output file, expected 2" {
		t.Fatalf("err = %v", err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("vehicle count error should match ErrValidation")
	}
	if err := CheckVehicleCount(2, [][]int{{2, 1}, {1}}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestCheckRideCounts(t *testing.T) {
	_, err := CheckRideCounts([][]int{{2, 2, 1, 0}})
	if err == nil || err.Error() != "Line 1: Declared 2 rides but found 3 rides" {
		t.Fatalf("err = %v", err)
	}
	var rc *RideCountError
	if !errors.As(err, &rc) || rc.Line != 1 || rc.Declared != 2 || rc.Found != 3 {
		t.Fatalf("bad error fields: %+v", rc)
	}

	got, err := CheckRideCounts([][]int{{2, 2, 1}, {0}, {}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 3 || len(got[0]) != 2 || got[0][0] != 2 || got[0][1] != 1 || len(got[1]) != 0 || len(got[2]) != 0 {
		t.Fatalf("stripped = %v", got)
	}
}

func TestCheckRideIDs(t *testing.T) {
	tests := []struct {
		name string
		in   [][]int
		want string
	}{
		{"negative", [][]int{{-1}}, "Line 1: Invalid Ride ID -1, expected from 0 to 2"},
		{"too large", [][]int{{0}, {3}}, "Line 2: Invalid Ride ID 3, expected from 0 to 2"},
		{"duplicate across lines", [][]int{{1}, {2, 1}}, "Ride 1 was assigned more than once"},
		{"duplicate within line", [][]int{{0, 0}}, "Ride 0 was assigned more than once"},
		{"first offender wins", [][]int{{1, 1}, {5}}, "Ride 1 was assigned more than once"},
		{"single use", [][]int{{0}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRideIDs(3, tt.in)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.want {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatal("should match ErrValidation")
			}
		})
	}
}

func TestValidateOrder(t *testing.T) {
	w := world(t, 2, 0, 10, [6]int{0, 0, 1, 1, 0, 9})
	// vehicle count is checked before the bad declared count on line 1
	_, err := Validate(w, [][]int{{5, 0}})
	var vc *VehicleCountError
	if !errors.As(err, &vc) {
		t.Fatalf("err = %v, want VehicleCountError", err)
	}
	// declared count is checked before the bad id on line 1
	_, err = Validate(w, [][]int{{1, 7}, {2, 0}})
	var rc *RideCountError
	if !errors.As(err, &rc) || rc.Line != 2 {
		t.Fatalf("err = %v, want RideCountError on line 2", err)
	}
}

func TestEvaluateNoScoreOnValidationError(t *testing.T) {
	w := world(t, 1, 5, 10, [6]int{0, 0, 1, 3, 0, 9})
	rep, err := Evaluate(w, [][]int{{1, 0}, {0}})
	if err == nil {
		t.Fatal("expected error")
	}
	if rep != (Report{}) {
		t.Fatalf("report should be zero, got %+v", rep)
	}
}

func TestEvaluateOnTimeRide(t *testing.T) {
	w := world(t, 1, 5, 10, [6]int{0, 0, 1, 3, 0, 9})
	rep, err := Evaluate(w, [][]int{{1, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if rep.DistanceScore != 4 || rep.BonusScore != 5 || rep.Total != 9 {
		t.Fatalf("report = %+v", rep)
	}
	if rep.Taken != 1 || rep.OnTime != 1 || rep.Late != 0 || rep.Unassigned != 0 {
		t.Fatalf("counters = %+v", rep)
	}
}

func TestEvaluateLateRideAdvancesVehicle(t *testing.T) {
	w := world(t, 1, 2, 100,
		// 0: far away with a tight deadline; late
		[6]int{5, 5, 6, 5, 0, 3},
		// 1: starts at 6,5; only on time if evaluated from the delayed state
		[6]int{6, 5, 6, 8, 14, 40},
	)
	rep, err := Evaluate(w, [][]int{{2, 0, 1}})
	if err != nil {
		t.Fatal(err)
	}
	// ride 0 ends at step 11 at (6,5); ride 1 waits 3 then drives 3
	if rep.Late != 1 || rep.OnTime != 1 || rep.Taken != 2 {
		t.Fatalf("counters = %+v", rep)
	}
	if rep.DistanceScore != 3 || rep.BonusScore != 2 || rep.WaitTime != 3 {
		t.Fatalf("scores = %+v", rep)
	}
}

func TestEvaluateFinishAtHorizon(t *testing.T) {
	// arrival 8 <= min(9, 9): scores distance but no bonus
	w := world(t, 1, 5, 9, [6]int{1, 3, 0, 0, 2, 9})
	rep, err := Evaluate(w, [][]int{{1, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Total != 4 || rep.OnTime != 0 || rep.Late != 0 {
		t.Fatalf("report = %+v", rep)
	}
}

func TestEvaluateUnassigned(t *testing.T) {
	w := world(t, 2, 1, 50, [6]int{0, 0, 1, 0, 0, 9}, [6]int{0, 0, 2, 0, 0, 9}, [6]int{0, 0, 3, 0, 0, 9})
	rep, err := Evaluate(w, [][]int{{1, 2}, {0}})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Unassigned != 2 || rep.Total != 4 {
		t.Fatalf("report = %+v", rep)
	}
}

func TestReplayUnknownRide(t *testing.T) {
	w := world(t, 1, 1, 50, [6]int{0, 0, 1, 0, 0, 9})
	w.RideCount = 3
	_, err := Evaluate(w, [][]int{{1, 2}})
	var ir *InvalidRideError
	if !errors.As(err, &ir) || ir.Max != 0 {
		t.Fatalf("err = %v", err)
	}
}
