// Package score validates an externally built ride assignment and replays it
// through the vehicle timing model to compute its score.
package score

import (
	"ridefleet/internal/model"
)

// Report is the outcome of scoring one assignment. Only Total is the score; the
// counters are kept for reporting.
type Report struct {
	Total         int `json:"total"`
	DistanceScore int `json:"distanceScore"`
	BonusScore    int `json:"bonusScore"`
	Taken         int `json:"taken"`
	Late          int `json:"late"`
	OnTime        int `json:"onTime"`
	WaitTime      int `json:"waitTime"`
	Unassigned    int `json:"unassigned"`
}

// Validate runs the vehicle-count, declared-count and ride-id checks in that
// order and returns the first failure. On success the leading count is stripped
// from every line.
func Validate(w *model.World, lines [][]int) ([][]int, error) {
	if err := CheckVehicleCount(w.Vehicles, lines); err != nil {
		return nil, err
	}
	stripped, err := CheckRideCounts(lines)
	if err != nil {
		return nil, err
	}
	if err := CheckRideIDs(w.RideCount, stripped); err != nil {
		return nil, err
	}
	return stripped, nil
}

// CheckVehicleCount requires one assignment line per vehicle.
func CheckVehicleCount(vehicles int, lines [][]int) error {
	if len(lines) != vehicles {
		return &VehicleCountError{Found: len(lines), Expected: vehicles}
	}
	return nil
}

// CheckRideCounts requires each line's leading count to match the ids after it,
// and returns the lines without that count. An empty line counts as "0".
func CheckRideCounts(lines [][]int) ([][]int, error) {
	stripped := make([][]int, len(lines))
	for i, line := range lines {
		if len(line) == 0 {
			stripped[i] = []int{}
			continue
		}
		if line[0] != len(line)-1 {
			return nil, &RideCountError{Line: i + 1, Declared: line[0], Found: len(line) - 1}
		}
		stripped[i] = append([]int{}, line[1:]...)
	}
	return stripped, nil
}

// CheckRideIDs requires every id to lie in [0, rides) and to appear once across
// all lines. Lines are scanned in order, ids within a line in order.
func CheckRideIDs(rides int, assignment [][]int) error {
	seen := make(map[int]struct{})
	for i, ids := range assignment {
		for _, rid := range ids {
			if rid < 0 || rid >= rides {
				return &InvalidRideError{Line: i + 1, Ride: rid, Max: rides - 1}
			}
			if _, dup := seen[rid]; dup {
				return &DuplicateRideError{Ride: rid}
			}
			seen[rid] = struct{}{}
		}
	}
	return nil
}

// Evaluate validates lines against w and scores them on a fresh fleet. A
// validation failure yields a zero Report and the error; no partial score.
func Evaluate(w *model.World, lines [][]int) (Report, error) {
	assigned, err := Validate(w, lines)
	if err != nil {
		return Report{}, err
	}
	return Replay(w, assigned)
}

// Replay scores an already-validated assignment (no leading counts), such as a
// scheduler's output.
func Replay(w *model.World, assignment [][]int) (Report, error) {
	var rep Report
	fleet := w.NewFleet()
	for i, ids := range assignment {
		if i >= len(fleet) {
			return Report{}, &VehicleCountError{Found: len(assignment), Expected: len(fleet)}
		}
		v := fleet[i]
		for _, rid := range ids {
			r := w.Ride(rid)
			if r == nil {
				return Report{}, &InvalidRideError{Line: i + 1, Ride: rid, Max: len(w.Rides) - 1}
			}
			evaluateRide(v, r, w, &rep)
		}
	}
	rep.Total = rep.DistanceScore + rep.BonusScore
	rep.Unassigned = w.RideCount - rep.Taken
	return rep, nil
}

func evaluateRide(v *model.Vehicle, r *model.Ride, w *model.World, rep *Report) {
	rep.Taken++
	if v.CanFinishInTime(r, w.Steps) {
		if v.CanStartOnTime(r) {
			rep.BonusScore += w.Bonus
			rep.WaitTime += v.WaitTime(r)
			rep.OnTime++
		}
		rep.DistanceScore += r.Distance()
	} else {
		rep.Late++
	}
	// late rides are still driven; later rides on this vehicle start from here
	v.Apply(r)
}
