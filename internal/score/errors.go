package score

import (
	"errors"
	"fmt"
)

// ErrValidation matches every assignment validation failure via errors.Is.
var ErrValidation = errors.New("assignment validation failed")

// VehicleCountError: the assignment has a different number of lines than the fleet.
type VehicleCountError struct {
	Found    int
	Expected int
}

func (e *VehicleCountError) Error() string {
	return fmt.Sprintf("Found %d cars in output file, expected %d", e.Found, e.Expected)
}

func (e *VehicleCountError) Is(target error) bool { return target == ErrValidation }

// RideCountError: a line's leading count disagrees with the ids that follow it.
type RideCountError struct {
	Line     int
	Declared int
	Found    int
}

func (e *RideCountError) Error() string {
	return fmt.Sprintf("Line %d: Declared %d rides but found %d rides", e.Line, e.Declared, e.Found)
}

func (e *RideCountError) Is(target error) bool { return target == ErrValidation }

// InvalidRideError: an id outside [0, Max].
type InvalidRideError struct {
	Line int
	Ride int
	Max  int
}

func (e *InvalidRideError) Error() string {
	return fmt.Sprintf("Line %d: Invalid Ride ID %d, expected from 0 to %d", e.Line, e.Ride, e.Max)
}

func (e *InvalidRideError) Is(target error) bool { return target == ErrValidation }

// DuplicateRideError: an id used more than once anywhere in the assignment.
type DuplicateRideError struct {
	Ride int
}

func (e *DuplicateRideError) Error() string {
	return fmt.Sprintf("Ride %d was assigned more than once", e.Ride)
}

func (e *DuplicateRideError) Is(target error) bool { return target == ErrValidation }
