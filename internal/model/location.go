// Package model holds the grid, ride and vehicle types shared by the scorer and the scheduler.
package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrMissingLocation   = errors.New("missing location")
)

// Location is an intersection on the grid. Comparable with ==.
type Location struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewLocation returns the location (x, y). Both coordinates must be non-negative.
func NewLocation(x, y int) (Location, error) {
	if x < 0 || y < 0 {
		return Location{}, fmt.Errorf("location (%d,%d): %w", x, y, ErrInvalidCoordinate)
	}
	return Location{X: x, Y: y}, nil
}

// DistanceTo returns the Manhattan distance between l and o.
func (l Location) DistanceTo(o Location) int {
	return abs(l.X-o.X) + abs(l.Y-o.Y)
}

func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.X, l.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
