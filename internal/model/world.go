package model

import "fmt"

// World is the loaded problem: grid bounds, fleet size, rides, per-ride bonus
// and simulation horizon. Runs never mutate it; each builds its own fleet.
type World struct {
	Rows      int
	Cols      int
	Vehicles  int
	RideCount int
	Bonus     int
	Steps     int
	Rides     []*Ride
}

// Header holds the first record of a world file.
type Header struct {
	Rows, Cols, Vehicles, Rides, Bonus, Steps int
}

func NewWorld(h Header, rides []*Ride) (*World, error) {
	if h.Vehicles < 0 {
		return nil, fmt.Errorf("vehicle count %d must be >= 0", h.Vehicles)
	}
	for i, r := range rides {
		if r == nil {
			return nil, fmt.Errorf("ride %d: nil ride", i)
		}
		if r.id != i {
			return nil, fmt.Errorf("ride at index %d has id %d", i, r.id)
		}
	}
	return &World{
		Rows:      h.Rows,
		Cols:      h.Cols,
		Vehicles:  h.Vehicles,
		RideCount: h.Rides,
		Bonus:     h.Bonus,
		Steps:     h.Steps,
		Rides:     rides,
	}, nil
}

// NewFleet returns Vehicles fresh vehicles at (0,0), step 0.
func (w *World) NewFleet() []*Vehicle {
	fleet := make([]*Vehicle, w.Vehicles)
	for i := range fleet {
		fleet[i] = NewVehicle(i)
	}
	return fleet
}

// Ride returns the ride with the given id, or nil when id is outside the loaded rides.
func (w *World) Ride(id int) *Ride {
	if id < 0 || id >= len(w.Rides) {
		return nil
	}
	return w.Rides[id]
}
