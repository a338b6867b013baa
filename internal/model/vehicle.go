package model

import (
	"cmp"
	"fmt"
)

// Vehicle is a car in the fleet. Its state is (Position, Step); every committed
// ride moves it to the ride's dropoff at some later step.
type Vehicle struct {
	ID       int
	Position Location
	Step     int
	rides    []*Ride
}

func NewVehicle(id int) *Vehicle {
	return &Vehicle{ID: id}
}

// DistanceToPickup is the drive from the current position to r's pickup.
func (v *Vehicle) DistanceToPickup(r *Ride) int {
	return v.Position.DistanceTo(r.pickup)
}

// WaitTime is how long the vehicle would idle at the pickup before r's window opens.
func (v *Vehicle) WaitTime(r *Ride) int {
	return max(0, r.earliestStart-(v.Step+v.DistanceToPickup(r)))
}

// ArrivalStep is the step at which r would be dropped off if committed now.
func (v *Vehicle) ArrivalStep(r *Ride) int {
	return v.Step + v.DistanceToPickup(r) + v.WaitTime(r) + r.distance
}

func (v *Vehicle) CanStartOnTime(r *Ride) bool {
	return v.Step+v.DistanceToPickup(r) <= r.earliestStart
}

func (v *Vehicle) CanFinishInTime(r *Ride, horizon int) bool {
	return v.ArrivalStep(r) <= min(r.latestFinish, horizon)
}

// Apply commits r regardless of lateness: the vehicle drives it and ends up at
// the dropoff at ArrivalStep.
func (v *Vehicle) Apply(r *Ride) {
	end := v.ArrivalStep(r)
	v.rides = append(v.rides, r)
	v.Step = end
	v.Position = r.dropoff
}

// Schedule commits r with an end step already chosen by the caller.
func (v *Vehicle) Schedule(r *Ride, end int) {
	v.rides = append(v.rides, r)
	v.Position = r.dropoff
	v.Step = end
}

// Rides returns the committed rides in commitment order.
func (v *Vehicle) Rides() []*Ride {
	return v.rides
}

func (v *Vehicle) RideIDs() []int {
	ids := make([]int, len(v.rides))
	for i, r := range v.rides {
		ids[i] = r.id
	}
	return ids
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("Vehicle{id=%d at %s step=%d rides=%d}", v.ID, v.Position, v.Step, len(v.rides))
}

// CompareVehicles orders by current step. Use with a stable sort: equal steps keep
// their previous relative order.
func CompareVehicles(a, b *Vehicle) int {
	return cmp.Compare(a.Step, b.Step)
}
