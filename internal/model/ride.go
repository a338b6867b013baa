package model

import (
	"cmp"
	"fmt"
)

// Ride is a time-windowed trip request. Immutable once built.
type Ride struct {
	id            int
	pickup        Location
	dropoff       Location
	earliestStart int
	latestFinish  int
	distance      int
	latestStart   int
}

// NewRide builds ride id from pickup to dropoff. latestStart may come out negative
// when the trip cannot fit its window; such rides are kept and simply never served.
func NewRide(id int, pickup, dropoff *Location, earliestStart, latestFinish int) (*Ride, error) {
	if pickup == nil {
		return nil, fmt.Errorf("ride %d: pickup: %w", id, ErrMissingLocation)
	}
	if dropoff == nil {
		return nil, fmt.Errorf("ride %d: dropoff: %w", id, ErrMissingLocation)
	}
	d := pickup.DistanceTo(*dropoff)
	return &Ride{
		id:            id,
		pickup:        *pickup,
		dropoff:       *dropoff,
		earliestStart: earliestStart,
		latestFinish:  latestFinish,
		distance:      d,
		latestStart:   latestFinish - d,
	}, nil
}

func (r *Ride) ID() int { return r.id }
func (r *Ride) Pickup() Location { return r.pickup }
func (r *Ride) Dropoff() Location { return r.dropoff }
func (r *Ride) EarliestStart() int { return r.earliestStart }
func (r *Ride) LatestFinish() int { return r.latestFinish }
func (r *Ride) Distance() int { return r.distance }
func (r *Ride) LatestStart() int { return r.latestStart }

func (r *Ride) String() string {
	return fmt.Sprintf("Ride{id=%d %s->%s dist=%d window=[%d,%d]}",
		r.id, r.pickup, r.dropoff, r.distance, r.earliestStart, r.latestFinish)
}

// CompareRides orders by earliest start, then latest finish, then distance.
// The scheduler's candidate scan stops early on this order.
func CompareRides(a, b *Ride) int {
	if c := cmp.Compare(a.earliestStart, b.earliestStart); c != 0 {
		return c
	}
	if c := cmp.Compare(a.latestFinish, b.latestFinish); c != 0 {
		return c
	}
	return cmp.Compare(a.distance, b.distance)
}
