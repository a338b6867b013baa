package opt

import "ridefleet/internal/model"

// Observer receives scheduler events as they happen. Calls are synchronous on
// the scheduling goroutine; implementations must not block.
type Observer interface {
	// RideCommitted is called after r has been given to vehicle at step.
	RideCommitted(step, vehicle int, r *model.Ride, start, end int)

	// RidePruned is called when r leaves the pool because it can no longer start in time.
	RidePruned(step int, r *model.Ride)
}

// Event is a flattened scheduler event, convenient for streaming.
type Event struct {
	Kind    string `json:"kind"` // committed, pruned
	Step    int    `json:"step"`
	Ride    int    `json:"ride"`
	Vehicle int    `json:"vehicle"` // -1 for pruned
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// ObserverFunc adapts a function taking Events to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) RideCommitted(step, vehicle int, r *model.Ride, start, end int) {
	f(Event{Kind: "committed", Step: step, Ride: r.ID(), Vehicle: vehicle, Start: start, End: end})
}

func (f ObserverFunc) RidePruned(step int, r *model.Ride) {
	f(Event{Kind: "pruned", Step: step, Ride: r.ID(), Vehicle: -1})
}

// Tee fans events out to every non-nil observer in order.
func Tee(obs ...Observer) Observer {
	out := make(tee, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

type tee []Observer

func (t tee) RideCommitted(step, vehicle int, r *model.Ride, start, end int) {
	for _, o := range t {
		o.RideCommitted(step, vehicle, r, start, end)
	}
}

func (t tee) RidePruned(step int, r *model.Ride) {
	for _, o := range t {
		o.RidePruned(step, r)
	}
}

type nopObserver struct{}

func (nopObserver) RideCommitted(int, int, *model.Ride, int, int) {}
func (nopObserver) RidePruned(int, *model.Ride) {}
