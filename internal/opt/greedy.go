package opt

import (
	"slices"

	"ridefleet/internal/model"
)

// Plan is the result of one scheduling run.
type Plan struct {
	Fleet     []*model.Vehicle // ordered by vehicle id
	Committed []int            // ride ids in commit order
	Pruned    []int            // ride ids in prune order
	Steps     int              // steps evaluated (last step + 1)
}

// Assignment returns each vehicle's committed ride ids, in fleet order.
func (p Plan) Assignment() [][]int {
	out := make([][]int, len(p.Fleet))
	for i, v := range p.Fleet {
		out[i] = v.RideIDs()
	}
	return out
}

// Schedule builds an assignment for w with a greedy, time-stepped heuristic.
//
// At every step the fleet is stable-sorted by current step, rides that can no
// longer start in time are pruned, and each free vehicle takes the shortest ride
// it can reach and finish strictly before the ride's deadline and the horizon.
// Commitments are never revisited. The loop ends when every ride has been either
// committed or pruned.
func Schedule(w *model.World, obs Observer) Plan {
	if obs == nil {
		obs = nopObserver{}
	}
	fleet := w.NewFleet()
	live := slices.Clone(fleet)
	pool := newPool(w.Rides)
	plan := Plan{Fleet: fleet}

	step := -1
	for pool.len() > 0 {
		step++
		slices.SortStableFunc(live, model.CompareVehicles)
		if step >= w.Steps {
			// Nothing can be committed past the horizon; only pruning is left, so
			// jump to the next step at which some ride becomes prunable.
			step = max(step, pool.minLatestStart()+1)
		}

		for _, r := range pool.prune(step) {
			plan.Pruned = append(plan.Pruned, r.ID())
			obs.RidePruned(step, r)
		}
		if step >= w.Steps {
			continue
		}

		committed := len(plan.Committed)
		for _, v := range live {
			if v.Step > step {
				continue
			}
			idx, start := bestRide(pool.rides, v, step)
			if idx < 0 {
				continue
			}
			r := pool.rides[idx]
			end := start + r.Distance()
			if end >= r.LatestFinish() || end >= w.Steps {
				continue
			}
			r = pool.take(idx)
			v.Schedule(r, end)
			plan.Committed = append(plan.Committed, r.ID())
			obs.RideCommitted(step, v.ID, r, start, end)
		}
		if len(plan.Committed) == committed && pool.len() > 0 {
			// A step without commits leaves the fleet and pool as they were, so the
			// steps before the next reachable or prunable ride repeat it exactly.
			step = pool.nextStep(live, step, w.Steps) - 1
		}
	}
	plan.Steps = step + 1
	return plan
}

// bestRide scans rides (sorted by CompareRides) for the shortest one v can take
// at step. It returns the pool index and start step, or -1.
func bestRide(rides []*model.Ride, v *model.Vehicle, step int) (int, int) {
	best, bestStart := -1, 0
	for i, r := range rides {
		if r.EarliestStart() > step {
			break
		}
		toStart := v.Step + v.DistanceToPickup(r)
		if toStart > step || toStart > r.LatestFinish() {
			continue
		}
		if v.ArrivalStep(r) >= r.LatestFinish() {
			continue
		}
		if best < 0 || r.Distance() < rides[best].Distance() {
			best = i
			bestStart = max(toStart, r.EarliestStart())
		}
	}
	return best, bestStart
}

// pool holds the rides still open for assignment, in CompareRides order. Rides
// leave it through prune or take and never come back.
type pool struct {
	rides []*model.Ride
}

func newPool(rides []*model.Ride) *pool {
	rs := slices.Clone(rides)
	slices.SortStableFunc(rs, model.CompareRides)
	return &pool{rides: rs}
}

func (p *pool) len() int { return len(p.rides) }

// prune drops every ride whose latest start is before step and returns them.
func (p *pool) prune(step int) []*model.Ride {
	var dropped []*model.Ride
	kept := make([]*model.Ride, 0, len(p.rides))
	for _, r := range p.rides {
		if r.LatestStart() < step {
			dropped = append(dropped, r)
			continue
		}
		kept = append(kept, r)
	}
	p.rides = kept
	return dropped
}

// take removes and returns the ride at i.
func (p *pool) take(i int) *model.Ride {
	r := p.rides[i]
	p.rides = slices.Delete(p.rides, i, i+1)
	return r
}

func (p *pool) minLatestStart() int {
	m := p.rides[0].LatestStart()
	for _, r := range p.rides[1:] {
		m = min(m, r.LatestStart())
	}
	return m
}

// nextStep returns the first step after step at which matching can differ from
// step when no vehicle commits: some vehicle reaches the pickup of a started
// ride, some ride becomes prunable, or the horizon is hit.
func (p *pool) nextStep(fleet []*model.Vehicle, step, horizon int) int {
	next := min(horizon, p.minLatestStart()+1)
	for _, r := range p.rides {
		if r.EarliestStart() >= next {
			break
		}
		for _, v := range fleet {
			at := max(r.EarliestStart(), v.Step+v.DistanceToPickup(r))
			if at > step && at < next {
				next = at
			}
		}
	}
	return next
}
