package logic

import "time"

// Direction is the outcome of a completed crossing.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// DirectionState is the resolver's current state.
type DirectionState string

const (
	StateIdle      DirectionState = "IDLE"
	StateFirstEdge DirectionState = "FIRST_EDGE"
)

// Resolver pairs the activation order of the two doorway sensors into a
// directional crossing. The first edge opens a pairing window; the opposite
// sensor firing within the timeout completes the crossing, anything else
// times the window out with no event. A same-sensor re-trigger while the
// window is open does not reset it: first edge wins until paired or timed out.
type Resolver struct {
	state  DirectionState
	origin Sensor
	since  time.Time
}

// NewResolver creates a Resolver in the idle state.
func NewResolver() *Resolver {
	return &Resolver{state: StateIdle}
}

// Process consumes rising edges of the qualified sensor states and returns a
// completed crossing, if any. A window that has reached the timeout is reset
// first and any edge arriving on that same tick is discarded, so a late
// second edge can never complete an expired crossing.
func (r *Resolver) Process(entryEdge, exitEdge bool, now time.Time, timeout time.Duration) (Direction, bool) {
	if r.state == StateFirstEdge && now.Sub(r.since) >= timeout {
		r.state = StateIdle
		return "", false
	}

	switch r.state {
	case StateIdle:
		if entryEdge {
			r.state = StateFirstEdge
			r.origin = SensorEntry
			r.since = now
			// Both edges on one tick: the exit edge pairs immediately.
			if exitEdge {
				r.state = StateIdle
				return DirectionIn, true
			}
			return "", false
		}
		if exitEdge {
			r.state = StateFirstEdge
			r.origin = SensorExit
			r.since = now
			return "", false
		}

	case StateFirstEdge:
		if r.origin == SensorEntry && exitEdge {
			r.state = StateIdle
			return DirectionIn, true
		}
		if r.origin == SensorExit && entryEdge {
			r.state = StateIdle
			return DirectionOut, true
		}
	}

	return "", false
}

// State returns the resolver's current state.
func (r *Resolver) State() DirectionState {
	return r.state
}

// Reset returns the resolver to idle, discarding any open window. Used when
// a configuration session suspends occupancy processing.
func (r *Resolver) Reset() {
	r.state = StateIdle
}
