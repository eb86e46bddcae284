package logic

import "time"

// Filter is a timer-gated debounce for one input line. The qualified value
// only changes if the hold interval has elapsed since the last qualified
// transition; a single sample taken after the interval is trusted (this is
// not a majority-vote filter).
type Filter struct {
	qualified  bool
	lastChange time.Time
	primed     bool
}

// Sample feeds one raw reading and returns the qualified state.
// The first sample primes the filter without counting as a transition.
func (f *Filter) Sample(raw bool, now time.Time, hold time.Duration) bool {
	if !f.primed {
		f.qualified = raw
		f.lastChange = now
		f.primed = true
		return f.qualified
	}

	if raw != f.qualified && now.Sub(f.lastChange) >= hold {
		f.qualified = raw
		f.lastChange = now
	}
	return f.qualified
}

// Qualified returns the current qualified state without sampling.
func (f *Filter) Qualified() bool {
	return f.qualified
}

// LastChange returns the time of the last qualified transition (or the
// priming sample if none has occurred).
func (f *Filter) LastChange() time.Time {
	return f.lastChange
}
