// Package config holds the persisted tunable parameters of the doorway
// counter and the store that keeps them across power loss.
package config

import "time"

// Bounds for the tunable parameters. Write paths clamp to these; the
// configuration session wraps at the maximum back to the minimum.
const (
	MinTimeout = 100 * time.Millisecond
	MaxTimeout = 10000 * time.Millisecond

	MinDebounce = 50 * time.Millisecond
	MaxDebounce = 1000 * time.Millisecond

	MinButtonDebounce = 50 * time.Millisecond
	MaxButtonDebounce = 1000 * time.Millisecond

	MinMaxPersons = 1
	MaxMaxPersons = 200
)

// Adjustment steps used by the configuration session.
const (
	TimeoutStep    = 100 * time.Millisecond
	DebounceStep   = 50 * time.Millisecond
	MaxPersonsStep = 1
)

// Config is the single persisted record of tunables.
type Config struct {
	// Timeout is the pairing window for a crossing: the second sensor must
	// trigger within this duration of the first.
	Timeout time.Duration

	// DebounceDelay qualifies the two doorway sensors.
	DebounceDelay time.Duration

	// ButtonDebounce qualifies the manual controls and the emergency switch.
	ButtonDebounce time.Duration

	// MaxPersons caps the occupancy count.
	MaxPersons int

	// EmergencyOverride is re-derived from the switch every poll; it is
	// persisted incidentally and carries no meaning across restarts.
	EmergencyOverride bool
}

// Default returns the documented first-run configuration.
func Default() Config {
	return Config{
		Timeout:           5000 * time.Millisecond,
		DebounceDelay:     200 * time.Millisecond,
		ButtonDebounce:    300 * time.Millisecond,
		MaxPersons:        99,
		EmergencyOverride: false,
	}
}

// Clamp forces every numeric field into its bounds. Load and Save paths both
// apply it so an out-of-range value can never persist or circulate.
func (c Config) Clamp() Config {
	c.Timeout = clampDuration(c.Timeout, MinTimeout, MaxTimeout)
	c.DebounceDelay = clampDuration(c.DebounceDelay, MinDebounce, MaxDebounce)
	c.ButtonDebounce = clampDuration(c.ButtonDebounce, MinButtonDebounce, MaxButtonDebounce)
	if c.MaxPersons < MinMaxPersons {
		c.MaxPersons = MinMaxPersons
	}
	if c.MaxPersons > MaxMaxPersons {
		c.MaxPersons = MaxMaxPersons
	}
	return c
}

func clampDuration(d, min, max time.Duration) time.Duration {
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}
