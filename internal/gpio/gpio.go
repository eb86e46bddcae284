// Package gpio provides GPIO access with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementations allow testing without hardware.
package gpio

// Inputs is one sample of the five logical input lines. Values are already
// inverted from the raw active-low wiring: true = sensor beam interrupted,
// button pressed, or switch thrown.
type Inputs struct {
	Entry     bool
	Exit      bool
	Increment bool
	Reset     bool
	Emergency bool
}

// Reader reads the five input lines.
type Reader interface {
	// Read returns the logical input states. Raw values are inverted:
	// raw low = logical active.
	Read() (Inputs, error)

	// Close releases GPIO resources.
	Close() error
}

// Actuator drives the light relay line (active-high).
type Actuator interface {
	// Set drives the line high (true) or low (false). Safe to call
	// redundantly.
	Set(on bool) error

	// Close releases GPIO resources, driving the line low first.
	Close() error
}

// Default pin assignments (BCM numbering).
const (
	DefaultPinEntry     = 17
	DefaultPinExit      = 27
	DefaultPinIncrement = 23
	DefaultPinReset     = 24
	DefaultPinEmergency = 25
	DefaultPinLight     = 22
)

// Pins collects the BCM pin assignment for one installation.
type Pins struct {
	Entry     int
	Exit      int
	Increment int
	Reset     int
	Emergency int
	Light     int
}

// DefaultPins returns the default pin assignment.
func DefaultPins() Pins {
	return Pins{
		Entry:     DefaultPinEntry,
		Exit:      DefaultPinExit,
		Increment: DefaultPinIncrement,
		Reset:     DefaultPinReset,
		Emergency: DefaultPinEmergency,
		Light:     DefaultPinLight,
	}
}
