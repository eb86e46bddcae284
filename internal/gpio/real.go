//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads the five input lines from actual hardware using the
// Linux GPIO character device.
type RealReader struct {
	chip  *gpiocdev.Chip
	lines [5]*gpiocdev.Line
}

// inputOrder maps line slots to names for error messages.
var inputNames = [5]string{"entry", "exit", "increment", "reset", "emergency"}

// NewRealReader requests the five input lines. The sensors, buttons and
// emergency switch all close to ground, so lines are requested as input with
// pull-up: raw low = active.
func NewRealReader(pins Pins) (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealReader{chip: chip}
	pinOrder := [5]int{pins.Entry, pins.Exit, pins.Increment, pins.Reset, pins.Emergency}

	for i, pin := range pinOrder {
		line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			r.closeLines()
			chip.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", inputNames[i], pin, err)
		}
		r.lines[i] = line
	}

	return r, nil
}

// Read returns the logical input states.
// Inverts raw GPIO: raw low (0) = active, raw high (1) = inactive.
func (r *RealReader) Read() (Inputs, error) {
	var raw [5]int
	for i, line := range r.lines {
		v, err := line.Value()
		if err != nil {
			return Inputs{}, fmt.Errorf("read %s pin: %w", inputNames[i], err)
		}
		raw[i] = v
	}

	return Inputs{
		Entry:     raw[0] == 0,
		Exit:      raw[1] == 0,
		Increment: raw[2] == 0,
		Reset:     raw[3] == 0,
		Emergency: raw[4] == 0,
	}, nil
}

// Close releases GPIO resources. Pins are reconfigured to input with pull-up
// before closing so the external wiring sees the same levels as at boot.
func (r *RealReader) Close() error {
	var errs []error

	for i, line := range r.lines {
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s pin: %w", inputNames[i], err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", inputNames[i], err))
		}
		r.lines[i] = nil
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func (r *RealReader) closeLines() {
	for i, line := range r.lines {
		if line != nil {
			line.Close()
			r.lines[i] = nil
		}
	}
}

// RealActuator drives the light relay line on actual hardware.
type RealActuator struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealActuator requests the light line as an output, initially low.
func NewRealActuator(pin int) (*RealActuator, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request light pin %d: %w", pin, err)
	}

	return &RealActuator{chip: chip, line: line}, nil
}

// Set drives the line. Active-high: true energizes the relay.
func (a *RealActuator) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := a.line.SetValue(v); err != nil {
		return fmt.Errorf("set light pin: %w", err)
	}
	return nil
}

// Close drives the line low and releases it, so the light is not left on
// across a daemon restart.
func (a *RealActuator) Close() error {
	var errs []error

	if a.line != nil {
		if err := a.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear light pin: %w", err))
		}
		if err := a.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close light pin: %w", err))
		}
	}
	if a.chip != nil {
		if err := a.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
