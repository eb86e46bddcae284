// Package logic contains pure business logic for doorway occupancy tracking.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import (
	"time"

	"github.com/sweeney/doorway-counter/internal/config"
)

// EventType identifies a diagnostic or occupancy event.
type EventType string

const (
	EventPersonEntered    EventType = "PERSON_ENTERED"
	EventPersonExited     EventType = "PERSON_EXITED"
	EventManualIncrement  EventType = "MANUAL_INCREMENT"
	EventManualReset      EventType = "MANUAL_RESET"
	EventCapacityExceeded EventType = "CAPACITY_EXCEEDED"
	EventSensorStuck      EventType = "SENSOR_STUCK"
	EventNoActivity       EventType = "NO_ACTIVITY"
	EventEmergencyOn      EventType = "EMERGENCY_ON"
	EventEmergencyOff     EventType = "EMERGENCY_OFF"
	EventConfigEntered    EventType = "CONFIG_ENTERED"
	EventConfigAdjusted   EventType = "CONFIG_ADJUSTED"
	EventConfigExited     EventType = "CONFIG_EXITED"
)

// Sensor identifies one of the two doorway sensors.
type Sensor string

const (
	SensorEntry Sensor = "ENTRY"
	SensorExit  Sensor = "EXIT"
)

// Param identifies the parameter being edited in a configuration session.
type Param string

const (
	ParamTimeout    Param = "TIMEOUT"
	ParamDebounce   Param = "DEBOUNCE"
	ParamMaxPersons Param = "MAX_PERSONS"
)

// Event is a single emitted occupancy/diagnostic event.
type Event struct {
	Timestamp time.Time
	Type      EventType

	// Count and Light reflect the state after the event was applied.
	Count int
	Light bool

	// Sensor is set for SENSOR_STUCK.
	Sensor Sensor

	// Param and Value are set for CONFIG_ENTERED / CONFIG_ADJUSTED.
	// Value is milliseconds for durations, persons for MAX_PERSONS.
	Param Param
	Value int64
}

// Input is one sample of the five logical inputs. All values are already
// inverted from the raw active-low lines: true = sensor interrupted /
// button pressed / switch thrown.
type Input struct {
	Entry     bool
	Exit      bool
	Increment bool
	Reset     bool
	Emergency bool
	Time      time.Time
}

// EventCounts tracks cumulative occupancy events since startup.
type EventCounts struct {
	Entered      int
	Exited       int
	Manual       int
	Resets       int
	CapacityHits int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Count     int
	Counts    EventCounts
}

// ActuatorState is the final policy mapping occupancy and the emergency
// override onto the light. Pure and idempotent.
func ActuatorState(override bool, count int) bool {
	if override {
		return true
	}
	return count > 0
}

// ParamValue returns the current value of the edited parameter, in
// milliseconds for durations and persons for MAX_PERSONS.
func ParamValue(cfg config.Config, p Param) int64 {
	switch p {
	case ParamTimeout:
		return cfg.Timeout.Milliseconds()
	case ParamDebounce:
		return cfg.DebounceDelay.Milliseconds()
	case ParamMaxPersons:
		return int64(cfg.MaxPersons)
	}
	return 0
}
