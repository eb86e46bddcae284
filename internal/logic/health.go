package logic

import "time"

// Health monitoring thresholds.
const (
	// StuckAfter latches a sensor as stuck when its qualified state has not
	// changed for this long.
	StuckAfter = 60 * time.Second

	// NoActivityAfter raises the room-level advisory when occupancy is
	// positive but neither sensor has changed for this long.
	NoActivityAfter = 300 * time.Second
)

// sensorHealth tracks one sensor's activity.
type sensorHealth struct {
	lastState  bool
	lastChange time.Time
	stuck      bool
	primed     bool
}

// Monitor watches sensor activity and raises advisory diagnostics. It never
// mutates occupancy or the actuator.
type Monitor struct {
	entry        sensorHealth
	exit         sensorHealth
	lastActivity time.Time
}

// NewMonitor creates a Monitor. The start time seeds the activity clocks so
// a silent doorway is not reported stuck immediately after boot.
func NewMonitor(start time.Time) *Monitor {
	return &Monitor{
		entry:        sensorHealth{lastChange: start},
		exit:         sensorHealth{lastChange: start},
		lastActivity: start,
	}
}

// Observe feeds the qualified sensor states and current occupancy, returning
// any diagnostics due this tick. The stuck latch fires exactly once and
// re-arms only after an observed transition; the no-activity advisory recurs
// every call while its condition holds.
func (m *Monitor) Observe(entryQ, exitQ bool, count int, now time.Time) []Event {
	var events []Event

	if e := m.observeSensor(&m.entry, entryQ, SensorEntry, now); e != nil {
		events = append(events, *e)
	}
	if e := m.observeSensor(&m.exit, exitQ, SensorExit, now); e != nil {
		events = append(events, *e)
	}

	if count > 0 && now.Sub(m.lastActivity) >= NoActivityAfter {
		events = append(events, Event{Timestamp: now, Type: EventNoActivity, Count: count})
	}

	return events
}

func (m *Monitor) observeSensor(s *sensorHealth, state bool, which Sensor, now time.Time) *Event {
	if !s.primed {
		s.lastState = state
		s.lastChange = now
		s.primed = true
		m.lastActivity = now
		return nil
	}

	if state != s.lastState {
		s.lastState = state
		s.lastChange = now
		s.stuck = false
		m.lastActivity = now
		return nil
	}

	if !s.stuck && now.Sub(s.lastChange) >= StuckAfter {
		s.stuck = true
		return &Event{Timestamp: now, Type: EventSensorStuck, Sensor: which}
	}
	return nil
}

// Stuck reports the latched state of each sensor.
func (m *Monitor) Stuck() (entry, exit bool) {
	return m.entry.stuck, m.exit.stuck
}

// LastActivity returns the time either sensor last changed qualified state.
func (m *Monitor) LastActivity() time.Time {
	return m.lastActivity
}
