package logic

import (
	"testing"
	"time"
)

func TestStuckLatchFiresOnce(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMonitor(start)

	// Prime both sensors
	m.Observe(false, false, 0, start)

	var stuckEvents int
	for i := 1; i <= 700; i++ {
		now := start.Add(time.Duration(i) * 100 * time.Millisecond)
		for _, e := range m.Observe(false, false, 0, now) {
			if e.Type == EventSensorStuck {
				stuckEvents++
			}
		}
	}

	// Both sensors latched at 60s; one diagnostic each, not recurring
	if stuckEvents != 2 {
		t.Errorf("stuck events: got %d, want 2", stuckEvents)
	}
	entry, exit := m.Stuck()
	if !entry || !exit {
		t.Errorf("latched state: got (%v, %v), want (true, true)", entry, exit)
	}
}

func TestStuckLatchTiming(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMonitor(start)
	m.Observe(false, false, 0, start)

	// Just under the threshold: no diagnostic
	events := m.Observe(false, false, 0, start.Add(StuckAfter-time.Millisecond))
	if len(events) != 0 {
		t.Errorf("expected no events before threshold, got %d", len(events))
	}

	// At the threshold: both sensors latch
	events = m.Observe(false, false, 0, start.Add(StuckAfter))
	if len(events) != 2 {
		t.Fatalf("expected 2 events at threshold, got %d", len(events))
	}
	if events[0].Sensor != SensorEntry || events[1].Sensor != SensorExit {
		t.Errorf("sensors: got (%s, %s), want (ENTRY, EXIT)", events[0].Sensor, events[1].Sensor)
	}
}

func TestTransitionClearsStuckLatch(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMonitor(start)
	m.Observe(false, false, 0, start)
	m.Observe(false, false, 0, start.Add(StuckAfter))

	entry, _ := m.Stuck()
	if !entry {
		t.Fatal("entry sensor should be latched")
	}

	// A transition one tick later clears the latch
	events := m.Observe(true, false, 0, start.Add(StuckAfter+time.Millisecond))
	if len(events) != 0 {
		t.Errorf("clearing transition emitted %d events", len(events))
	}
	entry, _ = m.Stuck()
	if entry {
		t.Error("transition should clear the latch")
	}

	// The latch re-arms: another silent minute latches again
	events = m.Observe(true, false, 0, start.Add(StuckAfter+time.Millisecond).Add(StuckAfter))
	var stuck int
	for _, e := range events {
		if e.Type == EventSensorStuck && e.Sensor == SensorEntry {
			stuck++
		}
	}
	if stuck != 1 {
		t.Errorf("re-armed latch events: got %d, want 1", stuck)
	}
}

func TestNoActivityRecursWhileOccupied(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMonitor(start)
	m.Observe(false, false, 0, start)

	// Advisory fires every evaluation once the room is occupied and silent
	var advisories int
	for i := 0; i < 3; i++ {
		now := start.Add(NoActivityAfter + time.Duration(i)*time.Second)
		for _, e := range m.Observe(false, false, 2, now) {
			if e.Type == EventNoActivity {
				advisories++
			}
		}
	}
	if advisories != 3 {
		t.Errorf("no-activity advisories: got %d, want 3", advisories)
	}
}

func TestNoActivitySuppressedWhenEmpty(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMonitor(start)
	m.Observe(false, false, 0, start)

	for _, e := range m.Observe(false, false, 0, start.Add(2*NoActivityAfter)) {
		if e.Type == EventNoActivity {
			t.Error("no-activity advisory raised for an empty room")
		}
	}
}

func TestSensorActivityResetsNoActivityClock(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMonitor(start)
	m.Observe(false, false, 1, start)

	// Activity at 4 minutes
	m.Observe(true, false, 1, start.Add(4*time.Minute))

	// At 5 minutes from start the clock has been pushed out
	for _, e := range m.Observe(true, false, 1, start.Add(NoActivityAfter)) {
		if e.Type == EventNoActivity {
			t.Error("advisory raised despite recent activity")
		}
	}

	// 5 minutes after the activity it fires
	events := m.Observe(true, false, 1, start.Add(4*time.Minute).Add(NoActivityAfter))
	var found bool
	for _, e := range events {
		if e.Type == EventNoActivity {
			found = true
		}
	}
	if !found {
		t.Error("advisory not raised 5 minutes after last activity")
	}
}
