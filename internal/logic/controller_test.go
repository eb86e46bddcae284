package logic

import (
	"testing"
	"time"

	"github.com/sweeney/doorway-counter/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		Timeout:        5000 * time.Millisecond,
		DebounceDelay:  200 * time.Millisecond,
		ButtonDebounce: 300 * time.Millisecond,
		MaxPersons:     99,
	}
}

// prime runs one all-idle tick so filters and edge tracking are seeded.
func prime(ctl *Controller, start time.Time) {
	ctl.Process(Input{Time: start})
}

func eventTypes(events []Event) []EventType {
	var types []EventType
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

func hasEvent(events []Event, typ EventType) bool {
	for _, e := range events {
		if e.Type == typ {
			return true
		}
	}
	return false
}

func TestEntryCrossingCountsAndLights(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctl := NewController(testConfig(), start)
	prime(ctl, start)

	// Entry sensor fires, then exit sensor 300ms later
	events := ctl.Process(Input{Entry: true, Time: start.Add(300 * time.Millisecond)})
	if len(events) != 0 {
		t.Fatalf("first edge alone emitted events: %v", eventTypes(events))
	}

	events = ctl.Process(Input{Entry: true, Exit: true, Time: start.Add(600 * time.Millisecond)})
	if !hasEvent(events, EventPersonEntered) {
		t.Fatalf("expected PERSON_ENTERED, got %v", eventTypes(events))
	}
	if ctl.Count() != 1 {
		t.Errorf("count: got %d, want 1", ctl.Count())
	}
	if !ctl.Light() {
		t.Error("light should be on with occupancy 1")
	}

	// The event carries the post-event state
	for _, e := range events {
		if e.Type == EventPersonEntered {
			if e.Count != 1 || !e.Light {
				t.Errorf("event state: count=%d light=%v, want count=1 light=true", e.Count, e.Light)
			}
		}
	}
}

func TestExitCrossingDecrements(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctl := NewController(testConfig(), start)
	prime(ctl, start)

	// One person in
	ctl.Process(Input{Entry: true, Time: start.Add(300 * time.Millisecond)})
	ctl.Process(Input{Entry: true, Exit: true, Time: start.Add(600 * time.Millisecond)})

	// Sensors clear
	ctl.Process(Input{Time: start.Add(1000 * time.Millisecond)})

	// Exit-then-entry order: person leaving
	ctl.Process(Input{Exit: true, Time: start.Add(2000 * time.Millisecond)})
	events := ctl.Process(Input{Exit: true, Entry: true, Time: start.Add(2400 * time.Millisecond)})
	if !hasEvent(events, EventPersonExited) {
		t.Fatalf("expected PERSON_EXITED, got %v", eventTypes(events))
	}
	if ctl.Count() != 0 {
		t.Errorf("count: got %d, want 0", ctl.Count())
	}
	if ctl.Light() {
		t.Error("light should be off with occupancy 0")
	}
}

func TestTimedOutCrossingHasNoEffect(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctl := NewController(testConfig(), start)
	prime(ctl, start)

	ctl.Process(Input{Entry: true, Time: start.Add(300 * time.Millisecond)})

	// Second sensor 6s later, past the 5s window
	events := ctl.Process(Input{Entry: true, Exit: true, Time: start.Add(6300 * time.Millisecond)})
	if hasEvent(events, EventPersonEntered) || hasEvent(events, EventPersonExited) {
		t.Fatalf("timed-out pairing produced a crossing: %v", eventTypes(events))
	}
	if ctl.Count() != 0 {
		t.Errorf("count: got %d, want 0", ctl.Count())
	}
}

func TestUnderflowSilentlyAbsorbed(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctl := NewController(testConfig(), start)
	prime(ctl, start)

	// Exit crossing with count already 0
	ctl.Process(Input{Exit: true, Time: start.Add(300 * time.Millisecond)})
	events := ctl.Process(Input{Exit: true, Entry: true, Time: start.Add(600 * time.Millisecond)})

	if len(events) != 0 {
		t.Fatalf("underflow should be silent, got %v", eventTypes(events))
	}
	if ctl.Count() != 0 {
		t.Errorf("count: got %d, want 0", ctl.Count())
	}
}

func TestCrossingAtCapacityEmitsDiagnostic(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cfg := testConfig()
	cfg.MaxPersons = 1
	ctl := NewController(cfg, start)
	prime(ctl, start)

	// First person in
	ctl.Process(Input{Entry: true, Time: start.Add(300 * time.Millisecond)})
	ctl.Process(Input{Entry: true, Exit: true, Time: start.Add(600 * time.Millisecond)})
	ctl.Process(Input{Time: start.Add(1000 * time.Millisecond)})

	// Second person refused
	ctl.Process(Input{Entry: true, Time: start.Add(2000 * time.Millisecond)})
	events := ctl.Process(Input{Entry: true, Exit: true, Time: start.Add(2400 * time.Millisecond)})
	if !hasEvent(events, EventCapacityExceeded) {
		t.Fatalf("expected CAPACITY_EXCEEDED, got %v", eventTypes(events))
	}
	if ctl.Count() != 1 {
		t.Errorf("count: got %d, want 1", ctl.Count())
	}
}

func TestCrossingArithmetic(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctl := NewController(testConfig(), start)
	prime(ctl, start)

	// 3 entries, 1 exit, all well spaced
	base := start
	for i := 0; i < 3; i++ {
		base = base.Add(10 * time.Second)
		ctl.Process(Input{Entry: true, Time: base})
		ctl.Process(Input{Entry: true, Exit: true, Time: base.Add(400 * time.Millisecond)})
		ctl.Process(Input{Time: base.Add(time.Second)})
	}
	base = base.Add(10 * time.Second)
	ctl.Process(Input{Exit: true, Time: base})
	ctl.Process(Input{Exit: true, Entry: true, Time: base.Add(400 * time.Millisecond)})

	if ctl.Count() != 2 {
		t.Errorf("count after 3 entries and 1 exit: got %d, want 2", ctl.Count())
	}
	counts := ctl.EventCountsSnapshot()
	if counts.Entered != 3 || counts.Exited != 1 {
		t.Errorf("counts: got entered=%d exited=%d, want 3/1", counts.Entered, counts.Exited)
	}
}

func TestManualIncrement(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctl := NewController(testConfig(), start)
	prime(ctl, start)

	events := ctl.Process(Input{Increment: true, Time: start.Add(300 * time.Millisecond)})
	if !hasEvent(events, EventManualIncrement) {
		t.Fatalf("expected MANUAL_INCREMENT, got %v", eventTypes(events))
	}
	if ctl.Count() != 1 {
		t.Errorf("count: got %d, want 1", ctl.Count())
	}

	// Held button is one press, not an autorepeat
	events = ctl.Process(Input{Increment: true, Time: start.Add(700 * time.Millisecond)})
	if len(events) != 0 {
		t.Errorf("held button re-fired: %v", eventTypes(events))
	}
}

func TestManualIncrementAtCapacity(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cfg := testConfig()
	cfg.MaxPersons = 1
	ctl := NewController(cfg, start)
	prime(ctl, start)

	ctl.Process(Input{Increment: true, Time: start.Add(300 * time.Millisecond)})
	ctl.Process(Input{Time: start.Add(700 * time.Millisecond)})

	events := ctl.Process(Input{Increment: true, Time: start.Add(1100 * time.Millisecond)})
	if !hasEvent(events, EventCapacityExceeded) {
		t.Fatalf("expected CAPACITY_EXCEEDED, got %v", eventTypes(events))
	}
	if ctl.Count() != 1 {
		t.Errorf("count: got %d, want 1", ctl.Count())
	}
}

func TestManualResetSetsCountToOne(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctl := NewController(testConfig(), start)
	prime(ctl, start)

	// Count up to 3 manually
	tick := start
	for i := 0; i < 3; i++ {
		tick = tick.Add(400 * time.Millisecond)
		ctl.Process(Input{Increment: true, Time: tick})
		tick = tick.Add(400 * time.Millisecond)
		ctl.Process(Input{Time: tick})
	}

	events := ctl.Process(Input{Reset: true, Time: tick.Add(400 * time.Millisecond)})
	if !hasEvent(events, EventManualReset) {
		t.Fatalf("expected MANUAL_RESET, got %v", eventTypes(events))
	}
	if ctl.Count() != 1 {
		t.Errorf("count after reset: got %d, want 1", ctl.Count())
	}
}

func TestEmergencyOverrideForcesLight(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctl := NewController(testConfig(), start)
	prime(ctl, start)

	if ctl.Light() {
		t.Fatal("light should start off")
	}

	events := ctl.Process(Input{Emergency: true, Time: start.Add(300 * time.Millisecond)})
	if !hasEvent(events, EventEmergencyOn) {
		t.Fatalf("expected EMERGENCY_ON, got %v", eventTypes(events))
	}
	if !ctl.Light() {
		t.Error("light should be forced on by the override")
	}
	if ctl.Count() != 0 {
		t.Errorf("override must not touch the count, got %d", ctl.Count())
	}

	// Falling edge: policy re-evaluates from occupancy (still 0)
	events = ctl.Process(Input{Time: start.Add(700 * time.Millisecond)})
	if !hasEvent(events, EventEmergencyOff) {
		t.Fatalf("expected EMERGENCY_OFF, got %v", eventTypes(events))
	}
	if ctl.Light() {
		t.Error("light should be off again with occupancy 0")
	}
}

func TestEmergencyPollCadence(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cfg := testConfig()
	cfg.ButtonDebounce = config.MinButtonDebounce
	ctl := NewController(cfg, start)
	prime(ctl, start)

	// Qualified at 50ms, but the arbiter polls on its own 100ms cadence:
	// the 60ms tick is too soon after the poll at t=0.
	events := ctl.Process(Input{Emergency: true, Time: start.Add(60 * time.Millisecond)})
	if hasEvent(events, EventEmergencyOn) {
		t.Fatal("arbiter acted between polls")
	}

	events = ctl.Process(Input{Emergency: true, Time: start.Add(110 * time.Millisecond)})
	if !hasEvent(events, EventEmergencyOn) {
		t.Fatalf("expected EMERGENCY_ON at next poll, got %v", eventTypes(events))
	}
}

func TestSessionEntryThroughController(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctl := NewController(testConfig(), start)
	prime(ctl, start)

	// Both controls pressed at t=300ms (qualified immediately) and held
	events := ctl.Process(Input{Increment: true, Reset: true, Time: start.Add(300 * time.Millisecond)})
	if len(events) != 0 {
		t.Fatalf("simultaneous dual press fired single actions: %v", eventTypes(events))
	}
	if ctl.SessionActive() {
		t.Fatal("session active before hold completes")
	}

	events = ctl.Process(Input{Increment: true, Reset: true, Time: start.Add(3300 * time.Millisecond)})
	if !hasEvent(events, EventConfigEntered) {
		t.Fatalf("expected CONFIG_ENTERED, got %v", eventTypes(events))
	}
	if !ctl.SessionActive() {
		t.Fatal("session not active after 3s hold")
	}
	if ctl.Editing() != ParamTimeout {
		t.Errorf("editing: got %s, want %s", ctl.Editing(), ParamTimeout)
	}
	if ctl.Count() != 0 {
		t.Errorf("entry gesture changed the count: %d", ctl.Count())
	}
}

func TestSessionSuspendsOccupancyProcessing(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctl := NewController(testConfig(), start)
	prime(ctl, start)

	ctl.Process(Input{Increment: true, Reset: true, Time: start.Add(300 * time.Millisecond)})
	ctl.Process(Input{Increment: true, Reset: true, Time: start.Add(3300 * time.Millisecond)})
	if !ctl.SessionActive() {
		t.Fatal("session not active")
	}

	// Sensor edges during the session must not count
	events := ctl.Process(Input{Entry: true, Time: start.Add(4000 * time.Millisecond)})
	events = append(events, ctl.Process(Input{Entry: true, Exit: true, Time: start.Add(4400 * time.Millisecond)})...)
	if hasEvent(events, EventPersonEntered) {
		t.Fatal("crossing counted during a config session")
	}
	if ctl.Count() != 0 {
		t.Errorf("count: got %d, want 0", ctl.Count())
	}
}

func TestSessionAdjustAndExitThroughController(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctl := NewController(testConfig(), start)
	prime(ctl, start)

	// Enter
	ctl.Process(Input{Increment: true, Reset: true, Time: start.Add(300 * time.Millisecond)})
	ctl.Process(Input{Increment: true, Reset: true, Time: start.Add(3300 * time.Millisecond)})

	// Release the entry hold to arm the session
	ctl.Process(Input{Time: start.Add(3700 * time.Millisecond)})

	// +1 press steps Timeout
	events := ctl.Process(Input{Increment: true, Time: start.Add(4100 * time.Millisecond)})
	if !hasEvent(events, EventConfigAdjusted) {
		t.Fatalf("expected CONFIG_ADJUSTED, got %v", eventTypes(events))
	}
	if got := ctl.Config().Timeout; got != 5100*time.Millisecond {
		t.Errorf("timeout after adjust: got %v, want 5.1s", got)
	}
	ctl.Process(Input{Time: start.Add(4500 * time.Millisecond)})

	// Dual press held 1200ms exits
	ctl.Process(Input{Increment: true, Reset: true, Time: start.Add(4900 * time.Millisecond)})
	events = ctl.Process(Input{Time: start.Add(6100 * time.Millisecond)})
	if !hasEvent(events, EventConfigExited) {
		t.Fatalf("expected CONFIG_EXITED, got %v", eventTypes(events))
	}
	if ctl.SessionActive() {
		t.Error("session still active after exit gesture")
	}

	// Normal counting resumes
	ctl.Process(Input{Entry: true, Time: start.Add(7000 * time.Millisecond)})
	ctl.Process(Input{Entry: true, Exit: true, Time: start.Add(7400 * time.Millisecond)})
	if ctl.Count() != 1 {
		t.Errorf("count after session: got %d, want 1", ctl.Count())
	}
}

func TestActuatorPolicyIdempotent(t *testing.T) {
	cases := []struct {
		override bool
		count    int
		want     bool
	}{
		{false, 0, false},
		{false, 1, true},
		{false, 99, true},
		{true, 0, true},
		{true, 5, true},
	}

	for _, tc := range cases {
		first := ActuatorState(tc.override, tc.count)
		second := ActuatorState(tc.override, tc.count)
		if first != tc.want || second != tc.want {
			t.Errorf("ActuatorState(%v, %d): got (%v, %v), want %v", tc.override, tc.count, first, second, tc.want)
		}
	}
}

func TestControllerHeartbeat(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctl := NewController(testConfig(), start)
	prime(ctl, start)

	interval := 15 * time.Minute

	if hb := ctl.CheckHeartbeat(start.Add(interval-time.Second), interval); hb != nil {
		t.Error("heartbeat fired early")
	}
	hb := ctl.CheckHeartbeat(start.Add(interval), interval)
	if hb == nil {
		t.Fatal("heartbeat did not fire at interval")
	}
	if hb.Uptime != interval {
		t.Errorf("uptime: got %v, want %v", hb.Uptime, interval)
	}
	if hb := ctl.CheckHeartbeat(start.Add(interval+time.Second), interval); hb != nil {
		t.Error("heartbeat re-fired immediately")
	}
	if hb := ctl.CheckHeartbeat(start.Add(2*interval), interval); hb == nil {
		t.Error("second heartbeat did not fire")
	}
	if hb := ctl.CheckHeartbeat(start.Add(3*interval), 0); hb != nil {
		t.Error("disabled heartbeat fired")
	}
}
