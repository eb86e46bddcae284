package logic

import (
	"time"

	"github.com/sweeney/doorway-counter/internal/config"
)

// EmergencyPollInterval is the wall-time cadence of the emergency arbiter,
// decoupled from the scheduler tick so a bouncing switch cannot oscillate
// the override at tick rate.
const EmergencyPollInterval = 100 * time.Millisecond

// Controller runs one ordered pass of the occupancy engine per tick:
// debounce, emergency arbiter, session routing, health monitor, direction
// resolver, manual controls, actuator policy. The ordering is the
// arbitration priority and is fixed.
type Controller struct {
	cfg config.Config

	entryF, exitF Filter
	incF, resetF  Filter
	emergF        Filter

	prevEntry, prevExit bool
	prevInc, prevReset  bool
	edgesPrimed         bool

	resolver *Resolver
	monitor  *Monitor
	session  *Session

	count    int
	override bool

	emergencyPolled   bool
	lastEmergencyPoll time.Time

	counts        EventCounts
	startTime     time.Time
	lastHeartbeat time.Time
}

// NewController creates a Controller with the given configuration.
// The startTime seeds the health monitor and heartbeat clocks.
func NewController(cfg config.Config, startTime time.Time) *Controller {
	return &Controller{
		cfg:           cfg.Clamp(),
		resolver:      NewResolver(),
		monitor:       NewMonitor(startTime),
		session:       NewSession(),
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Process runs one tick. It never fails: inputs are always read and every
// error condition is surfaced as an event, not a halt.
func (c *Controller) Process(in Input) []Event {
	now := in.Time

	entryQ := c.entryF.Sample(in.Entry, now, c.cfg.DebounceDelay)
	exitQ := c.exitF.Sample(in.Exit, now, c.cfg.DebounceDelay)
	incQ := c.incF.Sample(in.Increment, now, c.cfg.ButtonDebounce)
	resetQ := c.resetF.Sample(in.Reset, now, c.cfg.ButtonDebounce)
	emergQ := c.emergF.Sample(in.Emergency, now, c.cfg.ButtonDebounce)

	entryEdge := c.edgesPrimed && entryQ && !c.prevEntry
	exitEdge := c.edgesPrimed && exitQ && !c.prevExit
	incEdge := c.edgesPrimed && incQ && !c.prevInc
	resetEdge := c.edgesPrimed && resetQ && !c.prevReset
	c.prevEntry, c.prevExit = entryQ, exitQ
	c.prevInc, c.prevReset = incQ, resetQ
	c.edgesPrimed = true

	var events []Event

	// Emergency arbiter first: absolute priority, runs even during a
	// configuration session, on its own cadence.
	if !c.emergencyPolled || now.Sub(c.lastEmergencyPoll) >= EmergencyPollInterval {
		c.emergencyPolled = true
		c.lastEmergencyPoll = now
		if emergQ != c.override {
			c.override = emergQ
			c.cfg.EmergencyOverride = emergQ
			typ := EventEmergencyOff
			if emergQ {
				typ = EventEmergencyOn
			}
			events = append(events, Event{Timestamp: now, Type: typ})
		}
	}

	if c.session.Active() {
		// Session consumes the controls exclusively; occupancy
		// processing is suspended.
		events = append(events, c.session.Process(incEdge, resetEdge, incQ, resetQ, now, &c.cfg)...)
	} else if c.session.CheckEntry(incQ, resetQ, now) {
		c.resolver.Reset()
		events = append(events, Event{
			Timestamp: now,
			Type:      EventConfigEntered,
			Param:     c.session.Editing(),
			Value:     ParamValue(c.cfg, c.session.Editing()),
		})
	} else {
		events = append(events, c.monitor.Observe(entryQ, exitQ, c.count, now)...)
		events = append(events, c.processCrossing(entryEdge, exitEdge, now)...)
		events = append(events, c.processManual(incEdge, resetEdge, incQ, resetQ, now)...)
	}

	light := c.Light()
	for i := range events {
		events[i].Count = c.count
		events[i].Light = light
	}
	return events
}

func (c *Controller) processCrossing(entryEdge, exitEdge bool, now time.Time) []Event {
	dir, ok := c.resolver.Process(entryEdge, exitEdge, now, c.cfg.Timeout)
	if !ok {
		return nil
	}

	switch dir {
	case DirectionIn:
		if c.count >= c.cfg.MaxPersons {
			c.counts.CapacityHits++
			return []Event{{Timestamp: now, Type: EventCapacityExceeded}}
		}
		c.count++
		c.counts.Entered++
		return []Event{{Timestamp: now, Type: EventPersonEntered}}

	case DirectionOut:
		// Underflow is silently absorbed: after power loss true
		// occupancy can exceed the counter.
		if c.count > 0 {
			c.count--
			c.counts.Exited++
			return []Event{{Timestamp: now, Type: EventPersonExited}}
		}
	}
	return nil
}

func (c *Controller) processManual(incEdge, resetEdge, incQ, resetQ bool, now time.Time) []Event {
	var events []Event

	// A press while the other control is held is the start of a dual
	// gesture, not a single-press action.
	if incEdge && !resetQ {
		if c.count >= c.cfg.MaxPersons {
			c.counts.CapacityHits++
			events = append(events, Event{Timestamp: now, Type: EventCapacityExceeded})
		} else {
			c.count++
			c.counts.Manual++
			events = append(events, Event{Timestamp: now, Type: EventManualIncrement})
		}
	}

	if resetEdge && !incQ {
		// Reset lands on 1, not 0: the operator pressing it is standing
		// in the room.
		c.count = 1
		c.counts.Resets++
		events = append(events, Event{Timestamp: now, Type: EventManualReset})
	}

	return events
}

// Light returns the actuator state for the current occupancy and override.
func (c *Controller) Light() bool {
	return ActuatorState(c.override, c.count)
}

// Count returns the current occupancy.
func (c *Controller) Count() int {
	return c.count
}

// Override reports whether the emergency override is active.
func (c *Controller) Override() bool {
	return c.override
}

// SessionActive reports whether a configuration session is in progress.
func (c *Controller) SessionActive() bool {
	return c.session.Active()
}

// Editing returns the parameter being edited in an active session.
func (c *Controller) Editing() Param {
	return c.session.Editing()
}

// Config returns the current configuration (including live session edits).
func (c *Controller) Config() config.Config {
	return c.cfg
}

// Stuck reports the latched health state of each sensor.
func (c *Controller) Stuck() (entry, exit bool) {
	return c.monitor.Stuck()
}

// EventCountsSnapshot returns a copy of the cumulative event counts.
func (c *Controller) EventCountsSnapshot() EventCounts {
	return c.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or startup). Returns nil if the interval has not
// elapsed or if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}

	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Count:     c.count,
		Counts:    c.counts,
	}
}
