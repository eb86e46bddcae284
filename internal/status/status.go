// Package status provides a thread-safe status tracker for the doorway-counter
// daemon. It is read by HTTP handlers and serialized into MQTT system events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/doorway-counter/internal/config"
	"github.com/sweeney/doorway-counter/internal/logic"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/mqtt from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display. Tunables mirror the
// persisted record and follow live session edits.
type Config struct {
	PollMs        int64
	TimeoutMs     int64
	DebounceMs    int64
	BtnDebounceMs int64
	MaxPersons    int
	HeartbeatMs   int64
	Broker        string
	HTTPPort      string
	WSBroker      string // Websocket broker URL for browser MQTT (empty = disabled)
}

// Health is the per-sensor latched health state.
type Health struct {
	EntryStuck bool
	ExitStuck  bool
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Count         int
	Light         bool
	Override      bool
	ConfigMode    bool
	EditingParam  logic.Param
	Health        Health
	Counts        logic.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the occupancy state. Called from runLoop on every tick.
func (t *Tracker) Update(count int, light, override, configMode bool, editing logic.Param, health Health, counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.Count = count
	t.snap.Light = light
	t.snap.Override = override
	t.snap.ConfigMode = configMode
	t.snap.EditingParam = editing
	t.snap.Health = health
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetTunables mirrors the persisted record into the displayed config.
// Called after loading and after every session edit.
func (t *Tracker) SetTunables(cfg config.Config) {
	t.mu.Lock()
	t.snap.Config.TimeoutMs = cfg.Timeout.Milliseconds()
	t.snap.Config.DebounceMs = cfg.DebounceDelay.Milliseconds()
	t.snap.Config.BtnDebounceMs = cfg.ButtonDebounce.Milliseconds()
	t.snap.Config.MaxPersons = cfg.MaxPersons
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
