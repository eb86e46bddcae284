package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Persons       int          `json:"persons"`
	Light         string       `json:"light"`
	Override      bool         `json:"emergency_override"`
	ConfigMode    bool         `json:"config_mode"`
	EditingParam  string       `json:"editing_param,omitempty"`
	Health        HealthJSON   `json:"health"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// HealthJSON reports latched sensor health.
type HealthJSON struct {
	EntryStuck bool `json:"entry_stuck"`
	ExitStuck  bool `json:"exit_stuck"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Entered      int `json:"entered"`
	Exited       int `json:"exited"`
	Manual       int `json:"manual"`
	Resets       int `json:"resets"`
	CapacityHits int `json:"capacity_hits"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs        int64  `json:"poll_ms"`
	TimeoutMs     int64  `json:"timeout_ms"`
	DebounceMs    int64  `json:"debounce_ms"`
	BtnDebounceMs int64  `json:"btn_debounce_ms"`
	MaxPersons    int    `json:"max_persons"`
	HeartbeatMs   int64  `json:"heartbeat_ms"`
	Broker        string `json:"broker"`
	HTTPPort      string `json:"http_port"`
	WSBroker      string `json:"ws_broker,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	light := "OFF"
	if snap.Light {
		light = "ON"
	}

	editing := ""
	if snap.ConfigMode {
		editing = string(snap.EditingParam)
	}

	return StatusInner{
		Persons:      snap.Count,
		Light:        light,
		Override:     snap.Override,
		ConfigMode:   snap.ConfigMode,
		EditingParam: editing,
		Health: HealthJSON{
			EntryStuck: snap.Health.EntryStuck,
			ExitStuck:  snap.Health.ExitStuck,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Entered:      snap.Counts.Entered,
			Exited:       snap.Counts.Exited,
			Manual:       snap.Counts.Manual,
			Resets:       snap.Counts.Resets,
			CapacityHits: snap.Counts.CapacityHits,
		},
		Config: ConfigJSON{
			PollMs:        snap.Config.PollMs,
			TimeoutMs:     snap.Config.TimeoutMs,
			DebounceMs:    snap.Config.DebounceMs,
			BtnDebounceMs: snap.Config.BtnDebounceMs,
			MaxPersons:    snap.Config.MaxPersons,
			HeartbeatMs:   snap.Config.HeartbeatMs,
			Broker:        snap.Config.Broker,
			HTTPPort:      snap.Config.HTTPPort,
			WSBroker:      snap.Config.WSBroker,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
