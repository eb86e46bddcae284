// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/doorway-counter/internal/logic"
)

// Topic is the MQTT topic for occupancy events.
const Topic = "building/doorway/counter/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "building/doorway/counter/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends an occupancy event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Doorway DoorwayPayload `json:"doorway"`
}

// DoorwayPayload contains the occupancy event details.
type DoorwayPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Count     int    `json:"count"`
	Light     string `json:"light"`
	Sensor    string `json:"sensor,omitempty"`
	Param     string `json:"param,omitempty"`
	Value     int64  `json:"value,omitempty"`
}

// FormatPayload creates the JSON payload for an occupancy event.
func FormatPayload(event logic.Event) ([]byte, error) {
	light := "OFF"
	if event.Light {
		light = "ON"
	}

	payload := Payload{
		Doorway: DoorwayPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			Count:     event.Count,
			Light:     light,
			Sensor:    string(event.Sensor),
			Param:     string(event.Param),
			Value:     event.Value,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
