// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/ultrasonic-relay/internal/logic"
)

// Topic is the MQTT topic for relay transition events.
const Topic = "sensors/ultrasonic/relay/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "sensors/ultrasonic/relay/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a relay transition event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event RelayEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// RelayEvent is a relay transition from the controller, stamped with
// wall-clock time by the host loop.
type RelayEvent struct {
	Timestamp time.Time
	Type      logic.EventType
	// Tick is the controller tick at which the transition occurred.
	Tick uint64
	// DistanceCm and AverageCm carry the activating reading and verified
	// average; meaningful for RELAY_ON only.
	DistanceCm int
	AverageCm  int
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
	Proximity ProximityPayload `json:"proximity"`
}

// ProximityPayload contains the relay transition details.
type ProximityPayload struct {
	Timestamp  string     `json:"timestamp"`
	Event      string     `json:"event"`
	Tick       uint64     `json:"tick"`
	DistanceCm int        `json:"distance_cm"`
	AverageCm  int        `json:"average_cm"`
	Relay      RelayLevel `json:"relay"`
}

// RelayLevel represents the relay output level after the transition.
type RelayLevel struct {
	State string `json:"state"`
}

// FormatPayload creates the JSON payload for a relay transition event.
func FormatPayload(event RelayEvent) ([]byte, error) {
	state := "OFF"
	if event.Type == logic.EventRelayOn {
		state = "ON"
	}
	payload := Payload{
		Proximity: ProximityPayload{
			Timestamp:  event.Timestamp.UTC().Format(time.RFC3339),
			Event:      string(event.Type),
			Tick:       event.Tick,
			DistanceCm: event.DistanceCm,
			AverageCm:  event.AverageCm,
			Relay:      RelayLevel{State: state},
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
