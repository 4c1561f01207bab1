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
	Event          string       `json:"event,omitempty"`
	Reason         string       `json:"reason,omitempty"`
	Relay          string       `json:"relay"`
	Sequencer      string       `json:"sequencer"`
	Armed          bool         `json:"armed"`
	LastDistanceCm *int         `json:"last_distance_cm"`
	LastAverageCm  *int         `json:"last_average_cm"`
	UptimeSeconds  int64        `json:"uptime_seconds"`
	StartTime      string       `json:"start_time"`
	Timestamp      string       `json:"timestamp"`
	MQTT           MQTTStatus   `json:"mqtt"`
	Counts         CountsJSON   `json:"counts"`
	Network        *NetworkJSON `json:"network,omitempty"`
	Config         ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of the controller counters.
type CountsJSON struct {
	Measurements int `json:"measurements"`
	Timeouts     int `json:"timeouts"`
	Inconsistent int `json:"inconsistent"`
	Detections   int `json:"detections"`
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
	TickUs      int64  `json:"tick_us"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	WSBroker    string `json:"ws_broker,omitempty"`
	OnCm        int    `json:"on_cm"`
	OffCm       int    `json:"off_cm"`
	HoldMs      int64  `json:"hold_ms"`
	Samples     int    `json:"samples"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Relay:         string(snap.Relay),
		Sequencer:     string(snap.Sequencer),
		Armed:         snap.Armed,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Measurements: snap.Counts.Measurements,
			Timeouts:     snap.Counts.Timeouts,
			Inconsistent: snap.Counts.Inconsistent,
			Detections:   snap.Counts.Detections,
		},
		Config: ConfigJSON{
			TickUs:      snap.Config.TickUs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			WSBroker:    snap.Config.WSBroker,
			OnCm:        snap.Config.OnCm,
			OffCm:       snap.Config.OffCm,
			HoldMs:      snap.Config.HoldMs,
			Samples:     snap.Config.Samples,
		},
	}

	// -1 means "no reading yet"; serialize as null rather than a bogus range.
	if snap.LastDistanceCm >= 0 {
		d := snap.LastDistanceCm
		inner.LastDistanceCm = &d
	}
	if snap.LastAverageCm >= 0 {
		a := snap.LastAverageCm
		inner.LastAverageCm = &a
	}

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

	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
