// Package status provides a thread-safe status tracker for the
// ultrasonic-relay daemon. It is designed to be read by HTTP handlers while
// the tick loop writes to it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/ultrasonic-relay/internal/logic"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	TickUs      int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	WSBroker    string // Websocket broker URL for browser MQTT (empty = disabled)
	OnCm        int
	OffCm       int
	HoldMs      int64
	Samples     int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Relay          logic.RelayState
	Sequencer      logic.State
	Armed          bool // power-on settle window elapsed
	LastDistanceCm int  // -1 until the first completed reading
	LastAverageCm  int  // -1 until the first verified average
	Counts         logic.Counts
	StartTime      time.Time
	Now            time.Time
	MQTTConnected  bool
	Network        *NetworkInfo
	Config         Config
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
			StartTime:      startTime,
			Config:         cfg,
			Relay:          logic.RelayIdle,
			Sequencer:      logic.StateIdle,
			LastDistanceCm: -1,
			LastAverageCm:  -1,
		},
	}
}

// Update sets the controller-derived fields. Called from the tick loop.
func (t *Tracker) Update(relay logic.RelayState, seq logic.State, armed bool, distanceCm, averageCm int, counts logic.Counts) {
	t.mu.Lock()
	t.snap.Relay = relay
	t.snap.Sequencer = seq
	t.snap.Armed = armed
	t.snap.LastDistanceCm = distanceCm
	t.snap.LastAverageCm = averageCm
	t.snap.Counts = counts
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
