// Package logic contains the pure tick-driven decision core for the
// ultrasonic proximity relay. This package has NO external dependencies
// (no GPIO, MQTT, OS, or wall-clock time). The only notion of time is the
// tick: the host calls Controller.Tick once per tick of its fixed time base,
// and every duration in Config is expressed as a tick count.
package logic

// State identifies the measurement sequencer state.
type State string

const (
	StateIdle     State = "IDLE"
	StateTrigger  State = "TRIGGER"
	StateWaitEcho State = "WAIT_ECHO"
	StateMeasure  State = "MEASURE"
	StateVerify   State = "VERIFY"
)

// RelayState identifies the relay controller state.
type RelayState string

const (
	RelayIdle   RelayState = "IDLE"
	RelayActive RelayState = "ACTIVE"
)

// EventType represents a relay transition event.
type EventType string

const (
	EventRelayOn  EventType = "RELAY_ON"
	EventRelayOff EventType = "RELAY_OFF"
)

// Event represents a relay transition to be published.
type Event struct {
	// Tick is the controller tick count at which the transition occurred.
	Tick uint64
	Type EventType
	// DistanceCm is the reading that completed the activation (RELAY_ON only).
	DistanceCm int
	// AverageCm is the verified average that crossed the threshold (RELAY_ON only).
	AverageCm int
}

// Config holds the tick-domain tuning for the controller. All durations are
// tick counts at TickRate; the host converts from physical units before
// construction (see internal/config). Values are fixed for the life of the
// controller.
type Config struct {
	// TickRate is the tick frequency in ticks per second.
	TickRate uint64
	// SoundSpeedCmS is the speed of sound in cm/s (reference: 34300).
	SoundSpeedCmS uint64

	// OnCm activates the relay when a verified average is at or below it.
	OnCm int
	// OffCm is the release threshold; must be >= OnCm. With the measurement
	// pipeline frozen during the hold interval it never fires from a fresh
	// average, but the hysteresis band is still validated and reported.
	OffCm int

	// TriggerPulseTicks is the width of the trigger output pulse.
	TriggerPulseTicks uint64
	// MeasureIntervalTicks is the idle delay between measurement cycles.
	MeasureIntervalTicks uint64
	// EchoTimeoutTicks bounds both the wait for the echo rising edge and the
	// echo high duration itself.
	EchoTimeoutTicks uint64
	// RelayHoldTicks is how long the relay stays on once activated.
	RelayHoldTicks uint64

	// SampleCount is the size of the consistency ring (reference: 5).
	SampleCount int
	// MaxDeviationCm is the largest allowed deviation of any buffered sample
	// from the buffer mean (reference: 1).
	MaxDeviationCm int

	// SettleTicks is the power-on settle window during which outputs stay low
	// and the sequencer does not run.
	SettleTicks uint64
}

// Counts tracks controller activity since startup.
type Counts struct {
	// Measurements is the number of completed echo measurements.
	Measurements int
	// Timeouts counts cycles abandoned because the echo never rose, or never
	// fell, within the echo timeout.
	Timeouts int
	// Inconsistent counts readings whose sample buffer failed the
	// max-deviation check.
	Inconsistent int
	// Detections is the number of relay activations.
	Detections int
}
