package logic

import "fmt"

// Controller owns the complete decision engine: power-on settle window, echo
// synchronizer, measurement sequencer, sample filter and relay. It is
// advanced exclusively by Tick and is not safe for concurrent use; the host
// loop is the single owner.
type Controller struct {
	cfg Config

	tick    uint64 // total ticks since construction
	settled uint64 // ticks spent in the settle window

	sync  echoSync
	state State

	// counter is the generic per-state tick counter (idle delay, trigger
	// pulse width, echo-rise timeout). echoTicks times the echo high level
	// during MEASURE only. Both reset on the state entries that use them.
	counter   uint64
	echoTicks uint64
	pendingCm int

	filter *sampleFilter
	relay  relay

	counts       Counts
	lastDistance int
	lastAverage  int
}

// New validates the configuration and returns a controller in its reset
// state. Configuration problems are construction errors; after New there are
// no recoverable error paths in the core.
func New(cfg Config) (*Controller, error) {
	if cfg.TickRate == 0 {
		return nil, fmt.Errorf("logic: tick rate must be positive")
	}
	if cfg.SoundSpeedCmS == 0 {
		return nil, fmt.Errorf("logic: sound speed must be positive")
	}
	if cfg.OnCm < 0 {
		return nil, fmt.Errorf("logic: on threshold %d cm is negative", cfg.OnCm)
	}
	if cfg.OffCm < cfg.OnCm {
		return nil, fmt.Errorf("logic: off threshold %d cm below on threshold %d cm", cfg.OffCm, cfg.OnCm)
	}
	if cfg.TriggerPulseTicks == 0 {
		return nil, fmt.Errorf("logic: trigger pulse must be at least one tick")
	}
	if cfg.MeasureIntervalTicks == 0 {
		return nil, fmt.Errorf("logic: measurement interval must be at least one tick")
	}
	if cfg.EchoTimeoutTicks == 0 {
		return nil, fmt.Errorf("logic: echo timeout must be at least one tick")
	}
	if cfg.RelayHoldTicks == 0 {
		return nil, fmt.Errorf("logic: relay hold must be at least one tick")
	}
	if cfg.SampleCount < 1 {
		return nil, fmt.Errorf("logic: sample count %d, need at least 1", cfg.SampleCount)
	}
	if cfg.MaxDeviationCm < 0 {
		return nil, fmt.Errorf("logic: max deviation %d cm is negative", cfg.MaxDeviationCm)
	}

	return &Controller{
		cfg:    cfg,
		state:  StateIdle,
		filter: newSampleFilter(cfg.SampleCount, cfg.MaxDeviationCm),
		relay: relay{
			holdTicks: cfg.RelayHoldTicks,
			onCm:      cfg.OnCm,
			offCm:     cfg.OffCm,
		},
		lastDistance: -1,
		lastAverage:  -1,
	}, nil
}

// Tick advances the controller by one tick of the fixed time base. echoRaw
// is the raw echo input level sampled this tick. The returned events are
// relay transitions that occurred on this tick; outputs are read back via
// TriggerOut and RelayOut after the call.
//
// The sequencer consumes the synchronizer's pre-shift value, so every
// decision on this tick is based on the previous tick's register state, the
// same way the synchronous original clocks both on one edge.
func (c *Controller) Tick(echoRaw bool) []Event {
	stable := c.sync.stableHigh()
	c.sync.shift(echoRaw)
	c.tick++

	// Power-on settle: the synchronizer keeps sampling but the sequencer and
	// both outputs stay frozen. Entered once, never re-entered.
	if c.settled < c.cfg.SettleTicks {
		c.settled++
		return nil
	}

	var events []Event

	// While the relay is held active the measurement pipeline is frozen in
	// IDLE with its delay counter stopped; only the hold timer advances.
	// Re-arming happens on the tick the hold elapses.
	if c.relay.active {
		if c.relay.tickHold() {
			events = append(events, Event{Tick: c.tick, Type: EventRelayOff})
		}
		return events
	}

	switch c.state {
	case StateIdle:
		c.counter++
		if c.counter >= c.cfg.MeasureIntervalTicks {
			c.counter = 0
			c.state = StateTrigger
		}

	case StateTrigger:
		c.counter++
		if c.counter >= c.cfg.TriggerPulseTicks {
			c.counter = 0
			c.state = StateWaitEcho
		}

	case StateWaitEcho:
		if stable {
			c.echoTicks = 0
			c.state = StateMeasure
		} else {
			c.counter++
			if c.counter >= c.cfg.EchoTimeoutTicks {
				// No echo: abandon the cycle silently.
				c.counter = 0
				c.counts.Timeouts++
				c.state = StateIdle
			}
		}

	case StateMeasure:
		if stable {
			c.echoTicks++
			if c.echoTicks > c.cfg.EchoTimeoutTicks {
				// Echo stuck high: abandon the cycle silently.
				c.counter = 0
				c.counts.Timeouts++
				c.state = StateIdle
			}
		} else {
			c.pendingCm = c.cfg.DistanceCm(c.echoTicks)
			c.state = StateVerify
		}

	case StateVerify:
		c.counts.Measurements++
		c.lastDistance = c.pendingCm
		c.filter.push(c.pendingCm)
		if avg, ok := c.filter.verify(); ok {
			c.lastAverage = avg
			if c.relay.observe(avg) {
				c.counts.Detections++
				events = append(events, Event{
					Tick:       c.tick,
					Type:       EventRelayOn,
					DistanceCm: c.pendingCm,
					AverageCm:  avg,
				})
			}
		} else {
			c.counts.Inconsistent++
		}
		c.counter = 0
		c.state = StateIdle

	default:
		// Undefined state: recover to IDLE rather than propagate.
		c.counter = 0
		c.state = StateIdle
	}

	return events
}

// TriggerOut returns the trigger output level for the current tick. High
// only while the sequencer is emitting the trigger pulse.
func (c *Controller) TriggerOut() bool {
	return c.state == StateTrigger
}

// RelayOut returns the relay output level for the current tick.
func (c *Controller) RelayOut() bool {
	return c.relay.active
}

// State returns the current sequencer state.
func (c *Controller) State() State {
	return c.state
}

// Relay returns the current relay controller state.
func (c *Controller) Relay() RelayState {
	if c.relay.active {
		return RelayActive
	}
	return RelayIdle
}

// Settled reports whether the power-on settle window has elapsed.
func (c *Controller) Settled() bool {
	return c.settled >= c.cfg.SettleTicks
}

// Counts returns a copy of the activity counters.
func (c *Controller) Counts() Counts {
	return c.counts
}

// LastDistanceCm returns the most recent completed reading, or -1 if no
// measurement has completed yet.
func (c *Controller) LastDistanceCm() int {
	return c.lastDistance
}

// LastAverageCm returns the most recent verified average, or -1 if the
// filter has not emitted one yet.
func (c *Controller) LastAverageCm() int {
	return c.lastAverage
}
