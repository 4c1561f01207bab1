package config

import (
	"time"

	"github.com/sweeney/ultrasonic-relay/internal/logic"
)

// TickInterval returns the wall-clock duration of one controller tick.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Timing.TickUs) * time.Microsecond
}

// TickRate returns the controller tick rate in ticks per second. Exact
// because Validate requires tick_us to divide one second evenly.
func (c *Config) TickRate() uint64 {
	return uint64(microsPerSecond / c.Timing.TickUs)
}

// ToController converts the physical-unit configuration to the tick-domain
// logic.Config. Durations are rounded up to whole ticks; any non-zero
// duration becomes at least one tick. MUST be called only after Validate().
func (c *Config) ToController() logic.Config {
	return logic.Config{
		TickRate:             c.TickRate(),
		SoundSpeedCmS:        uint64(c.Sensor.SoundSpeedCmS),
		OnCm:                 c.Relay.OnCm,
		OffCm:                c.Relay.OffCm,
		TriggerPulseTicks:    c.usToTicks(c.Timing.TriggerPulseUs),
		MeasureIntervalTicks: c.msToTicks(c.Timing.MeasureIntervalMs),
		EchoTimeoutTicks:     c.msToTicks(c.Timing.EchoTimeoutMs),
		RelayHoldTicks:       c.msToTicks(c.Relay.HoldMs),
		SampleCount:          c.Sensor.Samples,
		MaxDeviationCm:       c.Sensor.MaxDeviationCm,
		SettleTicks:          c.msToTicks(c.Timing.SettleMs),
	}
}

func (c *Config) usToTicks(us int) uint64 {
	if us <= 0 {
		return 0
	}
	tick := uint64(c.Timing.TickUs)
	return (uint64(us) + tick - 1) / tick
}

func (c *Config) msToTicks(ms int) uint64 {
	if ms <= 0 {
		return 0
	}
	return c.usToTicks(ms * 1000)
}
