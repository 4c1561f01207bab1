package config

import "fmt"

const microsPerSecond = 1_000_000

// Validate checks configuration correctness. It performs declarative
// validation only and MUST NOT mutate configuration. The daemon calls it
// once at startup and refuses to run on any error.
func Validate(cfg *Config) error {
	t := cfg.Timing

	if t.TickUs < 1 {
		return fmt.Errorf("timing.tick_us must be at least 1, got %d", t.TickUs)
	}
	if microsPerSecond%t.TickUs != 0 {
		return fmt.Errorf("timing.tick_us %d must divide one second evenly", t.TickUs)
	}
	if t.TriggerPulseUs < 1 {
		return fmt.Errorf("timing.trigger_pulse_us must be at least 1, got %d", t.TriggerPulseUs)
	}
	if t.MeasureIntervalMs < 1 {
		return fmt.Errorf("timing.measure_interval_ms must be at least 1, got %d", t.MeasureIntervalMs)
	}
	if t.EchoTimeoutMs < 1 {
		return fmt.Errorf("timing.echo_timeout_ms must be at least 1, got %d", t.EchoTimeoutMs)
	}
	if t.SettleMs < 0 {
		return fmt.Errorf("timing.settle_ms must not be negative, got %d", t.SettleMs)
	}

	s := cfg.Sensor
	if s.SoundSpeedCmS < 1 {
		return fmt.Errorf("sensor.sound_speed_cm_s must be positive, got %d", s.SoundSpeedCmS)
	}
	if s.Samples < 1 {
		return fmt.Errorf("sensor.samples must be at least 1, got %d", s.Samples)
	}
	if s.MaxDeviationCm < 0 {
		return fmt.Errorf("sensor.max_deviation_cm must not be negative, got %d", s.MaxDeviationCm)
	}

	r := cfg.Relay
	if r.OnCm < 0 {
		return fmt.Errorf("relay.on_cm must not be negative, got %d", r.OnCm)
	}
	if r.OffCm < r.OnCm {
		return fmt.Errorf("relay.off_cm %d must be at or above relay.on_cm %d (hysteresis band)", r.OffCm, r.OnCm)
	}
	if r.HoldMs < 1 {
		return fmt.Errorf("relay.hold_ms must be at least 1, got %d", r.HoldMs)
	}

	p := cfg.Pins
	for name, pin := range map[string]int{"trigger": p.Trigger, "echo": p.Echo, "relay": p.Relay} {
		if pin < 0 {
			return fmt.Errorf("pins.%s must not be negative, got %d", name, pin)
		}
	}
	if p.Trigger == p.Echo || p.Trigger == p.Relay || p.Echo == p.Relay {
		return fmt.Errorf("pins must be distinct, got trigger=%d echo=%d relay=%d", p.Trigger, p.Echo, p.Relay)
	}

	return nil
}
