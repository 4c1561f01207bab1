// Package config holds the detection tuning for the ultrasonic-relay daemon.
// The file surface uses physical units (microseconds, milliseconds,
// centimeters); conversion to the tick domain happens in ToController after
// validation.
package config

import "github.com/sweeney/ultrasonic-relay/internal/gpio"

type Config struct {
	Timing TimingConfig `yaml:"timing"`
	Sensor SensorConfig `yaml:"sensor"`
	Relay  RelayConfig  `yaml:"relay"`
	Pins   PinsConfig   `yaml:"pins"`
}

// ---- TIMING ----

type TimingConfig struct {
	// TickUs is the controller tick interval in microseconds. It must divide
	// one second evenly so the derived tick rate is exact.
	TickUs int `yaml:"tick_us"`

	TriggerPulseUs    int `yaml:"trigger_pulse_us"`
	MeasureIntervalMs int `yaml:"measure_interval_ms"`
	EchoTimeoutMs     int `yaml:"echo_timeout_ms"`
	SettleMs          int `yaml:"settle_ms"`
}

// ---- SENSOR ----

type SensorConfig struct {
	SoundSpeedCmS  int `yaml:"sound_speed_cm_s"`
	Samples        int `yaml:"samples"`
	MaxDeviationCm int `yaml:"max_deviation_cm"`
}

// ---- RELAY ----

type RelayConfig struct {
	OnCm   int `yaml:"on_cm"`
	OffCm  int `yaml:"off_cm"`
	HoldMs int `yaml:"hold_ms"`
}

// ---- PINS (BCM numbering) ----

type PinsConfig struct {
	Trigger int `yaml:"trigger"`
	Echo    int `yaml:"echo"`
	Relay   int `yaml:"relay"`
}

// Default returns the reference tuning: 50 us tick, HC-SR04 style pulse
// timing, a 30/35 cm hysteresis band and a 5 s relay hold.
func Default() *Config {
	return &Config{
		Timing: TimingConfig{
			TickUs:            50,
			TriggerPulseUs:    50,
			MeasureIntervalMs: 60,
			EchoTimeoutMs:     40,
			SettleMs:          20,
		},
		Sensor: SensorConfig{
			SoundSpeedCmS:  34300,
			Samples:        5,
			MaxDeviationCm: 1,
		},
		Relay: RelayConfig{
			OnCm:   30,
			OffCm:  35,
			HoldMs: 5000,
		},
		Pins: PinsConfig{
			Trigger: gpio.DefaultPinTrigger,
			Echo:    gpio.DefaultPinEcho,
			Relay:   gpio.DefaultPinRelay,
		},
	}
}
