// Package gpio provides the sensor and relay pin access with hardware
// abstraction. The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Port gives access to the three controller lines: the echo input and the
// trigger and relay outputs.
type Port interface {
	// ReadEcho samples the raw echo input level.
	ReadEcho() (bool, error)

	// SetTrigger drives the ranger trigger output.
	SetTrigger(level bool) error

	// SetRelay drives the relay output.
	SetRelay(level bool) error

	// Close drives both outputs low and releases GPIO resources.
	Close() error
}

// Default pin assignments (BCM numbering).
const (
	DefaultPinTrigger = 23
	DefaultPinEcho    = 24
	DefaultPinRelay   = 25
)
