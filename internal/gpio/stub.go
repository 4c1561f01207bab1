//go:build !linux

package gpio

import "errors"

// RealPort is not available on non-Linux platforms.
type RealPort struct{}

// NewRealPort returns an error on non-Linux platforms.
func NewRealPort(pinTrigger, pinEcho, pinRelay int) (*RealPort, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// ReadEcho is not implemented on non-Linux platforms.
func (p *RealPort) ReadEcho() (bool, error) {
	return false, errors.New("gpio: not supported")
}

// SetTrigger is not implemented on non-Linux platforms.
func (p *RealPort) SetTrigger(level bool) error {
	return errors.New("gpio: not supported")
}

// SetRelay is not implemented on non-Linux platforms.
func (p *RealPort) SetRelay(level bool) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (p *RealPort) Close() error {
	return nil
}
