//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealPort drives actual hardware through the Linux GPIO character device.
type RealPort struct {
	chip    *gpiocdev.Chip
	trigger *gpiocdev.Line
	echo    *gpiocdev.Line
	relay   *gpiocdev.Line
}

// NewRealPort opens the controller lines on gpiochip0. The trigger and relay
// lines are requested as outputs driven low; the echo line as an input with
// pull-down so a disconnected ranger reads as "no echo" rather than floating.
func NewRealPort(pinTrigger, pinEcho, pinRelay int) (*RealPort, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	triggerLine, err := chip.RequestLine(pinTrigger, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request trigger pin %d: %w", pinTrigger, err)
	}

	echoLine, err := chip.RequestLine(pinEcho, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		triggerLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request echo pin %d: %w", pinEcho, err)
	}

	relayLine, err := chip.RequestLine(pinRelay, gpiocdev.AsOutput(0))
	if err != nil {
		echoLine.Close()
		triggerLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request relay pin %d: %w", pinRelay, err)
	}

	return &RealPort{
		chip:    chip,
		trigger: triggerLine,
		echo:    echoLine,
		relay:   relayLine,
	}, nil
}

// ReadEcho samples the raw echo input level.
func (p *RealPort) ReadEcho() (bool, error) {
	v, err := p.echo.Value()
	if err != nil {
		return false, fmt.Errorf("read echo pin: %w", err)
	}
	return v != 0, nil
}

// SetTrigger drives the ranger trigger output.
func (p *RealPort) SetTrigger(level bool) error {
	if err := p.trigger.SetValue(levelValue(level)); err != nil {
		return fmt.Errorf("set trigger pin: %w", err)
	}
	return nil
}

// SetRelay drives the relay output.
func (p *RealPort) SetRelay(level bool) error {
	if err := p.relay.SetValue(levelValue(level)); err != nil {
		return fmt.Errorf("set relay pin: %w", err)
	}
	return nil
}

// Close drives both outputs low, reconfigures the lines to input with
// pull-down (matching Pi boot defaults) and releases them. Driving low first
// matters for the relay: a released line must not leave the load switched on.
func (p *RealPort) Close() error {
	var errs []error

	for _, out := range []struct {
		name string
		line *gpiocdev.Line
	}{
		{"relay", p.relay},
		{"trigger", p.trigger},
	} {
		if out.line == nil {
			continue
		}
		if err := out.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear %s pin: %w", out.name, err))
		}
		if err := out.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s pin: %w", out.name, err))
		}
		if err := out.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", out.name, err))
		}
	}

	if p.echo != nil {
		if err := p.echo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close echo pin: %w", err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func levelValue(level bool) int {
	if level {
		return 1
	}
	return 0
}
