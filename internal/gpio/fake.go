package gpio

// FakePort is a test double. The test drives the echo level directly and the
// fake records every output write, so a tick loop can be replayed against it
// and the resulting pin activity asserted.
type FakePort struct {
	// Echo is the level returned by ReadEcho. Tests set it as their
	// simulated ranger responds.
	Echo bool

	// Trigger and Relay hold the most recently written output levels.
	Trigger bool
	Relay   bool

	// TriggerWrites and RelayWrites record every SetTrigger/SetRelay call
	// in order.
	TriggerWrites []bool
	RelayWrites   []bool

	// ReadError, if set, will be returned by ReadEcho.
	ReadError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakePort creates a FakePort with the echo line low.
func NewFakePort() *FakePort {
	return &FakePort{}
}

// SetEcho sets the level the next ReadEcho calls will return.
func (f *FakePort) SetEcho(level bool) {
	f.Echo = level
}

// ReadEcho returns the scripted echo level.
func (f *FakePort) ReadEcho() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}
	return f.Echo, nil
}

// SetTrigger records the trigger write.
func (f *FakePort) SetTrigger(level bool) error {
	f.Trigger = level
	f.TriggerWrites = append(f.TriggerWrites, level)
	return nil
}

// SetRelay records the relay write.
func (f *FakePort) SetRelay(level bool) error {
	f.Relay = level
	f.RelayWrites = append(f.RelayWrites, level)
	return nil
}

// Close marks the port as closed.
func (f *FakePort) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded writes and scripted state.
func (f *FakePort) Reset() {
	f.Echo = false
	f.Trigger = false
	f.Relay = false
	f.TriggerWrites = nil
	f.RelayWrites = nil
	f.ReadError = nil
	f.Closed = false
}
