package logic

// echoSync is the 3-stage shift register that synchronizes the raw echo
// input. One new sample is shifted in per tick; the value the sequencer
// consumes is the oldest slot, so a level is observed 3 ticks late and only
// after it has been stable for the full register depth. This is a fixed
// delay, not a vote: a single-tick glitch is delayed, not filtered, but it
// can never be seen as a sustained level.
type echoSync struct {
	slots [3]bool
}

// shift pushes a freshly sampled raw level, discarding the oldest.
func (e *echoSync) shift(raw bool) {
	e.slots[2] = e.slots[1]
	e.slots[1] = e.slots[0]
	e.slots[0] = raw
}

// stableHigh reports the synchronized echo level (the oldest slot).
func (e *echoSync) stableHigh() bool {
	return e.slots[2]
}
