package logic

// relay applies the hysteresis thresholds to verified averages and times the
// fixed hold interval. Once active it ignores further averages (none arrive
// anyway while the pipeline is frozen) and releases only when the hold
// counter runs out.
type relay struct {
	active    bool
	hold      uint64
	holdTicks uint64
	onCm      int
	offCm     int
}

// observe feeds a verified average to the relay. Returns true if the relay
// activated on this observation.
func (r *relay) observe(avgCm int) bool {
	if r.active {
		return false
	}
	if avgCm <= r.onCm {
		r.active = true
		r.hold = 0
		return true
	}
	// At or beyond the release threshold the relay is already idle; nothing
	// to do. (Reachable only if a verified average ever arrived while armed
	// with the object out of range.)
	return false
}

// tickHold advances the hold timer by one tick. Returns true if the hold
// interval elapsed and the relay released on this tick.
func (r *relay) tickHold() bool {
	if !r.active {
		return false
	}
	r.hold++
	if r.hold >= r.holdTicks {
		r.active = false
		r.hold = 0
		return true
	}
	return false
}
