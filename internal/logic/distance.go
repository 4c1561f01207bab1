package logic

// DistanceCm converts an echo-high duration in ticks to a one-way distance
// in whole centimeters, rounded to nearest.
//
// The sound travels to the object and back during the echo pulse, so the
// one-way distance is d*s/(2*f) for duration d ticks at f ticks/s and sound
// speed s cm/s. The +f term rounds half up before the truncating division:
//
//	distance_cm = (d*s + f) / (2*f)
//
// At the reference constants (s=34300, f=50MHz) this reproduces the original
// controller's arithmetic exactly.
func (c Config) DistanceCm(echoTicks uint64) int {
	return int((echoTicks*c.SoundSpeedCmS + c.TickRate) / (2 * c.TickRate))
}
