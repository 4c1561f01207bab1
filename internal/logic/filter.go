package logic

// sampleFilter keeps the last N distance readings in a fixed ring and
// decides whether they are mutually consistent. The ring starts zero-filled
// and is always treated as full: until N real readings have been pushed the
// mean is dragged toward zero and consistency is normally suppressed. That
// startup asymmetry is intentional and matches the original controller.
type sampleFilter struct {
	samples  []int
	cursor   int
	maxDevCm int
}

func newSampleFilter(n, maxDevCm int) *sampleFilter {
	return &sampleFilter{
		samples:  make([]int, n),
		maxDevCm: maxDevCm,
	}
}

// push stores a reading at the cursor, overwriting the oldest entry.
func (f *sampleFilter) push(cm int) {
	f.samples[f.cursor] = cm
	f.cursor = (f.cursor + 1) % len(f.samples)
}

// verify returns the integer mean of the ring and whether every entry lies
// within maxDevCm of that mean. The mean is only meaningful when ok is true.
func (f *sampleFilter) verify() (avg int, ok bool) {
	sum := 0
	for _, s := range f.samples {
		sum += s
	}
	avg = sum / len(f.samples)

	for _, s := range f.samples {
		dev := s - avg
		if dev < 0 {
			dev = -dev
		}
		if dev > f.maxDevCm {
			return avg, false
		}
	}
	return avg, true
}
