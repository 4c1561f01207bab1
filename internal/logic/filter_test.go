package logic

import "testing"

func TestFilterIdenticalSamplesConsistent(t *testing.T) {
	f := newSampleFilter(5, 1)
	for i := 0; i < 5; i++ {
		f.push(20)
	}

	avg, ok := f.verify()
	if !ok {
		t.Error("identical samples should be consistent")
	}
	if avg != 20 {
		t.Errorf("average: got %d, want 20", avg)
	}
}

func TestFilterSingleOutlierRejected(t *testing.T) {
	// 20,20,20,20,25 with 1 cm tolerance: mean is 21, the outlier deviates
	// by 4, so the set must be rejected.
	f := newSampleFilter(5, 1)
	for _, cm := range []int{20, 20, 20, 20, 25} {
		f.push(cm)
	}

	avg, ok := f.verify()
	if ok {
		t.Errorf("outlier set reported consistent (avg=%d)", avg)
	}
}

func TestFilterToleranceBoundary(t *testing.T) {
	samples := []int{20, 20, 20, 20, 22} // mean 20, max deviation 2

	f := newSampleFilter(5, 1)
	for _, cm := range samples {
		f.push(cm)
	}
	if _, ok := f.verify(); ok {
		t.Error("deviation 2 should fail tolerance 1")
	}

	f = newSampleFilter(5, 2)
	for _, cm := range samples {
		f.push(cm)
	}
	if _, ok := f.verify(); !ok {
		t.Error("deviation 2 should pass tolerance 2")
	}
}

func TestFilterZeroSeededStartup(t *testing.T) {
	// The ring is treated as full from the start, so early readings are
	// compared against zero slots and consistency is suppressed until the
	// ring has cycled.
	f := newSampleFilter(5, 1)

	for i := 1; i <= 4; i++ {
		f.push(20)
		if avg, ok := f.verify(); ok {
			t.Errorf("after %d of 5 readings: consistent with avg %d, want rejection", i, avg)
		}
	}

	f.push(20)
	avg, ok := f.verify()
	if !ok {
		t.Error("fifth reading should complete a consistent set")
	}
	if avg != 20 {
		t.Errorf("average: got %d, want 20", avg)
	}
}

func TestFilterCursorWraps(t *testing.T) {
	f := newSampleFilter(3, 0)
	for _, cm := range []int{1, 2, 3, 7, 7, 7} {
		f.push(cm)
	}

	avg, ok := f.verify()
	if !ok {
		t.Error("fully overwritten ring should be consistent")
	}
	if avg != 7 {
		t.Errorf("average: got %d, want 7", avg)
	}
}
