package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/ultrasonic-relay/internal/logic"
)

func testTrackerConfig() Config {
	return Config{
		TickUs:      50,
		HeartbeatMs: 900000,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPAddr:    ":80",
		OnCm:        30,
		OffCm:       35,
		HoldMs:      5000,
		Samples:     5,
	}
}

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testTrackerConfig())

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.TickUs != 50 {
		t.Errorf("Config.TickUs: got %d, want 50", snap.Config.TickUs)
	}
	if snap.Relay != logic.RelayIdle {
		t.Errorf("Relay: got %s, want IDLE", snap.Relay)
	}
	if snap.Armed {
		t.Error("expected Armed=false initially")
	}
	if snap.LastDistanceCm != -1 {
		t.Errorf("LastDistanceCm: got %d, want -1", snap.LastDistanceCm)
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestTrackerUpdate(t *testing.T) {
	tr := NewTracker(time.Now(), testTrackerConfig())

	counts := logic.Counts{Measurements: 12, Timeouts: 3, Inconsistent: 7, Detections: 1}
	tr.Update(logic.RelayActive, logic.StateIdle, true, 20, 20, counts)
	tr.SetMQTTConnected(true)

	snap := tr.Snapshot()
	if snap.Relay != logic.RelayActive {
		t.Errorf("Relay: got %s, want ACTIVE", snap.Relay)
	}
	if !snap.Armed {
		t.Error("expected Armed=true")
	}
	if snap.LastDistanceCm != 20 || snap.LastAverageCm != 20 {
		t.Errorf("distances: got (%d, %d), want (20, 20)", snap.LastDistanceCm, snap.LastAverageCm)
	}
	if snap.Counts != counts {
		t.Errorf("Counts: got %+v, want %+v", snap.Counts, counts)
	}
	if !snap.MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), testTrackerConfig())
	snap := tr.Snapshot()

	tr.Update(logic.RelayActive, logic.StateIdle, true, 20, 20, logic.Counts{Detections: 1})

	if snap.Relay == logic.RelayActive {
		t.Error("snapshot mutated by later Update")
	}
}

func TestTrackerConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), testTrackerConfig())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Update(logic.RelayIdle, logic.StateIdle, true, j, j, logic.Counts{Measurements: j})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = tr.Snapshot()
			}
		}()
	}
	wg.Wait()
}

func TestFormatJSONNoReadingYet(t *testing.T) {
	tr := NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), testTrackerConfig())

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if sj.Status.Relay != "IDLE" {
		t.Errorf("relay: got %q, want IDLE", sj.Status.Relay)
	}
	if sj.Status.LastDistanceCm != nil {
		t.Errorf("last_distance_cm: got %v, want null", *sj.Status.LastDistanceCm)
	}
	if sj.Status.Config.OnCm != 30 || sj.Status.Config.OffCm != 35 {
		t.Errorf("thresholds: got (%d, %d)", sj.Status.Config.OnCm, sj.Status.Config.OffCm)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(time.Now(), testTrackerConfig())
	tr.Update(logic.RelayActive, logic.StateIdle, true, 18, 18, logic.Counts{Detections: 1})

	data := FormatStatusEvent(tr.Snapshot(), "HEARTBEAT", "")

	var sj StatusJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sj.Status.Event != "HEARTBEAT" {
		t.Errorf("event: got %q, want HEARTBEAT", sj.Status.Event)
	}
	if sj.Status.Relay != "ACTIVE" {
		t.Errorf("relay: got %q, want ACTIVE", sj.Status.Relay)
	}
	if sj.Status.LastDistanceCm == nil || *sj.Status.LastDistanceCm != 18 {
		t.Errorf("last_distance_cm: got %v, want 18", sj.Status.LastDistanceCm)
	}
	if sj.Status.Counts.Detections != 1 {
		t.Errorf("detections: got %d, want 1", sj.Status.Counts.Detections)
	}
}
