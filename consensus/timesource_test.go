package consensus

import (
	"testing"
	"time"
)

func TestTimeSourceExtractReturnsData(t *testing.T) {
	ts := NewTimeSource()
	timestamp, slot, drift, err := ts.ExtractTimestampAndSlot(InherentData{Timestamp: 123, Slot: 45})
	if err != nil {
		t.Fatalf("ExtractTimestampAndSlot: %v", err)
	}
	if timestamp != 123 || slot != 45 {
		t.Errorf("got (%d, %d) want (123, 45)", timestamp, slot)
	}
	if drift != 0 {
		t.Errorf("drift should default to zero, got %v", drift)
	}
}

func TestTimeSourceDriftIsConsumedOnce(t *testing.T) {
	ts := NewTimeSource()
	ts.SetDrift(5 * time.Second)

	_, _, first, err := ts.ExtractTimestampAndSlot(InherentData{Slot: 1})
	if err != nil {
		t.Fatal(err)
	}
	if first != 5*time.Second {
		t.Errorf("first call should observe the queued drift, got %v", first)
	}

	_, _, second, err := ts.ExtractTimestampAndSlot(InherentData{Slot: 2})
	if err != nil {
		t.Fatal(err)
	}
	if second != 0 {
		t.Errorf("drift should be consumed after the first read, got %v", second)
	}
}
