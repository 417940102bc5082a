package consensus

import (
	"sync"
	"time"
)

// InherentData is the subset of inherent data the verifier needs: the two
// required keys named in spec §6 — the timestamp inherent and the
// Sassafras slot inherent.
type InherentData struct {
	Timestamp uint64
	Slot      Slot
}

type slotSample struct {
	at   time.Time
	slot Slot
}

// TimeSource supplies the current slot and a drift-adjusted timestamp from
// inherent data (spec §4.5 step 0). It is shared between the Verifier and
// inherent-data production and so must be safe for concurrent use (spec
// §5): a single mutex guards a consume-once clock-drift offset plus a
// rolling log of (Instant, slot) samples, mirroring the original's
// `Arc<Mutex<(Option<Duration>, Vec<(Instant, u64)>)>>` exactly.
type TimeSource struct {
	mu      sync.Mutex
	drift   *time.Duration
	samples []slotSample
}

func NewTimeSource() *TimeSource {
	return &TimeSource{}
}

// SetDrift queues a one-shot clock-drift offset to be consumed by the next
// ExtractTimestampAndSlot call. Intended for test setups and for the
// inherent-data provider that measures drift against a remote time source.
func (ts *TimeSource) SetDrift(d time.Duration) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.drift = &d
}

// ExtractTimestampAndSlot reads the timestamp and slot inherents and
// returns them alongside the queued clock-drift offset, consuming it. A
// sample of (now, slot) is retained for diagnostics.
func (ts *TimeSource) ExtractTimestampAndSlot(data InherentData) (timestamp uint64, slot Slot, drift time.Duration, err error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.drift != nil {
		drift = *ts.drift
		ts.drift = nil
	}
	ts.samples = append(ts.samples, slotSample{at: time.Now(), slot: data.Slot})
	return data.Timestamp, data.Slot, drift, nil
}
