package consensus

import (
	"testing"

	"github.com/sassafras-chain/sassafras/crypto"
)

func TestAdvanceAcceptsValidBlock(t *testing.T) {
	b := newTestBlock(t, 1000, 4)
	sm := NewEpochStateMachine()

	updated, err := sm.Advance(b.epoch, b.pre, b.seal, b.preSealHash(t), nil, nil)
	if err != nil {
		t.Fatalf("Advance rejected a valid block: %v", err)
	}
	if updated.EpochIndex != b.epoch.EpochIndex {
		t.Error("epoch index should not change without a NextEpochDescriptor")
	}
}

func TestAdvanceRejectsAuthorityIndexOutOfRange(t *testing.T) {
	b := newTestBlock(t, 1000, 4)
	b.pre.AuthorityIndex = 5
	sm := NewEpochStateMachine()

	_, err := sm.Advance(b.epoch, b.pre, b.seal, b.preSealHash(t), nil, nil)
	if !Is(err, KindInvalidAuthorityId) {
		t.Errorf("expected KindInvalidAuthorityId, got %v", err)
	}
}

func TestAdvanceRejectsTamperedSeal(t *testing.T) {
	b := newTestBlock(t, 1000, 4)
	b.seal.Signature[0] ^= 0xFF
	sm := NewEpochStateMachine()

	_, err := sm.Advance(b.epoch, b.pre, b.seal, b.preSealHash(t), nil, nil)
	if !Is(err, KindInvalidSeal) {
		t.Errorf("expected KindInvalidSeal, got %v", err)
	}
}

func TestAdvanceRejectsTicketIndexOutOfRange(t *testing.T) {
	b := newTestBlock(t, 1000, 4)
	b.pre.TicketVRFIndex = 9
	sm := NewEpochStateMachine()

	_, err := sm.Advance(b.epoch, b.pre, b.seal, b.preSealHash(t), nil, nil)
	if !Is(err, KindInvalidTicketVRFIndex) {
		t.Errorf("expected KindInvalidTicketVRFIndex, got %v", err)
	}
}

func TestAdvanceRejectsInvalidTicketVRF(t *testing.T) {
	b := newTestBlock(t, 1000, 4)
	b.pre.TicketVRFOutput[0] ^= 0xFF
	sm := NewEpochStateMachine()

	_, err := sm.Advance(b.epoch, b.pre, b.seal, b.preSealHash(t), nil, nil)
	if !Is(err, KindTicketVRFVerificationFailed) {
		t.Errorf("expected KindTicketVRFVerificationFailed, got %v", err)
	}
}

func TestAdvanceRejectsInvalidPostVRF(t *testing.T) {
	b := newTestBlock(t, 1000, 4)
	b.pre.PostVRFProof[0] ^= 0xFF
	sm := NewEpochStateMachine()

	_, err := sm.Advance(b.epoch, b.pre, b.seal, b.preSealHash(t), nil, nil)
	if !Is(err, KindPostVRFVerificationFailed) {
		t.Errorf("expected KindPostVRFVerificationFailed, got %v", err)
	}
}

func TestAdvanceAppendsTicketCommitments(t *testing.T) {
	b := newTestBlock(t, 1000, 4)
	sm := NewEpochStateMachine()

	commitment := crypto.VRFProof{0x77}
	updated, err := sm.Advance(b.epoch, b.pre, b.seal, b.preSealHash(t), &PostBlockDescriptor{
		Commitments: []crypto.VRFProof{commitment},
	}, nil)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if len(updated.Publishing.Proofs) != 1 || updated.Publishing.Proofs[0] != commitment {
		t.Error("ticket commitment was not appended to the publishing set")
	}
}

func TestAdvanceRotatesEpochAndAppliesOutsideIn(t *testing.T) {
	b := newTestBlock(t, 1000, 4)
	sm := NewEpochStateMachine()

	var next1, next2, next3 crypto.AuthorityId
	next1[0], next2[0], next3[0] = 1, 2, 3
	nextEpoch := &NextEpochDescriptor{
		Authorities: []AuthorityInfo{{ID: next1}, {ID: next2}, {ID: next3}},
		Randomness:  Randomness{0x55},
	}

	// Seed the parent's publishing set with three accumulated ticket
	// proofs so rotation has something to permute.
	b.epoch.Publishing.Proofs = []crypto.VRFProof{{0x01}, {0x02}, {0x03}}

	updated, err := sm.Advance(b.epoch, b.pre, b.seal, b.preSealHash(t), nil, nextEpoch)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if updated.EpochIndex != b.epoch.EpochIndex+1 {
		t.Errorf("EpochIndex: got %d want %d", updated.EpochIndex, b.epoch.EpochIndex+1)
	}
	want := OutsideIn([]crypto.VRFProof{{0x01}, {0x02}, {0x03}})
	if len(updated.Validating.Proofs) != len(want) {
		t.Fatalf("validating proofs length: got %d want %d", len(updated.Validating.Proofs), len(want))
	}
	for i := range want {
		if updated.Validating.Proofs[i] != want[i] {
			t.Errorf("validating proof[%d]: got %x want %x", i, updated.Validating.Proofs[i], want[i])
		}
	}
	if len(updated.Publishing.Proofs) != 0 {
		t.Error("rotated publishing set must start with no accumulated proofs")
	}
}

func TestOutsideInOrdering(t *testing.T) {
	in := []crypto.VRFProof{{1}, {2}, {3}, {4}, {5}}
	got := OutsideIn(in)
	want := []crypto.VRFProof{{1}, {5}, {2}, {4}, {3}}
	if len(got) != len(want) {
		t.Fatalf("length: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %x want %x", i, got[i], want[i])
		}
	}
}

func TestOutsideInEmpty(t *testing.T) {
	if got := OutsideIn(nil); len(got) != 0 {
		t.Errorf("OutsideIn(nil) should be empty, got %v", got)
	}
}
