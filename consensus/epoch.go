package consensus

import (
	"errors"

	"github.com/sassafras-chain/sassafras/crypto"
)

// ValidatorSet is either the currently-validating or the currently-publishing
// authority set of an Epoch (spec §3).
type ValidatorSet struct {
	// Authorities is ordered; index is the authoritative identifier
	// pre-digests reference via AuthorityIndex.
	Authorities []AuthorityInfo
	// Proofs is the accumulated, ordered sequence of ticket VRF proofs
	// committed during the preceding epoch; index is the authoritative
	// ticket identifier pre-digests reference via TicketVRFIndex.
	Proofs []crypto.VRFProof
	// Randomness is the 32-byte seed for this set's VRF transcripts.
	Randomness Randomness
}

func (v ValidatorSet) clone() ValidatorSet {
	out := ValidatorSet{Randomness: v.Randomness}
	out.Authorities = append([]AuthorityInfo(nil), v.Authorities...)
	out.Proofs = append([]crypto.VRFProof(nil), v.Proofs...)
	return out
}

// Epoch is the validator state attached to a contiguous range of slots
// (spec §3). Invariants: Duration > 0; StartSlot+Duration does not
// overflow; EpochIndex strictly increases along a branch.
type Epoch struct {
	EpochIndex uint64
	StartSlot  Slot
	Duration   Slot

	// Validating signs blocks in [StartSlot, StartSlot+Duration).
	Validating ValidatorSet
	// Publishing will sign in the next epoch; during the current epoch it
	// only accumulates ticket commitments.
	Publishing ValidatorSet
}

// EndSlot returns the slot immediately after this epoch's range.
func (e *Epoch) EndSlot() Slot {
	return e.StartSlot + e.Duration
}

// clone returns a deep copy so EpochStateMachine can mutate a value derived
// from the parent's persisted record without aliasing it (spec §3,
// "Ownership": EpochStateMachine operates on an owned mutable copy).
func (e *Epoch) clone() *Epoch {
	return &Epoch{
		EpochIndex: e.EpochIndex,
		StartSlot:  e.StartSlot,
		Duration:   e.Duration,
		Validating: e.Validating.clone(),
		Publishing: e.Publishing.clone(),
	}
}

// Increment produces the next Epoch given a NextEpochDescriptor (spec §3,
// Lifecycle):
//
//	epoch_index' = epoch_index + 1
//	start_slot'  = start_slot + duration
//	validating'  = publishing
//	publishing'  = ValidatorSet{proofs: [], authorities, randomness} from descriptor
//
// The caller (EpochStateMachine.Advance) sorts validating'.Proofs into
// outside-in order after Increment returns; Increment itself only performs
// the swap described above.
func (e *Epoch) Increment(descriptor NextEpochDescriptor) (*Epoch, error) {
	if e.Duration == 0 {
		return nil, errors.New("epoch duration must be > 0")
	}
	nextStart := e.StartSlot + e.Duration
	if nextStart < e.StartSlot {
		return nil, errors.New("start_slot + duration overflows")
	}
	return &Epoch{
		EpochIndex: e.EpochIndex + 1,
		StartSlot:  nextStart,
		Duration:   e.Duration,
		Validating: e.Publishing.clone(),
		Publishing: ValidatorSet{
			Authorities: append([]AuthorityInfo(nil), descriptor.Authorities...),
			Randomness:  descriptor.Randomness,
		},
	}, nil
}
