package consensus

import (
	"github.com/sassafras-chain/sassafras/crypto"
)

// EpochStateMachine holds the {validating, publishing} validator-set model
// and performs ticket admission and epoch rotation (spec §4.4 — "the hard
// part"). It is stateless: every call takes the parent epoch explicitly and
// returns a freshly-derived one, so concurrent verifications of independent
// branches never share mutable state (spec §5).
type EpochStateMachine struct {
	transcripts TranscriptBuilder
}

func NewEpochStateMachine() *EpochStateMachine {
	return &EpochStateMachine{}
}

// Advance runs the full verification order of spec §4.4 against parent and
// produces the post-block Epoch. Each stage must pass before the next runs;
// the first failing stage's error is returned immediately.
//
// preSealHash is the hash of the header with the seal digest already
// removed (spec §4.4 step 2) — the Verifier computes it after popping the
// seal via Header.PopSeal and before calling Advance.
func (sm *EpochStateMachine) Advance(
	parent *Epoch,
	pre *PreDigest,
	seal Seal,
	preSealHash Hash,
	postBlock *PostBlockDescriptor,
	nextEpoch *NextEpochDescriptor,
) (*Epoch, error) {
	epoch := parent.clone()

	// 1. Authority lookup.
	if int(pre.AuthorityIndex) >= len(epoch.Validating.Authorities) {
		return nil, newErr(KindInvalidAuthorityId, "authority_index out of range")
	}
	author := epoch.Validating.Authorities[pre.AuthorityIndex].ID

	// 2. Seal check: verify against the pre-seal hash and the author's key.
	if err := crypto.VerifySeal(author, EngineID[:], preSealHash[:], seal.Signature); err != nil {
		return nil, wrapErr(KindInvalidSeal, "seal does not verify against claimed author", err)
	}

	// 3. Ticket index.
	if int(pre.TicketVRFIndex) >= len(epoch.Validating.Proofs) {
		return nil, newErr(KindInvalidTicketVRFIndex, "ticket_vrf_index out of range")
	}
	ticketProof := epoch.Validating.Proofs[pre.TicketVRFIndex]

	// 4. Ticket VRF.
	ticketTranscript := sm.transcripts.Ticket(pre.Slot, epoch.EpochIndex, epoch.Validating.Randomness)
	if err := crypto.VrfVerify(author, ticketTranscript, pre.TicketVRFOutput, ticketProof); err != nil {
		return nil, wrapErr(KindTicketVRFVerificationFailed, "ticket vrf proof invalid", err)
	}

	// 5. Post VRF.
	postTranscript := sm.transcripts.Post(pre.Slot, epoch.EpochIndex, epoch.Validating.Randomness)
	if err := crypto.VrfVerify(author, postTranscript, pre.PostVRFOutput, pre.PostVRFProof); err != nil {
		return nil, wrapErr(KindPostVRFVerificationFailed, "post vrf proof invalid", err)
	}

	// 6. Ticket commitments (optional). Threshold validation of admitted
	// commitments is an open point left unimplemented (spec §9); a
	// conformant author never submits more commitments than the ticket
	// budget allows, but nothing here enforces that yet.
	if postBlock != nil {
		epoch.Publishing.Proofs = append(epoch.Publishing.Proofs, postBlock.Commitments...)
	}

	// 7. Epoch rotation (optional). The descriptor's authorities and
	// randomness are used as decoded; no validity checks (such as a
	// non-empty authority list) are applied to them.
	if nextEpoch != nil {
		rotated, err := epoch.Increment(*nextEpoch)
		if err != nil {
			return nil, wrapErr(KindRuntime, "epoch rotation failed", err)
		}
		rotated.Validating.Proofs = OutsideIn(rotated.Validating.Proofs)
		epoch = rotated
	}

	return epoch, nil
}

// OutsideIn implements the "outside-in" permutation named but not specified
// by algorithm in the original source (spec §9, §13 resolves this Open
// Question): given commitments p[0..N) in commitment order, interleave from
// both ends inward — p[0], p[N-1], p[1], p[N-2], p[2], … This is the
// deterministic mapping between slot offsets within an epoch and the
// tickets collected for it that the author and verifier must agree on.
func OutsideIn(proofs []crypto.VRFProof) []crypto.VRFProof {
	n := len(proofs)
	out := make([]crypto.VRFProof, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			out[i] = proofs[i/2]
		} else {
			out[i] = proofs[n-1-i/2]
		}
	}
	return out
}
