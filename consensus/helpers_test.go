package consensus

import (
	"testing"

	"github.com/sassafras-chain/sassafras/crypto"
)

// testBlock holds everything needed to drive EpochStateMachine.Advance or
// Verifier.Verify against a single, internally-consistent candidate block:
// one authority whose ticket proof is pre-committed in epoch's validating
// set, and whose post-block VRF and seal are freshly signed over slot.
type testBlock struct {
	pair   *crypto.AuthorityPair
	epoch  *Epoch
	pre    *PreDigest
	seal   Seal
	header *Header // pre-seal log items plus the final SealLog
}

// newTestBlock builds a single-authority epoch and a matching valid
// PreDigest/Seal pair for slot. extraLogs (e.g. a PostBlockDescriptorLog or
// NextEpochDescriptorLog) are inserted between the pre-runtime digest and
// the seal, the same position an honest author would place them.
func newTestBlock(t *testing.T, slot Slot, epochIndex uint64, extraLogs ...LogItem) *testBlock {
	t.Helper()
	pair, err := crypto.GenerateAuthorityPair()
	if err != nil {
		t.Fatalf("generate authority pair: %v", err)
	}

	randomness := Randomness{0x11, 0x22}
	builder := TranscriptBuilder{}

	ticketOut, ticketProof, err := crypto.VrfSign(pair, builder.Ticket(slot, epochIndex, randomness))
	if err != nil {
		t.Fatalf("sign ticket vrf: %v", err)
	}
	postOut, postProof, err := crypto.VrfSign(pair, builder.Post(slot, epochIndex, randomness))
	if err != nil {
		t.Fatalf("sign post vrf: %v", err)
	}

	epoch := &Epoch{
		EpochIndex: epochIndex,
		StartSlot:  slot,
		Duration:   100,
		Validating: ValidatorSet{
			Authorities: []AuthorityInfo{{ID: pair.Public(), Weight: 1}},
			Proofs:      []crypto.VRFProof{ticketProof},
			Randomness:  randomness,
		},
		Publishing: ValidatorSet{
			Authorities: []AuthorityInfo{{ID: pair.Public(), Weight: 1}},
			Randomness:  randomness,
		},
	}

	pre := &PreDigest{
		AuthorityIndex:  0,
		Slot:            slot,
		TicketVRFIndex:  0,
		TicketVRFOutput: ticketOut,
		PostVRFOutput:   postOut,
		PostVRFProof:    postProof,
	}

	header := &Header{
		ParentHash: Hash{0xAA},
		Number:     1,
		Logs:       append([]LogItem{PreRuntimeLog(*pre)}, extraLogs...),
	}
	preSealHash := header.Hash()

	sig, err := crypto.SignSeal(pair, EngineID[:], preSealHash[:])
	if err != nil {
		t.Fatalf("sign seal: %v", err)
	}
	seal := Seal{EngineID: EngineID, Signature: sig}
	header.Logs = append(header.Logs, SealLog(seal))

	return &testBlock{pair: pair, epoch: epoch, pre: pre, seal: seal, header: header}
}

// preSealHash recomputes the hash of b.header with the seal popped, as the
// Verifier does internally.
func (b *testBlock) preSealHash(t *testing.T) Hash {
	t.Helper()
	logsCopy := append([]LogItem(nil), b.header.Logs...)
	h := &Header{ParentHash: b.header.ParentHash, Number: b.header.Number, Logs: logsCopy}
	if _, ok := h.PopSeal(); !ok {
		t.Fatal("test header has no trailing seal")
	}
	return h.Hash()
}
