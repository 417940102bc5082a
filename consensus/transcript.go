package consensus

import (
	"encoding/binary"

	"github.com/gtank/merlin"
)

// transcriptRole selects which of the two VRF roles a transcript is bound
// to (spec §4.2).
type transcriptRole string

const (
	roleTicket transcriptRole = "ticket"
	rolePost   transcriptRole = "post"
)

// TranscriptBuilder deterministically binds (role, slot, epoch, randomness)
// into the Merlin transcript both the author and the verifier feed to the
// VRF (spec §4.2, §6 — byte-exact is part of the external interface).
type TranscriptBuilder struct{}

func (TranscriptBuilder) build(role transcriptRole, slot Slot, epochIndex uint64, randomness Randomness) *merlin.Transcript {
	t := merlin.NewTranscript(string(EngineID[:]))
	t.AppendMessage([]byte("type"), []byte(role))

	var slotBuf [8]byte
	binary.LittleEndian.PutUint64(slotBuf[:], uint64(slot))
	t.AppendMessage([]byte("slot number"), slotBuf[:])

	var epochBuf [8]byte
	binary.LittleEndian.PutUint64(epochBuf[:], epochIndex)
	t.AppendMessage([]byte("current epoch"), epochBuf[:])

	t.AppendMessage([]byte("chain randomness"), randomness[:])
	return t
}

// Ticket builds the transcript a ticket VRF proof is checked against.
func (b TranscriptBuilder) Ticket(slot Slot, epochIndex uint64, randomness Randomness) *merlin.Transcript {
	return b.build(roleTicket, slot, epochIndex, randomness)
}

// Post builds the transcript the post-block randomness VRF is checked
// against.
func (b TranscriptBuilder) Post(slot Slot, epochIndex uint64, randomness Randomness) *merlin.Transcript {
	return b.build(rolePost, slot, epochIndex, randomness)
}
