package consensus

import (
	"encoding/binary"
	"fmt"

	"github.com/sassafras-chain/sassafras/crypto"
)

// No SCALE codec library is available anywhere in this module's dependency
// corpus (spec §6 calls for "the SCALE encoding", but nothing in the
// ecosystem surfaced by this core's examples implements it). This is a
// hand-rolled, deterministic, round-trip-correct binary encoding on
// encoding/binary instead — the one place in this module that falls back to
// the standard library for a concern the spec names a wire format for.
// Every reachable Epoch/AuxiliaryRecord value satisfies
// decode(encode(x)) == x (spec §8, "Encoding round-trip").

// EncodeEpoch serializes an Epoch deterministically.
func EncodeEpoch(e *Epoch) []byte {
	buf := make([]byte, 0, 128)
	buf = appendU64(buf, e.EpochIndex)
	buf = appendU64(buf, uint64(e.StartSlot))
	buf = appendU64(buf, uint64(e.Duration))
	buf = appendValidatorSet(buf, e.Validating)
	buf = appendValidatorSet(buf, e.Publishing)
	return buf
}

// DecodeEpoch parses bytes produced by EncodeEpoch.
func DecodeEpoch(data []byte) (*Epoch, error) {
	r := &reader{buf: data}
	e := &Epoch{}
	e.EpochIndex = r.u64()
	e.StartSlot = Slot(r.u64())
	e.Duration = Slot(r.u64())
	e.Validating = r.validatorSet()
	e.Publishing = r.validatorSet()
	if r.err != nil {
		return nil, fmt.Errorf("decode epoch: %w", r.err)
	}
	return e, nil
}

// EncodeAuxiliaryRecord serializes an AuxiliaryRecord deterministically.
func EncodeAuxiliaryRecord(rec *AuxiliaryRecord) []byte {
	buf := EncodeEpoch(rec.EpochState)
	buf = appendU64(buf, uint64(rec.LastSlot))
	return buf
}

// DecodeAuxiliaryRecord parses bytes produced by EncodeAuxiliaryRecord.
func DecodeAuxiliaryRecord(data []byte) (*AuxiliaryRecord, error) {
	epoch, err := DecodeEpoch(data)
	if err != nil {
		return nil, err
	}
	consumed := len(EncodeEpoch(epoch))
	if consumed > len(data) {
		return nil, fmt.Errorf("decode auxiliary record: truncated")
	}
	r := &reader{buf: data[consumed:]}
	lastSlot := Slot(r.u64())
	if r.err != nil {
		return nil, fmt.Errorf("decode auxiliary record: %w", r.err)
	}
	return &AuxiliaryRecord{EpochState: epoch, LastSlot: lastSlot}, nil
}

func appendU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendValidatorSet(buf []byte, v ValidatorSet) []byte {
	buf = appendU64(buf, uint64(len(v.Authorities)))
	for _, a := range v.Authorities {
		buf = append(buf, a.ID[:]...)
		buf = appendU64(buf, uint64(a.Weight))
	}
	buf = appendU64(buf, uint64(len(v.Proofs)))
	for _, p := range v.Proofs {
		buf = append(buf, p[:]...)
	}
	buf = append(buf, v.Randomness[:]...)
	return buf
}

// reader is a tiny cursor over an encoded buffer; once err is set, every
// subsequent read is a no-op, so callers only need one error check at the
// end (mirrors the teacher's single-error-check style in storage/leveldb.go).
type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.off+n > len(r.buf) {
		r.err = fmt.Errorf("unexpected end of buffer at offset %d (need %d more bytes)", r.off, n)
		return false
	}
	return true
}

// boundedCount clamps a length prefix read off the wire against the bytes
// actually remaining in the buffer, given the fixed size of each element it
// prefixes. A corrupt or truncated record can claim an arbitrarily large
// count (up to math.MaxUint64); dividing the remaining buffer by elemSize
// instead of multiplying count*elemSize avoids the int overflow that
// multiplication would risk, and turns a would-be makeslice panic into the
// ordinary KindClient "corrupt" error every other parse failure produces.
func (r *reader) boundedCount(n uint64, elemSize int) (int, bool) {
	if r.err != nil {
		return 0, false
	}
	remaining := len(r.buf) - r.off
	if remaining < 0 {
		remaining = 0
	}
	maxN := uint64(remaining / elemSize)
	if n > maxN {
		r.err = fmt.Errorf("length prefix %d exceeds %d bytes remaining in buffer", n, remaining)
		return 0, false
	}
	return int(n), true
}

func (r *reader) u64() uint64 {
	if !r.need(8) {
		return 0
	}
	v := binary.LittleEndian.Uint64(r.buf[r.off : r.off+8])
	r.off += 8
	return v
}

func (r *reader) bytesN(n int) []byte {
	if !r.need(n) {
		return make([]byte, n)
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:r.off+n])
	r.off += n
	return out
}

func (r *reader) authorityID() crypto.AuthorityId {
	var id crypto.AuthorityId
	copy(id[:], r.bytesN(crypto.AuthorityIdSize))
	return id
}

func (r *reader) vrfProof() crypto.VRFProof {
	var p crypto.VRFProof
	copy(p[:], r.bytesN(crypto.VRFProofSize))
	return p
}

func (r *reader) randomness() Randomness {
	var rnd Randomness
	copy(rnd[:], r.bytesN(32))
	return rnd
}

func (r *reader) validatorSet() ValidatorSet {
	var v ValidatorSet
	n := r.u64()
	if r.err != nil {
		return v
	}
	nCap, ok := r.boundedCount(n, crypto.AuthorityIdSize+8)
	if !ok {
		return v
	}
	v.Authorities = make([]AuthorityInfo, 0, nCap)
	for i := uint64(0); i < n; i++ {
		id := r.authorityID()
		weight := AuthorityWeight(r.u64())
		v.Authorities = append(v.Authorities, AuthorityInfo{ID: id, Weight: weight})
	}
	m := r.u64()
	if r.err != nil {
		return v
	}
	mCap, ok := r.boundedCount(m, crypto.VRFProofSize)
	if !ok {
		return v
	}
	v.Proofs = make([]crypto.VRFProof, 0, mCap)
	for i := uint64(0); i < m; i++ {
		v.Proofs = append(v.Proofs, r.vrfProof())
	}
	v.Randomness = r.randomness()
	return v
}
