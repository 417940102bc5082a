package consensus

import (
	"encoding/binary"

	"github.com/sassafras-chain/sassafras/crypto"
)

// EngineID is the 4-byte consensus engine tag, used both as the digest
// engine id (spec §6) and as the Merlin transcript label (spec §4.2).
// Must be bit-identical across author and verifier.
var EngineID = [4]byte{'S', 'A', 'S', 'F'}

// Slot is a 64-bit, monotonically non-decreasing (per branch) time unit.
type Slot uint64

// Randomness is epoch-scoped VRF transcript entropy.
type Randomness [32]byte

// AuthorityWeight is informational fork-choice weighting; the core treats
// it as opaque (spec §3).
type AuthorityWeight uint64

// Hash identifies a block by the hash of its header.
type Hash = crypto.Hash256

// AuthorityInfo pairs an authority's verification key with its weight.
type AuthorityInfo struct {
	ID     crypto.AuthorityId
	Weight AuthorityWeight
}

// PreDigest is the pre-runtime digest a block author embeds in the header
// (spec §3). AuthorityIndex selects validating.Authorities; TicketVRFIndex
// selects validating.Proofs.
type PreDigest struct {
	AuthorityIndex  uint32
	Slot            Slot
	TicketVRFIndex  uint32
	TicketVRFOutput crypto.VRFOutput
	PostVRFOutput   crypto.VRFOutput
	PostVRFProof    crypto.VRFProof
}

// PostBlockDescriptor carries newly-committed ticket VRF proofs to be
// appended to the publishing validator set (spec §3, §4.4 step 6).
type PostBlockDescriptor struct {
	Commitments []crypto.VRFProof
}

// NextEpochDescriptor signals an epoch boundary and supplies the set that
// will start validating two epochs from now (spec §3, §4.4 step 7).
type NextEpochDescriptor struct {
	Authorities []AuthorityInfo
	Randomness  Randomness
}

// Seal is the author's signature over the pre-seal header hash. It is
// always the last digest log item.
type Seal struct {
	EngineID  [4]byte
	Signature crypto.Signature
}

// digestKind tags which of the four recognized digest log item shapes a
// LogItem holds (spec §9, "Polymorphism": a small closed set of tagged
// variants standing in for the original's CompatibleDigestItem trait).
type digestKind uint8

const (
	kindOther digestKind = iota
	kindPreRuntime
	kindPostBlockDescriptor
	kindNextEpochDescriptor
	kindSeal
)

// LogItem is one entry in a header's digest log. Exactly one of the typed
// fields is meaningful, selected by kind; unrecognized log entries are kept
// as kind == kindOther with raw populated so round-tripping a header never
// silently drops data it doesn't understand.
type LogItem struct {
	kind digestKind

	preDigest  *PreDigest
	postBlock  *PostBlockDescriptor
	nextEpoch  *NextEpochDescriptor
	seal       *Seal
	raw        []byte
}

func PreRuntimeLog(d PreDigest) LogItem {
	return LogItem{kind: kindPreRuntime, preDigest: &d}
}

func PostBlockDescriptorLog(d PostBlockDescriptor) LogItem {
	return LogItem{kind: kindPostBlockDescriptor, postBlock: &d}
}

func NextEpochDescriptorLog(d NextEpochDescriptor) LogItem {
	return LogItem{kind: kindNextEpochDescriptor, nextEpoch: &d}
}

func SealLog(s Seal) LogItem {
	return LogItem{kind: kindSeal, seal: &s}
}

func OtherLog(raw []byte) LogItem {
	return LogItem{kind: kindOther, raw: raw}
}

func (l LogItem) asPreDigest() (*PreDigest, bool) {
	return l.preDigest, l.kind == kindPreRuntime
}

func (l LogItem) asPostBlockDescriptor() (*PostBlockDescriptor, bool) {
	return l.postBlock, l.kind == kindPostBlockDescriptor
}

func (l LogItem) asNextEpochDescriptor() (*NextEpochDescriptor, bool) {
	return l.nextEpoch, l.kind == kindNextEpochDescriptor
}

func (l LogItem) asSeal() (*Seal, bool) {
	return l.seal, l.kind == kindSeal
}

// Header is the minimal block-header capability set the core needs,
// corresponding to the original's {hash(), parent_hash(), digest() logs,
// digest_mut() pop} (spec §9, "Polymorphism").
type Header struct {
	ParentHash Hash
	Number     uint64
	Logs       []LogItem
}

// Digest returns the header's digest log, in log order.
func (h *Header) Digest() []LogItem {
	return h.Logs
}

// PopSeal removes and returns the last digest log item if and only if it is
// a Seal; the header is left with a shorter log. Used by the Verifier,
// which must hash the header *without* the seal to validate the seal's own
// signature (spec §4.1, §4.4 step 2).
func (h *Header) PopSeal() (Seal, bool) {
	if len(h.Logs) == 0 {
		return Seal{}, false
	}
	last := h.Logs[len(h.Logs)-1]
	seal, ok := last.asSeal()
	if !ok {
		return Seal{}, false
	}
	h.Logs = h.Logs[:len(h.Logs)-1]
	return *seal, true
}

// Hash returns the blake2b-256 hash of the header's current encoding,
// including whatever digest log it currently holds. Callers that need the
// pre-seal hash must call PopSeal first, matching the original's
// `header.digest_mut().pop()` followed by `header.hash()`.
func (h *Header) Hash() Hash {
	return crypto.Hash(h.encode())
}

// encode is a small deterministic, hand-rolled binary encoding (see
// consensus/codec.go for why this core has no SCALE library available).
// It only needs to be deterministic and collision-resistant across the
// fields that feed the seal signature and pre-seal hash — it is never
// decoded back, so no symmetric Decode is needed here (contrast
// AuxiliaryRecord, which does round-trip through the auxiliary store).
func (h *Header) encode() []byte {
	buf := make([]byte, 0, 64+32*len(h.Logs))
	buf = append(buf, h.ParentHash[:]...)
	var numBuf [8]byte
	binary.LittleEndian.PutUint64(numBuf[:], h.Number)
	buf = append(buf, numBuf[:]...)
	for _, log := range h.Logs {
		buf = encodeLogItem(buf, log)
	}
	return buf
}

func encodeLogItem(buf []byte, log LogItem) []byte {
	buf = append(buf, byte(log.kind))
	switch log.kind {
	case kindPreRuntime:
		buf = encodePreDigest(buf, *log.preDigest)
	case kindPostBlockDescriptor:
		buf = encodePostBlockDescriptor(buf, *log.postBlock)
	case kindNextEpochDescriptor:
		buf = encodeNextEpochDescriptor(buf, *log.nextEpoch)
	case kindSeal:
		buf = append(buf, log.seal.EngineID[:]...)
		buf = append(buf, log.seal.Signature[:]...)
	default:
		buf = append(buf, log.raw...)
	}
	return buf
}

func encodePreDigest(buf []byte, d PreDigest) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint32(tmp[:4], d.AuthorityIndex)
	buf = append(buf, tmp[:4]...)
	binary.LittleEndian.PutUint64(tmp[:], uint64(d.Slot))
	buf = append(buf, tmp[:]...)
	binary.LittleEndian.PutUint32(tmp[:4], d.TicketVRFIndex)
	buf = append(buf, tmp[:4]...)
	buf = append(buf, d.TicketVRFOutput[:]...)
	buf = append(buf, d.PostVRFOutput[:]...)
	buf = append(buf, d.PostVRFProof[:]...)
	return buf
}

func encodePostBlockDescriptor(buf []byte, d PostBlockDescriptor) []byte {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(d.Commitments)))
	buf = append(buf, n[:]...)
	for _, c := range d.Commitments {
		buf = append(buf, c[:]...)
	}
	return buf
}

func encodeNextEpochDescriptor(buf []byte, d NextEpochDescriptor) []byte {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(d.Authorities)))
	buf = append(buf, n[:]...)
	for _, a := range d.Authorities {
		buf = append(buf, a.ID[:]...)
		var w [8]byte
		binary.LittleEndian.PutUint64(w[:], uint64(a.Weight))
		buf = append(buf, w[:]...)
	}
	buf = append(buf, d.Randomness[:]...)
	return buf
}

// DigestReader scans a header's digest log for the recognized item kinds
// (spec §4.1). Each query accepts the first occurrence and fails with a
// Multiple* error on a second.
type DigestReader struct{}

// FindPreDigest returns the header's pre-runtime digest, failing with
// KindNoPreRuntimeDigest if absent or KindMultiplePreRuntimeDigest if
// duplicated.
func (DigestReader) FindPreDigest(h *Header) (*PreDigest, error) {
	var found *PreDigest
	for _, log := range h.Digest() {
		d, ok := log.asPreDigest()
		if !ok {
			continue
		}
		if found != nil {
			return nil, newErr(KindMultiplePreRuntimeDigest, "duplicate pre-runtime digest")
		}
		found = d
	}
	if found == nil {
		return nil, newErr(KindNoPreRuntimeDigest, "header carries no pre-runtime digest")
	}
	return found, nil
}

// FindPostBlockDescriptor returns the header's PostBlockDescriptor, or nil
// if absent (absence is not an error: spec §4.1).
func (DigestReader) FindPostBlockDescriptor(h *Header) (*PostBlockDescriptor, error) {
	var found *PostBlockDescriptor
	for _, log := range h.Digest() {
		d, ok := log.asPostBlockDescriptor()
		if !ok {
			continue
		}
		if found != nil {
			return nil, newErr(KindMultiplePostBlockDescriptor, "duplicate post-block descriptor")
		}
		found = d
	}
	return found, nil
}

// FindNextEpochDescriptor returns the header's NextEpochDescriptor, or nil
// if absent.
func (DigestReader) FindNextEpochDescriptor(h *Header) (*NextEpochDescriptor, error) {
	var found *NextEpochDescriptor
	for _, log := range h.Digest() {
		d, ok := log.asNextEpochDescriptor()
		if !ok {
			continue
		}
		if found != nil {
			return nil, newErr(KindMultipleNextEpochDescriptor, "duplicate next-epoch descriptor")
		}
		found = d
	}
	return found, nil
}
