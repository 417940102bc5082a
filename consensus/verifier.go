package consensus

// BlockOrigin identifies where an incoming block came from (network gossip,
// local authoring, a file import, …). The core only threads it through to
// ImportParams; it never branches on it — that judgment belongs to the
// import queue, not the verifier.
type BlockOrigin uint8

const (
	OriginGenesis BlockOrigin = iota
	OriginNetworkInitialSync
	OriginNetworkBroadcast
	OriginFile
	OriginOwn
)

// ForkChoiceStrategy is reported to the inner importer alongside
// ImportParams. This core only ever produces LongestChain (spec §1,
// Non-goals: no fork-choice beyond longest chain).
type ForkChoiceStrategy uint8

const (
	ForkChoiceLongestChain ForkChoiceStrategy = iota
)

// AuxWrite is one (key, value) pair to be persisted atomically with the
// block's import (spec §4.3, §6 — the auxiliary store key/value contract).
type AuxWrite struct {
	Key   []byte
	Value []byte
}

// AuxiliaryKey is the fixed byte string auxiliary records are stored under
// (spec §6).
var AuxiliaryKey = []byte("sassafras_auxiliary_v1")

// AuxiliaryRecord is persisted per block hash (spec §3): the epoch state
// that block produced plus the slot-monotonicity counter the BlockImport
// wrapper enforces independently of the Verifier.
type AuxiliaryRecord struct {
	EpochState *Epoch
	LastSlot   Slot
}

// ImportParams is the outcome of a successful Verify call: everything the
// inner block importer needs to persist the block (spec §4.5 step 4).
type ImportParams struct {
	Origin      BlockOrigin
	Header      *Header
	Body        []byte
	PostDigests []LogItem
	Auxiliary   []AuxWrite
	ForkChoice  ForkChoiceStrategy

	Finalized         bool
	AllowMissingState bool
	ImportExisting    bool
}

// CacheUpdates carries any authority-set (or similar) cache entries the
// caller should refresh. This core never populates one; it exists so the
// Verifier's signature matches the original's
// `(BlockImportParams, Option<Vec<(CacheKeyId, Vec<u8>)>>)` shape.
type CacheUpdates map[string][]byte

// EpochStore persists and retrieves the Epoch (and surrounding
// AuxiliaryRecord) associated with each block hash (spec §4.3). Backed by
// the chain database's auxiliary key/value contract — the only storage
// touch-point this core consumes from the backing chain database (spec
// §1).
type EpochStore interface {
	// Load returns the Epoch recorded for parentHash, failing with
	// KindParentUnavailable if no record exists (genesis is seeded
	// externally).
	Load(parentHash Hash) (*Epoch, error)
	// LoadRecord returns the full AuxiliaryRecord for hash, used by the
	// BlockImport wrapper's independent slot-monotonicity check.
	LoadRecord(hash Hash) (*AuxiliaryRecord, error)
	// Write persists rec under childHash. Callers are expected to batch
	// this with the block's own storage write so a crash never leaves an
	// orphaned epoch record (spec §4.3).
	Write(childHash Hash, rec *AuxiliaryRecord) error
}

// Verifier orchestrates verification of an incoming block against the
// epoch derived from its parent (spec §4.5). It is stateless between
// calls except for the shared TimeSource and EpochStore, so concurrent
// verification of independent branches is safe (spec §5); ordering across
// a single branch is the import queue's responsibility, not the
// Verifier's.
type Verifier struct {
	store EpochStore
	time  *TimeSource
	sm    *EpochStateMachine
	digest DigestReader
}

func NewVerifier(store EpochStore, time *TimeSource) *Verifier {
	return &Verifier{
		store: store,
		time:  time,
		sm:    NewEpochStateMachine(),
	}
}

// Verify runs the full algorithm of spec §4.5 against header, consuming
// inherent for the slot-in-future check.
func (v *Verifier) Verify(origin BlockOrigin, header *Header, inherent InherentData, body []byte) (*ImportParams, CacheUpdates, error) {
	// 0. Acquire slot_now and reject blocks claiming a slot strictly past it.
	_, slotNow, _, err := v.time.ExtractTimestampAndSlot(inherent)
	if err != nil {
		return nil, nil, wrapErr(KindExtraction, "could not extract timestamp and slot", err)
	}

	// 1. Look up the parent's Epoch.
	parentEpoch, err := v.store.Load(header.ParentHash)
	if err != nil {
		return nil, nil, err
	}

	// 2. Extract digests; pop the seal.
	pre, err := v.digest.FindPreDigest(header)
	if err != nil {
		return nil, nil, err
	}
	if pre.Slot > slotNow {
		return nil, nil, newErr(KindSlotInFuture, "pre-digest slot is beyond the local clock")
	}
	postBlock, err := v.digest.FindPostBlockDescriptor(header)
	if err != nil {
		return nil, nil, err
	}
	nextEpoch, err := v.digest.FindNextEpochDescriptor(header)
	if err != nil {
		return nil, nil, err
	}
	seal, ok := header.PopSeal()
	if !ok {
		return nil, nil, newErr(KindHeaderUnsealed, "header carries no seal digest")
	}
	if seal.EngineID != EngineID {
		return nil, nil, newErr(KindInvalidSeal, "seal engine id mismatch")
	}
	preSealHash := header.Hash()

	// 3. Run the epoch state machine.
	updatedEpoch, err := v.sm.Advance(parentEpoch, pre, seal, preSealHash, postBlock, nextEpoch)
	if err != nil {
		return nil, nil, err
	}

	// 4. Produce BlockImportParams.
	rec := &AuxiliaryRecord{EpochState: updatedEpoch, LastSlot: pre.Slot}
	params := &ImportParams{
		Origin:      origin,
		Header:      header,
		Body:        body,
		PostDigests: []LogItem{SealLog(seal)},
		Auxiliary:   []AuxWrite{{Key: AuxiliaryKey, Value: EncodeAuxiliaryRecord(rec)}},
		ForkChoice:  ForkChoiceLongestChain,

		Finalized:         false,
		AllowMissingState: false,
		ImportExisting:    false,
	}
	return params, nil, nil
}
