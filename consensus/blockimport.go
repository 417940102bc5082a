package consensus

// Importer is the inner block importer BlockImport delegates storage to
// after its own checks pass (spec §4.6). Modelled as a narrow interface so
// this core never depends on a concrete chain-database implementation —
// the backing chain database is explicitly an external collaborator
// (spec §1).
type Importer interface {
	ImportBlock(params *ImportParams) error
}

// BlockImport wraps an inner Importer with the post-verification step:
// re-load auxiliary state, enforce slot-monotonicity, persist the updated
// epoch state and slot counter under the new block's hash, then delegate
// (spec §4.6).
//
// This check is required — not merely defensive — because blocks can
// reach BlockImport via a trusted path (e.g. local authoring) that bypasses
// Verifier entirely; in that case this is the only slot-ordering
// enforcement the chain gets.
type BlockImport struct {
	inner  Importer
	store  EpochStore
	digest DigestReader
}

func NewBlockImport(inner Importer, store EpochStore) *BlockImport {
	return &BlockImport{inner: inner, store: store}
}

// ImportBlock enforces pre.Slot > parent's recorded LastSlot, writes the
// updated AuxiliaryRecord under the child hash, then delegates to the inner
// Importer. The record write and the delegated import are two separate
// writes, not one atomic one: if the inner Importer fails, the record
// already written stays in the store.
func (bi *BlockImport) ImportBlock(params *ImportParams) error {
	pre, err := bi.digest.FindPreDigest(params.Header)
	if err != nil {
		return err
	}

	parentHash := params.Header.ParentHash
	parentRecord, err := bi.store.LoadRecord(parentHash)
	if err != nil {
		return wrapErr(KindParentUnavailable, "could not load parent auxiliary record", err)
	}

	if pre.Slot <= parentRecord.LastSlot {
		return newErr(KindSlotInPast, "slot does not exceed parent's last imported slot")
	}

	epoch, err := epochFromParams(params)
	if err != nil {
		return wrapErr(KindClient, "import params carry no epoch auxiliary write", err)
	}

	childHash := postHeaderHash(params)
	record := &AuxiliaryRecord{EpochState: epoch, LastSlot: pre.Slot}
	if err := bi.store.Write(childHash, record); err != nil {
		return wrapErr(KindClient, "write auxiliary record", err)
	}

	return bi.inner.ImportBlock(params)
}

// epochFromParams decodes the Epoch the Verifier already computed out of
// params.Auxiliary, rather than recomputing it, so BlockImport never
// duplicates EpochStateMachine logic.
func epochFromParams(params *ImportParams) (*Epoch, error) {
	for _, w := range params.Auxiliary {
		if string(w.Key) != string(AuxiliaryKey) {
			continue
		}
		rec, err := DecodeAuxiliaryRecord(w.Value)
		if err != nil {
			return nil, err
		}
		return rec.EpochState, nil
	}
	return nil, errNoEpochAuxiliary
}

var errNoEpochAuxiliary = &Error{Kind: KindClient, Msg: "no auxiliary epoch write present in import params"}

// postHeaderHash hashes the header with the seal (carried in PostDigests)
// reattached, matching the original's `block.post_header().hash()` — the
// hash identifying the block once fully assembled, as opposed to the
// pre-seal hash used only for the seal's own signature check.
func postHeaderHash(params *ImportParams) Hash {
	full := &Header{
		ParentHash: params.Header.ParentHash,
		Number:     params.Header.Number,
		Logs:       append(append([]LogItem(nil), params.Header.Logs...), params.PostDigests...),
	}
	return full.Hash()
}
