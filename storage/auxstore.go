package storage

import (
	"fmt"

	"github.com/sassafras-chain/sassafras/consensus"
)

// AuxStore implements consensus.EpochStore over the generic DB contract
// (spec §4.3). Each block hash gets its own key so forks are represented
// implicitly by multiple keys sharing a parent, with no cyclic structures
// to garbage-collect (spec §9, "Ownership of epoch state").
type AuxStore struct {
	db DB
}

func NewAuxStore(db DB) *AuxStore {
	return &AuxStore{db: db}
}

func auxKey(hash consensus.Hash) []byte {
	key := make([]byte, 0, len(consensus.AuxiliaryKey)+len(hash))
	key = append(key, consensus.AuxiliaryKey...)
	key = append(key, hash[:]...)
	return key
}

// Load returns the Epoch recorded for parentHash.
func (s *AuxStore) Load(parentHash consensus.Hash) (*consensus.Epoch, error) {
	rec, err := s.LoadRecord(parentHash)
	if err != nil {
		return nil, err
	}
	return rec.EpochState, nil
}

// LoadRecord returns the full AuxiliaryRecord for hash, failing with
// KindParentUnavailable if no record exists — genesis must be seeded
// externally via Write before the first real block verifies.
func (s *AuxStore) LoadRecord(hash consensus.Hash) (*consensus.AuxiliaryRecord, error) {
	data, err := s.db.Get(auxKey(hash))
	if err == ErrNotFound {
		return nil, &consensus.Error{
			Kind: consensus.KindParentUnavailable,
			Msg:  fmt.Sprintf("no auxiliary record for block %s", hash.String()),
		}
	}
	if err != nil {
		return nil, &consensus.Error{Kind: consensus.KindClient, Msg: "auxiliary store read failed", Err: err}
	}
	rec, err := consensus.DecodeAuxiliaryRecord(data)
	if err != nil {
		return nil, &consensus.Error{Kind: consensus.KindClient, Msg: "auxiliary record corrupt", Err: err}
	}
	return rec, nil
}

// Write persists rec under childHash via a one-entry batch that it writes
// immediately. The batch is private to this call, so no other write of the
// caller lands atomically with it.
func (s *AuxStore) Write(childHash consensus.Hash, rec *consensus.AuxiliaryRecord) error {
	batch := s.db.NewBatch()
	batch.Set(auxKey(childHash), consensus.EncodeAuxiliaryRecord(rec))
	if err := batch.Write(); err != nil {
		return &consensus.Error{Kind: consensus.KindClient, Msg: "auxiliary store write failed", Err: err}
	}
	return nil
}

// SeedGenesis writes the externally-provided genesis epoch under
// genesisHash, with LastSlot set to one below the epoch's start so a
// first block at the start slot satisfies the BlockImport monotonicity
// check (spec §4.6). When StartSlot is 0, LastSlot is 0 as well, and a
// first block at slot 0 is rejected by that check.
func (s *AuxStore) SeedGenesis(genesisHash consensus.Hash, epoch *consensus.Epoch) error {
	lastSlot := consensus.Slot(0)
	if epoch.StartSlot > 0 {
		lastSlot = epoch.StartSlot - 1
	}
	return s.Write(genesisHash, &consensus.AuxiliaryRecord{EpochState: epoch, LastSlot: lastSlot})
}
