package storage_test

import (
	"testing"

	"github.com/sassafras-chain/sassafras/consensus"
	"github.com/sassafras-chain/sassafras/internal/testutil"
	"github.com/sassafras-chain/sassafras/storage"
)

func sampleEpoch() *consensus.Epoch {
	var id consensus.AuthorityInfo
	id.Weight = 1
	return &consensus.Epoch{
		EpochIndex: 0,
		StartSlot:  10,
		Duration:   5,
		Validating: consensus.ValidatorSet{Authorities: []consensus.AuthorityInfo{id}},
		Publishing: consensus.ValidatorSet{Authorities: []consensus.AuthorityInfo{id}},
	}
}

func TestAuxStoreSeedGenesisThenLoad(t *testing.T) {
	db := testutil.NewMemDB()
	store := storage.NewAuxStore(db)

	genesisHash := consensus.Hash{0x01}
	epoch := sampleEpoch()
	if err := store.SeedGenesis(genesisHash, epoch); err != nil {
		t.Fatalf("SeedGenesis: %v", err)
	}

	loaded, err := store.Load(genesisHash)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.StartSlot != epoch.StartSlot || loaded.Duration != epoch.Duration {
		t.Errorf("loaded epoch does not match: got %+v", loaded)
	}

	rec, err := store.LoadRecord(genesisHash)
	if err != nil {
		t.Fatalf("LoadRecord: %v", err)
	}
	if rec.LastSlot != epoch.StartSlot-1 {
		t.Errorf("genesis LastSlot: got %d want %d", rec.LastSlot, epoch.StartSlot-1)
	}
}

func TestAuxStoreLoadRecordMissingIsParentUnavailable(t *testing.T) {
	db := testutil.NewMemDB()
	store := storage.NewAuxStore(db)

	_, err := store.LoadRecord(consensus.Hash{0xFF})
	if !consensus.Is(err, consensus.KindParentUnavailable) {
		t.Errorf("expected KindParentUnavailable, got %v", err)
	}
}

func TestAuxStoreWriteThenLoadByChildHash(t *testing.T) {
	db := testutil.NewMemDB()
	store := storage.NewAuxStore(db)

	childHash := consensus.Hash{0x02}
	rec := &consensus.AuxiliaryRecord{EpochState: sampleEpoch(), LastSlot: 99}
	if err := store.Write(childHash, rec); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := store.LoadRecord(childHash)
	if err != nil {
		t.Fatalf("LoadRecord: %v", err)
	}
	if got.LastSlot != 99 {
		t.Errorf("LastSlot: got %d want 99", got.LastSlot)
	}
}
