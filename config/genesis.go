package config

import (
	"encoding/hex"
	"fmt"

	"github.com/sassafras-chain/sassafras/consensus"
	"github.com/sassafras-chain/sassafras/crypto"
)

// BuildGenesisEpoch constructs the Epoch that seeds a fresh auxiliary store
// (spec §3, "an Epoch is created either as a genesis epoch ... or by
// Epoch.increment"). The validating set's ticket proofs come from
// ValidatingProofs, since nothing precedes genesis to commit them the way
// a normal epoch rotation would; the genesis Publishing set always starts
// with an empty ticket list, exactly like every later epoch's does.
func (c *Config) BuildGenesisEpoch() (*consensus.Epoch, error) {
	validating, err := authorityInfosFromConfig(c.Genesis.Validating)
	if err != nil {
		return nil, fmt.Errorf("genesis validating set: %w", err)
	}
	publishing, err := authorityInfosFromConfig(c.Genesis.Publishing)
	if err != nil {
		return nil, fmt.Errorf("genesis publishing set: %w", err)
	}

	randV, err := randomnessFromHex(c.Genesis.RandomnessV)
	if err != nil {
		return nil, fmt.Errorf("genesis randomness_validating: %w", err)
	}
	randP := randV
	if c.Genesis.RandomnessP != "" {
		randP, err = randomnessFromHex(c.Genesis.RandomnessP)
		if err != nil {
			return nil, fmt.Errorf("genesis randomness_publishing: %w", err)
		}
	}

	validatingProofs, err := ticketProofsFromConfig(c.Genesis.ValidatingProofs)
	if err != nil {
		return nil, fmt.Errorf("genesis validating_ticket_proofs: %w", err)
	}

	return &consensus.Epoch{
		EpochIndex: 0,
		StartSlot:  consensus.Slot(c.Genesis.StartSlot),
		Duration:   consensus.Slot(c.Genesis.Duration),
		Validating: consensus.ValidatorSet{
			Authorities: validating,
			Proofs:      validatingProofs,
			Randomness:  randV,
		},
		Publishing: consensus.ValidatorSet{
			Authorities: publishing,
			Proofs:      nil,
			Randomness:  randP,
		},
	}, nil
}

func ticketProofsFromConfig(list []string) ([]crypto.VRFProof, error) {
	out := make([]crypto.VRFProof, 0, len(list))
	for i, hx := range list {
		p, err := crypto.VRFProofFromHex(hx)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func authorityInfosFromConfig(list []AuthorityConfig) ([]consensus.AuthorityInfo, error) {
	out := make([]consensus.AuthorityInfo, 0, len(list))
	for i, a := range list {
		id, err := crypto.AuthorityIdFromHex(a.ID)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, consensus.AuthorityInfo{ID: id, Weight: consensus.AuthorityWeight(a.Weight)})
	}
	return out, nil
}

func randomnessFromHex(s string) (consensus.Randomness, error) {
	var r consensus.Randomness
	b, err := hex.DecodeString(s)
	if err != nil {
		return r, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != len(r) {
		return r, fmt.Errorf("randomness must be %d bytes, got %d", len(r), len(b))
	}
	copy(r[:], b)
	return r, nil
}
