package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sassafras-chain/sassafras/crypto"
)

// AuthorityConfig is one genesis validating-set entry.
type AuthorityConfig struct {
	ID     string `json:"id"`     // hex-encoded schnorrkel AuthorityId
	Weight uint64 `json:"weight"` // informational fork-choice weight
}

// GenesisConfig seeds the first Epoch this node will accept blocks
// against (spec §3, "Lifecycle" — "an Epoch is created either as a
// genesis epoch (externally provided) or by Epoch.increment").
type GenesisConfig struct {
	ChainID     string            `json:"chain_id"`
	StartSlot   uint64            `json:"start_slot"`
	Duration    uint64            `json:"duration"`
	Validating  []AuthorityConfig `json:"validating"`
	Publishing  []AuthorityConfig `json:"publishing"`
	RandomnessV string            `json:"randomness_validating"` // hex, 32 bytes
	RandomnessP string            `json:"randomness_publishing"` // hex, 32 bytes

	// ValidatingProofs seeds the genesis validating set's ticket proofs
	// (hex-encoded, one per entry), so an epoch-0 block can reference a
	// TicketVRFIndex the way every later epoch's rotated set does.
	// Without at least one entry here, no block can ever pass step 3 of
	// the verification algorithm against the genesis epoch.
	ValidatingProofs []string `json:"validating_ticket_proofs"`
}

// Config holds all node configuration for the verifier pipeline: where its
// auxiliary store lives and what genesis epoch to seed a fresh store with.
type Config struct {
	NodeID  string        `json:"node_id"`
	DataDir string        `json:"data_dir"`
	Genesis GenesisConfig `json:"genesis"`
}

// DefaultConfig returns a single-node development configuration with no
// authorities — callers must fill in Genesis before use.
func DefaultConfig() *Config {
	return &Config{
		NodeID:  "node0",
		DataDir: "./data",
		Genesis: GenesisConfig{
			ChainID:  "sassafras-dev",
			Duration: 600,
		},
	}
}

// Load reads a JSON config file from path and validates required fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required fields are present and well-formed.
func (c *Config) Validate() error {
	if c.NodeID == "" {
		return fmt.Errorf("node_id must not be empty")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.Genesis.ChainID == "" {
		return fmt.Errorf("genesis.chain_id must not be empty")
	}
	if c.Genesis.Duration == 0 {
		return fmt.Errorf("genesis.duration must be > 0")
	}
	if len(c.Genesis.Validating) == 0 {
		return fmt.Errorf("genesis.validating must not be empty")
	}
	for i, a := range c.Genesis.Validating {
		if _, err := crypto.AuthorityIdFromHex(a.ID); err != nil {
			return fmt.Errorf("genesis.validating[%d]: %w", i, err)
		}
	}
	for i, a := range c.Genesis.Publishing {
		if _, err := crypto.AuthorityIdFromHex(a.ID); err != nil {
			return fmt.Errorf("genesis.publishing[%d]: %w", i, err)
		}
	}
	if len(c.Genesis.RandomnessV) != 64 {
		return fmt.Errorf("genesis.randomness_validating must be 64-char hex (32 bytes), got %d chars", len(c.Genesis.RandomnessV))
	}
	if c.Genesis.RandomnessP != "" && len(c.Genesis.RandomnessP) != 64 {
		return fmt.Errorf("genesis.randomness_publishing must be 64-char hex (32 bytes), got %d chars", len(c.Genesis.RandomnessP))
	}
	if len(c.Genesis.ValidatingProofs) == 0 {
		return fmt.Errorf("genesis.validating_ticket_proofs must not be empty")
	}
	for i, p := range c.Genesis.ValidatingProofs {
		if _, err := crypto.VRFProofFromHex(p); err != nil {
			return fmt.Errorf("genesis.validating_ticket_proofs[%d]: %w", i, err)
		}
	}
	return nil
}

// Save writes the config to path as formatted JSON.
func Save(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
