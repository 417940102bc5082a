package config

import (
	"path/filepath"
	"testing"

	"github.com/sassafras-chain/sassafras/crypto"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	pair, err := crypto.GenerateAuthorityPair()
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.Genesis.Validating = []AuthorityConfig{{ID: pair.Public().Hex(), Weight: 1}}
	cfg.Genesis.RandomnessV = "11223344556677889900aabbccddeeff11223344556677889900aabbccddeeff"
	cfg.Genesis.ValidatingProofs = []string{sampleProofHex}
	return cfg
}

const sampleProofHex = "11223344556677889900aabbccddeeff11223344556677889900aabbccddeeff" +
	"11223344556677889900aabbccddeeff11223344556677889900aabbccddeeff"

func TestDefaultConfigFailsValidationWithoutGenesis(t *testing.T) {
	if err := DefaultConfig().Validate(); err == nil {
		t.Error("default config has no validating authorities and should fail validation")
	}
}

func TestValidConfigPasses(t *testing.T) {
	if err := validConfig(t).Validate(); err != nil {
		t.Errorf("expected valid config to pass, got %v", err)
	}
}

func TestValidateRejectsBadAuthorityHex(t *testing.T) {
	cfg := validConfig(t)
	cfg.Genesis.Validating[0].ID = "not-hex"
	if err := cfg.Validate(); err == nil {
		t.Error("bad authority hex should fail validation")
	}
}

func TestValidateRejectsShortRandomness(t *testing.T) {
	cfg := validConfig(t)
	cfg.Genesis.RandomnessV = "abcd"
	if err := cfg.Validate(); err == nil {
		t.Error("short randomness hex should fail validation")
	}
}

func TestValidateRejectsEmptyValidatingProofs(t *testing.T) {
	cfg := validConfig(t)
	cfg.Genesis.ValidatingProofs = nil
	if err := cfg.Validate(); err == nil {
		t.Error("empty validating_ticket_proofs should fail validation")
	}
}

func TestValidateRejectsBadProofHex(t *testing.T) {
	cfg := validConfig(t)
	cfg.Genesis.ValidatingProofs = []string{"zz"}
	if err := cfg.Validate(); err == nil {
		t.Error("bad ticket proof hex should fail validation")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	cfg := validConfig(t)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Genesis.ChainID != cfg.Genesis.ChainID {
		t.Errorf("ChainID: got %q want %q", loaded.Genesis.ChainID, cfg.Genesis.ChainID)
	}
	if len(loaded.Genesis.Validating) != 1 || loaded.Genesis.Validating[0].ID != cfg.Genesis.Validating[0].ID {
		t.Error("validating set did not round-trip through save/load")
	}
}
