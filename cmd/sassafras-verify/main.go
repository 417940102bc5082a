// Command sassafras-verify runs the Sassafras verification pipeline
// against a single JSON-described candidate block. It exists to drive and
// demonstrate the wired verifier/importer stack without the networking,
// authoring, or RPC surfaces that stay out of this core's scope.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sassafras-chain/sassafras/config"
	"github.com/sassafras-chain/sassafras/consensus"
	"github.com/sassafras-chain/sassafras/crypto"
	"github.com/sassafras-chain/sassafras/storage"
)

func main() {
	cfgPath := flag.String("config", "config.json", "path to config file")
	blockPath := flag.String("block", "", "path to a JSON candidate block file to verify")
	flag.Parse()

	if *blockPath == "" {
		log.Fatal("-block is required")
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("mkdir data dir: %v", err)
	}
	db, err := storage.NewLevelDB(cfg.DataDir + "/aux")
	if err != nil {
		log.Fatalf("open aux db: %v", err)
	}
	defer db.Close()

	store := storage.NewAuxStore(db)
	genesisHash := crypto.Hash([]byte(cfg.Genesis.ChainID))
	if _, err := store.LoadRecord(genesisHash); err != nil {
		genesisEpoch, err := cfg.BuildGenesisEpoch()
		if err != nil {
			log.Fatalf("build genesis epoch: %v", err)
		}
		if err := store.SeedGenesis(genesisHash, genesisEpoch); err != nil {
			log.Fatalf("seed genesis: %v", err)
		}
		log.Printf("Seeded genesis epoch at %s", genesisHash.String())
	}

	candidate, err := loadCandidateBlock(*blockPath)
	if err != nil {
		log.Fatalf("load block: %v", err)
	}
	header, inherent, body, err := candidate.toHeader()
	if err != nil {
		log.Fatalf("decode block: %v", err)
	}

	timeSource := consensus.NewTimeSource()
	verifier := consensus.NewVerifier(store, timeSource)
	importer := consensus.NewBlockImport(loggingImporter{}, store)

	params, _, err := verifier.Verify(consensus.OriginFile, header, inherent, body)
	if err != nil {
		log.Fatalf("verify: %v", err)
	}
	if err := importer.ImportBlock(params); err != nil {
		log.Fatalf("import: %v", err)
	}
	log.Printf("Block %s verified and imported (slot %d)", header.Hash().String(), inherent.Slot)
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Config file not found at %s, using defaults.", path)
			return config.DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// loggingImporter is the terminal Importer in this demo: it has no chain
// database to write the block body into, so it only reports success.
type loggingImporter struct{}

func (loggingImporter) ImportBlock(params *consensus.ImportParams) error {
	log.Printf("imported header at number %d with %d post-digest(s)", params.Header.Number, len(params.PostDigests))
	return nil
}

// candidateBlock is the JSON shape accepted by -block. Byte fields are
// lowercase hex. It mirrors the digest items spec §3 defines, not any
// wire format this core itself produces.
type candidateBlock struct {
	ParentHash string `json:"parent_hash"`
	Number     uint64 `json:"number"`
	Body       string `json:"body"`

	PreDigest struct {
		AuthorityIndex  uint32 `json:"authority_index"`
		Slot            uint64 `json:"slot"`
		TicketVRFIndex  uint32 `json:"ticket_vrf_index"`
		TicketVRFOutput string `json:"ticket_vrf_output"`
		PostVRFOutput   string `json:"post_vrf_output"`
		PostVRFProof    string `json:"post_vrf_proof"`
	} `json:"pre_digest"`

	PostBlockDescriptor *struct {
		Commitments []string `json:"commitments"`
	} `json:"post_block_descriptor"`

	NextEpochDescriptor *struct {
		Authorities []struct {
			ID     string `json:"id"`
			Weight uint64 `json:"weight"`
		} `json:"authorities"`
		Randomness string `json:"randomness"`
	} `json:"next_epoch_descriptor"`

	Seal struct {
		Signature string `json:"signature"`
	} `json:"seal"`

	Inherent struct {
		Timestamp uint64 `json:"timestamp"`
		Slot      uint64 `json:"slot"`
	} `json:"inherent"`
}

func loadCandidateBlock(path string) (*candidateBlock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c candidateBlock
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *candidateBlock) toHeader() (*consensus.Header, consensus.InherentData, []byte, error) {
	var zero consensus.InherentData

	parentBytes, err := hex.DecodeString(c.ParentHash)
	if err != nil || len(parentBytes) != crypto.HashSize {
		return nil, zero, nil, fmt.Errorf("invalid parent_hash")
	}
	var parentHash consensus.Hash
	copy(parentHash[:], parentBytes)

	ticketOut, err := crypto.VRFOutputFromHex(c.PreDigest.TicketVRFOutput)
	if err != nil {
		return nil, zero, nil, err
	}
	postOut, err := crypto.VRFOutputFromHex(c.PreDigest.PostVRFOutput)
	if err != nil {
		return nil, zero, nil, err
	}
	postProof, err := crypto.VRFProofFromHex(c.PreDigest.PostVRFProof)
	if err != nil {
		return nil, zero, nil, err
	}

	logs := []consensus.LogItem{
		consensus.PreRuntimeLog(consensus.PreDigest{
			AuthorityIndex:  c.PreDigest.AuthorityIndex,
			Slot:            consensus.Slot(c.PreDigest.Slot),
			TicketVRFIndex:  c.PreDigest.TicketVRFIndex,
			TicketVRFOutput: ticketOut,
			PostVRFOutput:   postOut,
			PostVRFProof:    postProof,
		}),
	}

	if c.PostBlockDescriptor != nil {
		commitments := make([]crypto.VRFProof, 0, len(c.PostBlockDescriptor.Commitments))
		for _, hx := range c.PostBlockDescriptor.Commitments {
			p, err := crypto.VRFProofFromHex(hx)
			if err != nil {
				return nil, zero, nil, err
			}
			commitments = append(commitments, p)
		}
		logs = append(logs, consensus.PostBlockDescriptorLog(consensus.PostBlockDescriptor{Commitments: commitments}))
	}

	if c.NextEpochDescriptor != nil {
		authorities := make([]consensus.AuthorityInfo, 0, len(c.NextEpochDescriptor.Authorities))
		for _, a := range c.NextEpochDescriptor.Authorities {
			id, err := crypto.AuthorityIdFromHex(a.ID)
			if err != nil {
				return nil, zero, nil, err
			}
			authorities = append(authorities, consensus.AuthorityInfo{ID: id, Weight: consensus.AuthorityWeight(a.Weight)})
		}
		randBytes, err := hex.DecodeString(c.NextEpochDescriptor.Randomness)
		if err != nil || len(randBytes) != 32 {
			return nil, zero, nil, fmt.Errorf("invalid next_epoch_descriptor.randomness")
		}
		var randomness consensus.Randomness
		copy(randomness[:], randBytes)
		logs = append(logs, consensus.NextEpochDescriptorLog(consensus.NextEpochDescriptor{
			Authorities: authorities,
			Randomness:  randomness,
		}))
	}

	sig, err := crypto.SignatureFromHex(c.Seal.Signature)
	if err != nil {
		return nil, zero, nil, err
	}
	logs = append(logs, consensus.SealLog(consensus.Seal{EngineID: consensus.EngineID, Signature: sig}))

	header := &consensus.Header{ParentHash: parentHash, Number: c.Number, Logs: logs}
	inherent := consensus.InherentData{
		Timestamp: c.Inherent.Timestamp,
		Slot:      consensus.Slot(c.Inherent.Slot),
	}
	body, err := hex.DecodeString(c.Body)
	if err != nil {
		return nil, zero, nil, fmt.Errorf("invalid body hex")
	}
	return header, inherent, body, nil
}
