// Package genesis maintains access to the genesis information used to create
// the first block of the ledger.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
)

// Default placeholder values for the genesis block.
const (
	DefaultProof        = 100
	DefaultPreviousHash = "1"
	DefaultMiningReward = 1
)

// Genesis represents the genesis information.
type Genesis struct {
	Proof        uint64 `json:"proof"`         // Placeholder proof the second block is mined against.
	PreviousHash string `json:"previous_hash"` // Sentinel used since the genesis block has no parent.
	MiningReward uint64 `json:"mining_reward"` // Reward for mining a block.
}

// Default returns the genesis information every ledger starts with unless
// a genesis file is provided.
func Default() Genesis {
	return Genesis{
		Proof:        DefaultProof,
		PreviousHash: DefaultPreviousHash,
		MiningReward: DefaultMiningReward,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Fields missing from the file
// keep their default values.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, fmt.Errorf("reading genesis file: %w", err)
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis file: %w", err)
	}

	if genesis.PreviousHash == "" {
		return Genesis{}, fmt.Errorf("genesis file %s: previous_hash can't be empty", path)
	}

	return genesis, nil
}
