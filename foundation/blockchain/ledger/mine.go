package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/pow"
)

// FindProof searches for a proof that solves the puzzle for lastProof using
// the search settings of the ledger. The ledger lock is not held while
// searching. The search can be cancelled through the context.
func (l *Ledger) FindProof(ctx context.Context, lastProof uint64) (uint64, error) {
	return pow.Search(ctx, lastProof, l.search)
}

// MineNewBlock solves the puzzle for the latest block, adds the reward for
// the beneficiary to the pending pool and appends the new block. If another
// block is appended while searching, the search starts over against the new
// latest block. Nothing is changed when the search is cancelled.
func (l *Ledger) MineNewBlock(ctx context.Context, beneficiary string) (database.Block, time.Duration, error) {
	l.mineMu.Lock()
	defer l.mineMu.Unlock()

	l.evHandler("ledger: MineNewBlock: MINING: started: beneficiary[%s]", beneficiary)
	defer l.evHandler("ledger: MineNewBlock: MINING: completed")

	start := time.Now()

	for {
		parent := l.LastBlock()

		l.evHandler("ledger: MineNewBlock: MINING: perform POW: parent[%d]: lastProof[%d]", parent.Index, parent.Proof)

		proof, err := l.FindProof(ctx, parent.Proof)
		if err != nil {
			return database.Block{}, time.Since(start), fmt.Errorf("finding proof: %w", err)
		}

		block, err := l.commitMinedBlock(parent, proof, beneficiary)
		if err != nil {
			if errors.Is(err, ErrChainAdvanced) {
				l.evHandler("ledger: MineNewBlock: MINING: chain advanced: restarting")
				continue
			}
			return database.Block{}, time.Since(start), err
		}

		return block, time.Since(start), nil
	}
}

// commitMinedBlock adds the reward and appends the block in one critical
// section, provided the parent is still the latest block.
func (l *Ledger) commitMinedBlock(parent database.Block, proof uint64, beneficiary string) (database.Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.latestBlock.Index != parent.Index {
		return database.Block{}, ErrChainAdvanced
	}

	l.evHandler("ledger: MineNewBlock: MINING: SOLVED: parent[%d]: proof[%d]: reward[%d]", parent.Index, proof, l.genesis.MiningReward)

	// The reward goes in last, as if it was the final pending transaction.
	// If the append fails the pool is left the way it was found.
	return l.appendBlock(proof, "", database.NewRewardTx(beneficiary, l.genesis.MiningReward))
}
