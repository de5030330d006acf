package ledger

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// LastBlock returns the most recently appended block.
func (l *Ledger) LastBlock() database.Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	// Genesis is written during construction so this can't happen.
	if l.latestBlock.Index == 0 {
		panic("ledger: chain is empty")
	}

	return l.latestBlock
}

// Length returns the number of blocks in the chain.
func (l *Ledger) Length() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return int(l.latestBlock.Index)
}

// Chain returns a copy of every block in the chain starting with genesis.
func (l *Ledger) Chain() ([]database.Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	blocks := make([]database.Block, 0, l.latestBlock.Index)

	iter := database.NewBlockIterator(l.storage)
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

// QueryBlock returns the block at the specified index, which starts at 1.
func (l *Ledger) QueryBlock(index uint64) (database.Block, error) {
	blockData, err := l.storage.GetBlock(index)
	if err != nil {
		return database.Block{}, err
	}

	return database.ToBlock(blockData)
}

// Mempool returns a copy of the pending transactions in arrival order.
func (l *Ledger) Mempool() []database.Tx {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.mempool.Copy()
}

// MempoolLength returns the number of pending transactions.
func (l *Ledger) MempoolLength() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.mempool.Count()
}

// ValidateChain walks the chain checking that every block follows its parent
// and returns the first violation found.
func (l *Ledger) ValidateChain() error {
	blocks, err := l.Chain()
	if err != nil {
		return err
	}

	if len(blocks) == 0 || blocks[0].Index != 1 {
		return fmt.Errorf("%w: missing genesis block", ErrChainIntegrity)
	}

	for i := 1; i < len(blocks); i++ {
		if err := blocks[i].ValidateBlock(blocks[i-1], l.evHandler); err != nil {
			return fmt.Errorf("%w: blk[%d]: %w", ErrChainIntegrity, blocks[i].Index, err)
		}
	}

	return nil
}
