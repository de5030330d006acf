package ledger

import (
	"fmt"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// now is the clock used to stamp new blocks.
var now = func() time.Time {
	return time.Now().UTC()
}

// =============================================================================

// NewTransaction adds the transaction to the pending pool. It returns the
// index of the block expected to hold it, which is the index after the
// latest block. This is informational only and doesn't reserve a slot.
func (l *Ledger) NewTransaction(tx database.Tx) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := l.mempool.Add(tx)
	l.evHandler("ledger: NewTransaction: tx[%s]: pending[%d]", tx, count)

	return l.latestBlock.Index + 1
}

// NewBlock creates the next block holding every pending transaction and
// appends it to the chain. An empty previousHash means the hash of the latest
// block is used. The block is rejected, leaving the chain and the pending
// pool untouched, if the proof doesn't solve the puzzle for the latest
// block's proof or the previous hash doesn't match the latest block.
func (l *Ledger) NewBlock(proof uint64, previousHash string) (database.Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.appendBlock(proof, previousHash)
}

// appendBlock performs the work of NewBlock. The caller must hold the
// write lock so the snapshot and the clearing of the pool are atomic. Any
// extra transactions are placed after the pending ones.
func (l *Ledger) appendBlock(proof uint64, previousHash string, extra ...database.Tx) (database.Block, error) {
	parent := l.latestBlock

	if previousHash == "" {
		previousHash = parent.Hash()
	}

	block := database.Block{
		Index:        parent.Index + 1,
		PreviousHash: previousHash,
		Proof:        proof,
		Timestamp:    now(),
		Transactions: append(l.mempool.Copy(), extra...),
	}

	if err := block.ValidateBlock(parent, l.evHandler); err != nil {
		l.evHandler("ledger: NewBlock: REJECTED: blk[%d]: %s", block.Index, err)
		return database.Block{}, err
	}

	if err := l.storage.Write(database.NewBlockData(block)); err != nil {
		return database.Block{}, fmt.Errorf("writing block %d: %w", block.Index, err)
	}

	l.latestBlock = block
	l.mempool.Truncate()

	l.evHandler("ledger: NewBlock: blk[%d]: hash[%s]: numTrans[%d]", block.Index, block.Hash(), len(block.Transactions))

	return block, nil
}
