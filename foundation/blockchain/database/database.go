// Package database provides the block and transaction records of the ledger,
// their canonical encoding and hashing, and the storage contract used to keep
// the chain.
package database

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain. Write must
// reject a block whose index is not the next index in the chain.
type Storage interface {
	Write(blockData BlockData) error
	GetBlock(index uint64) (BlockData, error)
	ForEach() Iterator
	Close() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// =============================================================================

// BlockIterator walks the chain converting stored data back into blocks.
type BlockIterator struct {
	iterator Iterator
}

// NewBlockIterator wraps the storage iterator.
func NewBlockIterator(storage Storage) *BlockIterator {
	return &BlockIterator{iterator: storage.ForEach()}
}

// Next retrieves the next block from storage.
func (bi *BlockIterator) Next() (Block, error) {
	blockData, err := bi.iterator.Next()
	if err != nil {
		return Block{}, err
	}

	return ToBlock(blockData)
}

// Done returns the end of chain value.
func (bi *BlockIterator) Done() bool {
	return bi.iterator.Done()
}
