// Package memory implements the ability to read and write blocks to memory
// using a slice. The chain is lost when the process ends.
package memory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// Set of errors returned by the memory storage.
var (
	ErrOutOfOrder = errors.New("block is out of order")
	ErrNotFound   = errors.New("block does not exist")
	ErrEndOfChain = errors.New("end of chain")
	ErrClosed     = errors.New("storage is closed")
)

// Memory represents the storage implementation for reading and storing
// blocks in memory using a slice. This implements the database.Storage
// interface.
type Memory struct {
	mu     sync.RWMutex
	blocks []database.BlockData
	closed bool
}

// New constructs a Memory value for use.
func New() (*Memory, error) {
	return &Memory{}, nil
}

// Close marks the storage as closed. Reads and writes fail afterwards.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// Write takes the specified block data and stores it in memory. Blocks are
// append only and must arrive in index order.
func (m *Memory) Write(blockData database.BlockData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if next := uint64(len(m.blocks)) + 1; blockData.Block.Index != next {
		return fmt.Errorf("%w: got %d, exp %d", ErrOutOfOrder, blockData.Block.Index, next)
	}

	m.blocks = append(m.blocks, blockData)

	return nil
}

// GetBlock locates and returns the contents of the specified block by its
// index, which starts at 1.
func (m *Memory) GetBlock(index uint64) (database.BlockData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return database.BlockData{}, ErrClosed
	}

	if index == 0 || index > uint64(len(m.blocks)) {
		return database.BlockData{}, fmt.Errorf("%w: index %d", ErrNotFound, index)
	}

	return m.blocks[index-1], nil
}

// Count returns the number of blocks being held.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.blocks)
}

// ForEach returns an iterator to walk through all the blocks
// starting with the genesis block.
func (m *Memory) ForEach() database.Iterator {
	return &memoryIterator{storage: m, current: 1}
}

// =============================================================================

// memoryIterator represents the iteration implementation for walking
// through the blocks in memory. This implements the database.Iterator
// interface.
type memoryIterator struct {
	storage *Memory // Access to the storage API.
	current uint64  // Current block index being iterated over.
	eoc     bool    // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block from memory.
func (mi *memoryIterator) Next() (database.BlockData, error) {
	if mi.eoc {
		return database.BlockData{}, ErrEndOfChain
	}

	blockData, err := mi.storage.GetBlock(mi.current)
	if err != nil {
		mi.eoc = true
		return database.BlockData{}, err
	}

	mi.current++

	return blockData, nil
}

// Done returns the end of chain value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}
