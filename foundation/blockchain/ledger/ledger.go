// Package ledger is the core API for the blockchain. It owns the chain of
// blocks and the pool of pending transactions and implements the rules for
// appending new blocks.
package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/powledger/foundation/blockchain/pow"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/memory"
)

// ErrChainAdvanced is returned when a block was appended by someone else
// while a proof was being searched for.
var ErrChainAdvanced = errors.New("chain advanced during proof search")

// ErrChainIntegrity is returned by ValidateChain when a stored block doesn't
// follow its parent.
var ErrChainIntegrity = errors.New("chain integrity violated")

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to construct a ledger.
type Config struct {
	Genesis     genesis.Genesis
	Storage     database.Storage // Defaults to an in memory storage.
	Workers     int              // G's used to search for proofs. 0 means one per CPU.
	MaxAttempts uint64           // Bound on the candidates of a proof search. 0 means unbounded.
	EvHandler   EventHandler
}

// Ledger manages the chain and the pending transactions. The zero value is
// not usable, construct one with New.
type Ledger struct {
	mu     sync.RWMutex
	mineMu sync.Mutex

	genesis     genesis.Genesis
	storage     database.Storage
	mempool     *mempool.Mempool
	latestBlock database.Block
	search      pow.Config
	evHandler   EventHandler
}

// New constructs a ledger. If the storage is empty the genesis block is
// written to it, otherwise the stored chain is validated and becomes the
// chain of the ledger.
func New(cfg Config) (*Ledger, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	strg := cfg.Storage
	if strg == nil {
		m, err := memory.New()
		if err != nil {
			return nil, err
		}
		strg = m
	}

	gen := cfg.Genesis
	if gen.PreviousHash == "" {
		gen = genesis.Default()
	}

	l := Ledger{
		genesis: gen,
		storage: strg,
		mempool: mempool.New(),
		search: pow.Config{
			Workers:     cfg.Workers,
			MaxAttempts: cfg.MaxAttempts,
			EvHandler:   ev,
		},
		evHandler: ev,
	}

	latestBlock, err := l.readChain()
	if err != nil {
		return nil, err
	}

	if latestBlock.Index == 0 {
		ev("ledger: New: writing genesis block: proof[%d]: previousHash[%s]", gen.Proof, gen.PreviousHash)

		genesisBlock := database.Block{
			Index:        1,
			PreviousHash: gen.PreviousHash,
			Proof:        gen.Proof,
			Timestamp:    now(),
			Transactions: []database.Tx{},
		}

		if err := strg.Write(database.NewBlockData(genesisBlock)); err != nil {
			return nil, fmt.Errorf("writing genesis block: %w", err)
		}
		latestBlock = genesisBlock
	}

	l.latestBlock = latestBlock

	return &l, nil
}

// Shutdown releases the storage held by the ledger.
func (l *Ledger) Shutdown() error {
	l.evHandler("ledger: shutdown: started")
	defer l.evHandler("ledger: shutdown: completed")

	return l.storage.Close()
}

// Genesis returns the genesis information the ledger was built with.
func (l *Ledger) Genesis() genesis.Genesis {
	return l.genesis
}

// =============================================================================

// readChain walks the blocks already held by the storage, validating each
// against its parent, and returns the last one.
func (l *Ledger) readChain() (database.Block, error) {
	var latestBlock database.Block

	iter := database.NewBlockIterator(l.storage)
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return database.Block{}, err
		}

		if latestBlock.Index == 0 {
			if block.Index != 1 {
				return database.Block{}, fmt.Errorf("%w: first block has index %d", ErrChainIntegrity, block.Index)
			}
			latestBlock = block
			continue
		}

		if err := block.ValidateBlock(latestBlock, l.evHandler); err != nil {
			return database.Block{}, fmt.Errorf("%w: blk[%d]: %w", ErrChainIntegrity, block.Index, err)
		}

		latestBlock = block
	}

	return latestBlock, nil
}
