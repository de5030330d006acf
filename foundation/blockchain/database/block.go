package database

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/pow"
)

// Set of errors returned by ValidateBlock. A block failing any check is
// rejected, never corrected.
var (
	ErrIndexOutOfOrder  = errors.New("block index is not the next index")
	ErrPrevHashMismatch = errors.New("previous hash doesn't match the parent block")
	ErrInvalidProof     = errors.New("proof doesn't solve the puzzle for the parent proof")
	ErrHashMismatch     = errors.New("block hash doesn't match the block content")
)

// ZeroHash is returned by Hash when a block can't be encoded.
const ZeroHash = "0000000000000000000000000000000000000000000000000000000000000000"

// =============================================================================

// Block represents a group of transactions batched together. The fields are
// declared in the sorted order of their json keys so the encoding of a block
// is canonical without needing to sort anything.
type Block struct {
	Index        uint64    `json:"index"`         // Position in the chain, starting at 1 for genesis.
	PreviousHash string    `json:"previous_hash"` // Hash of the parent block or the genesis sentinel.
	Proof        uint64    `json:"proof"`         // Solution to the POW puzzle for the parent's proof.
	Timestamp    time.Time `json:"timestamp"`     // Time the block was created.
	Transactions []Tx      `json:"transactions"`  // Snapshot of the pending pool at creation.
}

// Encode produces the canonical encoding of the block. The timestamp is
// normalized to UTC and a missing transaction list encodes as empty, so two
// blocks with equal content always produce the same bytes.
func (b Block) Encode() ([]byte, error) {
	b.Timestamp = b.Timestamp.UTC()
	if b.Transactions == nil {
		b.Transactions = []Tx{}
	}

	return json.Marshal(b)
}

// Hash returns the sha256 digest of the canonical encoding as a lowercase
// hex string.
func (b Block) Hash() string {
	data, err := b.Encode()
	if err != nil {
		return ZeroHash
	}

	return Hash(data)
}

// Hash returns the lowercase hex sha256 digest of the data.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ValidateBlock takes a block and validates it to be the next block after the
// specified parent.
func (b Block) ValidateBlock(parent Block, evHandler func(v string, args ...any)) error {
	evHandler("database: ValidateBlock: validate: blk[%d]: check: block index is the next index", b.Index)

	if nextIndex := parent.Index + 1; b.Index != nextIndex {
		return fmt.Errorf("%w: got %d, exp %d", ErrIndexOutOfOrder, b.Index, nextIndex)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: previous hash matches parent block", b.Index)

	if parentHash := parent.Hash(); b.PreviousHash != parentHash {
		return fmt.Errorf("%w: got %s, exp %s", ErrPrevHashMismatch, b.PreviousHash, parentHash)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: proof solves the puzzle", b.Index)

	if !pow.IsValidProof(parent.Proof, b.Proof) {
		return fmt.Errorf("%w: parent proof %d, proof %d", ErrInvalidProof, parent.Proof, b.Proof)
	}

	return nil
}

// =============================================================================

// BlockData represents what is stored for a block and sent across the wire.
// The hash is carried along so a reader can check the content it decoded.
type BlockData struct {
	Hash  string `json:"hash"`
	Block Block  `json:"block"`
}

// NewBlockData constructs the value to store or serialize.
func NewBlockData(block Block) BlockData {
	return BlockData{
		Hash:  block.Hash(),
		Block: block,
	}
}

// ToBlock converts a BlockData into a Block, making sure the content still
// produces the recorded hash.
func ToBlock(blockData BlockData) (Block, error) {
	if hash := blockData.Block.Hash(); hash != blockData.Hash {
		return Block{}, fmt.Errorf("%w: blk[%d]: got %s, exp %s", ErrHashMismatch, blockData.Block.Index, hash, blockData.Hash)
	}

	return blockData.Block, nil
}

// Decode reads a block from its canonical encoding.
func Decode(data []byte) (Block, error) {
	var block Block
	if err := json.Unmarshal(data, &block); err != nil {
		return Block{}, fmt.Errorf("decoding block: %w", err)
	}

	return block, nil
}
