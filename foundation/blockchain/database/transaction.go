package database

import "fmt"

// RewardSender is the sender used for transactions that mint new value as
// the reward for mining a block.
const RewardSender = "0"

// =============================================================================

// Tx is the transactional information between two parties. The fields are
// declared in the sorted order of their json keys since that order is part
// of the canonical encoding used for hashing blocks.
type Tx struct {
	Amount    uint64 `json:"amount"`    // Value being moved from the sender to the recipient.
	Recipient string `json:"recipient"` // Identifier of the party receiving the value.
	Sender    string `json:"sender"`    // Identifier of the party sending the value.
}

// NewTx constructs a new transaction. No checks are performed on the
// identifiers or the amount.
func NewTx(sender string, recipient string, amount uint64) Tx {
	return Tx{
		Amount:    amount,
		Recipient: recipient,
		Sender:    sender,
	}
}

// NewRewardTx constructs the transaction that pays the miner of a block.
func NewRewardTx(beneficiary string, reward uint64) Tx {
	return NewTx(RewardSender, beneficiary, reward)
}

// IsReward tests if the transaction is a mining reward.
func (tx Tx) IsReward() bool {
	return tx.Sender == RewardSender
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", tx.Sender, tx.Recipient, tx.Amount)
}
