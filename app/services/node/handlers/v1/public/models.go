package public

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// newTx is the payload for submitting a transaction. The fields are
// pointers so a missing field can be told apart from a zero value.
type newTx struct {
	Sender    *string `json:"sender" validate:"required"`
	Recipient *string `json:"recipient" validate:"required"`
	Amount    *uint64 `json:"amount" validate:"required"`
}

type message struct {
	Message string `json:"message"`
}

type minedBlock struct {
	Message      string        `json:"message"`
	Index        uint64        `json:"index"`
	Transactions []database.Tx `json:"transactions"`
	Proof        uint64        `json:"proof"`
	PreviousHash string        `json:"previous_hash"`
}

type chain struct {
	Chain  []database.Block `json:"chain"`
	Length int              `json:"length"`
}

type validation struct {
	Valid  bool `json:"valid"`
	Length int  `json:"length"`
}
