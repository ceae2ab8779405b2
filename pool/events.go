package pool

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Events mirror the on-chain event log of spec.md §6, in the order §6
// lists them. Each operation appends to Pool.events as it completes;
// (block_number, log_index) linearization is the caller's concern once
// these are shipped over a real chain — here the slice index already is
// that order.
type Deposit struct {
	Commitment [32]byte
	Amount     uint64
	LeafIndex  uint32
	Timestamp  time.Time
}

type PrivateTransfer struct {
	Nullifier1     [32]byte
	Nullifier2     [32]byte
	OutCommitment1 [32]byte
	OutCommitment2 [32]byte
	Timestamp      time.Time
}

type Withdrawal struct {
	Nullifier [32]byte
	Recipient common.Address
	Amount    uint64
	Timestamp time.Time
}

type EncryptedNote struct {
	Commitment [32]byte
	LeafIndex  uint32
	Data       []byte
}

// Event is the tagged union over the four event kinds, in emission order.
type Event struct {
	Deposit         *Deposit
	PrivateTransfer *PrivateTransfer
	Withdrawal      *Withdrawal
	EncryptedNote   *EncryptedNote
}
