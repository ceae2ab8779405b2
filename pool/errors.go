package pool

import "errors"

// Failure modes of the pool state machine (spec.md §4.5/§6/§7). Every one
// of these is checked before any state mutation happens, so a failing
// operation never leaves the pool half-updated — there is no separate
// rollback path to implement.
var (
	ErrInvalidDepositAmount  = errors.New("pool: deposit amount must be non-zero")
	ErrTransferFailed        = errors.New("pool: token transfer failed")
	ErrTreeFull              = errors.New("pool: commitment tree is full")
	ErrInvalidMerkleRoot     = errors.New("pool: root is not among the known roots")
	ErrNullifierAlreadySpent = errors.New("pool: nullifier already spent")
	ErrInvalidProof          = errors.New("pool: proof rejected by verifier")
	ErrZeroAddress           = errors.New("pool: recipient must not be the zero address")
)
