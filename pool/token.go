package pool

import "github.com/ethereum/go-ethereum/common"

// Token is the pool's collaborator boundary onto the fungible token
// contract: spec.md §1 scopes "token-contract mechanics beyond
// transfer/transferFrom/balanceOf" out of the kernel; this interface carries
// only the transfer and transferFrom calls the pool makes (balance queries
// are not part of it).
type Token interface {
	// TransferFrom pulls amount from depositor into the pool's custody.
	TransferFrom(depositor common.Address, amount uint64) error
	// Transfer pays amount out of the pool's custody to recipient.
	Transfer(recipient common.Address, amount uint64) error
}

// MemoryToken is an in-memory Token used by tests and by callers that have
// not wired a real on-chain token yet. Balances are tracked per address.
type MemoryToken struct {
	balances map[common.Address]uint64
}

func NewMemoryToken() *MemoryToken {
	return &MemoryToken{balances: make(map[common.Address]uint64)}
}

// Credit gives addr an initial balance, e.g. to fund a depositor in tests.
func (m *MemoryToken) Credit(addr common.Address, amount uint64) {
	m.balances[addr] += amount
}

func (m *MemoryToken) BalanceOf(addr common.Address) uint64 {
	return m.balances[addr]
}

func (m *MemoryToken) TransferFrom(depositor common.Address, amount uint64) error {
	if m.balances[depositor] < amount {
		return ErrTransferFailed
	}
	m.balances[depositor] -= amount
	return nil
}

func (m *MemoryToken) Transfer(recipient common.Address, amount uint64) error {
	m.balances[recipient] += amount
	return nil
}
