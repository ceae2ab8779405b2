// Package note implements the shielded pool's UTXO-style note model (C3):
// the private (amount, pubkey, blinding) record, its derived public
// identifiers, and the wallet-local bookkeeping (owned notes, spent set,
// coin selection) built on top of it.
package note

import "github.com/Kirol54/privatePlasma/crypto"

// Note is the private record backing a commitment: (amount, pubkey, blinding).
type Note struct {
	Amount   uint64
	PubKey   [crypto.Size32]byte
	Blinding [crypto.Size32]byte
}

// New creates a fresh note for owner pubKey with a uniformly sampled blinding.
func New(amount uint64, pubKey [crypto.Size32]byte) Note {
	return Note{
		Amount:   amount,
		PubKey:   pubKey,
		Blinding: crypto.Rand32(),
	}
}

// Commitment returns commitment = keccak256(amount_be8 || pubkey || blinding).
func (n Note) Commitment() [crypto.Size32]byte {
	return crypto.Commitment(n.Amount, n.PubKey, n.Blinding)
}

// Nullifier returns nullifier = keccak256(commitment || spending_key) for
// the given spending key, assumed to own this note.
func (n Note) Nullifier(spendingKey [crypto.Size32]byte) [crypto.Size32]byte {
	return crypto.Nullifier(n.Commitment(), spendingKey)
}
