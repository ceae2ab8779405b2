// Package circuit specifies the transfer and withdraw spend statements
// (C4): the exact relation between a private witness and public inputs
// that a trusted guest program enforces, expressed as pure Go predicates
// over spec.md §4.4's witness/public-input shapes.
//
// The proving system that turns "Check() == nil" into a zero-knowledge
// proof is a black box by design (spec.md §1): this package only states
// the relation; backend.go provides the Prover/Verifier boundary callers
// use it through.
package circuit

import (
	"errors"
	"math/bits"

	"github.com/Kirol54/privatePlasma/crypto"
	"github.com/Kirol54/privatePlasma/merkle"
	"github.com/Kirol54/privatePlasma/note"
)

var (
	ErrOwnership                = errors.New("circuit: spend_pubkey(spending_key) does not match input note's pubkey")
	ErrMembership               = errors.New("circuit: merkle proof does not verify against the stated root")
	ErrNullifierMismatch        = errors.New("circuit: public nullifier does not match nullifier(commitment, spending_key)")
	ErrOutputCommitmentMismatch = errors.New("circuit: public output commitment does not match commitment(output note)")
	ErrChangeCommitmentMismatch = errors.New("circuit: public change commitment does not match commitment(change note)")
	ErrValueConservation        = errors.New("circuit: input amounts do not equal output amounts")
	ErrAmountOverflow           = errors.New("circuit: amount sum overflows 64 bits")
	ErrDuplicateInput           = errors.New("circuit: both transfer inputs spend the same note")
)

// addChecked sums a and b, failing instead of wrapping if the sum would
// exceed 2^64-1 — spec.md §4.4.1 clause 5 requires this saturation-free
// arithmetic explicitly rather than relying on Go's silent uint64 wraparound.
func addChecked(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrAmountOverflow
	}
	return sum, nil
}

// TransferPublicInputs is the decoded form of spec.md §4.4.1's 5-word
// public-input blob: root, nullifier_1, nullifier_2, out_commitment_1, out_commitment_2.
type TransferPublicInputs struct {
	Root           [crypto.Size32]byte
	Nullifier1     [crypto.Size32]byte
	Nullifier2     [crypto.Size32]byte
	OutCommitment1 [crypto.Size32]byte
	OutCommitment2 [crypto.Size32]byte
}

// TransferWitness is the private witness for the 2-in-2-out transfer circuit.
type TransferWitness struct {
	InputNotes   [2]note.Note
	SpendingKeys [2][crypto.Size32]byte
	MerkleProofs [2]merkle.Proof
	OutputNotes  [2]note.Note
}

// Transfer binds a public statement to the private witness that should
// satisfy it.
type Transfer struct {
	Public  TransferPublicInputs
	Witness TransferWitness
}

// Check evaluates the transfer predicate of spec.md §4.4.1 and returns the
// first violated clause, or nil if every clause holds.
func (t Transfer) Check() error {
	// The two inputs must be distinct notes: one note used twice would count
	// its amount twice against a single nullifier.
	if t.Public.Nullifier1 == t.Public.Nullifier2 {
		return ErrDuplicateInput
	}

	for k := 0; k < 2; k++ {
		in := t.Witness.InputNotes[k]
		sk := t.Witness.SpendingKeys[k]

		// 1. Ownership.
		if crypto.SpendPubKey(sk) != in.PubKey {
			return ErrOwnership
		}

		// 2. Membership: the proof for this input must fold up to Public.Root.
		if !t.Witness.MerkleProofs[k].Verify(in.Commitment(), t.Public.Root) {
			return ErrMembership
		}

		// 3. Nullifier correctness.
		wantNullifier := [2][crypto.Size32]byte{t.Public.Nullifier1, t.Public.Nullifier2}[k]
		if in.Nullifier(sk) != wantNullifier {
			return ErrNullifierMismatch
		}
	}

	// 4. Output well-formedness.
	outCommitments := [2][crypto.Size32]byte{t.Public.OutCommitment1, t.Public.OutCommitment2}
	for k := 0; k < 2; k++ {
		if t.Witness.OutputNotes[k].Commitment() != outCommitments[k] {
			return ErrOutputCommitmentMismatch
		}
	}

	// 5. Value conservation, checked with overflow-free 64-bit arithmetic.
	inSum, err := addChecked(t.Witness.InputNotes[0].Amount, t.Witness.InputNotes[1].Amount)
	if err != nil {
		return err
	}
	outSum, err := addChecked(t.Witness.OutputNotes[0].Amount, t.Witness.OutputNotes[1].Amount)
	if err != nil {
		return err
	}
	if inSum != outSum {
		return ErrValueConservation
	}

	// 6. Amount bounds: every Note.Amount is a Go uint64, so this clause is
	// structurally guaranteed and needs no runtime check (spec.md §4.4.1
	// calls it "redundant but explicit").

	return nil
}

// WithdrawPublicInputs is the decoded form of spec.md §4.4.2's public-input
// blob: root, nullifier, recipient (20B left-padded to 32), amount (u256
// word), change_commitment. ChangeCommitment is the all-zero value for a
// full withdrawal.
type WithdrawPublicInputs struct {
	Root             [crypto.Size32]byte
	Nullifier        [crypto.Size32]byte
	Recipient        [20]byte
	Amount           uint64
	ChangeCommitment [crypto.Size32]byte
}

// WithdrawWitness is the private witness for the withdraw circuit.
// ChangeNote is nil for a full withdrawal.
type WithdrawWitness struct {
	InputNote   note.Note
	SpendingKey [crypto.Size32]byte
	MerkleProof merkle.Proof
	ChangeNote  *note.Note
}

// Withdraw binds a public statement to the private witness that should
// satisfy it.
type Withdraw struct {
	Public  WithdrawPublicInputs
	Witness WithdrawWitness
}

// Check evaluates the withdraw predicate of spec.md §4.4.2.
func (w Withdraw) Check() error {
	in := w.Witness.InputNote
	sk := w.Witness.SpendingKey

	// 1. Ownership and membership.
	if crypto.SpendPubKey(sk) != in.PubKey {
		return ErrOwnership
	}
	if !w.Witness.MerkleProof.Verify(in.Commitment(), w.Public.Root) {
		return ErrMembership
	}

	// 2. Nullifier correctness.
	if in.Nullifier(sk) != w.Public.Nullifier {
		return ErrNullifierMismatch
	}

	// 3. Value equation.
	var zero [crypto.Size32]byte
	if w.Public.ChangeCommitment == zero {
		if w.Witness.ChangeNote != nil {
			return ErrValueConservation
		}
		if in.Amount != w.Public.Amount {
			return ErrValueConservation
		}
	} else {
		if w.Witness.ChangeNote == nil {
			return ErrValueConservation
		}
		total, err := addChecked(w.Public.Amount, w.Witness.ChangeNote.Amount)
		if err != nil {
			return err
		}
		if in.Amount != total {
			return ErrValueConservation
		}
		if w.Witness.ChangeNote.Commitment() != w.Public.ChangeCommitment {
			return ErrChangeCommitmentMismatch
		}
	}

	// 4. Recipient binding: Public.Recipient is itself one of the public
	// input words the proof attests to, so any proof naming a different
	// recipient simply fails re-verification against that recipient —
	// there is no separate witness-side assertion to make here.

	// 5. Amount bounds: guaranteed by the uint64 type, as in Transfer.Check.

	return nil
}
