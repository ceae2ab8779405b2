package circuit

import (
	"testing"

	"github.com/Kirol54/privatePlasma/crypto"
	"github.com/Kirol54/privatePlasma/merkle"
	"github.com/Kirol54/privatePlasma/note"
	"github.com/stretchr/testify/require"
)

// buildTransfer mirrors _examples/original_source/tests/src/lib.rs's
// build_transfer_test_inputs: two 700_000/300_000 notes owned by one key,
// transferred as 500_000 out / 500_000 change.
func buildTransfer(t *testing.T) Transfer {
	t.Helper()
	sk := [crypto.Size32]byte{0xAB}
	pubKey := crypto.SpendPubKey(sk)

	note0 := note.Note{Amount: 700_000, PubKey: pubKey, Blinding: [crypto.Size32]byte{0x01}}
	note1 := note.Note{Amount: 300_000, PubKey: pubKey, Blinding: [crypto.Size32]byte{0x02}}

	tree, err := merkle.NewClient(4)
	require.NoError(t, err)
	_, err = tree.Insert(note0.Commitment())
	require.NoError(t, err)
	_, err = tree.Insert(note1.Commitment())
	require.NoError(t, err)

	root := tree.Root()
	proof0, err := tree.Proof(0)
	require.NoError(t, err)
	proof1, err := tree.Proof(1)
	require.NoError(t, err)

	recipientKey := [crypto.Size32]byte{0xCD}
	recipientPub := crypto.SpendPubKey(recipientKey)

	out0 := note.Note{Amount: 500_000, PubKey: recipientPub, Blinding: [crypto.Size32]byte{0x03}}
	out1 := note.Note{Amount: 500_000, PubKey: pubKey, Blinding: [crypto.Size32]byte{0x04}}

	return Transfer{
		Public: TransferPublicInputs{
			Root:           root,
			Nullifier1:     note0.Nullifier(sk),
			Nullifier2:     note1.Nullifier(sk),
			OutCommitment1: out0.Commitment(),
			OutCommitment2: out1.Commitment(),
		},
		Witness: TransferWitness{
			InputNotes:   [2]note.Note{note0, note1},
			SpendingKeys: [2][crypto.Size32]byte{sk, sk},
			MerkleProofs: [2]merkle.Proof{proof0, proof1},
			OutputNotes:  [2]note.Note{out0, out1},
		},
	}
}

func TestTransferCheckAccepts(t *testing.T) {
	require.NoError(t, buildTransfer(t).Check())
}

func TestTransferCheckRejectsWrongSpendingKey(t *testing.T) {
	tr := buildTransfer(t)
	tr.Witness.SpendingKeys[0] = [crypto.Size32]byte{0xFF}
	require.ErrorIs(t, tr.Check(), ErrOwnership)
}

func TestTransferCheckRejectsBadMerkleProof(t *testing.T) {
	tr := buildTransfer(t)
	tr.Public.Root[0] ^= 0xFF
	require.ErrorIs(t, tr.Check(), ErrMembership)
}

func TestTransferCheckRejectsWrongNullifier(t *testing.T) {
	tr := buildTransfer(t)
	tr.Public.Nullifier1[0] ^= 0xFF
	require.ErrorIs(t, tr.Check(), ErrNullifierMismatch)
}

func TestTransferCheckRejectsWrongOutputCommitment(t *testing.T) {
	tr := buildTransfer(t)
	tr.Public.OutCommitment1[0] ^= 0xFF
	require.ErrorIs(t, tr.Check(), ErrOutputCommitmentMismatch)
}

func TestTransferCheckRejectsValueImbalance(t *testing.T) {
	tr := buildTransfer(t)
	tr.Witness.OutputNotes[1].Amount += 1
	tr.Public.OutCommitment2 = tr.Witness.OutputNotes[1].Commitment()
	require.ErrorIs(t, tr.Check(), ErrValueConservation)
}

func TestTransferCheckRejectsAmountOverflow(t *testing.T) {
	tr := buildTransfer(t)
	tr.Witness.InputNotes[0].Amount = ^uint64(0)
	tr.Witness.InputNotes[1].Amount = 1
	// re-point the root, proofs and nullifiers at the changed input notes so
	// ownership/membership/nullifier checks don't fail first
	tree, err := merkle.NewClient(4)
	require.NoError(t, err)
	for k := 0; k < 2; k++ {
		_, err = tree.Insert(tr.Witness.InputNotes[k].Commitment())
		require.NoError(t, err)
	}
	for k := 0; k < 2; k++ {
		tr.Witness.MerkleProofs[k], err = tree.Proof(uint32(k))
		require.NoError(t, err)
	}
	tr.Public.Root = tree.Root()
	tr.Public.Nullifier1 = tr.Witness.InputNotes[0].Nullifier(tr.Witness.SpendingKeys[0])
	tr.Public.Nullifier2 = tr.Witness.InputNotes[1].Nullifier(tr.Witness.SpendingKeys[1])
	require.ErrorIs(t, tr.Check(), ErrAmountOverflow)
}

func buildWithdraw(t *testing.T, withChange bool) Withdraw {
	t.Helper()
	sk := [crypto.Size32]byte{0xAB}
	pubKey := crypto.SpendPubKey(sk)

	in := note.Note{Amount: 1_000_000, PubKey: pubKey, Blinding: [crypto.Size32]byte{0x01}}

	tree, err := merkle.NewClient(4)
	require.NoError(t, err)
	_, err = tree.Insert(in.Commitment())
	require.NoError(t, err)

	root := tree.Root()
	proof, err := tree.Proof(0)
	require.NoError(t, err)

	w := Withdraw{
		Public: WithdrawPublicInputs{
			Root:      root,
			Nullifier: in.Nullifier(sk),
			Recipient: [20]byte{0xDE},
		},
		Witness: WithdrawWitness{
			InputNote:   in,
			SpendingKey: sk,
			MerkleProof: proof,
		},
	}

	if withChange {
		change := note.Note{Amount: 400_000, PubKey: pubKey, Blinding: [crypto.Size32]byte{0x05}}
		w.Public.Amount = 600_000
		w.Public.ChangeCommitment = change.Commitment()
		w.Witness.ChangeNote = &change
	} else {
		w.Public.Amount = 1_000_000
	}
	return w
}

func TestWithdrawCheckAcceptsFullWithdrawal(t *testing.T) {
	require.NoError(t, buildWithdraw(t, false).Check())
}

func TestWithdrawCheckAcceptsPartialWithdrawalWithChange(t *testing.T) {
	require.NoError(t, buildWithdraw(t, true).Check())
}

func TestWithdrawCheckRejectsValueMismatchFullWithdrawal(t *testing.T) {
	w := buildWithdraw(t, false)
	w.Public.Amount = 999_999
	require.ErrorIs(t, w.Check(), ErrValueConservation)
}

func TestWithdrawCheckRejectsChangeCommitmentMismatch(t *testing.T) {
	w := buildWithdraw(t, true)
	w.Public.ChangeCommitment[0] ^= 0xFF
	// flipping the public change commitment also breaks the value equation
	// check first only if it happens to re-derive a different note; here it
	// simply fails the explicit commitment comparison.
	err := w.Check()
	require.True(t, err == ErrChangeCommitmentMismatch || err == ErrValueConservation)
}

func TestWithdrawCheckRejectsOwnershipMismatch(t *testing.T) {
	w := buildWithdraw(t, false)
	w.Witness.SpendingKey = [crypto.Size32]byte{0x99}
	require.ErrorIs(t, w.Check(), ErrOwnership)
}
