package abienc

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestTransferPublicInputsRoundTrip(t *testing.T) {
	var root, n1, n2, c1, c2 [32]byte
	root[0] = 1
	n1[0] = 2
	n2[0] = 3
	c1[0] = 4
	c2[0] = 5

	blob, err := PackTransferPublicInputs(root, n1, n2, c1, c2)
	require.NoError(t, err)
	require.Len(t, blob, 160)

	got, err := UnpackTransferPublicInputs(blob)
	require.NoError(t, err)
	require.Equal(t, root, got.Root)
	require.Equal(t, n1, got.Nullifier1)
	require.Equal(t, n2, got.Nullifier2)
	require.Equal(t, c1, got.OutCommitment1)
	require.Equal(t, c2, got.OutCommitment2)
}

func TestWithdrawPublicInputsRoundTrip(t *testing.T) {
	var root, nullifier, change [32]byte
	root[0] = 9
	nullifier[0] = 8
	change[0] = 7
	recipient := common.HexToAddress("0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef")

	blob, err := PackWithdrawPublicInputs(root, nullifier, recipient, 600_000, change)
	require.NoError(t, err)
	require.Len(t, blob, 160)

	got, err := UnpackWithdrawPublicInputs(blob)
	require.NoError(t, err)
	require.Equal(t, root, got.Root)
	require.Equal(t, nullifier, got.Nullifier)
	require.Equal(t, recipient, got.Recipient)
	require.Equal(t, uint64(600_000), got.Amount)
	require.Equal(t, change, got.ChangeCommitment)
}

func TestWithdrawPublicInputsFullWithdrawalHasZeroChangeCommitment(t *testing.T) {
	var root, nullifier, change [32]byte
	root[0] = 1
	nullifier[0] = 1

	blob, err := PackWithdrawPublicInputs(root, nullifier, common.Address{}, 1_000_000, change)
	require.NoError(t, err)

	got, err := UnpackWithdrawPublicInputs(blob)
	require.NoError(t, err)
	require.Equal(t, [32]byte{}, got.ChangeCommitment)
}
