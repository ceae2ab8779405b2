// Package abienc packs and unpacks the fixed public-input word layouts
// spec.md §4.4 requires ("ABI-encoded as N × 32-byte words"), using
// go-ethereum's accounts/abi encoder so the byte layout matches exactly
// what an EVM verifier contract would expect from abi.encode.
package abienc

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	bytes32Type abi.Type
	addressType abi.Type
	uint256Type abi.Type
)

func init() {
	var err error
	if bytes32Type, err = abi.NewType("bytes32", "", nil); err != nil {
		panic(err)
	}
	if addressType, err = abi.NewType("address", "", nil); err != nil {
		panic(err)
	}
	if uint256Type, err = abi.NewType("uint256", "", nil); err != nil {
		panic(err)
	}
}

func words(n int) abi.Arguments {
	args := make(abi.Arguments, n)
	for i := range args {
		args[i] = abi.Argument{Type: bytes32Type}
	}
	return args
}

// PackTransferPublicInputs encodes the 5 × 32-byte transfer public-input
// words in spec.md §4.4.1's fixed order.
func PackTransferPublicInputs(root, nullifier1, nullifier2, outCommitment1, outCommitment2 [32]byte) ([]byte, error) {
	return words(5).Pack(root, nullifier1, nullifier2, outCommitment1, outCommitment2)
}

// TransferPublicInputs holds the decoded fields of a transfer's public-input blob.
type TransferPublicInputs struct {
	Root            [32]byte
	Nullifier1      [32]byte
	Nullifier2      [32]byte
	OutCommitment1  [32]byte
	OutCommitment2  [32]byte
}

// UnpackTransferPublicInputs decodes a blob produced by PackTransferPublicInputs.
func UnpackTransferPublicInputs(data []byte) (TransferPublicInputs, error) {
	vals, err := words(5).Unpack(data)
	if err != nil {
		return TransferPublicInputs{}, fmt.Errorf("abienc: unpack transfer public inputs: %w", err)
	}
	return TransferPublicInputs{
		Root:           vals[0].([32]byte),
		Nullifier1:     vals[1].([32]byte),
		Nullifier2:     vals[2].([32]byte),
		OutCommitment1: vals[3].([32]byte),
		OutCommitment2: vals[4].([32]byte),
	}, nil
}

// PackWithdrawPublicInputs encodes root, nullifier, recipient(20B padded to
// 32), amount(u256) and change_commitment exactly as spec.md §4.4.2 and §6
// describe (a 160-byte blob: 5 × 32-byte words).
func PackWithdrawPublicInputs(root, nullifier [32]byte, recipient common.Address, amount uint64, changeCommitment [32]byte) ([]byte, error) {
	args := abi.Arguments{
		{Type: bytes32Type},
		{Type: bytes32Type},
		{Type: addressType},
		{Type: uint256Type},
		{Type: bytes32Type},
	}
	return args.Pack(root, nullifier, recipient, new(big.Int).SetUint64(amount), changeCommitment)
}

// WithdrawPublicInputs holds the decoded fields of a withdraw's public-input blob.
type WithdrawPublicInputs struct {
	Root             [32]byte
	Nullifier        [32]byte
	Recipient        common.Address
	Amount           uint64
	ChangeCommitment [32]byte
}

// UnpackWithdrawPublicInputs decodes a blob produced by PackWithdrawPublicInputs.
func UnpackWithdrawPublicInputs(data []byte) (WithdrawPublicInputs, error) {
	args := abi.Arguments{
		{Type: bytes32Type},
		{Type: bytes32Type},
		{Type: addressType},
		{Type: uint256Type},
		{Type: bytes32Type},
	}
	vals, err := args.Unpack(data)
	if err != nil {
		return WithdrawPublicInputs{}, fmt.Errorf("abienc: unpack withdraw public inputs: %w", err)
	}
	amount, ok := vals[3].(*big.Int)
	if !ok || !amount.IsUint64() {
		return WithdrawPublicInputs{}, fmt.Errorf("abienc: withdraw amount does not fit in uint64")
	}
	return WithdrawPublicInputs{
		Root:             vals[0].([32]byte),
		Nullifier:        vals[1].([32]byte),
		Recipient:        vals[2].(common.Address),
		Amount:           amount.Uint64(),
		ChangeCommitment: vals[4].([32]byte),
	}, nil
}
