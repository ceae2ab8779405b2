package circuit

import (
	"bytes"
	"errors"

	"github.com/Kirol54/privatePlasma/crypto"
	"github.com/Kirol54/privatePlasma/internal/abienc"
	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidProof is returned by Verify when a proof does not attest to the
// given public inputs under the given verifying key.
var ErrInvalidProof = errors.New("circuit: proof rejected")

// ProvingKey and VerifyingKey are opaque, backend-specific parameters
// produced by Setup. spec.md §1 treats the real proving system — a zkVM
// guest compiled to a Groth16 circuit — as an external black box:
// "Prover(vkey, public_inputs, witness) → proof" and
// "Verifier(vkey, public_inputs, proof) → {accept, reject}". These types,
// and the Backend interface below, are that boundary; Backend
// implementations decide what a proof actually is.
type ProvingKey []byte
type VerifyingKey []byte
type Proof []byte

// Backend is the black-box proving system boundary. A production backend
// wraps a real zkVM/Groth16 pipeline; this package ships only Mock, a
// deterministic stand-in used by tests and by callers that haven't wired a
// real backend yet.
type Backend interface {
	Setup() (ProvingKey, VerifyingKey, error)

	ProveTransfer(pk ProvingKey, stmt Transfer) (Proof, error)
	VerifyTransfer(vk VerifyingKey, publicInputs TransferPublicInputs, proof Proof) error

	ProveWithdraw(pk ProvingKey, stmt Withdraw) (Proof, error)
	VerifyWithdraw(vk VerifyingKey, publicInputs WithdrawPublicInputs, proof Proof) error
}

// Mock is a Backend that runs the pure predicate (Check) and, if it holds,
// emits a proof that is a keccak256 MAC of the verifying key and the
// ABI-encoded public inputs. Verify recomputes the same MAC. This captures
// exactly the shape the real backend is assumed to have — soundness (you
// cannot produce an accepting proof for public inputs whose witness
// violates the predicate) without actually running a zkVM — and nothing
// more; it must never be used as a production proving system.
type Mock struct{}

// Setup returns a fresh random key pair for use as both proving and
// verifying parameters; Mock has no asymmetric structure, only a shared secret.
func (Mock) Setup() (ProvingKey, VerifyingKey, error) {
	key := crypto.RandBytes(32)
	return ProvingKey(key), VerifyingKey(append([]byte(nil), key...)), nil
}

func (Mock) ProveTransfer(pk ProvingKey, stmt Transfer) (Proof, error) {
	if err := stmt.Check(); err != nil {
		return nil, err
	}
	pub, err := abienc.PackTransferPublicInputs(
		stmt.Public.Root, stmt.Public.Nullifier1, stmt.Public.Nullifier2,
		stmt.Public.OutCommitment1, stmt.Public.OutCommitment2,
	)
	if err != nil {
		return nil, err
	}
	mac := crypto.Keccak256(pk, pub)
	return Proof(mac[:]), nil
}

func (Mock) VerifyTransfer(vk VerifyingKey, pub TransferPublicInputs, proof Proof) error {
	packed, err := abienc.PackTransferPublicInputs(pub.Root, pub.Nullifier1, pub.Nullifier2, pub.OutCommitment1, pub.OutCommitment2)
	if err != nil {
		return err
	}
	want := crypto.Keccak256(vk, packed)
	if !bytes.Equal(want[:], proof) {
		return ErrInvalidProof
	}
	return nil
}

func (Mock) ProveWithdraw(pk ProvingKey, stmt Withdraw) (Proof, error) {
	if err := stmt.Check(); err != nil {
		return nil, err
	}
	pub, err := packWithdraw(stmt.Public)
	if err != nil {
		return nil, err
	}
	mac := crypto.Keccak256(pk, pub)
	return Proof(mac[:]), nil
}

func (Mock) VerifyWithdraw(vk VerifyingKey, pub WithdrawPublicInputs, proof Proof) error {
	packed, err := packWithdraw(pub)
	if err != nil {
		return err
	}
	want := crypto.Keccak256(vk, packed)
	if !bytes.Equal(want[:], proof) {
		return ErrInvalidProof
	}
	return nil
}

func packWithdraw(pub WithdrawPublicInputs) ([]byte, error) {
	return abienc.PackWithdrawPublicInputs(pub.Root, pub.Nullifier, common.Address(pub.Recipient), pub.Amount, pub.ChangeCommitment)
}
