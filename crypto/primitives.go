// Package crypto implements the protocol kernel's pure cryptographic
// primitives: the keccak256 wrapper and the domain-separated derivations
// shared bit-for-bit by the on-chain verifier, the circuit guest, and the
// wallet. Every derivation here is pure and deterministic; the only
// randomness in the package is RandBytes/Rand32 (rand.go), which callers use
// to sample blinding factors and spending keys.
package crypto

import (
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/curve25519"
)

// Size32 is the width of every digest, key and commitment in the protocol.
const Size32 = 32

// Keccak256 hashes the concatenation of its arguments with keccak-256,
// matching the EVM's keccak256(...) opcode byte-for-byte.
func Keccak256(data ...[]byte) [Size32]byte {
	var out [Size32]byte
	copy(out[:], ethcrypto.Keccak256(data...))
	return out
}

// HashPair is the Merkle tree's internal-node hash: keccak256(left || right).
func HashPair(left, right [Size32]byte) [Size32]byte {
	return Keccak256(left[:], right[:])
}

// Commitment computes commitment = keccak256(amount_be8 || pubkey || blinding).
// The preimage is exactly 72 bytes: 8 + 32 + 32.
func Commitment(amount uint64, pubkey, blinding [Size32]byte) [Size32]byte {
	var amtBE [8]byte
	putUint64BE(amtBE[:], amount)
	return Keccak256(amtBE[:], pubkey[:], blinding[:])
}

// Nullifier computes nullifier = keccak256(commitment || spending_key).
// The preimage is exactly 64 bytes.
func Nullifier(commitment, spendingKey [Size32]byte) [Size32]byte {
	return Keccak256(commitment[:], spendingKey[:])
}

// SpendPubKey computes spend_pubkey = keccak256(spending_key), the note
// owner's public identifier.
func SpendPubKey(spendingKey [Size32]byte) [Size32]byte {
	return Keccak256(spendingKey[:])
}

// viewingDomain is the 7-ASCII-byte domain separator prefixed onto the
// spending key before deriving the viewing secret.
var viewingDomain = []byte("viewing")

// ViewingKeypair derives the curve25519 DH keypair used by the note
// encryption envelope (C6) from a note's spending key:
//
//	viewing_sk = keccak256("viewing" || spending_key)
//	viewing_pk = X25519(viewing_sk, basepoint)
func ViewingKeypair(spendingKey [Size32]byte) (sk, pk [Size32]byte) {
	sk = Keccak256(viewingDomain, spendingKey[:])
	pub, err := curve25519.X25519(sk[:], curve25519.Basepoint)
	if err != nil {
		// sk is a keccak digest paired with the fixed basepoint; X25519 only
		// errs on a low-order scalar/point combination, which cannot occur here.
		panic("crypto: unreachable X25519 failure deriving viewing key: " + err.Error())
	}
	copy(pk[:], pub)
	return sk, pk
}

func putUint64BE(b []byte, v uint64) {
	b[0] = byte(v >> 56)
	b[1] = byte(v >> 48)
	b[2] = byte(v >> 40)
	b[3] = byte(v >> 32)
	b[4] = byte(v >> 24)
	b[5] = byte(v >> 16)
	b[6] = byte(v >> 8)
	b[7] = byte(v)
}
