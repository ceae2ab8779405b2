// Package envelope implements the note-encryption envelope (C6): the
// ciphertext a sender publishes alongside a commitment so that only the
// note's recipient can recover (amount, pubkey, blinding) and reconstruct
// the note. spec.md §4.6/§6.2 specify curve25519 Diffie-Hellman plus an
// AEAD "any equivalent to XSalsa20-Poly1305"; this package uses
// golang.org/x/crypto/nacl/box, which is exactly that construction.
package envelope

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/Kirol54/privatePlasma/crypto"
	"github.com/Kirol54/privatePlasma/note"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/nacl/box"
)

// ErrNotForMe is returned by Open when the envelope does not decrypt under
// the given viewing key. Per spec.md §4.6/§7 this is not a protocol error:
// most envelopes on the pool's log are not addressed to any one viewer, and
// a scanner must fail silently and move on.
var ErrNotForMe = errors.New("envelope: not addressed to this viewing key")

const (
	ephemeralPubKeySize = 32
	nonceSize           = 24
	macOverhead         = box.Overhead
	headerSize          = ephemeralPubKeySize + nonceSize
)

// plaintext is the canonical RLP-encoded payload recovered from a decrypted
// envelope.
type plaintext struct {
	Amount   uint64
	PubKey   []byte
	Blinding []byte
}

func encodePlaintext(n note.Note) ([]byte, error) {
	return rlp.EncodeToBytes(&plaintext{
		Amount:   n.Amount,
		PubKey:   n.PubKey[:],
		Blinding: n.Blinding[:],
	})
}

func decodePlaintext(data []byte) (note.Note, error) {
	var p plaintext
	if err := rlp.DecodeBytes(data, &p); err != nil {
		return note.Note{}, fmt.Errorf("envelope: decode note plaintext: %w", err)
	}
	if len(p.PubKey) != crypto.Size32 || len(p.Blinding) != crypto.Size32 {
		return note.Note{}, fmt.Errorf("envelope: malformed note plaintext field length")
	}
	var n note.Note
	n.Amount = p.Amount
	copy(n.PubKey[:], p.PubKey)
	copy(n.Blinding[:], p.Blinding)
	return n, nil
}

// Seal encrypts n for the recipient's viewing public key, returning
// ephemeral_pk(32) ‖ nonce(24) ‖ ciphertext, ready to be published as the
// pool's EncryptedNote event payload (spec.md §4.6).
func Seal(n note.Note, recipientViewingPubKey [crypto.Size32]byte) ([]byte, error) {
	msg, err := encodePlaintext(n)
	if err != nil {
		return nil, fmt.Errorf("envelope: encode plaintext: %w", err)
	}

	ephemeralPub, ephemeralPriv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("envelope: generate ephemeral key: %w", err)
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("envelope: generate nonce: %w", err)
	}

	recipientPK := [32]byte(recipientViewingPubKey)
	sealed := box.Seal(nil, msg, &nonce, &recipientPK, ephemeralPriv)

	out := make([]byte, 0, headerSize+len(sealed))
	out = append(out, ephemeralPub[:]...)
	out = append(out, nonce[:]...)
	out = append(out, sealed...)
	return out, nil
}

// Open attempts to decrypt an envelope produced by Seal using the
// recipient's viewing private key. It returns ErrNotForMe, rather than a
// generic decryption error, whenever the box authentication fails — a
// viewer cannot distinguish "not addressed to me" from "corrupted" and
// spec.md §4.6 treats both as "skip this event".
func Open(envelope []byte, viewingPrivKey [crypto.Size32]byte) (note.Note, error) {
	if len(envelope) < headerSize+macOverhead {
		return note.Note{}, ErrNotForMe
	}
	var ephemeralPub [32]byte
	copy(ephemeralPub[:], envelope[:ephemeralPubKeySize])
	var nonce [nonceSize]byte
	copy(nonce[:], envelope[ephemeralPubKeySize:headerSize])
	sealed := envelope[headerSize:]

	priv := [32]byte(viewingPrivKey)
	msg, ok := box.Open(nil, sealed, &nonce, &ephemeralPub, &priv)
	if !ok {
		return note.Note{}, ErrNotForMe
	}

	n, err := decodePlaintext(msg)
	if err != nil {
		return note.Note{}, err
	}
	return n, nil
}

// OpenAndVerify decrypts envelope and additionally rejects a recovered note
// whose commitment does not match the on-chain commitment the envelope was
// published alongside — spec.md §4.6's "the recipient MUST reject a note
// whose decrypted fields do not reproduce the expected commitment".
func OpenAndVerify(envelope []byte, viewingPrivKey [crypto.Size32]byte, wantCommitment [crypto.Size32]byte) (note.Note, error) {
	n, err := Open(envelope, viewingPrivKey)
	if err != nil {
		return note.Note{}, err
	}
	got := n.Commitment()
	if !bytes.Equal(got[:], wantCommitment[:]) {
		return note.Note{}, ErrNotForMe
	}
	return n, nil
}
