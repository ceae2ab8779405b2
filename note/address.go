package note

import (
	"fmt"
	"strings"

	"github.com/Kirol54/privatePlasma/crypto"
	"github.com/btcsuite/btcutil/base58"
)

// Version bytes for the two human-displayable key encodings. Distinct
// prefixes keep a spending pubkey from ever being pasted where a viewing
// pubkey was expected, or vice versa.
const (
	spendPubKeyVersion   = 0x01
	viewingPubKeyVersion = 0x02
)

// EncodeSpendPubKey renders a spend_pubkey as a base58check string, for
// wallets to display or exchange out-of-band when addressing a note to an
// owner.
func EncodeSpendPubKey(pubKey [crypto.Size32]byte) string {
	return "psk1" + base58.CheckEncode(pubKey[:], spendPubKeyVersion)
}

// DecodeSpendPubKey parses the inverse of EncodeSpendPubKey.
func DecodeSpendPubKey(s string) ([crypto.Size32]byte, error) {
	return decodeKey(s, "psk1", spendPubKeyVersion)
}

// EncodeViewingPubKey renders a viewing pubkey the same way, under a
// distinct prefix/version so the two encodings are never confused.
func EncodeViewingPubKey(pubKey [crypto.Size32]byte) string {
	return "pvk1" + base58.CheckEncode(pubKey[:], viewingPubKeyVersion)
}

// DecodeViewingPubKey parses the inverse of EncodeViewingPubKey.
func DecodeViewingPubKey(s string) ([crypto.Size32]byte, error) {
	return decodeKey(s, "pvk1", viewingPubKeyVersion)
}

func decodeKey(s, prefix string, version byte) ([crypto.Size32]byte, error) {
	var out [crypto.Size32]byte
	if !strings.HasPrefix(s, prefix) {
		return out, fmt.Errorf("note: wrong prefix: expected %q, got %q", prefix, s[:min(len(s), len(prefix))])
	}
	raw, ver, err := base58.CheckDecode(s[len(prefix):])
	if err != nil {
		return out, fmt.Errorf("note: decode key: %w", err)
	}
	if ver != version {
		return out, fmt.Errorf("note: wrong version: expected %d, got %d", version, ver)
	}
	if len(raw) != crypto.Size32 {
		return out, fmt.Errorf("note: decoded key has wrong length: %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}
