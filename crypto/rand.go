package crypto

import crand "crypto/rand"

// RandBytes returns n uniformly random bytes.
func RandBytes(n int) []byte {
	rbz := make([]byte, n)
	_, _ = crand.Read(rbz)
	return rbz
}

// Rand32 returns 32 uniformly random bytes as a fixed-width array, used to
// sample blinding factors and spending keys.
func Rand32() [Size32]byte {
	var out [Size32]byte
	_, _ = crand.Read(out[:])
	return out
}
