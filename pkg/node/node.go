// Package node provides collision-free identifiers for iPRF tree nodes
// and deterministic key derivation from a master secret.
package node

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/igor53627/plinko-iprf/pkg/prf"
)

// keyDerivationSeparator is a literal domain separator that MUST be
// reproduced byte-for-byte for cross-implementation compatibility.
const keyDerivationSeparator = "iprf-key-derivation-v1"

// Encode builds a collision-free 64-bit identifier for the tree node
// spanning bin interval [low, high] under a domain of size n: the first
// 8 bytes of SHA-256(low || high || n), each field big-endian uint64.
func Encode(low, high, n uint64) uint64 {
	var buf [24]byte
	binary.BigEndian.PutUint64(buf[0:8], low)
	binary.BigEndian.PutUint64(buf[8:16], high)
	binary.BigEndian.PutUint64(buf[16:24], n)

	sum := sha256.Sum256(buf[:])
	return binary.BigEndian.Uint64(sum[:8])
}

// DeriveKey deterministically derives a 16-byte iPRF key from a master
// secret and a context string: SHA-256(masterSecret || separator ||
// context), truncated to 16 bytes.
func DeriveKey(masterSecret []byte, context string) prf.Key {
	h := sha256.New()
	h.Write(masterSecret)
	h.Write([]byte(keyDerivationSeparator))
	h.Write([]byte(context))
	sum := h.Sum(nil)

	var key prf.Key
	copy(key[:], sum[:prf.KeySize])
	return key
}
