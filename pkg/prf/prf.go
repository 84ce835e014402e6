// Package prf implements the single-block keyed pseudorandom function that
// underlies every other component of the iPRF: a 128-bit block cipher in
// single-block ECB mode, truncated to a 64-bit output.
package prf

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"
)

// KeySize is the fixed length of a derived iPRF key, in bytes.
const KeySize = 16

// Key is a 16-byte key for the block-PRF (AES-128).
type Key [KeySize]byte

// PRF evaluates a single-block keyed pseudorandom function over 64-bit
// inputs. Deterministic given the key; cannot fail once constructed.
type PRF struct {
	block cipher.Block
}

// New builds a PRF from a 16-byte key.
func New(key Key) (*PRF, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("prf: %w", err)
	}
	return &PRF{block: block}, nil
}

// Eval computes F(x): encrypt a block whose high 8 bytes are zero and low
// 8 bytes are x (big-endian), and return the high 8 bytes of the
// ciphertext as a big-endian uint64.
func (p *PRF) Eval(x uint64) uint64 {
	var in [16]byte
	binary.BigEndian.PutUint64(in[8:], x)
	out := p.EncryptBlock(in)
	return binary.BigEndian.Uint64(out[:8])
}

// EncryptBlock runs the raw single-block cipher on in and returns the
// ciphertext block. Exposed for callers (such as pkg/rbg) that need a
// non-standard 16-byte input layout instead of Eval's single-uint64
// convention.
func (p *PRF) EncryptBlock(in [16]byte) [16]byte {
	var out [16]byte
	p.block.Encrypt(out[:], in[:])
	return out
}
