// Package rbg implements the deterministic counter-mode random bit
// generator that drives TablePRP's Fisher-Yates shuffle.
//
// The RBG is single-threaded: it carries mutable counter state and
// requires external synchronization if shared across goroutines. In
// practice it is constructed and consumed entirely within a single
// prp.New call and never escapes.
package rbg

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/igor53627/plinko-iprf/pkg/prf"
)

// RBG is a deterministic random bit generator built from a 16-byte key,
// driven by the block-PRF in counter mode.
type RBG struct {
	prf     *prf.PRF
	counter uint64
}

// New constructs an RBG from a 16-byte key with its counter at zero.
func New(key prf.Key) (*RBG, error) {
	p, err := prf.New(key)
	if err != nil {
		return nil, fmt.Errorf("rbg: %w", err)
	}
	return &RBG{prf: p}, nil
}

// Uint64 returns the next pseudorandom 64-bit word and advances the
// counter.
//
// The whole counter goes in the cipher input's high 8 bytes and
// counter>>32 goes in the low 8 bytes, both big-endian: an unusual layout
// (the low 8 bytes stay zero while the counter fits in 32 bits) that must
// be preserved bit-exactly because TablePRP's shuffle depends on it.
func (r *RBG) Uint64() uint64 {
	var in [16]byte
	binary.BigEndian.PutUint64(in[0:8], r.counter)
	binary.BigEndian.PutUint64(in[8:16], r.counter>>32)
	out := r.prf.EncryptBlock(in)
	r.counter++
	return binary.BigEndian.Uint64(out[:8])
}

// Uint64N returns a uniform pseudorandom integer in [0, n), using a mask
// when n is a power of two and rejection sampling otherwise to avoid
// modulo bias.
func (r *RBG) Uint64N(n uint64) uint64 {
	if n <= 1 {
		return 0
	}
	if n&(n-1) == 0 {
		return r.Uint64() & (n - 1)
	}

	const m = math.MaxUint64
	threshold := m - (m % n)
	for {
		v := r.Uint64()
		if v < threshold {
			return v % n
		}
	}
}
