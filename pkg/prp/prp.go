// Package prp implements TablePRP: a perfect bijection on [0, n) built by
// running a deterministic Fisher-Yates shuffle seeded by the counter RBG,
// with the resulting permutation and its inverse stored as lookup tables
// for O(1) forward and inverse queries.
//
// Memory footprint is 16 bytes per element (two uint64 tables); at
// n = 8,400,000 that is roughly 134 MB (about 128 MiB). TablePRP is immutable after
// construction and safe for concurrent reads.
package prp

import (
	"errors"

	"github.com/igor53627/plinko-iprf/pkg/prf"
	"github.com/igor53627/plinko-iprf/pkg/rbg"
)

// ErrInvalidKeyLength is returned when key material is not exactly
// prf.KeySize bytes.
var ErrInvalidKeyLength = errors.New("prp: key must be 16 bytes")

// ErrInvalidDomain is returned when the domain n is zero.
var ErrInvalidDomain = errors.New("prp: domain must be > 0")

// ErrOutOfRange is returned by Forward/Inverse when the argument falls
// outside [0, n).
var ErrOutOfRange = errors.New("prp: argument out of range")

// TablePRP is a table-backed pseudorandom permutation on [0, n).
// Immutable after construction.
type TablePRP struct {
	domain  uint64
	forward []uint64
	inverse []uint64
}

// New builds a TablePRP over [0, n) keyed by a 16-byte key. Fails when
// n is zero or the key is not 16 bytes.
//
// Construction runs Fisher-Yates on an identity permutation, drawing the
// swap index j in [0, i] (inclusive of i) from a counter RBG seeded by
// key, then builds the inverse table from the resulting permutation.
func New(n uint64, key []byte) (*TablePRP, error) {
	if n == 0 {
		return nil, ErrInvalidDomain
	}
	if len(key) != prf.KeySize {
		return nil, ErrInvalidKeyLength
	}

	var k prf.Key
	copy(k[:], key)
	gen, err := rbg.New(k)
	if err != nil {
		return nil, err
	}

	perm := make([]uint64, n)
	for i := range perm {
		perm[i] = uint64(i)
	}

	for i := n - 1; i > 0; i-- {
		j := gen.Uint64N(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	inv := make([]uint64, n)
	for x, y := range perm {
		inv[y] = uint64(x)
	}

	return &TablePRP{domain: n, forward: perm, inverse: inv}, nil
}

// Domain returns n.
func (t *TablePRP) Domain() uint64 { return t.domain }

// Forward returns the permuted value of x. Fails if x is out of
// [0, domain).
func (t *TablePRP) Forward(x uint64) (uint64, error) {
	if x >= t.domain {
		return 0, ErrOutOfRange
	}
	return t.forward[x], nil
}

// Inverse returns the preimage of y under Forward, in O(1) via a
// pre-computed table. Fails if y is out of [0, domain).
func (t *TablePRP) Inverse(y uint64) (uint64, error) {
	if y >= t.domain {
		return 0, ErrOutOfRange
	}
	return t.inverse[y], nil
}

// VerifyBijection checks table sizes, completeness, and round-trip
// consistency in O(n). Intended for tests and diagnostics.
func (t *TablePRP) VerifyBijection() bool {
	if uint64(len(t.forward)) != t.domain || uint64(len(t.inverse)) != t.domain {
		return false
	}
	for x := uint64(0); x < t.domain; x++ {
		y := t.forward[x]
		if y >= t.domain || t.inverse[y] != x {
			return false
		}
	}
	return true
}
