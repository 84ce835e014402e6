// Package iprf implements the binomial-tree invertible pseudorandom
// function (iPRF) at the heart of the Plinko PIR scheme: a keyed map
// [0, n) -> [0, m) with fast forward evaluation and output-sensitive
// preimage enumeration.
//
// Forward evaluation descends a conceptual binary tree over the bin
// interval [0, m-1], splitting the ball count at each internal node with
// a pseudorandom binomial draw keyed off the node's identity. Inverse
// evaluation walks the same tree, pruning subtrees that cannot contain
// the target bin, which is what makes enumeration output-sensitive
// instead of a full O(n) scan.
package iprf

import (
	"math"
	"sort"

	"github.com/igor53627/plinko-iprf/pkg/node"
	"github.com/igor53627/plinko-iprf/pkg/prf"
)

// IPRF is an invertible pseudorandom function over [0, n) -> [0, m).
// Immutable after construction; safe for concurrent reads.
type IPRF struct {
	prf       *prf.PRF
	n         uint64
	m         uint64
	treeDepth uint64
}

// New constructs an IPRF with the given 16-byte key, domain size n, and
// range size m. Fails if the key is not 16 bytes, or if n or m is zero.
func New(key []byte, n, m uint64) (*IPRF, error) {
	if len(key) != prf.KeySize {
		return nil, ErrInvalidKeyLength
	}
	if n == 0 || m == 0 {
		return nil, ErrInvalidDomain
	}

	var k prf.Key
	copy(k[:], key)
	p, err := prf.New(k)
	if err != nil {
		return nil, err
	}

	var depth uint64
	if m > 1 {
		depth = uint64(math.Ceil(math.Log2(float64(m))))
	}

	return &IPRF{prf: p, n: n, m: m, treeDepth: depth}, nil
}

// Domain returns n.
func (f *IPRF) Domain() uint64 { return f.n }

// Range returns m.
func (f *IPRF) Range() uint64 { return f.m }

// TreeDepth returns ceil(log2(m)), the nominal depth of the binomial
// tree. Not consulted by Forward/Inverse; exposed for capacity-planning
// tooling only.
func (f *IPRF) TreeDepth() uint64 { return f.treeDepth }

// ExpectedPreimageSize returns ceil(n / m), the expected cardinality of
// Inverse(y) for any y.
func (f *IPRF) ExpectedPreimageSize() uint64 {
	return (f.n + f.m - 1) / f.m
}

// Forward evaluates F(x) -> y. Out-of-domain inputs (x >= n) are
// absorbed and return 0, matching the reference implementation.
func (f *IPRF) Forward(x uint64) uint64 {
	if x >= f.n {
		return 0
	}
	if f.m == 1 {
		return 0
	}

	low, high := uint64(0), f.m-1
	ballCount, ballIndex := f.n, x

	for low < high {
		mid := (low + high) / 2
		leftBins := mid - low + 1
		totBins := high - low + 1
		p := float64(leftBins) / float64(totBins)

		id := node.Encode(low, high, f.n)
		left := f.sampleBinomial(id, ballCount, p)

		if ballIndex < left {
			high = mid
			ballCount = left
		} else {
			low = mid + 1
			ballIndex -= left
			ballCount -= left
		}
	}

	return low
}

// Inverse computes F^-1(y): the sorted list of all x in [0, n) such that
// Forward(x) == y. Out-of-range bins (y >= m) return an empty slice.
func (f *IPRF) Inverse(y uint64) []uint64 {
	if y >= f.m {
		return nil
	}
	if f.m == 1 {
		result := make([]uint64, f.n)
		for i := range result {
			result[i] = uint64(i)
		}
		return result
	}

	var result []uint64
	f.enumerate(y, 0, f.m-1, f.n, 0, f.n-1, &result)
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// enumerate recursively descends the subtree spanning bin interval
// [low, high], pruning branches that cannot contain target. ballCount is
// the number of balls in this subtree; startIdx/endIdx is the contiguous
// interval of original ball indices that fell into it (ballCount ==
// endIdx-startIdx+1 holds at every call). nOriginal is the iPRF's fixed
// domain size, used only for node-ID generation, never for sampling;
// this is what keeps the inverse walk bit-exact with the forward walk.
func (f *IPRF) enumerate(target, low, high, nOriginal, startIdx, endIdx uint64, result *[]uint64) {
	if low == high {
		if low == target {
			for i := startIdx; i <= endIdx; i++ {
				*result = append(*result, i)
			}
		}
		return
	}

	mid := (low + high) / 2
	leftBins := mid - low + 1
	totBins := high - low + 1
	p := float64(leftBins) / float64(totBins)

	ballCount := endIdx - startIdx + 1
	id := node.Encode(low, high, nOriginal)
	left := f.sampleBinomial(id, ballCount, p)
	right := ballCount - left
	splitIdx := startIdx + left

	if target <= mid {
		if left > 0 {
			f.enumerate(target, low, mid, nOriginal, startIdx, splitIdx-1, result)
		}
	} else {
		if right > 0 {
			f.enumerate(target, mid+1, high, nOriginal, splitIdx, endIdx, result)
		}
	}
}
