package node

import "testing"

func TestEncodeNoCollisions(t *testing.T) {
	ns := []uint64{100000, 1000000, 10000000}
	lows := []uint64{0, 1, 100}
	deltas := []uint64{10, 100}

	seen := make(map[uint64]struct{})
	for _, n := range ns {
		for _, low := range lows {
			for _, d := range deltas {
				high := low + d
				id := Encode(low, high, n)
				if _, dup := seen[id]; dup {
					t.Fatalf("collision for (low=%d, high=%d, n=%d)", low, high, n)
				}
				seen[id] = struct{}{}
			}
		}
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	k1 := DeriveKey([]byte("test-key"), "suite")
	k2 := DeriveKey([]byte("test-key"), "suite")
	if k1 != k2 {
		t.Errorf("DeriveKey is not deterministic")
	}
}

func TestDeriveKeySeparatesContexts(t *testing.T) {
	k1 := DeriveKey([]byte("test-key"), "suite-a")
	k2 := DeriveKey([]byte("test-key"), "suite-b")
	if k1 == k2 {
		t.Errorf("DeriveKey produced the same key for different contexts")
	}
}
