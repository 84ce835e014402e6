package prf

import "testing"

func TestEvalDeterministic(t *testing.T) {
	var key Key
	for i := range key {
		key[i] = byte(i)
	}
	p1, err := New(key)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p2, err := New(key)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, x := range []uint64{0, 1, 42, 1 << 40, ^uint64(0)} {
		if p1.Eval(x) != p2.Eval(x) {
			t.Errorf("Eval(%d) differs across instances with the same key", x)
		}
	}
}

func TestEvalDependsOnKey(t *testing.T) {
	var key1, key2 Key
	key2[0] = 1

	p1, _ := New(key1)
	p2, _ := New(key2)

	if p1.Eval(0) == p2.Eval(0) {
		t.Errorf("Eval(0) collided across distinct keys")
	}
}

func TestEvalVariesWithInput(t *testing.T) {
	var key Key
	p, _ := New(key)

	seen := make(map[uint64]bool)
	for x := uint64(0); x < 100; x++ {
		y := p.Eval(x)
		if seen[y] {
			t.Fatalf("Eval(%d) collided with a previous output %d", x, y)
		}
		seen[y] = true
	}
}
