package gringotts

import (
	"bytes"
	"testing"
)

func TestRandomBytes(t *testing.T) {
	for _, n := range []int{0, 1, 16, 64} {
		b, err := RandomBytes(n)
		if err != nil {
			t.Fatalf("RandomBytes(%d) error: %v", n, err)
		}
		if len(b) != n {
			t.Errorf("RandomBytes(%d) returned %d bytes", n, len(b))
		}
	}

	a, _ := RandomBytes(32)
	b, _ := RandomBytes(32)
	if bytes.Equal(a, b) {
		t.Error("two random draws are identical")
	}

	if _, err := RandomBytes(-1); !IsValidationError(err) {
		t.Errorf("RandomBytes(-1) error = %v, want ValidationError", err)
	}
}

func TestRandomByte(t *testing.T) {
	seen := make(map[byte]bool)
	for i := 0; i < 64; i++ {
		b, err := RandomByte()
		if err != nil {
			t.Fatal(err)
		}
		seen[b] = true
	}
	if len(seen) < 2 {
		t.Error("RandomByte returned the same value 64 times")
	}
}
