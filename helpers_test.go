package gringotts

import (
	"testing"
)

// fastArgon2 keeps key derivation cheap in tests
var fastArgon2 = Argon2idParams{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
}

func testKey(t testing.TB, password string) *Key {
	t.Helper()
	key, err := NewKey([]byte(password), fastArgon2)
	if err != nil {
		t.Fatalf("failed to derive key: %v", err)
	}
	t.Cleanup(key.Destroy)
	return key
}

func testContext(t testing.TB) *Context {
	t.Helper()
	ctx, err := NewDefaultContext([]byte("TEST"))
	if err != nil {
		t.Fatalf("failed to create context: %v", err)
	}
	return ctx
}

// allAlgorithms enumerates every valid selector
func allAlgorithms() []Algorithms {
	var out []Algorithms
	for _, c := range Ciphers() {
		for _, h := range Hashes() {
			for _, comp := range Compressors() {
				for _, l := range Levels() {
					out = append(out, Algorithms{Cipher: c, Hash: h, Comp: comp, Level: l})
				}
			}
		}
	}
	return out
}
