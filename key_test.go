package gringotts

import (
	"errors"
	"testing"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	a := testKey(t, "correct horse battery staple")
	b := testKey(t, "correct horse battery staple")
	c := testKey(t, "correct horse battery stapler")

	if !a.Equal(b) {
		t.Error("same password should derive equal keys")
	}
	if a.Equal(c) {
		t.Error("different passwords should derive different keys")
	}
}

func TestNewKeySalt(t *testing.T) {
	params := fastArgon2
	params.Salt = []byte("another salt value")
	salted, err := NewKey([]byte("pw"), params)
	if err != nil {
		t.Fatal(err)
	}
	defer salted.Destroy()

	if salted.Equal(testKey(t, "pw")) {
		t.Error("custom salt should change the derived key")
	}
}

func TestNewKeyPBKDF2(t *testing.T) {
	params := PBKDF2Params{Iterations: 1000, HashFunc: SHA512}
	a, err := NewKeyPBKDF2([]byte("password"), params)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewKeyPBKDF2([]byte("password"), params)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Error("PBKDF2 should be deterministic")
	}

	if _, err := NewKeyPBKDF2([]byte("password"), PBKDF2Params{HashFunc: HashFunc(9)}); !IsValidationError(err) {
		t.Errorf("unknown hash func error = %v, want ValidationError", err)
	}
}

func TestEmptyPassword(t *testing.T) {
	if _, err := NewKey(nil, fastArgon2); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("NewKey(nil) error = %v", err)
	}
	if _, err := NewKeyPBKDF2([]byte{}, PBKDF2Params{}); !IsValidationError(err) {
		t.Errorf("NewKeyPBKDF2(empty) error = %v", err)
	}
}

func TestKeyClone(t *testing.T) {
	k := testKey(t, "clone me")
	c, err := k.Clone()
	if err != nil {
		t.Fatal(err)
	}
	if !k.Equal(c) {
		t.Fatal("clone should equal original")
	}

	c.Destroy()
	if k.Destroyed() {
		t.Error("destroying the clone must not affect the original")
	}
	if k.Equal(c) {
		t.Error("destroyed clone should not compare equal")
	}
}

func TestKeyDestroy(t *testing.T) {
	k, err := NewRandomKey()
	if err != nil {
		t.Fatal(err)
	}
	k.Destroy()
	k.Destroy() // idempotent

	if !k.Destroyed() {
		t.Error("Destroyed() = false after Destroy")
	}
	if _, err := k.Clone(); !errors.Is(err, ErrKeyDestroyed) || !IsResourceError(err) {
		t.Errorf("Clone() after Destroy error = %v", err)
	}
	if k.String() != "Key(destroyed)" {
		t.Errorf("String() = %q", k.String())
	}

	ctx := testContext(t)
	if _, err := ctx.EncryptMem(k, []byte("x")); !errors.Is(err, ErrKeyDestroyed) {
		t.Errorf("EncryptMem with destroyed key error = %v", err)
	}
}

func TestRandomKeysDiffer(t *testing.T) {
	a, _ := NewRandomKey()
	b, _ := NewRandomKey()
	if a.Equal(b) {
		t.Error("two random keys compared equal")
	}
}

func TestKeyFromBytes(t *testing.T) {
	raw := make([]byte, MasterKeySize)
	raw[0] = 1
	k, err := KeyFromBytes(raw)
	if err != nil {
		t.Fatal(err)
	}
	raw[0] = 2
	k2, _ := KeyFromBytes(raw)
	if k.Equal(k2) {
		t.Error("KeyFromBytes must copy its input")
	}

	if _, err := KeyFromBytes(make([]byte, 32)); !IsValidationError(err) {
		t.Errorf("short key error = %v", err)
	}
}

func TestKeyEqualDifferingPosition(t *testing.T) {
	base := make([]byte, MasterKeySize)
	for i := range base {
		base[i] = byte(i * 7)
	}

	tests := []struct {
		name string
		pos  int // -1 means identical
		want bool
	}{
		{"identical", -1, true},
		{"first byte", 0, false},
		{"middle byte", MasterKeySize / 2, false},
		{"last byte", MasterKeySize - 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := append([]byte(nil), base...)
			if tt.pos >= 0 {
				other[tt.pos] ^= 0x01
			}
			a, err := KeyFromBytes(base)
			if err != nil {
				t.Fatal(err)
			}
			b, err := KeyFromBytes(other)
			if err != nil {
				t.Fatal(err)
			}
			defer a.Destroy()
			defer b.Destroy()

			if got := a.Equal(b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			if got := b.Equal(a); got != tt.want {
				t.Errorf("Equal() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFrameKeysSized(t *testing.T) {
	k := testKey(t, "sizes")
	for _, c := range Ciphers() {
		ks, _ := KeySize(c)
		iv, _ := GenerateIV(c)
		enc, mac, err := k.frameKeys(FormatVersion, Algorithms{Cipher: c}.Pack(), iv, ks)
		if err != nil {
			t.Fatal(err)
		}
		if len(enc) != ks || len(mac) != macKeySize {
			t.Errorf("%s: got %d/%d byte keys, want %d/%d", c, len(enc), len(mac), ks, macKeySize)
		}
	}
}
