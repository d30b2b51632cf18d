package gringotts

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

// MasterKeySize is the length of the secret held by a Key
const MasterKeySize = 64

// defaultSalt is the domain salt used when a caller does not supply one, so
// that the same password always yields the same key.
var defaultSalt = []byte("gringotts master key v1")

// HashFunc represents hash function types for PBKDF2
type HashFunc uint8

const (
	// SHA256 hash function
	SHA256 HashFunc = iota
	// SHA512 hash function
	SHA512
)

// PBKDF2Params contains parameters for PBKDF2 key derivation
type PBKDF2Params struct {
	Iterations int      // Number of iterations (default 100,000)
	HashFunc   HashFunc // Hash function to use
	Salt       []byte   // Salt; the library domain salt when empty
}

// Argon2idParams contains parameters for Argon2id key derivation
type Argon2idParams struct {
	Memory      uint32 // Memory in KiB (default 64*1024 for 64MB)
	Iterations  uint32 // Number of iterations (default 3)
	Parallelism uint8  // Degree of parallelism (default 4)
	Salt        []byte // Salt; the library domain salt when empty
}

func (p Argon2idParams) withDefaults() Argon2idParams {
	if p.Memory == 0 {
		p.Memory = 64 * 1024
	}
	if p.Iterations == 0 {
		p.Iterations = 3
	}
	if p.Parallelism == 0 {
		p.Parallelism = 4
	}
	if len(p.Salt) == 0 {
		p.Salt = defaultSalt
	}
	return p
}

func (p PBKDF2Params) withDefaults() PBKDF2Params {
	if p.Iterations == 0 {
		p.Iterations = 100000
	}
	if len(p.Salt) == 0 {
		p.Salt = defaultSalt
	}
	return p
}

// Key is the secret from which every frame's cipher and integrity keys are
// expanded. The zero value is not usable; create keys with DeriveKey,
// NewKey, NewKeyPBKDF2 or NewRandomKey.
type Key struct {
	secret    []byte
	destroyed bool
}

// DeriveKey stretches password into a Key with the default Argon2id
// parameters and the library domain salt.
func DeriveKey(password []byte) (*Key, error) {
	return NewKey(password, Argon2idParams{})
}

// NewKey derives a Key from password using Argon2id
func NewKey(password []byte, params Argon2idParams) (*Key, error) {
	if len(password) == 0 {
		return nil, &ValidationError{Field: "password", Message: "password cannot be empty", Err: ErrEmptyPassword}
	}
	params = params.withDefaults()
	secret := argon2.IDKey(password, params.Salt, params.Iterations, params.Memory, params.Parallelism, MasterKeySize)
	return &Key{secret: secret}, nil
}

// NewKeyPBKDF2 derives a Key from password using PBKDF2
func NewKeyPBKDF2(password []byte, params PBKDF2Params) (*Key, error) {
	if len(password) == 0 {
		return nil, &ValidationError{Field: "password", Message: "password cannot be empty", Err: ErrEmptyPassword}
	}
	params = params.withDefaults()

	var hashFunc func() hash.Hash
	switch params.HashFunc {
	case SHA256:
		hashFunc = sha256.New
	case SHA512:
		hashFunc = sha512.New
	default:
		return nil, NewValidationError("hash_func", params.HashFunc, fmt.Sprintf("unsupported hash function: %v", params.HashFunc))
	}

	secret := pbkdf2.Key(password, params.Salt, params.Iterations, MasterKeySize, hashFunc)
	return &Key{secret: secret}, nil
}

// NewRandomKey returns a Key filled from the system CSPRNG
func NewRandomKey() (*Key, error) {
	secret, err := RandomBytes(MasterKeySize)
	if err != nil {
		return nil, err
	}
	return &Key{secret: secret}, nil
}

// KeyFromBytes wraps raw key material. The slice is copied.
func KeyFromBytes(b []byte) (*Key, error) {
	if err := ValidateKey(b, MasterKeySize); err != nil {
		return nil, err
	}
	return &Key{secret: append([]byte(nil), b...)}, nil
}

// Clone returns an independent copy of k
func (k *Key) Clone() (*Key, error) {
	if err := k.check(); err != nil {
		return nil, err
	}
	return &Key{secret: append([]byte(nil), k.secret...)}, nil
}

// Equal reports whether k and other hold the same secret, in constant time.
// A destroyed or nil key is never equal to anything.
func (k *Key) Equal(other *Key) bool {
	if k.check() != nil || other.check() != nil {
		return false
	}
	return subtle.ConstantTimeCompare(k.secret, other.secret) == 1
}

// Destroy overwrites the secret. It is safe to call more than once.
func (k *Key) Destroy() {
	if k == nil || k.destroyed {
		return
	}
	wipe(SecurityParanoid, k.secret)
	k.secret = nil
	k.destroyed = true
}

// Destroyed reports whether Destroy has been called
func (k *Key) Destroyed() bool {
	return k == nil || k.destroyed
}

// String never reveals key material
func (k *Key) String() string {
	if k.Destroyed() {
		return "Key(destroyed)"
	}
	return "Key(redacted)"
}

func (k *Key) check() error {
	if k.Destroyed() || len(k.secret) != MasterKeySize {
		return resourceErr("key", ErrKeyDestroyed)
	}
	return nil
}

// frameKeys expands the per-frame cipher and integrity keys. The IV acts
// as salt and the frame's version and selector bytes bind the keys to the
// algorithms they will be used with.
func (k *Key) frameKeys(version, algo byte, iv []byte, cipherKeySize int) (encKey, macKey []byte, err error) {
	if err := k.check(); err != nil {
		return nil, nil, err
	}
	r := hkdf.New(sha256.New, k.secret, iv, []byte{'g', 'r', 'g', version, algo})
	buf := make([]byte, cipherKeySize+macKeySize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, nil, err
	}
	return buf[:cipherKeySize:cipherKeySize], buf[cipherKeySize:], nil
}
