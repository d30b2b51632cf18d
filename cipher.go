package gringotts

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20"
)

// CipherEngine applies a keyed keystream to frame payloads. Encryption and
// decryption are the same XOR operation; integrity is checked separately
// by the frame's integrity code.
type CipherEngine interface {
	// Encrypt encrypts plaintext with the given IV
	Encrypt(iv, plaintext []byte) ([]byte, error)

	// Decrypt decrypts ciphertext with the given IV
	Decrypt(iv, ciphertext []byte) ([]byte, error)

	// IVSize returns the size of IVs in bytes
	IVSize() int
}

// CTREngine implements CipherEngine with a block cipher in counter mode
type CTREngine struct {
	block cipher.Block
}

// NewCTREngine wraps a block cipher in counter mode
func NewCTREngine(block cipher.Block) *CTREngine {
	return &CTREngine{block: block}
}

// Encrypt encrypts plaintext in CTR mode
func (e *CTREngine) Encrypt(iv, plaintext []byte) ([]byte, error) {
	return e.xor(iv, plaintext)
}

// Decrypt decrypts ciphertext in CTR mode
func (e *CTREngine) Decrypt(iv, ciphertext []byte) ([]byte, error) {
	return e.xor(iv, ciphertext)
}

func (e *CTREngine) xor(iv, in []byte) ([]byte, error) {
	if len(iv) != e.IVSize() {
		return nil, fmt.Errorf("IV must be %d bytes, got %d", e.IVSize(), len(iv))
	}
	out := make([]byte, len(in))
	cipher.NewCTR(e.block, iv).XORKeyStream(out, in)
	return out, nil
}

// IVSize returns the block size of the underlying cipher
func (e *CTREngine) IVSize() int {
	return e.block.BlockSize()
}

// XChaCha20Engine implements CipherEngine using the XChaCha20 stream cipher
type XChaCha20Engine struct {
	key []byte
}

// NewXChaCha20Engine creates a new XChaCha20 engine. The key is copied.
func NewXChaCha20Engine(key []byte) (*XChaCha20Engine, error) {
	if len(key) != chacha20.KeySize {
		return nil, fmt.Errorf("XChaCha20 requires a %d-byte key, got %d bytes", chacha20.KeySize, len(key))
	}
	return &XChaCha20Engine{key: append([]byte(nil), key...)}, nil
}

// Encrypt encrypts plaintext using XChaCha20
func (e *XChaCha20Engine) Encrypt(iv, plaintext []byte) ([]byte, error) {
	return e.xor(iv, plaintext)
}

// Decrypt decrypts ciphertext using XChaCha20
func (e *XChaCha20Engine) Decrypt(iv, ciphertext []byte) ([]byte, error) {
	return e.xor(iv, ciphertext)
}

func (e *XChaCha20Engine) xor(iv, in []byte) ([]byte, error) {
	if len(iv) != e.IVSize() {
		return nil, fmt.Errorf("nonce must be %d bytes, got %d", e.IVSize(), len(iv))
	}
	s, err := chacha20.NewUnauthenticatedCipher(e.key, iv)
	if err != nil {
		return nil, fmt.Errorf("failed to create XChaCha20 cipher: %w", err)
	}
	out := make([]byte, len(in))
	s.XORKeyStream(out, in)
	return out, nil
}

// IVSize returns the XChaCha20 nonce size (24 bytes)
func (e *XChaCha20Engine) IVSize() int {
	return chacha20.NonceSizeX
}

// Wipe zeroes the engine's copy of the key
func (e *XChaCha20Engine) Wipe() {
	clear(e.key)
}

// NewCipherEngine creates a cipher engine for the given algorithm. The key
// must be exactly KeySize(algo) bytes.
func NewCipherEngine(algo CipherAlgo, key []byte) (CipherEngine, error) {
	spec, ok := cipherTable[algo]
	if !ok {
		return nil, unsupported("cipher", algo)
	}
	if err := ValidateKey(key, spec.keySize); err != nil {
		return nil, err
	}
	if spec.newBlock == nil {
		return NewXChaCha20Engine(key)
	}
	block, err := spec.newBlock(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s cipher: %w", algo, err)
	}
	return NewCTREngine(block), nil
}

// GenerateIV generates a random IV sized for the given cipher
func GenerateIV(algo CipherAlgo) ([]byte, error) {
	size, err := BlockSize(algo)
	if err != nil {
		return nil, err
	}
	iv, err := RandomBytes(size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}
	return iv, nil
}
