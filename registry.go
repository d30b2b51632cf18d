package gringotts

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"crypto/hmac"
	"crypto/sha256"
	"hash"

	"github.com/Picocrypt/serpent"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blowfish"
	"golang.org/x/crypto/cast5"
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/twofish"
	"golang.org/x/crypto/xtea"
)

type cipherSpec struct {
	keySize   int
	blockSize int
	// newBlock is nil for native stream ciphers
	newBlock func(key []byte) (cipher.Block, error)
}

type hashSpec struct {
	size   int
	newMAC func(key []byte) (hash.Hash, error)
}

var cipherTable = map[CipherAlgo]cipherSpec{
	CipherAES:     {keySize: 32, blockSize: aes.BlockSize, newBlock: aes.NewCipher},
	CipherSerpent: {keySize: 32, blockSize: 16, newBlock: serpent.NewCipher},
	CipherTwofish: {keySize: 32, blockSize: twofish.BlockSize, newBlock: func(k []byte) (cipher.Block, error) {
		return twofish.NewCipher(k)
	}},
	CipherCAST5: {keySize: cast5.KeySize, blockSize: cast5.BlockSize, newBlock: func(k []byte) (cipher.Block, error) {
		return cast5.NewCipher(k)
	}},
	CipherBlowfish: {keySize: 32, blockSize: blowfish.BlockSize, newBlock: func(k []byte) (cipher.Block, error) {
		return blowfish.NewCipher(k)
	}},
	CipherXTEA: {keySize: 16, blockSize: xtea.BlockSize, newBlock: func(k []byte) (cipher.Block, error) {
		return xtea.NewCipher(k)
	}},
	Cipher3DES:      {keySize: 24, blockSize: des.BlockSize, newBlock: des.NewTripleDESCipher},
	CipherXChaCha20: {keySize: chacha20.KeySize, blockSize: chacha20.NonceSizeX},
}

var hashTable = map[HashAlgo]hashSpec{
	HashSHA256: {size: sha256.Size, newMAC: func(k []byte) (hash.Hash, error) {
		return hmac.New(sha256.New, k), nil
	}},
	HashBLAKE2b: {size: blake2b.Size256, newMAC: blake2b.New256},
}

// macKeySize is the length of the per-frame integrity key for every hash
const macKeySize = 32

func unsupported(field string, value any) error {
	return &ValidationError{Field: field, Value: value, Message: "unsupported algorithm", Err: ErrUnsupportedAlgorithm}
}

// KeySize returns the cipher key length in bytes
func KeySize(c CipherAlgo) (int, error) {
	spec, ok := cipherTable[c]
	if !ok {
		return 0, unsupported("cipher", c)
	}
	return spec.keySize, nil
}

// BlockSize returns the IV length the cipher uses in a frame. For block
// ciphers it equals the cipher block size.
func BlockSize(c CipherAlgo) (int, error) {
	spec, ok := cipherTable[c]
	if !ok {
		return 0, unsupported("cipher", c)
	}
	return spec.blockSize, nil
}

// IntegritySize returns the length of the integrity code produced by h
func IntegritySize(h HashAlgo) (int, error) {
	spec, ok := hashTable[h]
	if !ok {
		return 0, unsupported("hash", h)
	}
	return spec.size, nil
}

// Ciphers lists every supported cipher in tag order
func Ciphers() []CipherAlgo {
	return []CipherAlgo{CipherAES, CipherSerpent, CipherTwofish, CipherCAST5, CipherBlowfish, CipherXTEA, Cipher3DES, CipherXChaCha20}
}

// Hashes lists every supported hash in tag order
func Hashes() []HashAlgo {
	return []HashAlgo{HashSHA256, HashBLAKE2b}
}

// Compressors lists every supported compression algorithm in tag order
func Compressors() []CompAlgo {
	return []CompAlgo{CompZlib, CompZstd}
}

// Levels lists every compression level in tag order
func Levels() []CompLevel {
	return []CompLevel{LevelNone, LevelFast, LevelGood, LevelBest}
}
