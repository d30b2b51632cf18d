// Package gringotts combines compression, a keyed integrity code and
// symmetric encryption into one reversible transform, applied to memory
// buffers, files, open file descriptors or encrypted temporary files.
//
// # Overview
//
// A Context selects the algorithms and the header tag written at the start
// of every frame. A Key holds the 64-byte master secret, normally stretched
// from a password with Argon2id. Encoding a buffer produces a frame:
//
//	[header tag][version][algorithm byte][IV][integrity code][ciphertext]
//
// The algorithm byte records the cipher, hash, compressor and compression
// level, so a frame can always be decoded with any context carrying the
// same header tag, whatever that context's own selection is.
//
// # Supported Algorithms
//
// Ciphers (all used as stream ciphers; block ciphers run in CTR mode):
//   - AES-256, Serpent (default), Twofish, CAST5, Blowfish, XTEA, 3DES
//   - XChaCha20
//
// Integrity codes: HMAC-SHA256, keyed BLAKE2b-256 (default).
//
// Compression: zlib (default) and Zstandard, at levels none, fast, good
// and best (default).
//
// Every frame uses fresh cipher and integrity keys expanded from the
// master secret with HKDF-SHA256, salted by the frame's random IV.
//
// # Basic Usage
//
//	ctx, err := gringotts.NewDefaultContext([]byte("MYAPP"))
//	if err != nil {
//	    panic(err)
//	}
//
//	key, err := gringotts.DeriveKey([]byte("my-secure-password"))
//	if err != nil {
//	    panic(err)
//	}
//	defer key.Destroy()
//
//	frame, err := ctx.EncryptMem(key, []byte("attack at dawn"))
//	plain, err := ctx.DecryptMem(key, frame)
//
// The same operations exist for paths (EncryptFile, DecryptFile), open
// files (EncryptTo, DecryptFrom) and scratch storage (NewTmpFile).
//
// # Errors
//
// Failures are reported as *ValidationError, *IOError, *FormatError,
// *IntegrityError, *CryptoError or *ResourceError, each wrapping a sentinel
// such as ErrMagicMismatch or ErrIntegrity. CodeOf maps any error to a
// stable negative integer code. A wrong key and a tampered frame both
// yield ErrIntegrity.
//
// # Security Considerations
//
// Decoding never returns partial plaintext. Derived keys and intermediate
// buffers are cleared on every return path; with SecurityParanoid they are
// overwritten with random bytes first. Go's garbage collector may still
// hold copies of data that has moved, so this is best effort.
//
// Contexts, keys and temporary files are not safe for concurrent use.
package gringotts
