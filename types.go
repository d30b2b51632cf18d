package gringotts

import (
	"fmt"
	"strings"
)

// CipherAlgo identifies the symmetric cipher used to encrypt a frame.
// The value occupies bits 4-6 of the algorithm selector byte.
type CipherAlgo uint8

const (
	// CipherAES uses AES-256 (Rijndael with a 128-bit block) in CTR mode
	CipherAES CipherAlgo = 0x00
	// CipherSerpent uses Serpent-256 in CTR mode (default)
	CipherSerpent CipherAlgo = 0x10
	// CipherTwofish uses Twofish-256 in CTR mode
	CipherTwofish CipherAlgo = 0x20
	// CipherCAST5 uses CAST5 (CAST-128) in CTR mode
	CipherCAST5 CipherAlgo = 0x30
	// CipherBlowfish uses Blowfish with a 256-bit key in CTR mode
	CipherBlowfish CipherAlgo = 0x40
	// CipherXTEA uses XTEA in CTR mode
	CipherXTEA CipherAlgo = 0x50
	// Cipher3DES uses Triple DES (EDE3) in CTR mode
	Cipher3DES CipherAlgo = 0x60
	// CipherXChaCha20 uses the XChaCha20 stream cipher
	CipherXChaCha20 CipherAlgo = 0x70

	// CipherRijndael128 is an alias for CipherAES
	CipherRijndael128 = CipherAES
)

// HashAlgo identifies the keyed hash used for the integrity code.
// The value occupies bit 3 of the algorithm selector byte.
type HashAlgo uint8

const (
	// HashSHA256 computes the integrity code with HMAC-SHA256
	HashSHA256 HashAlgo = 0x00
	// HashBLAKE2b computes the integrity code with keyed BLAKE2b-256 (default)
	HashBLAKE2b HashAlgo = 0x08
)

// CompAlgo identifies the compression algorithm.
// The value occupies bit 2 of the algorithm selector byte.
type CompAlgo uint8

const (
	// CompZlib compresses with zlib (default)
	CompZlib CompAlgo = 0x00
	// CompZstd compresses with Zstandard
	CompZstd CompAlgo = 0x04
)

// CompLevel is the compression ratio, bits 0-1 of the selector byte.
type CompLevel uint8

const (
	// LevelNone stores data uncompressed
	LevelNone CompLevel = 0x00
	// LevelFast favours speed over ratio
	LevelFast CompLevel = 0x01
	// LevelGood balances speed and ratio
	LevelGood CompLevel = 0x02
	// LevelBest favours ratio over speed (default)
	LevelBest CompLevel = 0x03
)

// SecurityLevel controls how aggressively transient secrets are wiped.
// It is not stored in frames.
type SecurityLevel uint8

const (
	// SecurityNormal zeroes secrets on release (default)
	SecurityNormal SecurityLevel = iota
	// SecurityParanoid overwrites secrets with random data, then zeroes them
	SecurityParanoid
)

// Defaults used by NewDefaultContext and DefaultConfig.
const (
	DefaultCipher   = CipherSerpent
	DefaultHash     = HashBLAKE2b
	DefaultComp     = CompZlib
	DefaultLevel    = LevelBest
	DefaultSecurity = SecurityNormal
)

var cipherNames = map[CipherAlgo]string{
	CipherAES:       "aes",
	CipherSerpent:   "serpent",
	CipherTwofish:   "twofish",
	CipherCAST5:     "cast5",
	CipherBlowfish:  "blowfish",
	CipherXTEA:      "xtea",
	Cipher3DES:      "3des",
	CipherXChaCha20: "xchacha20",
}

var hashNames = map[HashAlgo]string{
	HashSHA256:  "sha256",
	HashBLAKE2b: "blake2b",
}

var compNames = map[CompAlgo]string{
	CompZlib: "zlib",
	CompZstd: "zstd",
}

var levelNames = map[CompLevel]string{
	LevelNone: "none",
	LevelFast: "fast",
	LevelGood: "good",
	LevelBest: "best",
}

var securityNames = map[SecurityLevel]string{
	SecurityNormal:   "normal",
	SecurityParanoid: "paranoid",
}

// String returns the string representation of the cipher
func (c CipherAlgo) String() string {
	if name, ok := cipherNames[c]; ok {
		return name
	}
	return fmt.Sprintf("cipher(0x%02x)", uint8(c))
}

// Valid reports whether c is one of the supported cipher tags
func (c CipherAlgo) Valid() bool {
	_, ok := cipherNames[c]
	return ok
}

// String returns the string representation of the hash
func (h HashAlgo) String() string {
	if name, ok := hashNames[h]; ok {
		return name
	}
	return fmt.Sprintf("hash(0x%02x)", uint8(h))
}

// Valid reports whether h is one of the supported hash tags
func (h HashAlgo) Valid() bool {
	_, ok := hashNames[h]
	return ok
}

// String returns the string representation of the compression algorithm
func (c CompAlgo) String() string {
	if name, ok := compNames[c]; ok {
		return name
	}
	return fmt.Sprintf("comp(0x%02x)", uint8(c))
}

// Valid reports whether c is one of the supported compression tags
func (c CompAlgo) Valid() bool {
	_, ok := compNames[c]
	return ok
}

// String returns the string representation of the compression level
func (l CompLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(0x%02x)", uint8(l))
}

// Valid reports whether l is one of the supported compression levels
func (l CompLevel) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

// String returns the string representation of the security level
func (s SecurityLevel) String() string {
	if name, ok := securityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("security(%d)", uint8(s))
}

// Valid reports whether s is one of the supported security levels
func (s SecurityLevel) Valid() bool {
	_, ok := securityNames[s]
	return ok
}

func lookup[T comparable](names map[T]string, field, s string) (T, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for v, name := range names {
		if name == want {
			return v, nil
		}
	}
	var zero T
	return zero, &ValidationError{
		Field:   field,
		Value:   s,
		Message: "unknown algorithm name",
		Err:     ErrUnsupportedAlgorithm,
	}
}

// ParseCipher returns the cipher tag with the given name
func ParseCipher(s string) (CipherAlgo, error) {
	if strings.EqualFold(strings.TrimSpace(s), "rijndael-128") {
		return CipherAES, nil
	}
	return lookup(cipherNames, "cipher", s)
}

// ParseHash returns the hash tag with the given name
func ParseHash(s string) (HashAlgo, error) {
	return lookup(hashNames, "hash", s)
}

// ParseComp returns the compression tag with the given name
func ParseComp(s string) (CompAlgo, error) {
	return lookup(compNames, "compression", s)
}

// ParseLevel returns the compression level with the given name
func ParseLevel(s string) (CompLevel, error) {
	return lookup(levelNames, "level", s)
}

// ParseSecurity returns the security level with the given name
func ParseSecurity(s string) (SecurityLevel, error) {
	return lookup(securityNames, "security", s)
}

// UnmarshalYAML decodes a cipher name
func (c *CipherAlgo) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseCipher(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// MarshalYAML encodes the cipher by name
func (c CipherAlgo) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// UnmarshalYAML decodes a hash name
func (h *HashAlgo) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseHash(s)
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// MarshalYAML encodes the hash by name
func (h HashAlgo) MarshalYAML() (interface{}, error) {
	return h.String(), nil
}

// UnmarshalYAML decodes a compression algorithm name
func (c *CompAlgo) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseComp(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// MarshalYAML encodes the compression algorithm by name
func (c CompAlgo) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// UnmarshalYAML decodes a compression level name
func (l *CompLevel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// MarshalYAML encodes the compression level by name
func (l CompLevel) MarshalYAML() (interface{}, error) {
	return l.String(), nil
}

// UnmarshalYAML decodes a security level name
func (s *SecurityLevel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	v, err := ParseSecurity(name)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalYAML encodes the security level by name
func (s SecurityLevel) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// Algorithms is the set of algorithm choices recorded in a frame. In a
// frame it is packed into a single selector byte; see Pack and
// UnpackAlgorithms.
type Algorithms struct {
	Cipher CipherAlgo
	Hash   HashAlgo
	Comp   CompAlgo
	Level  CompLevel
}

const (
	cipherMask   = 0x70
	hashMask     = 0x08
	compMask     = 0x04
	levelMask    = 0x03
	reservedMask = 0x80
)

// Validate checks that every tag belongs to its closed set
func (a Algorithms) Validate() error {
	switch {
	case !a.Cipher.Valid():
		return &ValidationError{Field: "cipher", Value: a.Cipher, Message: "unsupported cipher", Err: ErrUnsupportedAlgorithm}
	case !a.Hash.Valid():
		return &ValidationError{Field: "hash", Value: a.Hash, Message: "unsupported hash", Err: ErrUnsupportedAlgorithm}
	case !a.Comp.Valid():
		return &ValidationError{Field: "compression", Value: a.Comp, Message: "unsupported compression", Err: ErrUnsupportedAlgorithm}
	case !a.Level.Valid():
		return &ValidationError{Field: "level", Value: a.Level, Message: "unsupported compression level", Err: ErrUnsupportedAlgorithm}
	}
	return nil
}

// Pack returns the selector byte for a. The receiver must be valid.
func (a Algorithms) Pack() byte {
	return byte(a.Cipher)&cipherMask | byte(a.Hash)&hashMask | byte(a.Comp)&compMask | byte(a.Level)&levelMask
}

// UnpackAlgorithms decodes a selector byte. Only the reserved high bit can
// make a selector invalid.
func UnpackAlgorithms(b byte) (Algorithms, error) {
	if b&reservedMask != 0 {
		return Algorithms{}, ErrUnsupportedAlgorithm
	}
	return Algorithms{
		Cipher: CipherAlgo(b & cipherMask),
		Hash:   HashAlgo(b & hashMask),
		Comp:   CompAlgo(b & compMask),
		Level:  CompLevel(b & levelMask),
	}, nil
}

// String returns a human readable form such as "serpent/blake2b/zlib:best"
func (a Algorithms) String() string {
	return fmt.Sprintf("%s/%s/%s:%s", a.Cipher, a.Hash, a.Comp, a.Level)
}
