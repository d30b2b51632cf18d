package gringotts

import (
	"math"

	"github.com/sirupsen/logrus"
)

// DefaultMaxSize is the largest plaintext a frame can describe
const DefaultMaxSize int64 = math.MaxUint32

// Context holds the algorithm selection and header tag used to encode
// frames. A Context is not safe for concurrent mutation.
type Context struct {
	header   []byte
	cipher   CipherAlgo
	hash     HashAlgo
	comp     CompAlgo
	level    CompLevel
	security SecurityLevel
	maxSize  int64
	fs       Filer
	logger   *logrus.Logger
}

// NewContext creates a context with the given header tag and algorithms.
// The header is copied.
func NewContext(header []byte, cipher CipherAlgo, hash HashAlgo, comp CompAlgo, level CompLevel, sec SecurityLevel) (*Context, error) {
	if err := ValidateHeader(header); err != nil {
		return nil, err
	}
	algos := Algorithms{Cipher: cipher, Hash: hash, Comp: comp, Level: level}
	if err := algos.Validate(); err != nil {
		return nil, err
	}
	if !sec.Valid() {
		return nil, unsupported("security", sec)
	}

	return &Context{
		header:   append([]byte(nil), header...),
		cipher:   cipher,
		hash:     hash,
		comp:     comp,
		level:    level,
		security: sec,
		maxSize:  DefaultMaxSize,
		fs:       OSFiler(),
		logger:   defaultLogger,
	}, nil
}

// NewDefaultContext creates a context with the default algorithms:
// Serpent, BLAKE2b, zlib at LevelBest and SecurityNormal.
func NewDefaultContext(header []byte) (*Context, error) {
	return NewContext(header, DefaultCipher, DefaultHash, DefaultComp, DefaultLevel, DefaultSecurity)
}

// Header returns a copy of the header tag
func (c *Context) Header() []byte {
	return append([]byte(nil), c.header...)
}

// Cipher returns the configured cipher
func (c *Context) Cipher() CipherAlgo { return c.cipher }

// Hash returns the configured integrity hash
func (c *Context) Hash() HashAlgo { return c.hash }

// Comp returns the configured compression algorithm
func (c *Context) Comp() CompAlgo { return c.comp }

// Level returns the configured compression level
func (c *Context) Level() CompLevel { return c.level }

// Security returns the configured security level
func (c *Context) Security() SecurityLevel { return c.security }

// MaxSize returns the largest plaintext the context will encode
func (c *Context) MaxSize() int64 { return c.maxSize }

// Filer returns the filesystem used by the path adapters and temporary files
func (c *Context) Filer() Filer { return c.fs }

// Logger returns the context's logger
func (c *Context) Logger() *logrus.Logger { return c.logger }

// Algorithms returns the current algorithm selection
func (c *Context) Algorithms() Algorithms {
	return Algorithms{Cipher: c.cipher, Hash: c.hash, Comp: c.comp, Level: c.level}
}

// SetCipher selects the cipher
func (c *Context) SetCipher(algo CipherAlgo) error {
	if !algo.Valid() {
		return unsupported("cipher", algo)
	}
	c.cipher = algo
	return nil
}

// SetHash selects the integrity hash
func (c *Context) SetHash(algo HashAlgo) error {
	if !algo.Valid() {
		return unsupported("hash", algo)
	}
	c.hash = algo
	return nil
}

// SetComp selects the compression algorithm
func (c *Context) SetComp(algo CompAlgo) error {
	if !algo.Valid() {
		return unsupported("compression", algo)
	}
	c.comp = algo
	return nil
}

// SetLevel selects the compression level
func (c *Context) SetLevel(level CompLevel) error {
	if !level.Valid() {
		return unsupported("level", level)
	}
	c.level = level
	return nil
}

// SetSecurity selects how transient secrets are wiped
func (c *Context) SetSecurity(sec SecurityLevel) error {
	if !sec.Valid() {
		return unsupported("security", sec)
	}
	c.security = sec
	return nil
}

// SetAlgorithms replaces the whole algorithm selection at once
func (c *Context) SetAlgorithms(a Algorithms) error {
	if err := a.Validate(); err != nil {
		return err
	}
	c.cipher, c.hash, c.comp, c.level = a.Cipher, a.Hash, a.Comp, a.Level
	return nil
}

// SetMaxSize sets the plaintext size budget. It cannot exceed DefaultMaxSize.
func (c *Context) SetMaxSize(n int64) error {
	if err := ValidateSize(n, "max_size", 0, DefaultMaxSize); err != nil {
		return err
	}
	c.maxSize = n
	return nil
}

// SetFiler replaces the filesystem used by the path adapters and temporary
// files. A nil Filer restores the operating system filesystem.
func (c *Context) SetFiler(fs Filer) {
	if fs == nil {
		fs = OSFiler()
	}
	c.fs = fs
}

// SetLogger replaces the context's logger. A nil logger restores the
// package default.
func (c *Context) SetLogger(l *logrus.Logger) {
	if l == nil {
		l = defaultLogger
	}
	c.logger = l
}

// KeySize returns the key length of the configured cipher
func (c *Context) KeySize() int {
	n, _ := KeySize(c.cipher)
	return n
}

// BlockSize returns the IV length of the configured cipher
func (c *Context) BlockSize() int {
	n, _ := BlockSize(c.cipher)
	return n
}

// IntegritySize returns the integrity code length of the configured hash
func (c *Context) IntegritySize() int {
	n, _ := IntegritySize(c.hash)
	return n
}

// Clone returns an independent copy of c
func (c *Context) Clone() *Context {
	clone := *c
	clone.header = append([]byte(nil), c.header...)
	return &clone
}
