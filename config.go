package gringotts

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Config describes a Context in a form that can be loaded from YAML.
//
//	header: my-app
//	cipher: serpent
//	hash: blake2b
//	compression: zstd
//	level: good
//	security: paranoid
//	max_size: 64MiB
type Config struct {
	// Header is the tag written at the start of every frame
	Header string `yaml:"header"`

	Cipher      CipherAlgo    `yaml:"cipher"`
	Hash        HashAlgo      `yaml:"hash"`
	Compression CompAlgo      `yaml:"compression"`
	Level       CompLevel     `yaml:"level"`
	Security    SecurityLevel `yaml:"security"`

	// MaxSize is the plaintext size budget in humanized form ("512MB",
	// "4GiB"). Empty means DefaultMaxSize.
	MaxSize string `yaml:"max_size,omitempty"`

	// Logger receives the context's log output; nil uses DefaultLogger
	Logger *logrus.Logger `yaml:"-"`

	// Filer backs the path adapters and temporary files; nil uses the OS
	Filer Filer `yaml:"-"`
}

// DefaultConfig returns the configuration of NewDefaultContext
func DefaultConfig(header string) *Config {
	return &Config{
		Header:      header,
		Cipher:      DefaultCipher,
		Hash:        DefaultHash,
		Compression: DefaultComp,
		Level:       DefaultLevel,
		Security:    DefaultSecurity,
	}
}

// ParseConfig decodes YAML on top of DefaultConfig, so omitted fields keep
// their defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig("")
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewIOError("read", path, err)
	}
	return ParseConfig(data)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c == nil {
		return NewValidationError("config", nil, "config cannot be nil")
	}
	if err := ValidateHeader([]byte(c.Header)); err != nil {
		return err
	}
	algos := Algorithms{Cipher: c.Cipher, Hash: c.Hash, Comp: c.Compression, Level: c.Level}
	if err := algos.Validate(); err != nil {
		return err
	}
	if !c.Security.Valid() {
		return unsupported("security", c.Security)
	}
	if _, err := c.maxSize(); err != nil {
		return err
	}
	return nil
}

func (c *Config) maxSize() (int64, error) {
	if c.MaxSize == "" {
		return DefaultMaxSize, nil
	}
	n, err := humanize.ParseBytes(c.MaxSize)
	if err != nil {
		return 0, &ValidationError{Field: "max_size", Value: c.MaxSize, Message: err.Error(), Err: err}
	}
	if n > uint64(DefaultMaxSize) {
		return 0, NewValidationError("max_size", c.MaxSize,
			fmt.Sprintf("size too large: maximum is %s", humanize.IBytes(uint64(DefaultMaxSize))))
	}
	return int64(n), nil
}

// NewContextFromConfig builds a Context from cfg
func NewContextFromConfig(cfg *Config) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx, err := NewContext([]byte(cfg.Header), cfg.Cipher, cfg.Hash, cfg.Compression, cfg.Level, cfg.Security)
	if err != nil {
		return nil, err
	}
	maxSize, _ := cfg.maxSize()
	if err := ctx.SetMaxSize(maxSize); err != nil {
		return nil, err
	}
	ctx.SetLogger(cfg.Logger)
	ctx.SetFiler(cfg.Filer)
	return ctx, nil
}
