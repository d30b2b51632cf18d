package gringotts

import (
	"fmt"
)

// Input validation helpers shared by the codec and the storage adapters

// MaxHeaderSize is the longest header tag a Context accepts
const MaxHeaderSize = 255

// ValidateHeader checks that a header tag is between 1 and MaxHeaderSize bytes
func ValidateHeader(header []byte) error {
	if len(header) == 0 || len(header) > MaxHeaderSize {
		return &ValidationError{
			Field:   "header",
			Value:   len(header),
			Message: fmt.Sprintf("header tag must be 1 to %d bytes, got %d", MaxHeaderSize, len(header)),
			Err:     ErrInvalidHeader,
		}
	}
	return nil
}

// ValidateBuffer checks if a buffer is non-nil and at least minSize bytes
func ValidateBuffer(buf []byte, name string, minSize int) error {
	if buf == nil {
		return &ValidationError{
			Field:   name,
			Message: "buffer cannot be nil",
		}
	}
	if minSize > 0 && len(buf) < minSize {
		return &ValidationError{
			Field:   name,
			Value:   len(buf),
			Message: fmt.Sprintf("buffer too small: got %d bytes, need at least %d bytes", len(buf), minSize),
		}
	}
	return nil
}

// ValidateSize checks if a size parameter is within [minSize, maxSize].
// A maxSize of zero or less means no upper bound.
func ValidateSize(size int64, name string, minSize, maxSize int64) error {
	if size < 0 {
		return &ValidationError{
			Field:   name,
			Value:   size,
			Message: "size cannot be negative",
		}
	}
	if size < minSize {
		return &ValidationError{
			Field:   name,
			Value:   size,
			Message: fmt.Sprintf("size too small: got %d, minimum is %d", size, minSize),
		}
	}
	if maxSize > 0 && size > maxSize {
		return &ValidationError{
			Field:   name,
			Value:   size,
			Message: fmt.Sprintf("size too large: got %d, maximum is %d", size, maxSize),
		}
	}
	return nil
}

// ValidateIV checks that an IV has the right length for a cipher
func ValidateIV(iv []byte, algo CipherAlgo) error {
	if iv == nil {
		return &ValidationError{
			Field:   "iv",
			Message: "IV cannot be nil",
		}
	}

	expectedSize, err := BlockSize(algo)
	if err != nil {
		return err
	}

	if len(iv) != expectedSize {
		return &ValidationError{
			Field:   "iv",
			Value:   len(iv),
			Message: fmt.Sprintf("invalid IV size: got %d bytes, expected %d bytes for %s", len(iv), expectedSize, algo),
		}
	}

	return nil
}

// ValidateKey checks if raw key material has the correct size
func ValidateKey(key []byte, expectedSize int) error {
	if key == nil {
		return &ValidationError{
			Field:   "key",
			Message: "key cannot be nil",
		}
	}

	if len(key) != expectedSize {
		return &ValidationError{
			Field:   "key",
			Value:   len(key),
			Message: fmt.Sprintf("invalid key size: got %d bytes, expected %d bytes", len(key), expectedSize),
		}
	}

	return nil
}

// ValidateFilePath checks if a file path is valid (not empty)
func ValidateFilePath(path string) error {
	if path == "" {
		return &ValidationError{
			Field:   "path",
			Message: "file path cannot be empty",
		}
	}
	return nil
}
