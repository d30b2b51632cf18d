package gringotts

import (
	"errors"
	"fmt"
)

// Error types represent different categories of errors

// ValidationError represents a configuration or parameter validation error
type ValidationError struct {
	Field   string // The field or parameter that failed validation
	Value   any    // The invalid value
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IOError represents a storage backend failure
type IOError struct {
	Operation string // "read", "write", "open", "sync", "remove", etc.
	Path      string // File path, if applicable
	Message   string // Human-readable error message
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("io error: %s %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("io error: %s: %s", e.Operation, e.Message)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// FormatError reports a frame that is not in the expected layout: wrong
// header tag, unsupported version or truncated data.
type FormatError struct {
	Offset  int    // Byte offset into the frame where the problem was found
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error at offset %d: %s", e.Offset, e.Message)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IntegrityError means the integrity code did not verify. A wrong key and a
// corrupted frame produce the same error.
type IntegrityError struct {
	Message string
	Err     error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity error: %s", e.Message)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// CryptoError represents a failure of a cipher or compression primitive
type CryptoError struct {
	Operation string // "encrypt", "decrypt", "compress", "decompress"
	Algorithm string // Algorithm name, if known
	Message   string // Human-readable error message
	Err       error  // Underlying error
}

func (e *CryptoError) Error() string {
	if e.Algorithm != "" {
		return fmt.Sprintf("%s error (%s): %s", e.Operation, e.Algorithm, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Operation, e.Message)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// ResourceError reports exhaustion of a size budget or use of a released
// resource such as a destroyed key or a closed temporary file.
type ResourceError struct {
	Resource string // "key", "tmpfile", "memory"
	Message  string // Human-readable error message
	Err      error  // Underlying error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource error: %s: %s", e.Resource, e.Message)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// Sentinel errors. Typed errors wrap one of these so callers can match
// with errors.Is.
var (
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	ErrMagicMismatch        = errors.New("header tag mismatch")
	ErrUnsupportedVersion   = errors.New("unsupported frame format version")
	ErrTruncatedFrame       = errors.New("truncated frame")
	ErrIntegrity            = errors.New("integrity check failed - wrong key or corrupted data")
	ErrCompression          = errors.New("compression failed")
	ErrDecompression        = errors.New("decompression failed")
	ErrEncryptionInit       = errors.New("cannot initialise encryption")
	ErrDecryptionInit       = errors.New("cannot initialise decryption")
	ErrFileAccess           = errors.New("file access failed")
	ErrMalformedInput       = errors.New("malformed input")
	ErrAlreadyLinked        = errors.New("file has more than one link")
	ErrCannotOpen           = errors.New("cannot open file")
	ErrCannotMap            = errors.New("cannot map file")
	ErrDataTooLarge         = errors.New("data exceeds size budget")
	ErrKeyDestroyed         = errors.New("key has been destroyed")
	ErrTmpFileClosed        = errors.New("temporary file is closed")
	ErrTmpNotYetWritten     = errors.New("temporary file has not been written")
	ErrTmpNotWritable       = errors.New("temporary file is not writable")
	ErrEmptyPassword        = errors.New("password cannot be empty")
	ErrInvalidHeader        = errors.New("header tag must be 1 to 255 bytes")
)

// Numeric error codes, compatible with the codes reported by libgringotts.
const (
	CodeOK                     = 0
	CodeReadFile               = -1
	CodeWriteComp              = -2
	CodeReadMagic              = -3
	CodeWriteEncInit           = -4
	CodeReadCRC                = -5
	CodeWriteFile              = -6
	CodeReadPassword           = -7
	CodeReadEncInit            = -9
	CodeTmpNotWritable         = -10
	CodeReadUnsupportedVersion = -13
	CodeReadComp               = -15
	CodeTmpNotYetWritten       = -17
	CodeReadMmap               = -19
	CodeShredCannotOpen        = -51
	CodeShredAlreadyLinked     = -52
	CodeShredCannotMap         = -53
	CodeMemAllocation          = -71
	CodeArgument               = -72
)

var sentinelCodes = []struct {
	err  error
	code int
}{
	{ErrMagicMismatch, CodeReadMagic},
	{ErrTruncatedFrame, CodeReadMagic},
	{ErrUnsupportedVersion, CodeReadUnsupportedVersion},
	{ErrIntegrity, CodeReadCRC},
	{ErrCompression, CodeWriteComp},
	{ErrDecompression, CodeReadComp},
	{ErrEncryptionInit, CodeWriteEncInit},
	{ErrDecryptionInit, CodeReadEncInit},
	{ErrTmpNotWritable, CodeTmpNotWritable},
	{ErrTmpNotYetWritten, CodeTmpNotYetWritten},
	{ErrCannotOpen, CodeShredCannotOpen},
	{ErrAlreadyLinked, CodeShredAlreadyLinked},
	{ErrCannotMap, CodeShredCannotMap},
	{ErrDataTooLarge, CodeMemAllocation},
}

// CodeOf returns the numeric code for err. A nil error maps to CodeOK;
// errors outside the taxonomy map to CodeArgument.
func CodeOf(err error) int {
	if err == nil {
		return CodeOK
	}
	var ioe *IOError
	if errors.As(err, &ioe) && errors.Is(err, ErrFileAccess) {
		switch ioe.Operation {
		case "write", "create", "sync":
			return CodeWriteFile
		}
		return CodeReadFile
	}
	for _, sc := range sentinelCodes {
		if errors.Is(err, sc.err) {
			return sc.code
		}
	}
	return CodeArgument
}

// Helper functions for creating structured errors

// NewValidationError creates a new validation error
func NewValidationError(field string, value any, message string) error {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewIOError creates a new I/O error wrapping ErrFileAccess
func NewIOError(operation, path string, err error) error {
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   err.Error(),
		Err:       fmt.Errorf("%w: %w", ErrFileAccess, err),
	}
}

func formatErr(offset int, sentinel error, message string) error {
	return &FormatError{Offset: offset, Message: message, Err: sentinel}
}

func cryptoErr(op, algo string, sentinel, cause error) error {
	msg := sentinel.Error()
	err := sentinel
	if cause != nil {
		msg = cause.Error()
		err = fmt.Errorf("%w: %w", sentinel, cause)
	}
	return &CryptoError{Operation: op, Algorithm: algo, Message: msg, Err: err}
}

func resourceErr(resource string, sentinel error) error {
	return &ResourceError{Resource: resource, Message: sentinel.Error(), Err: sentinel}
}

// Error checking helpers

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsIOError checks if an error is an I/O error
func IsIOError(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}

// IsFormatError checks if an error is a frame format error
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsIntegrityError checks if an error is an integrity failure
func IsIntegrityError(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}

// IsCryptoError checks if an error is a cipher or compression failure
func IsCryptoError(err error) bool {
	var ce *CryptoError
	return errors.As(err, &ce)
}

// IsResourceError checks if an error is a resource error
func IsResourceError(err error) bool {
	var re *ResourceError
	return errors.As(err, &re)
}
