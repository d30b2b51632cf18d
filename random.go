package gringotts

import (
	"crypto/rand"
)

// RandomBytes returns n bytes from the operating system CSPRNG
func RandomBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, NewValidationError("n", n, "length cannot be negative")
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, &ResourceError{Resource: "entropy", Message: err.Error(), Err: err}
	}
	return buf, nil
}

// RandomByte returns a single random byte
func RandomByte() (byte, error) {
	b, err := RandomBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}
