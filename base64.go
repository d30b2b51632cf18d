package gringotts

import (
	"bytes"
	"encoding/base64"
)

// Encode64 encodes data with the standard padded base64 alphabet and no
// line wrapping
func Encode64(data []byte) []byte {
	out := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
	base64.StdEncoding.Encode(out, data)
	return out
}

// Decode64 reverses Encode64. Characters outside the alphabet, line breaks
// and bad padding are rejected with ErrMalformedInput.
func Decode64(text []byte) ([]byte, error) {
	// the standard decoder silently skips CR and LF
	if bytes.ContainsAny(text, "\r\n") {
		return nil, &ValidationError{Field: "base64", Message: "line breaks are not allowed", Err: ErrMalformedInput}
	}
	out := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Strict().Decode(out, text)
	if err != nil {
		return nil, &ValidationError{Field: "base64", Message: err.Error(), Err: ErrMalformedInput}
	}
	return out[:n], nil
}
