package gringotts

import (
	"bytes"
	"fmt"
	"io"
)

const (
	// FormatVersion is the current frame format version
	FormatVersion = uint8(1)

	// lengthPrefixSize is the size of the encrypted plaintext length field
	lengthPrefixSize = 4
)

// FrameHeader is the cleartext part of an encoded frame:
//
//	[tag][version][algorithms][IV][integrity code]
//
// It is followed by the ciphertext of a 4-byte big-endian plaintext
// length and the compressed data.
type FrameHeader struct {
	Tag        []byte     // Header tag identifying the producing application
	Version    uint8      // Frame format version
	Algorithms Algorithms // Algorithms the frame was encoded with
	IV         []byte     // IV for the cipher
	MAC        []byte     // Integrity code
}

// Size returns the total size of the header in bytes
func (h *FrameHeader) Size() int {
	return len(h.Tag) + 2 + len(h.IV) + len(h.MAC)
}

// WriteTo writes the header to the given writer
func (h *FrameHeader) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 0, h.Size())
	buf = append(buf, h.Tag...)
	buf = append(buf, h.Version, h.Algorithms.Pack())
	buf = append(buf, h.IV...)
	buf = append(buf, h.MAC...)

	n, err := w.Write(buf)
	return int64(n), err
}

// Validate checks the header fields against the registry
func (h *FrameHeader) Validate() error {
	if err := ValidateHeader(h.Tag); err != nil {
		return err
	}
	if h.Version != FormatVersion {
		return formatErr(len(h.Tag), ErrUnsupportedVersion, fmt.Sprintf("version %d", h.Version))
	}
	if err := h.Algorithms.Validate(); err != nil {
		return err
	}
	if err := ValidateIV(h.IV, h.Algorithms.Cipher); err != nil {
		return err
	}
	macSize, _ := IntegritySize(h.Algorithms.Hash)
	if err := ValidateBuffer(h.MAC, "mac", macSize); err != nil {
		return err
	}
	if len(h.MAC) != macSize {
		return NewValidationError("mac", len(h.MAC), fmt.Sprintf("integrity code must be %d bytes", macSize))
	}
	return nil
}

// parseFrame splits frame into its header and ciphertext. The tag and
// version are checked before anything else is looked at. The returned
// header aliases frame.
func parseFrame(tag, frame []byte) (*FrameHeader, []byte, error) {
	if !bytes.HasPrefix(frame, tag) {
		if len(frame) < len(tag) && bytes.HasPrefix(tag, frame) {
			return nil, nil, formatErr(len(frame), ErrTruncatedFrame, "frame shorter than header tag")
		}
		return nil, nil, formatErr(0, ErrMagicMismatch, "header tag does not match")
	}
	off := len(tag)

	if len(frame) < off+2 {
		return nil, nil, formatErr(len(frame), ErrTruncatedFrame, "missing version or algorithm byte")
	}
	if frame[off] != FormatVersion {
		return nil, nil, formatErr(off, ErrUnsupportedVersion, fmt.Sprintf("version %d", frame[off]))
	}
	algos, err := UnpackAlgorithms(frame[off+1])
	if err != nil {
		return nil, nil, formatErr(off+1, err, fmt.Sprintf("invalid algorithm byte 0x%02x", frame[off+1]))
	}
	off += 2

	ivSize, _ := BlockSize(algos.Cipher)
	macSize, _ := IntegritySize(algos.Hash)
	if len(frame) < off+ivSize+macSize+lengthPrefixSize {
		return nil, nil, formatErr(len(frame), ErrTruncatedFrame, "frame too short for its algorithms")
	}

	h := &FrameHeader{
		Tag:        frame[:len(tag)],
		Version:    FormatVersion,
		Algorithms: algos,
		IV:         frame[off : off+ivSize],
		MAC:        frame[off+ivSize : off+ivSize+macSize],
	}
	return h, frame[off+ivSize+macSize:], nil
}

// ReadFrameHeader parses and validates the cleartext header of frame
// without decrypting anything.
func ReadFrameHeader(tag, frame []byte) (*FrameHeader, error) {
	if err := ValidateHeader(tag); err != nil {
		return nil, err
	}
	h, _, err := parseFrame(tag, frame)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// FrameOverhead returns the number of bytes a frame adds to its compressed
// payload for the given header length and algorithms.
func FrameOverhead(headerLen int, a Algorithms) (int, error) {
	ivSize, err := BlockSize(a.Cipher)
	if err != nil {
		return 0, err
	}
	macSize, err := IntegritySize(a.Hash)
	if err != nil {
		return 0, err
	}
	return headerLen + 2 + ivSize + macSize + lengthPrefixSize, nil
}
