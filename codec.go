package gringotts

import (
	"bytes"
	"crypto/hmac"
	"encoding/binary"
	"fmt"

	"github.com/sirupsen/logrus"
)

// encode compresses, authenticates and encrypts plaintext into a frame
func (c *Context) encode(key *Key, plaintext []byte) ([]byte, error) {
	if err := key.check(); err != nil {
		return nil, err
	}
	if int64(len(plaintext)) > c.maxSize {
		return nil, &ResourceError{
			Resource: "memory",
			Message:  fmt.Sprintf("plaintext of %s exceeds budget of %s", sizeField(len(plaintext)), sizeField(int(c.maxSize))),
			Err:      ErrDataTooLarge,
		}
	}

	algos := c.Algorithms()
	algoByte := algos.Pack()

	body, err := c.compressBody(algos, plaintext)
	if err != nil {
		return nil, err
	}
	defer wipe(c.security, body)

	iv, err := GenerateIV(algos.Cipher)
	if err != nil {
		return nil, cryptoErr("encrypt", algos.Cipher.String(), ErrEncryptionInit, err)
	}
	keySize, _ := KeySize(algos.Cipher)
	encKey, macKey, err := key.frameKeys(FormatVersion, algoByte, iv, keySize)
	if err != nil {
		if IsResourceError(err) {
			return nil, err
		}
		return nil, cryptoErr("encrypt", algos.Cipher.String(), ErrEncryptionInit, err)
	}
	defer wipe(c.security, encKey, macKey)

	mac, err := computeMAC(algos.Hash, macKey, FormatVersion, algoByte, iv, body)
	if err != nil {
		return nil, cryptoErr("encrypt", algos.Hash.String(), ErrEncryptionInit, err)
	}

	engine, err := NewCipherEngine(algos.Cipher, encKey)
	if err != nil {
		return nil, cryptoErr("encrypt", algos.Cipher.String(), ErrEncryptionInit, err)
	}
	defer releaseEngine(engine)

	ciphertext, err := engine.Encrypt(iv, body)
	if err != nil {
		return nil, cryptoErr("encrypt", algos.Cipher.String(), ErrEncryptionInit, err)
	}

	header := FrameHeader{
		Tag:        c.header,
		Version:    FormatVersion,
		Algorithms: algos,
		IV:         iv,
		MAC:        mac,
	}
	var out bytes.Buffer
	out.Grow(header.Size() + len(ciphertext))
	if _, err := header.WriteTo(&out); err != nil {
		return nil, err
	}
	out.Write(ciphertext)

	c.log().WithFields(frameFields(algos, len(plaintext), out.Len())).Debug("encoded frame")
	return out.Bytes(), nil
}

// compressBody returns the length-prefixed, possibly compressed payload
func (c *Context) compressBody(algos Algorithms, plaintext []byte) ([]byte, error) {
	payload := plaintext
	if algos.Level != LevelNone {
		comp, err := NewCompressor(algos.Comp)
		if err != nil {
			return nil, err
		}
		payload, err = comp.Compress(plaintext, algos.Level)
		if err != nil {
			return nil, cryptoErr("compress", algos.Comp.String(), ErrCompression, err)
		}
		defer wipe(c.security, payload)
	}

	body := make([]byte, lengthPrefixSize+len(payload))
	binary.BigEndian.PutUint32(body, uint32(len(plaintext)))
	copy(body[lengthPrefixSize:], payload)
	return body, nil
}

// decode verifies and decrypts a frame. The frame's own algorithm selection
// is used, not the context's. No plaintext is returned unless every check
// passes.
func (c *Context) decode(key *Key, frame []byte) (plaintext []byte, err error) {
	defer func() {
		if err != nil {
			c.log().WithFields(logrus.Fields{
				"kind":  errorKind(err),
				"frame": sizeField(len(frame)),
			}).Debug("decode failed")
		}
	}()

	h, ciphertext, err := parseFrame(c.header, frame)
	if err != nil {
		return nil, err
	}
	if err := key.check(); err != nil {
		return nil, err
	}
	algos := h.Algorithms

	keySize, _ := KeySize(algos.Cipher)
	encKey, macKey, err := key.frameKeys(h.Version, algos.Pack(), h.IV, keySize)
	if err != nil {
		if IsResourceError(err) {
			return nil, err
		}
		return nil, cryptoErr("decrypt", algos.Cipher.String(), ErrDecryptionInit, err)
	}
	defer wipe(c.security, encKey, macKey)

	engine, err := NewCipherEngine(algos.Cipher, encKey)
	if err != nil {
		return nil, cryptoErr("decrypt", algos.Cipher.String(), ErrDecryptionInit, err)
	}
	defer releaseEngine(engine)

	body, err := engine.Decrypt(h.IV, ciphertext)
	if err != nil {
		return nil, cryptoErr("decrypt", algos.Cipher.String(), ErrDecryptionInit, err)
	}
	defer wipe(c.security, body)

	expected, err := computeMAC(algos.Hash, macKey, h.Version, algos.Pack(), h.IV, body)
	if err != nil {
		return nil, cryptoErr("decrypt", algos.Hash.String(), ErrDecryptionInit, err)
	}
	if !hmac.Equal(expected, h.MAC) {
		return nil, &IntegrityError{Message: "integrity code mismatch", Err: ErrIntegrity}
	}

	size := int64(binary.BigEndian.Uint32(body))
	if size > c.maxSize {
		return nil, &ResourceError{
			Resource: "memory",
			Message:  fmt.Sprintf("frame declares %s, budget is %s", sizeField(int(size)), sizeField(int(c.maxSize))),
			Err:      ErrDataTooLarge,
		}
	}

	payload := body[lengthPrefixSize:]
	if algos.Level == LevelNone {
		if int64(len(payload)) != size {
			return nil, cryptoErr("decompress", "none", ErrDecompression,
				fmt.Errorf("stored %d bytes, expected %d", len(payload), size))
		}
		plaintext = append(make([]byte, 0, len(payload)), payload...)
	} else {
		comp, err := NewCompressor(algos.Comp)
		if err != nil {
			return nil, err
		}
		plaintext, err = comp.Decompress(payload, int(size))
		if err != nil {
			return nil, cryptoErr("decompress", algos.Comp.String(), ErrDecompression, err)
		}
	}

	c.log().WithFields(frameFields(algos, len(plaintext), len(frame))).Debug("decoded frame")
	return plaintext, nil
}

// validateFrame checks the cleartext header of a frame without decrypting
func (c *Context) validateFrame(frame []byte) (*FrameHeader, error) {
	h, _, err := parseFrame(c.header, frame)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// updateFrom adopts the algorithm selection recorded in frame
func (c *Context) updateFrom(frame []byte) error {
	h, err := c.validateFrame(frame)
	if err != nil {
		return err
	}
	if err := c.SetAlgorithms(h.Algorithms); err != nil {
		return err
	}
	c.log().Debug("context updated from frame")
	return nil
}

func computeMAC(algo HashAlgo, key []byte, version, algoByte byte, iv, body []byte) ([]byte, error) {
	spec, ok := hashTable[algo]
	if !ok {
		return nil, unsupported("hash", algo)
	}
	m, err := spec.newMAC(key)
	if err != nil {
		return nil, err
	}
	m.Write([]byte{version, algoByte})
	m.Write(iv)
	m.Write(body)
	return m.Sum(nil), nil
}

type wiper interface {
	Wipe()
}

func releaseEngine(e CipherEngine) {
	if w, ok := e.(wiper); ok {
		w.Wipe()
	}
}
