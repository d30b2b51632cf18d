package gringotts

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Compressor is a reversible byte transform selected by a CompAlgo
type Compressor interface {
	// Compress compresses data at the given level. Level is never LevelNone.
	Compress(data []byte, level CompLevel) ([]byte, error)

	// Decompress expands data that is expected to hold exactly size bytes
	Decompress(data []byte, size int) ([]byte, error)
}

// NewCompressor returns the compressor for algo
func NewCompressor(algo CompAlgo) (Compressor, error) {
	switch algo {
	case CompZlib:
		return zlibCompressor{}, nil
	case CompZstd:
		return zstdCompressor{}, nil
	default:
		return nil, unsupported("compression", algo)
	}
}

type zlibCompressor struct{}

func (zlibCompressor) Compress(data []byte, level CompLevel) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, int(level)*3)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (zlibCompressor) Decompress(data []byte, size int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out := make([]byte, size)
	if _, err := io.ReadFull(r, out); err != nil {
		clear(out)
		return nil, fmt.Errorf("decompressed fewer than %d bytes: %w", size, err)
	}
	// the stream must end exactly here
	var extra [1]byte
	if _, err := io.ReadFull(r, extra[:]); err != io.EOF {
		clear(out)
		clear(extra[:])
		if err == nil {
			return nil, fmt.Errorf("decompressed more than %d bytes", size)
		}
		return nil, err
	}
	return out, nil
}

type zstdCompressor struct{}

func zstdLevel(level CompLevel) zstd.EncoderLevel {
	switch level {
	case LevelFast:
		return zstd.SpeedFastest
	case LevelGood:
		return zstd.SpeedDefault
	default:
		return zstd.SpeedBestCompression
	}
}

func (zstdCompressor) Compress(data []byte, level CompLevel) ([]byte, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstdLevel(level)),
		zstd.WithEncoderConcurrency(1),
		zstd.WithZeroFrames(true))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func (zstdCompressor) Decompress(data []byte, size int) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, make([]byte, 0, size))
	if err != nil {
		return nil, err
	}
	if len(out) != size {
		clear(out)
		return nil, fmt.Errorf("decompressed %d bytes, expected %d", len(out), size)
	}
	return out, nil
}
