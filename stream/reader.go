package stream

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// MaxStringLen bounds the length prefix accepted by ReadString. A prefix
// beyond this limit is treated as corruption rather than an allocation
// request.
const MaxStringLen = 16 * 1024 * 1024

// Reader wraps an io.Reader and tracks the cumulative number of bytes
// consumed through it. It is not safe for concurrent use.
type Reader struct {
	r       io.Reader
	scratch [1]byte
	read    uint64
}

// NewReader creates a counting Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// BytesRead returns the cumulative number of bytes consumed so far.
func (sr *Reader) BytesRead() uint64 {
	return sr.read
}

// Read reads raw bytes from the underlying reader.
func (sr *Reader) Read(p []byte) (int, error) {
	n, err := sr.r.Read(p)
	sr.read += uint64(n)
	return n, err
}

// ReadByte reads a single byte. It satisfies io.ByteReader so the varint
// helpers in encoding/binary can consume from this Reader directly.
func (sr *Reader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(sr, sr.scratch[:]); err != nil {
		return 0, err
	}
	return sr.scratch[0], nil
}

// ReadString reads a uvarint length prefix followed by that many bytes.
func (sr *Reader) ReadString() (string, error) {
	length, err := sr.ReadUvarint64()
	if err != nil {
		return "", fmt.Errorf("failed to read string length: %w", err)
	}
	if length > MaxStringLen {
		return "", fmt.Errorf("string length %d exceeds limit %d", length, MaxStringLen)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(sr, buf); err != nil {
		return "", fmt.Errorf("failed to read string bytes: %w", err)
	}
	return string(buf), nil
}

// ReadVarint64 reads a zig-zag encoded signed varint.
func (sr *Reader) ReadVarint64() (int64, error) {
	return binary.ReadVarint(sr)
}

// ReadVarint32 reads a zig-zag encoded signed varint and checks it fits in
// 32 bits.
func (sr *Reader) ReadVarint32() (int32, error) {
	v, err := binary.ReadVarint(sr)
	if err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("varint value %d overflows int32", v)
	}
	return int32(v), nil
}

// ReadUvarint64 reads an unsigned varint.
func (sr *Reader) ReadUvarint64() (uint64, error) {
	return binary.ReadUvarint(sr)
}

// ReadUvarint32 reads an unsigned varint and checks it fits in 32 bits.
func (sr *Reader) ReadUvarint32() (uint32, error) {
	v, err := binary.ReadUvarint(sr)
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("uvarint value %d overflows uint32", v)
	}
	return uint32(v), nil
}
