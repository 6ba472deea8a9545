package core

import (
	"bytes"
	"io"
)

// CompressionType identifies the compression algorithm applied to a block
// payload. The tag is stored in the file header so readers know how to
// decompress without out-of-band configuration.
type CompressionType byte

const (
	CompressionNone   CompressionType = 0
	CompressionSnappy CompressionType = 1
	CompressionLZ4    CompressionType = 2
	CompressionZSTD   CompressionType = 3
)

// Compressor defines the interface for payload compression algorithms.
type Compressor interface {
	// Compress compresses the input data into a new slice.
	Compress(data []byte) ([]byte, error)
	// CompressTo compresses src into dst, resetting dst first.
	CompressTo(dst *bytes.Buffer, src []byte) error
	// Decompress returns a reader over the decompressed data.
	Decompress(data []byte) (io.ReadCloser, error)
	// Type returns the CompressionType identifier for this compressor.
	Type() CompressionType
}

// String returns the string representation of the CompressionType.
func (ct CompressionType) String() string {
	switch ct {
	case CompressionNone:
		return "none"
	case CompressionSnappy:
		return "snappy"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return "unknown"
	}
}

// ParseCompressionType maps a config string to a CompressionType.
func ParseCompressionType(s string) (CompressionType, bool) {
	switch s {
	case "", "none":
		return CompressionNone, true
	case "snappy":
		return CompressionSnappy, true
	case "lz4":
		return CompressionLZ4, true
	case "zstd":
		return CompressionZSTD, true
	default:
		return CompressionNone, false
	}
}
