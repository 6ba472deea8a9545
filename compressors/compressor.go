// Package compressors provides the payload compression implementations
// behind the core.Compressor interface.
package compressors

import (
	"fmt"

	"github.com/perfdata/blockstore/core"
)

var zstdShared = NewZstdCompressor()

// GetCompressor returns the compressor for a stored compression tag.
func GetCompressor(ct core.CompressionType) (core.Compressor, error) {
	switch ct {
	case core.CompressionNone:
		return &NoCompressionCompressor{}, nil
	case core.CompressionSnappy:
		return &SnappyCompressor{}, nil
	case core.CompressionLZ4:
		return NewLz4Compressor(), nil
	case core.CompressionZSTD:
		// zstd keeps encoder/decoder pools, so it is shared.
		return zstdShared, nil
	default:
		return nil, fmt.Errorf("unknown compression type: %d", ct)
	}
}
