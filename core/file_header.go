package core

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// FileHeader is a fixed-layout preamble for all persistent block files.
// It is written with encoding/binary so its size is stable across builds.
type FileHeader struct {
	Magic       uint32
	Version     uint8
	CreatedAt   int64 // UnixNano timestamp
	Compression CompressionType
}

// NewFileHeader creates a new header with the current time and the given
// compression tag.
func NewFileHeader(compression CompressionType) FileHeader {
	return FileHeader{
		Magic:       BlockMagicNumber,
		Version:     FormatVersion,
		CreatedAt:   time.Now().UnixNano(),
		Compression: compression,
	}
}

// Size returns the encoded size of the header in bytes.
func (h *FileHeader) Size() int {
	return binary.Size(h)
}

// Encode writes the header to w in little-endian layout.
func (h *FileHeader) Encode(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("failed to write file header: %w", err)
	}
	return nil
}

// ReadFileHeader reads and validates a FileHeader from r. The magic number
// and format version must match this build.
func ReadFileHeader(r io.Reader) (FileHeader, error) {
	var h FileHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return FileHeader{}, fmt.Errorf("failed to read file header: %w", err)
	}
	if h.Magic != BlockMagicNumber {
		return FileHeader{}, fmt.Errorf("got magic %08x: %w", h.Magic, ErrInvalidMagic)
	}
	if h.Version != FormatVersion {
		return FileHeader{}, &UnsupportedVersionError{Version: h.Version}
	}
	return h, nil
}
