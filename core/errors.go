package core

import (
	"errors"
	"fmt"
)

var (
	// ErrCorrupted indicates a block file whose contents cannot be decoded.
	ErrCorrupted = errors.New("block data is corrupted")
	// ErrInvalidMagic indicates a file that is not a block file.
	ErrInvalidMagic = errors.New("invalid block file magic number")
	// ErrClosed is returned when operating on a closed reader or writer.
	ErrClosed = errors.New("block file is closed")
)

// UnsupportedVersionError is returned when a block file was written by a
// format version this build does not understand.
type UnsupportedVersionError struct {
	Version uint8
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported block format version: %d", e.Version)
}

// IsUnsupportedVersion checks if an error is an UnsupportedVersionError.
func IsUnsupportedVersion(err error) bool {
	var unsupported *UnsupportedVersionError
	return errors.As(err, &unsupported)
}
