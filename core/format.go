package core

import (
	"fmt"
	"strconv"
	"strings"
)

// This file centralizes constants related to file formats, magic numbers,
// and other protocol-level identifiers used across the block store.

// --- Magic Numbers ---
const (
	// BlockMagicNumber identifies a persisted metric block file.
	BlockMagicNumber uint32 = 0x424C4B4D // "BLKM"
)

// --- Protocol & Format Versions ---
const (
	// FormatVersion is the current version for all persistent file formats.
	FormatVersion uint8 = 1
)

// --- File Names & Prefixes ---
const (
	// BlockFileSuffix is the suffix for persisted block files.
	BlockFileSuffix = ".blk"
	// TempFileSuffix marks a block file that has not been finished yet.
	TempFileSuffix = ".tmp"
)

// FormatBlockFileName creates a block file name from its sequence number.
func FormatBlockFileName(seq uint64) string {
	return fmt.Sprintf("%08d%s", seq, BlockFileSuffix)
}

// ParseBlockFileName extracts the sequence number from a block file name.
func ParseBlockFileName(name string) (uint64, error) {
	if !strings.HasSuffix(name, BlockFileSuffix) {
		return 0, fmt.Errorf("file %s is not a block file", name)
	}
	name = strings.TrimSuffix(name, BlockFileSuffix)
	return strconv.ParseUint(name, 10, 64)
}
