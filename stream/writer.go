// Package stream provides the primitive length-prefixed string and
// variable-length integer codec used by all persisted block records. Both
// the Writer and the Reader keep an exact running byte count so record
// codecs can account for the bytes they produce or consume.
package stream

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Writer wraps an io.Writer and tracks the cumulative number of bytes
// written through it. It is not safe for concurrent use.
type Writer struct {
	w       io.Writer
	scratch [binary.MaxVarintLen64]byte
	written uint64
}

// NewWriter creates a counting Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// BytesWritten returns the cumulative number of bytes written so far.
func (sw *Writer) BytesWritten() uint64 {
	return sw.written
}

// Write writes raw bytes through to the underlying writer.
func (sw *Writer) Write(p []byte) (int, error) {
	n, err := sw.w.Write(p)
	sw.written += uint64(n)
	if err != nil {
		return n, err
	}
	if n != len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// WriteByte writes a single byte.
func (sw *Writer) WriteByte(b byte) error {
	sw.scratch[0] = b
	_, err := sw.Write(sw.scratch[:1])
	return err
}

// WriteString writes a uvarint length prefix followed by the raw bytes of s.
func (sw *Writer) WriteString(s string) error {
	if err := sw.WriteUvarint64(uint64(len(s))); err != nil {
		return fmt.Errorf("failed to write string length: %w", err)
	}
	if _, err := io.WriteString(sw, s); err != nil {
		return fmt.Errorf("failed to write string bytes: %w", err)
	}
	return nil
}

// WriteVarint64 writes v as a zig-zag encoded signed varint.
func (sw *Writer) WriteVarint64(v int64) error {
	n := binary.PutVarint(sw.scratch[:], v)
	_, err := sw.Write(sw.scratch[:n])
	return err
}

// WriteVarint32 writes v as a zig-zag encoded signed varint.
func (sw *Writer) WriteVarint32(v int32) error {
	return sw.WriteVarint64(int64(v))
}

// WriteUvarint64 writes v as an unsigned varint.
func (sw *Writer) WriteUvarint64(v uint64) error {
	n := binary.PutUvarint(sw.scratch[:], v)
	_, err := sw.Write(sw.scratch[:n])
	return err
}

// WriteUvarint32 writes v as an unsigned varint.
func (sw *Writer) WriteUvarint32(v uint32) error {
	return sw.WriteUvarint64(uint64(v))
}
