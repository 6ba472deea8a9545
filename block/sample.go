package block

import (
	"fmt"
	"io"

	"github.com/perfdata/blockstore/stream"
)

// Sample is one payload element of a block. Timestamp is milliseconds since
// epoch. For hit-count blocks Value holds the counter; for histogram blocks
// Raw holds the variable-encoded histogram bytes and Value is unused.
type Sample struct {
	Timestamp int64
	Value     uint64
	Raw       []byte
}

// encodeTo writes the sample relative to the block's base timestamp.
// Timestamps are delta-encoded against the base so a block covering a short
// window costs one or two bytes per sample instead of six.
func (s Sample) encodeTo(w *stream.Writer, base int64, dataType DataType) error {
	if err := w.WriteVarint64(s.Timestamp - base); err != nil {
		return fmt.Errorf("failed to encode sample timestamp: %w", err)
	}
	switch dataType {
	case DataTypeVariableEncodedHistogram:
		if err := w.WriteUvarint64(uint64(len(s.Raw))); err != nil {
			return fmt.Errorf("failed to encode histogram length: %w", err)
		}
		if _, err := w.Write(s.Raw); err != nil {
			return fmt.Errorf("failed to encode histogram bytes: %w", err)
		}
	default:
		if err := w.WriteUvarint64(s.Value); err != nil {
			return fmt.Errorf("failed to encode sample value: %w", err)
		}
	}
	return nil
}

// decodeSample reads one sample relative to the block's base timestamp.
func decodeSample(r *stream.Reader, base int64, dataType DataType) (Sample, error) {
	delta, err := r.ReadVarint64()
	if err != nil {
		return Sample{}, fmt.Errorf("failed to decode sample timestamp: %w", err)
	}
	s := Sample{Timestamp: base + delta}
	switch dataType {
	case DataTypeVariableEncodedHistogram:
		length, err := r.ReadUvarint64()
		if err != nil {
			return Sample{}, fmt.Errorf("failed to decode histogram length: %w", err)
		}
		if length > stream.MaxStringLen {
			return Sample{}, fmt.Errorf("histogram length %d exceeds limit", length)
		}
		raw := make([]byte, length)
		if _, err := io.ReadFull(r, raw); err != nil {
			return Sample{}, fmt.Errorf("failed to decode histogram bytes: %w", err)
		}
		s.Raw = raw
	default:
		value, err := r.ReadUvarint64()
		if err != nil {
			return Sample{}, fmt.Errorf("failed to decode sample value: %w", err)
		}
		s.Value = value
	}
	return s, nil
}
