package block

import (
	"errors"
	"fmt"
	"time"

	"github.com/perfdata/blockstore/stream"
)

// PersistedDataHeader describes one persisted block of metric samples: what
// the block contains, which sources contributed to it, how its payload is
// keyed, and how many payload elements follow the header in the stream.
//
// The wire layout is, in order: name (length-prefixed string), start and end
// timestamps (signed varint, milliseconds since epoch, UTC), data type
// ordinal (signed varint), source count (signed varint) followed by each
// source descriptor, the dimension set, and the data count (unsigned
// varint). Writer and reader must agree on this order byte for byte; any
// drift silently corrupts every block written afterwards.
type PersistedDataHeader struct {
	Name       string
	StartTime  time.Time
	EndTime    time.Time
	DataType   DataType
	Sources    []SourceDescriptor
	Dimensions *DimensionSet
	DataCount  uint32

	// serializedSize is the exact number of bytes the header occupied in
	// the stream during the most recent EncodeTo or decode. It is zero
	// until one of those has run.
	serializedSize uint64
}

var (
	// ErrEmptyName is returned when constructing a header without a metric name.
	ErrEmptyName = errors.New("header name must not be empty")
	// ErrNilDimensions is returned when constructing a header without a dimension set.
	ErrNilDimensions = errors.New("header dimension set must not be nil")
)

// NewPersistedDataHeader constructs a header from explicit field values.
// Timestamps are normalized to UTC with millisecond resolution; sub-millisecond
// precision and time-zone offsets are not preserved by the format. The
// sources slice is copied so later mutation by the caller cannot corrupt the
// header. The serialized size stays zero until EncodeTo runs.
//
// No end >= start check and no payload cross-check is performed; both are
// the storage engine's responsibility.
func NewPersistedDataHeader(name string, start, end time.Time, dataType DataType, sources []SourceDescriptor, dimensions *DimensionSet, dataCount uint32) (*PersistedDataHeader, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if dimensions == nil {
		return nil, ErrNilDimensions
	}
	owned := make([]SourceDescriptor, len(sources))
	copy(owned, sources)
	return &PersistedDataHeader{
		Name:       name,
		StartTime:  normalizeMillis(start),
		EndTime:    normalizeMillis(end),
		DataType:   dataType,
		Sources:    owned,
		Dimensions: dimensions,
		DataCount:  dataCount,
	}, nil
}

// normalizeMillis truncates t to millisecond resolution at zero UTC offset,
// matching what a round trip through the wire format produces.
func normalizeMillis(t time.Time) time.Time {
	return millisTime(t.UnixMilli())
}

// millisTime converts a millisecond epoch timestamp to a UTC instant.
func millisTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// EncodeTo writes the header to w and records the exact number of bytes
// produced. On failure the error from the underlying writer propagates
// unchanged and the recorded size is stale; the header must then be treated
// as unusable.
func (h *PersistedDataHeader) EncodeTo(w *stream.Writer) error {
	start := w.BytesWritten()

	if err := w.WriteString(h.Name); err != nil {
		return err
	}
	if err := w.WriteVarint64(h.StartTime.UnixMilli()); err != nil {
		return err
	}
	if err := w.WriteVarint64(h.EndTime.UnixMilli()); err != nil {
		return err
	}
	if err := w.WriteVarint32(h.DataType.Ordinal()); err != nil {
		return err
	}
	if err := w.WriteVarint32(int32(len(h.Sources))); err != nil {
		return err
	}
	for _, src := range h.Sources {
		if err := src.EncodeTo(w); err != nil {
			return err
		}
	}
	if err := h.Dimensions.EncodeTo(w); err != nil {
		return err
	}
	if err := w.WriteUvarint32(h.DataCount); err != nil {
		return err
	}

	h.serializedSize = w.BytesWritten() - start
	return nil
}

// DecodePersistedDataHeader reads one header from r, field for field in the
// exact order EncodeTo writes them. A header is either fully decoded or not
// produced at all: any failure, including one inside a nested source or
// dimension decode, propagates unchanged. An unrecognized data type ordinal
// is not a failure; it decodes to DataTypeUnknown.
func DecodePersistedDataHeader(r *stream.Reader) (*PersistedDataHeader, error) {
	start := r.BytesRead()

	name, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	startMillis, err := r.ReadVarint64()
	if err != nil {
		return nil, err
	}
	endMillis, err := r.ReadVarint64()
	if err != nil {
		return nil, err
	}
	ordinal, err := r.ReadVarint32()
	if err != nil {
		return nil, err
	}
	sourceCount, err := r.ReadVarint32()
	if err != nil {
		return nil, err
	}
	if sourceCount < 0 {
		return nil, fmt.Errorf("negative source count %d", sourceCount)
	}
	var sources []SourceDescriptor
	if sourceCount > 0 {
		sources = make([]SourceDescriptor, 0, sourceCount)
	}
	for i := int32(0); i < sourceCount; i++ {
		src, err := DecodeSourceDescriptor(r)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	dimensions, err := DecodeDimensionSet(r)
	if err != nil {
		return nil, err
	}
	dataCount, err := r.ReadUvarint32()
	if err != nil {
		return nil, err
	}

	return &PersistedDataHeader{
		Name:           name,
		StartTime:      millisTime(startMillis),
		EndTime:        millisTime(endMillis),
		DataType:       DataTypeFromOrdinal(ordinal),
		Sources:        sources,
		Dimensions:     dimensions,
		DataCount:      dataCount,
		serializedSize: r.BytesRead() - start,
	}, nil
}

// SerializedSize returns the exact number of bytes the header occupied in
// the stream during the most recent encode or decode, or zero if neither
// has run. Callers use it to locate the payload that follows the header.
func (h *PersistedDataHeader) SerializedSize() uint64 {
	return h.serializedSize
}

// Equal reports whether two headers carry the same logical field values.
// The serialized size is derived bookkeeping, not identity, and is ignored.
func (h *PersistedDataHeader) Equal(other *PersistedDataHeader) bool {
	if other == nil {
		return false
	}
	if h.Name != other.Name ||
		!h.StartTime.Equal(other.StartTime) ||
		!h.EndTime.Equal(other.EndTime) ||
		h.DataType != other.DataType ||
		h.DataCount != other.DataCount {
		return false
	}
	if len(h.Sources) != len(other.Sources) {
		return false
	}
	for i, src := range h.Sources {
		if other.Sources[i] != src {
			return false
		}
	}
	return h.Dimensions.Equal(other.Dimensions)
}
