// Package block implements the persisted metric block format: the binary
// data header that prefixes every block of time-series samples, and the
// writer/reader pair that produces and consumes whole block files.
package block

// DataType tags the kind of payload elements stored in a block.
type DataType int32

const (
	// DataTypeHitCount marks a payload of monotonic hit counters.
	DataTypeHitCount DataType = 0
	// DataTypeVariableEncodedHistogram marks a payload of variable-length
	// encoded histogram snapshots.
	DataTypeVariableEncodedHistogram DataType = 1
	// DataTypeUnknown absorbs tags written by newer format versions. It is
	// a valid decoded value, never a decode error.
	DataTypeUnknown DataType = 2
)

// DataTypeFromOrdinal maps a wire ordinal to a DataType. Unrecognized
// ordinals map to DataTypeUnknown so headers written by newer versions of
// the tool still decode.
func DataTypeFromOrdinal(ordinal int32) DataType {
	switch DataType(ordinal) {
	case DataTypeHitCount, DataTypeVariableEncodedHistogram, DataTypeUnknown:
		return DataType(ordinal)
	default:
		return DataTypeUnknown
	}
}

// Ordinal returns the wire representation of the DataType.
func (dt DataType) Ordinal() int32 {
	return int32(dt)
}

// String returns the string representation of the DataType.
func (dt DataType) String() string {
	switch dt {
	case DataTypeHitCount:
		return "hit_count"
	case DataTypeVariableEncodedHistogram:
		return "variable_encoded_histogram"
	default:
		return "unknown"
	}
}
