package block

import (
	"fmt"

	"github.com/perfdata/blockstore/stream"
)

// DimensionSet records the ordered dimension names by which payload samples
// are keyed. Order is significant and preserved across a round trip.
type DimensionSet struct {
	Names []string
}

// NewDimensionSet creates a DimensionSet over the given dimension names.
func NewDimensionSet(names ...string) *DimensionSet {
	return &DimensionSet{Names: names}
}

// EncodeTo writes the dimension set to w as a count followed by each name.
func (d *DimensionSet) EncodeTo(w *stream.Writer) error {
	if err := w.WriteVarint32(int32(len(d.Names))); err != nil {
		return fmt.Errorf("failed to encode dimension count: %w", err)
	}
	for _, name := range d.Names {
		if err := w.WriteString(name); err != nil {
			return fmt.Errorf("failed to encode dimension %q: %w", name, err)
		}
	}
	return nil
}

// DecodeDimensionSet reads one dimension set from r.
func DecodeDimensionSet(r *stream.Reader) (*DimensionSet, error) {
	count, err := r.ReadVarint32()
	if err != nil {
		return nil, fmt.Errorf("failed to decode dimension count: %w", err)
	}
	if count < 0 {
		return nil, fmt.Errorf("negative dimension count %d", count)
	}
	d := &DimensionSet{}
	if count > 0 {
		d.Names = make([]string, 0, count)
	}
	for i := int32(0); i < count; i++ {
		name, err := r.ReadString()
		if err != nil {
			return nil, fmt.Errorf("failed to decode dimension %d: %w", i, err)
		}
		d.Names = append(d.Names, name)
	}
	return d, nil
}

// Equal reports whether two dimension sets have the same names in the same
// order.
func (d *DimensionSet) Equal(other *DimensionSet) bool {
	if other == nil || len(d.Names) != len(other.Names) {
		return false
	}
	for i, name := range d.Names {
		if other.Names[i] != name {
			return false
		}
	}
	return true
}
