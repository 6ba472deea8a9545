package block

import (
	"fmt"

	"github.com/perfdata/blockstore/stream"
)

// SourceDescriptor identifies one contributor whose samples were merged
// into a block. It carries its own byte-exact encode/decode pair so the
// header codec can nest it without knowing its layout.
type SourceDescriptor struct {
	ID string
}

// EncodeTo writes the descriptor to w.
func (s SourceDescriptor) EncodeTo(w *stream.Writer) error {
	if err := w.WriteString(s.ID); err != nil {
		return fmt.Errorf("failed to encode source id: %w", err)
	}
	return nil
}

// DecodeSourceDescriptor reads one descriptor from r.
func DecodeSourceDescriptor(r *stream.Reader) (SourceDescriptor, error) {
	id, err := r.ReadString()
	if err != nil {
		return SourceDescriptor{}, fmt.Errorf("failed to decode source id: %w", err)
	}
	return SourceDescriptor{ID: id}, nil
}
