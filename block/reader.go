package block

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/perfdata/blockstore/compressors"
	"github.com/perfdata/blockstore/core"
	"github.com/perfdata/blockstore/stream"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ReaderOptions holds all parameters for opening a block file.
type ReaderOptions struct {
	FilePath string
	Tracer   trace.Tracer
	Logger   *slog.Logger
}

// Reader provides access to one block file. Open validates the file header
// and decodes the data header eagerly; the payload is decoded on demand.
// The data header's serialized size tells the reader where the payload
// starts, so no re-parsing or scanning is needed.
type Reader struct {
	mu sync.Mutex

	filePath      string
	file          *os.File
	fileHeader    core.FileHeader
	header        *PersistedDataHeader
	payloadOffset int64
	closed        bool

	tracer trace.Tracer
	logger *slog.Logger
}

// Open opens a block file and decodes its headers.
func Open(opts ReaderOptions) (rd *Reader, err error) {
	var span trace.Span
	if opts.Tracer != nil {
		_, span = opts.Tracer.Start(context.Background(), "BlockReader.Open")
		span.SetAttributes(attribute.String("block.path", opts.FilePath))
		defer span.End()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "BlockReader")

	file, err := os.Open(opts.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open block file %s: %w", opts.FilePath, err)
	}
	defer func() {
		if err != nil {
			file.Close()
		}
	}()

	fileHeader, err := core.ReadFileHeader(file)
	if err != nil {
		return nil, fmt.Errorf("block file %s: %w", opts.FilePath, err)
	}

	sr := stream.NewReader(file)
	header, err := DecodePersistedDataHeader(sr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data header of %s: %w", opts.FilePath, err)
	}

	return &Reader{
		filePath:      opts.FilePath,
		file:          file,
		fileHeader:    fileHeader,
		header:        header,
		payloadOffset: int64(fileHeader.Size()) + int64(header.SerializedSize()),
		tracer:        opts.Tracer,
		logger:        logger,
	}, nil
}

// Header returns the decoded data header of the block.
func (r *Reader) Header() *PersistedDataHeader {
	return r.header
}

// Compression returns the compression tag recorded in the file header.
func (r *Reader) Compression() core.CompressionType {
	return r.fileHeader.Compression
}

// Samples decodes the block payload and returns exactly DataCount samples.
// It does not cross-check the declared count against trailing payload
// bytes; that is the storage engine's call to make.
func (r *Reader) Samples() ([]Sample, error) {
	var span trace.Span
	if r.tracer != nil {
		_, span = r.tracer.Start(context.Background(), "BlockReader.Samples")
		span.SetAttributes(
			attribute.String("block.path", r.filePath),
			attribute.Int64("block.data_count", int64(r.header.DataCount)),
		)
		defer span.End()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, core.ErrClosed
	}

	if _, err := r.file.Seek(r.payloadOffset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to block payload: %w", err)
	}
	compressed, err := io.ReadAll(r.file)
	if err != nil {
		return nil, fmt.Errorf("failed to read block payload: %w", err)
	}

	compressor, err := compressors.GetCompressor(r.fileHeader.Compression)
	if err != nil {
		return nil, err
	}
	rc, err := compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress block payload: %w", err)
	}
	defer rc.Close()

	payload, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read decompressed payload: %w", err)
	}

	sr := stream.NewReader(bytes.NewReader(payload))
	base := r.header.StartTime.UnixMilli()
	samples := make([]Sample, 0, r.header.DataCount)
	for i := uint32(0); i < r.header.DataCount; i++ {
		s, err := decodeSample(sr, base, r.header.DataType)
		if err != nil {
			return nil, fmt.Errorf("failed to decode sample %d of %d: %w", i, r.header.DataCount, err)
		}
		samples = append(samples, s)
	}
	r.logger.Debug("decoded block payload",
		"path", r.filePath,
		"samples", len(samples),
		"compressed_bytes", len(compressed),
		"payload_bytes", len(payload))
	return samples, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}
