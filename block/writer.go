package block

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/perfdata/blockstore/core"
	"github.com/perfdata/blockstore/stream"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// WriterOptions holds all parameters for building a new block file.
type WriterOptions struct {
	DataDir    string
	Seq        uint64 // sequence number used for the final file name
	Name       string // metric name recorded in the data header
	DataType   DataType
	Sources    []SourceDescriptor
	Dimensions *DimensionSet
	Compressor core.Compressor
	Tracer     trace.Tracer
	Logger     *slog.Logger
}

// Writer builds one block file. Samples are buffered in memory and the file
// is written on Finish: file header, data header, then the compressed
// payload. The file appears under its final name only after a successful
// Finish, so readers never observe a partially written block.
type Writer struct {
	mu sync.Mutex

	opts         WriterOptions
	tempFilePath string
	samples      []Sample
	minTs, maxTs int64
	finished     bool

	logger *slog.Logger
}

// NewWriter creates a writer for one block. The data directory must exist.
func NewWriter(opts WriterOptions) (*Writer, error) {
	if opts.Name == "" {
		return nil, ErrEmptyName
	}
	if opts.Dimensions == nil {
		return nil, ErrNilDimensions
	}
	if opts.Compressor == nil {
		return nil, fmt.Errorf("block writer requires a compressor")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "BlockWriter", "block_seq", opts.Seq)

	return &Writer{
		opts:         opts,
		tempFilePath: filepath.Join(opts.DataDir, fmt.Sprintf("%d%s", opts.Seq, core.TempFileSuffix)),
		logger:       logger,
	}, nil
}

// Append buffers one sample for the block.
func (w *Writer) Append(s Sample) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.finished {
		return core.ErrClosed
	}
	if len(w.samples) == 0 || s.Timestamp < w.minTs {
		w.minTs = s.Timestamp
	}
	if len(w.samples) == 0 || s.Timestamp > w.maxTs {
		w.maxTs = s.Timestamp
	}
	w.samples = append(w.samples, s)
	return nil
}

// Finish encodes the headers and the compressed payload, syncs the file and
// renames it into place. It returns the final file path.
func (w *Writer) Finish(ctx context.Context) (path string, err error) {
	var span trace.Span
	if w.opts.Tracer != nil {
		_, span = w.opts.Tracer.Start(ctx, "BlockWriter.Finish")
		defer span.End()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.finished {
		return "", core.ErrClosed
	}
	w.finished = true

	header, err := NewPersistedDataHeader(
		w.opts.Name,
		millisTime(w.minTs),
		millisTime(w.maxTs),
		w.opts.DataType,
		w.opts.Sources,
		w.opts.Dimensions,
		uint32(len(w.samples)),
	)
	if err != nil {
		return "", err
	}

	// Encode the payload before touching the file so a payload error leaves
	// no temp file behind.
	payload := core.BufferPool.Get()
	defer core.BufferPool.Put(payload)
	pw := stream.NewWriter(payload)
	base := header.StartTime.UnixMilli()
	for _, s := range w.samples {
		if err := s.encodeTo(pw, base, w.opts.DataType); err != nil {
			return "", err
		}
	}

	compressed := core.BufferPool.Get()
	defer core.BufferPool.Put(compressed)
	if err := w.opts.Compressor.CompressTo(compressed, payload.Bytes()); err != nil {
		return "", fmt.Errorf("failed to compress block payload: %w", err)
	}

	file, err := os.Create(w.tempFilePath)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary block file %s: %w", w.tempFilePath, err)
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(w.tempFilePath)
			if span != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
		}
	}()

	fileHeader := core.NewFileHeader(w.opts.Compressor.Type())
	if err = fileHeader.Encode(file); err != nil {
		return "", err
	}

	sw := stream.NewWriter(file)
	if err = header.EncodeTo(sw); err != nil {
		return "", fmt.Errorf("failed to encode block data header: %w", err)
	}
	if _, err = sw.Write(compressed.Bytes()); err != nil {
		return "", fmt.Errorf("failed to write block payload: %w", err)
	}

	if err = file.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync block file: %w", err)
	}
	if err = file.Close(); err != nil {
		return "", fmt.Errorf("failed to close block file: %w", err)
	}

	finalPath := filepath.Join(w.opts.DataDir, core.FormatBlockFileName(w.opts.Seq))
	if err = os.Rename(w.tempFilePath, finalPath); err != nil {
		return "", fmt.Errorf("failed to rename block file into place: %w", err)
	}

	if span != nil {
		span.SetAttributes(
			attribute.String("block.path", finalPath),
			attribute.Int("block.samples", len(w.samples)),
			attribute.Int64("block.header_bytes", int64(header.SerializedSize())),
		)
	}
	w.logger.Debug("finished block file",
		"path", finalPath,
		"samples", len(w.samples),
		"header_bytes", header.SerializedSize(),
		"payload_bytes", compressed.Len(),
		"compression", w.opts.Compressor.Type().String())

	return finalPath, nil
}

// Abort discards the writer and removes its temp file if one exists.
func (w *Writer) Abort() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.finished = true
	w.samples = nil
	if err := os.Remove(w.tempFilePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
